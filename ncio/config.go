package ncio

import (
	"fmt"

	"github.com/hydroio/ncseries/compress"
	"github.com/hydroio/ncseries/format"
	"github.com/hydroio/ncseries/internal/options"
	"github.com/hydroio/ncseries/timegrid"
)

// Schema maps the logical names of the mapping layer to the on-disk names of
// dimensions and variables, and carries the fill sentinel and file extension.
//
// All sessions of one dataset must share one schema; it replaces any notion
// of process-wide mutable name tables.
type Schema struct {
	// TimeDim is the on-disk name of the time dimension.
	TimeDim string
	// SubdeviceDim is the on-disk name of the row dimension.
	SubdeviceDim string
	// CharDim is the on-disk name of the row-label width dimension.
	CharDim string
	// TimeVar is the on-disk name of the time coordinate variable.
	TimeVar string
	// SubdeviceVar is the on-disk name of the row-label coordinate variable.
	SubdeviceVar string
	// FillValue pads cells beyond a device's true extent.
	FillValue float64
	// Extension is appended to file keys to form filenames.
	Extension string
}

// DefaultSchema returns the conventional naming: time/stations/char_leng_name
// dimensions, time/station_names variables, -999.0 fill, ".nc" files.
func DefaultSchema() Schema {
	return Schema{
		TimeDim:      "time",
		SubdeviceDim: "stations",
		CharDim:      "char_leng_name",
		TimeVar:      "time",
		SubdeviceVar: "station_names",
		FillValue:    -999.0,
		Extension:    ".nc",
	}
}

func (s Schema) validate() error {
	for _, f := range []struct{ name, value string }{
		{"TimeDim", s.TimeDim},
		{"SubdeviceDim", s.SubdeviceDim},
		{"CharDim", s.CharDim},
		{"TimeVar", s.TimeVar},
		{"SubdeviceVar", s.SubdeviceVar},
		{"Extension", s.Extension},
	} {
		if f.value == "" {
			return fmt.Errorf("ncio: schema field %s must not be empty", f.name)
		}
	}

	return nil
}

// Config holds everything a session needs: naming schema, layout policies,
// base directories, at-rest compression, and the global write window.
type Config struct {
	Schema      Schema
	Flatten     bool
	Isolate     bool
	Compression format.CompressionType
	TimeUnit    string
	Grid        *timegrid.Timegrid

	// NodeDir receives files whose key contains "node"; InputDir is searched
	// on read and OutputDir written on write for all other keys.
	NodeDir   string
	InputDir  string
	OutputDir string
}

func newConfig() *Config {
	return &Config{
		Schema:      DefaultSchema(),
		Compression: format.CompressionNone,
		TimeUnit:    timegrid.DefaultUnit,
		NodeDir:     ".",
		InputDir:    ".",
		OutputDir:   ".",
	}
}

// Option configures a Session at construction time.
type Option = options.Option[*Config]

// WithFlatten unrolls spatial axes into additional rows.
func WithFlatten(flatten bool) Option {
	return options.NoError(func(c *Config) {
		c.Flatten = flatten
	})
}

// WithIsolate gives each logical quantity its own physical file.
func WithIsolate(isolate bool) Option {
	return options.NoError(func(c *Config) {
		c.Isolate = isolate
	})
}

// WithSchema replaces the default on-disk naming schema.
func WithSchema(schema Schema) Option {
	return options.New(func(c *Config) error {
		if err := schema.validate(); err != nil {
			return err
		}
		c.Schema = schema

		return nil
	})
}

// WithFillValue overrides the fill sentinel of the default schema.
func WithFillValue(fill float64) Option {
	return options.NoError(func(c *Config) {
		c.Schema.FillValue = fill
	})
}

// WithCompression selects the at-rest compression of written files.
// Reading detects the compression from the file itself.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return err
		}
		c.Compression = compression

		return nil
	})
}

// WithTimeUnit sets the step unit of written time axes (default "hours").
func WithTimeUnit(unit string) Option {
	return options.New(func(c *Config) error {
		if err := timegrid.ValidateUnit(unit); err != nil {
			return err
		}
		c.TimeUnit = unit

		return nil
	})
}

// WithDirectories sets the three base directories for node, read, and write
// files.
func WithDirectories(node, input, output string) Option {
	return options.New(func(c *Config) error {
		if node == "" || input == "" || output == "" {
			return fmt.Errorf("ncio: base directories must not be empty")
		}
		c.NodeDir = node
		c.InputDir = input
		c.OutputDir = output

		return nil
	})
}

// WithTimegrid sets the global simulation window required for writing.
func WithTimegrid(grid *timegrid.Timegrid) Option {
	return options.New(func(c *Config) error {
		if grid == nil {
			return fmt.Errorf("ncio: timegrid must not be nil")
		}
		c.Grid = grid

		return nil
	})
}
