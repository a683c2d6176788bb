package ncio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hydroio/ncseries/errs"
	"github.com/hydroio/ncseries/series"
	"github.com/hydroio/ncseries/timegrid"
)

// File gathers the variables routed to one physical file and performs the
// actual transfer for all of them at once.
type File struct {
	name string
	cfg  *Config

	order []string
	vars  map[string]*Variable
}

func newFile(name string, cfg *Config) *File {
	return &File{
		name: name,
		cfg:  cfg,
		vars: make(map[string]*Variable),
	}
}

// Name returns the file key (the filename without directory and extension).
func (f *File) Name() string { return f.name }

// Log routes the series to the variable it belongs to, creating the variable
// on first use.
//
// The variable key is the quantity name, extended by the aggregation kind for
// aggregated blocks. Aggregated blocks select the aggregated layout, plain
// blocks the flat or deep layout depending on the session policy. Mixing
// layouts under one key is rejected.
func (f *File) Log(sq *series.Series, arr *series.Array) error {
	key := sq.Name()
	kind := KindDeep
	if f.cfg.Flatten {
		kind = KindFlat
	}
	if arr.Aggregated() {
		key += "_" + arr.Kind
		kind = KindAgg
	}
	v, ok := f.vars[key]
	if !ok {
		v = newVariable(key, kind, f.cfg)
		f.vars[key] = v
		f.order = append(f.order, key)
	} else if v.kind != kind {
		return fmt.Errorf("%w: variable %q of file %q is %s, series %q of device %q requires %s",
			errs.ErrVariantMismatch, key, f.name, v.kind, sq.Name(), sq.Device(), kind)
	}
	v.Log(sq, arr)

	return nil
}

// VariableNames returns the registered variable keys in logging order.
func (f *File) VariableNames() []string {
	return append([]string(nil), f.order...)
}

// Variable returns the variable registered under the given key.
func (f *File) Variable(key string) (*Variable, error) {
	v, ok := f.vars[key]
	if !ok {
		known := append([]string(nil), f.order...)
		sort.Strings(known)
		return nil, fmt.Errorf("%w: file %q registers %v, not %q",
			errs.ErrUnknownVariable, f.name, known, key)
	}

	return v, nil
}

// ReadPath returns the path the file is read from.
func (f *File) ReadPath() string { return f.path(f.cfg.InputDir) }

// WritePath returns the path the file is written to.
func (f *File) WritePath() string { return f.path(f.cfg.OutputDir) }

// path joins the base directory and the filename. Node files always live in
// the node directory, regardless of transfer direction.
func (f *File) path(dir string) string {
	if strings.Contains(f.name, "node") {
		dir = f.cfg.NodeDir
	}

	return filepath.Join(dir, f.name+f.cfg.Schema.Extension)
}

// Read opens the file, reconstructs its time window from the time coordinate,
// and transfers all registered variables into their logged series.
func (f *File) Read() error {
	path := f.ReadPath()
	fr, err := openFileReader(path)
	if err != nil {
		return err
	}
	defer fr.close()

	dataGrid, err := f.queryTimegrid(fr)
	if err != nil {
		return err
	}
	for _, key := range f.order {
		if err := f.vars[key].read(fr, dataGrid); err != nil {
			return err
		}
	}

	return nil
}

// queryTimegrid parses the file's time coordinate into a grid.
func (f *File) queryTimegrid(fr *fileReader) (*timegrid.Timegrid, error) {
	nv, err := fr.variable(f.cfg.Schema.TimeVar)
	if err != nil {
		return nil, err
	}
	wrap := func(err error) (*timegrid.Timegrid, error) {
		return nil, fmt.Errorf("reconstructing the time window of file %q: %w", fr.path, err)
	}
	if nv.Attributes == nil {
		return wrap(fmt.Errorf("variable %q carries no attributes", f.cfg.Schema.TimeVar))
	}
	units, ok := nv.Attributes.Get("units")
	if !ok {
		return wrap(fmt.Errorf("variable %q carries no units attribute", f.cfg.Schema.TimeVar))
	}
	unitstr, ok := units.(string)
	if !ok {
		return wrap(fmt.Errorf("the units attribute of variable %q is no string, got %T",
			f.cfg.Schema.TimeVar, units))
	}
	unit, ref, err := timegrid.ParseCFUnits(unitstr)
	if err != nil {
		return wrap(err)
	}
	points, ok := nv.Values.([]float64)
	if !ok {
		return wrap(fmt.Errorf("variable %q does not hold a float64 vector, got %T",
			f.cfg.Schema.TimeVar, nv.Values))
	}
	grid, err := timegrid.FromTimepoints(points, ref, unit)
	if err != nil {
		return wrap(err)
	}

	return grid, nil
}

// Write creates the file with the given time axis and all registered
// variables. The file appears under its final path only after everything has
// been written; a failed write leaves no partial file behind.
func (f *File) Write(timeunit string, timepoints []float64) error {
	path := f.WritePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating the directory of file %q: %w", path, err)
	}
	staging := path + ".tmp"
	if err := f.writeStaging(staging, timeunit, timepoints); err != nil {
		os.Remove(staging)
		return err
	}
	if err := finalize(staging, path, f.cfg.Compression); err != nil {
		os.Remove(staging)
		return err
	}

	return nil
}

func (f *File) writeStaging(staging, timeunit string, timepoints []float64) error {
	fw, err := newFileWriter(staging)
	if err != nil {
		return err
	}
	if err := f.writeContent(fw, timeunit, timepoints); err != nil {
		fw.close()
		return err
	}

	return fw.close()
}

func (f *File) writeContent(fw *fileWriter, timeunit string, timepoints []float64) error {
	if err := fw.createDimension(f.cfg.Schema.TimeDim, len(timepoints)); err != nil {
		return err
	}
	err := fw.createVariable(f.cfg.Schema.TimeVar, []string{f.cfg.Schema.TimeDim},
		timepoints, []string{"units"}, map[string]any{"units": timeunit})
	if err != nil {
		return err
	}
	for _, key := range f.order {
		if err := f.vars[key].write(fw); err != nil {
			return err
		}
	}

	return nil
}
