// Package ncseries transfers device-scoped simulation time series between
// in-memory value blocks and NetCDF files.
//
// Each modeled device (a catchment element or a network node) owns named time
// series over an equidistant simulation window. A Session collects the series
// that take part in one transfer, routes each to a file and an array variable
// according to two layout policies, and then performs all file I/O in a
// single Read or Write call.
//
// # Core Features
//
//   - Deterministic routing of series to files by device category, with the
//     isolate policy splitting files per quantity
//   - Three array layouts: deep (spatial axes as padded dimensions), flat
//     (spatial cells as labeled rows), aggregated (one value per device)
//   - Write-only spatial aggregation (e.g. the per-step mean)
//   - CF-convention time axes ("hours since 2000-01-01 00:00:00")
//   - Atomic file creation via staging files
//   - Optional at-rest compression (Zstd, S2, LZ4) with xxHash64 integrity
//
// # Basic Usage
//
// Writing:
//
//	import "github.com/hydroio/ncseries"
//
//	grid, _ := timegrid.New(first, time.Hour, 24)
//	sq, _ := series.New("basin_1", "hland_96", "precipitation", nil, grid)
//	// ... fill sq.Values() from the simulation ...
//
//	session, _ := ncseries.NewWriter(grid, ncio.WithFlatten(true))
//	session.Log(sq, nil)              // the series' own values
//	session.Log(sq, sq.Mean())        // plus its spatial mean
//	err := session.Write()
//
// Reading back:
//
//	session, _ = ncseries.NewReader(ncio.WithFlatten(true))
//	session.Log(sq, nil)
//	err = session.Read()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the ncio
// package, simplifying the most common use cases. For fine-grained control
// over schemas, directories, and layouts, use the ncio package directly.
package ncseries

import (
	"github.com/hydroio/ncseries/ncio"
	"github.com/hydroio/ncseries/timegrid"
)

// NewReader creates a session for transferring file data into logged series.
//
// Reading reconstructs each file's time window from its time coordinate, so
// no simulation window is required up front. The layout options must match
// the ones the files were written with.
//
// Parameters:
//   - opts: Optional configuration functions (see ncio.Option)
//
// Returns:
//   - *ncio.Session: The created session.
//   - error: An error if the configuration is invalid.
//
// Example:
//
//	session, err := ncseries.NewReader(
//	    ncio.WithFlatten(true),
//	    ncio.WithDirectories("nodes", "input", "output"),
//	)
func NewReader(opts ...ncio.Option) (*ncio.Session, error) {
	return ncio.NewSession(opts...)
}

// NewWriter creates a session for transferring logged series into files.
//
// The grid fixes the time axis of every written file; all logged series must
// cover it.
//
// Parameters:
//   - grid: The simulation window shared by all written files
//   - opts: Optional configuration functions (see ncio.Option)
//
// Returns:
//   - *ncio.Session: The created session.
//   - error: An error if the configuration is invalid.
//
// Example:
//
//	session, err := ncseries.NewWriter(grid,
//	    ncio.WithIsolate(true),
//	    ncio.WithCompression(format.CompressionZstd),
//	)
func NewWriter(grid *timegrid.Timegrid, opts ...ncio.Option) (*ncio.Session, error) {
	allOpts := append([]ncio.Option{ncio.WithTimegrid(grid)}, opts...)

	return ncio.NewSession(allOpts...)
}
