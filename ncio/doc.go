// Package ncio maps device-scoped simulation time series onto NetCDF files.
//
// A Session is the unit of work: it is created empty for either reading or
// writing, populated by Log calls that route each quantity to a File and a
// Variable according to the flatten/isolate policies, and finalized by a
// single Read or Write call that performs all file I/O. Afterwards the
// session is discarded.
//
// Layout policies:
//   - flatten: spatial axes are unrolled into additional rows instead of
//     array dimensions, one row per (device, spatial index) pair.
//   - isolate: every logical quantity gets its own physical file, and its
//     dimension and coordinate names drop the quantity prefix.
//
// Reading a file requires the same policies it was written with; the layout
// is not inferred from file contents.
package ncio
