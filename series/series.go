// Package series models the in-memory side of the transfer: one named,
// device-scoped time series (Series) and the value block scheduled for
// writing (Array), which is either the series' own data or an externally
// aggregated variant of it.
//
// A Series owns a contiguous time-major float64 block: the value of spatial
// cell (i1,...,iR) at step t lives at t*width + row-major offset of the cell,
// where width is the product of the spatial extents.
package series

import (
	"fmt"

	"github.com/hydroio/ncseries/errs"
	"github.com/hydroio/ncseries/timegrid"
)

// Unmodified tags a logged array holding the series' own data. Any other
// kind marks a write-only spatial aggregation (e.g. "mean").
const Unmodified = "unmodified"

// Series is one named quantity owned by one device.
type Series struct {
	device   string
	category string
	name     string
	node     bool
	shape    []int
	grid     *timegrid.Timegrid
	values   []float64
}

// Array is a value block scheduled for writing, tagged with the kind of
// modification applied to it.
type Array struct {
	// Kind is Unmodified or the aggregation kind that produced the values.
	Kind string
	// Values is the time-major block.
	Values []float64
	// Shape holds the spatial extents of the block; empty for aggregated
	// (rank-0) blocks.
	Shape []int
}

// Aggregated reports whether the array holds aggregated, write-only data.
func (a *Array) Aggregated() bool {
	return a != nil && a.Kind != Unmodified
}

// New creates a series for a modeled element.
//
// category is the device-category discriminator (typically the model type)
// that routes the series to its file; shape lists the spatial extents and may
// be empty for scalar series. The value block is allocated zeroed, sized to
// the grid.
func New(device, category, name string, shape []int, grid *timegrid.Timegrid) (*Series, error) {
	return newSeries(device, category, name, false, shape, grid)
}

// NewNode creates a scalar series anchored at a network node.
func NewNode(device, name string, grid *timegrid.Timegrid) (*Series, error) {
	return newSeries(device, "node", name, true, nil, grid)
}

func newSeries(device, category, name string, node bool, shape []int, grid *timegrid.Timegrid) (*Series, error) {
	if device == "" || name == "" {
		return nil, fmt.Errorf("series: device and name must not be empty")
	}
	if !node && category == "" {
		return nil, fmt.Errorf("series: category must not be empty for %q", device)
	}
	if grid == nil {
		return nil, fmt.Errorf("series: no timegrid given for %q of device %q", name, device)
	}
	for i, n := range shape {
		if n <= 0 {
			return nil, fmt.Errorf("series: extent %d of %q must be positive, got %d", i, name, n)
		}
	}
	s := &Series{
		device:   device,
		category: category,
		name:     name,
		node:     node,
		shape:    append([]int(nil), shape...),
		grid:     grid,
	}
	s.values = make([]float64, grid.Len()*s.Width())

	return s, nil
}

// Device returns the owning device's unique name.
func (s *Series) Device() string { return s.device }

// Category returns the device-category discriminator.
func (s *Series) Category() string { return s.category }

// Name returns the quantity base name.
func (s *Series) Name() string { return s.name }

// IsNode reports whether the series is node-anchored.
func (s *Series) IsNode() bool { return s.node }

// Grid returns the simulation window the series covers.
func (s *Series) Grid() *timegrid.Timegrid { return s.grid }

// Shape returns a copy of the spatial extents.
func (s *Series) Shape() []int { return append([]int(nil), s.shape...) }

// Rank returns the number of spatial axes.
func (s *Series) Rank() int { return len(s.shape) }

// Width returns the number of spatial cells per time step (1 for rank 0).
func (s *Series) Width() int {
	w := 1
	for _, n := range s.shape {
		w *= n
	}

	return w
}

// Values returns the series' backing block. The slice is live: mutations are
// visible to the series.
func (s *Series) Values() []float64 { return s.values }

// SetValues replaces the block with a copy of vals.
func (s *Series) SetValues(vals []float64) error {
	if len(vals) != len(s.values) {
		return fmt.Errorf("%w: series %q of device %q holds %d values, got %d",
			errs.ErrShapeMismatch, s.name, s.device, len(s.values), len(vals))
	}
	copy(s.values, vals)

	return nil
}

// At returns the value of the given spatial cell at the given step.
// It panics on out-of-range indices, mirroring slice access.
func (s *Series) At(step int, idx ...int) float64 {
	if len(idx) != len(s.shape) {
		panic(fmt.Sprintf("series: got %d spatial indices for rank-%d series %q", len(idx), len(s.shape), s.name))
	}
	cell := 0
	for axis, i := range idx {
		cell = cell*s.shape[axis] + i
	}

	return s.values[step*s.Width()+cell]
}

// Unmodified returns the series' own block scheduled for writing, tagged
// accordingly.
func (s *Series) Unmodified() *Array {
	return &Array{
		Kind:   Unmodified,
		Values: append([]float64(nil), s.values...),
		Shape:  s.Shape(),
	}
}

// Mean returns the spatial mean per time step as a write-only aggregated
// array. Averaging a scalar series is allowed for consistency and returns
// its plain values.
func (s *Series) Mean() *Array {
	w := s.Width()
	out := make([]float64, s.grid.Len())
	for t := range out {
		sum := 0.0
		for c := 0; c < w; c++ {
			sum += s.values[t*w+c]
		}
		out[t] = sum / float64(w)
	}

	return &Array{Kind: "mean", Values: out}
}

// AdjustSeries realigns raw file data to the series' own window and stores
// the overlapping steps.
//
// raw must be the series' complete block over dataGrid (time-major, the
// series' spatial width per step). The series' window must use the same step
// size and be fully covered by dataGrid.
func (s *Series) AdjustSeries(dataGrid *timegrid.Timegrid, raw []float64) error {
	if dataGrid == nil {
		return fmt.Errorf("%w: no data timegrid given for series %q of device %q",
			errs.ErrGridMismatch, s.name, s.device)
	}
	w := s.Width()
	if len(raw) != dataGrid.Len()*w {
		return fmt.Errorf("%w: series %q of device %q expects %d raw values over the data window, got %d",
			errs.ErrShapeMismatch, s.name, s.device, dataGrid.Len()*w, len(raw))
	}
	if dataGrid.Step() != s.grid.Step() {
		return fmt.Errorf("%w: series %q of device %q uses a step of %v, the file uses %v",
			errs.ErrGridMismatch, s.name, s.device, s.grid.Step(), dataGrid.Step())
	}
	offset, err := dataGrid.Index(s.grid.First())
	if err != nil {
		return fmt.Errorf("aligning series %q of device %q: %w", s.name, s.device, err)
	}
	if offset+s.grid.Len() > dataGrid.Len() {
		return fmt.Errorf("%w: the window of series %q of device %q exceeds the file data by %d step(s)",
			errs.ErrGridMismatch, s.name, s.device, offset+s.grid.Len()-dataGrid.Len())
	}
	copy(s.values, raw[offset*w:(offset+s.grid.Len())*w])

	return nil
}
