package ncio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hydroio/ncseries/errs"
	"github.com/hydroio/ncseries/series"
	"github.com/hydroio/ncseries/timegrid"
)

// VariableKind selects the on-disk layout of one logical quantity.
type VariableKind uint8

const (
	// KindDeep keeps spatial axes as array dimensions, padded to the maximum
	// extents across devices.
	KindDeep VariableKind = iota + 1
	// KindAgg stores one aggregated value per device and step. Aggregated
	// data is write-only.
	KindAgg
	// KindFlat unrolls spatial axes into additional labeled rows.
	KindFlat
)

func (k VariableKind) String() string {
	switch k {
	case KindDeep:
		return "deep"
	case KindAgg:
		return "aggregated"
	case KindFlat:
		return "flat"
	default:
		return "invalid"
	}
}

// Variable gathers the logged entries of one logical quantity and writes or
// reads them as a single array variable.
type Variable struct {
	name    string
	kind    VariableKind
	isolate bool
	cfg     *Config

	order   []string
	entries map[string]*entry
}

type entry struct {
	sq  *series.Series
	arr *series.Array
}

func newVariable(name string, kind VariableKind, cfg *Config) *Variable {
	return &Variable{
		name:    name,
		kind:    kind,
		isolate: cfg.Isolate,
		cfg:     cfg,
		entries: make(map[string]*entry),
	}
}

// Name returns the on-disk name of the data variable.
func (v *Variable) Name() string { return v.name }

// Kind returns the on-disk layout of the variable.
func (v *Variable) Kind() VariableKind { return v.kind }

// Devices returns the logged device names in logging order.
func (v *Variable) Devices() []string {
	return append([]string(nil), v.order...)
}

// Log schedules the series (and the block actually meant for disk) for the
// next Read or Write. Logging a device twice replaces its earlier entry.
func (v *Variable) Log(sq *series.Series, arr *series.Array) {
	if _, ok := v.entries[sq.Device()]; !ok {
		v.order = append(v.order, sq.Device())
	}
	v.entries[sq.Device()] = &entry{sq: sq, arr: arr}
}

// prefix returns the quantity prefix of dimension and coordinate names,
// empty under the isolate policy.
func (v *Variable) prefix() string {
	if v.isolate {
		return ""
	}

	return v.name + "_"
}

// SubdeviceNames returns the row labels of the variable: the device names
// for the deep and aggregated layouts, one label per (device, spatial cell)
// pair for the flat layout.
func (v *Variable) SubdeviceNames() []string {
	if v.kind != KindFlat {
		return v.Devices()
	}
	var labels []string
	for _, device := range v.order {
		e := v.entries[device]
		if e.sq.Rank() == 0 {
			labels = append(labels, device)
			continue
		}
		for _, combo := range spatialCombos(e.sq.Shape()) {
			parts := make([]string, 0, len(combo)+1)
			parts = append(parts, device)
			for _, i := range combo {
				parts = append(parts, strconv.Itoa(i))
			}
			labels = append(labels, strings.Join(parts, "_"))
		}
	}

	return labels
}

// Dimensions returns the dimension names of the data variable in file order.
func (v *Variable) Dimensions() []string {
	dims := []string{v.prefix() + v.cfg.Schema.SubdeviceDim, v.cfg.Schema.TimeDim}
	if v.kind == KindDeep {
		for axis := range v.maxShape() {
			dims = append(dims, fmt.Sprintf("%saxis%d", v.prefix(), axis+3))
		}
	}

	return dims
}

// maxShape returns the elementwise maximum of the logged spatial extents,
// padded with ones for lower-rank devices.
func (v *Variable) maxShape() []int {
	var max []int
	for _, device := range v.order {
		for axis, n := range v.entries[device].sq.Shape() {
			if axis == len(max) {
				max = append(max, n)
			} else if n > max[axis] {
				max[axis] = n
			}
		}
	}

	return max
}

// values assembles the dense block of the data variable, row-major over
// Dimensions. Cells beyond a device's true extent hold the fill value.
func (v *Variable) values() ([]float64, []int, error) {
	steps := v.cfg.Grid.Len()
	checkLen := func(e *entry, width int) error {
		if len(e.arr.Values) != steps*width {
			return fmt.Errorf("%w: series %q of device %q covers %d values, the write window needs %d",
				errs.ErrGridMismatch, v.name, e.sq.Device(), len(e.arr.Values), steps*width)
		}

		return nil
	}
	switch v.kind {
	case KindAgg:
		shape := []int{len(v.order), steps}
		flat := make([]float64, shape[0]*shape[1])
		for row, device := range v.order {
			e := v.entries[device]
			if err := checkLen(e, 1); err != nil {
				return nil, nil, err
			}
			copy(flat[row*steps:], e.arr.Values)
		}

		return flat, shape, nil
	case KindFlat:
		rows := len(v.SubdeviceNames())
		shape := []int{rows, steps}
		flat := make([]float64, rows*steps)
		row := 0
		for _, device := range v.order {
			e := v.entries[device]
			width := blockWidth(e.arr.Shape)
			if err := checkLen(e, width); err != nil {
				return nil, nil, err
			}
			for cell := 0; cell < width; cell++ {
				for t := 0; t < steps; t++ {
					flat[row*steps+t] = e.arr.Values[t*width+cell]
				}
				row++
			}
		}

		return flat, shape, nil
	default:
		max := v.maxShape()
		maxWidth := blockWidth(max)
		shape := append([]int{len(v.order), steps}, max...)
		flat := make([]float64, len(v.order)*steps*maxWidth)
		for i := range flat {
			flat[i] = v.cfg.Schema.FillValue
		}
		for row, device := range v.order {
			e := v.entries[device]
			width := blockWidth(e.arr.Shape)
			if err := checkLen(e, width); err != nil {
				return nil, nil, err
			}
			combos := spatialCombos(e.arr.Shape)
			base := row * steps * maxWidth
			for t := 0; t < steps; t++ {
				for cell, combo := range combos {
					flat[base+t*maxWidth+rowMajorIndex(combo, max)] = e.arr.Values[t*width+cell]
				}
			}
		}

		return flat, shape, nil
	}
}

// write adds the variable's dimensions, row labels, and data to the file.
func (v *Variable) write(fw *fileWriter) error {
	flat, shape, err := v.values()
	if err != nil {
		return err
	}
	if err := v.insertSubdevices(fw); err != nil {
		return err
	}
	if v.kind == KindDeep {
		for axis, n := range v.maxShape() {
			dim := fmt.Sprintf("%saxis%d", v.prefix(), axis+3)
			if err := fw.createDimension(dim, n); err != nil {
				return err
			}
		}
	}

	return fw.createVariable(v.name, v.Dimensions(), nestFloats(flat, shape),
		[]string{"_FillValue"}, map[string]any{"_FillValue": v.cfg.Schema.FillValue})
}

// insertSubdevices creates the row dimension, the label-width dimension, and
// the coordinate variable holding the row labels.
func (v *Variable) insertSubdevices(fw *fileWriter) error {
	labels := v.SubdeviceNames()
	maxlen := 0
	for _, label := range labels {
		if len(label) > maxlen {
			maxlen = len(label)
		}
	}
	subdevDim := v.prefix() + v.cfg.Schema.SubdeviceDim
	charDim := v.prefix() + v.cfg.Schema.CharDim
	if err := fw.createDimension(subdevDim, len(labels)); err != nil {
		return err
	}
	if err := fw.createDimension(charDim, maxlen); err != nil {
		return err
	}

	return fw.createVariable(v.prefix()+v.cfg.Schema.SubdeviceVar,
		[]string{subdevDim, charDim}, labels, nil, nil)
}

// querySubdevices returns the row labels of the variable, trying the
// prefixed coordinate name first and the bare one second.
func (v *Variable) querySubdevices(fr *fileReader) ([]string, error) {
	prefixed := v.prefix() + v.cfg.Schema.SubdeviceVar
	tries := []string{prefixed, v.cfg.Schema.SubdeviceVar}
	for _, name := range tries {
		if !fr.hasVariable(name) {
			continue
		}
		nv, err := fr.variable(name)
		if err != nil {
			return nil, err
		}
		raw, ok := nv.Values.([]string)
		if !ok {
			return nil, fmt.Errorf("variable %q of file %q does not hold character rows, got %T",
				name, fr.path, nv.Values)
		}
		labels := make([]string, len(raw))
		for i, label := range raw {
			labels[i] = trimLabel(label)
		}

		return labels, nil
	}

	return nil, fmt.Errorf("%w: file %q contains neither %q nor %q",
		errs.ErrMissingCoordinate, fr.path, prefixed, v.cfg.Schema.SubdeviceVar)
}

// querySubdeviceIndex maps the file's row labels to their rows, rejecting
// duplicates.
func (v *Variable) querySubdeviceIndex(fr *fileReader) (*SubdeviceIndex, error) {
	labels, err := v.querySubdevices(fr)
	if err != nil {
		return nil, err
	}

	return newSubdeviceIndex(labels, v.prefix()+v.cfg.Schema.SubdeviceVar, fr.path)
}

// read transfers the file's data into the logged series, realigned to each
// series' own window.
func (v *Variable) read(fr *fileReader, dataGrid *timegrid.Timegrid) error {
	if v.kind == KindAgg {
		return fmt.Errorf("variable %q holds aggregated data: %w", v.name, errs.ErrNotInvertible)
	}
	si, err := v.querySubdeviceIndex(fr)
	if err != nil {
		return err
	}
	nv, err := fr.variable(v.name)
	if err != nil {
		return err
	}
	flat, shape, err := flattenFloats(nv.Values)
	if err != nil {
		return fmt.Errorf("reading variable %q from file %q: %w", v.name, fr.path, err)
	}
	steps := dataGrid.Len()
	if len(shape) < 2 || shape[1] != steps {
		return fmt.Errorf("%w: variable %q of file %q has shape %v, the time axis holds %d step(s)",
			errs.ErrShapeMismatch, v.name, fr.path, shape, steps)
	}
	if v.kind == KindFlat {
		return v.readFlat(fr, si, flat, steps, dataGrid)
	}

	return v.readDeep(fr, si, flat, shape, dataGrid)
}

func (v *Variable) readFlat(fr *fileReader, si *SubdeviceIndex, flat []float64, steps int, dataGrid *timegrid.Timegrid) error {
	rows := len(flat) / steps
	labels := v.SubdeviceNames()
	labelIdx := 0
	for _, device := range v.order {
		e := v.entries[device]
		width := e.sq.Width()
		raw := make([]float64, steps*width)
		for cell := 0; cell < width; cell++ {
			label := labels[labelIdx]
			labelIdx++
			row, err := si.Get(label)
			if err != nil {
				return err
			}
			if row >= rows {
				return fmt.Errorf("%w: variable %q of file %q holds %d row(s), label %q points at row %d",
					errs.ErrShapeMismatch, v.name, fr.path, rows, label, row)
			}
			for t := 0; t < steps; t++ {
				raw[t*width+cell] = flat[row*steps+t]
			}
		}
		if err := e.sq.AdjustSeries(dataGrid, raw); err != nil {
			return err
		}
	}

	return nil
}

func (v *Variable) readDeep(fr *fileReader, si *SubdeviceIndex, flat []float64, shape []int, dataGrid *timegrid.Timegrid) error {
	steps := shape[1]
	fileMax := shape[2:]
	fileWidth := blockWidth(fileMax)
	for _, device := range v.order {
		e := v.entries[device]
		row, err := si.Get(device)
		if err != nil {
			return err
		}
		if row >= shape[0] {
			return fmt.Errorf("%w: variable %q of file %q holds %d row(s), label %q points at row %d",
				errs.ErrShapeMismatch, v.name, fr.path, shape[0], device, row)
		}
		sh := e.sq.Shape()
		if len(sh) > len(fileMax) {
			return fmt.Errorf("%w: variable %q of file %q stores %d spatial axes, device %q needs %d",
				errs.ErrShapeMismatch, v.name, fr.path, len(fileMax), device, len(sh))
		}
		for axis, n := range sh {
			if n > fileMax[axis] {
				return fmt.Errorf("%w: variable %q of file %q stores extent %d on axis %d, device %q needs %d",
					errs.ErrShapeMismatch, v.name, fr.path, fileMax[axis], axis, device, n)
			}
		}
		width := e.sq.Width()
		raw := make([]float64, steps*width)
		combos := spatialCombos(sh)
		base := row * steps * fileWidth
		for t := 0; t < steps; t++ {
			for cell, combo := range combos {
				raw[t*width+cell] = flat[base+t*fileWidth+rowMajorIndex(combo, fileMax)]
			}
		}
		if err := e.sq.AdjustSeries(dataGrid, raw); err != nil {
			return err
		}
	}

	return nil
}

// spatialCombos enumerates all index tuples of the given extents in row-major
// order. A rank-0 shape yields one empty tuple.
func spatialCombos(shape []int) [][]int {
	combos := [][]int{nil}
	for _, n := range shape {
		next := make([][]int, 0, len(combos)*n)
		for _, combo := range combos {
			for i := 0; i < n; i++ {
				next = append(next, append(append([]int(nil), combo...), i))
			}
		}
		combos = next
	}

	return combos
}

// rowMajorIndex locates an index tuple inside a (possibly larger) row-major
// block of the given extents.
func rowMajorIndex(combo []int, shape []int) int {
	idx := 0
	for axis, n := range shape {
		i := 0
		if axis < len(combo) {
			i = combo[axis]
		}
		idx = idx*n + i
	}

	return idx
}

func blockWidth(shape []int) int {
	w := 1
	for _, n := range shape {
		w *= n
	}

	return w
}
