package ncio

import (
	"fmt"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/hydroio/ncseries/errs"
)

// fileWriter wraps a CDF writer with a registry of the dimensions and
// variables created so far, so that name collisions and unknown dimensions
// surface as contextual errors at the call that caused them instead of at
// writer close.
type fileWriter struct {
	cw   api.Writer
	path string
	dims map[string]int
	vars map[string]bool
}

func newFileWriter(path string) (*fileWriter, error) {
	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return nil, fmt.Errorf("creating file %q: %w", path, err)
	}

	return &fileWriter{
		cw:   cw,
		path: path,
		dims: make(map[string]int),
		vars: make(map[string]bool),
	}, nil
}

// createDimension registers a new dimension. Registering the same name twice
// is a collision, even with an equal length.
func (fw *fileWriter) createDimension(name string, length int) error {
	if _, ok := fw.dims[name]; ok {
		return fmt.Errorf("adding dimension %q with length %d to file %q: %w",
			name, length, fw.path, errs.ErrNameCollision)
	}
	fw.dims[name] = length

	return nil
}

// createVariable adds a variable over previously created dimensions. The
// attrs map may be nil; attrKeys fixes the attribute order.
func (fw *fileWriter) createVariable(name string, dims []string, values any, attrKeys []string, attrs map[string]any) error {
	wrap := func(err error) error {
		return fmt.Errorf("adding variable %q with dimensions %v to file %q: %w",
			name, dims, fw.path, err)
	}
	if fw.vars[name] {
		return wrap(errs.ErrNameCollision)
	}
	for _, dim := range dims {
		if _, ok := fw.dims[dim]; !ok {
			return wrap(fmt.Errorf("dimension %q has not been created", dim))
		}
	}
	am, err := util.NewOrderedMap(attrKeys, attrs)
	if err != nil {
		return wrap(err)
	}
	if err := fw.cw.AddVar(name, api.Variable{
		Values:     values,
		Dimensions: dims,
		Attributes: am,
	}); err != nil {
		return wrap(err)
	}
	fw.vars[name] = true

	return nil
}

func (fw *fileWriter) close() error {
	if err := fw.cw.Close(); err != nil {
		return fmt.Errorf("closing file %q: %w", fw.path, err)
	}

	return nil
}

// fileReader wraps an open group with its path and the set of variables it
// contains, distinguishing "variable absent" from every other failure.
type fileReader struct {
	group api.Group
	path  string
	names map[string]bool
}

func newFileReader(group api.Group, path string) *fileReader {
	names := make(map[string]bool)
	for _, name := range group.ListVariables() {
		names[name] = true
	}

	return &fileReader{group: group, path: path, names: names}
}

func (fr *fileReader) close() {
	fr.group.Close()
}

func (fr *fileReader) hasVariable(name string) bool {
	return fr.names[name]
}

func (fr *fileReader) variable(name string) (*api.Variable, error) {
	if !fr.names[name] {
		return nil, fmt.Errorf("file %q does not contain variable %q: %w",
			fr.path, name, errs.ErrMissingVariable)
	}
	v, err := fr.group.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("reading variable %q from file %q: %w", name, fr.path, err)
	}

	return v, nil
}

// nestFloats converts a flat row-major block into the nested slices the
// writer expects: []float64 for rank 1, [][]float64 for rank 2, and so on.
func nestFloats(flat []float64, shape []int) any {
	if len(shape) == 1 {
		return flat
	}
	sub := 1
	for _, n := range shape[1:] {
		sub *= n
	}
	elemType := nestedFloatType(len(shape) - 1)
	out := reflect.MakeSlice(reflect.SliceOf(elemType), shape[0], shape[0])
	for i := 0; i < shape[0]; i++ {
		chunk := flat[i*sub : (i+1)*sub]
		out.Index(i).Set(reflect.ValueOf(nestFloats(chunk, shape[1:])))
	}

	return out.Interface()
}

func nestedFloatType(rank int) reflect.Type {
	t := reflect.TypeOf(float64(0))
	for i := 0; i < rank; i++ {
		t = reflect.SliceOf(t)
	}

	return t
}

// flattenFloats inverts nestFloats for values returned by the reader,
// recovering the flat row-major block and the shape.
func flattenFloats(values any) ([]float64, []int, error) {
	rv := reflect.ValueOf(values)
	var shape []int
	for t := rv.Type(); t.Kind() == reflect.Slice; t = t.Elem() {
		if rv.Len() == 0 {
			return nil, nil, fmt.Errorf("empty axis in array of type %T", values)
		}
		shape = append(shape, rv.Len())
		rv = rv.Index(0)
	}
	if rv.Kind() != reflect.Float64 {
		return nil, nil, fmt.Errorf("expected a float64 array, got %T", values)
	}
	total := 1
	for _, n := range shape {
		total *= n
	}
	flat := make([]float64, 0, total)
	flat = appendFloats(flat, reflect.ValueOf(values), len(shape))

	return flat, shape, nil
}

func appendFloats(dst []float64, rv reflect.Value, depth int) []float64 {
	if depth == 1 {
		return append(dst, rv.Interface().([]float64)...)
	}
	for i := 0; i < rv.Len(); i++ {
		dst = appendFloats(dst, rv.Index(i), depth-1)
	}

	return dst
}
