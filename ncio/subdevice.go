package ncio

import (
	"fmt"
	"strings"

	"github.com/hydroio/ncseries/errs"
)

// SubdeviceIndex maps the row labels of one coordinate variable to their row
// numbers, remembering where the labels came from for error reporting.
type SubdeviceIndex struct {
	index    map[string]int
	variable string
	path     string
}

func newSubdeviceIndex(labels []string, variable, path string) (*SubdeviceIndex, error) {
	index := make(map[string]int, len(labels))
	for row, label := range labels {
		if _, ok := index[label]; ok {
			return nil, fmt.Errorf("%w: variable %q of file %q lists %q twice",
				errs.ErrDuplicateSubdevice, variable, path, label)
		}
		index[label] = row
	}

	return &SubdeviceIndex{index: index, variable: variable, path: path}, nil
}

// Get returns the row of the given label.
func (si *SubdeviceIndex) Get(label string) (int, error) {
	row, ok := si.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: variable %q of file %q provides no data for %q",
			errs.ErrNoSubdeviceData, si.variable, si.path, label)
	}

	return row, nil
}

// trimLabel strips the NUL padding that fixed-width character rows carry.
func trimLabel(label string) string {
	return strings.TrimRight(label, "\x00")
}
