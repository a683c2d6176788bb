package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hydroio/ncseries/errs"
	"github.com/hydroio/ncseries/timegrid"
)

var firstDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func hourlyGrid(t *testing.T, steps int) *timegrid.Timegrid {
	t.Helper()
	grid, err := timegrid.New(firstDate, time.Hour, steps)
	require.NoError(t, err)

	return grid
}

func TestNew_Validation(t *testing.T) {
	grid := hourlyGrid(t, 4)

	tests := []struct {
		name     string
		device   string
		category string
		seqname  string
		shape    []int
		wantErr  bool
	}{
		{
			name:     "scalar series",
			device:   "basin_1",
			category: "hland_96",
			seqname:  "precipitation",
		},
		{
			name:     "zoned series",
			device:   "basin_1",
			category: "hland_96",
			seqname:  "soilmoisture",
			shape:    []int{3},
		},
		{
			name:     "matrix series",
			device:   "basin_1",
			category: "hland_96",
			seqname:  "snowlayers",
			shape:    []int{3, 2},
		},
		{
			name:     "empty device",
			device:   "",
			category: "hland_96",
			seqname:  "precipitation",
			wantErr:  true,
		},
		{
			name:     "empty name",
			device:   "basin_1",
			category: "hland_96",
			seqname:  "",
			wantErr:  true,
		},
		{
			name:    "empty category",
			device:  "basin_1",
			seqname: "precipitation",
			wantErr: true,
		},
		{
			name:     "non-positive extent",
			device:   "basin_1",
			category: "hland_96",
			seqname:  "soilmoisture",
			shape:    []int{0},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sq, err := New(tt.device, tt.category, tt.seqname, tt.shape, grid)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.device, sq.Device())
			require.Equal(t, tt.category, sq.Category())
			require.Equal(t, tt.seqname, sq.Name())
			require.False(t, sq.IsNode())
			require.Equal(t, len(tt.shape), sq.Rank())
			require.Len(t, sq.Values(), grid.Len()*sq.Width())
		})
	}

	t.Run("nil grid", func(t *testing.T) {
		_, err := New("basin_1", "hland_96", "precipitation", nil, nil)
		require.Error(t, err)
	})
}

func TestNewNode(t *testing.T) {
	grid := hourlyGrid(t, 4)
	sq, err := NewNode("gauge_1", "discharge", grid)
	require.NoError(t, err)
	require.True(t, sq.IsNode())
	require.Equal(t, "node", sq.Category())
	require.Equal(t, 0, sq.Rank())
	require.Equal(t, 1, sq.Width())
}

func TestWidthAndAt(t *testing.T) {
	grid := hourlyGrid(t, 3)
	sq, err := New("basin_1", "hland_96", "snowlayers", []int{2, 2}, grid)
	require.NoError(t, err)
	require.Equal(t, 4, sq.Width())

	vals := sq.Values()
	for i := range vals {
		vals[i] = float64(i)
	}

	// step 1, cell (1,0) sits at 1*4 + 2.
	require.Equal(t, 6.0, sq.At(1, 1, 0))
	require.Equal(t, 0.0, sq.At(0, 0, 0))
	require.Equal(t, 11.0, sq.At(2, 1, 1))

	require.Panics(t, func() { sq.At(0, 1) })
}

func TestSetValues(t *testing.T) {
	grid := hourlyGrid(t, 2)
	sq, err := New("basin_1", "hland_96", "soilmoisture", []int{2}, grid)
	require.NoError(t, err)

	require.NoError(t, sq.SetValues([]float64{1, 2, 3, 4}))
	require.Equal(t, []float64{1, 2, 3, 4}, sq.Values())

	err = sq.SetValues([]float64{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestUnmodified(t *testing.T) {
	grid := hourlyGrid(t, 2)
	sq, err := New("basin_1", "hland_96", "soilmoisture", []int{2}, grid)
	require.NoError(t, err)
	require.NoError(t, sq.SetValues([]float64{1, 2, 3, 4}))

	arr := sq.Unmodified()
	require.Equal(t, Unmodified, arr.Kind)
	require.False(t, arr.Aggregated())
	require.Equal(t, []float64{1, 2, 3, 4}, arr.Values)
	require.Equal(t, []int{2}, arr.Shape)

	// The array owns a copy.
	arr.Values[0] = 99
	require.Equal(t, 1.0, sq.Values()[0])
}

func TestMean(t *testing.T) {
	grid := hourlyGrid(t, 2)

	t.Run("zoned series", func(t *testing.T) {
		sq, err := New("basin_1", "hland_96", "temperature", []int{3}, grid)
		require.NoError(t, err)
		require.NoError(t, sq.SetValues([]float64{1, 2, 3, 4, 5, 6}))

		arr := sq.Mean()
		require.Equal(t, "mean", arr.Kind)
		require.True(t, arr.Aggregated())
		require.Equal(t, []float64{2, 5}, arr.Values)
		require.Empty(t, arr.Shape)
	})

	t.Run("scalar series", func(t *testing.T) {
		sq, err := New("basin_1", "hland_96", "precipitation", nil, grid)
		require.NoError(t, err)
		require.NoError(t, sq.SetValues([]float64{7, 8}))

		arr := sq.Mean()
		require.Equal(t, []float64{7, 8}, arr.Values)
	})
}

func TestAggregated_NilSafe(t *testing.T) {
	var arr *Array
	require.False(t, arr.Aggregated())
}

func TestAdjustSeries(t *testing.T) {
	dataGrid := hourlyGrid(t, 6)

	t.Run("identical window", func(t *testing.T) {
		sq, err := New("basin_1", "hland_96", "precipitation", nil, dataGrid)
		require.NoError(t, err)

		raw := []float64{1, 2, 3, 4, 5, 6}
		require.NoError(t, sq.AdjustSeries(dataGrid, raw))
		require.Equal(t, raw, sq.Values())
	})

	t.Run("inner window", func(t *testing.T) {
		inner, err := timegrid.New(firstDate.Add(2*time.Hour), time.Hour, 3)
		require.NoError(t, err)
		sq, err := New("basin_1", "hland_96", "precipitation", nil, inner)
		require.NoError(t, err)

		require.NoError(t, sq.AdjustSeries(dataGrid, []float64{1, 2, 3, 4, 5, 6}))
		require.Equal(t, []float64{3, 4, 5}, sq.Values())
	})

	t.Run("inner window with zones", func(t *testing.T) {
		inner, err := timegrid.New(firstDate.Add(time.Hour), time.Hour, 2)
		require.NoError(t, err)
		sq, err := New("basin_1", "hland_96", "soilmoisture", []int{2}, inner)
		require.NoError(t, err)

		raw := []float64{
			10, 11,
			20, 21,
			30, 31,
			40, 41,
			50, 51,
			60, 61,
		}
		require.NoError(t, sq.AdjustSeries(dataGrid, raw))
		require.Equal(t, []float64{20, 21, 30, 31}, sq.Values())
	})

	t.Run("wrong raw length", func(t *testing.T) {
		sq, err := New("basin_1", "hland_96", "precipitation", nil, dataGrid)
		require.NoError(t, err)

		err = sq.AdjustSeries(dataGrid, []float64{1, 2, 3})
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})

	t.Run("different step size", func(t *testing.T) {
		daily, err := timegrid.New(firstDate, 24*time.Hour, 2)
		require.NoError(t, err)
		sq, err := New("basin_1", "hland_96", "precipitation", nil, daily)
		require.NoError(t, err)

		err = sq.AdjustSeries(dataGrid, []float64{1, 2, 3, 4, 5, 6})
		require.ErrorIs(t, err, errs.ErrGridMismatch)
	})

	t.Run("window exceeds data", func(t *testing.T) {
		wider, err := timegrid.New(firstDate.Add(4*time.Hour), time.Hour, 4)
		require.NoError(t, err)
		sq, err := New("basin_1", "hland_96", "precipitation", nil, wider)
		require.NoError(t, err)

		err = sq.AdjustSeries(dataGrid, []float64{1, 2, 3, 4, 5, 6})
		require.ErrorIs(t, err, errs.ErrGridMismatch)
	})

	t.Run("misaligned start", func(t *testing.T) {
		shifted, err := timegrid.New(firstDate.Add(30*time.Minute), time.Hour, 2)
		require.NoError(t, err)
		sq, err := New("basin_1", "hland_96", "precipitation", nil, shifted)
		require.NoError(t, err)

		err = sq.AdjustSeries(dataGrid, []float64{1, 2, 3, 4, 5, 6})
		require.ErrorIs(t, err, errs.ErrGridMismatch)
	})
}
