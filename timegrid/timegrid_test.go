package timegrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hydroio/ncseries/errs"
)

var refDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		step    time.Duration
		steps   int
		wantErr bool
	}{
		{
			name:  "hourly grid",
			step:  time.Hour,
			steps: 24,
		},
		{
			name:  "daily grid",
			step:  24 * time.Hour,
			steps: 365,
		},
		{
			name:    "zero step",
			step:    0,
			steps:   10,
			wantErr: true,
		},
		{
			name:    "negative step",
			step:    -time.Hour,
			steps:   10,
			wantErr: true,
		},
		{
			name:    "zero steps",
			step:    time.Hour,
			steps:   0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := New(refDate, tt.step, tt.steps)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, refDate, grid.First())
			require.Equal(t, tt.step, grid.Step())
			require.Equal(t, tt.steps, grid.Len())
			require.Equal(t, refDate.Add(time.Duration(tt.steps)*tt.step), grid.Last())
		})
	}
}

func TestTimepoints_RoundTrip(t *testing.T) {
	grid, err := New(refDate, time.Hour, 24)
	require.NoError(t, err)

	units, err := grid.CFUnits("hours")
	require.NoError(t, err)
	require.Equal(t, "hours since 2000-01-01 00:00:00", units)

	points, err := grid.Timepoints("hours")
	require.NoError(t, err)
	require.Len(t, points, 24)
	require.Equal(t, 0.0, points[0])
	require.Equal(t, 23.0, points[23])

	unit, ref, err := ParseCFUnits(units)
	require.NoError(t, err)
	require.Equal(t, "hours", unit)
	require.Equal(t, refDate, ref)

	back, err := FromTimepoints(points, ref, unit)
	require.NoError(t, err)
	require.True(t, grid.Equal(back))
}

func TestTimepoints_SubHourlyStepInHours(t *testing.T) {
	grid, err := New(refDate, 30*time.Minute, 4)
	require.NoError(t, err)

	points, err := grid.Timepoints("hours")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0.5, 1, 1.5}, points)

	back, err := FromTimepoints(points, refDate, "hours")
	require.NoError(t, err)
	require.True(t, grid.Equal(back))
}

func TestFromTimepoints_Validation(t *testing.T) {
	tests := []struct {
		name   string
		points []float64
		unit   string
	}{
		{
			name:   "single point",
			points: []float64{0},
			unit:   "hours",
		},
		{
			name:   "decreasing points",
			points: []float64{2, 1, 0},
			unit:   "hours",
		},
		{
			name:   "uneven spacing",
			points: []float64{0, 1, 3},
			unit:   "hours",
		},
		{
			name:   "unknown unit",
			points: []float64{0, 1, 2},
			unit:   "fortnights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTimepoints(tt.points, refDate, tt.unit)
			require.Error(t, err)
		})
	}
}

func TestFromTimepoints_NonzeroOffset(t *testing.T) {
	grid, err := FromTimepoints([]float64{6, 7, 8, 9}, refDate, "hours")
	require.NoError(t, err)
	require.Equal(t, refDate.Add(6*time.Hour), grid.First())
	require.Equal(t, 4, grid.Len())
}

func TestParseCFUnits(t *testing.T) {
	tests := []struct {
		name     string
		units    string
		wantUnit string
		wantRef  time.Time
		wantErr  bool
	}{
		{
			name:     "full datetime",
			units:    "hours since 1996-01-01 00:00:00",
			wantUnit: "hours",
			wantRef:  time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "date only",
			units:    "days since 1996-01-01",
			wantUnit: "days",
			wantRef:  time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "seconds",
			units:    "seconds since 2000-06-15 12:30:00",
			wantUnit: "seconds",
			wantRef:  time.Date(2000, 6, 15, 12, 30, 0, 0, time.UTC),
		},
		{
			name:    "missing since",
			units:   "hours 1996-01-01",
			wantErr: true,
		},
		{
			name:    "unparsable date",
			units:   "hours since yesterday",
			wantErr: true,
		},
		{
			name:    "unknown unit",
			units:   "weeks since 1996-01-01",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, ref, err := ParseCFUnits(tt.units)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantUnit, unit)
			require.Equal(t, tt.wantRef, ref)
		})
	}
}

func TestIndex(t *testing.T) {
	grid, err := New(refDate, time.Hour, 24)
	require.NoError(t, err)

	t.Run("first step", func(t *testing.T) {
		idx, err := grid.Index(refDate)
		require.NoError(t, err)
		require.Equal(t, 0, idx)
	})

	t.Run("interior step", func(t *testing.T) {
		idx, err := grid.Index(refDate.Add(5 * time.Hour))
		require.NoError(t, err)
		require.Equal(t, 5, idx)
	})

	t.Run("misaligned date", func(t *testing.T) {
		_, err := grid.Index(refDate.Add(90 * time.Minute))
		require.ErrorIs(t, err, errs.ErrGridMismatch)
	})

	t.Run("before the window", func(t *testing.T) {
		_, err := grid.Index(refDate.Add(-time.Hour))
		require.ErrorIs(t, err, errs.ErrGridMismatch)
	})

	t.Run("after the window", func(t *testing.T) {
		_, err := grid.Index(refDate.Add(24 * time.Hour))
		require.ErrorIs(t, err, errs.ErrGridMismatch)
	})
}

func TestValidateUnit(t *testing.T) {
	for _, unit := range []string{"seconds", "second", "sec", "minutes", "min", "hours", "hour", "days", "day"} {
		require.NoError(t, ValidateUnit(unit), unit)
	}
	require.Error(t, ValidateUnit("weeks"))
	require.Error(t, ValidateUnit(""))
}

func TestEqual(t *testing.T) {
	a, err := New(refDate, time.Hour, 24)
	require.NoError(t, err)
	b, err := New(refDate, time.Hour, 24)
	require.NoError(t, err)
	c, err := New(refDate, time.Hour, 25)
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(nil))
}
