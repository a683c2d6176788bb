// Package timegrid models the simulation time window: an equidistant grid of
// time steps with a first date, a step size, and a step count.
//
// The grid converts itself to and from the CF-convention representation used
// in the array files: a unit string such as "hours since 2000-01-01 00:00:00"
// plus numeric step-start offsets in that unit.
package timegrid

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hydroio/ncseries/errs"
)

// DefaultUnit is the step unit used when writing time axes.
const DefaultUnit = "hours"

// cfDateLayout is the date format inside CF unit strings.
const cfDateLayout = "2006-01-02 15:04:05"

// Timegrid is an immutable, equidistant time grid. The zero value is not
// usable; construct grids with New or FromTimepoints.
type Timegrid struct {
	first time.Time
	step  time.Duration
	steps int
}

// New creates a grid starting at first with the given step size and number of
// steps.
func New(first time.Time, step time.Duration, steps int) (*Timegrid, error) {
	if step <= 0 {
		return nil, fmt.Errorf("timegrid: step must be positive, got %v", step)
	}
	if steps <= 0 {
		return nil, fmt.Errorf("timegrid: step count must be positive, got %d", steps)
	}

	return &Timegrid{first: first.UTC(), step: step, steps: steps}, nil
}

// FromTimepoints reconstructs a grid from the raw offsets of a file's time
// variable and the reference date and unit parsed from its unit string.
//
// At least two timepoints are required to derive the step size, and the
// spacing must be uniform.
func FromTimepoints(points []float64, ref time.Time, unit string) (*Timegrid, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("timegrid: need at least two timepoints to derive a step size, got %d", len(points))
	}
	unitDur, err := unitDuration(unit)
	if err != nil {
		return nil, err
	}
	delta := points[1] - points[0]
	if delta <= 0 {
		return nil, fmt.Errorf("timegrid: timepoints must increase, got step %v", delta)
	}
	for i := 1; i < len(points); i++ {
		if math.Abs((points[i]-points[i-1])-delta) > 1e-9 {
			return nil, fmt.Errorf("timegrid: timepoints are not equidistant at index %d", i)
		}
	}

	first := ref.Add(offsetDuration(points[0], unitDur))

	return New(first, offsetDuration(delta, unitDur), len(points))
}

// First returns the start of the first step.
func (g *Timegrid) First() time.Time { return g.first }

// Last returns the end of the final step.
func (g *Timegrid) Last() time.Time { return g.first.Add(time.Duration(g.steps) * g.step) }

// Step returns the step size.
func (g *Timegrid) Step() time.Duration { return g.step }

// Len returns the number of steps.
func (g *Timegrid) Len() int { return g.steps }

// Equal reports whether both grids describe the same window.
func (g *Timegrid) Equal(other *Timegrid) bool {
	return other != nil &&
		g.first.Equal(other.first) &&
		g.step == other.step &&
		g.steps == other.steps
}

// Index returns the step index containing the given step-start date.
//
// Dates that do not fall on a step boundary of this grid, or lie outside the
// window, are reported as a grid mismatch.
func (g *Timegrid) Index(t time.Time) (int, error) {
	diff := t.Sub(g.first)
	if diff%g.step != 0 {
		return 0, fmt.Errorf("%w: date %s is not aligned to steps of %v starting at %s",
			errs.ErrGridMismatch, t.UTC().Format(cfDateLayout), g.step, g.first.Format(cfDateLayout))
	}
	idx := int(diff / g.step)
	if idx < 0 || idx >= g.steps {
		return 0, fmt.Errorf("%w: date %s lies outside the window %s..%s",
			errs.ErrGridMismatch, t.UTC().Format(cfDateLayout),
			g.first.Format(cfDateLayout), g.Last().Format(cfDateLayout))
	}

	return idx, nil
}

// CFUnits renders the CF unit string of this grid for the given step unit,
// anchored at the grid's first date.
func (g *Timegrid) CFUnits(unit string) (string, error) {
	if _, err := unitDuration(unit); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s since %s", unit, g.first.Format(cfDateLayout)), nil
}

// Timepoints returns the step-start offsets of all steps in the given unit,
// relative to the grid's first date.
func (g *Timegrid) Timepoints(unit string) ([]float64, error) {
	unitDur, err := unitDuration(unit)
	if err != nil {
		return nil, err
	}
	points := make([]float64, g.steps)
	for i := range points {
		points[i] = float64(time.Duration(i)*g.step) / float64(unitDur)
	}

	return points, nil
}

// ParseCFUnits splits a CF unit string like "hours since 2000-01-01 00:00:00"
// into its step unit and reference date. A date without a time-of-day part is
// accepted and taken as midnight.
func ParseCFUnits(units string) (unit string, ref time.Time, err error) {
	fields := strings.Fields(units)
	if len(fields) < 3 || fields[1] != "since" {
		return "", time.Time{}, fmt.Errorf("timegrid: cannot parse unit string %q, want \"<unit> since <date>\"", units)
	}
	unit = fields[0]
	if _, err = unitDuration(unit); err != nil {
		return "", time.Time{}, err
	}
	datestr := strings.Join(fields[2:], " ")
	ref, err = time.ParseInLocation(cfDateLayout, datestr, time.UTC)
	if err != nil {
		ref, err = time.ParseInLocation("2006-01-02", datestr, time.UTC)
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("timegrid: cannot parse reference date in unit string %q", units)
	}

	return unit, ref, nil
}

// ValidateUnit reports whether unit names a supported step unit.
func ValidateUnit(unit string) error {
	_, err := unitDuration(unit)

	return err
}

func unitDuration(unit string) (time.Duration, error) {
	switch strings.TrimSuffix(strings.ToLower(unit), "s") {
	case "second", "sec":
		return time.Second, nil
	case "minute", "min":
		return time.Minute, nil
	case "hour":
		return time.Hour, nil
	case "day":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("timegrid: unsupported step unit %q", unit)
	}
}

func offsetDuration(offset float64, unitDur time.Duration) time.Duration {
	return time.Duration(math.Round(offset * float64(unitDur)))
}
