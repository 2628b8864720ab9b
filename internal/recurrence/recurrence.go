// Package recurrence expands a base reservation slot into the concrete
// occurrences described by a recurrence rule.
package recurrence

import "time"

// Interval is the repetition kind of a recurrence rule.
type Interval string

const (
	None    Interval = "none"
	Daily   Interval = "daily"
	Weekly  Interval = "weekly"
	Monthly Interval = "monthly"
)

// ParseInterval maps a wire string onto an Interval.  Unrecognized values
// behave like "none": the slot repeats without any offset.
func ParseInterval(s string) Interval {
	switch Interval(s) {
	case Daily, Weekly, Monthly:
		return Interval(s)
	}
	return None
}

// Rule describes how a base occurrence repeats.  Count is the total number
// of occurrences including the base one.
type Rule struct {
	Interval Interval
	Count    int
}

// Occurrence is one concrete (start, end) instance generated from a
// reservation request.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Expand produces exactly Count occurrence pairs in index order.  Pair 0 is
// the input unchanged; pair i is offset by i intervals using calendar
// arithmetic:
//
//	daily   +i days
//	weekly  +7*i days
//	monthly +i calendar months
//
// Calendar arithmetic follows time.AddDate, so a monthly rule starting on
// Jan 31 rolls over into early March for the February slot instead of
// clamping to Feb 28.  A Count below 1 is coerced to 1; callers are expected
// to bound Count before expanding.
func Expand(start, end time.Time, r Rule) []Occurrence {
	count := r.Count
	if count < 1 {
		count = 1
	}
	occs := make([]Occurrence, 0, count)
	for i := 0; i < count; i++ {
		switch r.Interval {
		case Daily:
			occs = append(occs, Occurrence{Start: start.AddDate(0, 0, i), End: end.AddDate(0, 0, i)})
		case Weekly:
			occs = append(occs, Occurrence{Start: start.AddDate(0, 0, 7*i), End: end.AddDate(0, 0, 7*i)})
		case Monthly:
			occs = append(occs, Occurrence{Start: start.AddDate(0, i, 0), End: end.AddDate(0, i, 0)})
		default:
			occs = append(occs, Occurrence{Start: start, End: end})
		}
	}
	return occs
}
