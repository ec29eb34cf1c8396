package domain

import "time"

// Booking windows are half-open [From, To): the checkout day is free for the
// next guest. Both the day-count arithmetic and the overlap predicate follow
// this convention.
const (
	MinBookingDays = 1
	MaxBookingDays = 90
)

// DateRange is a half-open booking window [From, To).
type DateRange struct {
	From time.Time `json:"date_from"`
	To   time.Time `json:"date_to"`
}

// NewDateRange validates a requested booking window against the current date.
// The window must not start in the past and must span 1 to 90 nights.
func NewDateRange(from, to, now time.Time) (DateRange, error) {
	from = truncateToDay(from)
	to = truncateToDay(to)

	if from.Before(truncateToDay(now)) {
		return DateRange{}, ErrInvalidDateRange
	}

	days := daysBetween(from, to)
	if days < MinBookingDays || days > MaxBookingDays {
		return DateRange{}, ErrInvalidDateRange
	}

	return DateRange{From: from, To: to}, nil
}

// Days returns the number of nights covered by the range.
func (r DateRange) Days() int {
	return daysBetween(r.From, r.To)
}

// Overlaps reports whether two half-open ranges intersect. A range ending on
// the day another starts does not overlap it.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.From.Before(other.To) && other.From.Before(r.To)
}

// Contains reports whether the given day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	day = truncateToDay(day)
	return !day.Before(r.From) && day.Before(r.To)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
