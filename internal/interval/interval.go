// Package interval implements the half-open time interval arithmetic used by
// the booking engine. Every occupancy decision in the system reduces to the
// single Overlaps predicate defined here.
package interval

import "time"

// Span is a half-open time interval [Start, End).
type Span struct {
	Start time.Time
	End   time.Time
}

// NewSpan builds a span from its bounds.
func NewSpan(start, end time.Time) Span {
	return Span{Start: start, End: end}
}

// IsValid reports whether the span's end is strictly after its start.
// Zero-length spans are not valid bookings.
func (s Span) IsValid() bool {
	return s.End.After(s.Start)
}

// Contains reports whether the instant falls inside the half-open span.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Overlaps reports whether two half-open intervals [startA, endA) and
// [startB, endB) share any instant. The predicate covers containment,
// partial overlap, and treats exactly adjacent intervals as disjoint.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// SpansOverlap applies Overlaps to two spans.
func SpansOverlap(a, b Span) bool {
	return Overlaps(a.Start, a.End, b.Start, b.End)
}
