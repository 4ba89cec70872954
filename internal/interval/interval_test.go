package interval

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 3, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name   string
		a, b   Span
		expect bool
	}{
		{
			name:   "identical intervals overlap",
			a:      NewSpan(at(10, 0), at(10, 30)),
			b:      NewSpan(at(10, 0), at(10, 30)),
			expect: true,
		},
		{
			name:   "partial overlap at tail",
			a:      NewSpan(at(10, 0), at(10, 30)),
			b:      NewSpan(at(10, 15), at(10, 45)),
			expect: true,
		},
		{
			name:   "containment overlaps",
			a:      NewSpan(at(10, 0), at(11, 0)),
			b:      NewSpan(at(10, 15), at(10, 30)),
			expect: true,
		},
		{
			name:   "boundary adjacent intervals are disjoint",
			a:      NewSpan(at(10, 0), at(10, 30)),
			b:      NewSpan(at(10, 30), at(11, 0)),
			expect: false,
		},
		{
			name:   "disjoint intervals",
			a:      NewSpan(at(10, 0), at(10, 30)),
			b:      NewSpan(at(11, 0), at(11, 30)),
			expect: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a.Start, tc.a.End, tc.b.Start, tc.b.End); got != tc.expect {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.expect)
			}
			// The predicate is symmetric.
			if got := Overlaps(tc.b.Start, tc.b.End, tc.a.Start, tc.a.End); got != tc.expect {
				t.Fatalf("Overlaps reversed (%v, %v) = %v, want %v", tc.b, tc.a, got, tc.expect)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	span := NewSpan(at(10, 0), at(10, 30))

	if !span.Contains(at(10, 0)) {
		t.Error("expected span to contain its start instant")
	}
	if !span.Contains(at(10, 15)) {
		t.Error("expected span to contain an interior instant")
	}
	if span.Contains(at(10, 30)) {
		t.Error("expected span to exclude its end instant")
	}
	if span.Contains(at(9, 59)) {
		t.Error("expected span to exclude instants before start")
	}
}

func TestSpanIsValid(t *testing.T) {
	if !NewSpan(at(10, 0), at(10, 30)).IsValid() {
		t.Error("expected forward span to be valid")
	}
	if NewSpan(at(10, 0), at(10, 0)).IsValid() {
		t.Error("expected zero-length span to be invalid")
	}
	if NewSpan(at(10, 30), at(10, 0)).IsValid() {
		t.Error("expected reversed span to be invalid")
	}
}
