package application

import (
	"slices"
	"strings"
)

// Title length bounds, in characters after trimming.
const (
	minTitleLength = 1
	maxTitleLength = 120
)

// NormalizeTitle trims the title and validates its length, returning the
// stored form.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if length := len([]rune(trimmed)); length < minTitleLength || length > maxTitleLength {
		return "", ErrInvalidTitle
	}
	return trimmed, nil
}

// ValidateDuration checks membership of the requested duration in the
// deployment's allowed-durations set.
func ValidateDuration(durationMinutes int, allowed []int) error {
	if durationMinutes <= 0 || !slices.Contains(allowed, durationMinutes) {
		return ErrInvalidDuration
	}
	return nil
}

// ValidateIncrement checks membership of the requested increment in the
// deployment's allowed-increments set.
func ValidateIncrement(incrementMinutes int, allowed []int) error {
	if incrementMinutes <= 0 || !slices.Contains(allowed, incrementMinutes) {
		return ErrInvalidIncrement
	}
	return nil
}

// smallestIncrement returns the minimum of the configured increments. The
// second return is false when the set is empty.
func smallestIncrement(increments []int) (int, bool) {
	if len(increments) == 0 {
		return 0, false
	}
	return slices.Min(increments), true
}

// normalizeMinuteSet sorts a minute set ascending and removes duplicates.
func normalizeMinuteSet(minutes []int) []int {
	out := slices.Clone(minutes)
	slices.Sort(out)
	return slices.Compact(out)
}
