package application

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	validation := []error{ErrInvalidDuration, ErrInvalidTitle, ErrInvalidIncrement, ErrPastStartTime}
	for _, err := range validation {
		if !IsValidationFailure(err) {
			t.Errorf("%v should be classified as a validation failure", err)
		}
		if IsStateFailure(err) {
			t.Errorf("%v should not be classified as a state failure", err)
		}
	}

	state := []error{ErrNotFound, ErrNotActive, ErrAlreadyEnded}
	for _, err := range state {
		if !IsStateFailure(err) {
			t.Errorf("%v should be classified as a state failure", err)
		}
		if IsValidationFailure(err) {
			t.Errorf("%v should not be classified as a validation failure", err)
		}
	}

	if IsValidationFailure(ErrRoomUnavailable) || IsStateFailure(ErrRoomUnavailable) {
		t.Error("ErrRoomUnavailable is a conflict, not validation or state")
	}

	wrapped := fmt.Errorf("creating booking: %w", ErrRoomUnavailable)
	if !errors.Is(wrapped, ErrRoomUnavailable) {
		t.Error("wrapped sentinel should still match")
	}
}

func TestValidationError(t *testing.T) {
	vErr := &ValidationError{}
	if vErr.HasErrors() {
		t.Error("fresh ValidationError should report no errors")
	}

	vErr.add("title", "title is required")
	if !vErr.HasErrors() {
		t.Error("HasErrors should be true after add")
	}
	if !IsValidationFailure(vErr) {
		t.Error("ValidationError should classify as a validation failure")
	}
	if got := vErr.FieldErrors["title"]; got != "title is required" {
		t.Errorf("field message = %q", got)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidDuration, "invalid_duration"},
		{ErrRoomUnavailable, "room_unavailable"},
		{ErrAlreadyEnded, "already_ended"},
		{fmt.Errorf("wrap: %w", ErrNotFound), "not_found"},
		{&ValidationError{FieldErrors: map[string]string{"name": "x"}}, "validation"},
		{errors.New("disk full"), "unexpected"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
