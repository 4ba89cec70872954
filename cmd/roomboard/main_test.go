package main

import (
	"encoding/hex"
	"testing"
)

func TestRandomHex(t *testing.T) {
	token := randomHex(32)
	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64 hex characters", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}

	if token == randomHex(32) {
		t.Error("two tokens should not collide")
	}
}

func TestRandomHexDefaultsLength(t *testing.T) {
	if got := randomHex(0); len(got) != 32 {
		t.Errorf("token length = %d, want 32 for the default byte count", len(got))
	}
}
