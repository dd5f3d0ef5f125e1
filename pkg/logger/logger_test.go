package logger

import (
	"errors"
	"testing"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud", Output: "stdout"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewConsole(t *testing.T) {
	l, err := New(&Config{Level: "debug", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.With(Symbol("PETR4")).Debug("ok", Int("bars", 10), Float64("exp", 0.01))
}

func TestFieldKeyValues(t *testing.T) {
	k, v := Error(errors.New("boom")).GetKeyValue()
	if k != "error" || v != "boom" {
		t.Fatalf("unexpected error field %s=%v", k, v)
	}
	k, v = Strings("symbols", []string{"A", "B"}).GetKeyValue()
	if k != "symbols" || v != "A, B" {
		t.Fatalf("unexpected strings field %s=%v", k, v)
	}
	_, v = ErrorField{Key: "error"}.GetKeyValue()
	if v != nil {
		t.Fatalf("nil error should map to nil value")
	}
}
