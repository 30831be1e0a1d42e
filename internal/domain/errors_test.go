package domain

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := Newf(CodeNotFound, "game %s not found", "g-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected match against NOT_FOUND sentinel")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatal("matched sentinel with different code")
	}
}

func TestErrorWrapPreservesCause(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := Wrap(CodeUnknown, "load game", cause)

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatal("cause not reachable through Unwrap")
	}
	if err.Error() != "load game" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeAlreadyScored, "x")); got != CodeAlreadyScored {
		t.Fatalf("expected ALREADY_SCORED, got %s", got)
	}
	if got := CodeOf(fmt.Errorf("wrapped: %w", New(CodePhaseNotOpen, "x"))); got != CodePhaseNotOpen {
		t.Fatalf("expected PHASE_NOT_OPEN through wrapping, got %s", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected UNKNOWN for plain error, got %s", got)
	}
	if got := CodeOf(nil); got != CodeUnknown {
		t.Fatalf("expected UNKNOWN for nil, got %s", got)
	}
}
