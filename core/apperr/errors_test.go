package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", NotFound("album %s not found", "a1"), ErrNotFound},
		{"denied", PermissionDenied("not the owner"), ErrPermissionDenied},
		{"invalid", InvalidInput("name is required"), ErrInvalidInput},
		{"dependency", DependencyFailure(errors.New("timeout"), "upload failed"), ErrDependencyFailure},
		{"wrapped", fmt.Errorf("add tracks: %w", NotFound("playlist not found")), ErrNotFound},
		{"plain", errors.New("boom"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
			if tt.want != nil && !errors.Is(tt.err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.want)
			}
		})
	}
}

func TestDependencyFailureKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := DependencyFailure(cause, "blob store unavailable")
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through errors.Is")
	}
	if got := Message(err); got != "blob store unavailable" {
		t.Errorf("Message() = %q", got)
	}
}

func TestMessageHidesInternalErrors(t *testing.T) {
	if got := Message(errors.New("dial tcp 10.0.0.3:3306: refused")); got != "internal server error" {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(fmt.Errorf("ctx: %w", InvalidInput("bad genre %q", "Polka"))); got != `bad genre "Polka"` {
		t.Errorf("Message() = %q", got)
	}
}
