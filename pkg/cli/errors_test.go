package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("delivery.target", "unknown target")

	expected := "config error in delivery.target: unknown target"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("status 502")
	err := NewCommandError("download", underlying)

	expected := "command download failed: status 502"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlying) {
		t.Error("CommandError should unwrap to the underlying error")
	}

	// Already wrapped errors are not wrapped twice.
	if again := NewCommandError("root", err); again != err {
		t.Errorf("expected the same error back, got %v", again)
	}
	if NewCommandError("download", nil) != nil {
		t.Error("nil error should stay nil")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("x"), ExitError},
		{"command", NewCommandError("download", errors.New("x")), ExitError},
		{"config", NewConfigError("mode", "bad"), ExitConfig},
		{"wrapped config", fmt.Errorf("flags: %w", NewConfigError("mode", "bad")), ExitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
