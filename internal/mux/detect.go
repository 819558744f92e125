package mux

import (
	"context"
	"fmt"
	"os"
)

// InsideSession reports whether the process was started inside a
// multiplexer session.
func InsideSession() bool {
	return os.Getenv("TMUX") != ""
}

// EnvPane returns the pane identifier tmux exports to processes it spawns,
// or "" outside tmux. Hook commands prefer this over asking the server,
// which would report the client's active pane instead of the hook's own.
func EnvPane() string {
	return os.Getenv("TMUX_PANE")
}

// Detect auto-detects the active terminal multiplexer.
// It checks environment variables first, then falls back to checking
// if the multiplexer binary exists and has a running server.
func Detect(r Runner) (Multiplexer, error) {
	if r == nil {
		r = NewRunner()
	}

	if os.Getenv("TMUX") != "" {
		return NewTmux(r), nil
	}
	if os.Getenv("ZELLIJ") != "" {
		return nil, fmt.Errorf("zellij support is not yet implemented")
	}

	// Fall back to checking for a running tmux server.
	if path, err := r.LookPath("tmux"); err == nil && path != "" {
		if _, err := r.Run(context.Background(), "tmux", "list-sessions"); err == nil {
			return NewTmux(r), nil
		}
	}

	return nil, fmt.Errorf("no supported terminal multiplexer detected (set $TMUX or install tmux)")
}

// FromName creates a Multiplexer by name.
func FromName(name string, r Runner) (Multiplexer, error) {
	switch name {
	case "tmux":
		return NewTmux(r), nil
	case "zellij":
		return nil, fmt.Errorf("zellij support is not yet implemented")
	default:
		return nil, fmt.Errorf("unknown multiplexer: %q (supported: tmux)", name)
	}
}
