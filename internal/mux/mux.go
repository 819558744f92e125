// Package mux provides the terminal multiplexer transport: enumerating
// panes, reading and writing pane and server options, and driving window
// and pane selection. It is pure plumbing; what the stored option values
// mean is decided by the callers.
package mux

import (
	"context"
	"errors"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
)

// ErrPaneNotFound reports a switch or lookup against a pane the server no
// longer knows about.
var ErrPaneNotFound = errors.New("pane not found")

// Multiplexer abstracts terminal multiplexer operations.
// Implementations exist for tmux and (future) zellij.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux").
	Name() string

	// CurrentPane returns the identifier of the client's active pane.
	CurrentPane(ctx context.Context) (string, error)

	// PaneLocation returns the session name and window index holding the
	// given pane.
	PaneLocation(ctx context.Context, paneID string) (string, int, error)

	// ListPanes returns one record per pane on the server, tracked or not.
	// Untracked panes come back with an unrecognized State; timestamps
	// that fail to parse come back as 0.
	ListPanes(ctx context.Context) ([]model.PaneRecord, error)

	// PaneOption reads a pane-scoped option, returning "" when unset.
	PaneOption(ctx context.Context, paneID, name string) (string, error)
	SetPaneOption(ctx context.Context, paneID, name, value string) error
	UnsetPaneOption(ctx context.Context, paneID, name string) error

	// GlobalOption reads a server-global option, returning "" when unset.
	GlobalOption(ctx context.Context, name string) (string, error)
	SetGlobalOption(ctx context.Context, name, value string) error
	UnsetGlobalOption(ctx context.Context, name string) error

	// SwitchTo moves the attached client to the given pane, crossing
	// sessions when needed. An empty session triggers a location lookup;
	// a pane that is gone reports ErrPaneNotFound.
	SwitchTo(ctx context.Context, paneID, session string, window int) error

	// DisplayMessage flashes a message in the client's status line.
	DisplayMessage(ctx context.Context, text string) error

	// CapturePane captures the visible content of a pane.
	CapturePane(ctx context.Context, paneID string) (string, error)
}
