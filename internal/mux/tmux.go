package mux

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
)

// Pane and server option names that make up the stored hop protocol.
const (
	// StateOption holds the pane's current hop state label.
	StateOption = "@hop-state"
	// TimestampOption holds the unix time of the last state change.
	TimestampOption = "@hop-timestamp"
)

// paneFormat projects every field a PaneRecord needs in one list-panes
// call. Unset options expand to empty strings.
const paneFormat = "#{pane_id}\t#{" + StateOption + "}\t#{" + TimestampOption + "}\t" +
	"#{session_name}\t#{window_index}\t#{pane_current_path}\t#{pane_tty}"

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct {
	r Runner
}

// NewTmux creates a tmux multiplexer backed by the given runner.
func NewTmux(r Runner) *Tmux {
	if r == nil {
		r = NewRunner()
	}
	return &Tmux{r: r}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// CurrentPane returns the active pane's identifier (e.g., "%3").
func (t *Tmux) CurrentPane(ctx context.Context) (string, error) {
	out, err := t.run(ctx, "display-message", "-p", "#{pane_id}")
	if err != nil {
		return "", fmt.Errorf("tmux display-message: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// PaneLocation returns the session name and window index holding paneID.
func (t *Tmux) PaneLocation(ctx context.Context, paneID string) (string, int, error) {
	out, err := t.run(ctx, "display-message", "-p", "-t", paneID, "#{session_name}\t#{window_index}")
	if err != nil {
		return "", 0, fmt.Errorf("tmux display-message -t %s: %w", paneID, err)
	}
	parts := strings.SplitN(strings.TrimSpace(out), "\t", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("unexpected pane location %q", out)
	}
	window, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid window index %q: %w", parts[1], err)
	}
	return parts[0], window, nil
}

// ListPanes returns a record for every pane on the server.
func (t *Tmux) ListPanes(ctx context.Context) ([]model.PaneRecord, error) {
	out, err := t.run(ctx, "list-panes", "-a", "-F", paneFormat)
	if err != nil {
		return nil, fmt.Errorf("tmux list-panes: %w", err)
	}

	var records []model.PaneRecord
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 7 {
			continue
		}

		window, err := strconv.Atoi(parts[4])
		if err != nil {
			continue
		}
		// A missing or garbled timestamp degrades to 0 so the pane sorts
		// as oldest rather than vanishing.
		timestamp, _ := strconv.ParseInt(parts[2], 10, 64)

		project := ""
		if parts[5] != "" {
			project = filepath.Base(parts[5])
		}

		records = append(records, model.PaneRecord{
			ID:        parts[0],
			State:     model.HopState(parts[1]),
			Timestamp: timestamp,
			Session:   parts[3],
			Window:    window,
			Project:   project,
			TTY:       parts[6],
		})
	}
	return records, nil
}

// PaneOption reads a pane-scoped option, returning "" when unset.
func (t *Tmux) PaneOption(ctx context.Context, paneID, name string) (string, error) {
	out, err := t.run(ctx, "show-option", "-p", "-t", paneID, "-qv", name)
	if err != nil {
		return "", fmt.Errorf("tmux show-option %s: %w", name, err)
	}
	return strings.TrimSpace(out), nil
}

// SetPaneOption writes a pane-scoped option.
func (t *Tmux) SetPaneOption(ctx context.Context, paneID, name, value string) error {
	if _, err := t.run(ctx, "set-option", "-p", "-t", paneID, name, value); err != nil {
		return fmt.Errorf("tmux set-option %s: %w", name, err)
	}
	return nil
}

// UnsetPaneOption removes a pane-scoped option.
func (t *Tmux) UnsetPaneOption(ctx context.Context, paneID, name string) error {
	if _, err := t.run(ctx, "set-option", "-p", "-t", paneID, "-u", name); err != nil {
		return fmt.Errorf("tmux set-option -u %s: %w", name, err)
	}
	return nil
}

// GlobalOption reads a server-global option, returning "" when unset.
func (t *Tmux) GlobalOption(ctx context.Context, name string) (string, error) {
	out, err := t.run(ctx, "show-option", "-gqv", name)
	if err != nil {
		return "", fmt.Errorf("tmux show-option -g %s: %w", name, err)
	}
	return strings.TrimSpace(out), nil
}

// SetGlobalOption writes a server-global option.
func (t *Tmux) SetGlobalOption(ctx context.Context, name, value string) error {
	if _, err := t.run(ctx, "set-option", "-g", name, value); err != nil {
		return fmt.Errorf("tmux set-option -g %s: %w", name, err)
	}
	return nil
}

// UnsetGlobalOption removes a server-global option.
func (t *Tmux) UnsetGlobalOption(ctx context.Context, name string) error {
	if _, err := t.run(ctx, "set-option", "-g", "-u", name); err != nil {
		return fmt.Errorf("tmux set-option -g -u %s: %w", name, err)
	}
	return nil
}

// SwitchTo moves the attached client to paneID. When session is empty the
// pane's location is resolved first; a pane the server no longer knows
// reports ErrPaneNotFound.
func (t *Tmux) SwitchTo(ctx context.Context, paneID, session string, window int) error {
	if session == "" {
		panes, err := t.ListPanes(ctx)
		if err != nil {
			return err
		}
		found := false
		for _, p := range panes {
			if p.ID == paneID {
				session, window = p.Session, p.Window
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrPaneNotFound, paneID)
		}
	}

	current, err := t.currentSession(ctx)
	if err != nil {
		return err
	}

	// Crossing sessions needs switch-client; within the session a
	// select-window is enough.
	target := fmt.Sprintf("%s:%d", session, window)
	if session != current {
		if _, err := t.run(ctx, "switch-client", "-t", target); err != nil {
			return fmt.Errorf("tmux switch-client -t %s: %w", target, err)
		}
	} else {
		if _, err := t.run(ctx, "select-window", "-t", target); err != nil {
			return fmt.Errorf("tmux select-window -t %s: %w", target, err)
		}
	}
	if _, err := t.run(ctx, "select-pane", "-t", paneID); err != nil {
		return fmt.Errorf("tmux select-pane -t %s: %w", paneID, err)
	}
	return nil
}

// DisplayMessage flashes text in the client's status line.
func (t *Tmux) DisplayMessage(ctx context.Context, text string) error {
	if _, err := t.run(ctx, "display-message", text); err != nil {
		return fmt.Errorf("tmux display-message: %w", err)
	}
	return nil
}

// CapturePane captures the visible content of a tmux pane.
// Uses -p (stdout) and -J (joined, unwraps lines).
func (t *Tmux) CapturePane(ctx context.Context, paneID string) (string, error) {
	out, err := t.run(ctx, "capture-pane", "-t", paneID, "-p", "-J")
	if err != nil {
		return "", fmt.Errorf("tmux capture-pane -t %s: %w", paneID, err)
	}
	return out, nil
}

func (t *Tmux) currentSession(ctx context.Context) (string, error) {
	out, err := t.run(ctx, "display-message", "-p", "#{session_name}")
	if err != nil {
		return "", fmt.Errorf("tmux display-message: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	return t.r.Run(ctx, "tmux", args...)
}
