package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

// Linux notifies through notify-send and focuses windows through wmctrl
// or xdotool, whichever is installed.
type Linux struct {
	r mux.Runner
}

// Notify sends a plain desktop notification. Click actions need a D-Bus
// listener that outlives this process, so onClick is ignored here.
func (l *Linux) Notify(ctx context.Context, title, body string, _ *model.PaneContext) error {
	if _, err := l.r.LookPath("notify-send"); err != nil {
		return fmt.Errorf("notify-send not available: %w", err)
	}
	_, err := l.r.Run(ctx, "notify-send", title, body)
	return err
}

func (l *Linux) Focus(ctx context.Context, app, session string, pane *model.PaneContext) error {
	search := session
	if search == "" {
		search = app
	}
	if search == "" {
		return errors.New("no window to search for")
	}
	if err := l.focusWindow(ctx, search); err != nil {
		return err
	}
	switchPane(ctx, l.r, pane)
	return nil
}

// focusWindow raises the window whose title matches. wmctrl handles
// partial title matches itself; xdotool is the fallback.
func (l *Linux) focusWindow(ctx context.Context, search string) error {
	if _, err := l.r.LookPath("wmctrl"); err == nil {
		if _, err := l.r.Run(ctx, "wmctrl", "-a", search); err == nil {
			return nil
		}
	}
	if _, err := l.r.LookPath("xdotool"); err == nil {
		if _, err := l.r.Run(ctx, "xdotool", "search", "--name", search, "windowactivate"); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no window manager tool could focus %q", search)
}

// Focused reads the active window title via xdotool. Wayland exposes no
// portable way to do that, so it always reports unfocused there and the
// notification shows regardless.
func (l *Linux) Focused(ctx context.Context, app, session string) bool {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return false
	}
	if _, err := l.r.LookPath("xdotool"); err != nil {
		return false
	}
	active, err := l.r.Run(ctx, "xdotool", "getactivewindow", "getwindowname")
	if err != nil {
		return false
	}
	search := session
	if search == "" {
		search = app
	}
	if search == "" {
		return false
	}
	return strings.Contains(strings.ToLower(strings.TrimSpace(active)), strings.ToLower(search))
}
