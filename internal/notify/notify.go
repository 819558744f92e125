// Package notify raises desktop notifications and pulls the hosting
// terminal into focus when a pane changes state. Each operating system
// gets one strategy set; which states trigger which action is decided
// by the dispatcher's trigger sets.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
	hopotel "github.com/unsafe9/claude-tmux-hop/internal/otel"
)

var tracer = otel.Tracer("claude-tmux-hop")

// notificationTitle heads every notification this tool emits.
const notificationTitle = "Claude Code"

// Notifier shows an OS-level notification. onClick, when non-nil and
// the platform's backend supports actions, makes clicking the
// notification jump to that pane; backends without click support
// display the notification and ignore it.
type Notifier interface {
	Notify(ctx context.Context, title, body string, onClick *model.PaneContext) error
}

// FocusHandler brings the terminal application hosting the session to
// the foreground, down to the tab and pane where the platform allows.
type FocusHandler interface {
	Focus(ctx context.Context, app, session string, pane *model.PaneContext) error
}

// FocusDetector reports whether the terminal application currently owns
// the foreground and, where detectable, is showing the session. False
// on detection failure: a duplicate notification beats a missing one.
type FocusDetector interface {
	Focused(ctx context.Context, app, session string) bool
}

// Platform bundles the three capabilities for one operating system.
type Platform struct {
	Notifier Notifier
	Focus    FocusHandler
	Detector FocusDetector
}

// PlatformFor selects the strategy set for an operating system, once at
// process start. Unknown systems get a set that cannot notify or focus.
func PlatformFor(goos string, r mux.Runner) Platform {
	if r == nil {
		r = mux.NewRunner()
	}
	switch goos {
	case "darwin":
		d := &Darwin{r: r}
		return Platform{Notifier: d, Focus: d, Detector: d}
	case "linux":
		l := &Linux{r: r}
		return Platform{Notifier: l, Focus: l, Detector: l}
	case "windows":
		w := &Windows{r: r}
		return Platform{Notifier: w, Focus: w, Detector: w}
	}
	n := noop{}
	return Platform{Notifier: n, Focus: n, Detector: n}
}

type noop struct{}

func (noop) Notify(context.Context, string, string, *model.PaneContext) error {
	return errors.New("notifications are not supported on this platform")
}

func (noop) Focus(context.Context, string, string, *model.PaneContext) error {
	return errors.New("terminal focus is not supported on this platform")
}

func (noop) Focused(context.Context, string, string) bool { return false }

// Dispatcher applies the focus and notify trigger sets to state changes.
type Dispatcher struct {
	app       string
	focusSet  model.StateSet
	notifySet model.StateSet
	platform  Platform
	log       *slog.Logger
	metrics   *hopotel.Metrics
}

// DispatcherConfig configures a Dispatcher. App is the terminal
// application name resolved at startup; empty means undetected, which
// disables focusing and focus detection but not plain notifications.
type DispatcherConfig struct {
	App       string
	FocusSet  model.StateSet
	NotifySet model.StateSet
	Platform  Platform
	Log       *slog.Logger
	Metrics   *hopotel.Metrics
}

// NewDispatcher returns a Dispatcher. Log and Metrics may be nil.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		app:       cfg.App,
		focusSet:  cfg.FocusSet,
		notifySet: cfg.NotifySet,
		platform:  cfg.Platform,
		log:       cfg.Log,
		metrics:   cfg.Metrics,
	}
}

// Dispatch runs the focus and notification actions for one state write.
//
// The notification is suppressed when the terminal already had focus
// before dispatch, or when the focus action just succeeded in bringing
// it up. A focus attempt that fails falls through to the notification,
// so the user still hears about the state change. All failures are
// logged and absorbed; a notification must never fail the state write
// that triggered it.
func (d *Dispatcher) Dispatch(ctx context.Context, state model.HopState, pane *model.PaneContext) {
	wantsFocus := d.focusSet.Has(state)
	wantsNotify := d.notifySet.Has(state)
	if !wantsFocus && !wantsNotify {
		return
	}
	ctx, span := tracer.Start(ctx, "dispatch",
		trace.WithAttributes(
			attribute.String("hop.state", state.String()),
			attribute.Bool("dispatch.focus", wantsFocus),
			attribute.Bool("dispatch.notify", wantsNotify),
		))
	defer span.End()

	session := ""
	if pane != nil {
		session = pane.Session
	}

	// Read before acting: the focus attempt below would make the
	// terminal focused by the time the notification decision runs.
	alreadyFocused := false
	if wantsNotify {
		alreadyFocused = d.platform.Detector.Focused(ctx, d.app, session)
	}

	focused := false
	if wantsFocus {
		if err := d.platform.Focus.Focus(ctx, d.app, session, pane); err != nil {
			d.log.Debug("terminal focus failed", "app", d.app, "error", err)
			d.metrics.RecordFocusAttempt(ctx, "failed")
		} else {
			focused = true
			d.log.Info("terminal focused", "app", d.app, "state", state.String())
			d.metrics.RecordFocusAttempt(ctx, "focused")
		}
	}

	if !wantsNotify {
		return
	}
	if alreadyFocused || focused {
		d.log.Info("notification suppressed",
			"state", state.String(),
			"already_focused", alreadyFocused,
		)
		d.metrics.RecordNotification(ctx, state.String(), "suppressed")
		return
	}

	project := ""
	if pane != nil {
		project = pane.Project
	}
	body := fmt.Sprintf("%s: %s", project, state)

	// Click-to-focus only when the focus action is disabled; with both
	// enabled the focus attempt already owns that job.
	var onClick *model.PaneContext
	if !wantsFocus {
		onClick = pane
	}
	if err := d.platform.Notifier.Notify(ctx, notificationTitle, body, onClick); err != nil {
		d.log.Debug("notification failed", "state", state.String(), "error", err)
		d.metrics.RecordNotification(ctx, state.String(), "failed")
		return
	}
	d.log.Info("notification sent", "state", state.String())
	d.metrics.RecordNotification(ctx, state.String(), "sent")
}

// switchPane points the multiplexer at the target window and pane after
// the hosting application has been focused. The client showing the
// session is already the right one, so this stays within it rather than
// going through a cross-session switch.
func switchPane(ctx context.Context, r mux.Runner, pane *model.PaneContext) {
	if pane == nil {
		return
	}
	_, _ = r.Run(ctx, "tmux", "select-window", "-t", pane.Target())
	_, _ = r.Run(ctx, "tmux", "select-pane", "-t", pane.PaneID)
}
