package config

import (
	"context"
	"strings"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

// Tmux global option names for runtime behavior. The key-binding options
// (@hop-cycle-key and friends) are consumed by hop.tmux at plugin load,
// never by this binary.
const (
	OptionCycleMode        = "@hop-cycle-mode"
	OptionAuto             = "@hop-auto"
	OptionAutoPriorityOnly = "@hop-auto-priority-only"
	OptionNotify           = "@hop-notify"
	OptionFocusApp         = "@hop-focus-app"
	OptionTerminalApp      = "@hop-terminal-app"
	OptionStatusFormat     = "@hop-status-format"
)

// DefaultStatusFormat shows the waiting and idle counts with nerd-font
// icons. Users on fonts without those glyphs set ASCII icons instead.
const DefaultStatusFormat = "{waiting:󰂜} {idle:󰄬}"

// Options is the runtime behavior configuration, read fresh from tmux
// global options on every invocation so `tmux set -g` changes apply
// without reloading anything.
type Options struct {
	// CycleMode is the raw @hop-cycle-mode value. Commands parse it with
	// hop.ParseMode after applying their --mode flag, so an unrecognized
	// value surfaces as their error rather than being silently replaced.
	CycleMode string

	// AutoHop holds the states that trigger an automatic hop when
	// registered from another pane. Empty disables auto-hop.
	AutoHop model.StateSet

	// AutoPriorityOnly suppresses the auto-hop while any other pane is
	// equally or more urgent than the registered state. On unless the
	// option is set to "off".
	AutoPriorityOnly bool

	// NotifySet and FocusSet are the notification and terminal-focus
	// trigger sets.
	NotifySet model.StateSet
	FocusSet  model.StateSet

	// TerminalApp overrides terminal detection when set.
	TerminalApp string

	// StatusFormat is the {state:icon} template rendered by status.
	StatusFormat string
}

// ReadOptions reads the runtime options from the multiplexer. Unset or
// unreadable options fall back to their defaults; a broken option must
// degrade the feature it configures, not the keybinding invoking it.
func ReadOptions(ctx context.Context, m mux.Multiplexer) *Options {
	opts := &Options{
		CycleMode:        "priority",
		AutoPriorityOnly: true,
		StatusFormat:     DefaultStatusFormat,
	}
	if v := readOption(ctx, m, OptionCycleMode); v != "" {
		opts.CycleMode = v
	}
	opts.AutoHop = model.ParseStateSet(readOption(ctx, m, OptionAuto))
	if v := readOption(ctx, m, OptionAutoPriorityOnly); strings.EqualFold(v, "off") {
		opts.AutoPriorityOnly = false
	}
	opts.NotifySet = model.ParseStateSet(readOption(ctx, m, OptionNotify))
	opts.FocusSet = model.ParseStateSet(readOption(ctx, m, OptionFocusApp))
	opts.TerminalApp = readOption(ctx, m, OptionTerminalApp)
	if v := readOption(ctx, m, OptionStatusFormat); v != "" {
		opts.StatusFormat = v
	}
	return opts
}

func readOption(ctx context.Context, m mux.Multiplexer, name string) string {
	v, err := m.GlobalOption(ctx, name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}
