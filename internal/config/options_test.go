package config

import (
	"context"
	"errors"
	"testing"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

// optionMux answers GlobalOption from a map. ReadOptions touches nothing
// else on the interface, so the rest stays unimplemented.
type optionMux struct {
	mux.Multiplexer
	globals map[string]string
	err     error
}

func (f *optionMux) GlobalOption(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.globals[name], nil
}

func TestReadOptionsDefaults(t *testing.T) {
	opts := ReadOptions(context.Background(), &optionMux{})

	if opts.CycleMode != "priority" {
		t.Errorf("CycleMode = %q, want priority", opts.CycleMode)
	}
	if !opts.AutoPriorityOnly {
		t.Error("AutoPriorityOnly = false, want true")
	}
	if !opts.AutoHop.Empty() {
		t.Errorf("AutoHop = %v, want empty", opts.AutoHop)
	}
	if !opts.NotifySet.Empty() || !opts.FocusSet.Empty() {
		t.Errorf("trigger sets = %v / %v, want empty", opts.NotifySet, opts.FocusSet)
	}
	if opts.TerminalApp != "" {
		t.Errorf("TerminalApp = %q, want empty", opts.TerminalApp)
	}
	if opts.StatusFormat != DefaultStatusFormat {
		t.Errorf("StatusFormat = %q, want default", opts.StatusFormat)
	}
}

func TestReadOptionsConfigured(t *testing.T) {
	fm := &optionMux{globals: map[string]string{
		OptionCycleMode:        "flat",
		OptionAuto:             "waiting, idle",
		OptionAutoPriorityOnly: "off",
		OptionNotify:           "waiting",
		OptionFocusApp:         "waiting,active",
		OptionTerminalApp:      "kitty",
		OptionStatusFormat:     "{waiting:W}",
	}}

	opts := ReadOptions(context.Background(), fm)

	if opts.CycleMode != "flat" {
		t.Errorf("CycleMode = %q, want flat", opts.CycleMode)
	}
	if !opts.AutoHop.Has(model.StateWaiting) || !opts.AutoHop.Has(model.StateIdle) {
		t.Errorf("AutoHop = %v, want waiting+idle", opts.AutoHop)
	}
	if opts.AutoPriorityOnly {
		t.Error("AutoPriorityOnly = true, want false")
	}
	if !opts.NotifySet.Has(model.StateWaiting) || opts.NotifySet.Has(model.StateActive) {
		t.Errorf("NotifySet = %v, want waiting only", opts.NotifySet)
	}
	if !opts.FocusSet.Has(model.StateActive) {
		t.Errorf("FocusSet = %v, want active included", opts.FocusSet)
	}
	if opts.TerminalApp != "kitty" {
		t.Errorf("TerminalApp = %q, want kitty", opts.TerminalApp)
	}
	if opts.StatusFormat != "{waiting:W}" {
		t.Errorf("StatusFormat = %q, want {waiting:W}", opts.StatusFormat)
	}
}

func TestReadOptionsUnreadableFallsBackToDefaults(t *testing.T) {
	fm := &optionMux{err: errors.New("server exited")}

	opts := ReadOptions(context.Background(), fm)

	if opts.CycleMode != "priority" || !opts.AutoPriorityOnly {
		t.Errorf("opts = %+v, want defaults", opts)
	}
	if opts.StatusFormat != DefaultStatusFormat {
		t.Errorf("StatusFormat = %q, want default", opts.StatusFormat)
	}
}

func TestReadOptionsAutoPriorityOnly(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"on", true},
		{"off", false},
		{"OFF", false},
		{"anything-else", true},
	}
	for _, tt := range tests {
		fm := &optionMux{globals: map[string]string{OptionAutoPriorityOnly: tt.value}}
		opts := ReadOptions(context.Background(), fm)
		if opts.AutoPriorityOnly != tt.want {
			t.Errorf("AutoPriorityOnly with %q = %v, want %v", tt.value, opts.AutoPriorityOnly, tt.want)
		}
	}
}

func TestReadOptionsDropsUnknownStates(t *testing.T) {
	fm := &optionMux{globals: map[string]string{OptionAuto: "waiting,bogus,idle"}}

	opts := ReadOptions(context.Background(), fm)

	if len(opts.AutoHop) != 2 {
		t.Errorf("AutoHop = %v, want 2 recognized states", opts.AutoHop)
	}
}
