package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

type fakeMux struct {
	panes    []model.PaneRecord
	captures map[string]string
	paneOpts map[string]map[string]string
	unsets   []string
	listErr  error
}

func newFakeMux(panes ...model.PaneRecord) *fakeMux {
	return &fakeMux{
		panes:    panes,
		captures: map[string]string{},
		paneOpts: map[string]map[string]string{},
	}
}

func (f *fakeMux) Name() string                                         { return "fake" }
func (f *fakeMux) CurrentPane(context.Context) (string, error)          { return "", nil }
func (f *fakeMux) PaneLocation(context.Context, string) (string, int, error) {
	return "", 0, nil
}
func (f *fakeMux) ListPanes(context.Context) ([]model.PaneRecord, error) {
	return f.panes, f.listErr
}
func (f *fakeMux) PaneOption(_ context.Context, paneID, name string) (string, error) {
	return f.paneOpts[paneID][name], nil
}
func (f *fakeMux) SetPaneOption(_ context.Context, paneID, name, value string) error {
	if f.paneOpts[paneID] == nil {
		f.paneOpts[paneID] = map[string]string{}
	}
	f.paneOpts[paneID][name] = value
	return nil
}
func (f *fakeMux) UnsetPaneOption(_ context.Context, paneID, name string) error {
	f.unsets = append(f.unsets, paneID+" "+name)
	delete(f.paneOpts[paneID], name)
	return nil
}
func (f *fakeMux) GlobalOption(context.Context, string) (string, error)  { return "", nil }
func (f *fakeMux) SetGlobalOption(context.Context, string, string) error { return nil }
func (f *fakeMux) UnsetGlobalOption(context.Context, string) error       { return nil }
func (f *fakeMux) SwitchTo(context.Context, string, string, int) error   { return nil }
func (f *fakeMux) DisplayMessage(context.Context, string) error          { return nil }
func (f *fakeMux) CapturePane(_ context.Context, paneID string) (string, error) {
	return f.captures[paneID], nil
}

// fakeRunner serves ps output keyed by tty name. Mutex guarded because
// liveSet probes concurrently.
type fakeRunner struct {
	ps    map[string]string
	mu    sync.Mutex
	calls []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	f.mu.Unlock()
	if name == "ps" && len(args) >= 2 {
		if out, ok := f.ps[args[1]]; ok {
			return out, nil
		}
		return "", errors.New("no such tty")
	}
	return "", nil
}

func (f *fakeRunner) LookPath(name string) (string, error) { return "/usr/bin/" + name, nil }

func newStore(fm *fakeMux, fr *fakeRunner) *Store {
	s := New(fm, fr, nil)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func unsetRecorded(fm *fakeMux, key string) bool {
	for _, u := range fm.unsets {
		if u == key {
			return true
		}
	}
	return false
}

func TestSetStateWritesStateAndTimestamp(t *testing.T) {
	fm := newFakeMux()
	s := newStore(fm, &fakeRunner{})

	if err := s.SetState(context.Background(), "%1", model.StateWaiting); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if got := fm.paneOpts["%1"][mux.StateOption]; got != "waiting" {
		t.Errorf("state option: got %q, want %q", got, "waiting")
	}
	if got := fm.paneOpts["%1"][mux.TimestampOption]; got != "1700000000" {
		t.Errorf("timestamp option: got %q, want %q", got, "1700000000")
	}
}

func TestClearStateUnsetsBothOptions(t *testing.T) {
	fm := newFakeMux()
	s := newStore(fm, &fakeRunner{})

	if err := s.ClearState(context.Background(), "%1"); err != nil {
		t.Fatalf("ClearState: %v", err)
	}
	if !unsetRecorded(fm, "%1 "+mux.StateOption) || !unsetRecorded(fm, "%1 "+mux.TimestampOption) {
		t.Errorf("expected both options unset, got %v", fm.unsets)
	}
}

func TestListTrackedFiltersUnrecognized(t *testing.T) {
	fm := newFakeMux(
		model.PaneRecord{ID: "%1", State: model.StateWaiting},
		model.PaneRecord{ID: "%2", State: ""},
		model.PaneRecord{ID: "%3", State: "bogus"},
		model.PaneRecord{ID: "%4", State: model.StateIdle},
	)
	s := newStore(fm, &fakeRunner{})

	tracked, err := s.ListTracked(context.Background())
	if err != nil {
		t.Fatalf("ListTracked: %v", err)
	}
	if len(tracked) != 2 {
		t.Fatalf("got %d tracked, want 2", len(tracked))
	}
	if tracked[0].ID != "%1" || tracked[1].ID != "%4" {
		t.Errorf("got %q and %q, want %%1 and %%4", tracked[0].ID, tracked[1].ID)
	}
}

func TestPruneClearsDeadPanes(t *testing.T) {
	fm := newFakeMux(
		model.PaneRecord{ID: "%1", State: model.StateWaiting, TTY: "/dev/ttys001"},
		model.PaneRecord{ID: "%2", State: model.StateIdle, TTY: "/dev/ttys002"},
	)
	fr := &fakeRunner{ps: map[string]string{
		"ttys001": "/usr/local/bin/claude\n",
		"ttys002": "-zsh\n",
	}}
	s := newStore(fm, fr)

	stale, err := s.Prune(context.Background(), false)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(stale) != 1 || stale[0].ID != "%2" {
		t.Fatalf("stale: got %v, want just %%2", stale)
	}
	if !unsetRecorded(fm, "%2 "+mux.StateOption) {
		t.Errorf("expected %%2 state cleared, unsets: %v", fm.unsets)
	}
	if unsetRecorded(fm, "%1 "+mux.StateOption) {
		t.Errorf("live pane %%1 must not be cleared, unsets: %v", fm.unsets)
	}
}

func TestPruneDryRunLeavesState(t *testing.T) {
	fm := newFakeMux(
		model.PaneRecord{ID: "%2", State: model.StateIdle, TTY: "/dev/ttys002"},
	)
	fr := &fakeRunner{ps: map[string]string{"ttys002": "-zsh\n"}}
	s := newStore(fm, fr)

	stale, err := s.Prune(context.Background(), true)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(stale) != 1 {
		t.Fatalf("dry run should still report stale panes, got %v", stale)
	}
	if len(fm.unsets) != 0 {
		t.Errorf("dry run must not clear anything, unsets: %v", fm.unsets)
	}
}

func TestDiscoverRegistersLiveUntracked(t *testing.T) {
	fm := newFakeMux(
		model.PaneRecord{ID: "%1", Session: "work", Window: 1, TTY: "/dev/ttys001"},
		model.PaneRecord{ID: "%2", State: model.StateIdle, Session: "work", Window: 2, TTY: "/dev/ttys002"},
		model.PaneRecord{ID: "%3", Session: "work", Window: 3, TTY: "/dev/ttys003"},
		model.PaneRecord{ID: "%4", Session: "misc", Window: 0, TTY: "/dev/ttys004"},
	)
	fm.captures["%1"] = "Claude needs your permission to use Bash\n\n  Do you want to proceed?\n  ❯ 1. Yes  2. No\n"
	fm.captures["%4"] = "❯\n? for shortcuts\n"
	fr := &fakeRunner{ps: map[string]string{
		"ttys001": "claude\n",
		"ttys002": "claude\n",
		"ttys004": "claude\n",
	}}
	s := newStore(fm, fr)

	found, skipped, err := s.Discover(context.Background(), false, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("got %d found, want 2: %v", len(found), found)
	}
	if found[0].ID != "%1" || found[0].State != model.StateWaiting {
		t.Errorf("found[0]: got %s/%s, want %%1/waiting", found[0].ID, found[0].State)
	}
	if found[1].ID != "%4" || found[1].State != model.StateIdle {
		t.Errorf("found[1]: got %s/%s, want %%4/idle", found[1].ID, found[1].State)
	}
	if skipped != 1 {
		t.Errorf("skipped: got %d, want 1", skipped)
	}
	if got := fm.paneOpts["%1"][mux.StateOption]; got != "waiting" {
		t.Errorf("%%1 state option: got %q, want waiting", got)
	}
	if _, wrote := fm.paneOpts["%3"]; wrote {
		t.Error("pane without claude must not be registered")
	}
}

func TestDiscoverDryRun(t *testing.T) {
	fm := newFakeMux(
		model.PaneRecord{ID: "%1", TTY: "/dev/ttys001"},
	)
	fm.captures["%1"] = "❯\n? for shortcuts\n"
	fr := &fakeRunner{ps: map[string]string{"ttys001": "claude\n"}}
	s := newStore(fm, fr)

	found, _, err := s.Discover(context.Background(), false, true)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("dry run should still report candidates, got %v", found)
	}
	if len(fm.paneOpts) != 0 {
		t.Errorf("dry run must not write options, got %v", fm.paneOpts)
	}
}

func TestDiscoverForceReclassifiesTracked(t *testing.T) {
	fm := newFakeMux(
		model.PaneRecord{ID: "%1", State: model.StateActive, Session: "work", Window: 1, TTY: "/dev/ttys001"},
	)
	fm.captures["%1"] = "❯\n? for shortcuts\n"
	fr := &fakeRunner{ps: map[string]string{"ttys001": "claude\n"}}
	s := newStore(fm, fr)

	found, skipped, err := s.Discover(context.Background(), true, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped: got %d, want 0", skipped)
	}
	if len(found) != 1 || found[0].State != model.StateIdle {
		t.Fatalf("found: got %v, want %%1 reclassified idle", found)
	}
	if got := fm.paneOpts["%1"][mux.StateOption]; got != "idle" {
		t.Errorf("%%1 state option: got %q, want idle", got)
	}
}

func TestDropDeadWaiting(t *testing.T) {
	recs := []model.PaneRecord{
		{ID: "%1", State: model.StateWaiting, TTY: "/dev/ttys001"},
		{ID: "%2", State: model.StateWaiting, TTY: "/dev/ttys002"},
		{ID: "%3", State: model.StateIdle, TTY: "/dev/ttys003"},
	}
	fm := newFakeMux(recs...)
	fr := &fakeRunner{ps: map[string]string{
		"ttys002": "claude\n",
		// ttys001 gone; ttys003 intentionally absent — idle panes are not
		// re-checked.
	}}
	s := newStore(fm, fr)

	kept := s.DropDeadWaiting(context.Background(), recs)
	if len(kept) != 2 {
		t.Fatalf("got %d kept, want 2: %v", len(kept), kept)
	}
	if kept[0].ID != "%2" || kept[1].ID != "%3" {
		t.Errorf("kept: got %s, %s; want %%2, %%3", kept[0].ID, kept[1].ID)
	}
	if !unsetRecorded(fm, "%1 "+mux.StateOption) {
		t.Errorf("dead waiting pane should be cleared, unsets: %v", fm.unsets)
	}
	for _, c := range fr.calls {
		if strings.Contains(c, "ttys003") {
			t.Errorf("idle pane should not be liveness-checked, calls: %v", fr.calls)
		}
	}
}

func TestClaudeAlive(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want bool
	}{
		{"plain claude", "claude\n", true},
		{"absolute path", "/usr/local/bin/claude\n", true},
		{"second process", "-zsh\nclaude\n", true},
		{"print mode short", "claude -p what is this\n", false},
		{"print mode long", "claude --print summarize\n", false},
		{"shell only", "-zsh\n", false},
		{"similar name", "claude-monitor --watch\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &fakeRunner{ps: map[string]string{"ttys009": tt.out}}
			s := newStore(newFakeMux(), fr)
			if got := s.claudeAlive(context.Background(), "/dev/ttys009"); got != tt.want {
				t.Errorf("claudeAlive: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClaudeAliveEmptyTTY(t *testing.T) {
	s := newStore(newFakeMux(), &fakeRunner{})
	if s.claudeAlive(context.Background(), "") {
		t.Error("empty tty must report not alive")
	}
}

func TestIsLive(t *testing.T) {
	fm := newFakeMux(
		model.PaneRecord{ID: "%1", TTY: "/dev/ttys001"},
		model.PaneRecord{ID: "%2", TTY: "/dev/ttys002"},
	)
	fr := &fakeRunner{ps: map[string]string{
		"ttys001": "claude\n",
		"ttys002": "zsh\n",
	}}
	s := newStore(fm, fr)

	tests := []struct {
		name string
		pane string
		want bool
	}{
		{"claude running", "%1", true},
		{"program changed underneath", "%2", false},
		{"pane gone", "%9", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.IsLive(context.Background(), tt.pane)
			if err != nil {
				t.Fatalf("IsLive(%s): %v", tt.pane, err)
			}
			if ok != tt.want {
				t.Errorf("IsLive(%s) = %v, want %v", tt.pane, ok, tt.want)
			}
		})
	}
}
