package hop

import (
	"testing"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
)

func rec(id string, state model.HopState, ts int64) model.PaneRecord {
	return model.PaneRecord{ID: id, State: state, Timestamp: ts}
}

func ids(recs []model.PaneRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"priority", ModePriority, false},
		{"flat", ModeFlat, false},
		{"", "", true},
		{"urgent", "", true},
		{"PRIORITY", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOrderWaitingOldestFirst(t *testing.T) {
	records := []model.PaneRecord{
		rec("%1", model.StateWaiting, 100),
		rec("%2", model.StateWaiting, 50),
		rec("%3", model.StateWaiting, 75),
	}
	got := ids(Order(records, ModePriority))
	want := []string{"%2", "%3", "%1"}
	if !equalIDs(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestOrderIdleNewestFirst(t *testing.T) {
	records := []model.PaneRecord{
		rec("%1", model.StateIdle, 100),
		rec("%2", model.StateIdle, 50),
		rec("%3", model.StateIdle, 75),
	}
	got := ids(Order(records, ModePriority))
	want := []string{"%1", "%3", "%2"}
	if !equalIDs(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestOrderPriorityRestrictsToMostUrgentGroup(t *testing.T) {
	records := []model.PaneRecord{
		rec("%a", model.StateActive, 30),
		rec("%i", model.StateIdle, 20),
		rec("%w", model.StateWaiting, 10),
	}
	got := ids(Order(records, ModePriority))
	want := []string{"%w"}
	if !equalIDs(got, want) {
		t.Errorf("Order(priority) = %v, want %v", got, want)
	}

	// Without waiting panes the idle group becomes the cycle group.
	got = ids(Order(records[:2], ModePriority))
	want = []string{"%i"}
	if !equalIDs(got, want) {
		t.Errorf("Order(priority) without waiting = %v, want %v", got, want)
	}
}

func TestOrderFlatConcatenatesGroups(t *testing.T) {
	records := []model.PaneRecord{
		rec("%a", model.StateActive, 30),
		rec("%i", model.StateIdle, 20),
		rec("%w", model.StateWaiting, 10),
	}
	got := ids(Order(records, ModeFlat))
	want := []string{"%w", "%i", "%a"}
	if !equalIDs(got, want) {
		t.Errorf("Order(flat) = %v, want %v", got, want)
	}
}

func TestOrderEmpty(t *testing.T) {
	if got := Order(nil, ModePriority); len(got) != 0 {
		t.Errorf("Order(nil, priority) = %v, want empty", got)
	}
	if got := Order(nil, ModeFlat); len(got) != 0 {
		t.Errorf("Order(nil, flat) = %v, want empty", got)
	}
}

func TestNextAfterCurrent(t *testing.T) {
	ordered := []model.PaneRecord{
		rec("%w", model.StateWaiting, 10),
		rec("%i", model.StateIdle, 20),
		rec("%a", model.StateActive, 30),
	}
	tests := []struct {
		name    string
		current string
		want    string
	}{
		{"after first", "%w", "%i"},
		{"after middle", "%i", "%a"},
		{"wraps at end", "%a", "%w"},
		{"untracked current goes to first", "%9", "%w"},
		{"no current goes to first", "", "%w"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Next(ordered, tt.current)
			if !ok {
				t.Fatal("Next() ok = false, want true")
			}
			if got.ID != tt.want {
				t.Errorf("Next(%q) = %s, want %s", tt.current, got.ID, tt.want)
			}
		})
	}
}

func TestNextEmpty(t *testing.T) {
	if _, ok := Next(nil, "%1"); ok {
		t.Error("Next(nil) ok = true, want false")
	}
}

func TestNextSingleCandidateCyclesToItself(t *testing.T) {
	ordered := []model.PaneRecord{rec("%1", model.StateWaiting, 10)}
	got, ok := Next(ordered, "%1")
	if !ok || got.ID != "%1" {
		t.Errorf("Next() = %s, %v, want %%1, true", got.ID, ok)
	}
}

// Repeated flat cycling must visit every pane exactly once per lap,
// regardless of the starting pane.
func TestFlatCycleVisitsEveryPaneOncePerLap(t *testing.T) {
	records := []model.PaneRecord{
		rec("%1", model.StateWaiting, 40),
		rec("%2", model.StateWaiting, 10),
		rec("%3", model.StateIdle, 99),
		rec("%4", model.StateActive, 5),
	}
	ordered := Order(records, ModeFlat)

	for _, start := range []string{"%1", "%2", "%3", "%4"} {
		seen := map[string]int{}
		current := start
		for i := 0; i < len(ordered); i++ {
			next, ok := Next(ordered, current)
			if !ok {
				t.Fatalf("Next(%q) ok = false", current)
			}
			seen[next.ID]++
			current = next.ID
		}
		for _, r := range records {
			if seen[r.ID] != 1 {
				t.Errorf("starting at %s: pane %s visited %d times, want 1", start, r.ID, seen[r.ID])
			}
		}
	}
}

func TestOrderUnknownStateFallsIntoActiveGroup(t *testing.T) {
	records := []model.PaneRecord{
		rec("%1", model.HopState("bogus"), 50),
		rec("%2", model.StateActive, 10),
	}
	got := ids(Order(records, ModeFlat))
	want := []string{"%1", "%2"}
	if !equalIDs(got, want) {
		t.Errorf("Order(flat) = %v, want %v", got, want)
	}
}
