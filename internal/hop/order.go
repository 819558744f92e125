package hop

import (
	"fmt"
	"sort"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
)

// Mode selects which panes a cycle rotates through.
type Mode string

const (
	// ModePriority rotates within the most urgent non-empty state group
	// only. Idle panes become reachable once nothing is waiting.
	ModePriority Mode = "priority"

	// ModeFlat rotates through every tracked pane in urgency order.
	ModeFlat Mode = "flat"
)

// ParseMode validates a cycle mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePriority, ModeFlat:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid cycle mode %q (valid: priority, flat)", s)
}

// Order sorts tracked panes into cycle order for the given mode.
//
// Waiting panes come oldest-first: the request that has been blocked
// the longest is served first. Idle and active panes come newest-first.
// Priority mode returns only the most urgent non-empty group; flat mode
// concatenates all groups in urgency order.
func Order(records []model.PaneRecord, mode Mode) []model.PaneRecord {
	groups := groupByUrgency(records)
	if mode == ModePriority {
		for _, group := range groups {
			if len(group) > 0 {
				return group
			}
		}
		return nil
	}
	ordered := make([]model.PaneRecord, 0, len(records))
	for _, group := range groups {
		ordered = append(ordered, group...)
	}
	return ordered
}

// Next returns the entry after the current pane in cycle order, wrapping
// at the end. When the current pane is not part of the order (untracked,
// or sitting in a lower-urgency group), the first entry is returned so
// the hop lands on the most urgent pane.
func Next(ordered []model.PaneRecord, currentPane string) (model.PaneRecord, bool) {
	if len(ordered) == 0 {
		return model.PaneRecord{}, false
	}
	for i, rec := range ordered {
		if rec.ID == currentPane {
			return ordered[(i+1)%len(ordered)], true
		}
	}
	return ordered[0], true
}

// groupByUrgency buckets records by state priority and sorts each bucket.
// Stable sorts keep the server's pane order for equal timestamps.
func groupByUrgency(records []model.PaneRecord) [][]model.PaneRecord {
	groups := make([][]model.PaneRecord, len(model.States))
	for _, rec := range records {
		groups[rec.State.Priority()] = append(groups[rec.State.Priority()], rec)
	}

	waiting := groups[model.StateWaiting.Priority()]
	sort.SliceStable(waiting, func(i, j int) bool {
		return waiting[i].Timestamp < waiting[j].Timestamp
	})

	for _, state := range []model.HopState{model.StateIdle, model.StateActive} {
		group := groups[state.Priority()]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp > group[j].Timestamp
		})
	}
	return groups
}
