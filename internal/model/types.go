package model

import (
	"fmt"
	"sort"
	"strings"
)

// HopState is the attention state a Claude Code pane reports via its
// lifecycle hooks.
type HopState string

const (
	// StateWaiting means Claude is blocked on the user (permission prompt,
	// question, plan approval). Most urgent.
	StateWaiting HopState = "waiting"
	// StateIdle means Claude finished a response and is ready for input.
	StateIdle HopState = "idle"
	// StateActive means Claude is working. Least urgent.
	StateActive HopState = "active"
)

// States lists the recognized states in priority order, most urgent first.
var States = []HopState{StateWaiting, StateIdle, StateActive}

var statePriority = map[HopState]int{
	StateWaiting: 0,
	StateIdle:    1,
	StateActive:  2,
}

var stateIcons = map[HopState]string{
	StateWaiting: "\U000F009C", // 󰂜 bell
	StateIdle:    "\U000F012C", // 󰄬 check
	StateActive:  "\U000F046E", // 󰑮 run
}

// ParseState returns the state named by s, or false if s is not one of the
// recognized state labels.
func ParseState(s string) (HopState, bool) {
	st := HopState(s)
	_, ok := statePriority[st]
	return st, ok
}

// Known reports whether s is one of the recognized states.
func (s HopState) Known() bool {
	_, ok := statePriority[s]
	return ok
}

// Priority returns the urgency rank of s, lower is more urgent.
// Unrecognized states rank with active.
func (s HopState) Priority() int {
	if p, ok := statePriority[s]; ok {
		return p
	}
	return statePriority[StateActive]
}

// Icon returns the status-line glyph for s, or an empty string for
// unrecognized states.
func (s HopState) Icon() string {
	return stateIcons[s]
}

func (s HopState) String() string {
	return string(s)
}

// StateSet is a set of hop states, used for the notify and focus trigger
// sets.
type StateSet map[HopState]bool

// ParseStateSet parses a comma-separated list of state names. Unrecognized
// entries are dropped; an empty or all-invalid input yields an empty set.
func ParseStateSet(raw string) StateSet {
	set := StateSet{}
	for _, part := range strings.Split(raw, ",") {
		if st, ok := ParseState(strings.TrimSpace(part)); ok {
			set[st] = true
		}
	}
	return set
}

// Has reports whether st is in the set. Safe on a nil set.
func (ss StateSet) Has(st HopState) bool {
	return ss[st]
}

// Empty reports whether the set matches no states.
func (ss StateSet) Empty() bool {
	return len(ss) == 0
}

func (ss StateSet) String() string {
	names := make([]string, 0, len(ss))
	for st, on := range ss {
		if on {
			names = append(names, string(st))
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// PaneRecord is the tracked-pane projection read back from the
// multiplexer: one record per pane carrying a recognized hop state.
type PaneRecord struct {
	// ID is the multiplexer's pane identifier (e.g. "%3"). Stable for the
	// pane's lifetime and never reused while the server runs.
	ID string `json:"id"`
	// State is the pane's current hop state.
	State HopState `json:"state"`
	// Timestamp is the unix time of the last state change, 0 when the
	// stored value was missing or unreadable.
	Timestamp int64 `json:"timestamp"`
	// Session is the session name.
	Session string `json:"session"`
	// Window is the window index.
	Window int `json:"window"`
	// Project is the basename of the pane's working directory.
	Project string `json:"project"`
	// TTY is the pane's terminal device, used for liveness checks.
	TTY string `json:"tty,omitempty"`
}

// Target returns the "session:window" address used by switch commands.
func (r PaneRecord) Target() string {
	return fmt.Sprintf("%s:%d", r.Session, r.Window)
}

// PaneContext identifies the pane a notification or focus request is
// about.
type PaneContext struct {
	PaneID  string
	Session string
	Window  int
	Project string
}

// Target returns the "session:window" address for the pane.
func (c PaneContext) Target() string {
	return fmt.Sprintf("%s:%d", c.Session, c.Window)
}
