// Package classify infers an initial hop state from captured pane content.
//
// This is protocol parsing of the Claude Code TUI: the dialog headers,
// thinking indicators, and footers it renders are fixed strings, so a
// pane that was started before the hooks were installed can still be
// registered with a sensible state. Once hooks are reporting, they own
// the state and this package is not consulted again.
package classify

import (
	"strings"
	"unicode"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
)

// bottomLines is the number of non-empty lines from the bottom of the
// capture to examine. Small enough that stale indicators from prior turns
// are excluded when a clear idle prompt sits at the very bottom; large
// enough for status bars and multi-line dialogs.
const bottomLines = 8

// State classifies captured pane content into a hop state.
//
// The bottom of the screen wins: dialog or spinner text higher up is
// scrollback from a prior turn and is ignored when the bottom shows an
// idle prompt.
func State(content string) model.HopState {
	bottom := bottomNonEmpty(strings.Split(content, "\n"), bottomLines)

	if idleAtBottom(bottom) {
		return model.StateIdle
	}

	// An auto-select countdown resolves without the user, so the pane is
	// effectively still working even though a dialog is on screen.
	if strings.Contains(content, "Auto-selecting in") {
		return model.StateActive
	}

	if waitingDialog(content, bottom) {
		return model.StateWaiting
	}

	if activeAtBottom(bottom) {
		return model.StateActive
	}

	return model.StateIdle
}

// idleAtBottom reports whether the bottom lines show a clear idle prompt
// ("❯", ">", or the "? for shortcuts" footer) with no live activity or
// dialog cursor alongside it.
func idleAtBottom(bottom []string) bool {
	hasPrompt := false
	for _, line := range bottom {
		trimmed := strings.TrimSpace(line)
		if activeLine(trimmed) {
			return false
		}
		// "❯ 1. Yes ..." is the Select component cursor: a dialog is live
		// even if its header has scrolled off.
		if dialogSelector(trimmed) {
			return false
		}
		if trimmed == "❯" || trimmed == ">" || trimmed == "? for shortcuts" {
			hasPrompt = true
		}
		if strings.HasPrefix(trimmed, "❯ ") {
			hasPrompt = true
		}
	}
	return hasPrompt
}

// waitingDialog reports whether a permission, edit, or selection dialog is
// asking for the user.
func waitingDialog(content string, bottom []string) bool {
	if strings.Contains(content, "Claude needs your permission") {
		return true
	}
	if strings.Contains(content, "Do you want to make this edit to") {
		return true
	}
	if strings.Contains(content, "Do you want to proceed?") && numberedOptions(content) {
		return true
	}
	for _, line := range bottom {
		if dialogSelector(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func activeAtBottom(bottom []string) bool {
	for _, line := range bottom {
		if activeLine(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

// thinkingIndicators are the glyphs Claude Code cycles through in front of
// its randomized working verb ("✻ Pondering…", "✶ Crunching…", ...).
var thinkingIndicators = map[rune]bool{
	'·': true, '✢': true, '✳': true, '✶': true, '✻': true, '✽': true, '*': true,
}

// progressVerbs appear in tool progress lines like "Fetching https://…".
var progressVerbs = []string{"Fetching", "Reading", "Writing", "Searching", "Running", "Executing"}

func activeLine(trimmed string) bool {
	if spinnerVerbLine(trimmed) {
		return true
	}
	for _, verb := range progressVerbs {
		if strings.Contains(trimmed, verb) {
			return true
		}
	}
	// Braille spinner characters indicate active execution.
	for _, r := range trimmed {
		if r >= '⠋' && r <= '⠿' {
			return true
		}
	}
	return false
}

// spinnerVerbLine matches a live thinking indicator: a spinner glyph, one
// verb, then an ellipsis, as in "✻ Scampering… (2m 22s · ↓ 2.8k tokens)".
// The single-word rule keeps past-tense summaries ("✻ Worked for 3m") and
// markdown bullets ("* Next steps...") from matching.
func spinnerVerbLine(trimmed string) bool {
	runes := []rune(trimmed)
	if len(runes) < 3 || !thinkingIndicators[runes[0]] || runes[1] != ' ' {
		return false
	}
	rest := strings.TrimSpace(string(runes[2:]))
	word := rest
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		word = rest[:i]
	}
	return strings.HasSuffix(word, "…") || strings.HasSuffix(word, "...")
}

func numberedOptions(content string) bool {
	return strings.Contains(content, "1.") && strings.Contains(content, "2.") &&
		(strings.Contains(content, "Yes") || strings.Contains(content, "No"))
}

// dialogSelector reports whether the line looks like a Select component
// cursor line ("❯ 1. Yes ..."): the "❯ " prefix followed by a digit and a
// period. This distinguishes it from idle prompt lines like "❯ " or
// "❯ user typed text".
func dialogSelector(trimmed string) bool {
	const prefix = "❯ "
	if !strings.HasPrefix(trimmed, prefix) {
		return false
	}
	rest := trimmed[len(prefix):]
	return len(rest) >= 2 && unicode.IsDigit(rune(rest[0])) && rest[1] == '.'
}

// bottomNonEmpty returns the last n lines once trailing blank lines are
// dropped.
func bottomNonEmpty(lines []string, n int) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	start := end - n
	if start < 0 {
		start = 0
	}
	return lines[start:end]
}
