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

// iTermTabScript walks every iTerm window, tab and session looking for
// one named after the tmux session, and selects it.
const iTermTabScript = `
tell application "iTerm"
	activate
	set found to false
	repeat with aWindow in windows
		repeat with aTab in tabs of aWindow
			repeat with aSession in sessions of aTab
				if name of aSession contains "%s" then
					select aTab
					select aWindow
					set found to true
					exit repeat
				end if
			end repeat
			if found then exit repeat
		end repeat
		if found then exit repeat
	end repeat
end tell
`

// terminalWindowScript raises the Terminal.app window whose title
// contains the tmux session name.
const terminalWindowScript = `
tell application "Terminal"
	activate
	set targetWindow to null
	repeat with aWindow in windows
		if name of aWindow contains "%s" then
			set targetWindow to aWindow
			exit repeat
		end if
	end repeat
	if targetWindow is not null then
		set index of targetWindow to 1
		set selected tab of targetWindow to (first tab of targetWindow whose busy is true or selected is true)
	end if
end tell
`

const frontmostAppScript = `
tell application "System Events"
	set frontApp to name of first application process whose frontmost is true
	return frontApp
end tell
`

const iTermFocusedScript = `
tell application "iTerm"
	if (count of windows) = 0 then return false
	set currentSession to current session of current tab of current window
	return name of currentSession contains "%s"
end tell
`

const terminalFocusedScript = `
tell application "Terminal"
	if (count of windows) = 0 then return false
	return name of front window contains "%s"
end tell
`

// Darwin notifies via AppleScript or terminal-notifier and focuses
// terminals via AppleScript. iTerm and Terminal.app get tab-level
// focusing; everything else gets plain application activation.
type Darwin struct {
	r mux.Runner
}

func (d *Darwin) Notify(ctx context.Context, title, body string, onClick *model.PaneContext) error {
	if onClick != nil {
		if _, err := d.r.LookPath("terminal-notifier"); err == nil {
			return d.notifyClickable(ctx, title, body, onClick)
		}
	}
	script := fmt.Sprintf("display notification \"%s\" with title \"%s\"",
		escapeAppleScript(body), escapeAppleScript(title))
	_, err := d.osascript(ctx, script)
	return err
}

// notifyClickable uses terminal-notifier, whose -execute flag runs a
// shell command when the notification is clicked.
func (d *Darwin) notifyClickable(ctx context.Context, title, body string, pane *model.PaneContext) error {
	clickCmd := fmt.Sprintf("tmux switch-client -t '%s' && tmux select-pane -t '%s'",
		pane.Target(), pane.PaneID)
	args := []string{
		"-title", title,
		"-message", body,
		"-execute", clickCmd,
	}
	if bundleID := os.Getenv("__CFBundleIdentifier"); bundleID != "" {
		args = append(args, "-activate", bundleID)
	}
	_, err := d.r.Run(ctx, "terminal-notifier", args...)
	return err
}

func (d *Darwin) Focus(ctx context.Context, app, session string, pane *model.PaneContext) error {
	if app == "" {
		return errors.New("no terminal application detected")
	}
	if err := d.focusAppAndTab(ctx, app, session); err != nil {
		return err
	}
	switchPane(ctx, d.r, pane)
	return nil
}

func (d *Darwin) focusAppAndTab(ctx context.Context, app, session string) error {
	if session != "" {
		switch app {
		case "iTerm":
			if _, err := d.osascript(ctx, fmt.Sprintf(iTermTabScript, escapeAppleScript(session))); err == nil {
				return nil
			}
		case "Terminal":
			if _, err := d.osascript(ctx, fmt.Sprintf(terminalWindowScript, escapeAppleScript(session))); err == nil {
				return nil
			}
		}
	}
	// Plain activation raises the app without picking a tab.
	_, err := d.osascript(ctx, fmt.Sprintf("tell application \"%s\" to activate", escapeAppleScript(app)))
	return err
}

func (d *Darwin) Focused(ctx context.Context, app, session string) bool {
	if app == "" {
		return false
	}
	front, err := d.osascript(ctx, frontmostAppScript)
	if err != nil || front == "" {
		return false
	}
	if !strings.Contains(strings.ToLower(front), strings.ToLower(app)) {
		return false
	}
	// The app owns the foreground; for the two scriptable terminals,
	// also require the session's tab to be the one showing.
	if session != "" {
		switch app {
		case "iTerm":
			return d.queryBool(ctx, fmt.Sprintf(iTermFocusedScript, escapeAppleScript(session)))
		case "Terminal":
			return d.queryBool(ctx, fmt.Sprintf(terminalFocusedScript, escapeAppleScript(session)))
		}
	}
	return true
}

func (d *Darwin) osascript(ctx context.Context, script string) (string, error) {
	out, err := d.r.Run(ctx, "osascript", "-e", script)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (d *Darwin) queryBool(ctx context.Context, script string) bool {
	out, err := d.osascript(ctx, script)
	return err == nil && out == "true"
}

// escapeAppleScript escapes backslashes and double quotes, the two
// characters with meaning inside an AppleScript string literal.
// Backslashes go first so escaped quotes are not double-escaped.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
