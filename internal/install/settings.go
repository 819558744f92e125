package install

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/unsafe9/claude-tmux-hop/internal/doctor"
)

// claudeHooks lists the lifecycle hooks the plugin needs, in the order
// they are written into settings.json. Notification marks the pane
// waiting for input; Stop returns it to idle rather than clearing so
// the pane stays hoppable between prompts.
var claudeHooks = []struct {
	Event string
	Args  string
}{
	{"SessionStart", "register --state idle"},
	{"UserPromptSubmit", "register --state active"},
	{"Notification", "register --state waiting"},
	{"Stop", "register --state idle"},
	{"SessionEnd", "clear"},
}

// InstallClaudeHooks merges the hook entries into the user's Claude
// settings. Existing settings and hooks are preserved; events already
// mentioning this plugin are left alone.
func (i *Installer) InstallClaudeHooks() error {
	path := doctor.ClaudeSettingsPath()
	if path == "" {
		return errors.New("cannot resolve home directory")
	}
	added, err := mergeHooks(path, i.hookBinary())
	if err != nil {
		return err
	}
	if added == 0 {
		i.printf("hooks already in %s", path)
		return nil
	}
	i.printf("added %d hooks to %s", added, path)
	i.printf("restart Claude Code sessions to apply")
	return nil
}

// UpdateClaudeHooks re-merges the hook entries, picking up events added
// since the original install. The merge is idempotent.
func (i *Installer) UpdateClaudeHooks() error {
	return i.InstallClaudeHooks()
}

// hookBinary returns the executable to reference from hook commands.
func (i *Installer) hookBinary() string {
	if i.Binary != "" {
		return i.Binary
	}
	exe, err := os.Executable()
	if err != nil {
		return doctor.PluginName
	}
	return exe
}

// mergeHooks rewrites the settings file with the plugin's hooks added.
// The file is decoded into generic maps so settings this tool knows
// nothing about survive the round trip.
func mergeHooks(path, binary string) (int, error) {
	root := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &root); err != nil {
			return 0, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return 0, err
	}

	hooks, ok := root["hooks"].(map[string]any)
	if !ok {
		hooks = map[string]any{}
		root["hooks"] = hooks
	}

	added := 0
	for _, h := range claudeHooks {
		entries, _ := hooks[h.Event].([]any)
		if mentionsPlugin(entries) {
			continue
		}
		entries = append(entries, map[string]any{
			"hooks": []any{
				map[string]any{
					"type":    "command",
					"command": fmt.Sprintf("'%s' %s", binary, h.Args),
				},
			},
		})
		hooks[h.Event] = entries
		added++
	}
	if added == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return 0, err
	}
	return added, os.WriteFile(path, append(out, '\n'), 0o644)
}

// mentionsPlugin reports whether any hook command in the event's
// entries already references this plugin.
func mentionsPlugin(entries []any) bool {
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		cmds, _ := entry["hooks"].([]any)
		for _, c := range cmds {
			hook, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if cmd, _ := hook["command"].(string); strings.Contains(cmd, doctor.PluginName) {
				return true
			}
		}
	}
	return false
}
