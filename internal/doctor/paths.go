package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

// TmuxConfigPaths returns every tmux config location worth checking,
// in tmux's own search order plus the oh-my-tmux user config files.
func TmuxConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	xdg := xdgConfigHome()
	return []string{
		filepath.Join(home, ".tmux.conf"),
		filepath.Join(xdg, "tmux", "tmux.conf"),
		filepath.Join(home, ".config", "tmux", "tmux.conf"),
		filepath.Join(home, ".tmux.conf.local"),
		filepath.Join(xdg, "tmux", "tmux.conf.local"),
	}
}

// ActiveTmuxConfig returns the first tmux config file that exists.
func ActiveTmuxConfig() (string, bool) {
	for _, p := range TmuxConfigPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// PluginDirs returns candidate tmux plugin directories in priority
// order: the TPM-managed path advertised in the tmux environment, then
// XDG locations, then the traditional ~/.tmux/plugins.
func PluginDirs(ctx context.Context, r mux.Runner) []string {
	var dirs []string
	if p := tpmEnvPath(ctx, r); p != "" {
		dirs = append(dirs, p)
	}
	if xdg := xdgConfigHome(); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "tmux", "plugins"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".config", "tmux", "plugins"),
			filepath.Join(home, ".tmux", "plugins"))
	}
	seen := make(map[string]bool, len(dirs))
	unique := dirs[:0]
	for _, d := range dirs {
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}
	return unique
}

// FindTPM returns the TPM checkout directory if one exists.
func FindTPM(ctx context.Context, r mux.Runner) (string, bool) {
	return findInPluginDirs(ctx, r, "tpm")
}

// FindPlugin returns the named plugin's directory if one exists.
func FindPlugin(ctx context.Context, r mux.Runner, name string) (string, bool) {
	return findInPluginDirs(ctx, r, name)
}

func findInPluginDirs(ctx context.Context, r mux.Runner, name string) (string, bool) {
	for _, dir := range PluginDirs(ctx, r) {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// PluginInConfig returns the tmux config file mentioning the plugin,
// for installs that reference it without a plugin directory.
func PluginInConfig(name string) (string, bool) {
	for _, p := range TmuxConfigPaths() {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if strings.Contains(string(data), name) {
			return p, true
		}
	}
	return "", false
}

// PluginInstallDir returns where a manual install should clone the
// plugin: next to TPM when present, else the first existing plugin
// directory, else the traditional location.
func PluginInstallDir(ctx context.Context, r mux.Runner) string {
	if tpm, ok := FindTPM(ctx, r); ok {
		return filepath.Dir(tpm)
	}
	for _, dir := range PluginDirs(ctx, r) {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tmux", "plugins")
}

// ClaudeSettingsPath returns the Claude Code user settings file.
func ClaudeSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", "settings.json")
}

// tpmEnvPath reads TMUX_PLUGIN_MANAGER_PATH from the tmux server
// environment. TPM exports it on init, so inside tmux this is the most
// reliable signal for a custom plugin path.
func tpmEnvPath(ctx context.Context, r mux.Runner) string {
	if os.Getenv("TMUX") == "" {
		return ""
	}
	out, err := r.Run(ctx, "tmux", "show-environment", "-g", "TMUX_PLUGIN_MANAGER_PATH")
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(out)
	// Unset variables come back as "-TMUX_PLUGIN_MANAGER_PATH".
	if strings.HasPrefix(line, "-") || !strings.Contains(line, "=") {
		return ""
	}
	path := strings.TrimSpace(strings.SplitN(line, "=", 2)[1])
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	path = strings.TrimRight(path, "/")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
