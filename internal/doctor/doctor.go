// Package doctor inspects the environment the plugin depends on: tmux
// and its version, the Claude Code CLI, TPM, fzf, and whether the tmux
// plugin and Claude hooks are actually wired up. The install package
// reuses these checks for its own detection.
package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

// PluginName is the repository and plugin directory name.
const PluginName = "claude-tmux-hop"

// maxVersionLen truncates absurdly long --version output in reports.
const maxVersionLen = 50

// CheckResult is the outcome of one environment check.
type CheckResult struct {
	Name     string `json:"name"`
	OK       bool   `json:"ok"`
	Version  string `json:"version,omitempty"`
	Message  string `json:"message,omitempty"`
	Required bool   `json:"required"`
}

// Status returns the text-report tag: OK, WARN for a failed optional
// check, FAIL for a failed required one.
func (r CheckResult) Status() string {
	switch {
	case r.OK:
		return "OK"
	case !r.Required:
		return "WARN"
	default:
		return "FAIL"
	}
}

// Doctor runs environment checks through a Runner so tests can fake
// the external commands.
type Doctor struct {
	Runner mux.Runner
}

func New(r mux.Runner) *Doctor {
	return &Doctor{Runner: r}
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// CheckTmux verifies tmux is installed and at least 3.0. Pane options
// and display-popup need 3.0; older servers fail in confusing ways.
func (d *Doctor) CheckTmux(ctx context.Context) CheckResult {
	if _, err := d.Runner.LookPath("tmux"); err != nil {
		return CheckResult{Name: "tmux", Message: "not installed", Required: true}
	}
	out, err := d.Runner.Run(ctx, "tmux", "-V")
	if err != nil {
		return CheckResult{Name: "tmux", Message: "command failed", Required: true}
	}
	version := strings.TrimSpace(out)
	if m := versionPattern.FindStringSubmatch(version); m != nil {
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		if major < 3 {
			return CheckResult{
				Name:     "tmux",
				Version:  version,
				Message:  fmt.Sprintf("requires 3.0+, found %d.%d", major, minor),
				Required: true,
			}
		}
	}
	return CheckResult{Name: "tmux", OK: true, Version: version, Required: true}
}

// CheckClaudeCLI verifies the claude binary is reachable.
func (d *Doctor) CheckClaudeCLI(ctx context.Context) CheckResult {
	if _, err := d.Runner.LookPath("claude"); err != nil {
		return CheckResult{Name: "claude", Message: "not installed", Required: true}
	}
	out, err := d.Runner.Run(ctx, "claude", "--version")
	if err != nil {
		return CheckResult{Name: "claude", Message: "command failed", Required: true}
	}
	version := strings.TrimSpace(out)
	if len(version) > maxVersionLen {
		version = version[:maxVersionLen-3] + "..."
	}
	return CheckResult{Name: "claude", OK: true, Version: version, Required: true}
}

// CheckTPM looks for a TPM checkout in the known plugin directories.
func (d *Doctor) CheckTPM(ctx context.Context) CheckResult {
	if path, ok := FindTPM(ctx, d.Runner); ok {
		return CheckResult{Name: "tpm", OK: true, Message: path}
	}
	return CheckResult{Name: "tpm", Message: "not found (optional)"}
}

// CheckFzf reports whether fzf is available for the picker-data flow.
func (d *Doctor) CheckFzf() CheckResult {
	if path, err := d.Runner.LookPath("fzf"); err == nil {
		return CheckResult{Name: "fzf", OK: true, Message: path}
	}
	return CheckResult{Name: "fzf", Message: "not found (picker uses built-in fallback)"}
}

// CheckTmuxPlugin reports whether the tmux plugin is installed, either
// as a plugin directory or as a line in a tmux config file.
func (d *Doctor) CheckTmuxPlugin(ctx context.Context) CheckResult {
	if path, ok := FindPlugin(ctx, d.Runner, PluginName); ok {
		return CheckResult{Name: "tmux-plugin", OK: true, Message: path}
	}
	if conf, ok := PluginInConfig(PluginName); ok {
		return CheckResult{Name: "tmux-plugin", OK: true, Message: "in " + conf}
	}
	return CheckResult{Name: "tmux-plugin", Message: "not installed"}
}

// CheckClaudeHooks reports whether the Claude Code settings file wires
// this tool into the session lifecycle hooks.
func (d *Doctor) CheckClaudeHooks() CheckResult {
	path := ClaudeSettingsPath()
	if path == "" {
		return CheckResult{Name: "claude-hooks", Message: "cannot resolve home directory"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return CheckResult{Name: "claude-hooks", Message: "no settings file"}
	}
	if strings.Contains(string(data), PluginName) {
		return CheckResult{Name: "claude-hooks", OK: true, Message: "in " + path}
	}
	return CheckResult{Name: "claude-hooks", Message: "not installed"}
}

// RunAll runs every check in report order.
func (d *Doctor) RunAll(ctx context.Context) []CheckResult {
	return []CheckResult{
		d.CheckTmux(ctx),
		d.CheckClaudeCLI(ctx),
		d.CheckTPM(ctx),
		d.CheckFzf(),
		d.CheckTmuxPlugin(ctx),
		d.CheckClaudeHooks(),
	}
}

// Format renders results as indented text lines.
func Format(results []CheckResult) string {
	var b strings.Builder
	for _, r := range results {
		detail := r.Version
		if detail == "" {
			detail = r.Message
		}
		fmt.Fprintf(&b, "  [%-4s] %s: %s\n", r.Status(), r.Name, detail)
	}
	return b.String()
}

// FormatJSON renders results as indented JSON.
func FormatJSON(results []CheckResult) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// AnyRequiredFailed reports whether a required check failed, which
// turns into a non-zero exit.
func AnyRequiredFailed(results []CheckResult) bool {
	for _, r := range results {
		if r.Required && !r.OK {
			return true
		}
	}
	return false
}
