// Package install wires the plugin into tmux and Claude Code: a TPM
// plugin line or a manual clone on the tmux side, hook entries in
// settings.json on the Claude side. Detection reuses the doctor checks.
package install

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/unsafe9/claude-tmux-hop/internal/doctor"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

const (
	pluginLine = "set -g @plugin 'unsafe9/claude-tmux-hop'"
	repoURL    = "https://github.com/unsafe9/claude-tmux-hop"

	// Clones and pulls get a longer leash than tmux queries.
	gitTimeout = 30 * time.Second
)

// ErrNotInstalled is returned by updates when there is nothing to update.
var ErrNotInstalled = errors.New("not installed")

// Installer performs the install and update steps. Detail lines go to
// Out; section headers and prompts belong to the caller.
type Installer struct {
	Runner mux.Runner
	Out    io.Writer

	// Binary overrides the executable path written into Claude hook
	// commands. Empty means the running binary.
	Binary string
}

// Environment is what Detect found to work with.
type Environment struct {
	Tmux       doctor.CheckResult
	Claude     doctor.CheckResult
	TPM        doctor.CheckResult
	Fzf        doctor.CheckResult
	InsideTmux bool
}

// Verification reports which components are currently installed.
type Verification struct {
	TmuxPlugin  bool
	ClaudeHooks bool
}

// Detect probes the environment ahead of an install.
func (i *Installer) Detect(ctx context.Context) Environment {
	d := doctor.New(i.Runner)
	return Environment{
		Tmux:       d.CheckTmux(ctx),
		Claude:     d.CheckClaudeCLI(ctx),
		TPM:        d.CheckTPM(ctx),
		Fzf:        d.CheckFzf(),
		InsideTmux: os.Getenv("TMUX") != "",
	}
}

// Verify reports which components an update has to act on.
func (i *Installer) Verify(ctx context.Context) Verification {
	d := doctor.New(i.Runner)
	return Verification{
		TmuxPlugin:  d.CheckTmuxPlugin(ctx).OK,
		ClaudeHooks: d.CheckClaudeHooks().OK,
	}
}

// InstallTmuxTPM adds the plugin line to the active tmux config so TPM
// picks it up on the next prefix+I.
func (i *Installer) InstallTmuxTPM(ctx context.Context) error {
	conf, err := i.targetConfig()
	if err != nil {
		return err
	}
	if data, err := os.ReadFile(conf); err == nil && strings.Contains(string(data), doctor.PluginName) {
		i.printf("plugin already in %s", conf)
		return nil
	}
	if err := appendToFile(conf, "\n# Claude Tmux Hop\n"+pluginLine+"\n"); err != nil {
		return err
	}
	i.printf("added to %s", conf)
	i.printf("run 'prefix + I' in tmux to install, or reload: tmux source %s", conf)
	return nil
}

// InstallTmuxManual clones the plugin into the plugin directory and
// sources hop.tmux from the config, for setups without TPM.
func (i *Installer) InstallTmuxManual(ctx context.Context) error {
	dir := doctor.PluginInstallDir(ctx, i.Runner)
	if dir == "" {
		return errors.New("cannot resolve a tmux plugin directory")
	}
	target := filepath.Join(dir, doctor.PluginName)
	if _, err := os.Stat(target); err == nil {
		i.printf("plugin directory already exists: %s", target)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		i.printf("cloning %s...", repoURL)
		cloneCtx, cancel := context.WithTimeout(ctx, gitTimeout)
		defer cancel()
		if _, err := i.Runner.Run(cloneCtx, "git", "clone", "--depth", "1", repoURL, target); err != nil {
			return fmt.Errorf("git clone: %w", err)
		}
		i.printf("cloned into %s", target)
	}

	conf, err := i.targetConfig()
	if err != nil {
		return err
	}
	if data, err := os.ReadFile(conf); err == nil && strings.Contains(string(data), "hop.tmux") {
		i.printf("config already sources hop.tmux")
		return nil
	}
	runLine := fmt.Sprintf("run-shell '%s/hop.tmux'", target)
	if err := appendToFile(conf, "\n# Claude Tmux Hop\n"+runLine+"\n"); err != nil {
		return err
	}
	i.printf("added to %s: %s", conf, runLine)
	return nil
}

// UpdateTmux pulls the plugin checkout forward.
func (i *Installer) UpdateTmux(ctx context.Context) error {
	dir, ok := doctor.FindPlugin(ctx, i.Runner, doctor.PluginName)
	if !ok {
		return ErrNotInstalled
	}
	if fi, err := os.Lstat(dir); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		i.printf("symlinked install, update the source checkout instead")
		return nil
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return fmt.Errorf("%s is not a git checkout", dir)
	}
	i.printf("updating %s...", dir)
	pullCtx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()
	out, err := i.Runner.Run(pullCtx, "git", "-C", dir, "pull", "--ff-only")
	if err != nil {
		return fmt.Errorf("git pull: %w", err)
	}
	out = strings.TrimSpace(out)
	if strings.Contains(out, "Already up to date") {
		i.printf("already up to date")
	} else {
		if idx := strings.IndexByte(out, '\n'); idx >= 0 {
			out = out[:idx]
		}
		i.printf("updated: %s", out)
	}
	return nil
}

// targetConfig returns the config file to edit, defaulting to
// ~/.tmux.conf when none exists yet.
func (i *Installer) targetConfig() (string, error) {
	if conf, ok := doctor.ActiveTmuxConfig(); ok {
		return conf, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tmux.conf"), nil
}

func (i *Installer) printf(format string, args ...any) {
	if i.Out == nil {
		return
	}
	fmt.Fprintf(i.Out, "  "+format+"\n", args...)
}

func appendToFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// TerminalPrompt returns a y/n prompter reading from in. Empty input
// takes the default; EOF counts as a refusal.
func TerminalPrompt(in io.Reader, out io.Writer) func(message string, def bool) bool {
	reader := bufio.NewReader(in)
	return func(message string, def bool) bool {
		suffix := " [Y/n]: "
		if !def {
			suffix = " [y/N]: "
		}
		fmt.Fprint(out, message+suffix)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def
		case "y", "yes":
			return true
		}
		return false
	}
}
