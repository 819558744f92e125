package install

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unsafe9/claude-tmux-hop/internal/doctor"
)

type fakeRunner struct {
	paths map[string]string
	outs  map[string]string
	errs  map[string]error
	runs  []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.runs = append(f.runs, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	if out, ok := f.outs[key]; ok {
		return out, nil
	}
	if err, ok := f.errs[name]; ok {
		return "", err
	}
	return f.outs[name], nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", errors.New("not found: " + name)
}

func testHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("TMUX", "")
	return home
}

func newTestInstaller(fr *fakeRunner, out io.Writer) *Installer {
	return &Installer{Runner: fr, Out: out, Binary: "claude-tmux-hop"}
}

func TestInstallTmuxTPMAppendsPluginLine(t *testing.T) {
	home := testHome(t)
	conf := filepath.Join(home, ".tmux.conf")
	if err := os.WriteFile(conf, []byte("set -g mouse on\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	ins := newTestInstaller(&fakeRunner{}, &buf)

	if err := ins.InstallTmuxTPM(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(conf)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "set -g mouse on") {
		t.Error("existing config content lost")
	}
	if !strings.Contains(string(data), pluginLine) {
		t.Errorf("plugin line missing from config:\n%s", data)
	}

	buf.Reset()
	if err := ins.InstallTmuxTPM(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "already") {
		t.Errorf("second install output = %q, want already message", buf.String())
	}
	again, _ := os.ReadFile(conf)
	if string(again) != string(data) {
		t.Error("second install modified the config")
	}
}

func TestInstallTmuxTPMCreatesMissingConfig(t *testing.T) {
	home := testHome(t)
	ins := newTestInstaller(&fakeRunner{}, io.Discard)

	if err := ins.InstallTmuxTPM(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".tmux.conf"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), pluginLine) {
		t.Errorf("new config missing plugin line:\n%s", data)
	}
}

func TestInstallTmuxManualClonesAndSourcesPlugin(t *testing.T) {
	home := testHome(t)
	fr := &fakeRunner{}
	ins := newTestInstaller(fr, io.Discard)

	if err := ins.InstallTmuxManual(context.Background()); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(home, ".tmux", "plugins", doctor.PluginName)
	wantClone := "git clone --depth 1 " + repoURL + " " + target
	if len(fr.runs) != 1 || fr.runs[0] != wantClone {
		t.Errorf("runs = %v, want [%s]", fr.runs, wantClone)
	}

	data, err := os.ReadFile(filepath.Join(home, ".tmux.conf"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "run-shell '"+target+"/hop.tmux'") {
		t.Errorf("config missing run-shell line:\n%s", data)
	}
}

func TestInstallTmuxManualSkipsExistingClone(t *testing.T) {
	home := testHome(t)
	target := filepath.Join(home, ".tmux", "plugins", doctor.PluginName)
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	fr := &fakeRunner{}
	ins := newTestInstaller(fr, io.Discard)

	if err := ins.InstallTmuxManual(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(fr.runs) != 0 {
		t.Errorf("runs = %v, want no git calls", fr.runs)
	}
}

func TestUpdateTmuxNotInstalled(t *testing.T) {
	testHome(t)
	ins := newTestInstaller(&fakeRunner{}, io.Discard)

	if err := ins.UpdateTmux(context.Background()); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("UpdateTmux = %v, want ErrNotInstalled", err)
	}
}

func TestUpdateTmuxPullsCheckout(t *testing.T) {
	home := testHome(t)
	dir := filepath.Join(home, ".tmux", "plugins", doctor.PluginName)
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	key := "git -C " + dir + " pull --ff-only"
	fr := &fakeRunner{outs: map[string]string{key: "Already up to date.\n"}}
	var buf bytes.Buffer
	ins := newTestInstaller(fr, &buf)

	if err := ins.UpdateTmux(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(fr.runs) != 1 || fr.runs[0] != key {
		t.Errorf("runs = %v, want [%s]", fr.runs, key)
	}
	if !strings.Contains(buf.String(), "already up to date") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestMergeHooksIntoEmptySettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	added, err := mergeHooks(path, "claude-tmux-hop")
	if err != nil {
		t.Fatal(err)
	}
	if added != len(claudeHooks) {
		t.Errorf("added = %d, want %d", added, len(claudeHooks))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		t.Fatalf("written settings are not valid JSON: %v", err)
	}
	hooks, _ := root["hooks"].(map[string]any)
	for _, h := range claudeHooks {
		if _, ok := hooks[h.Event]; !ok {
			t.Errorf("event %s missing from settings", h.Event)
		}
	}
	if !strings.Contains(string(data), "'claude-tmux-hop' clear") {
		t.Error("SessionEnd clear command missing")
	}
}

func TestMergeHooksIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	if _, err := mergeHooks(path, "claude-tmux-hop"); err != nil {
		t.Fatal(err)
	}
	added, err := mergeHooks(path, "claude-tmux-hop")
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 {
		t.Errorf("second merge added %d hooks, want 0", added)
	}
}

func TestMergeHooksPreservesExistingSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	seed := `{
  "model": "opus",
  "hooks": {
    "SessionStart": [
      {"hooks": [{"type": "command", "command": "other-tool run"}]}
    ]
  }
}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := mergeHooks(path, "claude-tmux-hop"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		t.Fatal(err)
	}
	if root["model"] != "opus" {
		t.Errorf("model = %v, want opus", root["model"])
	}
	hooks := root["hooks"].(map[string]any)
	entries := hooks["SessionStart"].([]any)
	if len(entries) != 2 {
		t.Fatalf("SessionStart entries = %d, want existing plus ours", len(entries))
	}
	if !strings.Contains(string(data), "other-tool run") {
		t.Error("existing hook command lost")
	}
}

func TestMergeHooksRejectsMalformedSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := mergeHooks(path, "claude-tmux-hop"); err == nil {
		t.Error("malformed settings accepted")
	}
}

func TestInstallClaudeHooksWritesSettings(t *testing.T) {
	home := testHome(t)
	var buf bytes.Buffer
	ins := newTestInstaller(&fakeRunner{}, &buf)

	if err := ins.InstallClaudeHooks(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(home, ".claude", "settings.json")); err != nil {
		t.Fatalf("settings file not created: %v", err)
	}

	buf.Reset()
	if err := ins.InstallClaudeHooks(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "already") {
		t.Errorf("second install output = %q, want already message", buf.String())
	}
}

func TestDetectReusesDoctorChecks(t *testing.T) {
	testHome(t)
	fr := &fakeRunner{
		paths: map[string]string{"tmux": "/usr/bin/tmux"},
		outs:  map[string]string{"tmux -V": "tmux 3.4\n"},
	}
	ins := newTestInstaller(fr, io.Discard)

	env := ins.Detect(context.Background())

	if !env.Tmux.OK {
		t.Errorf("Tmux = %+v, want ok", env.Tmux)
	}
	if env.Claude.OK {
		t.Errorf("Claude = %+v, want missing", env.Claude)
	}
	if env.InsideTmux {
		t.Error("InsideTmux = true outside tmux")
	}
}

func TestTerminalPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"empty takes default yes", "\n", true, true},
		{"empty takes default no", "\n", false, false},
		{"explicit yes", "y\n", false, true},
		{"explicit no", "n\n", true, false},
		{"full word", "yes\n", false, true},
		{"eof refuses", "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := TerminalPrompt(strings.NewReader(tt.input), io.Discard)
			if got := prompt("Install?", tt.def); got != tt.want {
				t.Errorf("prompt(%q, %v) = %v, want %v", tt.input, tt.def, got, tt.want)
			}
		})
	}
}
