// Package terminal resolves which terminal application hosts the
// multiplexer session, from environment signals left behind by the
// emulator or IDE. The resolved name feeds the focus and notification
// strategies; an unrecognized signal passes through unchanged so those
// features degrade per application instead of per platform.
package terminal

import (
	"os"
	"strings"
)

// terminalApps maps TERM_PROGRAM values to focusable application names.
var terminalApps = map[string]string{
	// macOS terminals
	"Apple_Terminal": "Terminal",
	"iTerm.app":      "iTerm",
	"Alacritty":      "Alacritty",
	"alacritty":      "Alacritty",
	"kitty":          "kitty",
	"WezTerm":        "WezTerm",
	"Hyper":          "Hyper",
	"Ghostty":        "Ghostty",

	// VS Code family
	"vscode":   "Visual Studio Code",
	"cursor":   "Cursor",
	"Windsurf": "Windsurf",

	// Other IDEs and emulators
	"Zed":               "Zed",
	"Apple_Antigravity": "Antigravity",
	"rio":               "Rio",
	"foot":              "foot",

	// Linux terminals
	"gnome-terminal": "Gnome-terminal",
	"konsole":        "Konsole",
	"xfce4-terminal": "Xfce4-terminal",
	"tilix":          "Tilix",
	"terminator":     "Terminator",

	// Windows terminals
	"Windows Terminal": "WindowsTerminal",
	"ConEmu":           "ConEmu",
	"ConEmu64":         "ConEmu64",
	"Cmder":            "Cmder",
	"Fluent Terminal":  "Fluent Terminal",
}

// macosBundles maps __CFBundleIdentifier values to application names.
// The bundle id survives inside tmux, where TERM_PROGRAM is overwritten,
// so it is consulted first.
var macosBundles = map[string]string{
	"com.apple.Terminal": "Terminal",

	"com.googlecode.iterm2":         "iTerm",
	"io.alacritty":                  "Alacritty",
	"net.kovidgoyal.kitty":          "kitty",
	"com.github.wez.wezterm":        "WezTerm",
	"co.zeit.hyper":                 "Hyper",
	"com.mitchellh.ghostty":         "Ghostty",
	"com.microsoft.VSCode":          "Visual Studio Code",
	"com.todesktop.230313mzl4w4u92": "Cursor",
	"com.codeium.windsurf":          "Windsurf",
	"dev.zed.Zed":                   "Zed",
	"dev.zed.Zed-Preview":           "Zed",
	"com.apple.dt.Antigravity":      "Antigravity",

	"com.jetbrains.intellij":    "IntelliJ IDEA",
	"com.jetbrains.intellij.ce": "IntelliJ IDEA CE",
	"com.jetbrains.pycharm":     "PyCharm",
	"com.jetbrains.pycharm.ce":  "PyCharm CE",
	"com.jetbrains.webstorm":    "WebStorm",
	"com.jetbrains.goland":      "GoLand",
	"com.jetbrains.phpstorm":    "PhpStorm",
	"com.jetbrains.rubymine":    "RubyMine",
	"com.jetbrains.clion":       "CLion",
	"com.jetbrains.datagrip":    "DataGrip",
	"com.jetbrains.rider":       "Rider",
	"com.jetbrains.AppCode":     "AppCode",
}

// Detect resolves the terminal application name once per invocation.
//
// override wins when set. After that the environment is consulted in
// fixed order: the macOS bundle identifier, the Windows Terminal session
// marker, Windows-specific fallbacks, and finally TERM_PROGRAM. A
// TERM_PROGRAM of "tmux" is the multiplexer talking about itself and is
// ignored. Returns "" when no signal is present.
func Detect(goos, override string) string {
	if override != "" {
		return override
	}

	if bundleID := os.Getenv("__CFBundleIdentifier"); bundleID != "" {
		if app, ok := macosBundles[bundleID]; ok {
			return app
		}
		// EAP and beta builds suffix the bundle id, e.g.
		// com.jetbrains.goland.EAP. Longest prefix wins so
		// com.jetbrains.intellij.ce.* resolves to the CE entry.
		best, app := 0, ""
		for prefix, name := range macosBundles {
			if strings.HasPrefix(bundleID, prefix) && len(prefix) > best {
				best, app = len(prefix), name
			}
		}
		if app != "" {
			return app
		}
	}

	if os.Getenv("WT_SESSION") != "" {
		return "Windows Terminal"
	}

	if goos == "windows" {
		if os.Getenv("ConEmuPID") != "" {
			return "ConEmu"
		}
		if strings.Contains(strings.ToLower(os.Getenv("ComSpec")), "cmd.exe") {
			return "cmd"
		}
		return "Windows Terminal"
	}

	termProgram := os.Getenv("TERM_PROGRAM")
	if termProgram == "" || termProgram == "tmux" {
		return ""
	}
	if app, ok := terminalApps[termProgram]; ok {
		return app
	}

	// JetBrains IDEs all report a JediTerm terminal; LC_TERMINAL narrows
	// down which product when the shell forwards it.
	if strings.Contains(termProgram, "JediTerm") {
		if lc := os.Getenv("LC_TERMINAL"); lc != "" {
			return lc
		}
		return "IntelliJ IDEA"
	}

	return termProgram
}
