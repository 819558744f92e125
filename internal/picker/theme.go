package picker

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme defines the colors used by the picker. Use DarkTheme or
// LightTheme, or construct a custom one.
type Theme struct {
	Primary        lipgloss.Color // title
	Secondary      lipgloss.Color // selected row text
	Accent         lipgloss.Color // filter prompt
	Error          lipgloss.Color // failure messages
	Warning        lipgloss.Color // waiting panes
	Success        lipgloss.Color // idle panes
	Info           lipgloss.Color // active panes
	Text           lipgloss.Color // primary text
	TextMuted      lipgloss.Color // hints, counts
	BackgroundElem lipgloss.Color // selected row background
	Border         lipgloss.Color // separators
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:        lipgloss.Color("#fab283"),
		Secondary:      lipgloss.Color("#5c9cf5"),
		Accent:         lipgloss.Color("#9d7cd8"),
		Error:          lipgloss.Color("#e06c75"),
		Warning:        lipgloss.Color("#f5a742"),
		Success:        lipgloss.Color("#7fd88f"),
		Info:           lipgloss.Color("#56b6c2"),
		Text:           lipgloss.Color("#eeeeee"),
		TextMuted:      lipgloss.Color("#808080"),
		BackgroundElem: lipgloss.Color("#1e1e1e"),
		Border:         lipgloss.Color("#484848"),
	}
}

// LightTheme returns a light theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:        lipgloss.Color("#b35c00"),
		Secondary:      lipgloss.Color("#0550ae"),
		Accent:         lipgloss.Color("#6639ba"),
		Error:          lipgloss.Color("#cf222e"),
		Warning:        lipgloss.Color("#bf8700"),
		Success:        lipgloss.Color("#116329"),
		Info:           lipgloss.Color("#0969da"),
		Text:           lipgloss.Color("#1f2328"),
		TextMuted:      lipgloss.Color("#656d76"),
		BackgroundElem: lipgloss.Color("#f6f8fa"),
		Border:         lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns the theme for a configured name. Anything other
// than an explicit "dark" or "light" asks the terminal which background
// it is drawing on.
func ThemeByName(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		if termenv.HasDarkBackground() {
			return DarkTheme()
		}
		return LightTheme()
	}
}

// styles holds the lipgloss styles derived from a Theme, constructed
// once per picker run.
type styles struct {
	title    lipgloss.Style
	prompt   lipgloss.Style
	selected lipgloss.Style
	waiting  lipgloss.Style
	idle     lipgloss.Style
	active   lipgloss.Style
	text     lipgloss.Style
	dim      lipgloss.Style
	err      lipgloss.Style
	border   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		prompt:   lipgloss.NewStyle().Foreground(t.Accent),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Background(t.BackgroundElem),
		waiting:  lipgloss.NewStyle().Foreground(t.Warning),
		idle:     lipgloss.NewStyle().Foreground(t.Success),
		active:   lipgloss.NewStyle().Foreground(t.Info),
		text:     lipgloss.NewStyle().Foreground(t.Text),
		dim:      lipgloss.NewStyle().Foreground(t.TextMuted),
		err:      lipgloss.NewStyle().Foreground(t.Error),
		border:   lipgloss.NewStyle().Foreground(t.Border),
	}
}
