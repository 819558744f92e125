// Package picker implements the interactive pane picker, a small
// fuzzy-filterable list meant to run inside a tmux display-popup. It is
// the built-in alternative to piping picker-data through fzf.
package picker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/unsafe9/claude-tmux-hop/internal/hop"
	"github.com/unsafe9/claude-tmux-hop/internal/model"
)

// listTopRow is the terminal row of the first list item: title, filter
// input and separator come above it. Mouse hit testing depends on it.
const listTopRow = 3

// Switcher performs the pane switch when the user confirms a row.
// *hop.Hopper satisfies it.
type Switcher interface {
	Switch(ctx context.Context, paneID, trigger string) error
}

// Picker runs the interactive pane picker.
type Picker struct {
	Switcher Switcher
	Records  []model.PaneRecord
	Theme    Theme

	// Now supplies the clock for time-ago labels; nil means time.Now.
	Now func() time.Time
}

// Run blocks until the user picks a pane or quits.
func (p *Picker) Run(ctx context.Context) error {
	now := p.Now
	if now == nil {
		now = time.Now
	}

	st := newStyles(p.Theme)
	ti := textinput.New()
	ti.Placeholder = "Filter panes..."
	ti.Prompt = "> "
	ti.PromptStyle = st.prompt
	ti.CharLimit = 128
	ti.Focus()

	m := &pickerModel{
		ctx:      ctx,
		switcher: p.Switcher,
		items:    buildItems(p.Records, now().Unix()),
		styles:   st,
		input:    ti,
	}
	m.applyFilter()

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := prog.Run()
	return err
}

// item is one selectable row. The label doubles as the fuzzy haystack.
type item struct {
	record model.PaneRecord
	label  string
}

// buildItems renders the rows in flat urgency order, matching what
// picker-data feeds fzf.
func buildItems(records []model.PaneRecord, now int64) []item {
	ordered := hop.Order(records, hop.ModeFlat)
	items := make([]item, len(ordered))
	for i, rec := range ordered {
		items[i] = item{
			record: rec,
			label: fmt.Sprintf("%s %s (%s:%d) [%s]",
				rec.State.Icon(), rec.Project, rec.Session, rec.Window,
				model.FormatTimeAgo(rec.Timestamp, now)),
		}
	}
	return items
}

// itemSource adapts items for fuzzy matching.
type itemSource []item

func (s itemSource) String(i int) string { return s[i].label }
func (s itemSource) Len() int            { return len(s) }

// pickerModel implements tea.Model.
type pickerModel struct {
	ctx      context.Context
	switcher Switcher
	items    []item
	styles   styles
	input    textinput.Model

	filtered  []int // indexes into items, best match first
	cursor    int   // index into filtered
	lastQuery string

	// listStart is the scroll offset, computed in View and used for
	// mouse hit testing.
	listStart int

	width    int
	height   int
	message  string
	quitting bool
}

func (m *pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// applyFilter recomputes the visible rows for the current query. A
// changed query resets the cursor to the best match.
func (m *pickerModel) applyFilter() {
	query := strings.TrimSpace(m.input.Value())
	if m.filtered != nil && query == m.lastQuery {
		return
	}
	m.lastQuery = query

	if query == "" {
		m.filtered = make([]int, len(m.items))
		for i := range m.items {
			m.filtered[i] = i
		}
	} else {
		matches := fuzzy.FindFrom(query, itemSource(m.items))
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = match.Index
		}
	}
	m.cursor = 0
}

// selected returns the record under the cursor.
func (m *pickerModel) selected() (model.PaneRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return model.PaneRecord{}, false
	}
	return m.items[m.filtered[m.cursor]].record, true
}

// confirm switches to the selected pane and quits. A failed switch keeps
// the picker open with the error on the hint line.
func (m *pickerModel) confirm() tea.Cmd {
	rec, ok := m.selected()
	if !ok {
		return nil
	}
	if err := m.switcher.Switch(m.ctx, rec.ID, "picker"); err != nil {
		m.message = fmt.Sprintf("Switch failed: %v", err)
		return nil
	}
	m.quitting = true
	return tea.Quit
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m *pickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "ctrl+p", "ctrl+k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "ctrl+n", "ctrl+j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		return m, m.confirm()
	}

	// Everything else edits the filter.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *pickerModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case msg.Button == tea.MouseButtonWheelDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		idx := m.listStart + msg.Y - listTopRow
		if idx >= 0 && idx < len(m.filtered) {
			m.cursor = idx
			return m, m.confirm()
		}
	}
	return m, nil
}

func (m *pickerModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.styles.title.Render("Claude Code panes"))
	b.WriteString("  ")
	b.WriteString(m.styles.dim.Render(fmt.Sprintf("%d/%d", len(m.filtered), len(m.items))))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.border.Render(strings.Repeat("─", min(m.width, 60))))
	b.WriteString("\n")

	maxVisible := m.height - listTopRow - 1
	if maxVisible < 1 {
		maxVisible = 1
	}
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	m.listStart = start
	end := start + maxVisible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	for i := start; i < end; i++ {
		it := m.items[m.filtered[i]]
		line := runewidth.Truncate(it.label, m.width-2, "...")
		if i == m.cursor {
			b.WriteString(m.styles.selected.Render("→ " + line))
		} else {
			b.WriteString("  ")
			b.WriteString(m.stateStyle(it.record.State).Render(line))
		}
		b.WriteString("\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(m.styles.dim.Render("  No matching panes"))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.dim.Render("enter=jump  esc=quit"))
	if m.message != "" {
		b.WriteString("  ")
		b.WriteString(m.styles.err.Render(m.message))
	}
	b.WriteString("\n")

	return b.String()
}

func (m *pickerModel) stateStyle(st model.HopState) lipgloss.Style {
	switch st {
	case model.StateWaiting:
		return m.styles.waiting
	case model.StateIdle:
		return m.styles.idle
	case model.StateActive:
		return m.styles.active
	}
	return m.styles.text
}
