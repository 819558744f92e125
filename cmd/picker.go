package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/hop"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
	"github.com/unsafe9/claude-tmux-hop/internal/picker"
)

var pickerCmd = &cobra.Command{
	Use:   "picker",
	Short: "Pick a pane interactively",
	Long: `Open the built-in fuzzy picker over all tracked panes and switch to
the selection. Meant to run in a tmux popup:

    bind-key C-p display-popup -E "claude-tmux-hop picker"

Type to filter, move with arrows or the mouse, Enter switches, Esc
leaves. The fzf pipeline over 'picker-data' remains the scriptable
alternative.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return errNotInTmux
		}
		ctx := cmd.Context()
		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		st := newStore(m)
		tracked, err := st.ListTracked(ctx)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		tracked = st.DropDeadWaiting(ctx, tracked)
		if len(tracked) == 0 {
			return m.DisplayMessage(ctx, "No Claude Code sessions found")
		}

		p := &picker.Picker{
			Switcher: newHopper(m, st),
			Records:  hop.Order(tracked, hop.ModeFlat),
			Theme:    picker.ThemeByName(cfg.PickerTheme),
		}
		return p.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(pickerCmd)
}
