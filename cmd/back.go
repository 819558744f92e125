package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/hop"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var backCmd = &cobra.Command{
	Use:   "back",
	Short: "Jump back to the previously visited pane",
	Long: `Switch to the pane recorded in @hop-previous-pane. Every hop stores
the pane it left, so pressing back repeatedly toggles between the last
two panes. An empty slot shows a message and does nothing; a slot
naming a closed pane reports failure but keeps the slot, in case the
pane comes back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return errNotInTmux
		}
		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		st := newStore(m)
		if err := newHopper(m, st).Back(cmd.Context()); err != nil {
			// The empty slot was already reported on the tmux message
			// line, and the key binding has nowhere to surface more.
			if errors.Is(err, hop.ErrNoPrevious) {
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backCmd)
}
