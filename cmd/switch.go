package cmd

import (
	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var flagSwitchPane string

var switchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Switch to a pane by id (internal)",
	Long: `Switch the tmux client to a specific pane, recording the origin in
the jump-back slot. The fzf picker binding feeds its selection through
this command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return errSilent
		}
		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		st := newStore(m)
		return newHopper(m, st).Switch(cmd.Context(), flagSwitchPane, "switch")
	},
}

func init() {
	switchCmd.Flags().StringVarP(&flagSwitchPane, "pane", "p", "", "pane id to switch to")
	_ = switchCmd.MarkFlagRequired("pane")
	rootCmd.AddCommand(switchCmd)
}
