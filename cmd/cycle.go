package cmd

import (
	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/config"
	"github.com/unsafe9/claude-tmux-hop/internal/hop"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var (
	flagCycleMode string
	flagCyclePane string
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Hop to the next pane in urgency order",
	Long: `Switch the tmux client to the next tracked pane.

Stale panes are pruned first. In priority mode (the default) only the
most urgent non-empty state group is cycled: panes waiting for input
before idle before active, waiting ordered oldest first, idle and
active newest first. Flat mode cycles through all tracked panes in
that same order.

The mode comes from --mode, falling back to @hop-cycle-mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return errNotInTmux
		}
		ctx := cmd.Context()
		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		raw := flagCycleMode
		if raw == "" {
			raw = config.ReadOptions(ctx, m).CycleMode
		}
		mode, err := hop.ParseMode(raw)
		if err != nil {
			return err
		}

		st := newStore(m)
		return newHopper(m, st).Cycle(ctx, mode, flagCyclePane)
	},
}

func init() {
	cycleCmd.Flags().StringVarP(&flagCycleMode, "mode", "m", "", "cycle mode: priority, flat (default: @hop-cycle-mode)")
	cycleCmd.Flags().StringVarP(&flagCyclePane, "pane", "p", "", "pane the client is on (passed by the key binding)")
	rootCmd.AddCommand(cycleCmd)
}
