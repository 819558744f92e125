package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/config"
	"github.com/unsafe9/claude-tmux-hop/internal/logging"
	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status bar segment",
	Long: `Render the @hop-status-format template against the tracked pane
counts, for tmux status-line interpolation:

    set -g status-right '#(claude-tmux-hop status) ...'

Each {state:icon} placeholder expands to "icon count" when the count
is positive and to nothing otherwise. The command runs on the status
interval, so it stays quiet about every failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return nil
		}
		ctx := cmd.Context()
		m, err := getMultiplexer()
		if err != nil {
			return nil
		}
		st := newStore(m)
		tracked, err := st.ListTracked(ctx)
		if err != nil {
			logging.ForComponent(logging.CompCmd).Debug("status listing failed", "error", err)
			return nil
		}
		tracked = st.DropDeadWaiting(ctx, tracked)

		counts := map[model.HopState]int{}
		for _, rec := range tracked {
			counts[rec.State]++
		}
		format := config.ReadOptions(ctx, m).StatusFormat
		if out := model.FormatStatus(format, counts); out != "" {
			fmt.Print(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
