package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/hop"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked Claude Code panes",
	Long: `Print every tracked pane in flat urgency order: state, the time the
state was last set, pane id, session:window, project.`,
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
			return fmt.Errorf("list: %w", err)
		}
		tracked = st.DropDeadWaiting(ctx, tracked)
		if len(tracked) == 0 {
			fmt.Println("No Claude Code sessions found")
			return nil
		}

		for _, rec := range hop.Order(tracked, hop.ModeFlat) {
			ts := "——:——:——"
			if rec.Timestamp > 0 {
				ts = time.Unix(rec.Timestamp, 0).Format("15:04:05")
			}
			fmt.Printf("%-8s %s  %-6s %s  %s\n", rec.State, ts, rec.ID, rec.Target(), rec.Project)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
