package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var (
	flagPruneDryRun bool
	flagPruneQuiet  bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove hop state from panes whose Claude Code is gone",
	Long: `Check every tracked pane for a live interactive claude process and
clear the state of those without one. 'cycle' does this on its own;
the command exists for scripts and scheduled cleanup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return errNotInTmux
		}
		ctx := cmd.Context()
		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		stale, err := newStore(m).Prune(ctx, flagPruneDryRun)
		if err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		if !flagPruneDryRun {
			metrics().RecordPruned(ctx, int64(len(stale)))
		}

		if flagPruneQuiet {
			return nil
		}
		if len(stale) == 0 {
			fmt.Println("No stale panes found")
			return nil
		}
		for _, rec := range stale {
			if flagPruneDryRun {
				fmt.Printf("Would remove: %s (%s) - %s\n", rec.ID, rec.Target(), rec.Project)
			} else {
				fmt.Printf("Removed: %s (%s) - %s\n", rec.ID, rec.Target(), rec.Project)
			}
		}
		if !flagPruneDryRun {
			fmt.Printf("\nPruned %d stale pane(s)\n", len(stale))
		}
		return nil
	},
}

func init() {
	pruneCmd.Flags().BoolVarP(&flagPruneDryRun, "dry-run", "n", false, "show what would be removed without writing")
	pruneCmd.Flags().BoolVarP(&flagPruneQuiet, "quiet", "q", false, "suppress output")
	rootCmd.AddCommand(pruneCmd)
}
