package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var (
	flagDiscoverDryRun bool
	flagDiscoverForce  bool
	flagDiscoverQuiet  bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Register panes already running Claude Code",
	Long: `Find panes with an interactive claude process and register the ones
carrying no hop state yet. The initial state is read from the pane's
visible content: a permission prompt registers waiting, a working
indicator active, anything else idle.

This makes sessions started before the plugin was installed (or while
the hooks were broken) hoppable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return errNotInTmux
		}
		ctx := cmd.Context()
		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		found, skipped, err := newStore(m).Discover(ctx, flagDiscoverForce, flagDiscoverDryRun)
		if err != nil {
			return fmt.Errorf("discover: %w", err)
		}
		if !flagDiscoverDryRun {
			for _, rec := range found {
				metrics().RecordRegistration(ctx, rec.State.String(), "discover")
			}
		}

		if flagDiscoverQuiet {
			return nil
		}
		if len(found) == 0 && skipped == 0 {
			fmt.Println("No Claude Code sessions found")
			return nil
		}
		for _, rec := range found {
			if flagDiscoverDryRun {
				fmt.Printf("Would register: %s (%s) as %s - %s\n", rec.ID, rec.Target(), rec.State, rec.Project)
			} else {
				fmt.Printf("Registered: %s (%s) as %s - %s\n", rec.ID, rec.Target(), rec.State, rec.Project)
			}
		}
		if !flagDiscoverDryRun {
			fmt.Printf("\nDiscovered %d session(s)\n", len(found))
			if skipped > 0 {
				fmt.Printf("Skipped %d already registered session(s)\n", skipped)
			}
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().BoolVarP(&flagDiscoverDryRun, "dry-run", "n", false, "show what would be registered without writing")
	discoverCmd.Flags().BoolVarP(&flagDiscoverForce, "force", "f", false, "re-register panes that are already tracked")
	discoverCmd.Flags().BoolVarP(&flagDiscoverQuiet, "quiet", "q", false, "suppress output")
	rootCmd.AddCommand(discoverCmd)
}
