package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the hop state from the current pane",
	Long: `Remove the hop state options from the pane this command runs in.
The Claude Code SessionEnd hook calls this; clearing an untracked pane
succeeds. Outside tmux this is a silent no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return nil
		}
		ctx := cmd.Context()
		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		paneID, err := currentPaneID(ctx, m)
		if err != nil {
			return fmt.Errorf("resolve pane: %w", err)
		}
		if err := newStore(m).ClearState(ctx, paneID); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
