package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/install"
)

var flagUpdateComponent string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the installed plugins",
	Long: `Pull the latest tmux plugin checkout and re-merge the Claude Code
hook entries, picking up hooks added since the original install.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch flagUpdateComponent {
		case "all", "tmux", "claude":
		default:
			return fmt.Errorf("unknown component %q (valid: all, tmux, claude)", flagUpdateComponent)
		}

		ctx := cmd.Context()
		inst := &install.Installer{Runner: newRunner(), Out: os.Stdout}

		fmt.Println("Claude Tmux Hop Update")
		fmt.Println()
		installed := inst.Verify(ctx)

		ok := true
		if componentSelected(flagUpdateComponent, "tmux") {
			fmt.Println("Tmux Plugin:")
			if installed.TmuxPlugin {
				if err := inst.UpdateTmux(ctx); err != nil {
					fmt.Printf("  error: %v\n", err)
					ok = false
				}
			} else {
				fmt.Println("  Not installed. Run: claude-tmux-hop install")
			}
			fmt.Println()
		}

		if componentSelected(flagUpdateComponent, "claude") {
			fmt.Println("Claude Code Hooks:")
			if installed.ClaudeHooks {
				if err := inst.UpdateClaudeHooks(); err != nil {
					fmt.Printf("  error: %v\n", err)
					ok = false
				}
			} else {
				fmt.Println("  Not installed. Run: claude-tmux-hop install")
			}
			fmt.Println()
		}

		if !ok {
			fmt.Println("Update completed with warnings. Check messages above.")
			return errSilent
		}
		fmt.Println("Update complete!")
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  1. Reload your tmux config: tmux source ~/.tmux.conf")
		fmt.Println("  2. Restart Claude Code sessions to apply changes")
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&flagUpdateComponent, "component", "all", "component to update: all, tmux, claude")
	rootCmd.AddCommand(updateCmd)
}
