package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/install"
)

var (
	flagInstallYes        bool
	flagInstallComponent  string
	flagInstallSkipTmux   bool
	flagInstallSkipClaude bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the tmux plugin and Claude Code hooks",
	Long: `Set up both integration points: the tmux plugin (a TPM plugin line
when TPM is present, otherwise a clone into the tmux plugin directory)
and the Claude Code lifecycle hooks in ~/.claude/settings.json.

Every prompt defaults to yes; --yes answers them all for scripted
installs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch flagInstallComponent {
		case "all", "tmux", "claude":
		default:
			return fmt.Errorf("unknown component %q (valid: all, tmux, claude)", flagInstallComponent)
		}

		ctx := cmd.Context()
		inst := &install.Installer{Runner: newRunner(), Out: os.Stdout}

		fmt.Println("Claude Tmux Hop Installation")
		fmt.Println()
		fmt.Println("Detecting environment...")
		env := inst.Detect(ctx)
		printCheck("tmux", env.Tmux.OK, "")
		printCheck("claude", env.Claude.OK, "")
		printCheck("TPM", env.TPM.OK, "")
		printCheck("fzf", env.Fzf.OK, " (optional)")
		fmt.Println()

		if !env.Tmux.OK {
			return fmt.Errorf("tmux is required: %s", env.Tmux.Message)
		}

		confirm := install.TerminalPrompt(os.Stdin, os.Stdout)
		if flagInstallYes {
			confirm = func(string, bool) bool { return true }
		}

		ok := true
		if componentSelected(flagInstallComponent, "tmux") && !flagInstallSkipTmux {
			fmt.Println("Tmux Plugin Installation")
			if confirm("Install tmux plugin?", true) {
				var err error
				if env.TPM.OK && confirm("  Use TPM (recommended)?", true) {
					err = inst.InstallTmuxTPM(ctx)
				} else {
					if !env.TPM.OK {
						fmt.Println("  TPM not found. Installing manually...")
					}
					err = inst.InstallTmuxManual(ctx)
				}
				if err != nil {
					fmt.Printf("  error: %v\n", err)
					ok = false
				}
			}
			fmt.Println()
		}

		if componentSelected(flagInstallComponent, "claude") && !flagInstallSkipClaude {
			fmt.Println("Claude Code Hook Installation")
			if !env.Claude.OK {
				fmt.Println("  Skipping: Claude Code CLI not found")
			} else if confirm("Install Claude Code hooks?", true) {
				if err := inst.InstallClaudeHooks(); err != nil {
					fmt.Printf("  error: %v\n", err)
					ok = false
				}
			}
			fmt.Println()
		}

		if !ok {
			fmt.Println("Installation completed with warnings. Check messages above.")
			return errSilent
		}
		fmt.Println("Installation complete!")
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  1. Reload your tmux config (path shown above)")
		fmt.Println("  2. If using TPM: press prefix + I to install")
		fmt.Println("  3. Start a Claude Code session to test")
		return nil
	},
}

// componentSelected reports whether a --component value covers name.
func componentSelected(flag, name string) bool {
	return flag == "all" || flag == name
}

func printCheck(name string, ok bool, optional string) {
	if ok {
		fmt.Printf("  %s: OK\n", name)
		return
	}
	fmt.Printf("  %s: NOT FOUND%s\n", name, optional)
}

func init() {
	installCmd.Flags().BoolVarP(&flagInstallYes, "yes", "y", false, "accept all prompts")
	installCmd.Flags().StringVar(&flagInstallComponent, "component", "all", "component to install: all, tmux, claude")
	installCmd.Flags().BoolVar(&flagInstallSkipTmux, "skip-tmux", false, "skip the tmux plugin")
	installCmd.Flags().BoolVar(&flagInstallSkipClaude, "skip-claude", false, "skip the Claude Code hooks")
	rootCmd.AddCommand(installCmd)
}
