package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/doctor"
)

var flagDoctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment and dependencies",
	Long: `Probe everything the plugin needs: a recent tmux, the claude CLI,
TPM, fzf, the plugin itself and the Claude hooks. Optional tools warn
instead of failing. Exits 1 when a required check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := doctor.New(newRunner()).RunAll(cmd.Context())

		if flagDoctorJSON {
			out, err := doctor.FormatJSON(results)
			if err != nil {
				return err
			}
			fmt.Println(out)
			if doctor.AnyRequiredFailed(results) {
				return errSilent
			}
			return nil
		}

		fmt.Println("Environment Check")
		fmt.Println()
		fmt.Print(doctor.Format(results))
		fmt.Println()
		if doctor.AnyRequiredFailed(results) {
			fmt.Println("FAIL: required checks failed")
			return errSilent
		}
		fmt.Println("OK: All required checks passed")
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&flagDoctorJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(doctorCmd)
}
