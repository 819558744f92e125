package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/config"
	"github.com/unsafe9/claude-tmux-hop/internal/logging"
	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var flagRegisterState string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Record the current pane's Claude Code state",
	Long: `Record a hop state on the pane this command runs in.

The Claude Code lifecycle hooks are the intended caller: SessionStart
and Stop register idle, UserPromptSubmit registers active, Notification
registers waiting. After the state write, notifications and terminal
focus run against the @hop-notify and @hop-focus-app trigger sets, and
auto-hop against @hop-auto.

Outside tmux this is a silent no-op, so the hooks can live in a global
Claude settings file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return nil
		}
		state, ok := model.ParseState(flagRegisterState)
		if !ok {
			return fmt.Errorf("unknown state %q (valid: waiting, idle, active)", flagRegisterState)
		}

		ctx := cmd.Context()
		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		st := newStore(m)

		paneID, err := currentPaneID(ctx, m)
		if err != nil {
			return fmt.Errorf("resolve pane: %w", err)
		}
		if err := st.SetState(ctx, paneID, state); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		metrics().RecordRegistration(ctx, state.String(), "register")

		// Everything past the state write is best-effort: a broken
		// notifier or a lost hop race must not fail the Claude hook
		// that called us.
		opts := config.ReadOptions(ctx, m)
		newDispatcher(opts).Dispatch(ctx, state, paneContext(ctx, m, paneID))

		if opts.AutoHop.Has(state) {
			hopper := newHopper(m, st)
			if _, err := hopper.AutoHop(ctx, paneID, state, opts.AutoPriorityOnly); err != nil {
				logging.ForComponent(logging.CompCmd).Warn("auto-hop failed", "pane", paneID, "error", err)
			}
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVarP(&flagRegisterState, "state", "s", "", "state to record: waiting, idle, active")
	_ = registerCmd.MarkFlagRequired("state")
	rootCmd.AddCommand(registerCmd)
}

// paneContext resolves the notification context for a pane. Lookup
// failures degrade to a context carrying just the pane id; the
// notification then names less but still fires.
func paneContext(ctx context.Context, m mux.Multiplexer, paneID string) *model.PaneContext {
	pc := &model.PaneContext{PaneID: paneID}
	recs, err := m.ListPanes(ctx)
	if err != nil {
		return pc
	}
	for _, rec := range recs {
		if rec.ID == paneID {
			pc.Session = rec.Session
			pc.Window = rec.Window
			pc.Project = rec.Project
			break
		}
	}
	return pc
}
