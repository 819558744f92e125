package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/hop"
	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

var pickerDataCmd = &cobra.Command{
	Use:   "picker-data",
	Short: "Print tracked panes for the fzf picker (internal)",
	Long: `Print one line per tracked pane for fzf:

    icon project (session:window) [time-ago]<TAB>pane id

fzf shows everything left of the tab; the selection's pane id is fed
back through 'switch'. Lines come out in flat urgency order, so the
top line is the pane 'cycle' would visit first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mux.InsideSession() {
			return errSilent
		}
		ctx := cmd.Context()
		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		st := newStore(m)
		tracked, err := st.ListTracked(ctx)
		if err != nil {
			return fmt.Errorf("picker-data: %w", err)
		}
		tracked = st.DropDeadWaiting(ctx, tracked)

		now := time.Now().Unix()
		for _, rec := range hop.Order(tracked, hop.ModeFlat) {
			fmt.Printf("%s %s (%s) [%s]\t%s\n",
				rec.State.Icon(), rec.Project, rec.Target(),
				model.FormatTimeAgo(rec.Timestamp, now), rec.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pickerDataCmd)
}
