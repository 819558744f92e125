// Package store persists pane attention state in multiplexer pane options.
//
// The multiplexer server is the single source of truth: @hop-state and
// @hop-timestamp live on each pane and disappear with it, so there is no
// database to reconcile. The one failure mode left is a pane whose claude
// process died without the pane closing; Prune and DropDeadWaiting handle
// those.
package store

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
)

// Store reads and writes pane hop state through the multiplexer.
type Store struct {
	m   mux.Multiplexer
	r   mux.Runner
	log *slog.Logger
	now func() time.Time
}

// New creates a store. A nil logger discards.
func New(m mux.Multiplexer, r mux.Runner, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{m: m, r: r, log: log, now: time.Now}
}

// SetState records a pane's state and stamps the change time.
func (s *Store) SetState(ctx context.Context, paneID string, state model.HopState) error {
	if err := s.m.SetPaneOption(ctx, paneID, mux.StateOption, state.String()); err != nil {
		return err
	}
	ts := strconv.FormatInt(s.now().Unix(), 10)
	if err := s.m.SetPaneOption(ctx, paneID, mux.TimestampOption, ts); err != nil {
		return err
	}
	s.log.Debug("state recorded", "pane", paneID, "state", state)
	return nil
}

// ClearState removes a pane's hop options. Clearing an untracked pane
// succeeds; only a transport failure reports an error.
func (s *Store) ClearState(ctx context.Context, paneID string) error {
	if err := s.m.UnsetPaneOption(ctx, paneID, mux.StateOption); err != nil {
		return err
	}
	if err := s.m.UnsetPaneOption(ctx, paneID, mux.TimestampOption); err != nil {
		return err
	}
	s.log.Debug("state cleared", "pane", paneID)
	return nil
}

// ListTracked returns the panes carrying a recognized hop state. Panes
// with a missing or garbled state label are silently excluded.
func (s *Store) ListTracked(ctx context.Context) ([]model.PaneRecord, error) {
	panes, err := s.m.ListPanes(ctx)
	if err != nil {
		return nil, err
	}
	var tracked []model.PaneRecord
	for _, rec := range panes {
		if rec.State.Known() {
			tracked = append(tracked, rec)
		}
	}
	return tracked, nil
}
