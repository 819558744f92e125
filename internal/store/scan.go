package store

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/unsafe9/claude-tmux-hop/internal/classify"
	"github.com/unsafe9/claude-tmux-hop/internal/model"
)

var tracer = otel.Tracer("claude-tmux-hop")

// scanParallelism bounds concurrent ps invocations during bulk liveness
// checks.
const scanParallelism = 8

// Prune clears tracked panes whose claude process is gone and returns the
// records it removed. With dryRun the stale records are reported but left
// in place.
func (s *Store) Prune(ctx context.Context, dryRun bool) ([]model.PaneRecord, error) {
	ctx, span := tracer.Start(ctx, "prune")
	defer span.End()

	tracked, err := s.ListTracked(ctx)
	if err != nil {
		return nil, err
	}
	live := s.liveSet(ctx, tracked)

	var stale []model.PaneRecord
	for _, rec := range tracked {
		if live[rec.ID] {
			continue
		}
		if !dryRun {
			if err := s.ClearState(ctx, rec.ID); err != nil {
				s.log.Warn("failed to clear stale pane", "pane", rec.ID, "error", err)
			}
		}
		stale = append(stale, rec)
	}
	span.SetAttributes(
		attribute.Int("scan.tracked", len(tracked)),
		attribute.Int("scan.stale", len(stale)),
	)
	return stale, nil
}

// Discover registers panes that run an interactive claude but carry no hop
// state, classifying the initial state from the pane's visible content.
// It returns the newly registered records and the count of live claude
// panes that were already tracked. With force the already-tracked panes
// are reclassified and re-registered too. With dryRun nothing is written.
func (s *Store) Discover(ctx context.Context, force, dryRun bool) ([]model.PaneRecord, int, error) {
	ctx, span := tracer.Start(ctx, "discover")
	defer span.End()

	panes, err := s.m.ListPanes(ctx)
	if err != nil {
		return nil, 0, err
	}
	live := s.liveSet(ctx, panes)

	var found []model.PaneRecord
	skipped := 0
	for _, rec := range panes {
		if !live[rec.ID] {
			continue
		}
		if rec.State.Known() && !force {
			skipped++
			continue
		}

		state := model.StateIdle
		if content, err := s.m.CapturePane(ctx, rec.ID); err == nil {
			state = classify.State(content)
		} else {
			s.log.Debug("capture failed, defaulting to idle", "pane", rec.ID, "error", err)
		}

		if !dryRun {
			if err := s.SetState(ctx, rec.ID, state); err != nil {
				s.log.Warn("failed to register pane", "pane", rec.ID, "error", err)
				continue
			}
		}
		rec.State = state
		rec.Timestamp = s.now().Unix()
		found = append(found, rec)
	}
	span.SetAttributes(
		attribute.Int("scan.registered", len(found)),
		attribute.Int("scan.skipped", skipped),
	)
	return found, skipped, nil
}

// DropDeadWaiting re-validates just the waiting records, clearing any
// whose claude process is gone, and returns the surviving records. A dead
// pane stuck at the front of the urgency order would otherwise pin
// cycling and the status line; idle and active records age out through
// Prune instead.
func (s *Store) DropDeadWaiting(ctx context.Context, recs []model.PaneRecord) []model.PaneRecord {
	var waiting []model.PaneRecord
	for _, rec := range recs {
		if rec.State == model.StateWaiting {
			waiting = append(waiting, rec)
		}
	}
	if len(waiting) == 0 {
		return recs
	}
	live := s.liveSet(ctx, waiting)

	kept := make([]model.PaneRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.State == model.StateWaiting && !live[rec.ID] {
			if err := s.ClearState(ctx, rec.ID); err != nil {
				s.log.Debug("failed to clear dead waiting pane", "pane", rec.ID, "error", err)
			}
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// IsLive reports whether the pane still exists on the server and an
// interactive claude process is attached to its terminal. A pane whose
// shell replaced claude is as dead as a closed one for hop purposes.
func (s *Store) IsLive(ctx context.Context, paneID string) (bool, error) {
	panes, err := s.m.ListPanes(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range panes {
		if rec.ID == paneID {
			return s.claudeAlive(ctx, rec.TTY), nil
		}
	}
	return false, nil
}

// liveSet checks liveness for each record, a bounded number at a time.
func (s *Store) liveSet(ctx context.Context, recs []model.PaneRecord) map[string]bool {
	live := make(map[string]bool, len(recs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, scanParallelism)

	for _, rec := range recs {
		wg.Add(1)
		sem <- struct{}{}
		go func(rec model.PaneRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			ok := s.claudeAlive(ctx, rec.TTY)
			mu.Lock()
			live[rec.ID] = ok
			mu.Unlock()
		}(rec)
	}
	wg.Wait()
	return live
}

// claudeAlive reports whether an interactive claude process is attached to
// the pane's terminal. Print-mode invocations (-p/--print) are one-shot
// pipeline uses and do not count.
func (s *Store) claudeAlive(ctx context.Context, tty string) bool {
	if tty == "" {
		return false
	}
	out, err := s.r.Run(ctx, "ps", "-t", strings.TrimPrefix(tty, "/dev/"), "-o", "args=")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if filepath.Base(fields[0]) != "claude" {
			continue
		}
		if hasPrintFlag(fields[1:]) {
			continue
		}
		return true
	}
	return false
}

func hasPrintFlag(args []string) bool {
	for _, a := range args {
		if a == "-p" || a == "--print" {
			return true
		}
	}
	return false
}
