// Package hop orders tracked panes by urgency and drives pane switches,
// recording each hop's origin in the jump-back slot.
package hop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unsafe9/claude-tmux-hop/internal/model"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
	hopotel "github.com/unsafe9/claude-tmux-hop/internal/otel"
	"github.com/unsafe9/claude-tmux-hop/internal/store"
)

var tracer = otel.Tracer("claude-tmux-hop")

// PreviousPaneOption is the server-global option holding the pane the
// client last hopped away from. It is a single slot, not a stack: every
// hop overwrites it with its origin, so hopping back twice returns to
// the starting pane.
const PreviousPaneOption = "@hop-previous-pane"

// ErrNoPrevious is returned by Back when the jump-back slot is empty.
var ErrNoPrevious = errors.New("no previous pane recorded")

// Hopper performs pane switches against a live multiplexer.
type Hopper struct {
	mux     mux.Multiplexer
	store   *store.Store
	log     *slog.Logger
	metrics *hopotel.Metrics
}

// New returns a Hopper. log and metrics may be nil.
func New(m mux.Multiplexer, st *store.Store, log *slog.Logger, metrics *hopotel.Metrics) *Hopper {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Hopper{mux: m, store: st, log: log, metrics: metrics}
}

// Cycle hops to the next pane in urgency order. Dead panes are cleared
// first so a Claude that exited cannot absorb the hop. currentPane may
// be empty; the multiplexer's active pane is used then.
//
// An empty candidate set is not an error: the user is told via the
// multiplexer's message line and no switch happens.
func (h *Hopper) Cycle(ctx context.Context, mode Mode, currentPane string) error {
	ctx, span := tracer.Start(ctx, "cycle",
		trace.WithAttributes(attribute.String("hop.mode", string(mode))))
	defer span.End()

	pruned, err := h.store.Prune(ctx, false)
	if err != nil {
		return fmt.Errorf("cycle: %w", err)
	}
	h.metrics.RecordPruned(ctx, int64(len(pruned)))

	tracked, err := h.store.ListTracked(ctx)
	if err != nil {
		return fmt.Errorf("cycle: %w", err)
	}
	ordered := Order(tracked, mode)
	if len(ordered) == 0 {
		h.log.Info("cycle found no tracked panes")
		return h.mux.DisplayMessage(ctx, "No Claude Code sessions found")
	}

	if currentPane == "" {
		if cp, err := h.mux.CurrentPane(ctx); err == nil {
			currentPane = cp
		} else {
			h.log.Debug("current pane unknown, starting from the top", "error", err)
		}
	}

	next, _ := Next(ordered, currentPane)
	span.SetAttributes(
		attribute.Int("hop.candidates", len(ordered)),
		attribute.String("hop.target_state", next.State.String()),
	)
	h.log.Info("cycle",
		"target", next.ID,
		"location", next.Target(),
		"project", next.Project,
		"state", next.State.String(),
	)
	if err := h.switchRecorded(ctx, currentPane, next.ID, next.Session, next.Window, "cycle"); err != nil {
		if errors.Is(err, mux.ErrPaneNotFound) {
			// The pane closed between listing and switching. The next
			// cycle's prune pass will clear its state.
			_ = h.mux.DisplayMessage(ctx, fmt.Sprintf("Pane %s not found", next.ID))
			return nil
		}
		return fmt.Errorf("cycle: %w", err)
	}
	return nil
}

// Back jumps to the pane recorded in the jump-back slot. The pane just
// left becomes the new slot value, so repeated calls toggle between two
// panes. A stale slot is reported but kept: the pane may reappear, and
// an empty slot is strictly less useful than a doubtful one.
func (h *Hopper) Back(ctx context.Context) error {
	previous, err := h.mux.GlobalOption(ctx, PreviousPaneOption)
	if err != nil {
		return fmt.Errorf("back: %w", err)
	}
	if previous == "" {
		h.log.Info("back requested with empty jump-back slot")
		_ = h.mux.DisplayMessage(ctx, "No previous pane to jump to")
		return ErrNoPrevious
	}

	current := ""
	if cp, err := h.mux.CurrentPane(ctx); err == nil {
		current = cp
	}
	if err := h.switchRecorded(ctx, current, previous, "", 0, "back"); err != nil {
		if errors.Is(err, mux.ErrPaneNotFound) {
			h.log.Warn("jump-back target is gone", "pane", previous)
			_ = h.mux.DisplayMessage(ctx, "Previous pane no longer exists")
		}
		return fmt.Errorf("back: %w", err)
	}
	return nil
}

// Switch hops to a specific pane, looking up its location from the
// multiplexer. trigger labels the hop for logs and metrics ("switch"
// for the CLI command, "picker" for the interactive selector).
func (h *Hopper) Switch(ctx context.Context, paneID, trigger string) error {
	current := ""
	if cp, err := h.mux.CurrentPane(ctx); err == nil {
		current = cp
	}
	if err := h.switchRecorded(ctx, current, paneID, "", 0, trigger); err != nil {
		if errors.Is(err, mux.ErrPaneNotFound) {
			_ = h.mux.DisplayMessage(ctx, fmt.Sprintf("Pane %s not found", paneID))
		}
		return fmt.Errorf("switch: %w", err)
	}
	return nil
}

// AutoHop brings the client to a pane that just entered a hop state.
// With priorityOnly set, the hop is suppressed while any other tracked
// pane holds an equally or more urgent state, so a pane going idle
// cannot steal the client from a pane still waiting on the user, and
// two panes entering the same state do not fight over it.
func (h *Hopper) AutoHop(ctx context.Context, paneID string, state model.HopState, priorityOnly bool) (bool, error) {
	if priorityOnly {
		tracked, err := h.store.ListTracked(ctx)
		if err != nil {
			return false, fmt.Errorf("auto-hop: %w", err)
		}
		tracked = h.store.DropDeadWaiting(ctx, tracked)
		for _, rec := range tracked {
			if rec.ID == paneID {
				continue
			}
			if rec.State.Priority() <= state.Priority() {
				h.log.Info("auto-hop suppressed",
					"pane", paneID,
					"state", state.String(),
					"more_urgent", rec.ID,
					"holding", rec.State.String(),
				)
				return false, nil
			}
		}
	}

	current := ""
	if cp, err := h.mux.CurrentPane(ctx); err == nil {
		current = cp
	}
	if err := h.switchRecorded(ctx, current, paneID, "", 0, "auto"); err != nil {
		return false, fmt.Errorf("auto-hop: %w", err)
	}
	return true, nil
}

// switchRecorded performs the switch and, on success, stores the origin
// in the jump-back slot. The slot is never pointed at the pane the
// client just landed on, and a failed switch leaves it untouched.
func (h *Hopper) switchRecorded(ctx context.Context, origin, paneID, session string, window int, trigger string) error {
	if err := h.mux.SwitchTo(ctx, paneID, session, window); err != nil {
		return err
	}
	if origin != "" && origin != paneID {
		if err := h.mux.SetGlobalOption(ctx, PreviousPaneOption, origin); err != nil {
			h.log.Warn("jump-back slot not updated", "error", err)
		}
	}
	h.metrics.RecordHop(ctx, trigger)
	h.log.Info("hopped", "pane", paneID, "trigger", trigger)
	return nil
}
