package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "claude-tmux-hop"

// Metrics holds all OTEL metric instruments for claude-tmux-hop.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Hop counters (partitioned by trigger: cycle, back, switch, auto, picker)
	Hops metric.Int64Counter

	// State registration counters (partitioned by state + source: hook, discover)
	Registrations metric.Int64Counter

	// Notification counters (partitioned by outcome: sent, suppressed, failed)
	Notifications metric.Int64Counter

	// Focus attempt counters (partitioned by outcome: focused, failed)
	FocusAttempts metric.Int64Counter

	// Dead panes cleared by prune or the pre-cycle sweep
	PrunedPanes metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Hops, err = meter.Int64Counter("hops.total",
		metric.WithDescription("Pane switches performed, partitioned by trigger (cycle, back, switch, auto, picker)"))
	if err != nil {
		return nil, err
	}

	m.Registrations, err = meter.Int64Counter("registrations.total",
		metric.WithDescription("State registrations recorded, partitioned by state and source (hook, discover)"))
	if err != nil {
		return nil, err
	}

	m.Notifications, err = meter.Int64Counter("notifications.total",
		metric.WithDescription("Desktop notifications, partitioned by outcome (sent, suppressed, failed)"))
	if err != nil {
		return nil, err
	}

	m.FocusAttempts, err = meter.Int64Counter("focus_attempts.total",
		metric.WithDescription("Terminal focus attempts, partitioned by outcome (focused, failed)"))
	if err != nil {
		return nil, err
	}

	m.PrunedPanes, err = meter.Int64Counter("panes.pruned",
		metric.WithDescription("Dead panes whose state options were cleared"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordHop records a completed pane switch with the given trigger.
func (m *Metrics) RecordHop(ctx context.Context, trigger string) {
	if m == nil {
		return
	}
	m.Hops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hop.trigger", trigger),
	))
}

// RecordRegistration records a state registration.
func (m *Metrics) RecordRegistration(ctx context.Context, state, source string) {
	if m == nil {
		return
	}
	m.Registrations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hop.state", state),
		attribute.String("registration.source", source),
	))
}

// RecordNotification records a notification dispatch outcome.
func (m *Metrics) RecordNotification(ctx context.Context, state, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hop.state", state),
		attribute.String("notification.outcome", outcome),
	))
}

// RecordFocusAttempt records a terminal focus attempt outcome.
func (m *Metrics) RecordFocusAttempt(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.FocusAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("focus.outcome", outcome),
	))
}

// RecordPruned records dead panes cleared during a sweep.
func (m *Metrics) RecordPruned(ctx context.Context, count int64) {
	if m == nil || count == 0 {
		return
	}
	m.PrunedPanes.Add(ctx, count)
}
