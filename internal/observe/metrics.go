// Package observe holds the OpenTelemetry instruments of the tracker.
//
// Instruments are created from a [metric.MeterProvider]. Production code
// uses the global provider through [DefaultMetrics]; tests pass their own
// provider to [NewMetrics].
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/KirkDiggler/rpg-tracker"

// Action outcomes
const (
	OutcomeChecked   = "checked"
	OutcomeRejected  = "rejected"
	OutcomeCommitted = "committed"
	OutcomeFailed    = "failed"
)

// Metrics holds the metric instruments. Safe for concurrent use.
type Metrics struct {
	// Actions counts action runs by action and outcome
	Actions metric.Int64Counter

	// ToolCalls counts agent tool invocations by tool and status
	ToolCalls metric.Int64Counter
}

// NewMetrics creates the instruments from mp
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Actions, err = m.Int64Counter("rpg_tracker.actions",
		metric.WithDescription("Character actions by outcome."),
	); err != nil {
		return nil, err
	}
	if met.ToolCalls, err = m.Int64Counter("rpg_tracker.tool_calls",
		metric.WithDescription("Agent tool invocations."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns metrics built on the global meter provider
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordAction counts one action run
func (m *Metrics) RecordAction(ctx context.Context, action, outcome string) {
	if m == nil {
		return
	}
	m.Actions.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordToolCall counts one tool invocation
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string) {
	if m == nil {
		return
	}
	m.ToolCalls.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("status", status),
		),
	)
}
