package export

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"zdenci/exporter/pkg/telemetry/tracing"
)

// State is a step of an export invocation.
type State string

const (
	StateIdle         State = "idle"
	StateCollecting   State = "collecting"
	StateFetching     State = "fetching"
	StateTransforming State = "transforming"
	StateDelivering   State = "delivering"
	StateFailed       State = "failed"
)

// tracker records the states one invocation passes through.
type tracker struct {
	mu     sync.Mutex
	states []State
	query  string
}

type trackerKey struct{}

func withTracker(ctx context.Context, t *tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// enter moves the invocation tracked by ctx into state and adds a span
// event. Without a tracker it does nothing, so exporters can be used on
// their own.
func enter(ctx context.Context, state State) {
	trace.SpanFromContext(ctx).AddEvent("state",
		trace.WithAttributes(tracing.AttrExportState.String(string(state))))
	if t, ok := ctx.Value(trackerKey{}).(*tracker); ok {
		t.mu.Lock()
		t.states = append(t.states, state)
		t.mu.Unlock()
	}
}

func setQuery(ctx context.Context, query string) {
	if t, ok := ctx.Value(trackerKey{}).(*tracker); ok {
		t.mu.Lock()
		t.query = query
		t.mu.Unlock()
	}
}

func (t *tracker) current() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.states) == 0 {
		return StateIdle
	}
	return t.states[len(t.states)-1]
}

func (t *tracker) snapshot() ([]State, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]State(nil), t.states...), t.query
}
