package export

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"zdenci/exporter/pkg/telemetry/logging"
	"zdenci/exporter/pkg/telemetry/tracing"
	"zdenci/exporter/pkg/zdenci"
)

type fakeDeliverer struct {
	mu       sync.Mutex
	payloads []*Payload
	err      error
}

func (d *fakeDeliverer) Deliver(ctx context.Context, p *Payload) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return "", d.err
	}
	d.payloads = append(d.payloads, p)
	return "mem://" + p.Filename, nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	statuses []string
}

func (m *fakeMetrics) RecordExport(mode, format, status string, duration time.Duration, bytes, rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, mode+"/"+format+"/"+status)
}

type fakeHistory struct {
	mu      sync.Mutex
	results []*Result
}

func (h *fakeHistory) RecordExport(ctx context.Context, r *Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, r)
}

func TestOrchestrator_LocalStates(t *testing.T) {
	m := &fakeMetrics{}
	h := &fakeHistory{}
	d := &fakeDeliverer{}
	o := NewOrchestrator(zdenci.ModeLocal, NewLocalExporter(sampleTable(), newSorter(t)),
		WithLogger(logging.Discard()), WithMetrics(m), WithHistory(h))

	res, err := o.RunTo(context.Background(), zdenci.FormatCSV, d)
	require.NoError(t, err)

	assert.Equal(t, []State{StateIdle, StateCollecting, StateTransforming, StateDelivering, StateIdle}, res.States)
	assert.Equal(t, "mem://zdenci_filtered.csv", res.Target)
	assert.Equal(t, 4, res.Rows)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "success", res.Status())
	assert.Len(t, d.payloads, 1)
	assert.Equal(t, []string{"local/csv/success"}, m.statuses)
	require.Len(t, h.results, 1)
	assert.Equal(t, res.ID, h.results[0].ID)
}

func TestOrchestrator_RemoteStates(t *testing.T) {
	exp := newRemote(t, sampleTable(), func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	o := NewOrchestrator(zdenci.ModeRemote, exp, WithLogger(logging.Discard()))

	res, err := o.RunTo(context.Background(), zdenci.FormatJSON, &fakeDeliverer{})
	require.NoError(t, err)

	assert.Equal(t, []State{StateIdle, StateCollecting, StateFetching, StateTransforming, StateDelivering, StateIdle}, res.States)
	assert.Equal(t, "format=json", res.Query)
	assert.Equal(t, "[]", string(res.Payload.Data))
}

func TestOrchestrator_RunWithoutDelivery(t *testing.T) {
	o := NewOrchestrator(zdenci.ModeLocal, NewLocalExporter(sampleTable(), newSorter(t)), WithLogger(logging.Discard()))

	res, err := o.Run(context.Background(), zdenci.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []State{StateIdle, StateCollecting, StateTransforming, StateIdle}, res.States)
	assert.NotNil(t, res.Payload)
	assert.Empty(t, res.Target)
}

func TestOrchestrator_FetchFailure(t *testing.T) {
	exp := newRemote(t, sampleTable(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	m := &fakeMetrics{}
	h := &fakeHistory{}
	d := &fakeDeliverer{}
	o := NewOrchestrator(zdenci.ModeRemote, exp, WithLogger(logging.Discard()), WithMetrics(m), WithHistory(h))

	res, err := o.RunTo(context.Background(), zdenci.FormatCSV, d)
	require.Error(t, err)

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, StateFetching, stateErr.State)
	assert.Equal(t, []State{StateIdle, StateCollecting, StateFetching, StateFailed}, res.States)
	assert.Empty(t, d.payloads)
	assert.Nil(t, res.Payload)
	assert.Equal(t, []string{"remote/csv/error"}, m.statuses)
	require.Len(t, h.results, 1)
	assert.Equal(t, "error", h.results[0].Status())
}

func TestOrchestrator_DeliveryFailure(t *testing.T) {
	d := &fakeDeliverer{err: errors.New("permission denied")}
	o := NewOrchestrator(zdenci.ModeLocal, NewLocalExporter(sampleTable(), newSorter(t)), WithLogger(logging.Discard()))

	res, err := o.RunTo(context.Background(), zdenci.FormatCSV, d)

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, StateDelivering, stateErr.State)
	assert.Equal(t, StateFailed, res.States[len(res.States)-1])
	assert.Empty(t, res.Target)
}

func TestOrchestrator_ConcurrentInvocations(t *testing.T) {
	o := NewOrchestrator(zdenci.ModeLocal, NewLocalExporter(sampleTable(), newSorter(t)), WithLogger(logging.Discard()))
	d := &fakeDeliverer{}

	const n = 10
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			format := zdenci.FormatCSV
			if i%2 == 1 {
				format = zdenci.FormatJSON
			}
			res, err := o.RunTo(context.Background(), format, d)
			assert.NoError(t, err)
			assert.Len(t, res.States, 5)
			ids <- res.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate invocation id %s", id)
		seen[id] = true
	}
	assert.Len(t, d.payloads, n)
}

func TestOrchestrator_Span(t *testing.T) {
	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
	defer tp.Shutdown(context.Background())

	o := NewOrchestrator(zdenci.ModeLocal, NewLocalExporter(sampleTable(), newSorter(t)),
		WithLogger(logging.Discard()), WithTracer(tp.Tracer("test")))

	res, err := o.Run(context.Background(), zdenci.FormatCSV)
	require.NoError(t, err)

	got := spans.GetSpans()
	require.Len(t, got, 1)
	span := got[0]
	assert.Equal(t, "export.run", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)

	attrs := map[string]string{}
	for _, kv := range span.Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, res.ID, attrs[string(tracing.AttrExportID)])
	assert.Equal(t, "local", attrs[string(tracing.AttrExportMode)])
	assert.Equal(t, "4", attrs[string(tracing.AttrExportRows)])

	var states []string
	for _, ev := range span.Events {
		for _, kv := range ev.Attributes {
			if kv.Key == tracing.AttrExportState {
				states = append(states, kv.Value.AsString())
			}
		}
	}
	assert.Equal(t, []string{"collecting", "transforming", "idle"}, states)
}

func TestOrchestrator_SpanRecordsFailure(t *testing.T) {
	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
	defer tp.Shutdown(context.Background())

	o := NewOrchestrator(zdenci.ModeLocal, NewLocalExporter(sampleTable(), newSorter(t)),
		WithLogger(logging.Discard()), WithTracer(tp.Tracer("test")))

	_, err := o.RunTo(context.Background(), zdenci.FormatCSV, &fakeDeliverer{err: errors.New("disk full")})
	require.Error(t, err)

	got := spans.GetSpans()
	require.Len(t, got, 1)
	assert.Equal(t, codes.Error, got[0].Status.Code)
}
