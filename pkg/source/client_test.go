package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg ClientConfig) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestClient_Fetch(t *testing.T) {
	var gotQuery, gotPath, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte("naziv_gc,lokacija\nA,B\n"))
	}, ClientConfig{Headers: map[string]string{"Authorization": "Bearer t"}})

	resp, err := c.Fetch(context.Background(), "format=csv&search=x")
	require.NoError(t, err)

	assert.Equal(t, "/api/zdenci/export", gotPath)
	assert.Equal(t, "format=csv&search=x", gotQuery)
	assert.Equal(t, "Bearer t", gotAuth)
	assert.Equal(t, "text/csv; charset=utf-8", resp.ContentType)
	assert.Equal(t, "naziv_gc,lokacija\nA,B\n", string(resp.Body))
}

func TestClient_FetchStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusInternalServerError)
	}, ClientConfig{})

	_, err := c.Fetch(context.Background(), "format=json")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "database unavailable", statusErr.Body)
	assert.True(t, statusErr.Temporary())
}

func TestClient_FetchTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, ClientConfig{Timeout: 50 * time.Millisecond})
	defer close(release)

	_, err := c.Fetch(context.Background(), "format=csv")

	var reqErr *RequestError
	assert.True(t, errors.As(err, &reqErr))
}

func TestClient_FetchContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, ClientConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, "format=csv")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_List(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "bare array", body: `[{"lokacija":"A","lon":15.9},{"lokacija":"B"}]`, want: 2},
		{name: "envelope", body: `{"draw":0,"recordsTotal":3,"recordsFiltered":3,"data":[{"lokacija":"A"}]}`, want: 1},
		{name: "empty", body: `[]`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				_, _ = w.Write([]byte(tt.body))
			}, ClientConfig{})

			records, err := c.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
			assert.Equal(t, "length=-1", gotQuery)
		})
	}
}

func TestClient_ListKeepsNumberText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lon":15.970000}]`))
	}, ClientConfig{})

	records, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "15.970000", records[0].String("lon"))
}

func TestClient_ListBadEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}, ClientConfig{})

	_, err := c.List(context.Background())
	assert.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}, ClientConfig{})
	assert.NoError(t, c.Ping(context.Background()))

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, ClientConfig{})
	assert.Error(t, down.Ping(context.Background()))
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(ClientConfig{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{BaseURL: "://"})
	assert.Error(t, err)
}

func TestClient_ExportURL(t *testing.T) {
	c, err := NewClient(ClientConfig{BaseURL: "https://zdenci.example/app/"})
	require.NoError(t, err)

	assert.Equal(t, "https://zdenci.example/app/api/zdenci/export?format=csv", c.ExportURL("format=csv"))
}
