package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysFromStrings(t *testing.T) {
	keys := KeysFromStrings([]string{"a", "", "b"})
	require.Len(t, keys, 2)
	assert.Equal(t, "admin-1", keys[0].Name)
	assert.Equal(t, "admin-2", keys[1].Name)
	assert.True(t, keys[1].Enabled)
}

func TestAPIKeyValidator(t *testing.T) {
	v := NewAPIKeyValidator([]*APIKeyInfo{
		{Name: "ops", Key: "k-live", Enabled: true},
		{Name: "old", Key: "k-old", Enabled: false},
	})
	assert.Equal(t, 2, v.Len())

	info, err := v.Validate("k-live")
	require.NoError(t, err)
	assert.Equal(t, "ops", info.Name)

	_, err = v.Validate("k-old")
	assert.ErrorIs(t, err, ErrDisabledKey)

	_, err = v.Validate("nope")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = v.Validate("")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestAPIKeyMiddleware_Handle(t *testing.T) {
	v := NewAPIKeyValidator(KeysFromStrings([]string{"secret-key"}))

	tests := []struct {
		name    string
		sources []APIKeySource
		setup   func(*http.Request)
		want    int
	}{
		{
			name:  "bearer token",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret-key") },
			want:  http.StatusOK,
		},
		{
			name:  "x-api-key header",
			setup: func(r *http.Request) { r.Header.Set("X-API-Key", "secret-key") },
			want:  http.StatusOK,
		},
		{
			name:  "wrong scheme",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Basic secret-key") },
			want:  http.StatusUnauthorized,
		},
		{
			name:  "wrong key",
			setup: func(r *http.Request) { r.Header.Set("X-API-Key", "guess") },
			want:  http.StatusUnauthorized,
		},
		{
			name:  "missing",
			setup: func(r *http.Request) {},
			want:  http.StatusUnauthorized,
		},
		{
			name:    "query source",
			sources: []APIKeySource{{Type: "query", Name: "api_key"}},
			setup: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("api_key", "secret-key")
				r.URL.RawQuery = q.Encode()
			},
			want: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotName string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if info, ok := GetAPIKeyInfo(r.Context()); ok {
					gotName = info.Name
				}
			})
			h := NewAPIKeyMiddleware(v, tt.sources, nil).Handle(next)

			req := httptest.NewRequest(http.MethodPost, "/snapshots/refresh", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "admin-1", gotName)
			}
		})
	}
}

func TestAPIKeyMiddleware_HandleIfConfigured(t *testing.T) {
	v := NewAPIKeyValidator(nil)
	h := NewAPIKeyMiddleware(v, nil, nil).HandleIfConfigured(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/snapshots/refresh", nil)
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call(""), "open without keys")

	v.SetKeys(KeysFromStrings([]string{"rotated"}))
	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("old"))
	assert.Equal(t, http.StatusNoContent, call("rotated"))

	v.SetKeys(nil)
	assert.Equal(t, http.StatusNoContent, call(""))
}
