package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// APIKeySource defines where to extract API keys from.
type APIKeySource struct {
	Type   string // header, query
	Name   string // Header name or query param
	Scheme string // "Bearer", etc. (optional)
}

// DefaultSources accepts "Authorization: Bearer <key>" and "X-API-Key".
var DefaultSources = []APIKeySource{
	{Type: "header", Name: "Authorization", Scheme: "Bearer"},
	{Type: "header", Name: "X-API-Key"},
}

// APIKeyMiddleware is HTTP middleware for API key authentication.
type APIKeyMiddleware struct {
	store   APIKeyStore
	sources []APIKeySource
	logger  *slog.Logger
}

// NewAPIKeyMiddleware creates API key middleware. Nil sources selects
// DefaultSources.
func NewAPIKeyMiddleware(store APIKeyStore, sources []APIKeySource, logger *slog.Logger) *APIKeyMiddleware {
	if sources == nil {
		sources = DefaultSources
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &APIKeyMiddleware{
		store:   store,
		sources: sources,
		logger:  logger.With("component", "auth"),
	}
}

// Handle wraps next with API key authentication.
func (m *APIKeyMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey, err := m.extractAPIKey(r)
		if err != nil {
			m.logger.WarnContext(r.Context(), "missing API key",
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			w.Header().Set("WWW-Authenticate", `Bearer realm="zdenci"`)
			http.Error(w, "Missing or invalid API key", http.StatusUnauthorized)
			return
		}

		info, err := m.store.Validate(apiKey)
		if err != nil {
			m.logger.WarnContext(r.Context(), "invalid API key",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		m.logger.DebugContext(r.Context(), "API key authenticated",
			"key_name", info.Name,
			"path", r.URL.Path,
		)

		ctx := context.WithValue(r.Context(), apiKeyInfoKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HandleIfConfigured is Handle while the store holds at least one key, and
// passes requests through while it holds none. The check is made per
// request, so keys added or removed at runtime take effect immediately.
func (m *APIKeyMiddleware) HandleIfConfigured(next http.Handler) http.Handler {
	counter, ok := m.store.(KeyCounter)
	if !ok {
		return m.Handle(next)
	}
	guarded := m.Handle(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if counter.Len() == 0 {
			next.ServeHTTP(w, r)
			return
		}
		guarded.ServeHTTP(w, r)
	})
}

func (m *APIKeyMiddleware) extractAPIKey(r *http.Request) (string, error) {
	for _, source := range m.sources {
		switch source.Type {
		case "header":
			value := r.Header.Get(source.Name)
			if value == "" {
				continue
			}
			if source.Scheme == "" {
				return value, nil
			}
			if key, ok := strings.CutPrefix(value, source.Scheme+" "); ok {
				return key, nil
			}

		case "query":
			if value := r.URL.Query().Get(source.Name); value != "" {
				return value, nil
			}
		}
	}

	return "", errors.New("no API key found")
}

type contextKey string

// #nosec G101 - This is a context key constant, not a credential
const apiKeyInfoKey contextKey = "api_key_info"

// GetAPIKeyInfo retrieves API key info from request context.
func GetAPIKeyInfo(ctx context.Context) (*APIKeyInfo, bool) {
	info, ok := ctx.Value(apiKeyInfoKey).(*APIKeyInfo)
	return info, ok
}
