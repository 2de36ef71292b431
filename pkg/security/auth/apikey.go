package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
)

// Validation errors.
var (
	ErrInvalidKey  = errors.New("invalid API key")
	ErrDisabledKey = errors.New("API key disabled")
)

// APIKeyValidator validates API keys against a configured set of keys.
type APIKeyValidator struct {
	mu   sync.RWMutex
	keys []*APIKeyInfo
}

// NewAPIKeyValidator creates a validator for keys.
func NewAPIKeyValidator(keys []*APIKeyInfo) *APIKeyValidator {
	return &APIKeyValidator{keys: append([]*APIKeyInfo(nil), keys...)}
}

// KeysFromStrings builds enabled keys named admin-1, admin-2, ... Empty
// strings are skipped.
func KeysFromStrings(keys []string) []*APIKeyInfo {
	out := make([]*APIKeyInfo, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		out = append(out, &APIKeyInfo{
			Name:    fmt.Sprintf("admin-%d", len(out)+1),
			Key:     k,
			Enabled: true,
		})
	}
	return out
}

// Validate checks key in constant time per configured key.
func (v *APIKeyValidator) Validate(key string) (*APIKeyInfo, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var match *APIKeyInfo
	for _, info := range v.keys {
		if subtle.ConstantTimeCompare([]byte(info.Key), []byte(key)) == 1 {
			match = info
		}
	}
	if match == nil {
		return nil, ErrInvalidKey
	}
	if !match.Enabled {
		return nil, ErrDisabledKey
	}
	return match, nil
}

// SetKeys replaces the configured keys.
func (v *APIKeyValidator) SetKeys(keys []*APIKeyInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys = append([]*APIKeyInfo(nil), keys...)
}

// Len returns the number of configured keys.
func (v *APIKeyValidator) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys)
}
