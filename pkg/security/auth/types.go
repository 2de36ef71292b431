package auth

// APIKeyInfo describes one admin API key.
type APIKeyInfo struct {
	// Name identifies the key holder in logs. The key itself is never logged.
	Name    string
	Key     string
	Enabled bool
}

// APIKeyStore validates API keys.
type APIKeyStore interface {
	Validate(key string) (*APIKeyInfo, error)
}

// KeyCounter reports how many keys a store holds.
type KeyCounter interface {
	Len() int
}
