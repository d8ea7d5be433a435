package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached estimate.
type Entry struct {
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	TTLSeconds int             `json:"ttl_seconds"`
}

// NewEntry stamps data with the current time and ttl.
func NewEntry(key string, data json.RawMessage, ttlSeconds int) *Entry {
	now := time.Now().UTC()
	return &Entry{
		Key:        key,
		Data:       data,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds: ttlSeconds,
	}
}

// IsExpired reports whether the entry is past its expiry.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Remaining returns the time left before expiry, or 0.
func (e *Entry) Remaining() time.Duration {
	return max(time.Until(e.ExpiresAt), 0)
}

// Decode unmarshals the cached payload into v.
func (e *Entry) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}
