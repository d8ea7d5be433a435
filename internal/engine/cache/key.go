package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint hashes the JSON encoding of each part. Struct fields encode in
// declaration order and map keys are sorted, so equal values always produce
// the same key.
func Fingerprint(parts ...any) (string, error) {
	h := sha256.New()
	for i, p := range parts {
		data, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("fingerprint part %d: %w", i, err)
		}
		h.Write(data)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
