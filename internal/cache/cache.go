package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching remote lookup responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// LookupKey generates a cache key for a remote lookup, namespaced by the
// service so citation and classification responses for the same DOI never
// collide.
func LookupKey(service, doi string) string {
	hash := sha256.Sum256([]byte(service + "\x00" + doi))
	return "neurograph:v1:" + service + ":" + hex.EncodeToString(hash[:])
}
