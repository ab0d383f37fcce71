package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Keyer builds cache keys for the data hubmap caches.
type Keyer interface {
	// TileKey is the key for a tile dataset downloaded from url.
	TileKey(url string) string

	// PlacesKey is the key for places loaded from an external source.
	PlacesKey(source string, parts ...string) string
}

// DefaultKeyer hashes key material so keys are fixed-length and safe for any
// backend.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) TileKey(url string) string {
	return hashKey("tile", strings.TrimSpace(url))
}

func (DefaultKeyer) PlacesKey(source string, parts ...string) string {
	return hashKey("places:"+source, parts)
}

// ScopedKeyer prefixes every key of an inner Keyer. Use it to give each
// deployment its own namespace in a shared Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, defaulting to DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TileKey(url string) string {
	return k.prefix + k.inner.TileKey(url)
}

func (k *ScopedKeyer) PlacesKey(source string, parts ...string) string {
	return k.prefix + k.inner.PlacesKey(source, parts...)
}

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
