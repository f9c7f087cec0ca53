// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [NullCache]: caches nothing, the default when caching is off
//   - [FileCache]: one JSON envelope per key under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//
// # Keys
//
// Keys are built by a [Keyer] from a content hash of the input plus every
// option that changes the output:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(treeJSON), cache.LayoutKeyOpts{CoupleDistance: 1, ...})
//
// A [ScopedKeyer] prefixes every key, for callers that share one backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A zero ttl stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts holds the layout settings that affect positions.
type LayoutKeyOpts struct {
	NodeSize        float64 `json:"node_size"`
	SiblingDistance float64 `json:"sibling_distance"`
	TreeDistance    float64 `json:"tree_distance"`
	CoupleDistance  float64 `json:"couple_distance"`
	ScaleX          float64 `json:"scale_x"`
	ScaleY          float64 `json:"scale_y"`
	KeepOnScreen    bool    `json:"keep_on_screen"`
}

// ArtifactKeyOpts holds the render settings that affect an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey is the key of the layout of the tree whose serialized form
	// hashes to treeHash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey is the key of one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Hash returns the hex SHA-256 of data. Trees are hashed in their JSON form.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns prefix + ":" + Hash(JSON(parts)). parts must be
// JSON-encodable; option structs are, by construction.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
