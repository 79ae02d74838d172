// Package cache provides pluggable storage for computed layout plans.
//
// Planning is deterministic, so a plan is fully described by the hash of the
// analyzed variant data plus the layout options that shaped it. Backends
// store opaque bytes under string keys: a file-based cache for CLI usage, a
// Redis cache and a Mongo cache for server deployments, and a null cache for
// tests and --no-cache runs.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	// PlanTTL bounds how long a computed plan stays valid. Plans are cheap
	// to recompute, so a short horizon keeps stale options from lingering.
	PlanTTL = 24 * time.Hour

	// DocumentTTL bounds cached document snapshots served over HTTP.
	DocumentTTL = time.Hour
)

// Cache is the storage backend interface. A miss is (nil, false, nil);
// errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PlanKeyOpts captures the layout options that change a plan's geometry.
// Two runs with equal variant hashes and equal opts produce identical plans.
type PlanKeyOpts struct {
	Padding        float64 `json:"padding"`
	CellSize       float64 `json:"cell_size"`
	BlockGap       float64 `json:"block_gap"`
	SortDescending bool    `json:"sort_descending"`
	VAlign         string  `json:"valign"`
	SetAttr        string  `json:"set_attr"`
	StyleAttr      string  `json:"style_attr"`
	ColorAttr      string  `json:"color_attr"`
	SizeAttr       string  `json:"size_attr"`
}

// Keyer generates cache keys. The default implementation hashes all inputs;
// wrap it in a ScopedKeyer to namespace keys per user or deployment.
type Keyer interface {
	// PlanKey keys a computed plan by the variant-data hash and the layout
	// options that shaped it.
	PlanKey(infoHash string, opts PlanKeyOpts) string

	// DocumentKey keys a serialized document snapshot.
	DocumentKey(namespace, id string) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey generates a key for plan caching.
func (k *DefaultKeyer) PlanKey(infoHash string, opts PlanKeyOpts) string {
	return hashKey("plan", infoHash, opts)
}

// DocumentKey generates a key for document snapshot caching.
func (k *DefaultKeyer) DocumentKey(namespace, id string) string {
	return "doc:" + namespace + ":" + id
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
