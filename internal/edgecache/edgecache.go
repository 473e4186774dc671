// Package edgecache manages the response cache that sits in front of the
// two public read endpoints. Entries are keyed by exact request path; after
// a publish the invalidator deletes those keys so the next visitor request
// recomputes from the live store instead of waiting for TTL expiry.
package edgecache

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// The public read endpoints are parameterless, so the canonical path is the
// whole cache key.
const (
	// PublicSettingsPath is the public settings fetch endpoint.
	PublicSettingsPath = "/api/settings"
	// PublicBlocksPath is the public block-list fetch endpoint.
	PublicBlocksPath = "/api/blocks"
)

// PublicPaths lists every cached public endpoint.
var PublicPaths = []string{PublicSettingsPath, PublicBlocksPath}

// Invalidator purges cached public responses from the shared storage backing
// the cache middleware.
type Invalidator struct {
	storage fiber.Storage
}

// NewInvalidator creates an Invalidator over the given storage. A nil
// storage yields an invalidator whose Purge does nothing, which is the
// correct behavior when response caching is disabled.
func NewInvalidator(storage fiber.Storage) *Invalidator {
	return &Invalidator{storage: storage}
}

// Purge deletes the cached copy of every public endpoint.
//
// Purge is best-effort: a failed delete only delays visibility until the
// cache TTL runs out, it cannot corrupt data. Failures are therefore logged
// at debug and swallowed; a publish never fails because of the cache.
func (i *Invalidator) Purge() {
	if i == nil || i.storage == nil {
		return
	}

	for _, key := range PublicPaths {
		if err := i.storage.Delete(key); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("edge cache purge failed")
		}
	}
}
