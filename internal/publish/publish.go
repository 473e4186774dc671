// Package publish promotes all staged settings and draft blocks to live in
// one owner-facing action, then purges the public edge cache.
//
// The two promotions are independent single statements, not one cross-entity
// transaction: settings and blocks have no foreign-key coupling, and a
// failure between them leaves the already-promoted side applied. That gap is
// accepted because re-publishing is idempotent; the admin UI just retries.
package publish

import (
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/db/controller/block"
	"github.com/linkforge/linkforge/internal/db/controller/setting"
	"github.com/linkforge/linkforge/internal/edgecache"
)

// Summary reports what one publish run promoted.
type Summary struct {
	SettingsPublished int64 `json:"settingsPublished"`
	BlocksPublished   int64 `json:"blocksPublished"`
}

// Pending reports how many staged changes are waiting, for the admin UI's
// "N unpublished changes" badge.
type Pending struct {
	Settings int64 `json:"settings"`
	Blocks   int64 `json:"blocks"`
}

// Coordinator runs the publish pipeline. It has no state of its own; it is a
// stateless procedure over the two stores plus the cache invalidator.
type Coordinator struct {
	db          *gorm.DB
	invalidator *edgecache.Invalidator
}

// NewCoordinator creates a Coordinator. The invalidator may be nil when
// response caching is disabled.
func NewCoordinator(db *gorm.DB, invalidator *edgecache.Invalidator) *Coordinator {
	return &Coordinator{db: db, invalidator: invalidator}
}

// PublishAll promotes staged settings and draft blocks, then purges the
// public cache. On a store error the summary carries whatever was already
// promoted and the error is surfaced so the caller can retry; the cache
// purge itself is best-effort and never produces an error.
func (c *Coordinator) PublishAll() (Summary, error) {
	var summary Summary

	publishAttempts.Inc()

	settingsPublished, err := setting.Publish(c.db)
	if err != nil {
		return summary, err
	}

	summary.SettingsPublished = settingsPublished

	blocksPublished, err := block.PublishAll(c.db)
	if err != nil {
		// settings stay promoted; a retry re-runs both as no-op/continuation
		return summary, err
	}

	summary.BlocksPublished = blocksPublished

	settingsPromoted.Add(float64(settingsPublished))
	blocksPromoted.Add(float64(blocksPublished))

	c.invalidator.Purge()

	return summary, nil
}

// CountPending returns the number of staged settings and draft blocks.
func (c *Coordinator) CountPending() (Pending, error) {
	var pending Pending

	settings, err := setting.CountPending(c.db)
	if err != nil {
		return pending, err
	}

	blocks, err := block.CountDrafts(c.db)
	if err != nil {
		return pending, err
	}

	pending.Settings = settings
	pending.Blocks = blocks

	return pending, nil
}
