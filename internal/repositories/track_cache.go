package repositories

import (
	"fmt"

	"github.com/desertmoss/mrx/internal/models"
)

// TrackCacheAdapter implements tasks.TrackCacher using TrackRepository.
//
// Tracks without an id cannot be keyed and are silently skipped; everything
// else is upserted, so re-seeing a track refreshes its cached row.
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack caches one track from a feed response.
func (a *TrackCacheAdapter) CacheTrack(track models.Track) error {
	if track.TrackID == "" {
		return nil
	}

	if err := a.repo.Upsert(track); err != nil {
		return fmt.Errorf("failed to cache track: %w", err)
	}
	return nil
}
