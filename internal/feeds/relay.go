package feeds

import (
	"context"

	"github.com/desertmoss/mrx/internal/models"
)

// Interaction relay: best-effort play/like/skip telemetry for the recommender.
// Losing an occasional event is acceptable; degrading browsing or playback flow
// is not, so nothing here blocks the caller or returns an error.

// LogPlay records that the current user played a track.
func (s *Store) LogPlay(ctx context.Context, trackID string, durationPlayed float64, completed bool) {
	event := models.PlayEvent{TrackID: trackID, DurationPlayed: durationPlayed, Completed: completed}
	if err := s.api.LogPlay(ctx, event); err != nil {
		s.logger.Warn("failed to log play", "track", trackID, "err", err)
	}
}

// LogLike records a like and sets the local liked flag. The flag is applied
// optimistically before the call and is never rolled back on failure.
func (s *Store) LogLike(ctx context.Context, trackID string) {
	s.mu.Lock()
	s.liked[trackID] = true
	s.mu.Unlock()

	if err := s.api.LogLike(ctx, models.LikeEvent{TrackID: trackID}); err != nil {
		s.logger.Warn("failed to log like", "track", trackID, "err", err)
	}
}

// LogSkip records that the current user skipped a track at the given position.
func (s *Store) LogSkip(ctx context.Context, trackID string, position float64) {
	if err := s.api.LogSkip(ctx, models.SkipEvent{TrackID: trackID, Position: position}); err != nil {
		s.logger.Warn("failed to log skip", "track", trackID, "err", err)
	}
}

// Liked reports the optimistic local liked flag for a track.
func (s *Store) Liked(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liked[trackID]
}
