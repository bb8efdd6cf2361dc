package models

import "time"

// Track represents a MusicRec catalog track.
//
// HybridScore, SimilarityScore and RecommendationReason are annotations attached by
// the recommendation endpoints, not intrinsic track properties. The same track may
// carry different scores in different feeds, and all three are zero outside of
// recommendation results.
type Track struct {
	TrackID  string  `json:"track_id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album,omitempty"`
	Genre    string  `json:"genre,omitempty"`
	Year     int     `json:"year,omitempty"`
	Duration float64 `json:"duration,omitempty"` // seconds

	// Audio features used by the recommender, surfaced for display.
	Tempo        float64 `json:"tempo,omitempty"`
	Energy       float64 `json:"energy,omitempty"`
	Danceability float64 `json:"danceability,omitempty"`
	Valence      float64 `json:"valence,omitempty"`

	// Feed-result annotations (0.0–1.0 scores).
	HybridScore          float64 `json:"hybrid_score,omitempty"`
	SimilarityScore      float64 `json:"similarity_score,omitempty"`
	RecommendationReason string  `json:"recommendation_reason,omitempty"`
}

// User represents the authenticated account returned by /auth/me.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayEvent is the payload for POST /music/play.
type PlayEvent struct {
	TrackID        string  `json:"track_id"`
	DurationPlayed float64 `json:"duration_played"` // seconds
	Completed      bool    `json:"completed"`
}

// LikeEvent is the payload for POST /music/like.
type LikeEvent struct {
	TrackID string `json:"track_id"`
}

// SkipEvent is the payload for POST /music/skip.
type SkipEvent struct {
	TrackID  string  `json:"track_id"`
	Position float64 `json:"position"` // seconds into the track
}

// HistoryEntry is a single play record from GET /music/history.
type HistoryEntry struct {
	TrackID        string    `json:"track_id"`
	PlayedAt       time.Time `json:"played_at"`
	DurationPlayed float64   `json:"duration_played"`
	Completed      bool      `json:"completed"`
}
