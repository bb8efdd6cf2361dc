// package tasks implements long-running maintenance operations over the
// recommendation backend.
//
// The core abstraction is FeedEngine, which prefetches feeds into the local
// cache and snapshots listening data. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertmoss/mrx/internal/gateway"
	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
)

// APIClient is the slice of the gateway the engine calls.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type APIClient interface {
	Tracks(ctx context.Context, genre string, limit, offset int) (*gateway.TrackPage, error)
	Genres(ctx context.Context) ([]string, error)
	Hybrid(ctx context.Context, limit int) (*gateway.RecommendationSet, error)
	ForYou(ctx context.Context, limit int) (*gateway.RecommendationSet, error)
	Popular(ctx context.Context, limit int) (*gateway.RecommendationSet, error)
	GenreRecommendations(ctx context.Context, genre string, limit int) (*gateway.RecommendationSet, error)
	History(ctx context.Context, limit int) ([]models.HistoryEntry, error)
	AnalyticsMe(ctx context.Context) (json.RawMessage, error)
	AnalyticsSystem(ctx context.Context) (json.RawMessage, error)
	AnalyticsAlgorithms(ctx context.Context) (json.RawMessage, error)
	Health(ctx context.Context) (map[string]any, error)
}

// TrackCacher persists tracks seen during a warm-up sweep.
// Implemented by repositories.TrackCacheAdapter.
type TrackCacher interface {
	CacheTrack(track models.Track) error
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Error    error
}

// DumpResult contains all data fetched during a snapshot.
type DumpResult struct {
	SnapshotID string           // Client-generated id naming this snapshot
	Health     any              // Backend health status
	Genres     []string         // Available genres
	History    any              // Listening history
	Me         any              // Per-user analytics
	System     any              // System-wide analytics
	Algorithms any              // Per-algorithm analytics
	Errors     []EndpointResult // Failed endpoint fetches
}

// DumpData is the JSON shape of a snapshot written to disk.
type DumpData struct {
	SnapshotID string   `json:"snapshot_id"`
	Health     any      `json:"health"`
	Genres     []string `json:"genres,omitempty"`
	History    any      `json:"history,omitempty"`
	Me         any      `json:"me,omitempty"`
	System     any      `json:"system,omitempty"`
	Algorithms any      `json:"algorithms,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// Data converts a DumpResult into its serializable form.
func (r *DumpResult) Data() DumpData {
	data := DumpData{
		SnapshotID: r.SnapshotID,
		Health:     r.Health,
		Genres:     r.Genres,
		History:    r.History,
		Me:         r.Me,
		System:     r.System,
		Algorithms: r.Algorithms,
	}
	for _, failure := range r.Errors {
		data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", failure.Endpoint, failure.Error))
	}
	return data
}

// FeedEngine implements warm-up and snapshot operations against the backend.
type FeedEngine struct {
	api   APIClient
	cache TrackCacher
}

// NewFeedEngine creates a new FeedEngine. cache may be nil to disable
// cache-through during warm-up.
func NewFeedEngine(api APIClient, cache TrackCacher) *FeedEngine {
	return &FeedEngine{api: api, cache: cache}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *FeedEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

type dumpEndpoint struct {
	name  string
	phase Phase
	fetch func(ctx context.Context) (any, error)
}

// Dump snapshots the listening data the backend holds for the current user:
// health, genres, history, and the three analytics views. Endpoint failures are
// collected rather than aborting the snapshot.
func (e *FeedEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate, historyLimit int) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{
		SnapshotID: shared.GenerateID(),
		Errors:     []EndpointResult{},
	}

	endpoints := []dumpEndpoint{
		{name: "health", phase: FetchHealth, fetch: func(ctx context.Context) (any, error) {
			return e.api.Health(ctx)
		}},
		{name: "genres", phase: FetchGenres, fetch: func(ctx context.Context) (any, error) {
			genres, err := e.api.Genres(ctx)
			if err == nil {
				result.Genres = genres
			}
			return genres, err
		}},
		{name: "history", phase: FetchHistory, fetch: func(ctx context.Context) (any, error) {
			return e.api.History(ctx, historyLimit)
		}},
		{name: "analytics/me", phase: FetchAnalytics, fetch: func(ctx context.Context) (any, error) {
			return e.api.AnalyticsMe(ctx)
		}},
		{name: "analytics/system", phase: FetchAnalytics, fetch: func(ctx context.Context) (any, error) {
			return e.api.AnalyticsSystem(ctx)
		}},
		{name: "analytics/algorithms", phase: FetchAnalytics, fetch: func(ctx context.Context) (any, error) {
			return e.api.AnalyticsAlgorithms(ctx)
		}},
	}

	total := len(endpoints)
	for i, endpoint := range endpoints {
		e.sendProgress(progress, endpointUpdate(endpoint.phase, i+1, total, endpoint.name))

		data, err := endpoint.fetch(ctx)
		if err != nil {
			result.Errors = append(result.Errors, EndpointResult{Endpoint: endpoint.name, Error: err})
			continue
		}

		switch endpoint.name {
		case "health":
			result.Health = data
		case "history":
			result.History = data
		case "analytics/me":
			result.Me = data
		case "analytics/system":
			result.System = data
		case "analytics/algorithms":
			result.Algorithms = data
		}
	}

	return result, nil
}
