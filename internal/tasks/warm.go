package tasks

import (
	"context"
	"fmt"

	"github.com/desertmoss/mrx/internal/gateway"
	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
	"golang.org/x/time/rate"
)

// WarmOpts contains configuration for a warm-up sweep.
type WarmOpts struct {
	Limit     int      // Tracks requested per listing (default: 50)
	Genres    []string // Genres to warm; nil fetches the backend's genre list
	RateLimit float64  // Requests per second (default: 5)
	SkipRecs  bool     // Skip the recommendation feeds (catalog and genres only)
}

// FeedWarmResult records the outcome of warming one feed.
type FeedWarmResult struct {
	Feed    string // Feed label, e.g. "catalog", "genre:Jazz", "hybrid"
	Tracks  int    // Tracks fetched
	Success bool
	Error   error
}

// WarmResult summarizes a warm-up sweep.
type WarmResult struct {
	SweepID      string // Client-generated id naming this sweep
	TotalFeeds   int
	WarmedFeeds  int
	FailedFeeds  int
	CachedTracks int
	Results      []FeedWarmResult
}

// warmFeed pairs a feed label with its fetch.
type warmFeed struct {
	label string
	fetch func(ctx context.Context) ([]models.Track, error)
}

// Warm prefetches the catalog, every genre listing, and the recommendation
// feeds, caching each track seen along the way.
//
// Requests are rate limited so a sweep never hammers the backend. Individual
// feed failures are recorded and the sweep continues; only a cancelled context
// aborts it.
func (e *FeedEngine) Warm(ctx context.Context, progress chan<- ProgressUpdate, opts WarmOpts) (*WarmResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	genres := opts.Genres
	if genres == nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		fetched, err := e.api.Genres(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list genres: %v", shared.ErrAPIRequest, err)
		}
		genres = fetched
	}

	feeds := []warmFeed{
		{label: "catalog", fetch: func(ctx context.Context) ([]models.Track, error) {
			page, err := e.api.Tracks(ctx, "", opts.Limit, 0)
			if err != nil {
				return nil, err
			}
			return page.Tracks, nil
		}},
	}

	for _, genre := range genres {
		g := genre
		feeds = append(feeds, warmFeed{
			label: "genre:" + g,
			fetch: func(ctx context.Context) ([]models.Track, error) {
				set, err := e.api.GenreRecommendations(ctx, g, opts.Limit)
				if err != nil {
					return nil, err
				}
				return set.Tracks, nil
			},
		})
	}

	if !opts.SkipRecs {
		recs := []struct {
			label string
			fetch func(ctx context.Context, limit int) (*gateway.RecommendationSet, error)
		}{
			{label: "hybrid", fetch: e.api.Hybrid},
			{label: "for-you", fetch: e.api.ForYou},
			{label: "popular", fetch: e.api.Popular},
		}
		for _, rec := range recs {
			fetch := rec.fetch
			feeds = append(feeds, warmFeed{
				label: rec.label,
				fetch: func(ctx context.Context) ([]models.Track, error) {
					set, err := fetch(ctx, opts.Limit)
					if err != nil {
						return nil, err
					}
					return set.Tracks, nil
				},
			})
		}
	}

	result := &WarmResult{
		SweepID:    shared.GenerateID(),
		TotalFeeds: len(feeds),
		Results:    make([]FeedWarmResult, 0, len(feeds)),
	}

	for i, feed := range feeds {
		e.sendProgress(progress, warmingFeedUpdate(i+1, len(feeds), feed.label))

		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		tracks, err := feed.fetch(ctx)
		if err != nil {
			result.FailedFeeds++
			result.Results = append(result.Results, FeedWarmResult{Feed: feed.label, Error: err})
			e.sendProgress(progress, warmFailedUpdate(i+1, len(feeds), feed.label, err))
			continue
		}

		cached := e.cacheTracks(tracks)
		result.WarmedFeeds++
		result.CachedTracks += cached
		result.Results = append(result.Results, FeedWarmResult{
			Feed:    feed.label,
			Tracks:  len(tracks),
			Success: true,
		})
		e.sendProgress(progress, warmCompletedUpdate(i+1, len(feeds), feed.label, len(tracks)))
	}

	return result, nil
}

// cacheTracks writes tracks through to the cache, counting successes. Cache
// failures are ignored so a broken cache never fails a sweep.
func (e *FeedEngine) cacheTracks(tracks []models.Track) int {
	if e.cache == nil {
		return 0
	}

	cached := 0
	for _, track := range tracks {
		if err := e.cache.CacheTrack(track); err == nil {
			cached++
		}
	}
	return cached
}
