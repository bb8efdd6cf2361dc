package feeds

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertmoss/mrx/internal/gateway"
	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
)

// Status is the loading state of a single feed.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return ""
	}
}

// Kind names a recommendation feed variant. The variants differ only in which
// backend endpoint produces their contents; client handling is identical.
type Kind string

const (
	KindHybrid  Kind = "hybrid"
	KindForYou  Kind = "for-you"
	KindPopular Kind = "popular"
	KindSimilar Kind = "similar"
	KindGenre   Kind = "genre"
)

// KeyCatalog is the feed key for the catalog browse.
const KeyCatalog = "catalog"

// SimilarKey returns the feed key for tracks similar to the given track.
func SimilarKey(trackID string) string { return "similar:" + trackID }

// GenreKey returns the feed key for a per-genre recommendation listing.
func GenreKey(genre string) string { return "genre:" + genre }

// Feed is a snapshot of one named track collection.
//
// Items is non-nil only after a successful fetch (it may be explicitly empty);
// order is the server-returned relevance order. Err is set only when Status is
// StatusFailed, in which case Items retains the last successful result.
type Feed struct {
	Key       string
	Status    Status
	Items     []models.Track
	Algorithm string
	Err       string
	FetchedAt time.Time
}

// CatalogFilter selects what the catalog feed shows. A non-empty SearchText
// switches the fetch to the free-text search endpoint; otherwise the track
// listing is used, optionally restricted by Genre.
type CatalogFilter struct {
	Genre      string
	SearchText string
	Limit      int
}

// RecommendationParams parameterizes a recommendation fetch. TrackID is
// required for KindSimilar and Genre for KindGenre; both are ignored otherwise.
type RecommendationParams struct {
	Limit   int
	TrackID string
	Genre   string
}

// Backend is the slice of the gateway the feed store calls. Implemented by
// gateway.Client.
type Backend interface {
	Tracks(ctx context.Context, genre string, limit, offset int) (*gateway.TrackPage, error)
	Search(ctx context.Context, q string) ([]models.Track, error)
	Genres(ctx context.Context) ([]string, error)
	Hybrid(ctx context.Context, limit int) (*gateway.RecommendationSet, error)
	ForYou(ctx context.Context, limit int) (*gateway.RecommendationSet, error)
	Popular(ctx context.Context, limit int) (*gateway.RecommendationSet, error)
	Similar(ctx context.Context, trackID string, limit int) (*gateway.RecommendationSet, error)
	GenreRecommendations(ctx context.Context, genre string, limit int) (*gateway.RecommendationSet, error)
	LogPlay(ctx context.Context, event models.PlayEvent) error
	LogLike(ctx context.Context, event models.LikeEvent) error
	LogSkip(ctx context.Context, event models.SkipEvent) error
}

// feedState pairs a feed with its request counter. issued is bumped on every
// fetch start; a completing fetch applies its result only while it still holds
// the latest counter value.
type feedState struct {
	feed   Feed
	issued uint64
}

// Store owns all feeds and the interaction relay.
//
// Methods block until their backend call settles, so callers run them from
// their own goroutines; all state access is mutex-guarded.
type Store struct {
	api    Backend
	logger *log.Logger

	mu    sync.Mutex
	feeds map[string]*feedState
	liked map[string]bool
}

// NewStore creates a feed store over the given backend.
func NewStore(api Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Store{
		api:    api,
		logger: logger,
		feeds:  make(map[string]*feedState),
		liked:  make(map[string]bool),
	}
}

// FetchCatalog loads the catalog feed with the given filter and returns the
// resulting snapshot. The previous catalog contents are replaced wholesale.
func (s *Store) FetchCatalog(ctx context.Context, filter CatalogFilter) Feed {
	seq := s.begin(KeyCatalog)

	var items []models.Track
	var err error

	if filter.SearchText != "" {
		items, err = s.api.Search(ctx, filter.SearchText)
		if err == nil && filter.Limit > 0 && len(items) > filter.Limit {
			items = items[:filter.Limit]
		}
	} else {
		var page *gateway.TrackPage
		page, err = s.api.Tracks(ctx, filter.Genre, filter.Limit, 0)
		if page != nil {
			items = page.Tracks
		}
	}

	return s.finish(KeyCatalog, seq, items, "", err)
}

// FetchRecommendations loads the feed for the given kind. Unknown kinds fall
// back to hybrid; this is an explicit default, not an error. The result is
// stored under the kind's feed key ("similar" and "genre" are further keyed by
// their parameter) and returned as a snapshot.
func (s *Store) FetchRecommendations(ctx context.Context, kind Kind, params RecommendationParams) Feed {
	kind = normalizeKind(kind, s.logger)
	key := feedKey(kind, params)

	seq := s.begin(key)

	var set *gateway.RecommendationSet
	var err error

	switch kind {
	case KindForYou:
		set, err = s.api.ForYou(ctx, params.Limit)
	case KindPopular:
		set, err = s.api.Popular(ctx, params.Limit)
	case KindSimilar:
		set, err = s.api.Similar(ctx, params.TrackID, params.Limit)
	case KindGenre:
		set, err = s.api.GenreRecommendations(ctx, params.Genre, params.Limit)
	default:
		set, err = s.api.Hybrid(ctx, params.Limit)
	}

	var items []models.Track
	var algorithm string
	if set != nil {
		items = set.Tracks
		algorithm = set.Algorithm
	}

	return s.finish(key, seq, items, algorithm, err)
}

// ListGenres fetches the catalog's genre list. Read-through: every invocation
// hits the backend, nothing is cached.
func (s *Store) ListGenres(ctx context.Context) ([]string, error) {
	return s.api.Genres(ctx)
}

// Feed returns a snapshot of the feed stored under key. An unknown key yields
// an idle feed.
func (s *Store) Feed(key string) Feed {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.feeds[key]
	if !ok {
		return Feed{Key: key, Status: StatusIdle}
	}
	return snapshot(st.feed)
}

// Feeds returns snapshots of every feed the store has seen, sorted by key.
func (s *Store) Feeds() []Feed {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Feed, 0, len(s.feeds))
	for _, st := range s.feeds {
		out = append(out, snapshot(st.feed))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// begin marks the keyed feed as loading and returns the request counter for
// this fetch.
func (s *Store) begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.feeds[key]
	if !ok {
		st = &feedState{feed: Feed{Key: key}}
		s.feeds[key] = st
	}

	st.issued++
	st.feed.Status = StatusLoading
	st.feed.Err = ""
	return st.issued
}

// finish applies one fetch's outcome under the supersession guard and returns
// the feed snapshot current after the attempt.
func (s *Store) finish(key string, seq uint64, items []models.Track, algorithm string, err error) Feed {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.feeds[key]

	if seq != st.issued {
		// A newer fetch owns this feed now; drop the stale result.
		s.logger.Debug("discarding superseded feed response", "feed", key, "seq", seq, "latest", st.issued)
		return snapshot(st.feed)
	}

	if err != nil {
		st.feed.Status = StatusFailed
		st.feed.Err = err.Error()
		s.logger.Error("feed fetch failed", "feed", key, "err", err)
		return snapshot(st.feed)
	}

	if items == nil {
		items = []models.Track{}
	}

	st.feed.Status = StatusReady
	st.feed.Items = items
	st.feed.Algorithm = algorithm
	st.feed.Err = ""
	st.feed.FetchedAt = time.Now()
	return snapshot(st.feed)
}

// normalizeKind maps unknown kinds onto hybrid.
func normalizeKind(kind Kind, logger *log.Logger) Kind {
	switch kind {
	case KindHybrid, KindForYou, KindPopular, KindSimilar, KindGenre:
		return kind
	default:
		logger.Debug("unknown recommendation kind, defaulting to hybrid", "kind", string(kind))
		return KindHybrid
	}
}

// feedKey derives the storage key for a recommendation fetch.
func feedKey(kind Kind, params RecommendationParams) string {
	switch kind {
	case KindSimilar:
		return SimilarKey(params.TrackID)
	case KindGenre:
		return GenreKey(params.Genre)
	default:
		return string(kind)
	}
}

// snapshot copies a feed so callers never share the store's slice.
func snapshot(f Feed) Feed {
	out := f
	if f.Items != nil {
		out.Items = make([]models.Track, len(f.Items))
		copy(out.Items, f.Items)
	}
	return out
}
