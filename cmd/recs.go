package main

import (
	"context"
	"fmt"

	"github.com/desertmoss/mrx/internal/feeds"
	"github.com/desertmoss/mrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// recommendations fetches one recommendation feed through the feed store and
// renders the resulting snapshot.
func (r *Runner) recommendations(ctx context.Context, cmd *cli.Command, kind feeds.Kind, params feeds.RecommendationParams) error {
	params.Limit = r.limitOrDefault(params.Limit)

	r.logger.Info("fetching recommendations", "kind", string(kind), "limit", params.Limit)

	feed := r.feeds.FetchRecommendations(ctx, kind, params)
	if feed.Status == feeds.StatusFailed {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, feed.Err)
	}

	title := feed.Key
	if feed.Algorithm != "" {
		title = fmt.Sprintf("%s (%s)", feed.Key, feed.Algorithm)
	}
	return r.renderTracks(title, cmd.String("format"), feed.Items)
}

// RecsHybrid fetches the blended recommendation feed.
func (r *Runner) RecsHybrid(ctx context.Context, cmd *cli.Command) error {
	return r.recommendations(ctx, cmd, feeds.KindHybrid, feeds.RecommendationParams{Limit: cmd.Int("limit")})
}

// RecsForYou fetches the personalized feed.
func (r *Runner) RecsForYou(ctx context.Context, cmd *cli.Command) error {
	return r.recommendations(ctx, cmd, feeds.KindForYou, feeds.RecommendationParams{Limit: cmd.Int("limit")})
}

// RecsPopular fetches the popularity feed.
func (r *Runner) RecsPopular(ctx context.Context, cmd *cli.Command) error {
	return r.recommendations(ctx, cmd, feeds.KindPopular, feeds.RecommendationParams{Limit: cmd.Int("limit")})
}

// RecsSimilar fetches tracks similar to the given track.
func (r *Runner) RecsSimilar(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}
	return r.recommendations(ctx, cmd, feeds.KindSimilar, feeds.RecommendationParams{
		Limit:   cmd.Int("limit"),
		TrackID: trackID,
	})
}

// RecsGenre fetches recommendations within one genre.
func (r *Runner) RecsGenre(ctx context.Context, cmd *cli.Command) error {
	genre := cmd.StringArg("genre")
	if genre == "" {
		return fmt.Errorf("%w: genre", shared.ErrMissingArgument)
	}
	return r.recommendations(ctx, cmd, feeds.KindGenre, feeds.RecommendationParams{
		Limit: cmd.Int("limit"),
		Genre: genre,
	})
}
