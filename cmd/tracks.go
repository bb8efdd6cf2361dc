package main

import (
	"context"
	"fmt"

	"github.com/desertmoss/mrx/internal/feeds"
	"github.com/desertmoss/mrx/internal/formatter"
	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// renderTracks writes a track listing in the requested format.
func (r *Runner) renderTracks(title, format string, tracks []models.Track) error {
	switch format {
	case "json":
		return r.writeJSON(tracks, true)
	case "csv":
		data, err := formatter.TracksToCSV(tracks)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case "markdown", "md":
		feed := feeds.Feed{Key: title, Status: feeds.StatusReady, Items: tracks}
		return r.writeBytes(formatter.FeedToMarkdown(feed))
	case "text", "":
		return r.writeBytes(formatter.TracksToText(title, tracks))
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// TracksList lists catalog tracks, optionally restricted to a genre.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	genre := cmd.String("genre")
	if genre == "" {
		genre = r.config.Defaults.Genre
	}
	limit := r.limitOrDefault(cmd.Int("limit"))
	offset := cmd.Int("offset")

	r.logger.Info("listing tracks", "genre", genre, "limit", limit, "offset", offset)

	page, err := r.api.Tracks(ctx, genre, limit, offset)
	if err != nil {
		return err
	}

	title := "Catalog"
	if genre != "" {
		title = fmt.Sprintf("Catalog (%s)", genre)
	}
	if err := r.renderTracks(title, cmd.String("format"), page.Tracks); err != nil {
		return err
	}
	if page.Total > len(page.Tracks) {
		r.writePlain("Showing %d of %d tracks\n", len(page.Tracks), page.Total)
	}
	return nil
}

// TracksSearch runs a free-text search over titles, artists, and albums.
func (r *Runner) TracksSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	r.logger.Info("searching tracks", "query", query)

	tracks, err := r.api.Search(ctx, query)
	if err != nil {
		return err
	}

	if limit := cmd.Int("limit"); limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}

	return r.renderTracks(fmt.Sprintf("Search: %s", query), cmd.String("format"), tracks)
}

// TrackShow prints one track with its audio features.
func (r *Runner) TrackShow(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	track, err := r.api.Track(ctx, trackID)
	if err != nil {
		return err
	}

	r.writePlain("%s - %s\n", track.Artist, track.Title)
	if track.Album != "" {
		r.writePlain("Album: %s\n", track.Album)
	}
	if track.Genre != "" {
		r.writePlain("Genre: %s\n", track.Genre)
	}
	if track.Year > 0 {
		r.writePlain("Year: %d\n", track.Year)
	}
	r.writePlain("Duration: %s\n", shared.FormatDuration(track.Duration))
	r.writePlain("Tempo: %.0f bpm\n", track.Tempo)
	r.writePlain("Energy: %s  Danceability: %s  Valence: %s\n",
		shared.FormatScore(track.Energy),
		shared.FormatScore(track.Danceability),
		shared.FormatScore(track.Valence),
	)
	return nil
}

// TracksGenres lists the available genres.
func (r *Runner) TracksGenres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.api.Genres(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Genres: %d\n\n", len(genres))
	for _, genre := range genres {
		r.writePlain("  %s\n", genre)
	}
	return nil
}
