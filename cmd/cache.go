package main

import (
	"context"
	"fmt"

	"github.com/desertmoss/mrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheShow lists tracks from the local cache without touching the network.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	if r.tracks == nil {
		return fmt.Errorf("%w: local database unavailable, run 'mrx setup' first", shared.ErrMissingConfig)
	}

	genre := cmd.String("genre")
	limit := r.limitOrDefault(cmd.Int("limit"))

	cached, err := r.tracks.List(genre, limit)
	if err != nil {
		return err
	}

	total, err := r.tracks.Count()
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Cached tracks (%d of %d)", len(cached), total)
	return r.renderTracks(title, cmd.String("format"), cached)
}

// CacheClear removes every cached track.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.tracks == nil {
		return fmt.Errorf("%w: local database unavailable, run 'mrx setup' first", shared.ErrMissingConfig)
	}

	removed, err := r.tracks.Clear()
	if err != nil {
		return err
	}

	return r.writePlainln("✓ Removed %d cached tracks", removed)
}
