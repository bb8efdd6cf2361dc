package main

import (
	"context"

	"github.com/desertmoss/mrx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Warm pre-fetches the catalog and recommendation feeds to populate the
// local track cache.
func (r *Runner) Warm(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.WarmOpts{
		Limit:     r.limitOrDefault(cmd.Int("limit")),
		Genres:    cmd.StringSlice("genre"),
		RateLimit: cmd.Float("rate"),
		SkipRecs:  cmd.Bool("skip-recs"),
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.Warm(ctx, progress, opts)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("Warmed %d/%d feeds, cached %d tracks",
		result.WarmedFeeds, result.TotalFeeds, result.CachedTracks)
	r.writePlain("Sweep id: %s\n", result.SweepID)

	if result.FailedFeeds > 0 {
		r.writePlain("%d feeds failed:\n", result.FailedFeeds)
		for _, fr := range result.Results {
			if !fr.Success {
				r.writePlain("  %s: %v\n", fr.Feed, fr.Error)
			}
		}
	}

	return nil
}
