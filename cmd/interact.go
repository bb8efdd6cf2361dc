package main

import (
	"context"
	"fmt"

	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// LogPlay records a play for the recommender.
func (r *Runner) LogPlay(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	event := models.PlayEvent{
		TrackID:        trackID,
		DurationPlayed: cmd.Float("duration"),
		Completed:      cmd.Bool("completed"),
	}

	if err := r.api.LogPlay(ctx, event); err != nil {
		return err
	}
	return r.writePlain("✓ Play recorded for %s\n", trackID)
}

// LogLike records a like for the recommender.
func (r *Runner) LogLike(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	if err := r.api.LogLike(ctx, models.LikeEvent{TrackID: trackID}); err != nil {
		return err
	}
	return r.writePlain("✓ Like recorded for %s\n", trackID)
}

// LogSkip records a skip for the recommender.
func (r *Runner) LogSkip(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	event := models.SkipEvent{
		TrackID:  trackID,
		Position: cmd.Float("position"),
	}

	if err := r.api.LogSkip(ctx, event); err != nil {
		return err
	}
	return r.writePlain("✓ Skip recorded for %s\n", trackID)
}
