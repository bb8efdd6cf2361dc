package main

import (
	"context"
	"fmt"

	"github.com/desertmoss/mrx/internal/formatter"
	"github.com/desertmoss/mrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// History shows the listening history, most recent first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := r.limitOrDefault(cmd.Int("limit"))

	r.logger.Info("fetching history", "limit", limit)

	entries, err := r.api.History(ctx, limit)
	if err != nil {
		return err
	}

	switch format := cmd.String("format"); format {
	case "json":
		return r.writeJSON(entries, true)
	case "csv":
		data, err := formatter.HistoryToCSV(entries)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case "text", "":
		return r.writeBytes(formatter.HistoryToText(entries))
	default:
		return fmt.Errorf("%w: unsupported history format %q", shared.ErrInvalidFlag, format)
	}
}
