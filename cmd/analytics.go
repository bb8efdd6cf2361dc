package main

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"
)

// AnalyticsMe prints the listening statistics for the authenticated user.
func (r *Runner) AnalyticsMe(ctx context.Context, cmd *cli.Command) error {
	return r.analytics(ctx, cmd, r.api.AnalyticsMe)
}

// AnalyticsSystem prints service-wide usage statistics.
func (r *Runner) AnalyticsSystem(ctx context.Context, cmd *cli.Command) error {
	return r.analytics(ctx, cmd, r.api.AnalyticsSystem)
}

// AnalyticsAlgorithms prints per-algorithm performance statistics.
func (r *Runner) AnalyticsAlgorithms(ctx context.Context, cmd *cli.Command) error {
	return r.analytics(ctx, cmd, r.api.AnalyticsAlgorithms)
}

// analytics fetches an opaque analytics document and prints it as JSON. The
// payload shape is owned by the service, so it is passed through untouched.
func (r *Runner) analytics(ctx context.Context, cmd *cli.Command, fetch func(context.Context) (json.RawMessage, error)) error {
	report, err := fetch(ctx)
	if err != nil {
		return err
	}

	return r.writeJSON(report, cmd.Bool("pretty"))
}
