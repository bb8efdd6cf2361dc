package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertmoss/mrx/internal/gateway"
	"github.com/desertmoss/mrx/internal/shared"
	"github.com/urfave/cli/v3"
)

const dumpFileName = "mrx_dump.json"

// APIGet performs a raw GET against the backend and prints the response body.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required (e.g. /health)", shared.ErrMissingArgument)
	}

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return err
	}

	return r.renderRaw(resp, cmd.Bool("pretty"))
}

// APIPost performs a raw POST with a JSON body and prints the response body.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required (e.g. /music/play)", shared.ErrMissingArgument)
	}

	data := cmd.String("data")
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: --data must be valid JSON", shared.ErrInvalidFlag)
	}

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return err
	}

	return r.renderRaw(resp, true)
}

func (r *Runner) renderRaw(resp *gateway.RawResponse, pretty bool) error {
	var err error
	if resp.IsJSON && pretty {
		err = r.writeJSON(resp.JSONData, true)
	} else {
		err = r.writeBytes(resp.Body)
	}
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}

// APIDump snapshots the read-only backend endpoints in one sweep.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	historyLimit := r.limitOrDefault(cmd.Int("limit"))

	result, err := r.engine.Dump(ctx, nil, historyLimit)
	if err != nil {
		return err
	}

	data := result.Data()

	if cmd.Bool("save") {
		out, err := shared.MarshalJSON(data, cmd.Bool("pretty"))
		if err != nil {
			return fmt.Errorf("failed to encode dump: %w", err)
		}
		if err := os.WriteFile(dumpFileName, out, 0o644); err != nil {
			return fmt.Errorf("failed to save dump: %w", err)
		}
		return r.writePlainln("✓ Saved snapshot %s to %s", data.SnapshotID, dumpFileName)
	}

	if err := r.writeJSON(data, cmd.Bool("pretty")); err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		r.logger.Warn("some endpoints failed", "count", len(result.Errors))
	}
	return nil
}
