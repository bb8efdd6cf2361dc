// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// formatFlag selects the output rendering for listings.
func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, json, csv, markdown",
		Value:   "text",
	}
}

func limitFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum number of results (0 uses the configured default)",
	}
}

// setupCommand initializes configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database, and migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand manages the account session.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Create an account and start a session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "username", Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Account password", Required: true},
				},
				Action: r.AuthSignup,
			},
			{
				Name:  "login",
				Usage: "Log in and persist the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Account password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the session and clear the stored token",
				Action: r.AuthLogout,
			},
			{
				Name:    "whoami",
				Usage:   "Show the current user",
				Aliases: []string{"me"},
				Action:  r.AuthWhoAmI,
			},
			{
				Name:   "status",
				Usage:  "Check backend health and session state",
				Action: r.AuthStatus,
			},
		},
	}
}

// tracksCommand browses the track catalog.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"t"},
		Usage:   "Browse the track catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Restrict to one genre",
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Pagination offset",
					},
					limitFlag(),
					formatFlag(),
				},
				Action: r.TracksList,
			},
			{
				Name:  "search",
				Usage: "Free-text search over titles, artists, and albums",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{limitFlag(), formatFlag()},
				Action: r.TracksSearch,
			},
			{
				Name:  "show",
				Usage: "Show one track with its audio features",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TrackShow,
			},
			{
				Name:   "genres",
				Usage:  "List available genres",
				Action: r.TracksGenres,
			},
		},
	}
}

// recsCommand fetches recommendation feeds.
func recsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recs",
		Aliases: []string{"r"},
		Usage:   "Fetch recommendation feeds",
		Commands: []*cli.Command{
			{
				Name:   "hybrid",
				Usage:  "Blended collaborative and content-based picks",
				Flags:  []cli.Flag{limitFlag(), formatFlag()},
				Action: r.RecsHybrid,
			},
			{
				Name:   "for-you",
				Usage:  "Picks based on your listening",
				Flags:  []cli.Flag{limitFlag(), formatFlag()},
				Action: r.RecsForYou,
			},
			{
				Name:   "popular",
				Usage:  "What everyone is playing",
				Flags:  []cli.Flag{limitFlag(), formatFlag()},
				Action: r.RecsPopular,
			},
			{
				Name:  "similar",
				Usage: "Tracks similar to a given track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{limitFlag(), formatFlag()},
				Action: r.RecsSimilar,
			},
			{
				Name:  "genre",
				Usage: "Recommendations within one genre",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "genre"},
				},
				Flags:  []cli.Flag{limitFlag(), formatFlag()},
				Action: r.RecsGenre,
			},
		},
	}
}

// logCommand records listening interactions.
func logCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "Record a play, like, or skip",
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "Record a play",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:    "duration",
						Aliases: []string{"d"},
						Usage:   "Seconds of the track actually played",
					},
					&cli.BoolFlag{
						Name:  "completed",
						Usage: "The track played to the end",
					},
				},
				Action: r.LogPlay,
			},
			{
				Name:  "like",
				Usage: "Record a like",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.LogLike,
			},
			{
				Name:  "skip",
				Usage: "Record a skip",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:    "position",
						Aliases: []string{"p"},
						Usage:   "Seconds into the track when skipped",
					},
				},
				Action: r.LogSkip,
			},
		},
	}
}

// historyCommand shows the listening history.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "history",
		Usage:  "Show listening history, most recent first",
		Flags:  []cli.Flag{limitFlag(), formatFlag()},
		Action: r.History,
	}
}

// analyticsCommand fetches analytics views.
func analyticsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "analytics",
		Usage: "Fetch analytics from the backend",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "me",
				Usage:  "Your listening analytics",
				Action: r.AnalyticsMe,
			},
			{
				Name:   "system",
				Usage:  "System-wide analytics",
				Action: r.AnalyticsSystem,
			},
			{
				Name:   "algorithms",
				Usage:  "Per-algorithm performance analytics",
				Action: r.AnalyticsAlgorithms,
			},
		},
	}
}

// warmCommand prefetches feeds into the local cache.
func warmCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "warm",
		Usage: "Prefetch feeds and fill the local track cache",
		Flags: []cli.Flag{
			limitFlag(),
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Requests per second",
				Value: 5,
			},
			&cli.StringSliceFlag{
				Name:    "genre",
				Aliases: []string{"g"},
				Usage:   "Warm only these genres (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "skip-recs",
				Usage: "Skip the recommendation feeds",
			},
		},
		Action: r.Warm,
	}
}

// cacheCommand inspects the local track cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local track cache",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "List cached tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Restrict to one genre",
					},
					limitFlag(),
					formatFlag(),
				},
				Action: r.CacheShow,
			},
			{
				Name:   "clear",
				Usage:  "Empty the track cache",
				Action: r.CacheClear,
			},
		},
	}
}

// apiCommand handles direct backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "dump",
				Usage: "Snapshot health, genres, history, and analytics",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to mrx_dump.json",
					},
					limitFlag(),
				},
				Action: r.APIDump,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive feed browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive feed browser",
		Action:  r.TUI,
	}
}
