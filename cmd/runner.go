package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertmoss/mrx/internal/feeds"
	"github.com/desertmoss/mrx/internal/gateway"
	"github.com/desertmoss/mrx/internal/repositories"
	"github.com/desertmoss/mrx/internal/session"
	"github.com/desertmoss/mrx/internal/shared"
	"github.com/desertmoss/mrx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	api        *gateway.Client
	session    *session.Session
	auth       *session.Store
	feeds      *feeds.Store
	engine     *tasks.FeedEngine
	tracks     *repositories.TrackRepository
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB
	API        *gateway.Client
	Session    *session.Session
	Feeds      *feeds.Store
	Tracks     *repositories.TrackRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Session == nil {
		opts.Session = session.Restore(nil, opts.Logger)
	}
	if opts.API == nil {
		opts.API = gateway.New(opts.Config.API.BaseURL, opts.HTTPClient, opts.Session,
			shared.WithLogger(opts.Logger, "component", "gateway"))
	}
	if opts.Feeds == nil {
		opts.Feeds = feeds.NewStore(opts.API, shared.WithLogger(opts.Logger, "component", "feeds"))
	}

	var cacher tasks.TrackCacher
	if opts.Tracks != nil {
		cacher = repositories.NewTrackCacheAdapter(opts.Tracks)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		api:        opts.API,
		session:    opts.Session,
		auth:       session.NewStore(opts.Session, opts.API, opts.Logger),
		feeds:      opts.Feeds,
		engine:     tasks.NewFeedEngine(opts.API, cacher),
		tracks:     opts.Tracks,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, tracksCommand, recsCommand, logCommand,
		historyCommand, analyticsCommand, warmCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeBytes dumps preformatted output followed by a newline.
func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := r.output.Write([]byte("\n")); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}
	return nil
}

// limitOrDefault resolves a listing limit: the flag when set, otherwise the
// configured default.
func (r *Runner) limitOrDefault(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if r.config.Defaults.Limit > 0 {
		return r.config.Defaults.Limit
	}
	return 20
}
