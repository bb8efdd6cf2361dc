package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/repositories"
	"github.com/desertmoss/mrx/internal/shared"
	tu "github.com/desertmoss/mrx/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestRunner(t *testing.T, handler http.Handler) (*Runner, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config := shared.DefaultConfig()
	config.API.BaseURL = srv.URL

	out := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{
		Config:     config,
		HTTPClient: srv.Client(),
		Logger:     shared.NewLogger(io.Discard),
		Output:     out,
	})
	return r, out
}

func runCLI(r *Runner, args ...string) error {
	app := &cli.Command{Name: "mrx", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"mrx"}, args...))
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestNewRunner(t *testing.T) {
	t.Run("fills in defaults", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})

		if r.config == nil {
			t.Fatal("Expected default config")
		}
		if r.api == nil || r.session == nil || r.auth == nil || r.feeds == nil || r.engine == nil {
			t.Error("Expected all collaborators to be initialized")
		}
		if r.output != os.Stdout {
			t.Error("Expected output to default to stdout")
		}
	})

	t.Run("keeps provided options", func(t *testing.T) {
		out := &bytes.Buffer{}
		config := shared.DefaultConfig()
		config.Defaults.Limit = 7

		r := NewRunner(RunnerOpts{Config: config, Output: out})

		if r.output != out {
			t.Error("Expected provided output writer to be kept")
		}
		if r.config.Defaults.Limit != 7 {
			t.Errorf("Expected configured limit 7, got %d", r.config.Defaults.Limit)
		}
	})
}

func TestLimitOrDefault(t *testing.T) {
	r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})

	t.Run("flag wins", func(t *testing.T) {
		if got := r.limitOrDefault(5); got != 5 {
			t.Errorf("Expected 5, got %d", got)
		}
	})

	t.Run("falls back to configured default", func(t *testing.T) {
		r.config.Defaults.Limit = 33
		if got := r.limitOrDefault(0); got != 33 {
			t.Errorf("Expected 33, got %d", got)
		}
	})

	t.Run("hard fallback when config is zero", func(t *testing.T) {
		r.config.Defaults.Limit = 0
		if got := r.limitOrDefault(0); got != 20 {
			t.Errorf("Expected 20, got %d", got)
		}
	})
}

func TestWriteHelpers(t *testing.T) {
	t.Run("writeJSON compact", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := &Runner{output: out}

		if err := r.writeJSON(map[string]int{"a": 1}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := out.String(); got != "{\"a\":1}\n" {
			t.Errorf("Unexpected output: %q", got)
		}
	})

	t.Run("writeJSON reports writer errors", func(t *testing.T) {
		r := &Runner{output: &tu.FWriter{}}
		if err := r.writeJSON("x", false); err == nil {
			t.Error("Expected error from failing writer")
		}
	})

	t.Run("writeBytes appends missing newline", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := &Runner{output: out}

		if err := r.writeBytes([]byte("abc")); err != nil {
			t.Fatalf("writeBytes failed: %v", err)
		}
		if err := r.writeBytes([]byte("def\n")); err != nil {
			t.Fatalf("writeBytes failed: %v", err)
		}
		if got := out.String(); got != "abc\ndef\n" {
			t.Errorf("Unexpected output: %q", got)
		}
	})
}

func TestTracksCommands(t *testing.T) {
	mux := http.NewServeMux()
	var listQuery string
	mux.HandleFunc("/music/tracks", func(w http.ResponseWriter, req *http.Request) {
		listQuery = req.URL.RawQuery
		jsonHandler(http.StatusOK, `{"tracks":[
			{"track_id":"t1","title":"Sea of Glass","artist":"Lumen","genre":"Ambient","duration":320},
			{"track_id":"t2","title":"Night Drive","artist":"Kova","genre":"Synthwave","duration":244}
		],"total":5,"limit":2,"offset":0}`)(w, req)
	})
	mux.HandleFunc("/music/search", jsonHandler(http.StatusOK,
		`[{"track_id":"t3","title":"Glass Houses","artist":"Kova"}]`))
	mux.HandleFunc("/music/genres", jsonHandler(http.StatusOK, `{"genres":["Ambient","Jazz"]}`))

	t.Run("list renders text and pagination hint", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "tracks", "list", "--genre", "Ambient", "--limit", "2"); err != nil {
			t.Fatalf("tracks list failed: %v", err)
		}
		if !strings.Contains(out.String(), "Sea of Glass") {
			t.Errorf("Expected track title in output, got %q", out.String())
		}
		if !strings.Contains(out.String(), "Showing 2 of 5 tracks") {
			t.Errorf("Expected pagination hint, got %q", out.String())
		}
		if !strings.Contains(listQuery, "genre=Ambient") || !strings.Contains(listQuery, "limit=2") {
			t.Errorf("Expected genre and limit in query, got %q", listQuery)
		}
	})

	t.Run("search emits json format", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "tracks", "search", "--format", "json", "glass"); err != nil {
			t.Fatalf("tracks search failed: %v", err)
		}

		var tracks []models.Track
		if err := json.Unmarshal(out.Bytes(), &tracks); err != nil {
			t.Fatalf("Expected JSON output, got %q: %v", out.String(), err)
		}
		if len(tracks) != 1 || tracks[0].TrackID != "t3" {
			t.Errorf("Unexpected tracks: %+v", tracks)
		}
	})

	t.Run("search requires a query", func(t *testing.T) {
		r, _ := newTestRunner(t, mux)

		err := runCLI(r, "tracks", "search")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("Expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("genres lists names", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "tracks", "genres"); err != nil {
			t.Fatalf("tracks genres failed: %v", err)
		}
		if !strings.Contains(out.String(), "Ambient") || !strings.Contains(out.String(), "Jazz") {
			t.Errorf("Expected genre names, got %q", out.String())
		}
	})
}

func TestAuthCommands(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/signup", jsonHandler(http.StatusOK,
		`{"access_token":"tok-1","token_type":"bearer"}`))
	mux.HandleFunc("/auth/login", jsonHandler(http.StatusUnauthorized,
		`{"detail":"Incorrect email or password"}`))
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer tok-1" {
			jsonHandler(http.StatusUnauthorized, `{"detail":"Not authenticated"}`)(w, req)
			return
		}
		jsonHandler(http.StatusOK, `{"id":"u1","username":"ana","email":"ana@example.com"}`)(w, req)
	})
	mux.HandleFunc("/health", jsonHandler(http.StatusOK, `{"status":"healthy"}`))

	t.Run("signup starts a session", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "auth", "signup",
			"--email", "ana@example.com", "--username", "ana", "--password", "pw"); err != nil {
			t.Fatalf("auth signup failed: %v", err)
		}
		if !strings.Contains(out.String(), "Account created") {
			t.Errorf("Expected confirmation, got %q", out.String())
		}
		if !r.session.IsAuthenticated() {
			t.Error("Expected authenticated session after signup")
		}

		out.Reset()
		if err := runCLI(r, "auth", "whoami"); err != nil {
			t.Fatalf("auth whoami failed: %v", err)
		}
		if !strings.Contains(out.String(), "Username: ana") {
			t.Errorf("Expected username in output, got %q", out.String())
		}
	})

	t.Run("login failure surfaces the backend detail", func(t *testing.T) {
		r, _ := newTestRunner(t, mux)

		err := runCLI(r, "auth", "login", "--email", "ana@example.com", "--password", "wrong")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("Expected ErrAuthFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "Incorrect email or password") {
			t.Errorf("Expected backend detail in error, got %v", err)
		}
	})

	t.Run("whoami requires a session", func(t *testing.T) {
		r, _ := newTestRunner(t, mux)

		err := runCLI(r, "auth", "whoami")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("Expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("whoami reports a profile fetch failure cleanly", func(t *testing.T) {
		failing := http.NewServeMux()
		failing.HandleFunc("/auth/signup", jsonHandler(http.StatusOK,
			`{"access_token":"tok-1","token_type":"bearer"}`))
		failing.HandleFunc("/auth/me", jsonHandler(http.StatusInternalServerError,
			`{"detail":"profile store down"}`))
		r, _ := newTestRunner(t, failing)

		if err := runCLI(r, "auth", "signup",
			"--email", "ana@example.com", "--username", "ana", "--password", "pw"); err != nil {
			t.Fatalf("auth signup failed: %v", err)
		}

		err := runCLI(r, "auth", "whoami")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("Expected ErrAPIRequest, got %v", err)
		}
		if !strings.HasSuffix(err.Error(), "could not fetch profile") {
			t.Errorf("Expected a self-contained message, got %q", err.Error())
		}
	})

	t.Run("status reports health and session state", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "auth", "status"); err != nil {
			t.Fatalf("auth status failed: %v", err)
		}
		if !strings.Contains(out.String(), "Status: healthy") {
			t.Errorf("Expected health status, got %q", out.String())
		}
		if !strings.Contains(out.String(), "Not authenticated") {
			t.Errorf("Expected unauthenticated session line, got %q", out.String())
		}
	})

	t.Run("logout clears the session", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "auth", "signup",
			"--email", "ana@example.com", "--username", "ana", "--password", "pw"); err != nil {
			t.Fatalf("auth signup failed: %v", err)
		}

		out.Reset()
		if err := runCLI(r, "auth", "logout"); err != nil {
			t.Fatalf("auth logout failed: %v", err)
		}
		if !strings.Contains(out.String(), "Logged out") {
			t.Errorf("Expected logout confirmation, got %q", out.String())
		}
		if r.session.IsAuthenticated() {
			t.Error("Expected session to be cleared")
		}
	})
}

func TestRecsCommands(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recommendations/hybrid", jsonHandler(http.StatusOK,
		`{"recommendations":[{"track_id":"t1","title":"Sea of Glass","artist":"Lumen","hybrid_score":0.92}],"algorithm":"hybrid_cf_content"}`))
	mux.HandleFunc("/recommendations/similar/t1", jsonHandler(http.StatusOK,
		`{"recommendations":[{"track_id":"t2","title":"Tidal","artist":"Lumen","similarity_score":0.8}],"algorithm":"content_similarity"}`))

	t.Run("hybrid shows the algorithm in the title", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "recs", "hybrid"); err != nil {
			t.Fatalf("recs hybrid failed: %v", err)
		}
		if !strings.Contains(out.String(), "hybrid_cf_content") {
			t.Errorf("Expected algorithm name, got %q", out.String())
		}
		if !strings.Contains(out.String(), "Sea of Glass") {
			t.Errorf("Expected track title, got %q", out.String())
		}
	})

	t.Run("similar requires a track id", func(t *testing.T) {
		r, _ := newTestRunner(t, mux)

		err := runCLI(r, "recs", "similar")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("Expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("similar fetches by id", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "recs", "similar", "t1"); err != nil {
			t.Fatalf("recs similar failed: %v", err)
		}
		if !strings.Contains(out.String(), "Tidal") {
			t.Errorf("Expected similar track, got %q", out.String())
		}
	})

	t.Run("backend failure is surfaced", func(t *testing.T) {
		r, _ := newTestRunner(t, http.NewServeMux()) // 404 on every path

		err := runCLI(r, "recs", "popular")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestHistoryCommand(t *testing.T) {
	mux := http.NewServeMux()
	var query string
	mux.HandleFunc("/music/history", func(w http.ResponseWriter, req *http.Request) {
		query = req.URL.RawQuery
		jsonHandler(http.StatusOK, `{"history":[
			{"track_id":"t1","played_at":"2026-08-30T10:00:00Z","duration_played":180,"completed":true}
		]}`)(w, req)
	})

	t.Run("csv output with forwarded limit", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "history", "--limit", "25", "--format", "csv"); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(query, "limit=25") {
			t.Errorf("Expected limit in query, got %q", query)
		}
		if !strings.Contains(out.String(), "TrackID,PlayedAt,DurationPlayed,Completed") {
			t.Errorf("Expected CSV header, got %q", out.String())
		}
		if !strings.Contains(out.String(), "t1,2026-08-30T10:00:00Z") {
			t.Errorf("Expected history row, got %q", out.String())
		}
	})

	t.Run("rejects unsupported format", func(t *testing.T) {
		r, _ := newTestRunner(t, mux)

		err := runCLI(r, "history", "--format", "markdown")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("Expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestAnalyticsCommands(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/analytics/me", jsonHandler(http.StatusOK, `{"total_plays":42}`))
	mux.HandleFunc("/analytics/system", jsonHandler(http.StatusOK, `{"users":3}`))

	t.Run("me passes the payload through", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "analytics", "me"); err != nil {
			t.Fatalf("analytics me failed: %v", err)
		}
		if !strings.Contains(out.String(), `"total_plays": 42`) {
			t.Errorf("Expected pretty-printed payload, got %q", out.String())
		}
	})

	t.Run("system uses its own endpoint", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "analytics", "system"); err != nil {
			t.Fatalf("analytics system failed: %v", err)
		}
		if !strings.Contains(out.String(), "users") {
			t.Errorf("Expected system payload, got %q", out.String())
		}
	})
}

func TestAPICommands(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", jsonHandler(http.StatusOK, `{"status":"healthy"}`))
	mux.HandleFunc("/missing", jsonHandler(http.StatusNotFound, `{"detail":"Not found"}`))
	mux.HandleFunc("/music/play", jsonHandler(http.StatusOK, `{"status":"play logged"}`))

	t.Run("get prints the body", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "api", "get", "/health"); err != nil {
			t.Fatalf("api get failed: %v", err)
		}
		if !strings.Contains(out.String(), "healthy") {
			t.Errorf("Expected body in output, got %q", out.String())
		}
	})

	t.Run("get surfaces non-2xx after printing", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		err := runCLI(r, "api", "get", "/missing")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("Expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(out.String(), "Not found") {
			t.Errorf("Expected error body to be printed, got %q", out.String())
		}
	})

	t.Run("get requires a path", func(t *testing.T) {
		r, _ := newTestRunner(t, mux)

		err := runCLI(r, "api", "get")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("Expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("post rejects invalid json", func(t *testing.T) {
		r, _ := newTestRunner(t, mux)

		err := runCLI(r, "api", "post", "--data", "{not json", "/music/play")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("Expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("post sends the body", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "api", "post", "--data", `{"track_id":"t1"}`, "/music/play"); err != nil {
			t.Fatalf("api post failed: %v", err)
		}
		if !strings.Contains(out.String(), "play logged") {
			t.Errorf("Expected response body, got %q", out.String())
		}
	})
}

func TestCacheCommands(t *testing.T) {
	newCachedRunner := func(t *testing.T) (*Runner, *bytes.Buffer) {
		t.Helper()

		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("Failed to run migrations: %v", err)
		}

		tracks := repositories.NewTrackRepository(db)
		for _, track := range []models.Track{
			{TrackID: "t1", Title: "Sea of Glass", Artist: "Lumen", Genre: "Ambient"},
			{TrackID: "t2", Title: "Night Drive", Artist: "Kova", Genre: "Synthwave"},
		} {
			if err := tracks.Upsert(track); err != nil {
				t.Fatalf("Failed to seed track: %v", err)
			}
		}

		out := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{
			Tracks: tracks,
			Logger: shared.NewLogger(io.Discard),
			Output: out,
		})
		return r, out
	}

	t.Run("show lists cached tracks", func(t *testing.T) {
		r, out := newCachedRunner(t)

		if err := runCLI(r, "cache", "show"); err != nil {
			t.Fatalf("cache show failed: %v", err)
		}
		if !strings.Contains(out.String(), "Sea of Glass") {
			t.Errorf("Expected cached track, got %q", out.String())
		}
		if !strings.Contains(out.String(), "Cached tracks (2 of 2)") {
			t.Errorf("Expected count in title, got %q", out.String())
		}
	})

	t.Run("show filters by genre", func(t *testing.T) {
		r, out := newCachedRunner(t)

		if err := runCLI(r, "cache", "show", "--genre", "Ambient"); err != nil {
			t.Fatalf("cache show failed: %v", err)
		}
		if strings.Contains(out.String(), "Night Drive") {
			t.Errorf("Expected only Ambient tracks, got %q", out.String())
		}
	})

	t.Run("clear empties the cache", func(t *testing.T) {
		r, out := newCachedRunner(t)

		if err := runCLI(r, "cache", "clear"); err != nil {
			t.Fatalf("cache clear failed: %v", err)
		}
		if !strings.Contains(out.String(), "Removed 2 cached tracks") {
			t.Errorf("Expected removal count, got %q", out.String())
		}
	})

	t.Run("show fails without a database", func(t *testing.T) {
		r, _ := newTestRunner(t, http.NewServeMux())

		err := runCLI(r, "cache", "show")
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("Expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestWarmCommand(t *testing.T) {
	mux := http.NewServeMux()
	trackBody := `{"tracks":[{"track_id":"t1","title":"Sea of Glass","artist":"Lumen"}],"total":1}`
	recBody := `{"recommendations":[{"track_id":"t2","title":"Night Drive","artist":"Kova"}],"algorithm":"x"}`
	mux.HandleFunc("/music/tracks", jsonHandler(http.StatusOK, trackBody))
	mux.HandleFunc("/music/genres", jsonHandler(http.StatusOK, `{"genres":["Ambient"]}`))
	mux.HandleFunc("/recommendations/", jsonHandler(http.StatusOK, recBody))

	t.Run("reports the warmed feeds", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "warm", "--rate", "1000"); err != nil {
			t.Fatalf("warm failed: %v", err)
		}
		if !strings.Contains(out.String(), "Warmed 5/5 feeds") {
			t.Errorf("Expected warm summary, got %q", out.String())
		}
		if !strings.Contains(out.String(), "Sweep id: ") {
			t.Errorf("Expected sweep id line, got %q", out.String())
		}
	})

	t.Run("skip-recs warms catalog and genres only", func(t *testing.T) {
		r, out := newTestRunner(t, mux)

		if err := runCLI(r, "warm", "--rate", "1000", "--skip-recs"); err != nil {
			t.Fatalf("warm failed: %v", err)
		}
		if !strings.Contains(out.String(), "Warmed 2/2 feeds") {
			t.Errorf("Expected two feeds, got %q", out.String())
		}
	})
}

func TestSetupCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	t.Setenv("MRX_DB_PATH", filepath.Join(dir, "mrx.db"))

	r, out := newTestRunner(t, http.NewServeMux())

	if err := runCLI(r, "setup", "--config", configPath); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tu.AssertFileExists(t, configPath)
	tu.AssertFileExists(t, filepath.Join(dir, "mrx.db"))
	if !strings.Contains(out.String(), "Database ready") {
		t.Errorf("Expected setup confirmation, got %q", out.String())
	}

	t.Run("idempotent on existing config", func(t *testing.T) {
		out.Reset()
		if err := runCLI(r, "setup", "--config", configPath); err != nil {
			t.Fatalf("second setup failed: %v", err)
		}
		if !strings.Contains(out.String(), "already exists") {
			t.Errorf("Expected existing-config notice, got %q", out.String())
		}
	})
}
