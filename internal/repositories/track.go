package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
)

// TrackRepository caches tracks seen in feed responses.
//
// Rows are keyed by the backend's track id; re-seeing a track refreshes its
// row. The cache powers offline listing and is purged wholesale, never
// row-by-row.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Upsert inserts or refreshes a cached track.
func (r *TrackRepository) Upsert(track models.Track) error {
	if track.TrackID == "" {
		return fmt.Errorf("%w: cannot cache track without id", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO tracks (track_id, title, artist, album, genre, year, duration, tempo, energy, danceability, valence, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			genre = excluded.genre,
			year = excluded.year,
			duration = excluded.duration,
			tempo = excluded.tempo,
			energy = excluded.energy,
			danceability = excluded.danceability,
			valence = excluded.valence,
			cached_at = excluded.cached_at
	`

	_, err := r.db.Exec(query,
		track.TrackID,
		track.Title,
		track.Artist,
		track.Album,
		track.Genre,
		track.Year,
		track.Duration,
		track.Tempo,
		track.Energy,
		track.Danceability,
		track.Valence,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache track %s: %w", track.TrackID, err)
	}

	return nil
}

// Get retrieves a cached track by id.
func (r *TrackRepository) Get(trackID string) (*models.Track, error) {
	query := `
		SELECT track_id, title, artist, album, genre, year, duration, tempo, energy, danceability, valence
		FROM tracks
		WHERE track_id = ?
	`

	track, err := scanTrack(r.db.QueryRow(query, trackID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s not cached", shared.ErrTrackNotFound, trackID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached track %s: %w", trackID, err)
	}
	return track, nil
}

// List returns cached tracks ordered by artist then title, optionally
// restricted to a genre. A non-positive limit means no limit.
func (r *TrackRepository) List(genre string, limit int) ([]models.Track, error) {
	query := `
		SELECT track_id, title, artist, album, genre, year, duration, tempo, energy, danceability, valence
		FROM tracks
	`
	args := []any{}

	if genre != "" {
		query += " WHERE genre = ?"
		args = append(args, genre)
	}
	query += " ORDER BY artist, title"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached track: %w", err)
		}
		tracks = append(tracks, *track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached tracks: %w", err)
	}

	return tracks, nil
}

// Count returns the number of cached tracks.
func (r *TrackRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tracks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached tracks: %w", err)
	}
	return count, nil
}

// Clear empties the cache and returns how many rows were removed.
func (r *TrackRepository) Clear() (int, error) {
	result, err := r.db.Exec("DELETE FROM tracks")
	if err != nil {
		return 0, fmt.Errorf("failed to clear track cache: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared tracks: %w", err)
	}
	return int(removed), nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrack(row scanner) (*models.Track, error) {
	var track models.Track
	var album, genre sql.NullString
	var year sql.NullInt64
	var duration, tempo, energy, danceability, valence sql.NullFloat64

	err := row.Scan(
		&track.TrackID,
		&track.Title,
		&track.Artist,
		&album,
		&genre,
		&year,
		&duration,
		&tempo,
		&energy,
		&danceability,
		&valence,
	)
	if err != nil {
		return nil, err
	}

	track.Album = album.String
	track.Genre = genre.String
	track.Year = int(year.Int64)
	track.Duration = duration.Float64
	track.Tempo = tempo.Float64
	track.Energy = energy.Float64
	track.Danceability = danceability.Float64
	track.Valence = valence.Float64

	return &track, nil
}
