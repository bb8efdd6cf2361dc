package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// TokenRepository stores named credentials in the credentials table. It
// implements session.TokenSlot when bound to a name via [ForName].
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new TokenRepository with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Get retrieves the credential stored under name. Returns an empty string and
// no error when the name has never been stored.
func (r *TokenRepository) Get(name string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM credentials WHERE name = ?", name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential %q: %w", name, err)
	}
	return value, nil
}

// Set upserts the credential stored under name.
func (r *TokenRepository) Set(name, value string) error {
	query := `
		INSERT INTO credentials (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, name, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store credential %q: %w", name, err)
	}
	return nil
}

// Delete removes the credential stored under name. Deleting a name that was
// never stored is not an error.
func (r *TokenRepository) Delete(name string) error {
	_, err := r.db.Exec("DELETE FROM credentials WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to clear credential %q: %w", name, err)
	}
	return nil
}

// ForName binds the repository to a single credential name, yielding the
// load/store/clear surface the session expects.
func (r *TokenRepository) ForName(name string) *NamedSlot {
	return &NamedSlot{repo: r, name: name}
}

// NamedSlot is a TokenRepository scoped to one credential name.
type NamedSlot struct {
	repo *TokenRepository
	name string
}

func (s *NamedSlot) Load() (string, error)    { return s.repo.Get(s.name) }
func (s *NamedSlot) Store(token string) error { return s.repo.Set(s.name, token) }
func (s *NamedSlot) Clear() error             { return s.repo.Delete(s.name) }
