// internal/prefs/store.go
//
// Server-side preference storage for the browser client: music volume,
// mute flag, and color theme. Preferences are opaque to the game engine;
// the client reads them at startup and writes them on change. Keyed by
// owner ID (user or anonymous cookie), so guests keep their settings too.

package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Prefs is the set of persisted client preferences.
type Prefs struct {
	Volume int    `json:"volume"` // 0–100
	Muted  bool   `json:"muted"`
	Theme  string `json:"theme"` // "dark" | "light"
}

// Default returns the preferences for a player who never saved any.
func Default() Prefs {
	return Prefs{Volume: 40, Muted: false, Theme: "dark"}
}

// Validate rejects values outside the closed preference domain.
func (p Prefs) Validate() error {
	if p.Volume < 0 || p.Volume > 100 {
		return fmt.Errorf("volume must be 0–100, got %d", p.Volume)
	}
	if p.Theme != "dark" && p.Theme != "light" {
		return fmt.Errorf("unknown theme %q", p.Theme)
	}
	return nil
}

// Store persists preferences in SQLite.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Get returns the owner's preferences, or defaults if none were saved.
func (s *Store) Get(ctx context.Context, owner string) (Prefs, error) {
	p := Default()
	var muted int
	err := s.db.QueryRowContext(ctx,
		`SELECT volume, muted, theme FROM prefs WHERE owner_id=?`, owner,
	).Scan(&p.Volume, &muted, &p.Theme)
	if err == sql.ErrNoRows {
		return Default(), nil
	}
	if err != nil {
		return Default(), err
	}
	p.Muted = muted != 0
	return p, nil
}

// Put upserts the owner's preferences.
func (s *Store) Put(ctx context.Context, owner string, p Prefs) error {
	muted := 0
	if p.Muted {
		muted = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prefs (owner_id, volume, muted, theme, updated_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT(owner_id) DO UPDATE SET
			volume=excluded.volume, muted=excluded.muted,
			theme=excluded.theme, updated_at=excluded.updated_at`,
		owner, p.Volume, muted, p.Theme, now)
	return err
}

// Claim moves anonymous preferences to a user account after auth,
// unless the account already saved its own.
func (s *Store) Claim(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE OR IGNORE prefs SET owner_id=? WHERE owner_id=?`, userID, anonID)
	return err
}
