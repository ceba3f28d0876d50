package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily challenge run.
// Lost runs are recorded too (they enforce the once-per-day rule), so Won
// distinguishes them on the leaderboard.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Target    int    `json:"target"`
	Attempts  int    `json:"attempts"`
	Won       bool   `json:"won"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Store persists daily challenge results.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether the player has a recorded run for the date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a finished run. Respects UNIQUE(user_id, date);
// a second insert for the same day is silently ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, target, attempts, won, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`, r.UserID, r.Date, r.Target, r.Attempts, r.Won, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard entry: wins before losses, then fewest attempts,
// ties broken by time.
type LBRow struct {
	UserID    string `json:"userId"`
	Attempts  int    `json:"attempts"`
	Won       bool   `json:"won"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard returns the top runs for a date.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, attempts, won, elapsed_ms
		 FROM daily_results
		 WHERE date=?
		 ORDER BY won DESC, attempts ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LBRow
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Attempts, &r.Won, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
