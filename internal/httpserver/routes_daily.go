// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily run (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily target
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can play once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on finish.
// Deterministic target selection is based on date + salt, drawn from the
// hard level's range and attempt budget.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkay81/numquest/internal/daily"
	"github.com/mkay81/numquest/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	level    *game.Level
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily run.
type dailySession struct {
	GameID   string
	UserID   string
	Date     string
	Target   int
	Start    time.Time
	Attempts int
	Finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	lvl, _ := game.LevelByName(game.LevelHard)
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		level:    lvl,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// todayTarget returns today's date key and deterministic target.
func (d *dailyServer) todayTarget() (date string, target int) {
	now := time.Now().UTC()
	return daily.DateKey(now), daily.Target(now, d.salt, d.level.Min, d.level.Max)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID      string `json:"gameId"`
	Date        string `json:"date"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	MaxAttempts int    `json:"maxAttempts"`
	Played      bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.ownerID(w, r)
	date, target := d.todayTarget()

	res := dailyNewRes{Date: date, Min: d.level.Min, Max: d.level.Max, MaxAttempts: d.level.MaxAttempts}

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		res.Played = true
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	// Reuse or create session in memory.
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok {
		sess = &dailySession{
			GameID: genID(),
			UserID: uid,
			Date:   date,
			Target: target,
			Start:  time.Now(),
		}
		d.sessions[key] = sess
	}
	d.mu.Unlock()

	res.GameID = sess.GameID
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Guess  any    `json:"guess"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	State        string         `json:"state"` // in_progress | won | lost | locked
	Direction    game.Direction `json:"direction,omitempty"`
	Attempts     int            `json:"attempts"`
	AttemptsLeft int            `json:"attemptsLeft"`
	Target       int            `json:"target,omitempty"` // revealed on loss
}

// handleGuess validates and applies a guess for today's daily session.
// - Ensures valid GameID and a parseable in-range number.
// - Rejects if no session; reports "locked" once finished.
// - Persists the result to DB on win or loss.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.ownerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	guess, ok := game.ParseGuess(rawGuess(p.Guess))
	if p.GameID == "" || !ok {
		http.Error(w, `{"error":"invalid"}`, http.StatusBadRequest)
		return
	}
	if guess < d.level.Min || guess > d.level.Max {
		http.Error(w, `{"error":"out_of_range"}`, http.StatusBadRequest)
		return
	}

	date, _ := d.todayTarget()

	// Find and update the session under one lock: the finished check and
	// the attempt increment must be atomic, or two concurrent guesses
	// could both pass the gate and overspend the budget.
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.GameID != p.GameID {
		d.mu.Unlock()
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}
	if sess.Finished {
		attempts := sess.Attempts
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyGuessRes{State: "locked", Attempts: attempts})
		return
	}
	sess.Attempts++
	attempts := sess.Attempts
	target := sess.Target
	start := sess.Start
	won := guess == target
	lost := !won && attempts >= d.level.MaxAttempts
	if won || lost {
		sess.Finished = true
	}
	d.mu.Unlock()

	// Persist and return.
	if won || lost {
		// Losing runs are recorded too so the once-per-day rule holds;
		// the leaderboard ranks wins ahead of losses.
		elapsed := int(time.Since(start).Milliseconds())
		_ = d.store.InsertResult(r.Context(), daily.Result{
			UserID: uid, Date: date, Target: target, Attempts: attempts, Won: won, ElapsedMs: elapsed,
		})
		if won {
			_ = json.NewEncoder(w).Encode(dailyGuessRes{State: "won", Attempts: attempts,
				AttemptsLeft: d.level.MaxAttempts - attempts})
			return
		}
		_ = json.NewEncoder(w).Encode(dailyGuessRes{State: "lost", Attempts: attempts, Target: target})
		return
	}

	dir := game.DirectionHigher
	if guess > target {
		dir = game.DirectionLower
	}
	_ = json.NewEncoder(w).Encode(dailyGuessRes{
		State: "in_progress", Direction: dir,
		Attempts: attempts, AttemptsLeft: d.level.MaxAttempts - attempts,
	})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.todayTarget()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
