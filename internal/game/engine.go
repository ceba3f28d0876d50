// internal/game/engine.go
//
// Core engine for the number-guessing game.
// Responsibilities:
//   - Start sessions on a chosen difficulty level with a random target.
//   - Validate and apply guesses (parse, range check, attempt accounting).
//   - Score wins with a speed bonus and keep a running score ledger.
//   - Track state transitions: no session → active → won/lost.
//
// Notes:
//   - Level presets are defined in levels.go; the engine never mutates them.
//   - Invalid and out-of-range guesses never consume an attempt.
//   - The engine is presentation-agnostic: it returns Snapshot/Outcome
//     values and leaves rendering, audio, and confirmation prompts to the
//     host. It performs no I/O and never blocks.
//   - Target selection goes through an injectable Rand so tests can fix
//     the target; nil selects a time-seeded math/rand source.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	mrand "math/rand"
	"strconv"
	"strings"
	"time"
)

// Feedback literals surfaced to the player. Hosts render these verbatim.
const (
	FeedbackFirstGuess = "Make your first guess!"
	MsgInvalidNumber   = "Please enter a valid number!"
)

// Rand is the subset of math/rand.Rand the engine needs for target selection.
type Rand interface {
	// Intn returns a uniform int in [0, n).
	Intn(n int) int
}

// Engine owns one game session and the running score ledger.
// The ledger outlives sessions: starting a new game discards the prior
// session but keeps the accumulated score.
type Engine struct {
	rng        Rand
	session    Session
	totalScore int
}

// New constructs an engine with no active session and a zero ledger.
// A nil rng selects a time-seeded source.
func New(rng Rand) *Engine {
	if rng == nil {
		rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// Snapshot is a read-only view of the engine for hosts to render.
type Snapshot struct {
	SessionID    string         `json:"sessionId,omitempty"`
	Level        *Level         `json:"level,omitempty"`
	Active       bool           `json:"active"`
	AttemptsUsed int            `json:"attemptsUsed"`
	AttemptsLeft int            `json:"attemptsLeft"`
	TotalScore   int            `json:"totalScore"`
	Feedback     string         `json:"feedback,omitempty"`
	History      []HistoryEntry `json:"history"`
}

// Outcome is the synchronous result of one SubmitGuess call.
// Which fields are meaningful depends on Kind:
//   - invalid/out_of_range: Message.
//   - miss:                 Direction, AttemptsLeft, Severity.
//   - won:                  AttemptsUsed, ScoreEarned, BonusEarned.
//   - lost:                 AttemptsUsed, Target.
type Outcome struct {
	Kind         OutcomeKind `json:"kind"`
	Message      string      `json:"message,omitempty"`
	Direction    Direction   `json:"direction,omitempty"`
	Severity     Severity    `json:"severity,omitempty"`
	AttemptsUsed int         `json:"attemptsUsed,omitempty"`
	AttemptsLeft int         `json:"attemptsLeft"`
	Target       int         `json:"target,omitempty"`
	ScoreEarned  int         `json:"scoreEarned,omitempty"`
	BonusEarned  bool        `json:"bonusEarned,omitempty"`
}

// StartGame begins a fresh session on the named level, discarding any
// prior session. The target is drawn uniformly from [Min, Max] inclusive.
// An unknown level name is a host bug, not a player error; it is returned
// as an error and leaves the engine unchanged.
func (e *Engine) StartGame(name LevelName) (Snapshot, error) {
	lvl, ok := LevelByName(name)
	if !ok {
		return Snapshot{}, fmt.Errorf("unknown level %q", name)
	}
	e.session = Session{
		ID:      randomID(),
		Level:   lvl,
		Target:  lvl.Min + e.rng.Intn(lvl.Max-lvl.Min+1),
		Active:  true,
		History: []HistoryEntry{},
	}
	return e.snapshot(FeedbackFirstGuess), nil
}

// SubmitGuess validates and applies one guess, mutating the session.
//
// Contract, in order:
//  1. Inactive session → "inactive" outcome, nothing mutated.
//  2. Unparseable input → "invalid", no attempt consumed.
//  3. Outside [Min, Max] → "out_of_range", no attempt consumed.
//  4. Otherwise the attempt is consumed regardless of the result.
//  5. Equal to target → "won": session deactivates, score = base plus
//     bonus iff attempts used ≤ bonus threshold, ledger credited.
//  6. Miss on the final attempt → "lost": session deactivates, history
//     records the exhausted marker, outcome reveals the target.
//  7. Any other miss → direction hint (higher when guess < target,
//     lower when guess > target), severity "warning" with ≤2 attempts
//     left, "info" otherwise.
func (e *Engine) SubmitGuess(raw string) Outcome {
	s := &e.session
	if !s.Active {
		return Outcome{Kind: KindInactive}
	}
	lvl := s.Level

	guess, ok := ParseGuess(raw)
	if !ok {
		return Outcome{Kind: KindInvalid, Message: MsgInvalidNumber}
	}
	if guess < lvl.Min || guess > lvl.Max {
		return Outcome{
			Kind:    KindOutOfRange,
			Message: fmt.Sprintf("Number must be between %d and %d!", lvl.Min, lvl.Max),
		}
	}

	s.AttemptsUsed++

	if guess == s.Target {
		s.Active = false
		bonus := s.AttemptsUsed <= lvl.BonusThreshold
		earned := lvl.BaseScore
		if bonus {
			earned += lvl.BonusScore
		}
		e.totalScore += earned
		s.History = append(s.History, HistoryEntry{Guess: guess, Hint: HintCorrect})
		return Outcome{Kind: KindWon, AttemptsUsed: s.AttemptsUsed, ScoreEarned: earned, BonusEarned: bonus}
	}

	left := lvl.MaxAttempts - s.AttemptsUsed
	if left == 0 {
		s.Active = false
		s.History = append(s.History, HistoryEntry{Guess: guess, Hint: HintExhausted})
		return Outcome{Kind: KindLost, AttemptsUsed: s.AttemptsUsed, Target: s.Target}
	}

	dir, hint := DirectionHigher, Hint(HintHigher)
	if guess > s.Target {
		dir, hint = DirectionLower, HintLower
	}
	s.History = append(s.History, HistoryEntry{Guess: guess, Hint: hint})

	sev := Severity(SeverityInfo)
	if left <= 2 {
		sev = SeverityWarning
	}
	return Outcome{Kind: KindMiss, Direction: dir, AttemptsLeft: left, Severity: sev}
}

// ChangeLevel abandons the current session and returns to level selection.
// The score ledger is untouched.
func (e *Engine) ChangeLevel() {
	e.session.Active = false
	e.session.Level = nil
}

// ResetScore zeroes the ledger unconditionally. Confirmation gating is the
// host's job; any active session keeps its attempts and history.
func (e *Engine) ResetScore() {
	e.totalScore = 0
}

// TotalScore reports the accumulated score across sessions.
func (e *Engine) TotalScore() int { return e.totalScore }

// SessionID returns the current session's identifier, or "" before the
// first StartGame.
func (e *Engine) SessionID() string { return e.session.ID }

// Level returns the current session's level, or nil outside a session.
func (e *Engine) Level() *Level { return e.session.Level }

// Snapshot returns the current engine state with no feedback text.
func (e *Engine) Snapshot() Snapshot { return e.snapshot("") }

func (e *Engine) snapshot(feedback string) Snapshot {
	s := e.session
	snap := Snapshot{
		SessionID:    s.ID,
		Active:       s.Active,
		AttemptsUsed: s.AttemptsUsed,
		TotalScore:   e.totalScore,
		Feedback:     feedback,
		History:      append([]HistoryEntry{}, s.History...),
	}
	if s.Level != nil {
		snap.Level = s.Level
		snap.AttemptsLeft = s.Level.MaxAttempts - s.AttemptsUsed
	}
	return snap
}

// ParseGuess converts raw player input into an integer guess.
// Plain integers parse directly; other numeric literals truncate toward
// zero ("3.7" → 3, "-4.9" → -4). Anything else is rejected.
func ParseGuess(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) > 1e9 {
		return 0, false
	}
	return int(f), true
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
