// internal/game/types.go
//
// Core type definitions for the number-guessing engine.
// Defines:
//   - Hint: per-guess history marker (correct/higher/lower/exhausted).
//   - OutcomeKind, Direction, Severity: classification of a guess result.
//   - HistoryEntry, Session: state for a single play-through.

package game

// Hint marks a history entry with how that guess related to the target.
// Possible values:
//   - "correct":   the guess matched the target (winning guess).
//   - "higher":    the target is higher than the guess (go up).
//   - "lower":     the target is lower than the guess (go down).
//   - "exhausted": the final, losing guess (attempt budget spent).
type Hint string

const (
	HintCorrect   Hint = "correct"
	HintHigher         = "higher"
	HintLower          = "lower"
	HintExhausted      = "exhausted"
)

// OutcomeKind classifies the result of a single SubmitGuess call.
// Possible values:
//   - "inactive":     no active session; the call was a no-op.
//   - "invalid":      input did not parse as a number; no attempt consumed.
//   - "out_of_range": number outside the level bounds; no attempt consumed.
//   - "miss":         valid guess, not the target; attempt consumed.
//   - "won":          guess matched the target; session over.
//   - "lost":         last attempt spent without a match; session over.
type OutcomeKind string

const (
	KindInactive   OutcomeKind = "inactive"
	KindInvalid                = "invalid"
	KindOutOfRange             = "out_of_range"
	KindMiss                   = "miss"
	KindWon                    = "won"
	KindLost                   = "lost"
)

// Direction tells the player where the target sits relative to a missed guess.
type Direction string

const (
	DirectionHigher Direction = "higher" // target is higher, guess up
	DirectionLower  Direction = "lower"  // target is lower, guess down
)

// Severity hints at presentation urgency for a miss: "warning" when the
// player is down to the last two attempts, otherwise "info".
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning          = "warning"
)

// HistoryEntry records one consumed guess and its hint.
type HistoryEntry struct {
	Guess int  `json:"guess"`
	Hint  Hint `json:"hint"`
}

// Session holds the state of a single play-through, from level selection
// to win or loss. The target is fixed once the session starts.
type Session struct {
	ID           string         // Unique session identifier (random hex string).
	Level        *Level         // Selected difficulty preset, nil before the first start.
	Target       int            // The secret number, always within [Level.Min, Level.Max].
	AttemptsUsed int            // Consumed attempts; never exceeds Level.MaxAttempts.
	Active       bool           // True only between start and a terminal guess.
	History      []HistoryEntry // Consumed guesses in order, reset at each new session.
}
