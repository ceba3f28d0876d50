// internal/game/levels.go
//
// Static difficulty presets for the guessing game.
// The table is fixed for the lifetime of the process; levels are looked up
// by name and never mutated.

package game

// LevelName identifies one of the fixed difficulty presets.
type LevelName string

const (
	LevelEasy   LevelName = "easy"
	LevelMedium           = "medium"
	LevelHard             = "hard"
)

// Level is a difficulty preset fixing the guess range, the attempt budget,
// and the bonus rule.
type Level struct {
	Name           LevelName `json:"name"`
	Label          string    `json:"label"`          // Display name.
	Min            int       `json:"min"`            // Inclusive lower bound of the guess range.
	Max            int       `json:"max"`            // Inclusive upper bound of the guess range.
	MaxAttempts    int       `json:"maxAttempts"`    // Attempt budget per session.
	BonusThreshold int       `json:"bonusThreshold"` // Winning at or under this many attempts earns the bonus.
	BaseScore      int       `json:"baseScore"`
	BonusScore     int       `json:"bonusScore"`
}

var levels = []Level{
	{Name: LevelEasy, Label: "Easy", Min: 1, Max: 50, MaxAttempts: 10, BonusThreshold: 5, BaseScore: 10, BonusScore: 5},
	{Name: LevelMedium, Label: "Medium", Min: 1, Max: 75, MaxAttempts: 7, BonusThreshold: 4, BaseScore: 10, BonusScore: 5},
	{Name: LevelHard, Label: "Hard", Min: 1, Max: 100, MaxAttempts: 5, BonusThreshold: 3, BaseScore: 10, BonusScore: 5},
}

// Levels returns the fixed level table in display order.
// Callers get a copy; the table itself is never exposed for mutation.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// LevelByName looks up a preset by name.
// The second return is false for names outside the fixed set.
func LevelByName(name LevelName) (*Level, bool) {
	for i := range levels {
		if levels[i].Name == name {
			lvl := levels[i]
			return &lvl, true
		}
	}
	return nil, false
}
