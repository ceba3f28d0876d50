package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelTable(t *testing.T) {
	all := Levels()
	require.Len(t, all, 3)

	easy, ok := LevelByName(LevelEasy)
	require.True(t, ok)
	assert.Equal(t, 1, easy.Min)
	assert.Equal(t, 50, easy.Max)
	assert.Equal(t, 10, easy.MaxAttempts)
	assert.Equal(t, 5, easy.BonusThreshold)

	medium, ok := LevelByName(LevelMedium)
	require.True(t, ok)
	assert.Equal(t, 75, medium.Max)
	assert.Equal(t, 7, medium.MaxAttempts)
	assert.Equal(t, 4, medium.BonusThreshold)

	hard, ok := LevelByName(LevelHard)
	require.True(t, ok)
	assert.Equal(t, 100, hard.Max)
	assert.Equal(t, 5, hard.MaxAttempts)
	assert.Equal(t, 3, hard.BonusThreshold)

	for _, lvl := range all {
		assert.LessOrEqual(t, lvl.Min, lvl.Max, lvl.Name)
		assert.Positive(t, lvl.MaxAttempts, lvl.Name)
		assert.LessOrEqual(t, lvl.BonusThreshold, lvl.MaxAttempts, lvl.Name)
		assert.Equal(t, 10, lvl.BaseScore, lvl.Name)
		assert.Equal(t, 5, lvl.BonusScore, lvl.Name)
	}
}

func TestLevelByNameUnknown(t *testing.T) {
	_, ok := LevelByName("impossible")
	assert.False(t, ok)
}

func TestLevelsReturnsCopy(t *testing.T) {
	a := Levels()
	a[0].Max = 9999
	b := Levels()
	assert.Equal(t, 50, b[0].Max)
}
