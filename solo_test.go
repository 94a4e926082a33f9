package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func soloWithSecret(secret string) *SoloSession {
	return &SoloSession{
		owner:      "player",
		secret:     secret,
		lastActive: time.Now(),
	}
}

func TestNewSoloSession_DrawsKnownAnimal(t *testing.T) {
	store := testStore(t)

	for i := 0; i < 20; i++ {
		s := newSoloSession("player", store)
		assert.True(t, store.Has(s.Reveal()))
		assert.Zero(t, s.Questions())
	}
}

func TestSoloAskFreeform(t *testing.T) {
	store := testStore(t)
	s := soloWithSecret("Lion")

	trait, yes, found, asked := s.AskFreeform("fur", store)
	assert.True(t, found)
	assert.True(t, yes)
	assert.Equal(t, "Has Fur", trait)
	assert.Equal(t, 1, asked)

	_, yes, found, asked = s.AskFreeform("fly", store)
	assert.True(t, found)
	assert.False(t, yes)
	assert.Equal(t, 2, asked)

	// An unmatched substring still costs a question.
	_, _, found, asked = s.AskFreeform("tentacles", store)
	assert.False(t, found)
	assert.Equal(t, 3, asked)
}

func TestSoloHint_IsFree(t *testing.T) {
	store := testStore(t)
	s := soloWithSecret("Lion")

	q := s.Hint(store)
	require.NotNil(t, q)
	// Hints always recommend over the full universe.
	assert.Equal(t, "Is Warm-Blooded", q.Trait)
	assert.Zero(t, s.Questions())
}

func TestSoloGuess(t *testing.T) {
	s := soloWithSecret("Lion")

	won, _ := s.Guess("Owl")
	assert.False(t, won)
	assert.Equal(t, 1, s.Questions())

	won, score := s.Guess("Lion")
	assert.True(t, won)
	assert.Equal(t, 95, score)
}

func TestSoloScoring(t *testing.T) {
	tests := []struct {
		questions int
		score     int
	}{
		{0, 100},
		{1, 95},
		{10, 50},
		{20, 0},
		{25, 0}, // clamped, never negative
	}

	for _, tt := range tests {
		s := soloWithSecret("Lion")
		s.questionsAsked = tt.questions

		won, score := s.Guess("Lion")
		require.True(t, won)
		assert.Equal(t, tt.score, score, "%d questions", tt.questions)
	}
}
