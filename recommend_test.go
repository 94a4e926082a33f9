package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendQuestion_PicksMostEvenSplit(t *testing.T) {
	store := testStore(t)

	// Over all four animals, "Is Warm-Blooded" splits 2/2 and sorts
	// before "Lives in Water", the other even split.
	q := recommendQuestion(store.Names(), store)
	require.NotNil(t, q)
	assert.Equal(t, "Is Warm-Blooded", q.Trait)
	assert.Equal(t, yesMarker, q.Value)
}

func TestRecommendQuestion_Deterministic(t *testing.T) {
	store := testStore(t)
	candidates := store.Names()

	first := recommendQuestion(candidates, store)
	require.NotNil(t, first)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, recommendQuestion(candidates, store))
	}
}

func TestRecommendQuestion_SmallSets(t *testing.T) {
	store := testStore(t)

	assert.Nil(t, recommendQuestion(nil, store))
	assert.Nil(t, recommendQuestion([]string{}, store))
	assert.Nil(t, recommendQuestion([]string{"Lion"}, store))
}

func TestRecommendQuestion_NoSplit(t *testing.T) {
	// Two animals identical on every trait cannot be told apart.
	store, err := loadAnimalStore([]byte(`{
		"Group": {"Horse": "Mammal", "Donkey": "Mammal"},
		"Has Fur": {"Horse": "yes", "Donkey": "yes"},
		"Can Fly": {"Horse": "no", "Donkey": "no"}
	}`))
	require.NoError(t, err)

	assert.Nil(t, recommendQuestion(store.Names(), store))
}

func TestRecommendQuestion_Optimality(t *testing.T) {
	data, err := assets.ReadFile("assets/safari/animals.json")
	require.NoError(t, err)
	store, err := loadAnimalStore(data)
	require.NoError(t, err)

	candidateSets := [][]string{
		store.Names(),
		{"Lion", "Tiger", "Owl"},
		{"Shark", "Frog", "Crocodile", "Turtle", "Snake"},
		{"Bat", "Owl"},
	}

	for _, candidates := range candidateSets {
		q := recommendQuestion(candidates, store)
		require.NotNil(t, q, "candidates %v", candidates)

		best := split(candidates, q.Trait, store)
		for _, trait := range store.Traits() {
			assert.LessOrEqual(t, best, split(candidates, trait, store),
				"trait %q beats recommendation %q for %v", trait, q.Trait, candidates)
		}
	}
}

func split(candidates []string, trait string, store *AnimalStore) int {
	yes := 0
	for _, name := range candidates {
		if store.HasTrait(name, trait) {
			yes++
		}
	}
	diff := yes - (len(candidates) - yes)
	if diff < 0 {
		diff = -diff
	}
	return diff
}

func TestFilterCandidates(t *testing.T) {
	store := testStore(t)
	q := Question{Trait: "Is Warm-Blooded", Value: yesMarker}

	all := store.Names()

	kept := filterCandidates(all, q, true, store)
	assert.ElementsMatch(t, []string{"Lion", "Owl"}, kept)

	dropped := filterCandidates(all, q, false, store)
	assert.ElementsMatch(t, []string{"Frog", "Shark"}, dropped)

	// Subset property, and the XOR rule decides membership exactly.
	for _, isYes := range []bool{true, false} {
		after := filterCandidates(all, q, isYes, store)
		assert.Subset(t, all, after)
		for _, name := range all {
			matches := store.Value(name, q.Trait) == q.Value
			if (matches == isYes) != contains(after, name) {
				t.Errorf("animal %q misfiltered for isYes=%v", name, isYes)
			}
		}
	}

	// The input slice is left alone.
	assert.Equal(t, []string{"Frog", "Lion", "Owl", "Shark"}, all)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
