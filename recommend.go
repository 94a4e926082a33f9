package main

// Question pairs a trait with the value a "yes" answer asserts. Questions
// are ephemeral: produced by recommendQuestion, consumed by a single
// elimination step, then discarded.
type Question struct {
	Trait string
	Value string
}

// Text renders the question the way it is shown to players.
func (q Question) Text() string {
	return "Does it have the trait \"" + q.Trait + "\"?"
}

// recommendQuestion picks the trait whose yes/no split over the candidate
// set is closest to even, so either answer eliminates as many candidates
// as possible. Traits are scanned in sorted order, which makes ties and
// therefore the whole function deterministic. Returns nil when the set
// has one candidate or fewer, or when no trait splits the set at all.
func recommendQuestion(candidates []string, store *AnimalStore) *Question {
	if len(candidates) <= 1 {
		return nil
	}

	total := len(candidates)

	var best *Question
	minDifference := total

	for _, trait := range store.Traits() {
		yesCount := 0
		for _, name := range candidates {
			if store.Value(name, trait) == yesMarker {
				yesCount++
			}
		}

		difference := yesCount - (total - yesCount)
		if difference < 0 {
			difference = -difference
		}

		// Strict less-than keeps the first trait on ties. A trait every
		// candidate agrees on scores exactly total and is never chosen.
		if difference < minDifference {
			minDifference = difference
			best = &Question{Trait: trait, Value: yesMarker}
		}
	}

	return best
}

// filterCandidates applies an answer to a candidate set: an animal is
// kept iff whether it matches the question agrees with the answer.
// The result is always a subset of the input; the input is not modified.
func filterCandidates(candidates []string, q Question, isYes bool, store *AnimalStore) []string {
	kept := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if (store.Value(name, q.Trait) == q.Value) == isYes {
			kept = append(kept, name)
		}
	}
	return kept
}
