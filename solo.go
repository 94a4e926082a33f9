package main

import (
	"sync"
	"time"
)

// SoloSession is the single-player practice mode: the session draws a
// secret animal and the player narrows it down by asking about traits.
// Hints are free; questions and wrong guesses count against the score.
type SoloSession struct {
	mu sync.Mutex

	owner          string
	secret         string
	questionsAsked int
	lastActive     time.Time
}

func newSoloSession(owner string, store *AnimalStore) *SoloSession {
	names := store.Names()
	return &SoloSession{
		owner:      owner,
		secret:     names[randInt(len(names))],
		lastActive: time.Now(),
	}
}

func (s *SoloSession) touchLocked() {
	s.lastActive = time.Now()
}

// AskFreeform answers a trait question about the secret animal. The
// substring is matched case-insensitively against trait names in sorted
// order and the first match decides the answer. Counts as a question
// whether or not anything matched.
func (s *SoloSession) AskFreeform(substring string, store *AnimalStore) (trait string, yes, found bool, asked int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	s.questionsAsked++

	trait, found = store.MatchTrait(substring)
	if !found {
		return "", false, false, s.questionsAsked
	}
	return trait, store.HasTrait(s.secret, trait), true, s.questionsAsked
}

// Hint suggests a question over the full animal universe. The bot's pick
// is unknown to the asker, so there is no narrowed set to recommend
// against. Free of charge.
func (s *SoloSession) Hint(store *AnimalStore) *Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	return recommendQuestion(store.Names(), store)
}

// Guess resolves a guess against the secret. A correct guess wins with
// score = max(0, 100 - 5 per question asked); a wrong guess counts as a
// question.
func (s *SoloSession) Guess(name string) (won bool, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	if name != s.secret {
		s.questionsAsked++
		return false, 0
	}

	score = 100 - 5*s.questionsAsked
	if score < 0 {
		score = 0
	}
	return true, score
}

// Reveal returns the secret, for the "give up" path.
func (s *SoloSession) Reveal() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.secret
}

func (s *SoloSession) Questions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.questionsAsked
}

func (s *SoloSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastActive
}
