package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	return newDispatcher(testStore(t), newSessionDirectory(), log.New(io.Discard))
}

func intent(participant string, kind IntentKind, text string) Intent {
	return Intent{
		Participant: participant,
		Name:        participant,
		Kind:        kind,
		Text:        text,
	}
}

func TestHandle_NoGameRoutesHome(t *testing.T) {
	d := testDispatcher(t)

	for _, kind := range []IntentKind{IntentRoll, IntentRequestHint, IntentAnswer, IntentGuess, IntentCheck, IntentEndGame, IntentHome} {
		eff := d.Handle(intent("alice", kind, "Lion"))
		assert.Contains(t, eff.Reply.Text, "Welcome", "kind %s", kind)
		assert.Empty(t, eff.Pushes, "kind %s", kind)
	}
}

func TestHandle_Info(t *testing.T) {
	d := testDispatcher(t)

	eff := d.Handle(intent("alice", IntentInfo, "owl"))
	assert.Contains(t, eff.Reply.Text, "Owl (Bird)")
	assert.Contains(t, eff.Reply.Text, "silent night hunter")

	eff = d.Handle(intent("alice", IntentInfo, "Griffin"))
	assert.Contains(t, eff.Reply.Text, "Griffin")
	assert.NotContains(t, eff.Reply.Text, "Welcome")
}

func TestHandle_SoloRoundTrip(t *testing.T) {
	d := testDispatcher(t)

	eff := d.Handle(intent("alice", IntentStartSolo, ""))
	assert.Contains(t, eff.Reply.Text, "secret animal")

	// Pin the draw so the rest of the flow is deterministic.
	s, ok := d.dir.Solo("alice")
	require.True(t, ok)
	s.secret = "Lion"

	eff = d.Handle(intent("alice", IntentFreeformAsk, "fur"))
	assert.Contains(t, eff.Reply.Text, "Yes")

	eff = d.Handle(intent("alice", IntentRequestHint, ""))
	assert.Contains(t, eff.Reply.Text, "Is Warm-Blooded")

	eff = d.Handle(intent("alice", IntentGuess, "owl"))
	assert.Contains(t, eff.Reply.Text, "not the Owl")

	eff = d.Handle(intent("alice", IntentGuess, "lion"))
	// One freeform question and one wrong guess: 100 - 5*2.
	assert.Contains(t, eff.Reply.Text, "90")

	_, ok = d.dir.Solo("alice")
	assert.False(t, ok, "won session is destroyed")
}

func TestHandle_SoloAbandonReveals(t *testing.T) {
	d := testDispatcher(t)

	d.Handle(intent("alice", IntentStartSolo, ""))
	s, ok := d.dir.Solo("alice")
	require.True(t, ok)
	s.secret = "Shark"

	eff := d.Handle(intent("alice", IntentEndGame, ""))
	assert.Contains(t, eff.Reply.Text, "Shark")

	_, ok = d.dir.Solo("alice")
	assert.False(t, ok)
}

// Walks the full two-player scenario end to end through the dispatcher.
func TestHandle_MatchScenario(t *testing.T) {
	d := testDispatcher(t)

	eff := d.Handle(intent("alice", IntentStartRoom, ""))
	room, ok := d.dir.Room("alice")
	require.True(t, ok)
	code := room.Code()
	assert.Contains(t, eff.Reply.Text, code)

	eff = d.Handle(intent("bob", IntentJoinRoom, code))
	assert.Contains(t, eff.Reply.Text, "alice's room")
	require.Len(t, eff.Pushes, 1)
	assert.Equal(t, "alice", eff.Pushes[0].Participant)
	assert.Equal(t, RoomChoosing, room.State())

	d.Handle(intent("alice", IntentSetSecret, "Lion"))
	eff = d.Handle(intent("bob", IntentSetSecret, "Owl"))
	assert.Contains(t, eff.Reply.Text, "Roll")
	require.Len(t, eff.Pushes, 1)
	assert.Equal(t, "alice", eff.Pushes[0].Participant)
	assert.Equal(t, RoomRolling, room.State())

	rolls := []int{5, 2}
	room.dice = func() int {
		next := rolls[0]
		rolls = rolls[1:]
		return next
	}

	d.Handle(intent("alice", IntentRoll, ""))
	eff = d.Handle(intent("bob", IntentRoll, ""))
	assert.Contains(t, eff.Reply.Text, "Team red goes first")
	require.Len(t, eff.Pushes, 1)
	assert.Equal(t, "alice", eff.Pushes[0].Participant)
	assert.Contains(t, eff.Pushes[0].Message.Text, "You rolled a 5")

	// Out of turn: bob is told off, nothing moves.
	eff = d.Handle(intent("bob", IntentRequestHint, ""))
	assert.Contains(t, eff.Reply.Text, "not your turn")

	eff = d.Handle(intent("alice", IntentRequestHint, ""))
	assert.Contains(t, eff.Reply.Text, "Is Warm-Blooded")

	// Bob privately checks his own secret to answer honestly.
	eff = d.Handle(intent("bob", IntentCheck, "warm"))
	assert.Contains(t, eff.Reply.Text, "Yes")
	assert.Contains(t, eff.Reply.Text, "private")

	in := intent("alice", IntentAnswer, "")
	in.Yes = true
	eff = d.Handle(in)
	assert.Contains(t, eff.Reply.Text, "2 animal(s) eliminated, 2 remain")
	assert.Contains(t, eff.Reply.Text, "opponent's turn")
	require.Len(t, eff.Pushes, 1)
	assert.Equal(t, "bob", eff.Pushes[0].Participant)
	assert.Contains(t, eff.Pushes[0].Message.Text, "Your turn")

	// Only alice's candidate list shrank.
	assert.Len(t, room.red.Remaining, 2)
	assert.Len(t, room.blue.Remaining, 4)

	// Bob guesses alice's secret and wins; the room is gone afterwards.
	eff = d.Handle(intent("bob", IntentGuess, "lion"))
	assert.Contains(t, eff.Reply.Text, "You win")
	require.Len(t, eff.Pushes, 1)
	assert.Equal(t, "alice", eff.Pushes[0].Participant)
	assert.Contains(t, eff.Pushes[0].Message.Text, "guessed your Lion")

	_, ok = d.dir.Room("alice")
	assert.False(t, ok)
	_, ok = d.dir.Room("bob")
	assert.False(t, ok)
}

func TestHandle_WrongGuessNotifiesOpponent(t *testing.T) {
	d := testDispatcher(t)

	d.Handle(intent("alice", IntentStartRoom, ""))
	room, ok := d.dir.Room("alice")
	require.True(t, ok)

	d.Handle(intent("bob", IntentJoinRoom, room.Code()))
	d.Handle(intent("alice", IntentSetSecret, "Lion"))
	d.Handle(intent("bob", IntentSetSecret, "Owl"))

	rolls := []int{5, 2}
	room.dice = func() int {
		next := rolls[0]
		rolls = rolls[1:]
		return next
	}
	d.Handle(intent("alice", IntentRoll, ""))
	d.Handle(intent("bob", IntentRoll, ""))

	eff := d.Handle(intent("alice", IntentGuess, "Shark"))
	assert.Contains(t, eff.Reply.Text, "bonus turn")
	require.Len(t, eff.Pushes, 1)
	assert.Equal(t, "bob", eff.Pushes[0].Participant)
	assert.Contains(t, eff.Pushes[0].Message.Text, "guessed wrong")

	// The room survives a wrong guess.
	_, ok = d.dir.Room("alice")
	assert.True(t, ok)
}

func TestHandle_EndGameNotifiesOpponent(t *testing.T) {
	d := testDispatcher(t)

	d.Handle(intent("alice", IntentStartRoom, ""))
	room, ok := d.dir.Room("alice")
	require.True(t, ok)
	d.Handle(intent("bob", IntentJoinRoom, room.Code()))

	eff := d.Handle(intent("alice", IntentEndGame, ""))
	assert.Contains(t, eff.Reply.Text, "Game over")
	require.Len(t, eff.Pushes, 1)
	assert.Equal(t, "bob", eff.Pushes[0].Participant)

	_, ok = d.dir.Room("bob")
	assert.False(t, ok)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		kind IntentKind
		text string
		yes  bool
	}{
		{"solo", IntentStartSolo, "", false},
		{"practice", IntentStartSolo, "", false},
		{"room", IntentStartRoom, "", false},
		{"join B123", IntentJoinRoom, "B123", false},
		{"secret Lion", IntentSetSecret, "Lion", false},
		{"roll", IntentRoll, "", false},
		{"hint", IntentRequestHint, "", false},
		{"yes", IntentAnswer, "", true},
		{"no", IntentAnswer, "", false},
		{"guess snow leopard", IntentGuess, "snow leopard", false},
		{"check fur", IntentCheck, "fur", false},
		{"ask lays eggs", IntentFreeformAsk, "lays eggs", false},
		{"quit", IntentEndGame, "", false},
		{"RULES", IntentRules, "", false},
		{"info Owl", IntentInfo, "Owl", false},
		{"mash the keyboard", IntentHome, "the keyboard", false},
		{"", IntentHome, "", false},
	}

	for _, tt := range tests {
		in := parseCommand("pid", "Alice", tt.line)
		assert.Equal(t, tt.kind, in.Kind, "line %q", tt.line)
		assert.Equal(t, tt.text, in.Text, "line %q", tt.line)
		assert.Equal(t, tt.yes, in.Yes, "line %q", tt.line)
		assert.Equal(t, "pid", in.Participant)
		assert.Equal(t, "Alice", in.Name)
	}
}
