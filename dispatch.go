package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Dispatcher routes typed intents to the participant's current game and
// turns the outcome into messages. It holds no game state of its own;
// the directory and the rooms do.
type Dispatcher struct {
	store  *AnimalStore
	dir    *SessionDirectory
	logger *log.Logger
}

func newDispatcher(store *AnimalStore, dir *SessionDirectory, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		dir:    dir,
		logger: logger,
	}
}

// Handle processes one intent and returns its effect. It is total:
// every outcome, including rejections, is an ordinary reply.
func (d *Dispatcher) Handle(in Intent) Effect {
	d.logger.Debug("handling intent", "participant", in.Participant, "kind", in.Kind.String())

	switch in.Kind {
	case IntentRules:
		return reply(rulesMessage())
	case IntentInfo:
		return d.info(in)
	case IntentStartSolo:
		return d.startSolo(in)
	case IntentStartRoom:
		return d.startRoom(in)
	case IntentJoinRoom:
		return d.joinRoom(in)
	case IntentSetSecret:
		return d.setSecret(in)
	case IntentRoll:
		return d.roll(in)
	case IntentRequestHint:
		return d.hint(in)
	case IntentAnswer:
		return d.answer(in)
	case IntentGuess:
		return d.guess(in)
	case IntentCheck:
		return d.check(in)
	case IntentFreeformAsk:
		return d.freeformAsk(in)
	case IntentEndGame:
		return d.endGame(in)
	default:
		return reply(homeMessage())
	}
}

// rejection renders a typed error as a direct reply. Anything tagged
// not-found falls through to the home message instead.
func (d *Dispatcher) rejection(err error) Effect {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return reply(homeMessage())
	}
	return reply(text(err.Error()))
}

func (d *Dispatcher) info(in Intent) Effect {
	name, ok := d.store.Resolve(in.Text)
	if !ok {
		return d.rejection(validationf("I don't know an animal called %q", in.Text))
	}

	return reply(Message{
		Text: fmt.Sprintf("%s (%s)\n%s\nDid you know? %s",
			name, d.store.Group(name), d.store.Blurb(name), d.store.Trivia(name)),
		Replies: []string{"solo", "rules"},
	})
}

func (d *Dispatcher) startSolo(in Intent) Effect {
	_, err := d.dir.StartSolo(in.Participant, d.store)
	if err != nil {
		return d.rejection(err)
	}

	d.logger.Info("solo session started", "participant", in.Participant)

	return reply(Message{
		Text: "I picked a secret animal. Ask me about its traits with " +
			"\"ask <trait>\", or \"guess <animal>\" when you think you know. " +
			"\"hint\" suggests a good question, free of charge.",
		Replies: []string{"hint", "quit"},
	})
}

func (d *Dispatcher) startRoom(in Intent) Effect {
	room, err := d.dir.CreateRoom(in.Participant, in.Name, d.store)
	if err != nil {
		return d.rejection(err)
	}

	d.logger.Info("room created", "code", room.Code(), "participant", in.Participant)

	return reply(Message{
		Text: fmt.Sprintf("Room %s is open. Share the code; your opponent joins with \"join %s\".",
			room.Code(), room.Code()),
		Replies: []string{"quit"},
	})
}

func (d *Dispatcher) joinRoom(in Intent) Effect {
	room, redID, redName, err := d.dir.JoinRoom(in.Participant, in.Name, in.Text)
	if err != nil {
		return d.rejection(err)
	}

	d.logger.Info("player joined room", "code", room.Code(), "participant", in.Participant)

	eff := reply(Message{
		Text: fmt.Sprintf("You joined %s's room %s. Pick your secret animal with \"secret <animal>\".",
			redName, room.Code()),
		Replies: []string{"rules"},
	})
	eff.push(redID, Message{
		Text: fmt.Sprintf("%s joined room %s. Pick your secret animal with \"secret <animal>\".",
			in.Name, room.Code()),
	})
	return eff
}

func (d *Dispatcher) setSecret(in Intent) Effect {
	room, ok := d.dir.Room(in.Participant)
	if !ok {
		return d.rejection(errNoActiveGame)
	}

	animal, ok := d.store.Resolve(in.Text)
	if !ok {
		return d.rejection(validationf("I don't know an animal called %q", in.Text))
	}

	res, err := room.SetSecret(in.Participant, animal)
	if err != nil {
		return d.rejection(err)
	}

	eff := reply(text(fmt.Sprintf("Your secret animal is %s. Keep it to yourself.", animal)))
	if res.State == RoomRolling {
		rolling := Message{
			Text:    "Both secrets are in. Roll for the first turn with \"roll\".",
			Replies: []string{"roll"},
		}
		eff.Reply.Text += "\n" + rolling.Text
		eff.Reply.Replies = rolling.Replies
		if res.OpponentID != "" {
			eff.push(res.OpponentID, rolling)
		}
	}
	return eff
}

func (d *Dispatcher) roll(in Intent) Effect {
	room, ok := d.dir.Room(in.Participant)
	if !ok {
		return d.rejection(errNoActiveGame)
	}

	res, err := room.Roll(in.Participant)
	if err != nil {
		return d.rejection(err)
	}

	eff := reply(text(fmt.Sprintf("You rolled a %d.", res.Score)))
	if !res.Started {
		return eff
	}

	opening := fmt.Sprintf("Red rolled %d, blue rolled %d. Team %s goes first.",
		res.RedScore, res.BlueScore, res.FirstTurn)
	eff.Reply.Text += "\n" + opening
	eff.Reply.Replies = []string{"hint"}
	eff.push(res.OpponentID, Message{
		Text:    fmt.Sprintf("You rolled a %d.\n%s", otherScore(res), opening),
		Replies: []string{"hint"},
	})
	return eff
}

func otherScore(res RollResult) int {
	if res.Score == res.RedScore {
		return res.BlueScore
	}
	return res.RedScore
}

func (d *Dispatcher) hint(in Intent) Effect {
	if s, ok := d.dir.Solo(in.Participant); ok {
		q := s.Hint(d.store)
		if q == nil {
			return reply(text("I can't narrow it down any further; take a guess."))
		}
		return reply(Message{
			Text:    "Try asking: " + q.Text(),
			Replies: []string{"ask " + q.Trait},
		})
	}

	room, ok := d.dir.Room(in.Participant)
	if !ok {
		return d.rejection(errNoActiveGame)
	}

	q, err := room.Hint(in.Participant, d.store)
	if err != nil {
		return d.rejection(err)
	}
	if q == nil {
		return reply(Message{
			Text:    "No question can split your candidates further; time to guess.",
			Replies: []string{"guess "},
		})
	}

	return reply(Message{
		Text:    "Ask your opponent: " + q.Text() + " Then record their answer with \"yes\" or \"no\".",
		Replies: []string{"yes", "no"},
	})
}

func (d *Dispatcher) answer(in Intent) Effect {
	room, ok := d.dir.Room(in.Participant)
	if !ok {
		return d.rejection(errNoActiveGame)
	}

	res, err := room.Answer(in.Participant, in.Yes, d.store)
	if err != nil {
		return d.rejection(err)
	}

	summary := fmt.Sprintf("Answer recorded. %d animal(s) eliminated, %d remain.",
		res.Eliminated, res.Remaining)

	eff := reply(text(summary))
	if res.KeptTurn {
		eff.Reply.Text += "\nBonus turn: it is still your move."
		eff.Reply.Replies = []string{"hint", "guess "}
	} else {
		eff.Reply.Text += "\nYour opponent's turn."
		eff.push(res.OpponentID, Message{
			Text:    "Your turn.",
			Replies: []string{"hint", "guess "},
		})
	}
	return eff
}

func (d *Dispatcher) guess(in Intent) Effect {
	animal, ok := d.store.Resolve(in.Text)
	if !ok {
		return d.rejection(validationf("I don't know an animal called %q", in.Text))
	}

	if s, sok := d.dir.Solo(in.Participant); sok {
		won, score := s.Guess(animal)
		if !won {
			return reply(Message{
				Text:    fmt.Sprintf("It is not the %s. That counts as a question.", animal),
				Replies: []string{"hint"},
			})
		}

		d.dir.EndSolo(in.Participant)
		d.logger.Info("solo session won", "participant", in.Participant, "score", score)
		return reply(Message{
			Text:    fmt.Sprintf("Correct, it was the %s! You scored %d points.", animal, score),
			Replies: []string{"solo", "room"},
		})
	}

	room, ok := d.dir.Room(in.Participant)
	if !ok {
		return d.rejection(errNoActiveGame)
	}

	res, err := room.Guess(in.Participant, animal)
	if err != nil {
		return d.rejection(err)
	}

	if res.Correct {
		d.dir.RemoveRoom(room)
		d.logger.Info("room won", "code", room.Code(), "winner", in.Participant)

		eff := reply(Message{
			Text:    fmt.Sprintf("Correct! %s's secret animal was the %s. You win!", res.OpponentName, res.Secret),
			Replies: []string{"room", "solo"},
		})
		eff.push(res.OpponentID, Message{
			Text:    fmt.Sprintf("%s guessed your %s. The game is over.", res.GuesserName, res.Secret),
			Replies: []string{"room", "solo"},
		})
		return eff
	}

	eff := reply(text(fmt.Sprintf("The %s is not it. Your opponent gets the turn, plus a bonus turn.", animal)))
	eff.push(res.OpponentID, Message{
		Text:    fmt.Sprintf("%s guessed wrong! Your turn, with one bonus turn after it.", res.GuesserName),
		Replies: []string{"hint", "guess "},
	})
	return eff
}

func (d *Dispatcher) check(in Intent) Effect {
	room, ok := d.dir.Room(in.Participant)
	if !ok {
		return d.rejection(errNoActiveGame)
	}

	trait, yes, found, err := room.Check(in.Participant, in.Text, d.store)
	if err != nil {
		return d.rejection(err)
	}
	if !found {
		return reply(text(fmt.Sprintf("No trait matches %q.", in.Text)))
	}

	answer := "No"
	if yes {
		answer = "Yes"
	}
	return reply(text(fmt.Sprintf("(private) %q for your animal: %s.", trait, answer)))
}

func (d *Dispatcher) freeformAsk(in Intent) Effect {
	s, ok := d.dir.Solo(in.Participant)
	if !ok {
		if _, inRoom := d.dir.Room(in.Participant); inRoom {
			return d.rejection(statef("freeform questions are for practice mode; use \"hint\" here"))
		}
		return d.rejection(errNoActiveGame)
	}

	trait, yes, found, questions := s.AskFreeform(in.Text, d.store)
	if !found {
		return reply(text(fmt.Sprintf("No trait matches %q. That still counts as a question (%d asked).", in.Text, questions)))
	}

	answer := "No"
	if yes {
		answer = "Yes"
	}
	return reply(Message{
		Text:    fmt.Sprintf("%s to %q. (%d question(s) asked)", answer, trait, questions),
		Replies: []string{"hint"},
	})
}

func (d *Dispatcher) endGame(in Intent) Effect {
	if s, ok := d.dir.Solo(in.Participant); ok {
		secret := s.Reveal()
		d.dir.EndSolo(in.Participant)
		d.logger.Info("solo session abandoned", "participant", in.Participant)
		return reply(Message{
			Text:    fmt.Sprintf("It was the %s. Better luck next time!", secret),
			Replies: []string{"solo", "room"},
		})
	}

	if room, ok := d.dir.Room(in.Participant); ok {
		opponentID := room.End(in.Participant)
		d.dir.RemoveRoom(room)
		d.logger.Info("room ended", "code", room.Code(), "participant", in.Participant)

		eff := reply(Message{
			Text:    "Game over. Thanks for playing!",
			Replies: []string{"room", "solo"},
		})
		if opponentID != "" {
			eff.push(opponentID, Message{
				Text:    "Your opponent ended the game.",
				Replies: []string{"room", "solo"},
			})
		}
		return eff
	}

	return reply(homeMessage())
}

func homeMessage() Message {
	return Message{
		Text: "Welcome to Safari, the animal guessing game. Practice against " +
			"the bot with \"solo\", open a match with \"room\", or join one " +
			"with \"join <code>\".",
		Replies: []string{"solo", "room", "rules"},
	}
}

func rulesMessage() Message {
	var sb strings.Builder
	sb.WriteString("Safari is twenty questions, with animals.\n")
	sb.WriteString("Solo: I pick a secret animal; ask about traits (\"ask fur\"), ")
	sb.WriteString("then \"guess <animal>\". Fewer questions, higher score.\n")
	sb.WriteString("Match: open a room, share the code, both pick a secret animal and ")
	sb.WriteString("roll for the first turn. On your turn, \"hint\" suggests the ")
	sb.WriteString("sharpest question; ask it, have your opponent look it up with ")
	sb.WriteString("\"check <trait>\", then record the answer with \"yes\" or \"no\". ")
	sb.WriteString("Guess right to win; guess wrong and your opponent gets your turn ")
	sb.WriteString("plus a bonus one.")
	return Message{
		Text:    sb.String(),
		Replies: []string{"solo", "room"},
	}
}
