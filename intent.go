package main

// IntentKind enumerates every command the core understands. Parsing raw
// player input into one of these is the transport's job; the core never
// sees free text except as an intent argument.
type IntentKind int

const (
	IntentHome IntentKind = iota
	IntentRules
	IntentInfo
	IntentStartSolo
	IntentStartRoom
	IntentJoinRoom
	IntentSetSecret
	IntentRoll
	IntentRequestHint
	IntentAnswer
	IntentGuess
	IntentCheck
	IntentFreeformAsk
	IntentEndGame
)

func (k IntentKind) String() string {
	switch k {
	case IntentHome:
		return "home"
	case IntentRules:
		return "rules"
	case IntentInfo:
		return "info"
	case IntentStartSolo:
		return "start_solo"
	case IntentStartRoom:
		return "start_room"
	case IntentJoinRoom:
		return "join_room"
	case IntentSetSecret:
		return "set_secret"
	case IntentRoll:
		return "roll"
	case IntentRequestHint:
		return "request_hint"
	case IntentAnswer:
		return "answer"
	case IntentGuess:
		return "guess"
	case IntentCheck:
		return "check"
	case IntentFreeformAsk:
		return "freeform_ask"
	case IntentEndGame:
		return "end_game"
	default:
		return "unknown"
	}
}

// Intent is a single pre-parsed command from one participant.
// Text carries the argument for kinds that take one (a room code, an
// animal name, a trait substring); Yes carries the answer for
// IntentAnswer.
type Intent struct {
	Participant string
	Name        string // display name, supplied by the transport
	Kind        IntentKind
	Text        string
	Yes         bool
}

// Message is the one payload shape the core ever emits: display text
// plus optional quick replies the client may render as buttons.
type Message struct {
	Text    string   `json:"text"`
	Replies []string `json:"replies,omitempty"`
}

func text(s string) Message {
	return Message{Text: s}
}

// Push is a message addressed to a participant other than the caller.
type Push struct {
	Participant string
	Message     Message
}

// Effect is everything one handled intent produces: a direct reply to
// the caller and zero or more pushes to other participants. State
// commits before delivery; a failed push is the transport's problem and
// never rolls anything back.
type Effect struct {
	Reply  Message
	Pushes []Push
}

func reply(m Message) Effect {
	return Effect{Reply: m}
}

func (e *Effect) push(participant string, m Message) {
	e.Pushes = append(e.Pushes, Push{Participant: participant, Message: m})
}
