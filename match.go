package main

import (
	"sync"
	"time"
)

// Team identifies one side of a match. Each team has exactly one player.
type Team int

const (
	TeamNone Team = iota
	TeamRed
	TeamBlue
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return "none"
	}
}

func (t Team) opponent() Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	default:
		return TeamNone
	}
}

// RoomState is the match lifecycle: waiting for a second player, both
// players choosing secrets, the tie-break roll, play, done.
type RoomState int

const (
	RoomWaiting RoomState = iota
	RoomChoosing
	RoomRolling
	RoomPlaying
	RoomGameover
)

func (s RoomState) String() string {
	switch s {
	case RoomWaiting:
		return "waiting"
	case RoomChoosing:
		return "choosing"
	case RoomRolling:
		return "rolling"
	case RoomPlaying:
		return "playing"
	case RoomGameover:
		return "gameover"
	default:
		return "unknown"
	}
}

// MatchPlayer is one side's per-player state. Remaining is that player's
// deduction about the *opponent's* secret: the candidates still
// consistent with every answer this player has received.
type MatchPlayer struct {
	ID        string
	Name      string
	Secret    string
	Remaining []string
	HasRolled bool
	DiceScore int
}

// MatchRoom is a two-team match, identified by a short join code. All
// actions are serialized on the room mutex; each either commits or
// returns a typed rejection without touching state.
type MatchRoom struct {
	mu sync.Mutex

	code  string
	state RoomState
	red   *MatchPlayer
	blue  *MatchPlayer

	currentTurn  Team
	lastQuestion *Question
	turnBonus    int

	dice func() int

	lastActive time.Time
}

func newMatchRoom(code, ownerID, ownerName string, store *AnimalStore) *MatchRoom {
	return &MatchRoom{
		code:  code,
		state: RoomWaiting,
		red: &MatchPlayer{
			ID:        ownerID,
			Name:      ownerName,
			Remaining: append([]string(nil), store.Names()...),
		},
		currentTurn: TeamNone,
		dice: func() int {
			return 1 + randInt(6)
		},
		lastActive: time.Now(),
	}
}

func (r *MatchRoom) Code() string {
	return r.code
}

func (r *MatchRoom) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

func (r *MatchRoom) touchLocked() {
	r.lastActive = time.Now()
}

func (r *MatchRoom) idleSince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastActive
}

func (r *MatchRoom) teamOfLocked(id string) Team {
	if r.red != nil && r.red.ID == id {
		return TeamRed
	}
	if r.blue != nil && r.blue.ID == id {
		return TeamBlue
	}
	return TeamNone
}

func (r *MatchRoom) playerLocked(t Team) *MatchPlayer {
	switch t {
	case TeamRed:
		return r.red
	case TeamBlue:
		return r.blue
	default:
		return nil
	}
}

// MemberIDs returns the participant ids currently in the room.
func (r *MatchRoom) MemberIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, 2)
	if r.red != nil {
		ids = append(ids, r.red.ID)
	}
	if r.blue != nil {
		ids = append(ids, r.blue.ID)
	}
	return ids
}

// Join adds the blue player to a waiting room and moves it to choosing.
// Returns the red player's id and name so the caller can notify them.
func (r *MatchRoom) Join(id, name string) (redID, redName string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.teamOfLocked(id) != TeamNone {
		return "", "", statef("you are already in room %s", r.code)
	}
	if r.state != RoomWaiting || r.blue != nil {
		return "", "", validationf("room %s is already full", r.code)
	}

	r.touchLocked()
	r.blue = &MatchPlayer{
		ID:        id,
		Name:      name,
		Remaining: append([]string(nil), r.red.Remaining...),
	}
	r.state = RoomChoosing

	return r.red.ID, r.red.Name, nil
}

// SecretResult reports a committed secret choice.
type SecretResult struct {
	State      RoomState
	OpponentID string // empty until the opponent has joined
}

// SetSecret records a player's secret animal during the choosing phase.
// The name must already be resolved against the store. Once both sides
// have chosen, the room moves to rolling.
func (r *MatchRoom) SetSecret(id, animal string) (SecretResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team := r.teamOfLocked(id)
	if team == TeamNone {
		return SecretResult{}, errNoActiveGame
	}
	if r.state != RoomChoosing {
		return SecretResult{}, statef("room %s is not choosing secrets right now", r.code)
	}

	p := r.playerLocked(team)
	if p.Secret != "" {
		return SecretResult{}, statef("you already chose your secret animal")
	}

	r.touchLocked()
	p.Secret = animal

	res := SecretResult{State: r.state}
	if opp := r.playerLocked(team.opponent()); opp != nil {
		res.OpponentID = opp.ID
	}

	if r.red.Secret != "" && r.blue != nil && r.blue.Secret != "" {
		r.state = RoomRolling
		res.State = RoomRolling
	}
	return res, nil
}

// RollResult reports one die roll and, once both sides have rolled,
// which team opens play.
type RollResult struct {
	Score      int
	Started    bool
	FirstTurn  Team
	OpponentID string
	RedScore   int
	BlueScore  int
}

// Roll rolls this player's die, exactly once. When both dice are down
// the higher roll opens play; red wins exact ties.
func (r *MatchRoom) Roll(id string) (RollResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team := r.teamOfLocked(id)
	if team == TeamNone {
		return RollResult{}, errNoActiveGame
	}
	if r.state != RoomRolling {
		return RollResult{}, statef("room %s is not rolling dice right now", r.code)
	}

	p := r.playerLocked(team)
	if p.HasRolled {
		return RollResult{}, statef("you already rolled a %d", p.DiceScore)
	}

	r.touchLocked()
	p.HasRolled = true
	p.DiceScore = r.dice()

	res := RollResult{Score: p.DiceScore}
	if opp := r.playerLocked(team.opponent()); opp != nil {
		res.OpponentID = opp.ID
	}

	if r.red.HasRolled && r.blue.HasRolled {
		r.currentTurn = TeamRed
		if r.blue.DiceScore > r.red.DiceScore {
			r.currentTurn = TeamBlue
		}
		r.state = RoomPlaying

		res.Started = true
		res.FirstTurn = r.currentTurn
		res.RedScore = r.red.DiceScore
		res.BlueScore = r.blue.DiceScore
	}
	return res, nil
}

func (r *MatchRoom) turnGateLocked(id string) (Team, error) {
	team := r.teamOfLocked(id)
	if team == TeamNone {
		return TeamNone, errNoActiveGame
	}
	if r.state != RoomPlaying {
		return TeamNone, statef("room %s is not in play", r.code)
	}
	if team != r.currentTurn {
		return TeamNone, statef("it is not your turn")
	}
	return team, nil
}

// Hint recommends a question over the acting player's own remaining
// candidates and stores it as the pending question. A pending question
// may be overwritten by asking again. Returns nil when the candidate set
// no longer supports a discriminating question; the player should guess.
func (r *MatchRoom) Hint(id string, store *AnimalStore) (*Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, err := r.turnGateLocked(id)
	if err != nil {
		return nil, err
	}

	r.touchLocked()
	q := recommendQuestion(r.playerLocked(team).Remaining, store)
	if q != nil {
		r.lastQuestion = q
	}
	return q, nil
}

// AnswerResult reports one elimination step.
type AnswerResult struct {
	Question   Question
	Yes        bool
	Eliminated int
	Remaining  int
	NextTurn   Team
	KeptTurn   bool // true when a bonus turn was consumed
	OpponentID string
}

// Answer applies a yes/no answer to the pending question, filtering the
// acting player's candidate set, then advances the turn. A pending turn
// bonus lets the same team keep the turn; otherwise it flips.
func (r *MatchRoom) Answer(id string, isYes bool, store *AnimalStore) (AnswerResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, err := r.turnGateLocked(id)
	if err != nil {
		return AnswerResult{}, err
	}
	if r.lastQuestion == nil {
		return AnswerResult{}, statef("there is no pending question to answer")
	}

	r.touchLocked()
	p := r.playerLocked(team)
	q := *r.lastQuestion

	before := len(p.Remaining)
	p.Remaining = filterCandidates(p.Remaining, q, isYes, store)

	res := AnswerResult{
		Question:   q,
		Yes:        isYes,
		Eliminated: before - len(p.Remaining),
		Remaining:  len(p.Remaining),
		OpponentID: r.playerLocked(team.opponent()).ID,
	}

	if r.turnBonus > 0 {
		r.turnBonus--
		res.KeptTurn = true
	} else {
		r.currentTurn = team.opponent()
	}
	res.NextTurn = r.currentTurn
	r.lastQuestion = nil

	return res, nil
}

// GuessResult reports a guess against the opponent's secret.
type GuessResult struct {
	Correct      bool
	Secret       string // revealed on a correct guess
	OpponentID   string
	OpponentName string
	GuesserName  string
}

// Guess compares the acting player's guess against the opponent's
// secret. Correct ends the game; wrong hands the turn to the opponent
// and owes them one bonus extra turn on top.
func (r *MatchRoom) Guess(id, animal string) (GuessResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, err := r.turnGateLocked(id)
	if err != nil {
		return GuessResult{}, err
	}

	r.touchLocked()
	p := r.playerLocked(team)
	opp := r.playerLocked(team.opponent())

	res := GuessResult{
		OpponentID:   opp.ID,
		OpponentName: opp.Name,
		GuesserName:  p.Name,
	}

	if animal == opp.Secret {
		r.state = RoomGameover
		res.Correct = true
		res.Secret = opp.Secret
		return res, nil
	}

	// The failed guess costs the turn and grants the opponent one bonus
	// extra turn. The stale pending question goes with it.
	r.turnBonus = 1
	r.currentTurn = team.opponent()
	r.lastQuestion = nil

	return res, nil
}

// Check answers a player's question about their *own* secret animal,
// privately. Available in any state once the secret is chosen; never
// consumes a turn or touches shared state.
func (r *MatchRoom) Check(id, substring string, store *AnimalStore) (trait string, yes bool, found bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team := r.teamOfLocked(id)
	if team == TeamNone {
		return "", false, false, errNoActiveGame
	}

	p := r.playerLocked(team)
	if p.Secret == "" {
		return "", false, false, statef("choose your secret animal first")
	}

	trait, found = store.MatchTrait(substring)
	if !found {
		return "", false, false, nil
	}
	return trait, store.HasTrait(p.Secret, trait), true, nil
}

// End marks the room over, for explicit exits. Returns the other
// player's id, if any, so the caller can notify them.
func (r *MatchRoom) End(id string) (opponentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = RoomGameover
	if opp := r.playerLocked(r.teamOfLocked(id).opponent()); opp != nil {
		opponentID = opp.ID
	}
	return opponentID
}
