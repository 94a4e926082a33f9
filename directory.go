package main

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"
)

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const roomCodeLength = 4

func randInt(n int) int {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return int(b[0]) % n
}

// SessionDirectory is the process-wide registry of who is playing what:
// participant id → solo session or room membership, plus room code →
// room. It owns lifecycle only; rooms and sessions serialize their own
// mutations. All operations are safe for concurrent use.
type SessionDirectory struct {
	mu      sync.RWMutex
	solos   map[string]*SoloSession
	rooms   map[string]*MatchRoom
	members map[string]*MatchRoom
}

func newSessionDirectory() *SessionDirectory {
	return &SessionDirectory{
		solos:   make(map[string]*SoloSession),
		rooms:   make(map[string]*MatchRoom),
		members: make(map[string]*MatchRoom),
	}
}

// a participant holds at most one game at a time
func (d *SessionDirectory) busyLocked(participant string) bool {
	if _, ok := d.solos[participant]; ok {
		return true
	}
	_, ok := d.members[participant]
	return ok
}

// newRoomCodeLocked generates a short uppercase join code, retrying on
// collision with a live room.
func (d *SessionDirectory) newRoomCodeLocked() string {
	for {
		var sb strings.Builder
		for i := 0; i < roomCodeLength; i++ {
			sb.WriteByte(roomCodeAlphabet[randInt(len(roomCodeAlphabet))])
		}
		code := sb.String()

		if _, exists := d.rooms[code]; !exists {
			return code
		}
	}
}

// StartSolo creates a practice session for the participant, enforcing
// one game per participant.
func (d *SessionDirectory) StartSolo(participant string, store *AnimalStore) (*SoloSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.busyLocked(participant) {
		return nil, statef("you already have a game in progress; end it first")
	}

	s := newSoloSession(participant, store)
	d.solos[participant] = s
	return s, nil
}

// CreateRoom opens a new match room with the participant as the red
// player and returns it with its join code assigned.
func (d *SessionDirectory) CreateRoom(participant, name string, store *AnimalStore) (*MatchRoom, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.busyLocked(participant) {
		return nil, statef("you already have a game in progress; end it first")
	}

	room := newMatchRoom(d.newRoomCodeLocked(), participant, name, store)
	d.rooms[room.Code()] = room
	d.members[participant] = room
	return room, nil
}

// JoinRoom adds the participant to an existing waiting room as the blue
// player. Returns the room and the red player's id and name.
func (d *SessionDirectory) JoinRoom(participant, name, code string) (*MatchRoom, string, string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.busyLocked(participant) {
		return nil, "", "", statef("you already have a game in progress; end it first")
	}

	room, ok := d.rooms[code]
	if !ok {
		return nil, "", "", validationf("no room with code %s", code)
	}

	redID, redName, err := room.Join(participant, name)
	if err != nil {
		return nil, "", "", err
	}

	d.members[participant] = room
	return room, redID, redName, nil
}

// Solo returns the participant's practice session, if any.
func (d *SessionDirectory) Solo(participant string) (*SoloSession, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.solos[participant]
	return s, ok
}

// Room returns the room the participant is playing in, if any.
func (d *SessionDirectory) Room(participant string) (*MatchRoom, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.members[participant]
	return room, ok
}

// EndSolo removes the participant's practice session.
func (d *SessionDirectory) EndSolo(participant string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.solos, participant)
}

// RemoveRoom drops a finished room and all membership entries pointing
// at it. Safe to call twice; a stale reference simply finds nothing.
func (d *SessionDirectory) RemoveRoom(room *MatchRoom) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.removeRoomLocked(room)
}

func (d *SessionDirectory) removeRoomLocked(room *MatchRoom) {
	delete(d.rooms, room.Code())
	for participant, member := range d.members {
		if member == room {
			delete(d.members, participant)
		}
	}
}

// Reap removes rooms and sessions idle longer than maxIdle and returns
// the participants whose games were ended, so the caller can notify
// them. Abandoned rooms otherwise live forever.
func (d *SessionDirectory) Reap(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	d.mu.Lock()
	defer d.mu.Unlock()

	var reaped []string

	for participant, s := range d.solos {
		if s.idleSince().Before(cutoff) {
			delete(d.solos, participant)
			reaped = append(reaped, participant)
		}
	}

	for _, room := range d.rooms {
		if room.idleSince().Before(cutoff) {
			reaped = append(reaped, room.MemberIDs()...)
			d.removeRoomLocked(room)
		}
	}

	return reaped
}
