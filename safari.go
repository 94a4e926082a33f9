// Beastbox Safari Game
//
// Twenty questions, with animals. Solo mode plays against the bot: it
// draws a secret animal and the player narrows it down by asking about
// traits. Match mode pits two players against each other in a room
// identified by a short join code: each picks a secret animal, a dice
// roll decides who starts, and turns alternate between asking the
// recommended question of the opponent and recording the answer, with a
// penalty bonus turn granted when a guess misses.
//
// Features:
// - WebSocket endpoint per player: /safari/ws
// - Players identified by cookie (playerID)
// - Typed command messages from clients; no free-text parsing server-side
//   beyond a keyword tokenizer
// - Question recommendation picks the trait whose yes/no split over the
//   remaining candidates is closest to even
// - Private "check" lets a player look up their own secret's traits
// - Rooms auto-reaped after a configurable idle timeout
// - Random 4-char room codes via crypto/rand, with collision check
// - In-browser QR button to share a join code, backed by go-qrcode

package main

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type string `json:"type"` // "command"
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// Messages sent to clients
type ServerMessage struct {
	Type    string   `json:"type"` // "message"
	Text    string   `json:"text"`
	Replies []string `json:"replies,omitempty"`
}

func serverMessage(m Message) ServerMessage {
	return ServerMessage{
		Type:    "message",
		Text:    m.Text,
		Replies: m.Replies,
	}
}

type Client struct {
	conn     *websocket.Conn
	send     chan ServerMessage
	playerID string
}

// connRegistry tracks the live connection per participant so pushes to
// other players can be delivered. One connection per participant; a
// reconnect replaces the old one.
type connRegistry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func newConnRegistry() *connRegistry {
	return &connRegistry{
		clients: make(map[string]*Client),
	}
}

func (cr *connRegistry) register(c *Client) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if old, ok := cr.clients[c.playerID]; ok && old != c {
		close(old.send)
		_ = old.conn.Close()
	}
	cr.clients[c.playerID] = c
}

func (cr *connRegistry) unregister(c *Client) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cur, ok := cr.clients[c.playerID]; ok && cur == c {
		delete(cr.clients, c.playerID)
		close(c.send)
	}
}

// push delivers a message to a participant's connection, best-effort.
// A slow client with a full buffer is dropped rather than blocking the
// sender; game state has already committed either way.
func (cr *connRegistry) push(participant string, msg ServerMessage) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	c, ok := cr.clients[participant]
	if !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(cr.clients, participant)
		close(c.send)
	}
}

// deliver fans out one handled intent's effect: the direct reply to the
// caller, the pushes through the registry.
func (cr *connRegistry) deliver(caller string, eff Effect) {
	cr.push(caller, serverMessage(eff.Reply))
	for _, p := range eff.Pushes {
		cr.push(p.Participant, serverMessage(p.Message))
	}
}

// parseCommand tokenizes a client command line into an intent. The
// grammar is a fixed keyword plus an optional argument; anything
// unrecognized routes home.
func parseCommand(participant, name, line string) Intent {
	in := Intent{
		Participant: participant,
		Name:        name,
		Kind:        IntentHome,
	}

	word, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	in.Text = arg

	switch strings.ToLower(word) {
	case "rules", "help":
		in.Kind = IntentRules
	case "info":
		in.Kind = IntentInfo
	case "solo", "practice":
		in.Kind = IntentStartSolo
	case "room", "create":
		in.Kind = IntentStartRoom
	case "join":
		in.Kind = IntentJoinRoom
	case "secret":
		in.Kind = IntentSetSecret
	case "roll":
		in.Kind = IntentRoll
	case "hint":
		in.Kind = IntentRequestHint
	case "yes":
		in.Kind = IntentAnswer
		in.Yes = true
	case "no":
		in.Kind = IntentAnswer
	case "guess":
		in.Kind = IntentGuess
	case "check":
		in.Kind = IntentCheck
	case "ask":
		in.Kind = IntentFreeformAsk
	case "quit", "end", "exit":
		in.Kind = IntentEndGame
	}

	return in
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "beastbox_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

func serveWS(cfg *Config, d *Dispatcher, cr *connRegistry, logger *log.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan ServerMessage, 8),
			playerID: playerID,
		}

		cr.register(client)

		// Greet the connection so the client has something to render.
		cr.push(playerID, serverMessage(homeMessage()))

		go client.writePump()
		client.readPump(d, cr)
	}
}

func (c *Client) readPump(d *Dispatcher, cr *connRegistry) {
	defer func() {
		cr.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if msg.Type != "command" {
			continue
		}

		name := strings.TrimSpace(msg.Name)
		if name == "" {
			name = "Player"
		}

		eff := d.Handle(parseCommand(c.playerID, name, msg.Text))
		cr.deliver(c.playerID, eff)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for a room join URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		code := strings.ToUpper(r.URL.Query().Get("code"))
		if code == "" {
			http.Error(w, "missing room code", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/safari?join=" + code

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// reaperLoop periodically ends games idle longer than maxIdle and tells
// their players.
func reaperLoop(d *SessionDirectory, cr *connRegistry, maxIdle time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(maxIdle / 2)
	for range ticker.C {
		for _, participant := range d.Reap(maxIdle) {
			logger.Info("reaped idle game", "participant", participant)
			cr.push(participant, serverMessage(Message{
				Text:    "Your game timed out after inactivity.",
				Replies: []string{"solo", "room"},
			}))
		}
	}
}

// registerSafariGame sets up routes so that:
//   - $path           → HTML client
//   - $path/ws        → per-player WebSocket
//   - $path/qr?code=X → PNG QR code linking to a join URL
func registerSafariGame(cfg *Config, path string, mux *httprouter.Router, store *AnimalStore, logger *log.Logger) {
	dir := newSessionDirectory()
	d := newDispatcher(store, dir, logger)
	cr := newConnRegistry()

	if cfg.sessionTimeout > 0 {
		go reaperLoop(dir, cr, cfg.sessionTimeout, logger)
	}

	mux.GET(cfg.prefix+path, getIndexHandler(cfg))
	mux.GET(cfg.prefix+path+"/ws", serveWS(cfg, d, cr, logger))
	mux.GET(cfg.prefix+path+"/qr", qrHandler(cfg))
}
