package forest

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lunavega/ecogame/progress"
	"github.com/lunavega/ecogame/sqlite"
	"github.com/lunavega/ecogame/structs"
)

// Game is the namespace for the forest's local board and save keys.
const Game = "idealforest"

const (
	writeWait = 10 * time.Second
	idleAfter = 10 * time.Minute
)

var spaceRun = regexp.MustCompile(`\s+`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HUD is the counter strip shown above the canvas.
type HUD struct {
	Trees  int     `json:"trees"`
	Points int     `json:"points"`
	Wind   int     `json:"wind"`
	Boost  float64 `json:"boost"`
}

// StateMessage is what subscribers receive every tick and after every
// command.
type StateMessage struct {
	Type       string                `json:"type"`
	Player     Player                `json:"player"`
	Trees      []structs.Tree        `json:"trees"`
	Winds      []structs.WindTurbine `json:"winds"`
	HUD        HUD                   `json:"hud"`
	Toast      string                `json:"toast,omitempty"`
	ServerTime int64                 `json:"serverTime"`
}

// Command is a discrete user action: target, select, plant, water, wind,
// sell, save.
type Command struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Session is one player's live forest.
type Session struct {
	ID    string
	World *World

	conn   *websocket.Conn
	connMu sync.Mutex

	toast    string
	lastTick time.Time
	lastSeen time.Time

	// last values flushed to the store, so the 20 Hz loop only writes
	// rows when something visible changed
	synced struct {
		points, trees, wind int
		valid               bool
	}
}

// Hub owns every live session and drives the shared tick loop.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store    *progress.Store
	db       *sql.DB
	costs    Costs
	tickRate int
}

func NewHub(store *progress.Store, db *sql.DB, costs Costs, tickRate int) *Hub {
	if tickRate <= 0 {
		tickRate = 20
	}
	return &Hub{
		sessions: make(map[string]*Session),
		store:    store,
		db:       db,
		costs:    costs,
		tickRate: tickRate,
	}
}

// Join creates a session for the named player. The shared store's total is
// loaded first and always wins over whatever the snapshot recorded.
func (h *Hub) Join(name string, w, hgt float64) (*Session, error) {
	if w <= 0 || hgt <= 0 {
		w, hgt = BaseW, BaseH
	}
	world := NewWorld(w, hgt, h.costs)

	name = strings.TrimSpace(spaceRun.ReplaceAllString(name, " "))
	if name != "" {
		world.Player.Name = name
		if err := h.store.SetActivePlayer(name); err != nil {
			return nil, err
		}
		if pts := h.store.LoadPointsForPlayer(name); pts > 0 {
			world.Player.Points = float64(pts)
		}
	}

	snap, err := sqlite.LoadSnapshot(h.db, saveKey(world.Player.Name))
	if err != nil {
		log.Printf("forest: load save for %q: %v", world.Player.Name, err)
	}
	world.Restore(snap, true) // keepPoints: shared total wins

	now := time.Now()
	sess := &Session{
		ID:       uuid.NewString(),
		World:    world,
		lastTick: now,
		lastSeen: now,
	}

	h.mu.Lock()
	h.sessions[sess.ID] = sess
	h.mu.Unlock()
	return sess, nil
}

func saveKey(name string) string {
	key := progress.Normalize(name)
	if key == "" {
		key = "player"
	}
	return key
}

// Session looks up a live session by id.
func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Do applies one command to a session and returns the resulting state.
// Validation failures come back as a toast with the state unchanged.
func (h *Hub) Do(id string, cmd Command) (StateMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[id]
	if !ok {
		return StateMessage{}, errors.New("no such session")
	}
	s.lastSeen = time.Now()
	w := s.World

	var toast string
	switch cmd.Type {
	case "target":
		w.SetTarget(cmd.X, cmd.Y)
		w.SelectNearest(cmd.X, cmd.Y, SelectRadius)
	case "select":
		w.SelectNearest(cmd.X, cmd.Y, SelectRadius)
	case "plant":
		toast, _ = w.Plant(w.Player.TargetX, w.Player.TargetY)
	case "water":
		toast, _ = w.WaterSelected()
	case "wind":
		toast, _ = w.BuildWind()
	case "sell":
		toast, _ = w.SellSelected()
	case "save":
		if err := h.saveLocked(s); err != nil {
			return StateMessage{}, err
		}
		toast = "Saved!"
	default:
		return StateMessage{}, errors.New("unknown command " + cmd.Type)
	}

	h.syncLocked(s)
	s.toast = toast
	return h.stateLocked(s), nil
}

// Save persists the session's snapshot and refreshes the local board.
func (h *Hub) Save(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok {
		return errors.New("no such session")
	}
	return h.saveLocked(s)
}

func (h *Hub) saveLocked(s *Session) error {
	snap := s.World.Snapshot()
	if err := sqlite.SaveSnapshot(h.db, saveKey(snap.Player.Name), snap); err != nil {
		return err
	}
	return h.boardLocked(s)
}

// WorldCopy hands out a detached copy of the session's world for
// rendering, so rasterization happens outside the hub lock.
func (h *Hub) WorldCopy(id string) (*World, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok {
		return nil, false
	}
	w := *s.World
	w.Trees = append([]structs.Tree(nil), s.World.Trees...)
	w.Winds = append([]structs.WindTurbine(nil), s.World.Winds...)
	return &w, true
}

// State returns the current state message without applying a command.
func (h *Hub) State(id string) (StateMessage, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok {
		return StateMessage{}, false
	}
	return h.stateLocked(s), true
}

func (h *Hub) stateLocked(s *Session) StateMessage {
	w := s.World
	msg := StateMessage{
		Type:       "state",
		Player:     w.Player,
		Trees:      append([]structs.Tree(nil), w.Trees...),
		Winds:      append([]structs.WindTurbine(nil), w.Winds...),
		HUD:        HUD{Trees: len(w.Trees), Points: w.DisplayPoints(), Wind: w.Player.Wind, Boost: w.Player.Boost},
		Toast:      s.toast,
		ServerTime: time.Now().UnixMilli(),
	}
	s.toast = ""
	return msg
}

// syncLocked is the Sync step of the tick: floor the points into the shared
// store, refresh the boost from the board top and upsert the board entry.
// Writes are skipped while nothing visible changed.
func (h *Hub) syncLocked(s *Session) {
	w := s.World
	points := w.DisplayPoints()

	if s.synced.valid && s.synced.points == points &&
		s.synced.trees == len(w.Trees) && s.synced.wind == w.Player.Wind {
		return
	}

	if w.Player.Name != "" {
		if err := h.store.SetTotal(w.Player.Name, points); err != nil {
			log.Printf("forest: shared sync for %q: %v", w.Player.Name, err)
		}
	}
	if err := h.boardLocked(s); err != nil {
		log.Printf("forest: board sync for %q: %v", w.Player.Name, err)
	}
	w.Boost(h.store.TopScore(Game))

	s.synced.points = points
	s.synced.trees = len(w.Trees)
	s.synced.wind = w.Player.Wind
	s.synced.valid = true
}

func (h *Hub) boardLocked(s *Session) error {
	w := s.World
	return h.store.UpsertEntry(Game, structs.LocalBoardEntry{
		Name:  w.Player.Name,
		Score: w.DisplayPoints(),
		Wind:  w.Player.Wind,
		Trees: len(w.Trees),
	})
}

// Run drives every session at the configured tick rate until stop closes.
// Per tick and per session the order is fixed: move+accrue (Advance),
// render (state push), sync (store writes).
func (h *Hub) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(h.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			h.tick(now)
		}
	}
}

func (h *Hub) tick(now time.Time) {
	h.mu.Lock()
	type outgoing struct {
		conn *websocket.Conn
		mu   *sync.Mutex
		data []byte
		sess *Session
	}
	var sends []outgoing

	for id, s := range h.sessions {
		if s.conn == nil && now.Sub(s.lastSeen) > idleAfter {
			if err := h.saveLocked(s); err != nil {
				log.Printf("forest: save on evict %s: %v", id, err)
			}
			delete(h.sessions, id)
			continue
		}

		dt := now.Sub(s.lastTick).Seconds()
		s.lastTick = now
		s.World.Advance(dt)

		if s.conn != nil {
			msg := h.stateLocked(s)
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("forest: marshal state: %v", err)
			} else {
				sends = append(sends, outgoing{conn: s.conn, mu: &s.connMu, data: data, sess: s})
			}
		}

		h.syncLocked(s)
	}
	h.mu.Unlock()

	for _, out := range sends {
		out.mu.Lock()
		out.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := out.conn.WriteMessage(websocket.TextMessage, out.data)
		out.mu.Unlock()
		if err != nil {
			h.detach(out.sess, out.conn)
		}
	}
}

// ServeWS upgrades the request and streams state to the session, reading
// commands until the peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok {
		s.lastSeen = time.Now()
	}
	h.mu.Unlock()
	if !ok {
		return errors.New("no such session")
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.conn = conn
	h.mu.Unlock()

	go h.readLoop(s, conn)
	return nil
}

func (h *Hub) readLoop(s *Session, conn *websocket.Conn) {
	defer h.detach(s, conn)
	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		state, err := h.Do(s.ID, cmd)
		if err != nil {
			log.Printf("forest: command %q on %s: %v", cmd.Type, s.ID, err)
			continue
		}
		// Reply immediately: the command's toast lives only in this
		// message, the tick push would drop it.
		data, err := json.Marshal(state)
		if err != nil {
			log.Printf("forest: marshal state: %v", err)
			continue
		}
		s.connMu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteMessage(websocket.TextMessage, data)
		s.connMu.Unlock()
		if err != nil {
			return
		}
	}
}

func (h *Hub) detach(s *Session, conn *websocket.Conn) {
	h.mu.Lock()
	if s.conn == conn {
		s.conn = nil
		s.lastSeen = time.Now()
	}
	h.mu.Unlock()
	conn.Close()
}
