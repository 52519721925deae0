package forest

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lunavega/ecogame/progress"
	"github.com/lunavega/ecogame/sqlite"
)

func newHub(t *testing.T) (*Hub, *progress.Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sqlite.InitializeDatabase(db)

	store := progress.NewStore(db)
	return NewHub(store, db, Costs{SellReward: 5}, 20), store, db
}

func TestJoinLoadsSharedTotal(t *testing.T) {
	hub, store, _ := newHub(t)
	if _, err := store.UpsertScore("Kai", 30); err != nil {
		t.Fatalf("seed score: %v", err)
	}

	sess, err := hub.Join("  Kai  ", BaseW, BaseH)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if sess.World.Player.Name != "Kai" {
		t.Fatalf("name = %q", sess.World.Player.Name)
	}
	if sess.World.Player.Points != 30 {
		t.Fatalf("points = %f, want shared 30", sess.World.Player.Points)
	}
}

func TestCommandsSyncStoreAndBoard(t *testing.T) {
	hub, store, _ := newHub(t)
	sess, err := hub.Join("Kai", BaseW, BaseH)
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := hub.Do(sess.ID, Command{Type: "target", X: 100, Y: 500}); err != nil {
		t.Fatalf("target: %v", err)
	}
	if _, err := hub.Do(sess.ID, Command{Type: "plant"}); err != nil {
		t.Fatalf("plant: %v", err)
	}
	if _, err := hub.Do(sess.ID, Command{Type: "select", X: 100, Y: 500}); err != nil {
		t.Fatalf("select: %v", err)
	}
	state, err := hub.Do(sess.ID, Command{Type: "sell"})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}

	if state.HUD.Points != 5 {
		t.Fatalf("HUD points = %d, want 5", state.HUD.Points)
	}
	if got := store.LoadPointsForPlayer("kai "); got != 5 {
		t.Fatalf("shared total = %d, want 5", got)
	}

	entries, err := store.Board(Game)
	if err != nil || len(entries) != 1 {
		t.Fatalf("board entries = %v (err %v)", entries, err)
	}
	if entries[0].Name != "Kai" || entries[0].Score != 5 {
		t.Fatalf("board entry = %+v", entries[0])
	}
}

func TestSavePersistsSnapshot(t *testing.T) {
	hub, _, db := newHub(t)
	sess, err := hub.Join("Kai", BaseW, BaseH)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := hub.Do(sess.ID, Command{Type: "wind"}); err != nil {
		t.Fatalf("wind: %v", err)
	}
	if err := hub.Save(sess.ID); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := sqlite.LoadSnapshot(db, "kai")
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snap == nil || snap.Player.Wind != 1 || len(snap.Winds) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

// A rejected action must surface its toast to websocket clients, not just
// the HTTP command endpoint.
func TestSocketCommandCarriesToast(t *testing.T) {
	hub, _, _ := newHub(t)
	sess, err := hub.Join("Kai", BaseW, BaseH)
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.ServeWS(w, r, sess.ID); err != nil {
			t.Errorf("serve ws: %v", err)
		}
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(Command{Type: "water"}); err != nil {
		t.Fatalf("send command: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var msg StateMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read state: %v", err)
		}
		if msg.Toast == "Select a tree first" {
			return
		}
		if msg.Toast != "" {
			t.Fatalf("unexpected toast %q", msg.Toast)
		}
	}
	t.Fatal("rejection toast never reached the socket")
}

func TestUnknownSessionAndCommand(t *testing.T) {
	hub, _, _ := newHub(t)
	if _, err := hub.Do("nope", Command{Type: "plant"}); err == nil {
		t.Fatal("expected error for unknown session")
	}
	sess, _ := hub.Join("Kai", BaseW, BaseH)
	if _, err := hub.Do(sess.ID, Command{Type: "dance"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
