package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lunavega/ecogame/progress"
	"github.com/lunavega/ecogame/sqlite"
	"github.com/lunavega/ecogame/structs"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sqlite.InitializeDatabase(db)
	store := progress.NewStore(db)

	router := gin.New()
	router.GET("/api/player/set", SetPlayer(store))
	router.GET("/api/player/summary", PlayerSummary(store))
	router.GET("/api/leaderboard", Leaderboard(store))
	router.POST("/api/leaderboard", PostScore(store))
	router.GET("/api/board", Board(store))
	router.GET("/api/energy/deck", EnergyDeck())
	return router
}

func do(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPostScoreRoundTrip(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/leaderboard", `{"name":"Rio","total":25,"game":"Energy Match"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first post status %d: %s", rec.Code, rec.Body)
	}
	rec = do(t, router, http.MethodPost, "/api/leaderboard", `{"name":"rio","total":5,"game":"Energy Match"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second post status %d: %s", rec.Code, rec.Body)
	}

	// Shared store holds the cumulative sum.
	rec = do(t, router, http.MethodGet, "/api/leaderboard", "")
	var lb struct {
		Players []structs.PlayerRecord `json:"players"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &lb); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if len(lb.Players) != 1 || lb.Players[0].Total != 30 {
		t.Fatalf("leaderboard = %+v, want one player with 30", lb.Players)
	}

	// Local board keeps only the last session's score.
	rec = do(t, router, http.MethodGet, "/api/board?game=Energy+Match", "")
	var board struct {
		Entries []structs.LocalBoardEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if len(board.Entries) != 1 || board.Entries[0].Score != 5 {
		t.Fatalf("board = %+v, want last-session score 5", board.Entries)
	}
}

func TestBoardEmptyState(t *testing.T) {
	router := newRouter(t)
	rec := do(t, router, http.MethodGet, "/api/board?game=nothing", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body struct {
		Entries []structs.LocalBoardEntry `json:"entries"`
		Message string                    `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != progress.NoScoresMessage {
		t.Fatalf("empty board message = %q", body.Message)
	}
}

func TestSetPlayerValidation(t *testing.T) {
	router := newRouter(t)
	if rec := do(t, router, http.MethodGet, "/api/player/set", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing name status %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/api/player/set?name=Mia", ""); rec.Code != http.StatusOK {
		t.Fatalf("set status %d", rec.Code)
	}

	rec := do(t, router, http.MethodGet, "/api/player/summary", "")
	var summary structs.PlayerRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Name != "Mia" || summary.Total != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestEnergyDeckEndpoint(t *testing.T) {
	router := newRouter(t)
	rec := do(t, router, http.MethodGet, "/api/energy/deck", "")
	var body struct {
		Deck    []structs.EnergyCard `json:"deck"`
		Correct int                  `json:"correct"`
		Wrong   int                  `json:"wrong"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode deck: %v", err)
	}
	if len(body.Deck) != 12 {
		t.Fatalf("deck size %d, want 12", len(body.Deck))
	}
	if body.Correct != 30 || body.Wrong != -1 {
		t.Fatalf("scoring constants %d/%d", body.Correct, body.Wrong)
	}
}
