package api

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lunavega/ecogame/progress"
	"github.com/lunavega/ecogame/sqlite"
	"github.com/lunavega/ecogame/structs"
)

func InitDB() *sql.DB {
	db, err := sql.Open("sqlite3", "game.db")
	if err != nil {
		log.Fatal(err)
	}

	sqlite.InitializeDatabase(db)

	return db
}

// SetPlayer records the active player for this tab, creating a zero record
// for new names.
func SetPlayer(store *progress.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		if strings.TrimSpace(name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: name"})
			return
		}
		if err := store.SetActivePlayer(name); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set active player"})
			return
		}
		c.JSON(http.StatusOK, store.ActiveSummary())
	}
}

// PlayerSummary is the HUD read: active name plus shared total.
func PlayerSummary(store *progress.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.ActiveSummary())
	}
}

// PlayerPoints returns the shared total for an arbitrary name (0 when
// unknown).
func PlayerPoints(store *progress.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		c.JSON(http.StatusOK, gin.H{"name": name, "total": store.LoadPointsForPlayer(name)})
	}
}

// Leaderboard returns the full shared collection, best first.
func Leaderboard(store *progress.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := store.Leaderboard()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
			return
		}
		if records == nil {
			records = []structs.PlayerRecord{}
		}
		c.JSON(http.StatusOK, gin.H{"players": records})
	}
}

type scorePost struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	Game  string `json:"game"`
}

// PostScore is the sink the mini-games POST finished rounds to:
// {name, total, game}. The delta is added to the shared store and, when a
// game tag is present, mirrored onto that game's local board as the last
// session's score.
func PostScore(store *progress.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body scorePost
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid score payload"})
			return
		}

		rec, err := store.UpsertScore(body.Name, body.Total)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record score"})
			return
		}

		if body.Game != "" {
			entry := structs.LocalBoardEntry{Name: rec.Name, Score: body.Total}
			if err := store.UpsertEntry(body.Game, entry); err != nil {
				log.Printf("board upsert for %q/%q: %v", body.Game, rec.Name, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "player": rec})
	}
}

// Board returns one game's local board. An empty board answers with an
// explicit message, never a bare empty table.
func Board(store *progress.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		game := c.Query("game")
		if game == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: game"})
			return
		}
		entries, err := store.Board(game)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load board"})
			return
		}
		if len(entries) == 0 {
			c.JSON(http.StatusOK, gin.H{"entries": []structs.LocalBoardEntry{}, "message": progress.NoScoresMessage})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}
