package progress

import (
	"log"

	"github.com/lunavega/ecogame/structs"
)

// NoScoresMessage is what an empty board renders instead of a bare table.
const NoScoresMessage = "No scores yet. Play to earn points!"

// UpsertEntry replaces the board row matching the entry's case-insensitive
// name, or appends a new one. The board is scoped to a single game and never
// reconciled with the shared store.
func (s *Store) UpsertEntry(game string, entry structs.LocalBoardEntry) error {
	key := Normalize(entry.Name)
	if key == "" {
		key = Normalize(FallbackName)
		entry.Name = FallbackName
	}
	_, err := s.db.Exec("INSERT OR REPLACE INTO Boards (Game, Key, Name, Score, Wind, Trees) VALUES (?, ?, ?, ?, ?, ?)",
		game, key, entry.Name, entry.Score, entry.Wind, entry.Trees)
	return err
}

// Board returns the game's entries sorted by score descending.
func (s *Store) Board(game string) ([]structs.LocalBoardEntry, error) {
	rows, err := s.db.Query("SELECT Name, Score, Wind, Trees FROM Boards WHERE Game = ? ORDER BY Score DESC, rowid ASC", game)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []structs.LocalBoardEntry
	for rows.Next() {
		var e structs.LocalBoardEntry
		if err := rows.Scan(&e.Name, &e.Score, &e.Wind, &e.Trees); err != nil {
			log.Printf("skipping bad board row: %v", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TopScore is the best score on the game's board, 0 when empty. The forest
// boost display reads this.
func (s *Store) TopScore(game string) int {
	entries, err := s.Board(game)
	if err != nil || len(entries) == 0 {
		return 0
	}
	return entries[0].Score
}
