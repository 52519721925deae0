package sqlite

import (
	"database/sql"
	"encoding/json"
	"log"

	"github.com/lunavega/ecogame/structs"
)

const createPlayersTableSQL = `
CREATE TABLE IF NOT EXISTS Players (
    Key TEXT PRIMARY KEY,
    Name TEXT,
    Total INTEGER,
    Last INTEGER
);
`

const createMetaTableSQL = `
CREATE TABLE IF NOT EXISTS Meta (
    Key TEXT PRIMARY KEY,
    Value TEXT
);
`

const createBoardsTableSQL = `
CREATE TABLE IF NOT EXISTS Boards (
    Game TEXT,
    Key TEXT,
    Name TEXT,
    Score INTEGER,
    Wind INTEGER,
    Trees INTEGER,
    PRIMARY KEY (Game, Key)
);
`

const createSavesTableSQL = `
CREATE TABLE IF NOT EXISTS Saves (
    Key TEXT PRIMARY KEY,
    Player TEXT,
    Points REAL,
    Wind INTEGER,
    Trees TEXT,
    Winds TEXT
);
`

const createBoardsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_board_game ON Boards (Game);
`

func executeSQL(db *sql.DB, sqlStatement string) {
	_, err := db.Exec(sqlStatement)
	if err != nil {
		log.Fatalf("Error executing SQL statement: %s\n%s", sqlStatement, err)
	}
}

func InitializeDatabase(db *sql.DB) {
	executeSQL(db, createPlayersTableSQL)
	executeSQL(db, createMetaTableSQL)
	executeSQL(db, createBoardsTableSQL)
	executeSQL(db, createSavesTableSQL)
	executeSQL(db, createBoardsIndexSQL)
}

// SaveSnapshot persists one player's forest layout under its lowercased
// player key. Entity collections are stored as json columns.
func SaveSnapshot(db *sql.DB, key string, snap *structs.ForestSnapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	treesData, err := json.Marshal(snap.Trees)
	if err != nil {
		tx.Rollback()
		return err
	}
	windsData, err := json.Marshal(snap.Winds)
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Exec("INSERT OR REPLACE INTO Saves (Key, Player, Points, Wind, Trees, Winds) VALUES (?, ?, ?, ?, ?, ?)",
		key, snap.Player.Name, snap.Player.Points, snap.Player.Wind, string(treesData), string(windsData))
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// LoadSnapshot returns the saved layout for the key, or nil when there is no
// save or the stored row no longer parses (a bad row behaves like no save).
func LoadSnapshot(db *sql.DB, key string) (*structs.ForestSnapshot, error) {
	var snap structs.ForestSnapshot
	var treesData, windsData string

	err := db.QueryRow("SELECT Player, Points, Wind, Trees, Winds FROM Saves WHERE Key = ?", key).Scan(
		&snap.Player.Name, &snap.Player.Points, &snap.Player.Wind, &treesData, &windsData,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(treesData), &snap.Trees); err != nil {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(windsData), &snap.Winds); err != nil {
		return nil, nil
	}
	return &snap, nil
}
