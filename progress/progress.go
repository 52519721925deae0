// Shared progression store: one record per player, written by every
// mini-game, read back wherever a total is displayed.
package progress

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/lunavega/ecogame/structs"
)

// FallbackName stands in when a score event arrives with no usable name.
const FallbackName = "Player"

const lastPlayerKey = "lastPlayer"

// Store is the progression repository every game controller gets injected.
// There is one instance per process, flushed on every write.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Normalize produces the case-insensitive identity key of a player name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SetActivePlayer records name as this tab's active player, creating a zero
// record when the name is new. Empty names are a silent no-op.
func (s *Store) SetActivePlayer(name string) error {
	display := strings.TrimSpace(name)
	if display == "" {
		return nil
	}
	key := strings.ToLower(display)

	_, err := s.db.Exec("INSERT OR IGNORE INTO Players (Key, Name, Total, Last) VALUES (?, ?, 0, ?)",
		key, display, time.Now().UnixMilli())
	if err != nil {
		return err
	}

	_, err = s.db.Exec("INSERT OR REPLACE INTO Meta (Key, Value) VALUES (?, ?)", lastPlayerKey, display)
	return err
}

// ActivePlayer returns the recorded active name, or "" when none is set.
func (s *Store) ActivePlayer() string {
	var name string
	err := s.db.QueryRow("SELECT Value FROM Meta WHERE Key = ?", lastPlayerKey).Scan(&name)
	if err != nil {
		return ""
	}
	return name
}

// UpsertScore adds delta to the player's total, creating the record when the
// case-insensitive name is unknown. Delta may be negative (penalties); no
// floor is enforced at this layer.
func (s *Store) UpsertScore(name string, delta int) (structs.PlayerRecord, error) {
	display := strings.TrimSpace(name)
	if display == "" {
		display = FallbackName
	}
	key := strings.ToLower(display)
	now := time.Now().UnixMilli()

	// Single-statement upsert so concurrent score posts never lose a
	// delta. The stored display name keeps the first spelling.
	rec := structs.PlayerRecord{Last: now}
	_, err := s.db.Exec(`INSERT INTO Players (Key, Name, Total, Last) VALUES (?, ?, ?, ?)
		ON CONFLICT(Key) DO UPDATE SET Total = Total + excluded.Total, Last = excluded.Last`,
		key, display, delta, now)
	if err != nil {
		return rec, err
	}
	err = s.db.QueryRow("SELECT Name, Total FROM Players WHERE Key = ?", key).Scan(&rec.Name, &rec.Total)
	return rec, err
}

// SetTotal writes an absolute total for the player, floored at zero. The
// forest HUD sync uses this so a stale snapshot can never push the shared
// total backwards below zero.
func (s *Store) SetTotal(name string, total int) error {
	display := strings.TrimSpace(name)
	if display == "" {
		return nil
	}
	if total < 0 {
		total = 0
	}
	key := strings.ToLower(display)
	now := time.Now().UnixMilli()

	_, err := s.db.Exec(`INSERT INTO Players (Key, Name, Total, Last) VALUES (?, ?, ?, ?)
		ON CONFLICT(Key) DO UPDATE SET Total = excluded.Total, Last = excluded.Last`,
		key, display, total, now)
	return err
}

// LoadPointsForPlayer returns the stored total, or 0 for an empty or
// unknown name.
func (s *Store) LoadPointsForPlayer(name string) int {
	key := Normalize(name)
	if key == "" {
		return 0
	}
	var total int
	if err := s.db.QueryRow("SELECT Total FROM Players WHERE Key = ?", key).Scan(&total); err != nil {
		return 0
	}
	return total
}

// ActiveSummary reads the active player's name and total for display. Pure
// read, no side effect on the store.
func (s *Store) ActiveSummary() structs.PlayerRecord {
	name := s.ActivePlayer()
	if name == "" {
		name = FallbackName
	}
	return structs.PlayerRecord{Name: name, Total: s.LoadPointsForPlayer(name)}
}

// Leaderboard returns the full collection sorted by total descending, ties
// kept in insertion order. Rows that fail to scan are skipped rather than
// failing the whole read.
func (s *Store) Leaderboard() ([]structs.PlayerRecord, error) {
	rows, err := s.db.Query("SELECT Name, Total, Last FROM Players ORDER BY Total DESC, rowid ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []structs.PlayerRecord
	for rows.Next() {
		var rec structs.PlayerRecord
		if err := rows.Scan(&rec.Name, &rec.Total, &rec.Last); err != nil {
			log.Printf("skipping bad player row: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
