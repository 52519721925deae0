package progress

import (
	"testing"

	"github.com/lunavega/ecogame/structs"
)

func TestBoardUpsertReplacesByName(t *testing.T) {
	s := newStore(t)

	if err := s.UpsertEntry("idealforest", structs.LocalBoardEntry{Name: "Ana", Score: 10, Trees: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertEntry("idealforest", structs.LocalBoardEntry{Name: "ana", Score: 25, Trees: 3, Wind: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	entries, err := s.Board("idealforest")
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want replaced single row", len(entries))
	}
	if entries[0].Score != 25 || entries[0].Trees != 3 || entries[0].Wind != 1 {
		t.Fatalf("entry = %+v", entries[0])
	}
}

func TestBoardSortedAndScoped(t *testing.T) {
	s := newStore(t)
	s.UpsertEntry("idealforest", structs.LocalBoardEntry{Name: "Ana", Score: 10})
	s.UpsertEntry("idealforest", structs.LocalBoardEntry{Name: "Bo", Score: 90})
	s.UpsertEntry("Energy Match", structs.LocalBoardEntry{Name: "Cleo", Score: 500})

	entries, err := s.Board("idealforest")
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("board leaked across games: %v", entries)
	}
	if entries[0].Name != "Bo" {
		t.Fatalf("not sorted by score: %v", entries)
	}
	if got := s.TopScore("idealforest"); got != 90 {
		t.Fatalf("top score = %d, want 90", got)
	}
	if got := s.TopScore("empty-game"); got != 0 {
		t.Fatalf("empty board top score = %d", got)
	}
}
