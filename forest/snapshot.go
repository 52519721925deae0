package forest

import "github.com/lunavega/ecogame/structs"

// Snapshot captures everything the save file needs to rebuild the forest.
func (w *World) Snapshot() *structs.ForestSnapshot {
	snap := &structs.ForestSnapshot{
		Player: structs.ForestPlayer{
			Name:   w.Player.Name,
			Points: w.Player.Points,
			Wind:   w.Player.Wind,
		},
		Trees: make([]structs.Tree, len(w.Trees)),
		Winds: make([]structs.WindTurbine, len(w.Winds)),
	}
	copy(snap.Trees, w.Trees)
	copy(snap.Winds, w.Winds)
	return snap
}

// Restore rebuilds the layout from a saved snapshot. With keepPoints the
// purse is untouched, so a total pulled from the shared store always wins
// over a stale save. Old saves may carry trees without a stage; those are
// defaulted and clamped into range instead of trusted.
func (w *World) Restore(snap *structs.ForestSnapshot, keepPoints bool) {
	if snap == nil {
		return
	}
	if !keepPoints {
		w.Player.Points = snap.Player.Points
	}
	w.Player.Wind = snap.Player.Wind

	w.Trees = w.Trees[:0]
	for _, t := range snap.Trees {
		if t.Stage < MinStage {
			t.Stage = MinStage
		} else if t.Stage > MaxStage {
			t.Stage = MaxStage
		}
		w.Trees = append(w.Trees, t)
	}

	w.Winds = w.Winds[:0]
	w.Winds = append(w.Winds, snap.Winds...)
	w.Player.Selected = -1
}
