// Ideal-forest simulation. Growth is strictly action-gated: elapsed time
// only ever moves the avatar and accrues turbine points.
package forest

import (
	"fmt"
	"math"

	"github.com/lunavega/ecogame/structs"
)

const (
	// Reference resolution; scene scale is min(w/BaseW, h/BaseH)
	BaseW = 1280.0
	BaseH = 720.0

	PlayerSpeed = 260.0 // world units per second
	MaxStep     = 0.05  // seconds; bounds catch-up bursts after a stall
	arriveEps   = 2.0

	MinStage = 1
	MaxStage = 3

	TurbinePPS = 2.0

	// SelectRadius is the pointer pick-up range for trees.
	SelectRadius = 42.0
)

// Costs are the point prices of the discrete actions.
type Costs struct {
	Tree       int
	Water      int
	Wind       int
	SellReward int
}

// Player is the per-session avatar and purse.
type Player struct {
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	TargetX  float64 `json:"tx"`
	TargetY  float64 `json:"ty"`
	Speed    float64 `json:"-"`
	Points   float64 `json:"points"`
	Wind     int     `json:"wind"`
	Boost    float64 `json:"boost"`
	Selected int     `json:"selected"` // index into Trees, -1 = none
}

// World is one session's full simulation state. Not safe for concurrent
// use; the hub serializes access.
type World struct {
	W, H   float64
	Player Player
	Trees  []structs.Tree
	Winds  []structs.WindTurbine
	Costs  Costs
}

func NewWorld(w, h float64, costs Costs) *World {
	return &World{
		W: w,
		H: h,
		Player: Player{
			Name:     "Player",
			X:        w * 0.5,
			Y:        h * 0.8,
			TargetX:  w * 0.5,
			TargetY:  h * 0.7,
			Speed:    PlayerSpeed,
			Boost:    1.0,
			Selected: -1,
		},
		Costs: costs,
	}
}

// Advance runs one tick: move toward the target, then accrue passive
// points. dt is clamped to MaxStep so a stalled session cannot burst.
func (w *World) Advance(dt float64) {
	if dt > MaxStep {
		dt = MaxStep
	}
	if dt <= 0 {
		return
	}

	p := &w.Player
	dx, dy := p.TargetX-p.X, p.TargetY-p.Y
	if d := math.Hypot(dx, dy); d > arriveEps {
		p.X += dx / d * p.Speed * dt
		p.Y += dy / d * p.Speed * dt
	}

	passive := 0.0
	for _, t := range w.Winds {
		passive += t.PPS
	}
	p.Points += passive * dt
}

// SetTarget points the avatar at a new destination.
func (w *World) SetTarget(x, y float64) {
	w.Player.TargetX = x
	w.Player.TargetY = y
}

// Plant puts a stage-1 tree at (x, y), clamped into the safe sub-region of
// the world (wide top margin keeps trees clear of the HUD chrome).
func (w *World) Plant(x, y float64) (string, bool) {
	if w.Player.Points < float64(w.Costs.Tree) {
		return fmt.Sprintf("Need %d pts to plant", w.Costs.Tree), false
	}
	x = clamp(x, 40, w.W-40)
	y = clamp(y, 200, w.H-40)
	w.Trees = append(w.Trees, structs.Tree{X: x, Y: y, Stage: MinStage})
	w.Player.Points -= float64(w.Costs.Tree)
	return "Planted", true
}

// SelectNearest picks the tree closest to (x, y) within maxDist, replacing
// any previous selection. Returns the new index, -1 when none in range.
func (w *World) SelectNearest(x, y, maxDist float64) int {
	best := -1
	bd := maxDist * maxDist
	for i, t := range w.Trees {
		dx, dy := t.X-x, t.Y-y
		if d := dx*dx + dy*dy; d <= bd {
			bd = d
			best = i
		}
	}
	w.Player.Selected = best
	return best
}

// WaterSelected advances the selected tree by exactly one stage, saturating
// at MaxStage. Gate order is fixed: cost, then selection, then stage.
func (w *World) WaterSelected() (string, bool) {
	if w.Player.Points < float64(w.Costs.Water) {
		return fmt.Sprintf("Need %d pts to water", w.Costs.Water), false
	}
	i := w.Player.Selected
	if i < 0 || i >= len(w.Trees) {
		return "Select a tree first", false
	}
	t := &w.Trees[i]
	if t.Stage >= MaxStage {
		return "This tree is fully grown", false
	}

	w.Player.Points -= float64(w.Costs.Water)
	t.Stage++

	if t.Stage == 2 {
		return "Grew to Stage 2", true
	}
	return "Grew to Stage 3", true
}

// BuildWind puts a turbine at the current movement target, clamped inward.
func (w *World) BuildWind() (string, bool) {
	if w.Player.Points < float64(w.Costs.Wind) {
		return fmt.Sprintf("Need %d pts to build windmill", w.Costs.Wind), false
	}
	x := clamp(w.Player.TargetX, 60, w.W-60)
	y := clamp(w.Player.TargetY, 240, w.H-60)
	w.Winds = append(w.Winds, structs.WindTurbine{X: x, Y: y, PPS: TurbinePPS})
	w.Player.Wind++
	w.Player.Points -= float64(w.Costs.Wind)
	return "Built windmill", true
}

// SellSelected removes the selected tree for a flat reward. The reward
// ignores the tree's stage; see the sell test before "fixing" this.
func (w *World) SellSelected() (string, bool) {
	i := w.Player.Selected
	if i < 0 || i >= len(w.Trees) {
		return "Select a tree first", false
	}
	w.Trees = append(w.Trees[:i], w.Trees[i+1:]...)
	w.Player.Points += float64(w.Costs.SellReward)
	w.Player.Selected = -1
	return fmt.Sprintf("Removed tree (+%d pts)", w.Costs.SellReward), true
}

// Boost recomputes the cosmetic multiplier from the local board's top
// score. Decorative only; it feeds no rate.
func (w *World) Boost(topScore int) float64 {
	w.Player.Boost = 1 + math.Min(1.0, float64(topScore)/1000.0)
	return w.Player.Boost
}

// DisplayPoints is the floored integer shown on the HUD and written into
// the shared store.
func (w *World) DisplayPoints() int {
	return int(math.Floor(w.Player.Points))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
