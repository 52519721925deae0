package structs

// PlayerRecord is one row of the shared progression store. Identity is the
// lower-cased, trimmed name; Name keeps the spelling the player first typed.
type PlayerRecord struct {
	Name  string `json:"name"`  // display name
	Total int    `json:"total"` // cumulative score across all games
	Last  int64  `json:"last"`  // unix millis of the last score event
}

// LocalBoardEntry is a per-game board row. Score is the last session's
// snapshot, not a cumulative sum.
type LocalBoardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Wind  int    `json:"wind,omitempty"`  // windmill badge
	Trees int    `json:"trees,omitempty"` // tree badge
}

// Tree grows only when watered: stage 1 sapling, 2 intermediate, 3 mature.
type Tree struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Stage int     `json:"stage"`
}

// WindTurbine feeds the passive point accrual.
type WindTurbine struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	PPS float64 `json:"pps"` // points per second
}

// ForestPlayer is the player summary inside a saved snapshot.
type ForestPlayer struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	Wind   int     `json:"wind"`
}

// ForestSnapshot is the persisted layout of one player's forest.
type ForestSnapshot struct {
	Player ForestPlayer  `json:"player"`
	Trees  []Tree        `json:"trees"`
	Winds  []WindTurbine `json:"winds"`
}

// LabelScore is one entry of the labeler response, best first.
type LabelScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Challenge is a real-world action verified by label matching against a
// photo proof. Keywords accept, Forbidden veto.
type Challenge struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Desc      string   `json:"desc"`
	Points    int      `json:"pts"`
	Icon      string   `json:"icon"`
	Keywords  []string `json:"-"`
	Forbidden []string `json:"-"`
}

// VerifyResult is the uniform outcome contract for proof verification.
type VerifyResult struct {
	OK        bool   `json:"ok"`
	Challenge string `json:"challenge"`
	Points    int    `json:"points"`
	Matched   string `json:"matched,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// EnergyCard is one face of the memory-match deck.
type EnergyCard struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "good" or "bad"
	Text string `json:"text"`
	Key  string `json:"key"` // stable per-deck key: id-type-idx
}
