// Deck building and scoring constants for the Energy Match memory game.
// The flip flow runs in the browser; the server deals the deck and takes
// the finished round's score through the leaderboard endpoint.
package energy

import (
	"fmt"
	"math/rand"

	"github.com/lunavega/ecogame/structs"
)

// GameTag is the board namespace the browser reports rounds under.
const GameTag = "Energy Match"

const (
	CorrectScore = 30
	WrongScore   = -1
)

// Pairs is the card catalog: one wasteful and one saving habit per id.
var Pairs = []structs.EnergyCard{
	{ID: "lights", Type: "bad", Text: "Leave lights on"},
	{ID: "lights", Type: "good", Text: "Turn off lights"},
	{ID: "water", Type: "bad", Text: "Long shower"},
	{ID: "water", Type: "good", Text: "5-minute shower"},
	{ID: "charger", Type: "bad", Text: "Charger always plugged"},
	{ID: "charger", Type: "good", Text: "Unplug when full"},
	{ID: "ac", Type: "bad", Text: "AC at 18°C"},
	{ID: "ac", Type: "good", Text: "Set 24–26°C"},
	{ID: "laundry", Type: "bad", Text: "Half-load hot"},
	{ID: "laundry", Type: "good", Text: "Full-load cold"},
	{ID: "transport", Type: "bad", Text: "Short car trip"},
	{ID: "transport", Type: "good", Text: "Walk / cycle"},
}

// BuildDeck deals a shuffled copy of the catalog with stable per-card keys.
func BuildDeck() []structs.EnergyCard {
	deck := make([]structs.EnergyCard, len(Pairs))
	for i, p := range Pairs {
		p.Key = fmt.Sprintf("%s-%s-%d", p.ID, p.Type, i)
		deck[i] = p
	}
	shuffle(deck)
	return deck
}

func shuffle(deck []structs.EnergyCard) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}
