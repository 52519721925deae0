package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunavega/ecogame/energy"
)

// EnergyDeck deals a fresh shuffled memory-match deck along with the
// round's scoring constants.
func EnergyDeck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"deck":    energy.BuildDeck(),
			"correct": energy.CorrectScore,
			"wrong":   energy.WrongScore,
			"game":    energy.GameTag,
		})
	}
}
