package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/lunavega/ecogame/config"
)

// ShareQR answers with a QR code PNG linking to one of the games, for
// dropping into a chat so others can join from their phone.
func ShareQR() gin.HandlerFunc {
	return func(c *gin.Context) {
		target := config.GetConfigValue("selfpath").(string)
		if game := c.Query("game"); game != "" {
			target = fmt.Sprintf("%s/%s", target, game)
		}

		png, err := qrcode.Encode(target, qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to encode QR code"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}
