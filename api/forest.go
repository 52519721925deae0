package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lunavega/ecogame/config"
	"github.com/lunavega/ecogame/forest"
	"github.com/lunavega/ecogame/scene"
)

// ForestJoin opens a forest session. The shared store is consulted for the
// player's authoritative total before any saved layout is applied.
func ForestJoin(hub *forest.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		width, _ := strconv.ParseFloat(c.DefaultQuery("width", "1280"), 64)
		height, _ := strconv.ParseFloat(c.DefaultQuery("height", "720"), 64)

		sess, err := hub.Join(c.Query("name"), width, height)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to open forest session"})
			return
		}

		state, _ := hub.State(sess.ID)
		c.JSON(http.StatusOK, gin.H{"session": sess.ID, "state": state})
	}
}

// ForestCommand applies one discrete action. Rejections come back inside
// the state's toast with the world unchanged.
func ForestCommand(hub *forest.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := c.Query("session")
		cmdType := c.Query("type")
		if session == "" || cmdType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameters: session or type"})
			return
		}
		x, _ := strconv.ParseFloat(c.Query("x"), 64)
		y, _ := strconv.ParseFloat(c.Query("y"), 64)

		state, err := hub.Do(session, forest.Command{Type: cmdType, X: x, Y: y})
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// ForestState reads the session state without acting on it.
func ForestState(hub *forest.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, ok := hub.State(c.Query("session"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// ForestSave persists the snapshot and refreshes the forest board.
func ForestSave(hub *forest.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := hub.Save(c.Query("session")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Saved!"})
	}
}

// ForestScene rasterizes the session's world to a PNG under static and
// returns its URL, so chat clients can show the forest as an image.
func ForestScene(hub *forest.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := c.Query("session")
		world, ok := hub.WorldCopy(session)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
			return
		}

		if _, err := scene.SavePNG(world, "./static", session); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render scene"})
			return
		}

		imageUrl := fmt.Sprintf("%s/static/%s.png", config.GetConfigValue("selfpath").(string), session)
		c.JSON(http.StatusOK, gin.H{"image_url": imageUrl})
	}
}

// ForestWS upgrades to a websocket that streams state every tick and
// accepts the same commands as the HTTP endpoint.
func ForestWS(hub *forest.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := hub.ServeWS(c.Writer, c.Request, c.Query("session")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		}
	}
}
