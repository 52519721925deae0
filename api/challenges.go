package api

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lunavega/ecogame/identify"
	"github.com/lunavega/ecogame/progress"
	"github.com/lunavega/ecogame/structs"
	"github.com/lunavega/ecogame/verify"
)

const uploadsDir = "./uploads"

func readUpload(c *gin.Context, field string) ([]byte, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, false
	}
	return data, true
}

// scoringName picks who gets the points: the submitted name when present,
// else the active player.
func scoringName(c *gin.Context, store *progress.Store) string {
	if name := c.PostForm("name"); name != "" {
		return name
	}
	return store.ActivePlayer()
}

type identifyResponse struct {
	identify.Result
	Awarded int `json:"awarded"`
	Total   int `json:"total"`
}

// Identify proxies the uploaded photo to the plant classifier and awards
// the identification bonus on success. Failures return an error body and
// never a partial result.
func Identify(client *identify.Client, store *progress.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := readUpload(c, "image")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no image"})
			return
		}

		result, err := client.Identify(c.Request.Context(), data)
		if err != nil {
			log.Printf("identify: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not identify the plant"})
			return
		}

		id := uuid.NewString()
		if err := identify.ArchiveUpload(uploadsDir, id, data); err != nil {
			log.Printf("identify: archive upload %s: %v", id, err)
		}

		resp := identifyResponse{Result: result}
		if rec, err := store.UpsertScore(scoringName(c, store), identify.Reward); err != nil {
			// Identification still succeeded; just don't claim points
			// that were never persisted.
			log.Printf("identify: award points: %v", err)
		} else {
			resp.Awarded = identify.Reward
			resp.Total = rec.Total
		}

		c.JSON(http.StatusOK, resp)
	}
}

// ListChallenges returns the proof catalog.
func ListChallenges() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"challenges": verify.Challenges})
	}
}

// Verify checks a challenge proof photo against the labeler and awards the
// challenge points when the keyword decision passes. Every outcome, labeler
// failure included, uses the same result contract.
func Verify(labeler *verify.Labeler, store *progress.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		challengeID := c.PostForm("challengeId")
		challenge, ok := verify.Find(challengeID)
		if !ok {
			c.JSON(http.StatusBadRequest, structs.VerifyResult{Challenge: challengeID, Reason: "unknown challenge"})
			return
		}

		data, ok := readUpload(c, "image")
		if !ok {
			c.JSON(http.StatusBadRequest, structs.VerifyResult{Challenge: challengeID, Reason: "no image"})
			return
		}

		labels, err := labeler.Label(c.Request.Context(), data)
		if err != nil {
			log.Printf("verify: %v", err)
			c.JSON(http.StatusBadGateway, structs.VerifyResult{Challenge: challengeID, Reason: "labeler unavailable"})
			return
		}

		result := verify.Evaluate(challenge, labels)
		if result.OK {
			if _, err := store.UpsertScore(scoringName(c, store), result.Points); err != nil {
				log.Printf("verify: award points: %v", err)
			}
			id := uuid.NewString()
			if err := identify.ArchiveUpload(uploadsDir, id, data); err != nil {
				log.Printf("verify: archive proof %s: %v", id, err)
			}
		}

		c.JSON(http.StatusOK, result)
	}
}
