package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lunavega/ecogame/api"
	"github.com/lunavega/ecogame/config"
	"github.com/lunavega/ecogame/forest"
	"github.com/lunavega/ecogame/identify"
	"github.com/lunavega/ecogame/memimg"
	"github.com/lunavega/ecogame/progress"
	"github.com/lunavega/ecogame/verify"
)

func main() {
	EnsureFoldersExist()
	// API keys live in .env, everything else in config.json
	godotenv.Load()
	cfg := config.LoadConfig("./config.json")
	// Sprites into memory, hot-reloaded on change
	memimg.LoadSprites("./sprites")
	go memimg.WatchSprites("./sprites")

	db := api.InitDB()
	store := progress.NewStore(db)

	costs := forest.Costs{
		Tree:       cfg.TreeCost,
		Water:      cfg.WaterCost,
		Wind:       cfg.WindCost,
		SellReward: cfg.SellReward,
	}
	hub := forest.NewHub(store, db, costs, cfg.TickRate)
	stop := make(chan struct{})
	go hub.Run(stop)
	defer close(stop)

	plantID := identify.NewClient(cfg.PlantIDEndpoint, cfg.PlantIDKey)
	labeler := verify.NewLabeler(cfg.LabelerEndpoint, cfg.LabelerKey)

	router := gin.Default()
	// Shared progression store
	router.GET("/api/player/set", api.SetPlayer(store))
	router.GET("/api/player/summary", api.PlayerSummary(store))
	router.GET("/api/player/points", api.PlayerPoints(store))
	router.GET("/api/leaderboard", api.Leaderboard(store))
	router.POST("/api/leaderboard", api.PostScore(store))
	router.GET("/api/board", api.Board(store))
	// Ideal forest
	router.GET("/api/forest/join", api.ForestJoin(hub))
	router.GET("/api/forest/command", api.ForestCommand(hub))
	router.GET("/api/forest/state", api.ForestState(hub))
	router.GET("/api/forest/save", api.ForestSave(hub))
	router.GET("/api/forest/scene", api.ForestScene(hub))
	router.GET("/ws/forest", api.ForestWS(hub))
	// Identification & challenges
	router.POST("/api/identify", api.Identify(plantID, store))
	router.GET("/api/challenges", api.ListChallenges())
	router.POST("/api/verify", api.Verify(labeler, store))
	// Energy match
	router.GET("/api/energy/deck", api.EnergyDeck())
	// Share links
	router.GET("/api/share", api.ShareQR())

	router.Static("/static", "./static") // rendered scenes
	router.Run(":" + cfg.Port)
}

// EnsureFoldersExist checks for and creates the required working folders
func EnsureFoldersExist() {
	folders := []string{"sprites", "static", "uploads"}

	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			err := os.Mkdir(folder, 0755)
			if err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}
