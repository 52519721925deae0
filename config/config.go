package config

import (
	"encoding/json"
	"os"
	"sync"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath string `json:"selfpath"`
	Port     string `json:"port"`

	// Plant.id identification proxy
	PlantIDEndpoint string `json:"plantid_endpoint"`
	PlantIDKey      string `json:"plantid_key"`

	// Image labeler used for challenge proof verification
	LabelerEndpoint string `json:"labeler_endpoint"`
	LabelerKey      string `json:"labeler_key"`

	// Forest economy. Zeros make every action free for testing;
	// 1000/500/5000 are the intended live values.
	TreeCost   int `json:"treecost"`
	WaterCost  int `json:"watercost"`
	WindCost   int `json:"windcost"`
	SellReward int `json:"sellreward"`

	// Simulation ticks per second
	TickRate int `json:"tickrate"`
}

var (
	instance *AppConfig
	once     sync.Once
)

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		instance = &AppConfig{
			SelfPath:        "http://www.example.com", // Default value
			Port:            "5050",                   // Default value
			PlantIDEndpoint: "https://plant.id/api/v3/identification",
			LabelerEndpoint: "http://localhost:6060/label",
			TreeCost:        0,
			WaterCost:       0,
			WindCost:        0,
			SellReward:      5,
			TickRate:        20,
		}
		// Load the config file if it exists, otherwise create one
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			saveConfig(filePath)
		} else {
			loadConfig(filePath)
		}
		applyEnv()
	})
	return instance
}

// loadConfig loads the settings from the file
func loadConfig(filePath string) {
	file, err := os.Open(filePath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(instance); err != nil {
		panic(err)
	}
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string) {
	file, err := os.Create(filePath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if err := encoder.Encode(instance); err != nil {
		panic(err)
	}
}

// applyEnv lets the environment override the API secrets so keys stay out of
// config.json (main loads .env beforehand).
func applyEnv() {
	if v := os.Getenv("PLANT_ID_API_KEY"); v != "" {
		instance.PlantIDKey = v
	}
	if v := os.Getenv("LABELER_API_KEY"); v != "" {
		instance.LabelerKey = v
	}
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	switch key {
	case "selfpath":
		return instance.SelfPath
	case "port":
		return instance.Port
	case "plantid_endpoint":
		return instance.PlantIDEndpoint
	case "plantid_key":
		return instance.PlantIDKey
	case "labeler_endpoint":
		return instance.LabelerEndpoint
	case "labeler_key":
		return instance.LabelerKey
	case "treecost":
		return instance.TreeCost
	case "watercost":
		return instance.WaterCost
	case "windcost":
		return instance.WindCost
	case "sellreward":
		return instance.SellReward
	case "tickrate":
		return instance.TickRate
	default:
		return ""
	}
}
