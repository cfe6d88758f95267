// Package config reads runtime settings from the environment.
package config

import (
	"os"
	"time"
)

// GameConfig drives the interactive CLI game.
type GameConfig struct {
	SavePath   string
	Difficulty string
}

// LoadGameFromEnv reads TYCOON_SAVE_PATH and TYCOON_DIFFICULTY. An empty
// save path means the default location under the home directory.
func LoadGameFromEnv() GameConfig {
	return GameConfig{
		SavePath:   envDefault("TYCOON_SAVE_PATH", ""),
		Difficulty: envDefault("TYCOON_DIFFICULTY", "normal"),
	}
}

// APIConfig drives the HTTP front-end.
type APIConfig struct {
	Addr            string
	SavePath        string
	Difficulty      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// LoadAPIFromEnv reads the server settings. PORT wins over TYCOON_API_ADDR
// for platforms that inject it.
func LoadAPIFromEnv() APIConfig {
	addr := envDefault("TYCOON_API_ADDR", ":8080")
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	return APIConfig{
		Addr:            addr,
		SavePath:        envDefault("TYCOON_SAVE_PATH", ""),
		Difficulty:      envDefault("TYCOON_DIFFICULTY", "normal"),
		RequestTimeout:  envDurationDefault("TYCOON_API_REQUEST_TIMEOUT", 15*time.Second),
		ShutdownTimeout: envDurationDefault("TYCOON_API_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
