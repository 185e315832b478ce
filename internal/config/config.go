package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr string
	// AllowedOrigins is passed to the websocket accept options; empty means
	// same-origin only.
	AllowedOrigins []string
	// ScoreLimit ends the game once any cumulative total reaches it.
	ScoreLimit int
}

// Load reads an optional .env file, then the environment, falling back to
// defaults.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:       ":8080",
		ScoreLimit: 100,
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("SCORE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ScoreLimit = n
		}
	}
	return cfg
}
