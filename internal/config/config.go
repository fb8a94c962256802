// README: Config loader with env defaults for HTTP, Gemini, and Maps settings.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	AI struct {
		GeminiKey   string
		Model       string
		TurnTimeout time.Duration
	}
	Maps struct {
		APIKey string
	}
}

// Load reads configuration from the environment. API keys are optional: a
// missing key never prevents startup, the affected calls degrade to
// deterministic failures instead.
func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("PAKGUIDE_HTTP_ADDR", ":8080")
	cfg.AI.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.AI.Model = envOrDefault("PAKGUIDE_MODEL", "gemini-2.5-flash")
	cfg.AI.TurnTimeout = time.Duration(envOrDefaultInt("PAKGUIDE_TURN_TIMEOUT_SECONDS", 30)) * time.Second
	cfg.Maps.APIKey = os.Getenv("MAPS_API_KEY")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
