// Package config loads server configuration from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Port                 string
	AllowedOrigins        []string
	ActionTimeout         time.Duration
	ChallengeTTL          time.Duration
	BotMinDelay           time.Duration
	BotMaxDelay           time.Duration
}

// Load reads a .env file if present, then the environment, falling back
// to defaults for anything unset.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[CONFIG] no .env file loaded: %v", err)
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		ActionTimeout:  getEnvSeconds("ACTION_TIMEOUT_SECONDS", 30),
		ChallengeTTL:   getEnvSeconds("CHALLENGE_TTL_SECONDS", 30),
		BotMinDelay:    getEnvMillis("BOT_MIN_DELAY_MS", 800),
		BotMaxDelay:    getEnvMillis("BOT_MAX_DELAY_MS", 2000),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	out := []string{}
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				out = append(out, v[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func getEnvSeconds(key string, fallback int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[CONFIG] invalid %s=%q, using fallback %d", key, v, fallback)
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(n) * time.Second
}

func getEnvMillis(key string, fallback int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Millisecond
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[CONFIG] invalid %s=%q, using fallback %d", key, v, fallback)
		return time.Duration(fallback) * time.Millisecond
	}
	return time.Duration(n) * time.Millisecond
}
