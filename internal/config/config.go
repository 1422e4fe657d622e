// internal/config/config.go
//
// Environment configuration for the server.
// Values come from the process environment; main loads a `.env` file first
// (godotenv) so local development can keep them in one place.
//
// Variables (default):
//   PORT               5175
//   LOG_LEVEL          info
//   DB_PATH            ./data/app.db
//   JWT_SECRET         dev_secret_change_me
//   JWT_EXPIRES_DAYS   14
//   COOKIE_NAME        connections_token
//   CLIENT_ORIGIN      http://localhost:5173
//   APP_ENV            development ("production" enables Secure cookies)
//   DAILY_SALT         local_dev_salt
//   PUZZLES_FILE       (embedded catalog)
//   MISTAKE_BUDGET     4
//   HANDLER_TIMEOUT    10s

package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the resolved server configuration.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Env            string
	DailySalt      string
	PuzzlesFile    string
	MistakeBudget  int
	HandlerTimeout time.Duration
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.Env == "production" }

// Load reads Config from the environment.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "connections_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Env:            getEnv("APP_ENV", "development"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		PuzzlesFile:    os.Getenv("PUZZLES_FILE"),
		MistakeBudget:  envInt("MISTAKE_BUDGET", 4),
		HandlerTimeout: envDuration("HANDLER_TIMEOUT", 10*time.Second),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
