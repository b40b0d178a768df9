package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by COMPASS_ENV (or .env by default).
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("COMPASS_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Ignore error if the file doesn't exist; env vars may be set directly.
	_ = godotenv.Load(envFile)

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// OrgID returns the organization the BDI state belongs to.
// Defaults to "default" if not set.
func OrgID() string {
	id := os.Getenv("ORG_ID")
	if id == "" {
		return "default"
	}
	return id
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// DriftCheckIntervalHours returns how often the background drift monitor
// runs a reflection cycle. Defaults to 168 (weekly) if not set.
func DriftCheckIntervalHours() float64 {
	hours, err := strconv.ParseFloat(os.Getenv("DRIFT_CHECK_INTERVAL_HOURS"), 64)
	if err != nil || hours <= 0 {
		return 168
	}
	return hours
}
