package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// APIURL is the Northwind Sales backend base URL.
	APIURL string

	// Email and Password are the login credentials.
	Email    string
	Password string

	SessionFile string
	ChromePath  string
	LogLevel    string

	HTTPTimeoutSeconds int
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		APIURL:             os.Getenv("NW_API_URL"),
		Email:              os.Getenv("NW_EMAIL"),
		Password:           os.Getenv("NW_PASSWORD"),
		SessionFile:        os.Getenv("NW_SESSION_FILE"),
		ChromePath:         os.Getenv("CHROME_PATH"),
		LogLevel:           EnvDefault("LOG_LEVEL", "info"),
		HTTPTimeoutSeconds: EnvIntDefault("HTTP_TIMEOUT_SECONDS", 15),
	}
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
