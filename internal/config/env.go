package config

import (
	"log/slog"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/shardpress/internal/logfields"
)

// loadEnvFile loads environment variables from .env/.env.local, stopping at
// the first file that parses. Existing process variables are not overridden.
// Absence of both files is not an error.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("Loaded environment variables", logfields.Path(envPath))
			return
		}
	}
}
