package config

import (
	"os"
	"path/filepath"

	"fjacquet/finstat/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, if one exists. Variables already set are kept.
func LoadEnv(logger logging.Logger) string {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.F(logging.FieldFile, envFile))
			return ""
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
		return envFile
	}
	logger.Debug("No .env file found, using environment variables")
	return ""
}
