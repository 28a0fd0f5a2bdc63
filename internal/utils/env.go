package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/halvard/vault-core/internal/logger"
)

// LoadEnvironment loads environment variables from .env files.
// It tries the current directory first and then the directory of the
// executable, so a deployed binary can sit next to its configuration.
func LoadEnvironment() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found in current directory: %v", err)
	} else {
		logger.Info("Loaded .env file from current directory")
	}

	execPath, err := os.Executable()
	if err != nil {
		logger.Debug("Could not determine executable path: %v", err)
		return
	}

	execDir := filepath.Dir(execPath)
	envPath := filepath.Join(execDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		logger.Debug("No .env file found in app directory (%s): %v", execDir, err)
	} else {
		logger.Info("Loaded .env file from app directory: %s", execDir)
	}
}
