package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envLocations are tried in order of preference; the first one found wins.
var envLocations = []string{
	".env",        // Current directory
	".env.local",  // Local override
	"config/.env", // Config directory
}

// LoadEnv loads environment variables from a .env file.
// Variables already set in the process environment are kept.
func LoadEnv(filename string) (bool, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return false, nil
	}

	if err := godotenv.Load(filename); err != nil {
		return false, fmt.Errorf("error loading %s file: %w", filename, err)
	}
	return true, nil
}

// LoadEnvWithFallback tries the standard .env locations and reports which
// one was loaded. An empty result with a nil error means none existed.
func LoadEnvWithFallback() (string, error) {
	for _, location := range envLocations {
		loaded, err := LoadEnv(location)
		if err != nil {
			return "", err
		}
		if loaded {
			return location, nil
		}
	}
	return "", nil
}
