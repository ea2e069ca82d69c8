package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const tokenEnv = "GITHUB_TOKEN"

var errMissingToken = errors.New(tokenEnv + " is not set. Copy .env.example to .env and fill in your token, or export " + tokenEnv)

// loadToken returns the API token from the environment, after loading ./.env if it exists.
// Variables already present in the environment win over the file.
func loadToken() (string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to load .env: %w", err)
	}
	token := strings.TrimSpace(os.Getenv(tokenEnv))
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}
