package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeys holds all API keys loaded from environment
type APIKeys struct {
	OpenAI Secret
	Gemini Secret
}

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
	}
	if root, err := GetProjectRoot(); err == nil {
		envPaths = append(envPaths, filepath.Join(root, ".env"))
	}

	// Don't fail if no file is found, variables might be set system-wide
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			fmt.Fprintf(os.Stderr, "✅ Loaded environment variables from %s\n", envPath)
			break
		}
	}

	return nil
}

// GetAPIKeys reads the API keys from environment variables. Their format is
// checked by RequireAPIKey for the selected provider only.
func GetAPIKeys() *APIKeys {
	return &APIKeys{
		OpenAI: Secret(strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))),
		Gemini: Secret(strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))),
	}
}

// RequireAPIKey checks that the key for the selected provider is present and
// well formed. Keys for a custom baseURL are not format checked.
func RequireAPIKey(apiKeys *APIKeys, provider, baseURL string) error {
	var (
		key     Secret
		envName string
		keyType string
	)
	switch provider {
	case ProviderOpenAI:
		key, envName, keyType = apiKeys.OpenAI, "OPENAI_API_KEY", "OpenAI"
	case ProviderGemini:
		key, envName, keyType = apiKeys.Gemini, "GEMINI_API_KEY", "Gemini"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unsupported provider: %s", provider)
	}

	if !key.IsSet() {
		return fmt.Errorf("provider %q requires %s in environment or .env file", provider, envName)
	}
	if baseURL != "" {
		return nil
	}
	if err := ValidateAPIKey(key.Value(), keyType); err != nil {
		return fmt.Errorf("invalid %s: %w", envName, err)
	}
	return nil
}

// GetProjectRoot finds the project root directory by looking for go.mod
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (go.mod not found)")
}
