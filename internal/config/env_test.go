package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apperrors "verse-embed/internal/app/errors"
)

func TestGetAPIKeysDoesNotCheckFormat(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "  local-llm-key-0123456789  ")
	t.Setenv("GEMINI_API_KEY", "")

	apiKeys := GetAPIKeys()
	assert.Equal(t, "local-llm-key-0123456789", apiKeys.OpenAI.Value())
	assert.False(t, apiKeys.Gemini.IsSet())
}

func TestRequireAPIKey(t *testing.T) {
	testCases := []struct {
		name          string
		keys          APIKeys
		provider      string
		baseURL       string
		expectError   bool
		errorContains string
	}{
		{
			name:     "valid OpenAI key",
			keys:     APIKeys{OpenAI: "sk-1234567890abcdef1234567890abcdef"},
			provider: ProviderOpenAI,
		},
		{
			name:     "valid Gemini key",
			keys:     APIKeys{Gemini: "AIzaTest-1234567890abcdef1234567890"},
			provider: ProviderGemini,
		},
		{
			name:          "missing Gemini key",
			keys:          APIKeys{OpenAI: "sk-1234567890abcdef1234567890abcdef"},
			provider:      ProviderGemini,
			expectError:   true,
			errorContains: "GEMINI_API_KEY",
		},
		{
			name:          "invalid OpenAI key format",
			keys:          APIKeys{OpenAI: "invalid-key"},
			provider:      ProviderOpenAI,
			expectError:   true,
			errorContains: "invalid OPENAI_API_KEY",
		},
		{
			name:          "OpenAI key too short",
			keys:          APIKeys{OpenAI: "sk-short"},
			provider:      ProviderOpenAI,
			expectError:   true,
			errorContains: "too short",
		},
		{
			name:          "invalid Gemini key format",
			keys:          APIKeys{Gemini: "invalid-key"},
			provider:      ProviderGemini,
			expectError:   true,
			errorContains: "invalid GEMINI_API_KEY",
		},
		{
			name:     "compatible endpoint accepts any key",
			keys:     APIKeys{OpenAI: "local-llm-key"},
			provider: ProviderOpenAI,
			baseURL:  "http://localhost:8080/v1",
		},
		{
			name:     "mock ignores malformed keys",
			keys:     APIKeys{OpenAI: "invalid-key", Gemini: "invalid-key"},
			provider: ProviderMock,
		},
		{
			name:          "unknown provider",
			provider:      "cohere",
			expectError:   true,
			errorContains: "unsupported provider",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireAPIKey(&tc.keys, tc.provider, tc.baseURL)

			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRequireAPIKeyFormatErrorsMatchSentinel(t *testing.T) {
	err := RequireAPIKey(&APIKeys{OpenAI: "invalid-key"}, ProviderOpenAI, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAPIKey)
	assert.NotContains(t, err.Error(), "invalid-key")
}

func TestValidateAPIKeyRequired(t *testing.T) {
	assert.ErrorContains(t, ValidateAPIKey("", "OpenAI"), "OpenAI API key is required")
}

func TestSecretNeverRendered(t *testing.T) {
	key := "sk-1234567890abcdef1234567890abcdef"
	keys := APIKeys{OpenAI: Secret(key)}

	assert.NotContains(t, fmt.Sprintf("%v", keys), key)
	assert.NotContains(t, fmt.Sprintf("%+v", keys), key)
	assert.NotContains(t, fmt.Sprintf("%#v", keys), key)
	assert.NotContains(t, keys.OpenAI.String(), key)

	data, err := json.Marshal(keys)
	require.NoError(t, err)
	assert.NotContains(t, string(data), key)

	cfg := Default()
	cfg.Cache.RedisURL = Secret("redis://:hunter2@localhost:6379/0")
	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hunter2")
}

func TestGetProjectRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o644))
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	root, err := GetProjectRoot()
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, resolved, got)
}

func TestLoadEnvFindsProjectRootFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VEMBED_ROOT_ENV_MARKER=from-root\n"), 0o644))
	nested := filepath.Join(dir, "cmd", "vembed")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	t.Setenv("VEMBED_ROOT_ENV_MARKER", "")
	require.NoError(t, os.Unsetenv("VEMBED_ROOT_ENV_MARKER"))

	require.NoError(t, LoadEnv())
	assert.Equal(t, "from-root", os.Getenv("VEMBED_ROOT_ENV_MARKER"))
}
