package params

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	walletCommon "github.com/status-im/nftstory/services/wallet/common"
)

func envMap(values map[string]string) lookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.Validate())

	chains, err := config.ChainKeys()
	require.NoError(t, err)
	require.Equal(t, []walletCommon.ChainKey{walletCommon.ChainKeyEthereum, walletCommon.ChainKeyPolygon, walletCommon.ChainKeyBase}, chains)
	require.Empty(t, config.Alchemy.APIKey)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"Alchemy": {"Chains": ["base", "0x89"], "PageSize": 50, "Timeout": "5s"},
		"Story": {"Backend": "openai", "GenerateNames": true},
		"MetricsPort": 9305
	}`), 0600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 50, config.Alchemy.PageSize)
	require.Equal(t, 5*time.Second, config.Alchemy.Timeout.Duration())
	require.Equal(t, StoryBackendOpenAI, config.Story.Backend)
	require.True(t, config.Story.GenerateNames)
	require.Equal(t, 9305, config.MetricsPort)
	// untouched sections keep their defaults
	require.Equal(t, "llama3.1:8b", config.Story.Ollama.Model)

	chains, err := config.ChainKeys()
	require.NoError(t, err)
	require.Equal(t, []walletCommon.ChainKey{walletCommon.ChainKeyBase, walletCommon.ChainKeyPolygon}, chains)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Alchemy": {"PageSize": 500}}`), 0600))
	_, err = LoadConfig(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"Unknown": true}`), 0600))
	_, err = LoadConfig(path)
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.applyEnv(envMap(map[string]string{
		AlchemyAPIKeyEnv: " alchemy-key ",
		OpenAIAPIKeyEnv:  "openai-key",
		OllamaURLEnv:     "http://ollama:11434",
		LogLevelEnv:      "debug",
	})))

	require.Equal(t, "alchemy-key", config.Alchemy.APIKey)
	require.Equal(t, "openai-key", config.Story.OpenAI.APIKey)
	require.Equal(t, "http://ollama:11434", config.Story.Ollama.URL)
	require.Equal(t, "debug", config.Log.Level)
	require.NoError(t, config.Validate())

	// unset and empty variables keep the loaded values
	require.NoError(t, config.applyEnv(envMap(map[string]string{
		OllamaURLEnv: "",
	})))
	require.Equal(t, "http://ollama:11434", config.Story.Ollama.URL)
	require.Equal(t, "alchemy-key", config.Alchemy.APIKey)
	require.Equal(t, []string{"ethereum", "polygon", "base"}, config.Alchemy.Chains)
	require.Equal(t, walletCommon.ProviderRequestTimeout, config.Alchemy.Timeout.Duration())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown chain", func(c *Config) { c.Alchemy.Chains = []string{"solana"} }},
		{"no chains", func(c *Config) { c.Alchemy.Chains = nil }},
		{"unknown backend", func(c *Config) { c.Story.Backend = "llamafile" }},
		{"bad backend url", func(c *Config) { c.Story.Ollama.URL = "localhost" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad metrics port", func(c *Config) { c.MetricsPort = 70000 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tc.modify(config)
			require.Error(t, config.Validate())
		})
	}
}
