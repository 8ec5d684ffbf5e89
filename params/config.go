package params

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	validator "gopkg.in/go-playground/validator.v9"

	"github.com/status-im/nftstory/circuitbreaker"
	"github.com/status-im/nftstory/logutils"
	walletCommon "github.com/status-im/nftstory/services/wallet/common"
)

// Environment overrides, applied after the config file.
const (
	AlchemyAPIKeyEnv = "ALCHEMY_API_KEY"
	OpenAIAPIKeyEnv  = "OPENAI_API_KEY"
	OllamaURLEnv     = "OLLAMA_URL"
	LogLevelEnv      = "NFTSTORY_LOG_LEVEL"
)

const (
	StoryBackendOllama = "ollama"
	StoryBackendOpenAI = "openai"
)

// Duration is a time.Duration that reads "30s" style strings from JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid duration %s", data)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

type AlchemyConfig struct {
	// APIKey may be empty at load time. The fetcher reports it before the first request.
	APIKey            string   `json:"APIKey"`
	Chains            []string `json:"Chains" validate:"required,min=1"`
	PageSize          int      `json:"PageSize" validate:"min=1,max=100"`
	RequestsPerSecond float64  `json:"RequestsPerSecond" validate:"gte=0"`
	Timeout           Duration `json:"Timeout" validate:"gt=0"`
}

type OllamaConfig struct {
	URL   string `json:"URL" validate:"required"`
	Model string `json:"Model" validate:"required"`
}

type OpenAIConfig struct {
	URL    string `json:"URL" validate:"required"`
	APIKey string `json:"APIKey"`
	Model  string `json:"Model" validate:"required"`
}

type StoryConfig struct {
	Backend       string       `json:"Backend" validate:"oneof=ollama openai"`
	GenerateNames bool         `json:"GenerateNames"`
	NameCacheTTL  Duration     `json:"NameCacheTTL" validate:"gte=0"`
	Ollama        OllamaConfig `json:"Ollama"`
	OpenAI        OpenAIConfig `json:"OpenAI"`
}

type Config struct {
	Alchemy        AlchemyConfig         `json:"Alchemy"`
	Story          StoryConfig           `json:"Story"`
	CircuitBreaker circuitbreaker.Config `json:"CircuitBreaker"`
	Log            logutils.LogSettings  `json:"Log"`
	MetricsPort    int                   `json:"MetricsPort" validate:"gte=0,lte=65535"`
}

// ChainNames converts chain keys to their config names.
func ChainNames(keys []walletCommon.ChainKey) []string {
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, key.String())
	}
	return names
}

// NewDefaultConfig returns the configuration used when no file is given.
func NewDefaultConfig() *Config {
	return &Config{
		Alchemy: AlchemyConfig{
			Chains:            ChainNames(walletCommon.AllChainKeys()),
			PageSize:          20,
			RequestsPerSecond: 5,
			Timeout:           Duration(walletCommon.ProviderRequestTimeout),
		},
		Story: StoryConfig{
			Backend:      StoryBackendOllama,
			NameCacheTTL: Duration(24 * time.Hour),
			Ollama: OllamaConfig{
				URL:   "http://localhost:11434",
				Model: "llama3.1:8b",
			},
			OpenAI: OpenAIConfig{
				URL:   "https://api.openai.com",
				Model: "gpt-4o-mini",
			},
		},
		CircuitBreaker: circuitbreaker.DefaultConfig(),
		Log: logutils.LogSettings{
			Enabled:    true,
			Level:      "INFO",
			MaxSize:    100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional JSON file and the environment.
func LoadConfig(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		if err := loadConfigFromFile(path, config); err != nil {
			return nil, errors.Wrapf(err, "loading config file %s", path)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, errors.Wrap(err, "applying environment overrides")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadConfigFromJSON(configJSON string, config *Config) error {
	decoder := json.NewDecoder(strings.NewReader(configJSON))
	decoder.DisallowUnknownFields()
	// override default configuration with values by JSON input
	return decoder.Decode(config)
}

func loadConfigFromFile(path string, config *Config) error {
	jsonConfig, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return loadConfigFromJSON(string(jsonConfig), config)
}

type lookupEnvFunc func(key string) (string, bool)

// applyEnv overlays the non-empty environment values on c.
func (c *Config) applyEnv(lookup lookupEnvFunc) error {
	overrides := &Config{}
	if v, ok := lookup(AlchemyAPIKeyEnv); ok {
		overrides.Alchemy.APIKey = strings.TrimSpace(v)
	}
	if v, ok := lookup(OpenAIAPIKeyEnv); ok {
		overrides.Story.OpenAI.APIKey = strings.TrimSpace(v)
	}
	if v, ok := lookup(OllamaURLEnv); ok {
		overrides.Story.Ollama.URL = strings.TrimSpace(v)
	}
	if v, ok := lookup(LogLevelEnv); ok {
		overrides.Log.Level = strings.TrimSpace(v)
	}
	return mergo.Merge(c, overrides, mergo.WithOverride)
}

// ChainKeys parses the configured chains.
func (c *Config) ChainKeys() ([]walletCommon.ChainKey, error) {
	keys := make([]walletCommon.ChainKey, 0, len(c.Alchemy.Chains))
	for _, chain := range c.Alchemy.Chains {
		key, err := walletCommon.ParseChainKey(chain)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Validate checks if Config fields have valid values.
//
// A single error for a struct:
//
//	type TestStruct struct {
//	    TestField string `validate:"required"`
//	}
//
// has the following format:
//
//	Key: 'TestStruct.TestField' Error:Field validation for 'TestField' failed on the 'required' tag
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, err := c.ChainKeys(); err != nil {
		return fmt.Errorf("Alchemy.Chains is invalid: %v", err)
	}

	return c.Story.Validate()
}

func (c *StoryConfig) Validate() error {
	target := c.Ollama.URL
	field := "Story.Ollama.URL"
	if c.Backend == StoryBackendOpenAI {
		target = c.OpenAI.URL
		field = "Story.OpenAI.URL"
	}
	if _, err := url.ParseRequestURI(target); err != nil {
		return fmt.Errorf("%s '%s' is invalid: %v", field, target, err.Error())
	}
	return nil
}
