package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/finance-mentor/internal/assistant"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/llm"
	"github.com/spf13/viper"
)

// providerDefaults lists the fallback API key variable and model per provider.
var providerDefaults = map[string]struct {
	envKey string
	model  string
}{
	"openai":     {envKey: "OPENAI_API_KEY", model: "gpt-4o-mini"},
	"openrouter": {envKey: "OPENROUTER_API_KEY", model: "openai/gpt-4o-mini"},
	"anthropic":  {envKey: "ANTHROPIC_API_KEY", model: "claude-3-5-haiku-latest"},
	"gemini":     {envKey: "GEMINI_API_KEY", model: "gemini-2.0-flash"},
}

// LoadLLMConfig reads the remote model settings. It returns an error wrapping
// common.ErrMissingConfig when no provider or API key is configured, in which
// case callers run with the local assistant only.
func LoadLLMConfig() (llm.Config, error) {
	provider := strings.ToLower(viper.GetString("llm.provider"))
	if provider == "" {
		return llm.Config{}, fmt.Errorf("llm.provider is not set: %w", common.ErrMissingConfig)
	}
	defaults, ok := providerDefaults[provider]
	if !ok {
		return llm.Config{}, fmt.Errorf("unsupported LLM provider %q: %w", provider, common.ErrInvalidConfig)
	}

	config := llm.Config{
		Provider:    provider,
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		SiteURL:     viper.GetString("llm.site_url"),
		SiteName:    viper.GetString("llm.site_name"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
	}

	if config.APIKey == "" {
		config.APIKey = os.Getenv(defaults.envKey)
	}
	if config.APIKey == "" {
		return llm.Config{}, fmt.Errorf("%s API key not found in config or %s environment variable: %w",
			provider, defaults.envKey, common.ErrMissingConfig)
	}
	if config.Model == "" {
		config.Model = defaults.model
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1000
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 15 * time.Minute
	}
	if config.RateLimit == 0 {
		config.RateLimit = 60
	}

	return config, nil
}

// LLMTimeout bounds a single remote analysis call.
func LLMTimeout() time.Duration {
	if d := viper.GetDuration("llm.timeout"); d > 0 {
		return d
	}
	return assistant.DefaultRemoteTimeout
}
