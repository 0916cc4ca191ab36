package config

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/finance-mentor/internal/assistant"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/forecast"
	"github.com/Veraticus/finance-mentor/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/test")
	t.Setenv("MENTOR_DIR", "/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: "/home/test"},
		{name: "tilde prefix", in: "~/mentor.db", want: "/home/test/mentor.db"},
		{name: "env var", in: "$MENTOR_DIR/mentor.db", want: "/data/mentor.db"},
		{name: "plain", in: "/tmp/mentor.db", want: "/tmp/mentor.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestStoragePath(t *testing.T) {
	resetViper(t)
	t.Setenv("HOME", "/home/test")

	assert.Equal(t, filepath.Join("/home/test", ".local/share/mentor/mentor.db"), StoragePath())

	viper.Set("storage.path", "~/custom.db")
	assert.Equal(t, "/home/test/custom.db", StoragePath())
}

func TestStartingBalance(t *testing.T) {
	resetViper(t)
	assert.InDelta(t, 15000.0, StartingBalance(15000), 0.001)

	viper.Set("ledger.starting_balance", 0)
	assert.InDelta(t, 0.0, StartingBalance(15000), 0.001)
}

func TestLoadLLMConfig(t *testing.T) {
	tests := []struct {
		settings map[string]any
		env      map[string]string
		check    func(t *testing.T, err error)
		name     string
		model    string
	}{
		{
			name:     "no provider",
			settings: map[string]any{},
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, common.ErrMissingConfig)
			},
		},
		{
			name:     "unknown provider",
			settings: map[string]any{"llm.provider": "carrier-pigeon"},
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
			},
		},
		{
			name:     "missing key",
			settings: map[string]any{"llm.provider": "anthropic"},
			check: func(t *testing.T, err error) {
				t.Helper()
				require.ErrorIs(t, err, common.ErrMissingConfig)
				assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
			},
		},
		{
			name:     "key from environment",
			settings: map[string]any{"llm.provider": "OpenAI"},
			env:      map[string]string{"OPENAI_API_KEY": "sk-env"},
			model:    "gpt-4o-mini",
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.NoError(t, err)
			},
		},
		{
			name: "explicit settings win",
			settings: map[string]any{
				"llm.provider": "gemini",
				"llm.api_key":  "key",
				"llm.model":    "gemini-pro",
			},
			env:   map[string]string{"GEMINI_API_KEY": "ignored"},
			model: "gemini-pro",
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			for _, key := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY"} {
				t.Setenv(key, tt.env[key])
			}
			for k, v := range tt.settings {
				viper.Set(k, v)
			}

			cfg, err := LoadLLMConfig()
			tt.check(t, err)
			if err != nil {
				return
			}
			assert.Equal(t, tt.model, cfg.Model)
			assert.NotEmpty(t, cfg.APIKey)
			assert.Equal(t, 3, cfg.MaxRetries)
			assert.Equal(t, time.Second, cfg.RetryDelay)
			assert.Equal(t, 60, cfg.RateLimit)
		})
	}
}

func TestLLMTimeout(t *testing.T) {
	resetViper(t)
	assert.Equal(t, assistant.DefaultRemoteTimeout, LLMTimeout())

	viper.Set("llm.timeout", "3s")
	assert.Equal(t, 3*time.Second, LLMTimeout())
}

func TestLoadForecastConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		resetViper(t)
		cfg, err := LoadForecastConfig()
		require.NoError(t, err)
		want := forecast.DefaultConfig()
		assert.Equal(t, want.TrailingDays, cfg.TrailingDays)
		assert.InDelta(t, want.NoiseFraction, cfg.NoiseFraction, 1e-9)
		assert.Nil(t, cfg.Rand)
	})

	t.Run("overrides and seed", func(t *testing.T) {
		resetViper(t)
		viper.Set("forecast.forward_days", 60)
		viper.Set("forecast.noise_fraction", 0)
		viper.Set("forecast.seed", 42)

		cfg, err := LoadForecastConfig()
		require.NoError(t, err)
		assert.Equal(t, 60, cfg.ForwardDays)
		assert.InDelta(t, 0.0, cfg.NoiseFraction, 1e-9)
		require.NotNil(t, cfg.Rand)
		assert.InDelta(t, forecast.Seeded(42).Float64(), cfg.Rand.Float64(), 1e-12)
	})

	t.Run("invalid noise", func(t *testing.T) {
		resetViper(t)
		viper.Set("forecast.noise_fraction", 2)
		_, err := LoadForecastConfig()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadPlaidConfig(t *testing.T) {
	for _, key := range []string{"PLAID_CLIENT_ID", "PLAID_SECRET", "PLAID_ENV", "PLAID_ACCESS_TOKEN"} {
		t.Setenv(key, "")
	}

	t.Run("missing", func(t *testing.T) {
		resetViper(t)
		_, err := LoadPlaidConfig()
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("environment fallback", func(t *testing.T) {
		resetViper(t)
		t.Setenv("PLAID_CLIENT_ID", "client")
		t.Setenv("PLAID_SECRET", "secret")
		viper.Set("plaid.access_token", "access-sandbox-1")

		cfg, err := LoadPlaidConfig()
		require.NoError(t, err)
		assert.Equal(t, "client", cfg.ClientID)
		assert.Equal(t, "sandbox", cfg.Environment)
		assert.Equal(t, "access-sandbox-1", cfg.AccessToken)
	})

	t.Run("bad environment", func(t *testing.T) {
		resetViper(t)
		viper.Set("plaid.client_id", "client")
		viper.Set("plaid.secret", "secret")
		viper.Set("plaid.access_token", "token")
		viper.Set("plaid.environment", "development")

		_, err := LoadPlaidConfig()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadSheetsConfig(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", "/home/test")

	t.Run("no credentials", func(t *testing.T) {
		resetViper(t)
		_, err := LoadSheetsConfig()
		assert.Error(t, err)
	})

	t.Run("viper service account", func(t *testing.T) {
		resetViper(t)
		viper.Set("sheets.service_account_path", "~/key.json")
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "Household")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "/home/test/key.json", cfg.ServiceAccountPath)
		assert.Equal(t, "Household", cfg.SpreadsheetName)
	})

	t.Run("env oauth", func(t *testing.T) {
		resetViper(t)
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
		t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
		t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "id", cfg.ClientID)
		assert.Equal(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = NewLogger(&buf, "loud", "json")
	assert.Error(t, err)
	_, err = NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
}
