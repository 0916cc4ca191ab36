package sheets

import (
	"testing"
	"time"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "service account",
			config: serviceAccount(func(*Config) {}),
		},
		{
			name: "oauth",
			config: func() Config {
				c := DefaultConfig()
				c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "token"
				return c
			}(),
		},
		{
			name: "partial oauth",
			config: func() Config {
				c := DefaultConfig()
				c.ClientID, c.RefreshToken = "id", "token"
				return c
			}(),
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "both methods",
			config: serviceAccount(func(c *Config) {
				c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "token"
			}),
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "no spreadsheet",
			config:  serviceAccount(func(c *Config) { c.SpreadsheetName = "" }),
			wantErr: common.ErrMissingConfig,
		},
		{
			name:   "spreadsheet id without name",
			config: serviceAccount(func(c *Config) { c.SpreadsheetName, c.SpreadsheetID = "", "abc123" }),
		},
		{
			name:   "no retries",
			config: serviceAccount(func(c *Config) { c.RetryAttempts, c.RetryDelay = 0, 0 }),
		},
		{
			name:    "negative retry attempts",
			config:  serviceAccount(func(c *Config) { c.RetryAttempts = -1 }),
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "negative retry delay",
			config:  serviceAccount(func(c *Config) { c.RetryDelay = -time.Second }),
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "zero batch size",
			config:  serviceAccount(func(c *Config) { c.BatchSize = 0 }),
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func serviceAccount(mutate func(*Config)) Config {
	c := DefaultConfig()
	c.ServiceAccountPath = "/secrets/mentor-sheets.json"
	mutate(&c)
	return c
}
