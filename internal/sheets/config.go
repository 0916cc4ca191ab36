// Package sheets publishes the financial report to a Google spreadsheet.
package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/finance-mentor/internal/common"
)

// DefaultSpreadsheetName is used when no name or id is configured.
const DefaultSpreadsheetName = "Finance Mentor Report"

// Config selects the spreadsheet and the credentials used to write to it.
// Exactly one of the OAuth2 triple or ServiceAccountPath must be set.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with no credentials.
func DefaultConfig() Config {
	return Config{
		EnableFormatting: true,
		SpreadsheetName:  DefaultSpreadsheetName,
		TimeZone:         "America/New_York",
		BatchSize:        500,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

func (c *Config) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Validate reports missing or conflicting credentials and bad tuning values.
func (c *Config) Validate() error {
	switch {
	case !c.hasOAuth() && c.ServiceAccountPath == "":
		return fmt.Errorf("%w: sheets export needs a service account or OAuth2 client id, secret and refresh token", common.ErrMissingConfig)
	case c.hasOAuth() && c.ServiceAccountPath != "":
		return fmt.Errorf("%w: sheets export accepts a service account or OAuth2 credentials, not both", common.ErrInvalidConfig)
	case c.SpreadsheetID == "" && c.SpreadsheetName == "":
		return fmt.Errorf("%w: sheets export needs a spreadsheet id or name", common.ErrMissingConfig)
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: sheets batch size must be positive", common.ErrInvalidConfig)
	case c.RetryAttempts < 0 || c.RetryDelay < 0:
		return fmt.Errorf("%w: sheets retry settings cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}
