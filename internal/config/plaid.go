package config

import (
	"os"

	"github.com/Veraticus/finance-mentor/internal/plaid"
	"github.com/spf13/viper"
)

// LoadPlaidConfig reads plaid.* settings, falling back to PLAID_* variables.
// The environment defaults to sandbox.
func LoadPlaidConfig() (plaid.Config, error) {
	config := plaid.Config{
		ClientID:    firstNonEmpty(viper.GetString("plaid.client_id"), os.Getenv("PLAID_CLIENT_ID")),
		Secret:      firstNonEmpty(viper.GetString("plaid.secret"), os.Getenv("PLAID_SECRET")),
		Environment: firstNonEmpty(viper.GetString("plaid.environment"), os.Getenv("PLAID_ENV"), "sandbox"),
		AccessToken: firstNonEmpty(viper.GetString("plaid.access_token"), os.Getenv("PLAID_ACCESS_TOKEN")),
	}
	if err := config.Validate(); err != nil {
		return plaid.Config{}, err
	}
	return config, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
