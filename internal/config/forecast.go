package config

import (
	"fmt"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/forecast"
	"github.com/spf13/viper"
)

// LoadForecastConfig overlays forecast.* settings on the default projection.
// Setting forecast.seed makes the daily noise reproducible.
func LoadForecastConfig() (forecast.Config, error) {
	config := forecast.DefaultConfig()

	if viper.IsSet("forecast.starting_balance") {
		config.StartingBalance = viper.GetFloat64("forecast.starting_balance")
	}
	if viper.IsSet("forecast.trailing_days") {
		config.TrailingDays = viper.GetInt("forecast.trailing_days")
	}
	if viper.IsSet("forecast.forward_days") {
		config.ForwardDays = viper.GetInt("forecast.forward_days")
	}
	if viper.IsSet("forecast.payday_interval_days") {
		config.PaydayIntervalDays = viper.GetInt("forecast.payday_interval_days")
	}
	if viper.IsSet("forecast.payday_amount") {
		config.PaydayAmount = viper.GetFloat64("forecast.payday_amount")
	}
	if viper.IsSet("forecast.avg_daily_spend") {
		config.AvgDailySpend = viper.GetFloat64("forecast.avg_daily_spend")
	}
	if viper.IsSet("forecast.noise_fraction") {
		config.NoiseFraction = viper.GetFloat64("forecast.noise_fraction")
	}
	if viper.IsSet("forecast.seed") {
		config.Rand = forecast.Seeded(viper.GetUint64("forecast.seed"))
	}

	if err := config.Validate(); err != nil {
		return forecast.Config{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return config, nil
}
