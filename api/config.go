package api

import (
	"fmt"
	"os"
	"time"

	"cosmossdk.io/math"
	"gopkg.in/yaml.v3"

	vaulttypes "github.com/openalpha/yield-vault/x/vault/types"
)

// Config contains server configuration
type Config struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	DisableRateLimit bool // For testing purposes

	// DevMode exposes the faucet endpoint on the in-memory bank
	DevMode bool

	// SnapshotSchedule is the cron schedule for refreshing ledger gauges
	SnapshotSchedule string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:             "0.0.0.0",
		Port:             8080,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		SnapshotSchedule: "@every 30s",
	}
}

// ParamsFile is the YAML form of the vault params
type ParamsFile struct {
	Denom                string           `yaml:"denom"`
	MinDeposit           string           `yaml:"min_deposit"`
	MaxDeposit           string           `yaml:"max_deposit"`
	CommissionBps        *uint64          `yaml:"commission_bps"`
	MaxDepositsPerUser   *uint32          `yaml:"max_deposits_per_user"`
	DailyWithdrawalLimit string           `yaml:"daily_withdrawal_limit"`
	BaseHourlyRate       string           `yaml:"base_hourly_rate"`
	TimeBonusTiers       []TimeBonusEntry `yaml:"time_bonus_tiers"`
	MaxROIBps            *uint64          `yaml:"max_roi_bps"`
}

// TimeBonusEntry is one holding-period bonus tier
type TimeBonusEntry struct {
	MinHeldDays uint32 `yaml:"min_held_days"`
	Bonus       string `yaml:"bonus"`
}

// LoadParams reads vault params from a YAML file. Fields left out keep
// their default value.
func LoadParams(path string) (vaulttypes.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return vaulttypes.Params{}, fmt.Errorf("failed to read params file: %w", err)
	}
	return ParseParams(data)
}

// ParseParams decodes YAML params over the defaults and validates the result
func ParseParams(data []byte) (vaulttypes.Params, error) {
	var file ParamsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return vaulttypes.Params{}, fmt.Errorf("failed to parse params: %w", err)
	}

	params := vaulttypes.DefaultParams()
	if file.Denom != "" {
		params.Denom = file.Denom
	}
	if err := setInt(&params.MinDeposit, file.MinDeposit, "min_deposit"); err != nil {
		return vaulttypes.Params{}, err
	}
	if err := setInt(&params.MaxDeposit, file.MaxDeposit, "max_deposit"); err != nil {
		return vaulttypes.Params{}, err
	}
	if err := setInt(&params.DailyWithdrawalLimit, file.DailyWithdrawalLimit, "daily_withdrawal_limit"); err != nil {
		return vaulttypes.Params{}, err
	}
	if file.CommissionBps != nil {
		params.CommissionBps = *file.CommissionBps
	}
	if file.MaxDepositsPerUser != nil {
		params.MaxDepositsPerUser = *file.MaxDepositsPerUser
	}
	if file.MaxROIBps != nil {
		params.MaxROIBps = *file.MaxROIBps
	}
	if file.BaseHourlyRate != "" {
		rate, err := math.LegacyNewDecFromStr(file.BaseHourlyRate)
		if err != nil {
			return vaulttypes.Params{}, fmt.Errorf("base_hourly_rate: %w", err)
		}
		params.BaseHourlyRate = rate
	}
	if file.TimeBonusTiers != nil {
		params.TimeBonusTiers = make([]vaulttypes.TimeBonusTier, len(file.TimeBonusTiers))
		for i, tier := range file.TimeBonusTiers {
			bonus, err := math.LegacyNewDecFromStr(tier.Bonus)
			if err != nil {
				return vaulttypes.Params{}, fmt.Errorf("time_bonus_tiers[%d]: %w", i, err)
			}
			params.TimeBonusTiers[i] = vaulttypes.TimeBonusTier{MinHeldDays: tier.MinHeldDays, Bonus: bonus}
		}
		params.SortTimeBonusTiers()
	}

	if err := params.Validate(); err != nil {
		return vaulttypes.Params{}, err
	}
	return params, nil
}

func setInt(dst *math.Int, raw, field string) error {
	if raw == "" {
		return nil
	}
	v, ok := math.NewIntFromString(raw)
	if !ok {
		return fmt.Errorf("%s: cannot parse %q", field, raw)
	}
	*dst = v
	return nil
}
