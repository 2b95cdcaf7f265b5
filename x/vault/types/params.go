package types

import (
	"fmt"
	"sort"

	"cosmossdk.io/math"
)

// Default parameter values
var (
	DefaultDenom                = "usdc"
	DefaultMinDeposit           = math.NewInt(100)
	DefaultMaxDeposit           = math.NewInt(1_000_000_000)
	DefaultCommissionBps        = uint64(600) // 6%
	DefaultMaxDepositsPerUser   = uint32(300)
	DefaultDailyWithdrawalLimit = math.NewInt(50_000)
	DefaultBaseHourlyRate       = math.LegacyMustNewDecFromStr("0.0001")
	DefaultMaxROIBps            = uint64(13000)
)

// TimeBonusTier grants Bonus once a deposit has been held MinHeldDays
type TimeBonusTier struct {
	MinHeldDays uint32         `json:"min_held_days"`
	Bonus       math.LegacyDec `json:"bonus"`
}

// Params defines the tunable constants of the vault
type Params struct {
	Denom                string          `json:"denom"`
	MinDeposit           math.Int        `json:"min_deposit"`
	MaxDeposit           math.Int        `json:"max_deposit"`
	CommissionBps        uint64          `json:"commission_bps"`
	MaxDepositsPerUser   uint32          `json:"max_deposits_per_user"`
	DailyWithdrawalLimit math.Int        `json:"daily_withdrawal_limit"`
	BaseHourlyRate       math.LegacyDec  `json:"base_hourly_rate"`
	TimeBonusTiers       []TimeBonusTier `json:"time_bonus_tiers"`
	MaxROIBps            uint64          `json:"max_roi_bps"`
}

// DefaultParams returns the default vault parameters
func DefaultParams() Params {
	return Params{
		Denom:                DefaultDenom,
		MinDeposit:           DefaultMinDeposit,
		MaxDeposit:           DefaultMaxDeposit,
		CommissionBps:        DefaultCommissionBps,
		MaxDepositsPerUser:   DefaultMaxDepositsPerUser,
		DailyWithdrawalLimit: DefaultDailyWithdrawalLimit,
		BaseHourlyRate:       DefaultBaseHourlyRate,
		TimeBonusTiers: []TimeBonusTier{
			{MinHeldDays: 30, Bonus: math.LegacyMustNewDecFromStr("0.05")},
		},
		MaxROIBps: DefaultMaxROIBps,
	}
}

// Validate checks the params for consistency
func (p Params) Validate() error {
	if p.Denom == "" {
		return ErrInvalidParams.Wrap("denom cannot be empty")
	}
	if p.MinDeposit.IsNil() || !p.MinDeposit.IsPositive() {
		return ErrInvalidParams.Wrap("min deposit must be positive")
	}
	if p.MaxDeposit.IsNil() || p.MaxDeposit.LT(p.MinDeposit) {
		return ErrInvalidParams.Wrapf("max deposit %s below min deposit %s", p.MaxDeposit, p.MinDeposit)
	}
	if p.CommissionBps >= uint64(BpsDenominator) {
		return ErrInvalidParams.Wrapf("commission %d bps must be below %d", p.CommissionBps, BpsDenominator)
	}
	if p.MaxDepositsPerUser == 0 {
		return ErrInvalidParams.Wrap("max deposits per user must be positive")
	}
	if p.DailyWithdrawalLimit.IsNil() || !p.DailyWithdrawalLimit.IsPositive() {
		return ErrInvalidParams.Wrap("daily withdrawal limit must be positive")
	}
	if p.BaseHourlyRate.IsNil() || p.BaseHourlyRate.IsNegative() {
		return ErrInvalidParams.Wrap("base hourly rate cannot be negative")
	}
	if p.MaxROIBps == 0 {
		return ErrInvalidParams.Wrap("max ROI must be positive")
	}
	for i, tier := range p.TimeBonusTiers {
		if tier.Bonus.IsNil() || tier.Bonus.IsNegative() {
			return ErrInvalidParams.Wrapf("time bonus tier %d has negative bonus", i)
		}
		if i > 0 && tier.MinHeldDays <= p.TimeBonusTiers[i-1].MinHeldDays {
			return ErrInvalidParams.Wrapf("time bonus tiers must be sorted by min held days, tier %d", i)
		}
	}
	return nil
}

// TimeBonus returns the bonus of the highest tier reached after heldSeconds
func (p Params) TimeBonus(heldSeconds int64) math.LegacyDec {
	bonus := math.LegacyZeroDec()
	for _, tier := range p.TimeBonusTiers {
		if heldSeconds >= int64(tier.MinHeldDays)*SecondsPerDay {
			bonus = tier.Bonus
		}
	}
	return bonus
}

// SortTimeBonusTiers orders tiers by threshold, useful for params read from files
func (p *Params) SortTimeBonusTiers() {
	sort.Slice(p.TimeBonusTiers, func(i, j int) bool {
		return p.TimeBonusTiers[i].MinHeldDays < p.TimeBonusTiers[j].MinHeldDays
	})
}

func (p Params) String() string {
	return fmt.Sprintf("denom=%s min=%s max=%s commission_bps=%d max_deposits=%d daily_limit=%s rate=%s max_roi_bps=%d",
		p.Denom, p.MinDeposit, p.MaxDeposit, p.CommissionBps, p.MaxDepositsPerUser,
		p.DailyWithdrawalLimit, p.BaseHourlyRate, p.MaxROIBps)
}
