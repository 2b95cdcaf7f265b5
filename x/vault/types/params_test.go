package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
)

// TestDefaultParamsValid tests the defaults pass validation
func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
}

// TestParamsValidate tests each rejected configuration
func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"empty denom", func(p *Params) { p.Denom = "" }},
		{"zero min deposit", func(p *Params) { p.MinDeposit = math.ZeroInt() }},
		{"max below min", func(p *Params) { p.MaxDeposit = math.NewInt(50) }},
		{"commission 100%", func(p *Params) { p.CommissionBps = 10000 }},
		{"zero max deposits", func(p *Params) { p.MaxDepositsPerUser = 0 }},
		{"zero daily limit", func(p *Params) { p.DailyWithdrawalLimit = math.ZeroInt() }},
		{"negative rate", func(p *Params) { p.BaseHourlyRate = math.LegacyNewDec(-1) }},
		{"zero max roi", func(p *Params) { p.MaxROIBps = 0 }},
		{"unsorted tiers", func(p *Params) {
			p.TimeBonusTiers = []TimeBonusTier{
				{MinHeldDays: 60, Bonus: math.LegacyMustNewDecFromStr("0.1")},
				{MinHeldDays: 30, Bonus: math.LegacyMustNewDecFromStr("0.05")},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

// TestTimeBonus tests the highest reached tier wins
func TestTimeBonus(t *testing.T) {
	p := DefaultParams()
	p.TimeBonusTiers = []TimeBonusTier{
		{MinHeldDays: 90, Bonus: math.LegacyMustNewDecFromStr("0.10")},
		{MinHeldDays: 30, Bonus: math.LegacyMustNewDecFromStr("0.05")},
	}
	p.SortTimeBonusTiers()
	if err := p.Validate(); err != nil {
		t.Fatalf("sorted tiers should validate: %v", err)
	}

	tests := []struct {
		days     int64
		expected string
	}{
		{0, "0.000000000000000000"},
		{29, "0.000000000000000000"},
		{30, "0.050000000000000000"},
		{89, "0.050000000000000000"},
		{90, "0.100000000000000000"},
	}
	for _, tt := range tests {
		if got := p.TimeBonus(tt.days * SecondsPerDay); got.String() != tt.expected {
			t.Errorf("held %d days: expected %s, got %s", tt.days, tt.expected, got)
		}
	}
}
