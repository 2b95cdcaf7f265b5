package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

func genesisAddr(name string) string {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.AccAddress(bz).String()
}

func validGenesis() *GenesisState {
	gs := DefaultGenesis()
	acc := NewUserAccount(genesisAddr("alice"), 0)
	acc.Deposits = append(acc.Deposits, NewDeposit(1, math.NewInt(94), LockupNone, 0))
	gs.Accounts = append(gs.Accounts, *acc)
	gs.State.UniqueUsersCount = 1
	gs.State.NextDepositID = 2
	gs.State.TotalPoolBalance = math.NewInt(94)
	return gs
}

// TestDefaultGenesisValid tests the default genesis passes validation
func TestDefaultGenesisValid(t *testing.T) {
	if err := DefaultGenesis().Validate(); err != nil {
		t.Fatalf("default genesis invalid: %v", err)
	}
	if err := validGenesis().Validate(); err != nil {
		t.Fatalf("populated genesis invalid: %v", err)
	}

	compounded := validGenesis()
	compounded.Accounts[0].Deposits[0].Amount = math.NewInt(100)
	compounded.State.TotalPoolBalance = math.NewInt(100)
	if err := compounded.Validate(); err != nil {
		t.Fatalf("compounded genesis invalid: %v", err)
	}
}

// TestGenesisValidate tests rejected genesis states
func TestGenesisValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(gs *GenesisState)
	}{
		{"bad treasury", func(gs *GenesisState) { gs.State.Treasury = "nope" }},
		{"module account treasury", func(gs *GenesisState) {
			gs.State.Treasury = authtypes.NewModuleAddress(ModuleName).String()
		}},
		{"negative pool", func(gs *GenesisState) { gs.State.TotalPoolBalance = math.NewInt(-1) }},
		{"bad owner", func(gs *GenesisState) { gs.Accounts[0].Owner = "nope" }},
		{"duplicate owner", func(gs *GenesisState) {
			gs.Accounts = append(gs.Accounts, gs.Accounts[0])
			gs.State.UniqueUsersCount = 2
		}},
		{"empty account", func(gs *GenesisState) { gs.Accounts[0].Deposits = nil }},
		{"invalid lockup", func(gs *GenesisState) { gs.Accounts[0].Deposits[0].LockupDays = 45 }},
		{"zero amount", func(gs *GenesisState) { gs.Accounts[0].Deposits[0].Amount = math.ZeroInt() }},
		{"pool exceeds deposits", func(gs *GenesisState) {
			gs.State.TotalPoolBalance = gs.State.TotalPoolBalance.Add(math.NewInt(1_000_000))
		}},
		{"pool below deposits", func(gs *GenesisState) { gs.State.TotalPoolBalance = math.NewInt(93) }},
		{"missing principal", func(gs *GenesisState) { gs.Accounts[0].Deposits[0].Principal = math.Int{} }},
		{"principal above amount", func(gs *GenesisState) { gs.Accounts[0].Deposits[0].Principal = math.NewInt(95) }},
		{"missing reward paid", func(gs *GenesisState) { gs.Accounts[0].Deposits[0].RewardPaid = math.Int{} }},
		{"negative reward paid", func(gs *GenesisState) { gs.Accounts[0].Deposits[0].RewardPaid = math.NewInt(-1) }},
		{"missing withdrawn in window", func(gs *GenesisState) { gs.Accounts[0].WithdrawnInWindow = math.Int{} }},
		{"missing rewards counter", func(gs *GenesisState) { gs.State.TotalRewardsPaid = math.Int{} }},
		{"user count mismatch", func(gs *GenesisState) { gs.State.UniqueUsersCount = 3 }},
		{"stale next id", func(gs *GenesisState) { gs.State.NextDepositID = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := validGenesis()
			tt.mutate(gs)
			err := gs.Validate()
			if !errors.Is(err, ErrInvalidGenesis) {
				t.Errorf("expected ErrInvalidGenesis, got %v", err)
			}
		})
	}
}
