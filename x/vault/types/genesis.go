package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// GenesisState is the vault state carried in the genesis file
type GenesisState struct {
	Params   Params        `json:"params"`
	State    LedgerState   `json:"state"`
	Accounts []UserAccount `json:"accounts"`
}

// DefaultGenesis returns an active ledger with default params and no treasury.
// InitGenesis falls back to the module authority when treasury is empty.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:   DefaultParams(),
		State:    NewLedgerState(""),
		Accounts: []UserAccount{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.State.Treasury != "" {
		addr, err := sdk.AccAddressFromBech32(gs.State.Treasury)
		if err != nil {
			return ErrInvalidGenesis.Wrapf("treasury %q: %s", gs.State.Treasury, err)
		}
		if addr.Equals(authtypes.NewModuleAddress(ModuleName)) {
			return ErrInvalidGenesis.Wrap("treasury cannot be the vault module account")
		}
	}
	for name, v := range map[string]math.Int{
		"total pool balance":         gs.State.TotalPoolBalance,
		"pending commission":         gs.State.PendingCommission,
		"total commission forwarded": gs.State.TotalCommissionForwarded,
		"total rewards paid":         gs.State.TotalRewardsPaid,
		"total injected":             gs.State.TotalInjected,
	} {
		if v.IsNil() || v.IsNegative() {
			return ErrInvalidGenesis.Wrapf("%s must be set and non-negative", name)
		}
	}

	seenOwners := make(map[string]bool, len(gs.Accounts))
	seenIDs := make(map[uint64]bool)
	var maxID uint64
	deposited := math.ZeroInt()
	for _, acc := range gs.Accounts {
		if _, err := sdk.AccAddressFromBech32(acc.Owner); err != nil {
			return ErrInvalidGenesis.Wrapf("account owner %q: %s", acc.Owner, err)
		}
		if seenOwners[acc.Owner] {
			return ErrInvalidGenesis.Wrapf("duplicate account %s", acc.Owner)
		}
		seenOwners[acc.Owner] = true
		if acc.WithdrawnInWindow.IsNil() || acc.WithdrawnInWindow.IsNegative() {
			return ErrInvalidGenesis.Wrapf("account %s has invalid withdrawn in window", acc.Owner)
		}
		if len(acc.Deposits) == 0 {
			return ErrInvalidGenesis.Wrapf("account %s has no deposits", acc.Owner)
		}
		if uint32(len(acc.Deposits)) > gs.Params.MaxDepositsPerUser {
			return ErrInvalidGenesis.Wrapf("account %s holds %d deposits, max %d", acc.Owner, len(acc.Deposits), gs.Params.MaxDepositsPerUser)
		}
		for _, d := range acc.Deposits {
			if seenIDs[d.ID] {
				return ErrInvalidGenesis.Wrapf("duplicate deposit id %d", d.ID)
			}
			seenIDs[d.ID] = true
			if d.ID > maxID {
				maxID = d.ID
			}
			if !d.LockupDays.IsValid() {
				return ErrInvalidGenesis.Wrapf("deposit %d has lockup %s", d.ID, d.LockupDays)
			}
			if d.Amount.IsNil() || !d.Amount.IsPositive() {
				return ErrInvalidGenesis.Wrapf("deposit %d has non-positive amount", d.ID)
			}
			if d.Principal.IsNil() || !d.Principal.IsPositive() || d.Principal.GT(d.Amount) {
				return ErrInvalidGenesis.Wrapf("deposit %d principal must be in (0, %s]", d.ID, d.Amount)
			}
			if d.RewardPaid.IsNil() || d.RewardPaid.IsNegative() {
				return ErrInvalidGenesis.Wrapf("deposit %d has invalid reward paid", d.ID)
			}
			deposited = deposited.Add(d.Amount)
		}
	}
	if !deposited.Equal(gs.State.TotalPoolBalance) {
		return ErrInvalidGenesis.Wrapf("total pool balance %s does not match deposit sum %s", gs.State.TotalPoolBalance, deposited)
	}
	if uint64(len(gs.Accounts)) != gs.State.UniqueUsersCount {
		return ErrInvalidGenesis.Wrapf("unique users %d does not match %d accounts", gs.State.UniqueUsersCount, len(gs.Accounts))
	}
	if len(gs.Accounts) > 0 && gs.State.NextDepositID <= maxID {
		return ErrInvalidGenesis.Wrapf("next deposit id %d must exceed %d", gs.State.NextDepositID, maxID)
	}
	return nil
}
