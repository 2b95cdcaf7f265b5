package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/x/vault/types"
)

// InitGenesis loads params, the ledger aggregate and user accounts
func (k *Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) {
	k.SetParams(ctx, gs.Params)

	state := gs.State
	if state.Treasury == "" {
		state.Treasury = k.authority
	}
	if state.NextDepositID == 0 {
		state.NextDepositID = 1
	}
	k.SetLedgerState(ctx, state)

	for i := range gs.Accounts {
		k.SetAccount(ctx, &gs.Accounts[i])
	}

	k.logger.Info("Vault genesis initialized",
		"accounts", len(gs.Accounts),
		"treasury", state.Treasury,
		"status", state.Status(),
	)
}

// ExportGenesis returns the current vault state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	accounts := k.GetAllAccounts(ctx)
	exported := make([]types.UserAccount, 0, len(accounts))
	for _, acc := range accounts {
		exported = append(exported, *acc)
	}
	return &types.GenesisState{
		Params:   k.GetParams(ctx),
		State:    k.GetLedgerState(ctx),
		Accounts: exported,
	}
}
