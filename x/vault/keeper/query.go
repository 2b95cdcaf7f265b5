package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/x/vault/types"
)

// QueryServer defines the vault QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// UserDeposits returns the deposits of user in insertion order
func (q *QueryServer) UserDeposits(ctx context.Context, user string) ([]types.Deposit, error) {
	if err := validateQueryAddress(user); err != nil {
		return nil, err
	}
	return q.keeper.GetUserDeposits(sdk.UnwrapSDKContext(ctx), user), nil
}

// TotalDeposit returns the sum of the live deposits of user
func (q *QueryServer) TotalDeposit(ctx context.Context, user string) (math.Int, error) {
	if err := validateQueryAddress(user); err != nil {
		return math.ZeroInt(), err
	}
	return q.keeper.GetTotalDeposit(sdk.UnwrapSDKContext(ctx), user), nil
}

// UserInfo returns the account summary of user
func (q *QueryServer) UserInfo(ctx context.Context, user string) (types.UserInfo, error) {
	if err := validateQueryAddress(user); err != nil {
		return types.UserInfo{}, err
	}
	return q.keeper.GetUserInfo(sdk.UnwrapSDKContext(ctx), user), nil
}

// Rewards returns the reward accrued by user at the current block time
func (q *QueryServer) Rewards(ctx context.Context, user string) (math.Int, error) {
	if err := validateQueryAddress(user); err != nil {
		return math.ZeroInt(), err
	}
	return q.keeper.CalculateRewards(sdk.UnwrapSDKContext(ctx), user), nil
}

// ContractBalance returns the value custodied by the module account
func (q *QueryServer) ContractBalance(ctx context.Context) (math.Int, error) {
	return q.keeper.GetContractBalance(sdk.UnwrapSDKContext(ctx)), nil
}

// LedgerState returns the global ledger aggregate
func (q *QueryServer) LedgerState(ctx context.Context) (types.LedgerState, error) {
	return q.keeper.GetLedgerState(sdk.UnwrapSDKContext(ctx)), nil
}

// Params returns the module params
func (q *QueryServer) Params(ctx context.Context) (types.Params, error) {
	return q.keeper.GetParams(sdk.UnwrapSDKContext(ctx)), nil
}

func validateQueryAddress(user string) error {
	if _, err := sdk.AccAddressFromBech32(user); err != nil {
		return types.ErrInvalidAddress.Wrapf("user %q: %s", user, err)
	}
	return nil
}
