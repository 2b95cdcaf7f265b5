package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/x/vault/types"
)

// MsgServer defines the vault MsgServer
type MsgServer struct {
	keeper *Keeper
}

var _ types.MsgServer = (*MsgServer)(nil)

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

func parseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(s)
	if !ok {
		return math.ZeroInt(), types.ErrInvalidAmount.Wrapf("amount %q is not an integer", s)
	}
	return amount, nil
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	deposit, commission, err := m.keeper.Deposit(ctx, msg.Depositor, uint64(msg.LockupDays), amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgDepositResponse{
		DepositID:  deposit.ID,
		NetAmount:  deposit.Amount.String(),
		Commission: commission.String(),
		UnlockAt:   deposit.UnlockAt(),
	}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgPayoutResponse, error) {
	paid, err := m.keeper.Withdraw(ctx, msg.Owner)
	if err != nil {
		return nil, err
	}
	return &types.MsgPayoutResponse{AmountPaid: paid.String()}, nil
}

// WithdrawAll handles MsgWithdrawAll
func (m *MsgServer) WithdrawAll(ctx context.Context, msg *types.MsgWithdrawAll) (*types.MsgPayoutResponse, error) {
	paid, err := m.keeper.WithdrawAll(ctx, msg.Owner)
	if err != nil {
		return nil, err
	}
	return &types.MsgPayoutResponse{AmountPaid: paid.String()}, nil
}

// Compound handles MsgCompound
func (m *MsgServer) Compound(ctx context.Context, msg *types.MsgCompound) (*types.MsgCompoundResponse, error) {
	compounded, err := m.keeper.Compound(ctx, msg.Owner, msg.DepositIndex)
	if err != nil {
		return nil, err
	}

	deposits := m.keeper.GetUserDeposits(sdk.UnwrapSDKContext(ctx), msg.Owner)
	return &types.MsgCompoundResponse{
		Compounded: compounded.String(),
		NewAmount:  deposits[msg.DepositIndex].Amount.String(),
	}, nil
}

// EmergencyUserWithdraw handles MsgEmergencyUserWithdraw
func (m *MsgServer) EmergencyUserWithdraw(ctx context.Context, msg *types.MsgEmergencyUserWithdraw) (*types.MsgPayoutResponse, error) {
	paid, err := m.keeper.EmergencyUserWithdraw(ctx, msg.Owner)
	if err != nil {
		return nil, err
	}
	return &types.MsgPayoutResponse{AmountPaid: paid.String()}, nil
}

// AddBalance handles MsgAddBalance
func (m *MsgServer) AddBalance(ctx context.Context, msg *types.MsgAddBalance) (*types.MsgAdminResponse, error) {
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.AddBalance(ctx, msg.Authority, amount); err != nil {
		return nil, err
	}
	return &types.MsgAdminResponse{}, nil
}

// ChangeTreasury handles MsgChangeTreasury
func (m *MsgServer) ChangeTreasury(ctx context.Context, msg *types.MsgChangeTreasury) (*types.MsgAdminResponse, error) {
	if err := m.keeper.ChangeTreasury(ctx, msg.Authority, msg.Treasury); err != nil {
		return nil, err
	}
	return &types.MsgAdminResponse{}, nil
}

// Migrate handles MsgMigrate
func (m *MsgServer) Migrate(ctx context.Context, msg *types.MsgMigrate) (*types.MsgAdminResponse, error) {
	if err := m.keeper.MigrateToNewContract(ctx, msg.Authority, msg.NewAddress); err != nil {
		return nil, err
	}
	return &types.MsgAdminResponse{}, nil
}

// Pause handles MsgPause
func (m *MsgServer) Pause(ctx context.Context, msg *types.MsgPause) (*types.MsgAdminResponse, error) {
	if err := m.keeper.Pause(ctx, msg.Authority); err != nil {
		return nil, err
	}
	return &types.MsgAdminResponse{}, nil
}

// Unpause handles MsgUnpause
func (m *MsgServer) Unpause(ctx context.Context, msg *types.MsgUnpause) (*types.MsgAdminResponse, error) {
	if err := m.keeper.Unpause(ctx, msg.Authority); err != nil {
		return nil, err
	}
	return &types.MsgAdminResponse{}, nil
}

// EmergencyWithdraw handles MsgEmergencyWithdraw
func (m *MsgServer) EmergencyWithdraw(ctx context.Context, msg *types.MsgEmergencyWithdraw) (*types.MsgPayoutResponse, error) {
	paid, err := m.keeper.EmergencyWithdraw(ctx, msg.Authority, msg.To)
	if err != nil {
		return nil, err
	}
	return &types.MsgPayoutResponse{AmountPaid: paid.String()}, nil
}

// WithdrawPendingCommission handles MsgWithdrawPendingCommission
func (m *MsgServer) WithdrawPendingCommission(ctx context.Context, msg *types.MsgWithdrawPendingCommission) (*types.MsgPayoutResponse, error) {
	paid, err := m.keeper.WithdrawPendingCommission(ctx, msg.Authority)
	if err != nil {
		return nil, err
	}
	return &types.MsgPayoutResponse{AmountPaid: paid.String()}, nil
}
