package types

import (
	"context"

	"cosmossdk.io/math"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgDeposit{},
		&MsgWithdraw{},
		&MsgWithdrawAll{},
		&MsgCompound{},
		&MsgEmergencyUserWithdraw{},
		&MsgAddBalance{},
		&MsgChangeTreasury{},
		&MsgMigrate{},
		&MsgPause{},
		&MsgUnpause{},
		&MsgEmergencyWithdraw{},
		&MsgWithdrawPendingCommission{},
	)
}

// MsgServer defines the vault module's message service
type MsgServer interface {
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgPayoutResponse, error)
	WithdrawAll(context.Context, *MsgWithdrawAll) (*MsgPayoutResponse, error)
	Compound(context.Context, *MsgCompound) (*MsgCompoundResponse, error)
	EmergencyUserWithdraw(context.Context, *MsgEmergencyUserWithdraw) (*MsgPayoutResponse, error)
	AddBalance(context.Context, *MsgAddBalance) (*MsgAdminResponse, error)
	ChangeTreasury(context.Context, *MsgChangeTreasury) (*MsgAdminResponse, error)
	Migrate(context.Context, *MsgMigrate) (*MsgAdminResponse, error)
	Pause(context.Context, *MsgPause) (*MsgAdminResponse, error)
	Unpause(context.Context, *MsgUnpause) (*MsgAdminResponse, error)
	EmergencyWithdraw(context.Context, *MsgEmergencyWithdraw) (*MsgPayoutResponse, error)
	WithdrawPendingCommission(context.Context, *MsgWithdrawPendingCommission) (*MsgPayoutResponse, error)
}

func validateAddress(addr, field string) error {
	if addr == "" {
		return ErrInvalidAddress.Wrapf("%s cannot be empty", field)
	}
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return ErrInvalidAddress.Wrapf("%s %q: %s", field, addr, err)
	}
	return nil
}

func validateAmount(amount string) error {
	amt, ok := math.NewIntFromString(amount)
	if !ok {
		return ErrInvalidAmount.Wrapf("amount %q is not an integer", amount)
	}
	if !amt.IsPositive() {
		return ErrInvalidAmount.Wrapf("amount %s must be positive", amount)
	}
	return nil
}

func signers(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

// ============ User messages ============

// MsgDeposit deposits Amount with a lockup of LockupDays
type MsgDeposit struct {
	Depositor  string `json:"depositor"`
	LockupDays uint32 `json:"lockup_days"`
	Amount     string `json:"amount"`
}

func (msg *MsgDeposit) Reset()         { *msg = MsgDeposit{} }
func (msg *MsgDeposit) String() string { return msg.Depositor }
func (msg *MsgDeposit) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgDeposit
func (msg *MsgDeposit) XXX_MessageName() string { return "yieldvault.vault.v1.MsgDeposit" }

// ValidateBasic for MsgDeposit
func (msg *MsgDeposit) ValidateBasic() error {
	if err := validateAddress(msg.Depositor, "depositor"); err != nil {
		return err
	}
	if !LockupTier(msg.LockupDays).IsValid() {
		return ErrInvalidLockupDuration.Wrapf("lockup %d days, allowed %v", msg.LockupDays, AllLockupTiers)
	}
	return validateAmount(msg.Amount)
}

// GetSigners returns the signer addresses for MsgDeposit
func (msg *MsgDeposit) GetSigners() []sdk.AccAddress { return signers(msg.Depositor) }

// MsgWithdraw claims all accrued rewards, keeping principal in place
type MsgWithdraw struct {
	Owner string `json:"owner"`
}

func (msg *MsgWithdraw) Reset()         { *msg = MsgWithdraw{} }
func (msg *MsgWithdraw) String() string { return msg.Owner }
func (msg *MsgWithdraw) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgWithdraw
func (msg *MsgWithdraw) XXX_MessageName() string { return "yieldvault.vault.v1.MsgWithdraw" }

// ValidateBasic for MsgWithdraw
func (msg *MsgWithdraw) ValidateBasic() error { return validateAddress(msg.Owner, "owner") }

// GetSigners returns the signer addresses for MsgWithdraw
func (msg *MsgWithdraw) GetSigners() []sdk.AccAddress { return signers(msg.Owner) }

// MsgWithdrawAll withdraws principal and rewards of every deposit
type MsgWithdrawAll struct {
	Owner string `json:"owner"`
}

func (msg *MsgWithdrawAll) Reset()         { *msg = MsgWithdrawAll{} }
func (msg *MsgWithdrawAll) String() string { return msg.Owner }
func (msg *MsgWithdrawAll) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgWithdrawAll
func (msg *MsgWithdrawAll) XXX_MessageName() string { return "yieldvault.vault.v1.MsgWithdrawAll" }

// ValidateBasic for MsgWithdrawAll
func (msg *MsgWithdrawAll) ValidateBasic() error { return validateAddress(msg.Owner, "owner") }

// GetSigners returns the signer addresses for MsgWithdrawAll
func (msg *MsgWithdrawAll) GetSigners() []sdk.AccAddress { return signers(msg.Owner) }

// MsgCompound folds accrued rewards into the deposit at DepositIndex
type MsgCompound struct {
	Owner        string `json:"owner"`
	DepositIndex uint32 `json:"deposit_index"`
}

func (msg *MsgCompound) Reset()         { *msg = MsgCompound{} }
func (msg *MsgCompound) String() string { return msg.Owner }
func (msg *MsgCompound) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgCompound
func (msg *MsgCompound) XXX_MessageName() string { return "yieldvault.vault.v1.MsgCompound" }

// ValidateBasic for MsgCompound
func (msg *MsgCompound) ValidateBasic() error { return validateAddress(msg.Owner, "owner") }

// GetSigners returns the signer addresses for MsgCompound
func (msg *MsgCompound) GetSigners() []sdk.AccAddress { return signers(msg.Owner) }

// MsgEmergencyUserWithdraw returns principal while the ledger is paused
type MsgEmergencyUserWithdraw struct {
	Owner string `json:"owner"`
}

func (msg *MsgEmergencyUserWithdraw) Reset()         { *msg = MsgEmergencyUserWithdraw{} }
func (msg *MsgEmergencyUserWithdraw) String() string { return msg.Owner }
func (msg *MsgEmergencyUserWithdraw) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgEmergencyUserWithdraw
func (msg *MsgEmergencyUserWithdraw) XXX_MessageName() string {
	return "yieldvault.vault.v1.MsgEmergencyUserWithdraw"
}

// ValidateBasic for MsgEmergencyUserWithdraw
func (msg *MsgEmergencyUserWithdraw) ValidateBasic() error {
	return validateAddress(msg.Owner, "owner")
}

// GetSigners returns the signer addresses for MsgEmergencyUserWithdraw
func (msg *MsgEmergencyUserWithdraw) GetSigners() []sdk.AccAddress { return signers(msg.Owner) }

// ============ Admin messages ============

// MsgAddBalance injects reward liquidity without creating a deposit
type MsgAddBalance struct {
	Authority string `json:"authority"`
	Amount    string `json:"amount"`
}

func (msg *MsgAddBalance) Reset()         { *msg = MsgAddBalance{} }
func (msg *MsgAddBalance) String() string { return msg.Authority }
func (msg *MsgAddBalance) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgAddBalance
func (msg *MsgAddBalance) XXX_MessageName() string { return "yieldvault.vault.v1.MsgAddBalance" }

// ValidateBasic for MsgAddBalance
func (msg *MsgAddBalance) ValidateBasic() error {
	if err := validateAddress(msg.Authority, "authority"); err != nil {
		return err
	}
	return validateAmount(msg.Amount)
}

// GetSigners returns the signer addresses for MsgAddBalance
func (msg *MsgAddBalance) GetSigners() []sdk.AccAddress { return signers(msg.Authority) }

// MsgChangeTreasury rotates the commission recipient
type MsgChangeTreasury struct {
	Authority string `json:"authority"`
	Treasury  string `json:"treasury"`
}

func (msg *MsgChangeTreasury) Reset()         { *msg = MsgChangeTreasury{} }
func (msg *MsgChangeTreasury) String() string { return msg.Treasury }
func (msg *MsgChangeTreasury) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgChangeTreasury
func (msg *MsgChangeTreasury) XXX_MessageName() string {
	return "yieldvault.vault.v1.MsgChangeTreasury"
}

// ValidateBasic for MsgChangeTreasury
func (msg *MsgChangeTreasury) ValidateBasic() error {
	if err := validateAddress(msg.Authority, "authority"); err != nil {
		return err
	}
	return validateAddress(msg.Treasury, "treasury")
}

// GetSigners returns the signer addresses for MsgChangeTreasury
func (msg *MsgChangeTreasury) GetSigners() []sdk.AccAddress { return signers(msg.Authority) }

// MsgMigrate permanently closes the ledger to new deposits
type MsgMigrate struct {
	Authority  string `json:"authority"`
	NewAddress string `json:"new_address"`
}

func (msg *MsgMigrate) Reset()         { *msg = MsgMigrate{} }
func (msg *MsgMigrate) String() string { return msg.NewAddress }
func (msg *MsgMigrate) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgMigrate
func (msg *MsgMigrate) XXX_MessageName() string { return "yieldvault.vault.v1.MsgMigrate" }

// ValidateBasic for MsgMigrate
func (msg *MsgMigrate) ValidateBasic() error {
	if err := validateAddress(msg.Authority, "authority"); err != nil {
		return err
	}
	return validateAddress(msg.NewAddress, "new address")
}

// GetSigners returns the signer addresses for MsgMigrate
func (msg *MsgMigrate) GetSigners() []sdk.AccAddress { return signers(msg.Authority) }

// MsgPause halts standard user operations
type MsgPause struct {
	Authority string `json:"authority"`
}

func (msg *MsgPause) Reset()         { *msg = MsgPause{} }
func (msg *MsgPause) String() string { return msg.Authority }
func (msg *MsgPause) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgPause
func (msg *MsgPause) XXX_MessageName() string { return "yieldvault.vault.v1.MsgPause" }

// ValidateBasic for MsgPause
func (msg *MsgPause) ValidateBasic() error { return validateAddress(msg.Authority, "authority") }

// GetSigners returns the signer addresses for MsgPause
func (msg *MsgPause) GetSigners() []sdk.AccAddress { return signers(msg.Authority) }

// MsgUnpause resumes standard user operations
type MsgUnpause struct {
	Authority string `json:"authority"`
}

func (msg *MsgUnpause) Reset()         { *msg = MsgUnpause{} }
func (msg *MsgUnpause) String() string { return msg.Authority }
func (msg *MsgUnpause) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgUnpause
func (msg *MsgUnpause) XXX_MessageName() string { return "yieldvault.vault.v1.MsgUnpause" }

// ValidateBasic for MsgUnpause
func (msg *MsgUnpause) ValidateBasic() error { return validateAddress(msg.Authority, "authority") }

// GetSigners returns the signer addresses for MsgUnpause
func (msg *MsgUnpause) GetSigners() []sdk.AccAddress { return signers(msg.Authority) }

// MsgEmergencyWithdraw drains the module balance to To while paused
type MsgEmergencyWithdraw struct {
	Authority string `json:"authority"`
	To        string `json:"to"`
}

func (msg *MsgEmergencyWithdraw) Reset()         { *msg = MsgEmergencyWithdraw{} }
func (msg *MsgEmergencyWithdraw) String() string { return msg.To }
func (msg *MsgEmergencyWithdraw) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgEmergencyWithdraw
func (msg *MsgEmergencyWithdraw) XXX_MessageName() string {
	return "yieldvault.vault.v1.MsgEmergencyWithdraw"
}

// ValidateBasic for MsgEmergencyWithdraw
func (msg *MsgEmergencyWithdraw) ValidateBasic() error {
	if err := validateAddress(msg.Authority, "authority"); err != nil {
		return err
	}
	return validateAddress(msg.To, "recipient")
}

// GetSigners returns the signer addresses for MsgEmergencyWithdraw
func (msg *MsgEmergencyWithdraw) GetSigners() []sdk.AccAddress { return signers(msg.Authority) }

// MsgWithdrawPendingCommission pays pending commission out to the treasury
type MsgWithdrawPendingCommission struct {
	Authority string `json:"authority"`
}

func (msg *MsgWithdrawPendingCommission) Reset()         { *msg = MsgWithdrawPendingCommission{} }
func (msg *MsgWithdrawPendingCommission) String() string { return msg.Authority }
func (msg *MsgWithdrawPendingCommission) ProtoMessage()  {}

// XXX_MessageName returns the message type URL for MsgWithdrawPendingCommission
func (msg *MsgWithdrawPendingCommission) XXX_MessageName() string {
	return "yieldvault.vault.v1.MsgWithdrawPendingCommission"
}

// ValidateBasic for MsgWithdrawPendingCommission
func (msg *MsgWithdrawPendingCommission) ValidateBasic() error {
	return validateAddress(msg.Authority, "authority")
}

// GetSigners returns the signer addresses for MsgWithdrawPendingCommission
func (msg *MsgWithdrawPendingCommission) GetSigners() []sdk.AccAddress {
	return signers(msg.Authority)
}

// ============ Responses ============

// MsgDepositResponse is the response for MsgDeposit
type MsgDepositResponse struct {
	DepositID  uint64 `json:"deposit_id"`
	NetAmount  string `json:"net_amount"`
	Commission string `json:"commission"`
	UnlockAt   int64  `json:"unlock_at"`
}

func (msg *MsgDepositResponse) Reset()         { *msg = MsgDepositResponse{} }
func (msg *MsgDepositResponse) String() string { return msg.NetAmount }
func (msg *MsgDepositResponse) ProtoMessage()  {}

// MsgPayoutResponse is returned by every operation that pays value out
type MsgPayoutResponse struct {
	AmountPaid string `json:"amount_paid"`
}

func (msg *MsgPayoutResponse) Reset()         { *msg = MsgPayoutResponse{} }
func (msg *MsgPayoutResponse) String() string { return msg.AmountPaid }
func (msg *MsgPayoutResponse) ProtoMessage()  {}

// MsgCompoundResponse is the response for MsgCompound
type MsgCompoundResponse struct {
	Compounded string `json:"compounded"`
	NewAmount  string `json:"new_amount"`
}

func (msg *MsgCompoundResponse) Reset()         { *msg = MsgCompoundResponse{} }
func (msg *MsgCompoundResponse) String() string { return msg.Compounded }
func (msg *MsgCompoundResponse) ProtoMessage()  {}

// MsgAdminResponse is the empty response of administrative messages
type MsgAdminResponse struct{}

func (msg *MsgAdminResponse) Reset()         { *msg = MsgAdminResponse{} }
func (msg *MsgAdminResponse) String() string { return "" }
func (msg *MsgAdminResponse) ProtoMessage()  {}
