package types

import (
	"context"
	"time"
)

// DepositView is a single deposit in API responses
type DepositView struct {
	ID         uint64 `json:"id"`
	Amount     string `json:"amount"`
	Timestamp  int64  `json:"timestamp"`
	LockupDays uint64 `json:"lockup_days"`
	UnlockAt   int64  `json:"unlock_at"`
	Locked     bool   `json:"locked"`
	RewardPaid string `json:"reward_paid"`
	Pending    string `json:"pending_reward"`
}

// UserView summarises a depositor
type UserView struct {
	Address        string        `json:"address"`
	TotalDeposited string        `json:"total_deposited"`
	PendingRewards string        `json:"pending_rewards"`
	LastWithdraw   int64         `json:"last_withdraw"`
	DepositCount   int           `json:"deposit_count"`
	Deposits       []DepositView `json:"deposits,omitempty"`
}

// StateView is the global ledger state
type StateView struct {
	Status                   string `json:"status"`
	TotalPoolBalance         string `json:"total_pool_balance"`
	UniqueUsers              uint64 `json:"unique_users"`
	PendingCommission        string `json:"pending_commission"`
	Treasury                 string `json:"treasury"`
	Paused                   bool   `json:"paused"`
	Migrated                 bool   `json:"migrated"`
	MigrationTarget          string `json:"migration_target,omitempty"`
	TotalCommissionForwarded string `json:"total_commission_forwarded"`
	TotalRewardsPaid         string `json:"total_rewards_paid"`
	TotalInjected            string `json:"total_injected"`
	ContractBalance          string `json:"contract_balance"`
	BlockTime                int64  `json:"block_time"`
}

// DepositRequest opens a new deposit
type DepositRequest struct {
	Amount     string `json:"amount"`
	LockupDays uint64 `json:"lockup_days"`
}

// DepositResponse is returned after a deposit
type DepositResponse struct {
	Deposit    DepositView `json:"deposit"`
	Commission string      `json:"commission"`
}

// CompoundRequest selects the deposit receiving compounded rewards
type CompoundRequest struct {
	DepositIndex uint32 `json:"deposit_index"`
}

// AmountRequest carries a bare amount
type AmountRequest struct {
	Amount string `json:"amount"`
}

// AddressRequest carries a bare address
type AddressRequest struct {
	Address string `json:"address"`
}

// FundRequest mints test funds on a dev service
type FundRequest struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// AmountResponse reports the value moved by an operation
type AmountResponse struct {
	Amount string `json:"amount"`
}

// StatusResponse reports the ledger status after an admin transition
type StatusResponse struct {
	Status string `json:"status"`
}

// BalanceResponse reports the module account balance
type BalanceResponse struct {
	Balance string `json:"balance"`
	Denom   string `json:"denom"`
}

// VaultService defines the interface for vault operations
type VaultService interface {
	// Depositor operations
	Deposit(ctx context.Context, caller string, req *DepositRequest) (*DepositResponse, error)
	Withdraw(ctx context.Context, caller string) (*AmountResponse, error)
	WithdrawAll(ctx context.Context, caller string) (*AmountResponse, error)
	Compound(ctx context.Context, caller string, req *CompoundRequest) (*AmountResponse, error)
	EmergencyUserWithdraw(ctx context.Context, caller string) (*AmountResponse, error)

	// Administrator operations
	Pause(ctx context.Context, caller string) (*StatusResponse, error)
	Unpause(ctx context.Context, caller string) (*StatusResponse, error)
	ChangeTreasury(ctx context.Context, caller, treasury string) (*StatusResponse, error)
	Migrate(ctx context.Context, caller, target string) (*StatusResponse, error)
	AddBalance(ctx context.Context, caller string, req *AmountRequest) (*AmountResponse, error)
	EmergencyWithdraw(ctx context.Context, caller, to string) (*AmountResponse, error)
	WithdrawPendingCommission(ctx context.Context, caller string) (*AmountResponse, error)

	// Queries
	User(ctx context.Context, address string) (*UserView, error)
	Rewards(ctx context.Context, address string) (*AmountResponse, error)
	State(ctx context.Context) (*StateView, error)
	Balance(ctx context.Context) (*BalanceResponse, error)
}

// NowMillis returns current timestamp in milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
