package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	// Validation errors
	ErrDepositTooLow         = errors.Register(ModuleName, 1, "deposit below minimum")
	ErrDepositTooHigh        = errors.Register(ModuleName, 2, "deposit above maximum")
	ErrInvalidLockupDuration = errors.Register(ModuleName, 3, "invalid lockup duration")
	ErrInvalidAddress        = errors.Register(ModuleName, 4, "invalid address")
	ErrInvalidAmount         = errors.Register(ModuleName, 5, "invalid amount")
	ErrInvalidDepositIndex   = errors.Register(ModuleName, 6, "invalid deposit index")
	ErrInvalidParams         = errors.Register(ModuleName, 7, "invalid params")
	ErrInvalidGenesis        = errors.Register(ModuleName, 8, "invalid genesis state")

	// State-conflict errors
	ErrPaused                       = errors.Register(ModuleName, 20, "ledger is paused")
	ErrNotPaused                    = errors.Register(ModuleName, 21, "ledger is not paused")
	ErrContractIsMigrated           = errors.Register(ModuleName, 22, "ledger is migrated")
	ErrFundsAreLocked               = errors.Register(ModuleName, 23, "funds are locked")
	ErrDailyWithdrawalLimitExceeded = errors.Register(ModuleName, 24, "daily withdrawal limit exceeded")
	ErrNoRewardsAvailable           = errors.Register(ModuleName, 25, "no rewards available")
	ErrNoDepositsFound              = errors.Register(ModuleName, 26, "no deposits found")
	ErrNoPendingCommission          = errors.Register(ModuleName, 27, "no pending commission")

	// Authorization errors
	ErrUnauthorized = errors.Register(ModuleName, 40, "unauthorized")

	// Resource exhaustion errors
	ErrMaxDepositsReached = errors.Register(ModuleName, 50, "max deposits per user reached")

	// Transfer errors
	ErrTransferFailed = errors.Register(ModuleName, 60, "value transfer failed")
)
