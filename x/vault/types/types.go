package types

import (
	"time"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "vault"
	StoreKey   = ModuleName
	RouterKey  = ModuleName
)

const (
	SecondsPerHour = int64(3600)
	SecondsPerDay  = int64(86400)

	// BpsDenominator is the basis point scale used for commission and ROI caps
	BpsDenominator = int64(10000)

	// WithdrawalWindow is the rolling window the daily withdrawal limit applies to
	WithdrawalWindow = SecondsPerDay
)

// Deposit is a single funded, lockup-tagged principal record
type Deposit struct {
	ID            uint64     `json:"id"`
	Amount        math.Int   `json:"amount"`    // net of commission, grows on compound
	Principal     math.Int   `json:"principal"` // net amount at creation
	Timestamp     int64      `json:"timestamp"`
	LockupDays    LockupTier `json:"lockup_days"`
	LastClaimTime int64      `json:"last_claim_time"`
	RewardPaid    math.Int   `json:"reward_paid"`
}

// NewDeposit creates a deposit whose accrual baseline starts at creation
func NewDeposit(id uint64, amount math.Int, lockup LockupTier, now int64) Deposit {
	return Deposit{
		ID:            id,
		Amount:        amount,
		Principal:     amount,
		Timestamp:     now,
		LockupDays:    lockup,
		LastClaimTime: now,
		RewardPaid:    math.ZeroInt(),
	}
}

// UnlockAt returns the unix time the lockup of the deposit elapses
func (d Deposit) UnlockAt() int64 {
	return d.Timestamp + int64(d.LockupDays)*SecondsPerDay
}

// IsLocked returns true if the deposit lockup has not elapsed at now
func (d Deposit) IsLocked(now int64) bool {
	return now < d.UnlockAt()
}

// HeldFor returns how long the deposit has been held at now
func (d Deposit) HeldFor(now int64) time.Duration {
	if now <= d.Timestamp {
		return 0
	}
	return time.Duration(now-d.Timestamp) * time.Second
}

// RewardCap returns the lifetime reward ceiling for the deposit
func (d Deposit) RewardCap(maxROIBps uint64) math.Int {
	return d.Principal.Mul(math.NewIntFromUint64(maxROIBps)).QuoRaw(BpsDenominator)
}

// UserAccount holds all deposits and withdrawal window accounting for one owner
type UserAccount struct {
	Owner                 string    `json:"owner"`
	Deposits              []Deposit `json:"deposits"`
	LastClaimTime         int64     `json:"last_claim_time"`
	LastWithdrawTimestamp int64     `json:"last_withdraw_timestamp"`
	WithdrawnInWindow     math.Int  `json:"withdrawn_in_window"`
	CreatedAt             int64     `json:"created_at"`
}

// NewUserAccount creates an empty account for owner
func NewUserAccount(owner string, now int64) *UserAccount {
	return &UserAccount{
		Owner:             owner,
		Deposits:          []Deposit{},
		LastClaimTime:     now,
		WithdrawnInWindow: math.ZeroInt(),
		CreatedAt:         now,
	}
}

// TotalDeposited returns the sum of all live deposit amounts
func (a *UserAccount) TotalDeposited() math.Int {
	total := math.ZeroInt()
	for _, d := range a.Deposits {
		total = total.Add(d.Amount)
	}
	return total
}

// HasLockedDeposit returns true if any deposit is still inside its lockup at now
func (a *UserAccount) HasLockedDeposit(now int64) bool {
	for _, d := range a.Deposits {
		if d.IsLocked(now) {
			return true
		}
	}
	return false
}

// LatestUnlock returns the latest unlock time across all deposits
func (a *UserAccount) LatestUnlock() int64 {
	var latest int64
	for _, d := range a.Deposits {
		if u := d.UnlockAt(); u > latest {
			latest = u
		}
	}
	return latest
}

// WindowUsage returns the amount already withdrawn in the current rolling window
func (a *UserAccount) WindowUsage(now int64) math.Int {
	if a.LastWithdrawTimestamp == 0 || now-a.LastWithdrawTimestamp >= WithdrawalWindow {
		return math.ZeroInt()
	}
	return a.WithdrawnInWindow
}

// LedgerState is the global aggregate of the vault
type LedgerState struct {
	TotalPoolBalance         math.Int `json:"total_pool_balance"`
	UniqueUsersCount         uint64   `json:"unique_users_count"`
	PendingCommission        math.Int `json:"pending_commission"`
	Treasury                 string   `json:"treasury"`
	Paused                   bool     `json:"paused"`
	Migrated                 bool     `json:"migrated"`
	MigrationTarget          string   `json:"migration_target,omitempty"`
	NextDepositID            uint64   `json:"next_deposit_id"`
	TotalCommissionForwarded math.Int `json:"total_commission_forwarded"`
	TotalRewardsPaid         math.Int `json:"total_rewards_paid"`
	TotalInjected            math.Int `json:"total_injected"`
}

// NewLedgerState returns an active, empty ledger routing commission to treasury
func NewLedgerState(treasury string) LedgerState {
	return LedgerState{
		TotalPoolBalance:         math.ZeroInt(),
		PendingCommission:        math.ZeroInt(),
		Treasury:                 treasury,
		NextDepositID:            1,
		TotalCommissionForwarded: math.ZeroInt(),
		TotalRewardsPaid:         math.ZeroInt(),
		TotalInjected:            math.ZeroInt(),
	}
}

// Status returns a readable label for the admin state
func (s LedgerState) Status() string {
	switch {
	case s.Paused && s.Migrated:
		return StatusPausedMigrated
	case s.Paused:
		return StatusPaused
	case s.Migrated:
		return StatusMigrated
	default:
		return StatusActive
	}
}

// Ledger status labels
const (
	StatusActive         = "active"
	StatusPaused         = "paused"
	StatusMigrated       = "migrated"
	StatusPausedMigrated = "paused_migrated"
)

// UserInfo is the summary returned by the user info query
type UserInfo struct {
	TotalDeposited math.Int `json:"total_deposited"`
	PendingRewards math.Int `json:"pending_rewards"`
	LastWithdraw   int64    `json:"last_withdraw"`
	DepositCount   int      `json:"deposit_count"`
}
