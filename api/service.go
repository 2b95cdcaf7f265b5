package api

import (
	"context"
	"strconv"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/api/types"
	"github.com/openalpha/yield-vault/metrics"
	"github.com/openalpha/yield-vault/x/vault/keeper"
	"github.com/openalpha/yield-vault/x/vault/localnet"
	vaulttypes "github.com/openalpha/yield-vault/x/vault/types"
)

var _ types.VaultService = (*Service)(nil)

// EventPublisher receives the ledger events emitted by each operation
type EventPublisher interface {
	PublishEvents(events sdk.Events)
}

// Service serves vault operations from an in-memory chain. Writes are
// delivered as vault Msgs through the module MsgServer. Every call runs at
// the current wall clock as block time and is serialised.
type Service struct {
	mu        sync.Mutex
	chain     *localnet.Chain
	msgs      *keeper.MsgServer
	now       func() time.Time
	logger    log.Logger
	metrics   *metrics.Collector
	publisher EventPublisher
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithClock overrides the clock used as block time
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithPublisher forwards ledger events to p
func WithPublisher(p EventPublisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics records operation outcomes on c
func WithMetrics(c *metrics.Collector) ServiceOption {
	return func(s *Service) { s.metrics = c }
}

// NewService creates a vault service on a fresh local chain
func NewService(cfg localnet.Config, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		now:    time.Now,
		logger: cfg.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewNopLogger()
		cfg.Logger = s.logger
	}
	if cfg.GenesisTime.IsZero() {
		cfg.GenesisTime = s.now()
	}

	chain, err := localnet.NewChain(cfg)
	if err != nil {
		return nil, err
	}
	s.chain = chain
	s.msgs = keeper.NewMsgServerImpl(chain.Keeper)
	return s, nil
}

// Chain exposes the underlying local chain
func (s *Service) Chain() *localnet.Chain {
	return s.chain
}

// validatable is a vault Msg with stateless checks
type validatable interface {
	ValidateBasic() error
}

// exec delivers msg the way the chain does: ValidateBasic first, then fn on a
// branched store at the current time, committed only when fn succeeds
func (s *Service) exec(op string, msg validatable, fn func(ctx sdk.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.chain.SetTime(s.now()).WithEventManager(sdk.NewEventManager())
	cacheCtx, write := ctx.CacheContext()
	err := msg.ValidateBasic()
	if err == nil {
		err = fn(cacheCtx)
	}
	if s.metrics != nil {
		s.metrics.RecordOperation(op, err)
	}
	if err != nil {
		s.logger.Debug("vault operation rejected", "operation", op, "error", err)
		return err
	}
	write()
	if s.publisher != nil {
		s.publisher.PublishEvents(ctx.EventManager().Events())
	}
	return nil
}

// view runs a read-only fn at the current time
func (s *Service) view(fn func(ctx sdk.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.chain.SetTime(s.now()))
}

func parseAmount(raw string) (math.Int, error) {
	amount, ok := math.NewIntFromString(raw)
	if !ok {
		return math.Int{}, vaulttypes.ErrInvalidAmount.Wrapf("cannot parse %q", raw)
	}
	return amount, nil
}

func validateAddress(addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return vaulttypes.ErrInvalidAddress.Wrapf("%q: %s", addr, err)
	}
	return nil
}

// ============ Depositor operations ============

// Deposit opens a new deposit for caller
func (s *Service) Deposit(ctx context.Context, caller string, req *types.DepositRequest) (*types.DepositResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if req.LockupDays > uint64(^uint32(0)) {
		return nil, vaulttypes.ErrInvalidLockupDuration.Wrapf("lockup %d days, allowed %v", req.LockupDays, vaulttypes.AllLockupTiers)
	}
	msg := &vaulttypes.MsgDeposit{
		Depositor:  caller,
		LockupDays: uint32(req.LockupDays),
		Amount:     amount.String(),
	}

	var resp *types.DepositResponse
	err = s.exec("deposit", msg, func(ctx sdk.Context) error {
		res, err := s.msgs.Deposit(ctx, msg)
		if err != nil {
			return err
		}
		if s.metrics != nil {
			forwarded := !hasEvent(ctx.EventManager().Events(), vaulttypes.EventTypeCommissionPending)
			s.metrics.RecordDeposit(toFloat(msg.Amount), toFloat(res.Commission), forwarded)
		}
		for _, d := range s.chain.Keeper.GetUserDeposits(ctx, caller) {
			if d.ID == res.DepositID {
				resp = &types.DepositResponse{
					Deposit:    depositView(d, ctx.BlockTime().Unix(), math.ZeroInt()),
					Commission: res.Commission,
				}
				return nil
			}
		}
		return vaulttypes.ErrNoDepositsFound.Wrapf("deposit %d not stored", res.DepositID)
	})
	return resp, err
}

// Withdraw pays out caller's accrued reward
func (s *Service) Withdraw(ctx context.Context, caller string) (*types.AmountResponse, error) {
	msg := &vaulttypes.MsgWithdraw{Owner: caller}
	return s.payout("withdraw", msg, func(ctx sdk.Context) (string, error) {
		res, err := s.msgs.Withdraw(ctx, msg)
		if err != nil {
			return "", err
		}
		if s.metrics != nil {
			s.metrics.RecordRewards(toFloat(res.AmountPaid))
		}
		return res.AmountPaid, nil
	})
}

// WithdrawAll closes caller's account
func (s *Service) WithdrawAll(ctx context.Context, caller string) (*types.AmountResponse, error) {
	msg := &vaulttypes.MsgWithdrawAll{Owner: caller}
	return s.payout("withdraw_all", msg, func(ctx sdk.Context) (string, error) {
		return paid(s.msgs.WithdrawAll(ctx, msg))
	})
}

// Compound folds caller's rewards into the selected deposit
func (s *Service) Compound(ctx context.Context, caller string, req *types.CompoundRequest) (*types.AmountResponse, error) {
	msg := &vaulttypes.MsgCompound{Owner: caller, DepositIndex: req.DepositIndex}
	return s.payout("compound", msg, func(ctx sdk.Context) (string, error) {
		res, err := s.msgs.Compound(ctx, msg)
		if err != nil {
			return "", err
		}
		if s.metrics != nil {
			s.metrics.RecordRewards(toFloat(res.Compounded))
		}
		return res.Compounded, nil
	})
}

// EmergencyUserWithdraw returns caller's principal from a paused vault
func (s *Service) EmergencyUserWithdraw(ctx context.Context, caller string) (*types.AmountResponse, error) {
	msg := &vaulttypes.MsgEmergencyUserWithdraw{Owner: caller}
	return s.payout("emergency_user_withdraw", msg, func(ctx sdk.Context) (string, error) {
		return paid(s.msgs.EmergencyUserWithdraw(ctx, msg))
	})
}

func (s *Service) payout(op string, msg validatable, fn func(ctx sdk.Context) (string, error)) (*types.AmountResponse, error) {
	var amount string
	err := s.exec(op, msg, func(ctx sdk.Context) error {
		var err error
		amount, err = fn(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.AmountResponse{Amount: amount}, nil
}

func paid(res *vaulttypes.MsgPayoutResponse, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return res.AmountPaid, nil
}

// ============ Administrator operations ============

// Pause halts user operations
func (s *Service) Pause(ctx context.Context, caller string) (*types.StatusResponse, error) {
	msg := &vaulttypes.MsgPause{Authority: caller}
	return s.transition("pause", msg, func(ctx sdk.Context) error {
		_, err := s.msgs.Pause(ctx, msg)
		return err
	})
}

// Unpause resumes user operations
func (s *Service) Unpause(ctx context.Context, caller string) (*types.StatusResponse, error) {
	msg := &vaulttypes.MsgUnpause{Authority: caller}
	return s.transition("unpause", msg, func(ctx sdk.Context) error {
		_, err := s.msgs.Unpause(ctx, msg)
		return err
	})
}

// ChangeTreasury rotates the commission recipient
func (s *Service) ChangeTreasury(ctx context.Context, caller, treasury string) (*types.StatusResponse, error) {
	msg := &vaulttypes.MsgChangeTreasury{Authority: caller, Treasury: treasury}
	return s.transition("change_treasury", msg, func(ctx sdk.Context) error {
		_, err := s.msgs.ChangeTreasury(ctx, msg)
		return err
	})
}

// Migrate closes the vault to new deposits
func (s *Service) Migrate(ctx context.Context, caller, target string) (*types.StatusResponse, error) {
	msg := &vaulttypes.MsgMigrate{Authority: caller, NewAddress: target}
	return s.transition("migrate", msg, func(ctx sdk.Context) error {
		_, err := s.msgs.Migrate(ctx, msg)
		return err
	})
}

func (s *Service) transition(op string, msg validatable, fn func(ctx sdk.Context) error) (*types.StatusResponse, error) {
	var status string
	err := s.exec(op, msg, func(ctx sdk.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		status = s.chain.Keeper.GetLedgerState(ctx).Status()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &types.StatusResponse{Status: status}, nil
}

// AddBalance injects reward liquidity from caller
func (s *Service) AddBalance(ctx context.Context, caller string, req *types.AmountRequest) (*types.AmountResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	msg := &vaulttypes.MsgAddBalance{Authority: caller, Amount: amount.String()}
	return s.payout("add_balance", msg, func(ctx sdk.Context) (string, error) {
		if _, err := s.msgs.AddBalance(ctx, msg); err != nil {
			return "", err
		}
		return msg.Amount, nil
	})
}

// EmergencyWithdraw sweeps the module account to to
func (s *Service) EmergencyWithdraw(ctx context.Context, caller, to string) (*types.AmountResponse, error) {
	msg := &vaulttypes.MsgEmergencyWithdraw{Authority: caller, To: to}
	return s.payout("emergency_withdraw", msg, func(ctx sdk.Context) (string, error) {
		return paid(s.msgs.EmergencyWithdraw(ctx, msg))
	})
}

// WithdrawPendingCommission pays parked commission to the treasury
func (s *Service) WithdrawPendingCommission(ctx context.Context, caller string) (*types.AmountResponse, error) {
	msg := &vaulttypes.MsgWithdrawPendingCommission{Authority: caller}
	return s.payout("withdraw_pending_commission", msg, func(ctx sdk.Context) (string, error) {
		return paid(s.msgs.WithdrawPendingCommission(ctx, msg))
	})
}

// ============ Queries ============

// User returns the deposits and pending rewards of address
func (s *Service) User(ctx context.Context, address string) (*types.UserView, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	var view *types.UserView
	s.view(func(ctx sdk.Context) {
		k := s.chain.Keeper
		now := ctx.BlockTime().Unix()
		acc := k.GetAccount(ctx, address)
		info := k.GetUserInfo(ctx, address)
		view = &types.UserView{
			Address:        address,
			TotalDeposited: info.TotalDeposited.String(),
			PendingRewards: info.PendingRewards.String(),
			LastWithdraw:   info.LastWithdraw,
			DepositCount:   info.DepositCount,
		}
		if acc == nil {
			return
		}
		_, perDeposit := keeper.AccrueAll(acc, now, k.GetParams(ctx))
		view.Deposits = make([]types.DepositView, len(acc.Deposits))
		for i, d := range acc.Deposits {
			view.Deposits[i] = depositView(d, now, perDeposit[i])
		}
	})
	return view, nil
}

// Rewards returns the reward address could claim now
func (s *Service) Rewards(ctx context.Context, address string) (*types.AmountResponse, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	var reward math.Int
	s.view(func(ctx sdk.Context) {
		reward = s.chain.Keeper.CalculateRewards(ctx, address)
	})
	return &types.AmountResponse{Amount: reward.String()}, nil
}

// State returns the global ledger state
func (s *Service) State(ctx context.Context) (*types.StateView, error) {
	var view *types.StateView
	s.view(func(ctx sdk.Context) {
		k := s.chain.Keeper
		state := k.GetLedgerState(ctx)
		view = &types.StateView{
			Status:                   state.Status(),
			TotalPoolBalance:         state.TotalPoolBalance.String(),
			UniqueUsers:              state.UniqueUsersCount,
			PendingCommission:        state.PendingCommission.String(),
			Treasury:                 state.Treasury,
			Paused:                   state.Paused,
			Migrated:                 state.Migrated,
			MigrationTarget:          state.MigrationTarget,
			TotalCommissionForwarded: state.TotalCommissionForwarded.String(),
			TotalRewardsPaid:         state.TotalRewardsPaid.String(),
			TotalInjected:            state.TotalInjected.String(),
			ContractBalance:          k.GetContractBalance(ctx).String(),
			BlockTime:                ctx.BlockTime().Unix(),
		}
	})
	return view, nil
}

// Balance returns the module account balance
func (s *Service) Balance(ctx context.Context) (*types.BalanceResponse, error) {
	var resp *types.BalanceResponse
	s.view(func(ctx sdk.Context) {
		k := s.chain.Keeper
		resp = &types.BalanceResponse{
			Balance: k.GetContractBalance(ctx).String(),
			Denom:   k.GetParams(ctx).Denom,
		}
	})
	return resp, nil
}

// ============ Dev helpers ============

// Fund mints amount of the vault denom to address on the in-memory bank
func (s *Service) Fund(address string, amount string) error {
	if err := validateAddress(address); err != nil {
		return err
	}
	value, err := parseAmount(amount)
	if err != nil {
		return err
	}
	if !value.IsPositive() {
		return vaulttypes.ErrInvalidAmount.Wrap("amount must be greater than zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := s.chain.Context()
	denom := s.chain.Keeper.GetParams(ctx).Denom
	s.chain.Bank.Fund(ctx, sdk.MustAccAddressFromBech32(address), sdk.NewCoins(sdk.NewCoin(denom, value)))
	s.logger.Info("Dev funds minted", "address", address, "amount", value.String())
	return nil
}

// Snapshot runs the vault EndBlocker, refreshing the ledger gauges
func (s *Service) Snapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chain.SetTime(s.now())
	return s.chain.EndBlock()
}

func depositView(d vaulttypes.Deposit, now int64, pending math.Int) types.DepositView {
	return types.DepositView{
		ID:         d.ID,
		Amount:     d.Amount.String(),
		Timestamp:  d.Timestamp,
		LockupDays: uint64(d.LockupDays),
		UnlockAt:   d.UnlockAt(),
		Locked:     d.IsLocked(now),
		RewardPaid: d.RewardPaid.String(),
		Pending:    pending.String(),
	}
}

func hasEvent(events sdk.Events, eventType string) bool {
	for _, e := range events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

func toFloat(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
