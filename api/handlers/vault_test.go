package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/openalpha/yield-vault/api/middleware"
	"github.com/openalpha/yield-vault/api/types"
	vaulttypes "github.com/openalpha/yield-vault/x/vault/types"
)

// stubService returns canned results and records the last caller
type stubService struct {
	err        error
	lastCaller string
	lastIndex  uint32
	lastTarget string
}

func (s *stubService) result(caller string) (*types.AmountResponse, error) {
	s.lastCaller = caller
	if s.err != nil {
		return nil, s.err
	}
	return &types.AmountResponse{Amount: "42"}, nil
}

func (s *stubService) status(caller string) (*types.StatusResponse, error) {
	s.lastCaller = caller
	if s.err != nil {
		return nil, s.err
	}
	return &types.StatusResponse{Status: vaulttypes.StatusPaused}, nil
}

func (s *stubService) Deposit(_ context.Context, caller string, req *types.DepositRequest) (*types.DepositResponse, error) {
	s.lastCaller = caller
	if s.err != nil {
		return nil, s.err
	}
	return &types.DepositResponse{
		Deposit:    types.DepositView{ID: 1, Amount: "940", LockupDays: req.LockupDays},
		Commission: "60",
	}, nil
}

func (s *stubService) Withdraw(_ context.Context, caller string) (*types.AmountResponse, error) {
	return s.result(caller)
}

func (s *stubService) WithdrawAll(_ context.Context, caller string) (*types.AmountResponse, error) {
	return s.result(caller)
}

func (s *stubService) Compound(_ context.Context, caller string, req *types.CompoundRequest) (*types.AmountResponse, error) {
	s.lastIndex = req.DepositIndex
	return s.result(caller)
}

func (s *stubService) EmergencyUserWithdraw(_ context.Context, caller string) (*types.AmountResponse, error) {
	return s.result(caller)
}

func (s *stubService) Pause(_ context.Context, caller string) (*types.StatusResponse, error) {
	return s.status(caller)
}

func (s *stubService) Unpause(_ context.Context, caller string) (*types.StatusResponse, error) {
	return s.status(caller)
}

func (s *stubService) ChangeTreasury(_ context.Context, caller, treasury string) (*types.StatusResponse, error) {
	s.lastTarget = treasury
	return s.status(caller)
}

func (s *stubService) Migrate(_ context.Context, caller, target string) (*types.StatusResponse, error) {
	s.lastTarget = target
	return s.status(caller)
}

func (s *stubService) AddBalance(_ context.Context, caller string, _ *types.AmountRequest) (*types.AmountResponse, error) {
	return s.result(caller)
}

func (s *stubService) EmergencyWithdraw(_ context.Context, caller, to string) (*types.AmountResponse, error) {
	s.lastTarget = to
	return s.result(caller)
}

func (s *stubService) WithdrawPendingCommission(_ context.Context, caller string) (*types.AmountResponse, error) {
	return s.result(caller)
}

func (s *stubService) User(_ context.Context, address string) (*types.UserView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.UserView{Address: address, TotalDeposited: "940", DepositCount: 1}, nil
}

func (s *stubService) Rewards(_ context.Context, _ string) (*types.AmountResponse, error) {
	return s.result("")
}

func (s *stubService) State(_ context.Context) (*types.StateView, error) {
	return &types.StateView{Status: vaulttypes.StatusActive, TotalPoolBalance: "940"}, nil
}

func (s *stubService) Balance(_ context.Context) (*types.BalanceResponse, error) {
	return &types.BalanceResponse{Balance: "940", Denom: "usdc"}, nil
}

func newRouter(svc types.VaultService) *mux.Router {
	r := mux.NewRouter()
	NewVaultHandler(svc).RegisterRoutes(r, r)
	return r
}

func do(t *testing.T, router http.Handler, method, path, caller string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set(middleware.CallerHeader, caller)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestDepositHandler tests a deposit request reaches the service with the caller header
func TestDepositHandler(t *testing.T) {
	svc := &stubService{}
	rec := do(t, newRouter(svc), http.MethodPost, "/v1/vault/deposit", "alice",
		types.DepositRequest{Amount: "1000", LockupDays: 30})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastCaller != "alice" {
		t.Errorf("expected caller alice, got %q", svc.lastCaller)
	}

	var resp types.DepositResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Deposit.LockupDays != 30 || resp.Commission != "60" {
		t.Errorf("unexpected response %+v", resp)
	}
}

// TestDepositHandlerValidation tests malformed deposit bodies are rejected
func TestDepositHandlerValidation(t *testing.T) {
	router := newRouter(&stubService{})

	rec := do(t, router, http.MethodPost, "/v1/vault/deposit", "alice", types.DepositRequest{LockupDays: 30})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing amount, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/vault/deposit", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid JSON, got %d", rec.Code)
	}
}

// TestErrorStatusMapping tests vault errors map onto HTTP statuses
func TestErrorStatusMapping(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", vaulttypes.ErrDepositTooLow.Wrap("amount 99 < min 100"), http.StatusBadRequest},
		{"lockup", vaulttypes.ErrInvalidLockupDuration, http.StatusBadRequest},
		{"paused", vaulttypes.ErrPaused, http.StatusConflict},
		{"locked", vaulttypes.ErrFundsAreLocked.Wrap("locked until tomorrow"), http.StatusConflict},
		{"no rewards", vaulttypes.ErrNoRewardsAvailable, http.StatusConflict},
		{"unauthorized", vaulttypes.ErrUnauthorized.Wrap("bob"), http.StatusForbidden},
		{"daily limit", vaulttypes.ErrDailyWithdrawalLimitExceeded, http.StatusTooManyRequests},
		{"max deposits", vaulttypes.ErrMaxDepositsReached, http.StatusTooManyRequests},
		{"transfer", vaulttypes.ErrTransferFailed.Wrap("pay"), http.StatusBadGateway},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{err: tc.err}
			rec := do(t, newRouter(svc), http.MethodPost, "/v1/vault/withdraw", "alice", nil)
			if rec.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, rec.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body["message"] == "" || body["error"] == "" {
				t.Errorf("expected error and message, got %v", body)
			}
		})
	}
}

// TestCompoundHandler tests the deposit index defaults to zero without a body
func TestCompoundHandler(t *testing.T) {
	svc := &stubService{}
	router := newRouter(svc)

	rec := do(t, router, http.MethodPost, "/v1/vault/compound", "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastIndex != 0 {
		t.Errorf("expected index 0, got %d", svc.lastIndex)
	}

	rec = do(t, router, http.MethodPost, "/v1/vault/compound", "alice", types.CompoundRequest{DepositIndex: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastIndex != 2 {
		t.Errorf("expected index 2, got %d", svc.lastIndex)
	}
}

// TestAdminHandlers tests admin routes pass the target address through
func TestAdminHandlers(t *testing.T) {
	svc := &stubService{}
	router := newRouter(svc)

	rec := do(t, router, http.MethodPost, "/v1/vault/admin/migrate", "admin", types.AddressRequest{Address: "newvault"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastTarget != "newvault" || svc.lastCaller != "admin" {
		t.Errorf("unexpected call target=%q caller=%q", svc.lastTarget, svc.lastCaller)
	}

	var status types.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Status != vaulttypes.StatusPaused {
		t.Errorf("expected status %s, got %s", vaulttypes.StatusPaused, status.Status)
	}

	rec = do(t, router, http.MethodPost, "/v1/vault/admin/emergency-withdraw", "admin", types.AddressRequest{Address: "safe"})
	if rec.Code != http.StatusOK || svc.lastTarget != "safe" {
		t.Errorf("expected sweep to safe, got %d %q", rec.Code, svc.lastTarget)
	}
}

// TestQueryHandlers tests the read routes
func TestQueryHandlers(t *testing.T) {
	router := newRouter(&stubService{})

	rec := do(t, router, http.MethodGet, "/v1/vault/users/cosmos1abc/deposits", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var deposits struct {
		Deposits []types.DepositView `json:"deposits"`
		Total    string              `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &deposits); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if deposits.Deposits == nil || deposits.Total != "940" {
		t.Errorf("unexpected deposits response %+v", deposits)
	}

	rec = do(t, router, http.MethodGet, "/v1/vault/state", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/v1/vault/deposit", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET on a write route, got %d", rec.Code)
	}
}
