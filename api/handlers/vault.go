package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/gorilla/mux"

	"github.com/openalpha/yield-vault/api/middleware"
	"github.com/openalpha/yield-vault/api/types"
	vaulttypes "github.com/openalpha/yield-vault/x/vault/types"
)

// VaultHandler serves the vault REST API
type VaultHandler struct {
	service types.VaultService
}

// NewVaultHandler creates a new vault handler
func NewVaultHandler(service types.VaultService) *VaultHandler {
	return &VaultHandler{service: service}
}

// RegisterRoutes registers read routes on r and value-moving routes on w.
// w is expected to carry the per-caller write limiter.
func (h *VaultHandler) RegisterRoutes(r, w *mux.Router) {
	// Queries
	r.HandleFunc("/v1/vault/state", h.GetState).Methods(http.MethodGet)
	r.HandleFunc("/v1/vault/balance", h.GetBalance).Methods(http.MethodGet)
	r.HandleFunc("/v1/vault/users/{address}", h.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/v1/vault/users/{address}/deposits", h.GetUserDeposits).Methods(http.MethodGet)
	r.HandleFunc("/v1/vault/users/{address}/rewards", h.GetRewards).Methods(http.MethodGet)

	// Depositor operations
	w.HandleFunc("/v1/vault/deposit", h.Deposit).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/withdraw", h.Withdraw).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/withdraw-all", h.WithdrawAll).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/compound", h.Compound).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/emergency-withdraw", h.EmergencyUserWithdraw).Methods(http.MethodPost)

	// Administrator operations
	w.HandleFunc("/v1/vault/admin/pause", h.Pause).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/admin/unpause", h.Unpause).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/admin/treasury", h.ChangeTreasury).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/admin/migrate", h.Migrate).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/admin/add-balance", h.AddBalance).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/admin/emergency-withdraw", h.EmergencyWithdraw).Methods(http.MethodPost)
	w.HandleFunc("/v1/vault/admin/pending-commission", h.WithdrawPendingCommission).Methods(http.MethodPost)
}

// ============ Queries ============

// GetState returns the global ledger state
func (h *VaultHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// GetBalance returns the module account balance
func (h *VaultHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.Balance(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetUser returns the summary and deposits of a depositor
func (h *VaultHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.User(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUserDeposits returns only the deposits of a depositor
func (h *VaultHandler) GetUserDeposits(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.User(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	deposits := user.Deposits
	if deposits == nil {
		deposits = []types.DepositView{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deposits": deposits,
		"total":    user.TotalDeposited,
	})
}

// GetRewards returns the reward a depositor could claim now
func (h *VaultHandler) GetRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.service.Rewards(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rewards)
}

// ============ Depositor operations ============

// Deposit handles POST /v1/vault/deposit
func (h *VaultHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req types.DepositRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Amount == "" {
		writeError(w, http.StatusBadRequest, "missing_amount", "amount is required")
		return
	}

	resp, err := h.service.Deposit(r.Context(), caller(r), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Withdraw handles POST /v1/vault/withdraw
func (h *VaultHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Withdraw(r.Context(), caller(r))
	respond(w, resp, err)
}

// WithdrawAll handles POST /v1/vault/withdraw-all
func (h *VaultHandler) WithdrawAll(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.WithdrawAll(r.Context(), caller(r))
	respond(w, resp, err)
}

// Compound handles POST /v1/vault/compound. An empty body targets the first deposit.
func (h *VaultHandler) Compound(w http.ResponseWriter, r *http.Request) {
	var req types.CompoundRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	resp, err := h.service.Compound(r.Context(), caller(r), &req)
	respond(w, resp, err)
}

// EmergencyUserWithdraw handles POST /v1/vault/emergency-withdraw
func (h *VaultHandler) EmergencyUserWithdraw(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.EmergencyUserWithdraw(r.Context(), caller(r))
	respond(w, resp, err)
}

// ============ Administrator operations ============

// Pause handles POST /v1/vault/admin/pause
func (h *VaultHandler) Pause(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Pause(r.Context(), caller(r))
	respond(w, resp, err)
}

// Unpause handles POST /v1/vault/admin/unpause
func (h *VaultHandler) Unpause(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Unpause(r.Context(), caller(r))
	respond(w, resp, err)
}

// ChangeTreasury handles POST /v1/vault/admin/treasury
func (h *VaultHandler) ChangeTreasury(w http.ResponseWriter, r *http.Request) {
	var req types.AddressRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.service.ChangeTreasury(r.Context(), caller(r), req.Address)
	respond(w, resp, err)
}

// Migrate handles POST /v1/vault/admin/migrate
func (h *VaultHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	var req types.AddressRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.service.Migrate(r.Context(), caller(r), req.Address)
	respond(w, resp, err)
}

// AddBalance handles POST /v1/vault/admin/add-balance
func (h *VaultHandler) AddBalance(w http.ResponseWriter, r *http.Request) {
	var req types.AmountRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.service.AddBalance(r.Context(), caller(r), &req)
	respond(w, resp, err)
}

// EmergencyWithdraw handles POST /v1/vault/admin/emergency-withdraw
func (h *VaultHandler) EmergencyWithdraw(w http.ResponseWriter, r *http.Request) {
	var req types.AddressRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.service.EmergencyWithdraw(r.Context(), caller(r), req.Address)
	respond(w, resp, err)
}

// WithdrawPendingCommission handles POST /v1/vault/admin/pending-commission
func (h *VaultHandler) WithdrawPendingCommission(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.WithdrawPendingCommission(r.Context(), caller(r))
	respond(w, resp, err)
}

// ============ Helpers ============

func caller(r *http.Request) string {
	if c := middleware.CallerFromContext(r.Context()); c != "" {
		return c
	}
	return r.Header.Get(middleware.CallerHeader)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return false
	}
	return true
}

// respond writes the result of a service call
func respond(w http.ResponseWriter, resp interface{}, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// StatusFor maps a vault error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, vaulttypes.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, vaulttypes.ErrMaxDepositsReached),
		errors.Is(err, vaulttypes.ErrDailyWithdrawalLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, vaulttypes.ErrTransferFailed):
		return http.StatusBadGateway
	case errors.Is(err, vaulttypes.ErrPaused),
		errors.Is(err, vaulttypes.ErrNotPaused),
		errors.Is(err, vaulttypes.ErrContractIsMigrated),
		errors.Is(err, vaulttypes.ErrFundsAreLocked),
		errors.Is(err, vaulttypes.ErrNoRewardsAvailable),
		errors.Is(err, vaulttypes.ErrNoDepositsFound),
		errors.Is(err, vaulttypes.ErrNoPendingCommission):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, StatusFor(err), errorCode(err), err.Error())
}

// errorCode returns the registered description of err, e.g. "funds are locked"
func errorCode(err error) string {
	var coded *errorsmod.Error
	if errors.As(err, &coded) {
		return coded.Error()
	}
	return "vault_error"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}
