package types

// Event types
const (
	EventTypeDeposit                   = "vault_deposit"
	EventTypeAddBalance                = "vault_add_balance"
	EventTypeWithdraw                  = "vault_withdraw"
	EventTypeWithdrawAll               = "vault_withdraw_all"
	EventTypeCompound                  = "vault_compound"
	EventTypeCommissionForwarded       = "vault_commission_forwarded"
	EventTypeCommissionPending         = "vault_commission_pending"
	EventTypePendingCommissionWithdraw = "vault_pending_commission_withdrawn"
	EventTypeTreasuryChanged           = "vault_treasury_changed"
	EventTypePaused                    = "vault_paused"
	EventTypeUnpaused                  = "vault_unpaused"
	EventTypeMigrated                  = "vault_migrated"
	EventTypeEmergencyUserWithdraw     = "vault_emergency_user_withdraw"
	EventTypeEmergencyWithdraw         = "vault_emergency_withdraw"
	EventTypeEndBlock                  = "vault_endblock"
)

// Event attribute keys
const (
	AttributeKeyUser         = "user"
	AttributeKeyAdmin        = "admin"
	AttributeKeyAmount       = "amount"
	AttributeKeyGross        = "gross"
	AttributeKeyNet          = "net"
	AttributeKeyCommission   = "commission"
	AttributeKeyReward       = "reward"
	AttributeKeyPrincipal    = "principal"
	AttributeKeyLockupDays   = "lockup_days"
	AttributeKeyDepositID    = "deposit_id"
	AttributeKeyDepositIndex = "deposit_index"
	AttributeKeyTreasury     = "treasury"
	AttributeKeyOldTreasury  = "old_treasury"
	AttributeKeyTarget       = "target"
	AttributeKeyPending      = "pending_commission"
	AttributeKeyPoolBalance  = "total_pool_balance"
	AttributeKeyBlockHeight  = "block_height"
	AttributeKeyDurationMs   = "duration_ms"
	AttributeKeyUsers        = "unique_users"
	AttributeKeyError        = "error"
)
