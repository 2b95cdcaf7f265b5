package app

import (
	"testing"

	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	vaulttypes "github.com/openalpha/yield-vault/x/vault/types"
)

type mapOptions map[string]interface{}

func (m mapOptions) Get(key string) interface{} { return m[key] }

// TestBlockedModuleAccountAddrs tests the vault stays able to receive funds
func TestBlockedModuleAccountAddrs(t *testing.T) {
	blocked := BlockedModuleAccountAddrs(map[string][]string{
		authtypes.FeeCollectorName: nil,
		vaulttypes.ModuleName:      nil,
	})

	if !blocked[authtypes.NewModuleAddress(authtypes.FeeCollectorName).String()] {
		t.Errorf("fee collector must be blocked")
	}
	if blocked[authtypes.NewModuleAddress(vaulttypes.ModuleName).String()] {
		t.Errorf("vault module account must not be blocked")
	}
}

// TestVaultAuthority tests the administrator app option and its fallback
func TestVaultAuthority(t *testing.T) {
	if got := vaultAuthority(nil, "gov"); got != "gov" {
		t.Errorf("expected fallback with nil options, got %s", got)
	}
	if got := vaultAuthority(mapOptions{}, "gov"); got != "gov" {
		t.Errorf("expected fallback with missing option, got %s", got)
	}
	if got := vaultAuthority(mapOptions{FlagVaultAuthority: "admin"}, "gov"); got != "admin" {
		t.Errorf("expected configured authority, got %s", got)
	}
}

// TestEncodingConfigResolvesVaultMsgs tests vault messages are known to the codec
func TestEncodingConfigResolvesVaultMsgs(t *testing.T) {
	cfg := MakeEncodingConfig()

	for _, typeURL := range []string{
		"/yieldvault.vault.v1.MsgDeposit",
		"/yieldvault.vault.v1.MsgWithdraw",
		"/yieldvault.vault.v1.MsgPause",
	} {
		if _, err := cfg.InterfaceRegistry.Resolve(typeURL); err != nil {
			t.Errorf("failed to resolve %s: %v", typeURL, err)
		}
	}
	if cfg.TxConfig == nil || cfg.Amino == nil {
		t.Errorf("expected tx config and amino codec")
	}
}
