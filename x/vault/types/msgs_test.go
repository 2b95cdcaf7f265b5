package types

import (
	"errors"
	"testing"
)

// TestMsgValidateBasic tests stateless message checks
func TestMsgValidateBasic(t *testing.T) {
	alice := genesisAddr("alice")

	tests := []struct {
		name string
		msg  interface{ ValidateBasic() error }
		err  error
	}{
		{"deposit ok", &MsgDeposit{Depositor: alice, LockupDays: 90, Amount: "1000"}, nil},
		{"deposit bad lockup", &MsgDeposit{Depositor: alice, LockupDays: 7, Amount: "1000"}, ErrInvalidLockupDuration},
		{"deposit bad amount", &MsgDeposit{Depositor: alice, Amount: "abc"}, ErrInvalidAmount},
		{"deposit zero amount", &MsgDeposit{Depositor: alice, Amount: "0"}, ErrInvalidAmount},
		{"deposit no depositor", &MsgDeposit{Amount: "1000"}, ErrInvalidAddress},
		{"withdraw ok", &MsgWithdraw{Owner: alice}, nil},
		{"withdraw bad owner", &MsgWithdraw{Owner: "x"}, ErrInvalidAddress},
		{"add balance bad amount", &MsgAddBalance{Authority: alice, Amount: "-5"}, ErrInvalidAmount},
		{"treasury empty", &MsgChangeTreasury{Authority: alice}, ErrInvalidAddress},
		{"migrate ok", &MsgMigrate{Authority: alice, NewAddress: alice}, nil},
		{"emergency no recipient", &MsgEmergencyWithdraw{Authority: alice}, ErrInvalidAddress},
		{"pause ok", &MsgPause{Authority: alice}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.ValidateBasic()
			if tt.err == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}
