package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/openalpha/yield-vault/x/vault/keeper"
	"github.com/openalpha/yield-vault/x/vault/types"
)

// UserInfo is a CLI-friendly account summary
type UserInfo struct {
	Address        string `json:"address"`
	TotalDeposited string `json:"total_deposited"`
	PendingRewards string `json:"pending_rewards"`
	LastWithdraw   int64  `json:"last_withdraw"`
	DepositCount   int    `json:"deposit_count"`
	EstimatedAt    string `json:"estimated_at"`
}

// GetQueryCmd returns the cli query commands for the vault module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the vault module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryParams(),
		CmdQueryState(),
		CmdQueryDeposits(),
		CmdQueryUserInfo(),
		CmdQueryModuleAddress(),
	)

	return cmd
}

func printJSON(v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func queryRaw(cmd *cobra.Command, key []byte) ([]byte, error) {
	clientCtx, err := client.GetClientQueryContext(cmd)
	if err != nil {
		return nil, err
	}
	bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
	return bz, err
}

func queryParams(cmd *cobra.Command) (types.Params, error) {
	bz, err := queryRaw(cmd, keeper.ParamsKey)
	if err != nil {
		return types.Params{}, err
	}
	if len(bz) == 0 {
		return types.DefaultParams(), nil
	}
	var params types.Params
	err = json.Unmarshal(bz, &params)
	return params, err
}

func queryAccount(cmd *cobra.Command, owner string) (*types.UserAccount, error) {
	if _, err := sdk.AccAddressFromBech32(owner); err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", owner, err)
	}
	bz, err := queryRaw(cmd, keeper.AccountKey(owner))
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, nil
	}
	var acc types.UserAccount
	if err := json.Unmarshal(bz, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// CmdQueryParams returns the command to query module params
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the vault parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := queryParams(cmd)
			if err != nil {
				return err
			}
			return printJSON(params)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryState returns the command to query the ledger aggregate
func CmdQueryState() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Query pool balance, pending commission and admin state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := queryRaw(cmd, keeper.LedgerStateKey)
			if err != nil {
				return err
			}
			if len(bz) == 0 {
				return fmt.Errorf("vault state not initialized")
			}
			var state types.LedgerState
			if err := json.Unmarshal(bz, &state); err != nil {
				return err
			}
			return printJSON(struct {
				types.LedgerState
				Status string `json:"status"`
			}{state, state.Status()})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryDeposits returns the command to list the deposits of an address
func CmdQueryDeposits() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposits [address]",
		Short: "Query the deposits of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := queryAccount(cmd, args[0])
			if err != nil {
				return err
			}
			if acc == nil {
				return printJSON([]types.Deposit{})
			}
			return printJSON(acc.Deposits)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryUserInfo returns the command to summarize an address.
// Pending rewards are estimated at local wall-clock time.
func CmdQueryUserInfo() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user-info [address]",
		Short: "Query total deposited, estimated pending rewards and last withdrawal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := queryAccount(cmd, args[0])
			if err != nil {
				return err
			}
			params, err := queryParams(cmd)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			info := UserInfo{
				Address:        args[0],
				TotalDeposited: "0",
				PendingRewards: "0",
				EstimatedAt:    now.Format(time.RFC3339),
			}
			if acc != nil {
				pending, _ := keeper.AccrueAll(acc, now.Unix(), params)
				info.TotalDeposited = acc.TotalDeposited().String()
				info.PendingRewards = pending.String()
				info.LastWithdraw = acc.LastWithdrawTimestamp
				info.DepositCount = len(acc.Deposits)
			}
			return printJSON(info)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryModuleAddress returns the command to print the custody account
func CmdQueryModuleAddress() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module-address",
		Short: "Print the account custodying vault funds, for use with the bank balance query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(authtypes.NewModuleAddress(types.ModuleName).String())
			return nil
		},
	}

	return cmd
}
