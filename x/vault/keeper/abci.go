package keeper

import (
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/yield-vault/metrics"
	"github.com/openalpha/yield-vault/x/vault/types"
)

// EndBlocker publishes the ledger aggregate as metrics and a telemetry event
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	start := time.Now()
	blockHeight := ctx.BlockHeight()

	state := k.GetLedgerState(ctx)
	balance := k.GetContractBalance(ctx)

	collector := metrics.GetCollector()
	collector.RecordLedger(metrics.LedgerSnapshot{
		PoolBalance:       toFloat(state.TotalPoolBalance.String()),
		ContractBalance:   toFloat(balance.String()),
		PendingCommission: toFloat(state.PendingCommission.String()),
		UniqueUsers:       state.UniqueUsersCount,
		Paused:            state.Paused,
		Migrated:          state.Migrated,
	})

	duration := time.Since(start)
	collector.RecordEndBlock(blockHeight, float64(duration.Microseconds())/1000.0)

	k.logger.Debug("Vault EndBlocker completed",
		"block", blockHeight,
		"duration_ms", duration.Milliseconds(),
		"pool_balance", state.TotalPoolBalance.String(),
		"contract_balance", balance.String(),
		"status", state.Status(),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEndBlock,
			sdk.NewAttribute(types.AttributeKeyBlockHeight, strconv.FormatInt(blockHeight, 10)),
			sdk.NewAttribute(types.AttributeKeyDurationMs, strconv.FormatInt(duration.Milliseconds(), 10)),
			sdk.NewAttribute(types.AttributeKeyPoolBalance, state.TotalPoolBalance.String()),
			sdk.NewAttribute(types.AttributeKeyUsers, strconv.FormatUint(state.UniqueUsersCount, 10)),
		),
	)

	return nil
}

func toFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
