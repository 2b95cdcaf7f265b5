package keeper_test

import (
	"time"

	"github.com/openalpha/yield-vault/x/vault/localnet"
	"github.com/openalpha/yield-vault/x/vault/types"
)

func (s *KeeperTestSuite) TestGenesis_ExportImport() {
	s.chain.Bank.Block(s.treasury)
	s.deposit(s.alice, 30, 10_000)
	s.deposit(s.bob, 0, 5_000)
	s.chain.Advance(10 * time.Hour)
	s.Require().NoError(s.k.Pause(s.ctx(), s.admin.String()))

	exported := s.k.ExportGenesis(s.ctx())
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Accounts, 2)
	s.Require().Equal(uint64(3), exported.State.NextDepositID)
	s.Require().Equal(int64(900), exported.State.PendingCommission.Int64())

	other, err := localnet.NewChain(localnet.Config{
		Authority:   s.admin.String(),
		GenesisTime: s.chain.Now(),
	})
	s.Require().NoError(err)
	other.Keeper.InitGenesis(other.Context(), *exported)

	state := other.Keeper.GetLedgerState(other.Context())
	s.Require().True(state.Paused)
	s.Require().Equal(s.treasury.String(), state.Treasury)
	s.Require().Equal(uint64(2), state.UniqueUsersCount)
	s.Require().Equal(int64(9400+4700), state.TotalPoolBalance.Int64())

	s.Require().Equal(
		s.k.CalculateRewards(s.ctx(), s.alice.String()).Int64(),
		other.Keeper.CalculateRewards(other.Context(), s.alice.String()).Int64(),
	)
	s.Require().Len(other.Keeper.GetUserDeposits(other.Context(), s.bob.String()), 1)
}

func (s *KeeperTestSuite) TestGenesis_TreasuryDefaultsToAuthority() {
	state := s.k.GetLedgerState(s.ctx())
	s.Require().Equal(s.treasury.String(), state.Treasury)

	chain, err := localnet.NewChain(localnet.Config{Authority: s.admin.String()})
	s.Require().NoError(err)
	s.Require().Equal(s.admin.String(), chain.Keeper.GetLedgerState(chain.Context()).Treasury)
	s.Require().Equal(types.DefaultParams().String(), chain.Keeper.GetParams(chain.Context()).String())
}
