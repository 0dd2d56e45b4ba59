// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/lvldb"
	"github.com/cliqproject/cliq-staking/roles"
	"github.com/cliqproject/cliq-staking/token"
)

var (
	contractAddr = cliq.BytesToAddress([]byte("staking-contract"))
	admin        = cliq.BytesToAddress([]byte("admin"))
	provider     = cliq.BytesToAddress([]byte("provider"))
	alice        = cliq.BytesToAddress([]byte("alice"))
	bob          = cliq.BytesToAddress([]byte("bob"))

	silverName   = cliq.StringToName("Silver Package")
	goldName     = cliq.StringToName("Gold Package")
	platinumName = cliq.StringToName("Platinum Package")
)

type recordedEvents struct {
	records []*Event
}

func (r *recordedEvents) Append(ev *Event) error {
	r.records = append(r.records, ev)
	return nil
}

func (r *recordedEvents) last(t *testing.T) *Event {
	require.NotEmpty(t, r.records)
	return r.records[len(r.records)-1]
}

type fixture struct {
	staking *Staking
	staked  *token.Token
	cliqTok *token.Token
	events  *recordedEvents
	clock   uint64
}

func newFixture(t *testing.T) *fixture {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		staked:  token.New("IRIS", store),
		cliqTok: token.New("CLIQ", store),
		events:  &recordedEvents{},
		clock:   1000 * day,
	}
	auth, err := roles.New(store, admin)
	require.NoError(t, err)
	require.NoError(t, auth.Grant(admin, roles.RewardProvider, provider))
	require.NoError(t, auth.Grant(admin, roles.Maintainer, admin))

	f.staking = New(contractAddr, store, f.staked, f.cliqTok, auth, f.events, func() uint64 { return f.clock })

	// fund the participants and let the contract pull from them
	for _, user := range []cliq.Address{alice, bob, provider} {
		require.NoError(t, f.staked.Mint(user, big.NewInt(10_000)))
		require.NoError(t, f.staked.Approve(user, contractAddr, big.NewInt(1_000_000)))
	}
	return f
}

func (f *fixture) pass(days uint64) {
	f.clock += days * day
}

func (f *fixture) fundPool(t *testing.T, amount int64) {
	require.NoError(t, f.staking.AddStakedTokenReward(provider, big.NewInt(amount)))
}

func (f *fixture) fundCliq(t *testing.T, amount int64) {
	require.NoError(t, f.cliqTok.Mint(contractAddr, big.NewInt(amount)))
}

func (f *fixture) balance(t *testing.T, tok *token.Token, addr cliq.Address) *big.Int {
	bal, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

func TestStake(t *testing.T) {
	f := newFixture(t)

	index, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), index)

	assert.Equal(t, big.NewInt(9_900), f.balance(t, f.staked, alice))
	assert.Equal(t, big.NewInt(100), f.balance(t, f.staked, contractAddr))

	st, err := f.staking.Stakes(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), st.Amount)
	assert.Equal(t, f.clock, st.Timestamp)
	assert.Equal(t, silverName, st.PackageName)
	assert.True(t, st.IsOpen())

	has, err := f.staking.HasStaked(alice)
	require.NoError(t, err)
	assert.True(t, has)

	total, err := f.staking.TotalStakedFunds()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), total)

	ev := f.events.last(t)
	assert.Equal(t, EvStakeAdded, ev.Name)
	assert.Equal(t, alice, ev.User)
	assert.Equal(t, silverName, ev.Package)
	assert.Equal(t, uint64(0), ev.StakeIndex)
}

func TestStakeValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.staking.Stake(alice, big.NewInt(0), silverName, NativeToken)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = f.staking.Stake(alice, big.NewInt(-5), silverName, NativeToken)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = f.staking.Stake(alice, nil, silverName, NativeToken)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = f.staking.Stake(alice, big.NewInt(10), cliq.StringToName("Bronze Package"), NativeToken)
	assert.ErrorIs(t, err, ErrUnknownPackage)

	_, err = f.staking.Stake(alice, big.NewInt(10), silverName, RewardType(7))
	assert.ErrorIs(t, err, ErrUnknownRewardType)

	// nothing moved, nothing recorded
	assert.Equal(t, big.NewInt(10_000), f.balance(t, f.staked, alice))
	assert.Empty(t, f.events.records)
	n, err := f.staking.StakesLength(alice)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUnstakeNativeReward(t *testing.T) {
	f := newFixture(t)
	f.fundPool(t, 1_000)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)

	f.pass(31)
	require.NoError(t, f.staking.Unstake(alice, 0))

	// principal plus 8 percent, pool debited by the yield
	assert.Equal(t, big.NewInt(10_008), f.balance(t, f.staked, alice))
	pool, err := f.staking.RewardPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(992), pool)

	st, err := f.staking.Stakes(alice, 0)
	require.NoError(t, err)
	assert.False(t, st.IsOpen())

	total, err := f.staking.TotalStakedFunds()
	require.NoError(t, err)
	assert.Zero(t, total.Sign())

	ev := f.events.last(t)
	assert.Equal(t, EvUnstaked, ev.Name)
	assert.Equal(t, alice, ev.User)
}

func TestUnstakeBeforeMaturity(t *testing.T) {
	f := newFixture(t)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)

	// past the blocked period but short of the lock, principal only
	f.pass(20)
	require.NoError(t, f.staking.Unstake(alice, 0))
	assert.Equal(t, big.NewInt(10_000), f.balance(t, f.staked, alice))
}

func TestUnstakeBlockedPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)

	f.pass(14)
	err = f.staking.Unstake(alice, 0)
	assert.ErrorIs(t, err, ErrBlockedPeriod)
	assert.True(t, IsState(err))

	err = f.staking.ForceWithdraw(alice, 0)
	assert.ErrorIs(t, err, ErrBlockedPeriod)

	f.pass(1)
	require.NoError(t, f.staking.Unstake(alice, 0))
}

func TestUnstakeCliqReward(t *testing.T) {
	f := newFixture(t)
	f.fundCliq(t, 1_000)

	_, err := f.staking.Stake(alice, big.NewInt(50), silverName, CliqToken)
	require.NoError(t, err)

	f.pass(30)
	require.NoError(t, f.staking.Unstake(alice, 0))

	assert.Equal(t, big.NewInt(10_000), f.balance(t, f.staked, alice))
	assert.Equal(t, big.NewInt(50), f.balance(t, f.cliqTok, alice))
	assert.Equal(t, big.NewInt(950), f.balance(t, f.cliqTok, contractAddr))
}

func TestUnstakeGoldCliqReward(t *testing.T) {
	f := newFixture(t)
	f.fundCliq(t, 1_000)

	_, err := f.staking.Stake(alice, big.NewInt(100), goldName, CliqToken)
	require.NoError(t, err)

	f.pass(60)
	require.NoError(t, f.staking.Unstake(alice, 0))

	// 1.5 CLIQ per staked unit at full term
	assert.Equal(t, big.NewInt(150), f.balance(t, f.cliqTok, alice))
}

func TestUnstakeInsufficientLiquidity(t *testing.T) {
	f := newFixture(t)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)
	_, err = f.staking.Stake(bob, big.NewInt(100), silverName, CliqToken)
	require.NoError(t, err)

	f.pass(31)

	err = f.staking.Unstake(alice, 0)
	assert.ErrorIs(t, err, ErrInsufficientNativeLiquidity)
	assert.True(t, IsLiquidity(err))

	err = f.staking.Unstake(bob, 0)
	assert.ErrorIs(t, err, ErrInsufficientCliqLiquidity)

	// both stakes stayed open and the principal stayed put
	st, err := f.staking.Stakes(alice, 0)
	require.NoError(t, err)
	assert.True(t, st.IsOpen())
	assert.Equal(t, big.NewInt(200), f.balance(t, f.staked, contractAddr))

	// funding the pool unblocks the withdrawal
	f.fundPool(t, 8)
	require.NoError(t, f.staking.Unstake(alice, 0))
	assert.Equal(t, big.NewInt(10_008), f.balance(t, f.staked, alice))
}

func TestUnstakeTwice(t *testing.T) {
	f := newFixture(t)
	f.fundPool(t, 100)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)

	f.pass(31)
	require.NoError(t, f.staking.Unstake(alice, 0))
	assert.ErrorIs(t, f.staking.Unstake(alice, 0), ErrAlreadyWithdrawn)
	assert.ErrorIs(t, f.staking.ForceWithdraw(alice, 0), ErrAlreadyWithdrawn)
}

func TestUnstakeUnknownStake(t *testing.T) {
	f := newFixture(t)

	err := f.staking.Unstake(alice, 0)
	assert.ErrorIs(t, err, ErrStakeNotDefined)
	assert.True(t, IsNotFound(err))
}

func TestRewardFrozenAfterUnstake(t *testing.T) {
	f := newFixture(t)
	f.fundPool(t, 100)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)

	f.pass(35)
	require.NoError(t, f.staking.Unstake(alice, 0))

	yield, days, err := f.staking.CheckStakeReward(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(35), days)
	assert.Equal(t, big.NewInt(8), yield)

	// time passing changes nothing for a closed stake
	f.pass(365)
	yield, days, err = f.staking.CheckStakeReward(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(35), days)
	assert.Equal(t, big.NewInt(8), yield)
}

func TestForceWithdraw(t *testing.T) {
	f := newFixture(t)
	f.fundPool(t, 1_000)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)

	// matured, but the reward is forfeited anyway
	f.pass(40)
	require.NoError(t, f.staking.ForceWithdraw(alice, 0))

	assert.Equal(t, big.NewInt(10_000), f.balance(t, f.staked, alice))
	pool, err := f.staking.RewardPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000), pool)

	ev := f.events.last(t)
	assert.Equal(t, EvForcefullyWithdrawn, ev.Name)
}

func TestRewardPool(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.staking.AddStakedTokenReward(provider, big.NewInt(500)))
	pool, err := f.staking.RewardPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), pool)
	assert.Equal(t, big.NewInt(9_500), f.balance(t, f.staked, provider))

	require.NoError(t, f.staking.RemoveStakedTokenReward(provider, big.NewInt(200)))
	pool, err = f.staking.RewardPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), pool)
	assert.Equal(t, big.NewInt(9_700), f.balance(t, f.staked, provider))

	err = f.staking.RemoveStakedTokenReward(provider, big.NewInt(301))
	assert.ErrorIs(t, err, ErrInsufficientPool)

	ev := f.events.last(t)
	assert.Equal(t, EvNativeTokenRewardRemoved, ev.Name)
}

func TestRewardPoolAuthorization(t *testing.T) {
	f := newFixture(t)

	err := f.staking.AddStakedTokenReward(alice, big.NewInt(100))
	assert.ErrorIs(t, err, ErrNotRewardProvider)
	assert.True(t, IsAuthorization(err))

	err = f.staking.RemoveStakedTokenReward(alice, big.NewInt(100))
	assert.ErrorIs(t, err, ErrNotRewardProvider)
}

func TestPoolNotSpendableAsPrincipal(t *testing.T) {
	f := newFixture(t)
	f.fundPool(t, 10)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)

	f.pass(31)
	// yield of 8 fits the pool of 10
	require.NoError(t, f.staking.Unstake(alice, 0))

	pool, err := f.staking.RewardPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), pool)
	// the remaining contract balance is exactly the pool remainder
	assert.Equal(t, big.NewInt(2), f.balance(t, f.staked, contractAddr))
}

func TestUnstakeTransferFailureKeepsStakeOpen(t *testing.T) {
	f := newFixture(t)
	f.fundPool(t, 8)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)

	// drain the contract's principal so the pool check passes but the
	// payout transfer cannot
	require.NoError(t, f.staking.ParkFunds(admin, f.staked, big.NewInt(100)))

	f.pass(31)
	require.Error(t, f.staking.Unstake(alice, 0))

	st, err := f.staking.Stakes(alice, 0)
	require.NoError(t, err)
	assert.True(t, st.IsOpen())

	total, err := f.staking.TotalStakedFunds()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), total)

	pool, err := f.staking.RewardPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(8), pool)

	// once liquidity is restored the retry goes through
	require.NoError(t, f.staked.Mint(contractAddr, big.NewInt(100)))
	require.NoError(t, f.staking.Unstake(alice, 0))
	assert.Equal(t, big.NewInt(10_008), f.balance(t, f.staked, alice))
}

func TestForceWithdrawTransferFailureKeepsStakeOpen(t *testing.T) {
	f := newFixture(t)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)
	require.NoError(t, f.staking.ParkFunds(admin, f.staked, big.NewInt(100)))

	f.pass(20)
	require.Error(t, f.staking.ForceWithdraw(alice, 0))

	st, err := f.staking.Stakes(alice, 0)
	require.NoError(t, err)
	assert.True(t, st.IsOpen())

	total, err := f.staking.TotalStakedFunds()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), total)

	require.NoError(t, f.staked.Mint(contractAddr, big.NewInt(100)))
	require.NoError(t, f.staking.ForceWithdraw(alice, 0))
	assert.Equal(t, big.NewInt(10_000), f.balance(t, f.staked, alice))
}

func TestRemoveRewardTransferFailureKeepsPool(t *testing.T) {
	f := newFixture(t)
	f.fundPool(t, 50)
	require.NoError(t, f.staking.ParkFunds(admin, f.staked, big.NewInt(50)))

	require.Error(t, f.staking.RemoveStakedTokenReward(provider, big.NewInt(30)))

	pool, err := f.staking.RewardPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), pool)

	require.NoError(t, f.staked.Mint(contractAddr, big.NewInt(50)))
	require.NoError(t, f.staking.RemoveStakedTokenReward(provider, big.NewInt(30)))

	pool, err = f.staking.RewardPoolBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), pool)
}

func TestPause(t *testing.T) {
	f := newFixture(t)
	f.fundPool(t, 100)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)

	require.NoError(t, f.staking.PauseStaking(admin))
	paused, err := f.staking.Paused()
	require.NoError(t, err)
	assert.True(t, paused)

	_, err = f.staking.Stake(alice, big.NewInt(50), silverName, NativeToken)
	assert.ErrorIs(t, err, ErrPaused)
	assert.True(t, IsPaused(err))

	// withdrawals and pool operations keep working while paused
	f.pass(31)
	require.NoError(t, f.staking.Unstake(alice, 0))
	require.NoError(t, f.staking.AddStakedTokenReward(provider, big.NewInt(10)))

	require.NoError(t, f.staking.UnpauseStaking(admin))
	_, err = f.staking.Stake(alice, big.NewInt(50), silverName, NativeToken)
	require.NoError(t, err)
}

func TestPauseAuthorization(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.staking.PauseStaking(alice), ErrNotMaintainer)
	assert.ErrorIs(t, f.staking.PauseStaking(provider), ErrNotMaintainer)
	assert.ErrorIs(t, f.staking.UnpauseStaking(alice), ErrNotMaintainer)
}

func TestParkFunds(t *testing.T) {
	f := newFixture(t)
	f.fundCliq(t, 500)

	require.NoError(t, f.staking.ParkFunds(admin, f.cliqTok, big.NewInt(200)))
	assert.Equal(t, big.NewInt(200), f.balance(t, f.cliqTok, admin))
	assert.Equal(t, big.NewInt(300), f.balance(t, f.cliqTok, contractAddr))

	ev := f.events.last(t)
	assert.Equal(t, EvFundsParked, ev.Name)
	assert.Equal(t, "CLIQ", ev.Token)

	assert.ErrorIs(t, f.staking.ParkFunds(alice, f.cliqTok, big.NewInt(10)), ErrNotMaintainer)
}

func TestMultipleStakesPerUser(t *testing.T) {
	f := newFixture(t)
	f.fundPool(t, 1_000)
	f.fundCliq(t, 1_000)

	_, err := f.staking.Stake(alice, big.NewInt(100), silverName, NativeToken)
	require.NoError(t, err)
	f.pass(5)
	_, err = f.staking.Stake(alice, big.NewInt(200), platinumName, CliqToken)
	require.NoError(t, err)

	n, err := f.staking.StakesLength(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	balance, err := f.staking.TotalStakedBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), balance)

	// closing one leaves the other intact
	f.pass(26)
	require.NoError(t, f.staking.Unstake(alice, 0))

	balance, err = f.staking.TotalStakedBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(200), balance)

	st, err := f.staking.Stakes(alice, 1)
	require.NoError(t, err)
	assert.True(t, st.IsOpen())
}

func TestCheckRewardReaders(t *testing.T) {
	f := newFixture(t)

	_, err := f.staking.Stake(alice, big.NewInt(50), silverName, NativeToken)
	require.NoError(t, err)

	yield, days, err := f.staking.CheckStakeReward(alice, 0)
	require.NoError(t, err)
	assert.Zero(t, days)
	assert.Zero(t, yield.Sign())

	f.pass(30)
	yield, days, err = f.staking.CheckStakeReward(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), days)
	assert.Equal(t, big.NewInt(4), yield)

	_, _, err = f.staking.CheckStakeCliqReward(alice, 0)
	assert.ErrorIs(t, err, ErrNotCliqReward)

	_, _, err = f.staking.CheckStakeReward(bob, 0)
	assert.ErrorIs(t, err, ErrStakeNotDefined)
}
