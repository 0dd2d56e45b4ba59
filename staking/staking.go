// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the CLIQ staking service: a fixed catalog of
// staking packages, an append-only per-user stake ledger, a time-based
// reward engine and a reward pool for native-token yields.
package staking

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/kv"
	"github.com/cliqproject/cliq-staking/log"
	"github.com/cliqproject/cliq-staking/roles"
	"github.com/cliqproject/cliq-staking/state"
)

// Name is the self-describing identity of the staking service.
const Name = "Cliq Staking Contract"

var logger = log.WithContext("pkg", "staking")

var pausedKey = cliq.Keccak256([]byte("paused"))

// Token is the token surface the staking service drives. The staked token
// and CLIQ both satisfy it.
type Token interface {
	Symbol() string
	BalanceOf(addr cliq.Address) (*big.Int, error)
	Transfer(from, to cliq.Address, amount *big.Int) error
	TransferFrom(spender, owner, recipient cliq.Address, amount *big.Int) error
}

// Authority answers role membership questions.
type Authority interface {
	Has(role cliq.Bytes32, addr cliq.Address) (bool, error)
}

// Staking is the staking service. All mutating operations are serialized by
// an internal lock and observe the clock exactly once, so every decision of
// one operation derives from a single timestamp.
type Staking struct {
	addr        cliq.Address
	catalog     *Catalog
	ledger      *Ledger
	pool        *Pool
	state       *state.State
	stakedToken Token
	cliqToken   Token
	auth        Authority
	events      Events
	now         func() uint64

	mu sync.Mutex
}

// New creates the staking service. addr is the identity that holds staked
// principal, pool liquidity and the CLIQ reward reserve on both tokens.
// A nil events sink discards records, a nil clock means wall time.
func New(
	addr cliq.Address,
	store kv.Store,
	stakedToken Token,
	cliqToken Token,
	auth Authority,
	events Events,
	now func() uint64,
) *Staking {
	if events == nil {
		events = nopEvents{}
	}
	if now == nil {
		now = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Staking{
		addr:        addr,
		catalog:     NewCatalog(),
		ledger:      NewLedger(store),
		pool:        NewPool(store),
		state:       state.New(kv.Bucket("staking").NewStore(store)),
		stakedToken: stakedToken,
		cliqToken:   cliqToken,
		auth:        auth,
		events:      events,
		now:         now,
	}
}

// Address returns the service's own token account.
func (s *Staking) Address() cliq.Address {
	return s.addr
}

// Paused reports whether staking of new funds is suspended.
func (s *Staking) Paused() (bool, error) {
	var paused bool
	if err := s.state.GetStructedStorage(pausedKey, &paused); err != nil {
		return false, err
	}
	return paused, nil
}

// PackageLength returns the number of staking packages.
func (s *Staking) PackageLength() int {
	return s.catalog.Len()
}

// PackageNames returns the encoded name of the package at index i.
func (s *Staking) PackageNames(i int) (cliq.Bytes32, error) {
	return s.catalog.Name(i)
}

// Packages resolves the package definition behind an encoded name.
func (s *Staking) Packages(name cliq.Bytes32) (*Package, error) {
	return s.catalog.Lookup(name)
}

// StakesLength returns how many stakes user ever created.
func (s *Staking) StakesLength(user cliq.Address) (uint64, error) {
	return s.ledger.Count(user)
}

// Stakes returns the stake at (user, index).
func (s *Staking) Stakes(user cliq.Address, index uint64) (*Stake, error) {
	return s.ledger.Get(user, index)
}

// HasStaked reports whether user ever created a stake.
func (s *Staking) HasStaked(user cliq.Address) (bool, error) {
	return s.ledger.HasAny(user)
}

// TotalStakedFunds returns the sum of all open stake amounts.
func (s *Staking) TotalStakedFunds() (*big.Int, error) {
	return s.ledger.TotalStakedFunds()
}

// TotalStakedBalance returns the sum of user's open stake amounts.
func (s *Staking) TotalStakedBalance(user cliq.Address) (*big.Int, error) {
	return s.ledger.TotalStakedBalance(user)
}

// RewardPoolBalance returns the native-token reward liquidity.
func (s *Staking) RewardPoolBalance() (*big.Int, error) {
	return s.pool.Balance()
}

// CheckStakeReward returns the current native-token yield of a stake and the
// elapsed days it derives from. For a closed stake both values are frozen.
func (s *Staking) CheckStakeReward(user cliq.Address, index uint64) (*big.Int, uint64, error) {
	st, err := s.ledger.Get(user, index)
	if err != nil {
		return nil, 0, err
	}
	pkg, err := s.catalog.Lookup(st.PackageName)
	if err != nil {
		return nil, 0, err
	}
	return CheckNativeReward(st, pkg, s.now())
}

// CheckStakeCliqReward is CheckStakeReward for CLIQ-rewarded stakes.
func (s *Staking) CheckStakeCliqReward(user cliq.Address, index uint64) (*big.Int, uint64, error) {
	st, err := s.ledger.Get(user, index)
	if err != nil {
		return nil, 0, err
	}
	pkg, err := s.catalog.Lookup(st.PackageName)
	if err != nil {
		return nil, 0, err
	}
	return CheckCliqReward(st, pkg, s.now())
}

// Stake locks amount of the staked token for user under the named package.
// The principal moves from user to the service account and a new open stake
// is appended to user's ledger. Returns the index of the new stake.
func (s *Staking) Stake(user cliq.Address, amount *big.Int, packageName cliq.Bytes32, rewardType RewardType) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if paused, err := s.Paused(); err != nil {
		return 0, err
	} else if paused {
		return 0, ErrPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		return 0, ErrNonPositiveAmount
	}
	pkg, err := s.catalog.Lookup(packageName)
	if err != nil {
		return 0, err
	}
	if !rewardType.Valid() {
		return 0, ErrUnknownRewardType
	}

	if err := s.stakedToken.TransferFrom(s.addr, user, s.addr, amount); err != nil {
		return 0, errors.Wrap(err, "pull stake")
	}
	index, err := s.ledger.Append(user, &Stake{
		Amount:      amount,
		Timestamp:   now,
		PackageName: pkg.Name,
		RewardType:  rewardType,
	})
	if err != nil {
		return 0, err
	}

	s.emit(&Event{
		Name:       EvStakeAdded,
		Timestamp:  now,
		User:       user,
		Package:    pkg.Name,
		Amount:     amount,
		RewardType: rewardType,
		StakeIndex: index,
	})
	metricOpCount().AddWithLabel(1, map[string]string{"op": "stake"})
	metricOpenStakes().Add(1)
	logger.Debug("stake added", "user", user, "package", pkg.Name.NameToString(), "amount", amount, "index", index)
	return index, nil
}

// Unstake closes the stake at (user, index), paying back the principal plus
// the reward the stake earned by now. A stake still inside its blocked
// period cannot be unstaked, and a reward that the service cannot cover
// leaves the stake untouched.
func (s *Staking) Unstake(user cliq.Address, index uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st, err := s.ledger.Get(user, index)
	if err != nil {
		return err
	}
	if !st.IsOpen() {
		return ErrAlreadyWithdrawn
	}
	pkg, err := s.catalog.Lookup(st.PackageName)
	if err != nil {
		return errors.Wrap(err, "resolve stake package")
	}
	if ElapsedDays(st, pkg, now) < uint64(pkg.DaysBlocked) {
		return ErrBlockedPeriod
	}

	var yield *big.Int
	switch st.RewardType {
	case NativeToken:
		if yield, _, err = CheckNativeReward(st, pkg, now); err != nil {
			return err
		}
		bal, err := s.pool.Balance()
		if err != nil {
			return err
		}
		if bal.Cmp(yield) < 0 {
			return ErrInsufficientNativeLiquidity
		}
	case CliqToken:
		if yield, _, err = CheckCliqReward(st, pkg, now); err != nil {
			return err
		}
		bal, err := s.cliqToken.BalanceOf(s.addr)
		if err != nil {
			return err
		}
		if bal.Cmp(yield) < 0 {
			return ErrInsufficientCliqLiquidity
		}
	default:
		return ErrUnknownRewardType
	}

	// Transfers go first. A failed payout leaves the stake open and the
	// pool intact so the user can retry.
	switch st.RewardType {
	case NativeToken:
		payout := new(big.Int).Add(st.Amount, yield)
		if err := s.stakedToken.Transfer(s.addr, user, payout); err != nil {
			return errors.Wrap(err, "pay out stake")
		}
	case CliqToken:
		if err := s.stakedToken.Transfer(s.addr, user, st.Amount); err != nil {
			return errors.Wrap(err, "pay out stake")
		}
		if yield.Sign() > 0 {
			if err := s.cliqToken.Transfer(s.addr, user, yield); err != nil {
				return errors.Wrap(err, "pay out cliq reward")
			}
		}
	}
	if _, err := s.ledger.MarkWithdrawn(user, index, now); err != nil {
		return err
	}
	if st.RewardType == NativeToken {
		if err := s.pool.Sub(yield); err != nil {
			return err
		}
	}

	s.emit(&Event{
		Name:       EvUnstaked,
		Timestamp:  now,
		User:       user,
		Amount:     st.Amount,
		RewardType: st.RewardType,
		StakeIndex: index,
	})
	metricOpCount().AddWithLabel(1, map[string]string{"op": "unstake"})
	metricOpenStakes().Add(-1)
	logger.Debug("unstaked", "user", user, "index", index, "yield", yield)
	return nil
}

// ForceWithdraw closes the stake at (user, index) forfeiting its reward. The
// blocked period still applies, only the yield is waived.
func (s *Staking) ForceWithdraw(user cliq.Address, index uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st, err := s.ledger.Get(user, index)
	if err != nil {
		return err
	}
	if !st.IsOpen() {
		return ErrAlreadyWithdrawn
	}
	pkg, err := s.catalog.Lookup(st.PackageName)
	if err != nil {
		return errors.Wrap(err, "resolve stake package")
	}
	if ElapsedDays(st, pkg, now) < uint64(pkg.DaysBlocked) {
		return ErrBlockedPeriod
	}

	if err := s.stakedToken.Transfer(s.addr, user, st.Amount); err != nil {
		return errors.Wrap(err, "pay out stake")
	}
	if _, err := s.ledger.MarkWithdrawn(user, index, now); err != nil {
		return err
	}

	s.emit(&Event{
		Name:       EvForcefullyWithdrawn,
		Timestamp:  now,
		User:       user,
		Amount:     st.Amount,
		RewardType: st.RewardType,
		StakeIndex: index,
	})
	metricOpCount().AddWithLabel(1, map[string]string{"op": "force_withdraw"})
	metricOpenStakes().Add(-1)
	logger.Debug("forcefully withdrawn", "user", user, "index", index)
	return nil
}

// AddStakedTokenReward moves amount of the staked token from caller into the
// reward pool. Restricted to the REWARD_PROVIDER role.
func (s *Staking) AddStakedTokenReward(caller cliq.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.requireRole(roles.RewardProvider, caller, ErrNotRewardProvider); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	if err := s.stakedToken.TransferFrom(s.addr, caller, s.addr, amount); err != nil {
		return errors.Wrap(err, "pull reward")
	}
	if err := s.pool.Add(amount); err != nil {
		return err
	}

	s.emit(&Event{
		Name:      EvNativeTokenRewardAdded,
		Timestamp: now,
		User:      caller,
		Amount:    amount,
	})
	metricOpCount().AddWithLabel(1, map[string]string{"op": "reward_added"})
	logger.Debug("reward added", "provider", caller, "amount", amount)
	return nil
}

// RemoveStakedTokenReward pulls amount back out of the reward pool to
// caller. Restricted to the REWARD_PROVIDER role; only what the pool still
// holds can leave it.
func (s *Staking) RemoveStakedTokenReward(caller cliq.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.requireRole(roles.RewardProvider, caller, ErrNotRewardProvider); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	bal, err := s.pool.Balance()
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientPool
	}
	if err := s.stakedToken.Transfer(s.addr, caller, amount); err != nil {
		return errors.Wrap(err, "return reward")
	}
	if err := s.pool.Sub(amount); err != nil {
		return err
	}

	s.emit(&Event{
		Name:      EvNativeTokenRewardRemoved,
		Timestamp: now,
		User:      caller,
		Amount:    amount,
	})
	metricOpCount().AddWithLabel(1, map[string]string{"op": "reward_removed"})
	logger.Debug("reward removed", "provider", caller, "amount", amount)
	return nil
}

// PauseStaking suspends creation of new stakes. Withdrawals and pool
// operations keep working. Restricted to the Maintainer role.
func (s *Staking) PauseStaking(caller cliq.Address) error {
	return s.setPaused(caller, true)
}

// UnpauseStaking lifts the pause. Restricted to the Maintainer role.
func (s *Staking) UnpauseStaking(caller cliq.Address) error {
	return s.setPaused(caller, false)
}

func (s *Staking) setPaused(caller cliq.Address, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.requireRole(roles.Maintainer, caller, ErrNotMaintainer); err != nil {
		return err
	}
	if err := s.state.SetStructedStorage(pausedKey, paused); err != nil {
		return err
	}

	name := EvPaused
	if !paused {
		name = EvUnpaused
	}
	s.emit(&Event{Name: name, Timestamp: now, User: caller})
	logger.Info("pause state changed", "paused", paused, "by", caller)
	return nil
}

// ParkFunds moves amount of tok held by the service account to caller.
// An escape hatch for stranded balances, restricted to the Maintainer role.
func (s *Staking) ParkFunds(caller cliq.Address, tok Token, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.requireRole(roles.Maintainer, caller, ErrNotMaintainer); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	if err := tok.Transfer(s.addr, caller, amount); err != nil {
		return errors.Wrap(err, "park funds")
	}

	s.emit(&Event{
		Name:      EvFundsParked,
		Timestamp: now,
		User:      caller,
		Amount:    amount,
		Token:     tok.Symbol(),
	})
	logger.Warn("funds parked", "token", tok.Symbol(), "amount", amount, "to", caller)
	return nil
}

func (s *Staking) requireRole(role cliq.Bytes32, caller cliq.Address, failWith error) error {
	ok, err := s.auth.Has(role, caller)
	if err != nil {
		return err
	}
	if !ok {
		return failWith
	}
	return nil
}

// emit hands the record to the sink. The operation's state is already
// committed at this point, a failing sink only costs the record.
func (s *Staking) emit(ev *Event) {
	if err := s.events.Append(ev); err != nil {
		logger.Warn("failed to append event", "name", ev.Name, "err", err)
	}
}
