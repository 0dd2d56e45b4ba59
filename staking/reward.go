// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/cliqproject/cliq-staking/cliq"
)

// ElapsedDays returns the whole days a stake has aged at now. For a closed
// stake the value is frozen at withdrawal time and never changes again. For
// an open stake it grows with the clock but saturates at the package lock
// duration, the point past which no further reward accrues.
func ElapsedDays(s *Stake, p *Package, now uint64) uint64 {
	if !s.IsOpen() {
		if s.WithdrawnTimestamp <= s.Timestamp {
			return 0
		}
		return (s.WithdrawnTimestamp - s.Timestamp) / cliq.SecondsPerDay
	}
	if now <= s.Timestamp {
		return 0
	}
	days := (now - s.Timestamp) / cliq.SecondsPerDay
	if days > uint64(p.DaysLocked) {
		days = uint64(p.DaysLocked)
	}
	return days
}

// CheckNativeReward computes the native-token yield of a stake at now,
// together with the elapsed days the yield derives from. The yield is a step
// function: zero before the lock duration elapses, the full package interest
// on the principal at and after it.
func CheckNativeReward(s *Stake, p *Package, now uint64) (*big.Int, uint64, error) {
	if s.RewardType != NativeToken {
		return nil, 0, ErrNotNativeReward
	}
	days := ElapsedDays(s, p, now)
	if days < uint64(p.DaysLocked) {
		return new(big.Int), days, nil
	}
	yield := new(big.Int).Mul(s.Amount, new(big.Int).SetUint64(uint64(p.Interest)))
	yield.Div(yield, new(big.Int).SetUint64(cliq.InterestDivisor))
	return yield, days, nil
}

// CheckCliqReward computes the CLIQ yield of a stake at now, with the same
// step-function shape as CheckNativeReward.
func CheckCliqReward(s *Stake, p *Package, now uint64) (*big.Int, uint64, error) {
	if s.RewardType != CliqToken {
		return nil, 0, ErrNotCliqReward
	}
	days := ElapsedDays(s, p, now)
	if days < uint64(p.DaysLocked) {
		return new(big.Int), days, nil
	}
	yield := new(big.Int).Mul(s.Amount, new(big.Int).SetUint64(p.CliqReward))
	yield.Div(yield, new(big.Int).SetUint64(cliq.CliqRewardDivisor))
	return yield, days, nil
}
