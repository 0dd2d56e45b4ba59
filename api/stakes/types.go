// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/staking"
)

// Summary describes the service as a whole.
type Summary struct {
	Name             string                `json:"name"`
	Address          cliq.Address          `json:"address"`
	Paused           bool                  `json:"paused"`
	TotalStakedFunds *math.HexOrDecimal256 `json:"totalStakedFunds"`
	RewardPool       *math.HexOrDecimal256 `json:"rewardPool"`
}

// Package is the JSON shape of one catalog tier.
type Package struct {
	Name        string `json:"name"`
	DaysLocked  uint32 `json:"daysLocked"`
	DaysBlocked uint32 `json:"daysBlocked"`
	Interest    uint32 `json:"interest"`
	CliqReward  uint64 `json:"cliqReward"`
}

func convertPackage(p *staking.Package) *Package {
	return &Package{
		Name:        p.Name.NameToString(),
		DaysLocked:  p.DaysLocked,
		DaysBlocked: p.DaysBlocked,
		Interest:    p.Interest,
		CliqReward:  p.CliqReward,
	}
}

// Stake is the JSON shape of one ledger entry.
type Stake struct {
	Index              uint64                `json:"index"`
	Amount             *math.HexOrDecimal256 `json:"amount"`
	Timestamp          uint64                `json:"timestamp"`
	Package            string                `json:"package"`
	WithdrawnTimestamp uint64                `json:"withdrawnTimestamp"`
	RewardType         uint8                 `json:"rewardType"`
	Open               bool                  `json:"open"`
}

func convertStake(index uint64, s *staking.Stake) *Stake {
	return &Stake{
		Index:              index,
		Amount:             (*math.HexOrDecimal256)(s.Amount),
		Timestamp:          s.Timestamp,
		Package:            s.PackageName.NameToString(),
		WithdrawnTimestamp: s.WithdrawnTimestamp,
		RewardType:         uint8(s.RewardType),
		Open:               s.IsOpen(),
	}
}

// Reward is the response of the reward check endpoints.
type Reward struct {
	Yield    *math.HexOrDecimal256 `json:"yield"`
	TimeDiff uint64                `json:"timeDiff"`
}

// Balance is the response of the per-user balance endpoint.
type Balance struct {
	User      cliq.Address          `json:"user"`
	Total     *math.HexOrDecimal256 `json:"total"`
	HasStaked bool                  `json:"hasStaked"`
}

// StakeRequest is the body of the stake creation endpoint.
type StakeRequest struct {
	User       cliq.Address          `json:"user"`
	Amount     *math.HexOrDecimal256 `json:"amount"`
	Package    string                `json:"package"`
	RewardType uint8                 `json:"rewardType"`
}

// StakeResult returns the index the new stake landed on.
type StakeResult struct {
	Index uint64 `json:"index"`
}

// PoolRequest is the body of the pool add/remove endpoints.
type PoolRequest struct {
	Caller cliq.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// CallerRequest is the body of endpoints that only need the caller.
type CallerRequest struct {
	Caller cliq.Address `json:"caller"`
}

// ParkRequest is the body of the fund parking endpoint.
type ParkRequest struct {
	Caller cliq.Address          `json:"caller"`
	Token  string                `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}
