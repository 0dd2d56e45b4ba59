// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/cliqproject/cliq-staking/cliq"
)

// EventName identifies the kind of an emitted record.
type EventName string

// The records the staking service emits.
const (
	EvStakeAdded               EventName = "StakeAdded"
	EvUnstaked                 EventName = "Unstaked"
	EvForcefullyWithdrawn      EventName = "ForcefullyWithdrawn"
	EvNativeTokenRewardAdded   EventName = "NativeTokenRewardAdded"
	EvNativeTokenRewardRemoved EventName = "NativeTokenRewardRemoved"
	EvFundsParked              EventName = "FundsParked"
	EvPaused                   EventName = "Paused"
	EvUnpaused                 EventName = "Unpaused"
)

// Event is one record emitted after a successful mutating operation.
// Fields that do not apply to the event's kind are left at their zero value.
type Event struct {
	Name       EventName
	Timestamp  uint64
	User       cliq.Address
	Package    cliq.Bytes32
	Amount     *big.Int
	RewardType RewardType
	StakeIndex uint64
	Token      string
}

// Events receives emitted records, in operation order.
type Events interface {
	Append(ev *Event) error
}

type nopEvents struct{}

func (nopEvents) Append(*Event) error { return nil }
