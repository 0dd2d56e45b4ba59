// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/state"
)

// RewardType selects the currency a stake accumulates its reward in.
type RewardType uint8

const (
	// NativeToken pays the reward in the staked token itself, out of the reward pool.
	NativeToken RewardType = 0
	// CliqToken pays the reward in CLIQ held by the contract.
	CliqToken RewardType = 1
)

// Valid reports whether r is one of the known reward types.
func (r RewardType) Valid() bool {
	return r == NativeToken || r == CliqToken
}

func (r RewardType) String() string {
	switch r {
	case NativeToken:
		return "native"
	case CliqToken:
		return "cliq"
	default:
		return "unknown"
	}
}

// Package is one tier of the fixed staking catalog.
type Package struct {
	Name        cliq.Bytes32
	DaysLocked  uint32 // days a stake must age before it yields
	DaysBlocked uint32 // days during which unstaking is rejected outright
	Interest    uint32 // percent of principal paid at full term, native reward
	CliqReward  uint64 // CLIQ units granted per million staked units, CLIQ reward
}

// Stake is one ledger entry of a user. A stake is open until its
// WithdrawnTimestamp is set, after which it never changes again.
type Stake struct {
	Amount             *big.Int
	Timestamp          uint64
	PackageName        cliq.Bytes32
	WithdrawnTimestamp uint64
	RewardType         RewardType
}

// IsOpen reports whether the stake has not been withdrawn yet.
func (s *Stake) IsOpen() bool {
	return s.WithdrawnTimestamp == 0
}

var _ state.StorageEncoder = (*Stake)(nil)

// Encode implements state.StorageEncoder.
func (s *Stake) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(s)
}

// Decode implements state.StorageDecoder.
func (s *Stake) Decode(data []byte) error {
	if len(data) == 0 {
		*s = Stake{}
		return nil
	}
	return rlp.DecodeBytes(data, s)
}
