// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"
	"math/big"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/kv"
	"github.com/cliqproject/cliq-staking/state"
)

var totalFundsKey = cliq.Keccak256([]byte("total-staked-funds"))

func countKey(user cliq.Address) cliq.Bytes32 {
	return cliq.BytesToBytes32(append([]byte("c"), user.Bytes()...))
}

func userTotalKey(user cliq.Address) cliq.Bytes32 {
	return cliq.BytesToBytes32(append([]byte("t"), user.Bytes()...))
}

func stakeKey(user cliq.Address, index uint64) cliq.Bytes32 {
	var ib [8]byte
	binary.BigEndian.PutUint64(ib[:], index)
	return cliq.Keccak256(user.Bytes(), ib[:])
}

// Ledger is the append-only per-user stake book. Entries are addressed by
// (user, index) where index runs densely from zero; closing an entry keeps
// it in place and only sets its withdrawn timestamp.
type Ledger struct {
	state *state.State
}

// NewLedger creates a ledger persisted in its own bucket of store.
func NewLedger(store kv.Store) *Ledger {
	return &Ledger{state: state.New(kv.Bucket("ledger").NewStore(store))}
}

// Count returns how many stakes user ever created, open and closed alike.
func (l *Ledger) Count(user cliq.Address) (uint64, error) {
	var n uint64
	if err := l.state.GetStructedStorage(countKey(user), &n); err != nil {
		return 0, err
	}
	return n, nil
}

// HasAny reports whether user created at least one stake.
func (l *Ledger) HasAny(user cliq.Address) (bool, error) {
	n, err := l.Count(user)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get returns the stake at (user, index).
func (l *Ledger) Get(user cliq.Address, index uint64) (*Stake, error) {
	n, err := l.Count(user)
	if err != nil {
		return nil, err
	}
	if index >= n {
		return nil, ErrStakeNotDefined
	}
	var s Stake
	if err := l.state.GetStructedStorage(stakeKey(user, index), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Append records a new open stake for user and returns its index. The
// per-user total and the global staked funds move up by the stake amount.
func (l *Ledger) Append(user cliq.Address, s *Stake) (uint64, error) {
	n, err := l.Count(user)
	if err != nil {
		return 0, err
	}
	if err := l.state.SetStructedStorage(stakeKey(user, n), s); err != nil {
		return 0, err
	}
	if err := l.state.SetStructedStorage(countKey(user), n+1); err != nil {
		return 0, err
	}
	if err := l.adjust(userTotalKey(user), s.Amount); err != nil {
		return 0, err
	}
	if err := l.adjust(totalFundsKey, s.Amount); err != nil {
		return 0, err
	}
	return n, nil
}

// MarkWithdrawn closes the stake at (user, index) at the given timestamp and
// moves its amount out of the per-user and global totals. The updated stake
// is returned.
func (l *Ledger) MarkWithdrawn(user cliq.Address, index uint64, when uint64) (*Stake, error) {
	s, err := l.Get(user, index)
	if err != nil {
		return nil, err
	}
	if !s.IsOpen() {
		return nil, ErrAlreadyWithdrawn
	}
	s.WithdrawnTimestamp = when
	if err := l.state.SetStructedStorage(stakeKey(user, index), s); err != nil {
		return nil, err
	}
	neg := new(big.Int).Neg(s.Amount)
	if err := l.adjust(userTotalKey(user), neg); err != nil {
		return nil, err
	}
	if err := l.adjust(totalFundsKey, neg); err != nil {
		return nil, err
	}
	return s, nil
}

// TotalStakedFunds returns the sum of all open stake amounts across users.
func (l *Ledger) TotalStakedFunds() (*big.Int, error) {
	return l.getAmount(totalFundsKey)
}

// TotalStakedBalance returns the sum of user's open stake amounts.
func (l *Ledger) TotalStakedBalance(user cliq.Address) (*big.Int, error) {
	return l.getAmount(userTotalKey(user))
}

func (l *Ledger) getAmount(key cliq.Bytes32) (*big.Int, error) {
	var amount big.Int
	if err := l.state.DecodeStorage(key, func(raw []byte) error {
		amount.SetBytes(raw)
		return nil
	}); err != nil {
		return nil, err
	}
	return &amount, nil
}

func (l *Ledger) adjust(key cliq.Bytes32, delta *big.Int) error {
	cur, err := l.getAmount(key)
	if err != nil {
		return err
	}
	cur.Add(cur, delta)
	return l.state.EncodeStorage(key, func() ([]byte, error) {
		if cur.Sign() == 0 {
			return nil, nil
		}
		return cur.Bytes(), nil
	})
}
