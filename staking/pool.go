// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/kv"
	"github.com/cliqproject/cliq-staking/state"
)

var poolKey = cliq.Keccak256([]byte("reward-pool"))

// Pool tracks the native-token reward liquidity set aside by reward
// providers. It only accounts; moving the actual tokens is the caller's job.
type Pool struct {
	state *state.State
}

// NewPool creates a pool persisted in its own bucket of store.
func NewPool(store kv.Store) *Pool {
	return &Pool{state: state.New(kv.Bucket("pool").NewStore(store))}
}

// Balance returns the current pool balance.
func (p *Pool) Balance() (*big.Int, error) {
	var amount big.Int
	if err := p.state.DecodeStorage(poolKey, func(raw []byte) error {
		amount.SetBytes(raw)
		return nil
	}); err != nil {
		return nil, err
	}
	return &amount, nil
}

// Add credits the pool.
func (p *Pool) Add(amount *big.Int) error {
	bal, err := p.Balance()
	if err != nil {
		return err
	}
	return p.set(bal.Add(bal, amount))
}

// Sub debits the pool, failing when the balance does not cover amount.
func (p *Pool) Sub(amount *big.Int) error {
	bal, err := p.Balance()
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientPool
	}
	return p.set(bal.Sub(bal, amount))
}

func (p *Pool) set(bal *big.Int) error {
	return p.state.EncodeStorage(poolKey, func() ([]byte, error) {
		if bal.Sign() == 0 {
			return nil, nil
		}
		return bal.Bytes(), nil
	})
}
