// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/kv"
	"github.com/cliqproject/cliq-staking/state"
)

var (
	// ErrInsufficientBalance the sender's balance does not cover the transfer.
	ErrInsufficientBalance = errors.New("transfer amount exceeds balance")
	// ErrInsufficientAllowance the spender's allowance does not cover the transfer.
	ErrInsufficientAllowance = errors.New("transfer amount exceeds allowance")
	// ErrNegativeAmount amounts must not be negative.
	ErrNegativeAmount = errors.New("negative amount")
)

var totalSupplyKey = cliq.Keccak256([]byte("total-supply"))

func balanceKey(addr cliq.Address) cliq.Bytes32 {
	return cliq.BytesToBytes32(append([]byte("b"), addr.Bytes()...))
}

func allowanceKey(owner cliq.Address, spender cliq.Address) cliq.Bytes32 {
	return cliq.Keccak256(owner.Bytes(), spender.Bytes())
}

// Token is a fungible token ledger kept in structured storage.
// It exposes the ERC20-ish transfer surface the staking service collaborates with.
type Token struct {
	symbol string
	state  *state.State
}

// New creates a token ledger on its own logical bucket of the given store.
func New(symbol string, store kv.Store) *Token {
	bucket := kv.Bucket("token-" + symbol)
	return &Token{symbol, state.New(bucket.NewStore(store))}
}

// Symbol returns the token symbol.
func (t *Token) Symbol() string {
	return t.symbol
}

func (t *Token) getAmount(key cliq.Bytes32) (*big.Int, error) {
	var v big.Int
	if err := t.state.DecodeStorage(key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &v)
	}); err != nil {
		return nil, err
	}
	return &v, nil
}

func (t *Token) setAmount(key cliq.Bytes32, v *big.Int) error {
	return t.state.EncodeStorage(key, func() ([]byte, error) {
		if v.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(v)
	})
}

// TotalSupply returns the minted supply.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.getAmount(totalSupplyKey)
}

// BalanceOf returns the token balance of an account.
func (t *Token) BalanceOf(addr cliq.Address) (*big.Int, error) {
	return t.getAmount(balanceKey(addr))
}

// Mint creates amount tokens on addr.
func (t *Token) Mint(addr cliq.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	bal, err := t.getAmount(balanceKey(addr))
	if err != nil {
		return err
	}
	if err := t.setAmount(balanceKey(addr), new(big.Int).Add(bal, amount)); err != nil {
		return err
	}
	supply, err := t.getAmount(totalSupplyKey)
	if err != nil {
		return err
	}
	return t.setAmount(totalSupplyKey, supply.Add(supply, amount))
}

// Approve sets the allowance of spender over owner's tokens.
func (t *Token) Approve(owner cliq.Address, spender cliq.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return t.setAmount(allowanceKey(owner, spender), amount)
}

// Allowance returns the remaining allowance of spender over owner's tokens.
func (t *Token) Allowance(owner cliq.Address, spender cliq.Address) (*big.Int, error) {
	return t.getAmount(allowanceKey(owner, spender))
}

// Transfer moves amount from sender to recipient.
func (t *Token) Transfer(from cliq.Address, to cliq.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	fromBal, err := t.getAmount(balanceKey(from))
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	toBal, err := t.getAmount(balanceKey(to))
	if err != nil {
		return err
	}
	if err := t.setAmount(balanceKey(from), fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	return t.setAmount(balanceKey(to), toBal.Add(toBal, amount))
}

// TransferFrom moves amount from owner to recipient on behalf of spender,
// consuming the spender's allowance.
func (t *Token) TransferFrom(spender cliq.Address, owner cliq.Address, recipient cliq.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	allowance, err := t.getAmount(allowanceKey(owner, spender))
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := t.Transfer(owner, recipient, amount); err != nil {
		return err
	}
	return t.setAmount(allowanceKey(owner, spender), allowance.Sub(allowance, amount))
}
