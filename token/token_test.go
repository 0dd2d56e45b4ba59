// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/lvldb"
)

func TestToken(t *testing.T) {
	store, _ := lvldb.NewMem()
	defer store.Close()

	a1 := cliq.BytesToAddress([]byte("a1"))
	a2 := cliq.BytesToAddress([]byte("a2"))

	tok := New("IRIS", store)
	assert.Equal(t, "IRIS", tok.Symbol())

	tests := []struct {
		ret      interface{}
		expected interface{}
	}{
		{func() *big.Int { b, _ := tok.BalanceOf(a1); return b }(), &big.Int{}},
		{tok.Mint(a1, big.NewInt(100)), nil},
		{func() *big.Int { b, _ := tok.BalanceOf(a1); return b }(), big.NewInt(100)},
		{func() *big.Int { s, _ := tok.TotalSupply(); return s }(), big.NewInt(100)},
		{tok.Transfer(a1, a2, big.NewInt(40)), nil},
		{func() *big.Int { b, _ := tok.BalanceOf(a1); return b }(), big.NewInt(60)},
		{func() *big.Int { b, _ := tok.BalanceOf(a2); return b }(), big.NewInt(40)},
		{tok.Transfer(a1, a2, big.NewInt(61)), ErrInsufficientBalance},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}
}

func TestTokenTransferFrom(t *testing.T) {
	store, _ := lvldb.NewMem()
	defer store.Close()

	owner := cliq.BytesToAddress([]byte("owner"))
	spender := cliq.BytesToAddress([]byte("spender"))
	recipient := cliq.BytesToAddress([]byte("recipient"))

	tok := New("IRIS", store)
	assert.Nil(t, tok.Mint(owner, big.NewInt(100)))

	assert.Equal(t, ErrInsufficientAllowance, tok.TransferFrom(spender, owner, recipient, big.NewInt(10)))

	assert.Nil(t, tok.Approve(owner, spender, big.NewInt(50)))
	assert.Nil(t, tok.TransferFrom(spender, owner, recipient, big.NewInt(30)))

	bal, _ := tok.BalanceOf(recipient)
	assert.Equal(t, big.NewInt(30), bal)
	allowance, _ := tok.Allowance(owner, spender)
	assert.Equal(t, big.NewInt(20), allowance)

	// allowance never covers more than approved
	assert.Equal(t, ErrInsufficientAllowance, tok.TransferFrom(spender, owner, recipient, big.NewInt(21)))

	// insufficient owner balance surfaces before allowance is consumed
	assert.Nil(t, tok.Approve(owner, spender, big.NewInt(1000)))
	assert.Equal(t, ErrInsufficientBalance, tok.TransferFrom(spender, owner, recipient, big.NewInt(500)))
	allowance, _ = tok.Allowance(owner, spender)
	assert.Equal(t, big.NewInt(1000), allowance)
}

func TestTokenSelfTransfer(t *testing.T) {
	store, _ := lvldb.NewMem()
	defer store.Close()

	a1 := cliq.BytesToAddress([]byte("a1"))

	tok := New("CLIQ", store)
	assert.Nil(t, tok.Mint(a1, big.NewInt(100)))
	assert.Nil(t, tok.Transfer(a1, a1, big.NewInt(60)))

	bal, _ := tok.BalanceOf(a1)
	assert.Equal(t, big.NewInt(100), bal)
}

func TestSeparateBuckets(t *testing.T) {
	store, _ := lvldb.NewMem()
	defer store.Close()

	a1 := cliq.BytesToAddress([]byte("a1"))

	iris := New("IRIS", store)
	cliqTok := New("CLIQ", store)

	assert.Nil(t, iris.Mint(a1, big.NewInt(7)))

	bal, _ := cliqTok.BalanceOf(a1)
	assert.Equal(t, int64(0), bal.Int64())
}
