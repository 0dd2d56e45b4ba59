// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/lvldb"
)

type record struct {
	Amount    *big.Int
	Timestamp uint64
}

func (r *record) Encode() ([]byte, error) {
	if r.Amount.Sign() == 0 && r.Timestamp == 0 {
		return nil, nil
	}
	return rlp.EncodeToBytes(r)
}

func (r *record) Decode(data []byte) error {
	if len(data) == 0 {
		*r = record{&big.Int{}, 0}
		return nil
	}
	return rlp.DecodeBytes(data, r)
}

func TestStructedStorage(t *testing.T) {
	store, _ := lvldb.NewMem()
	defer store.Close()
	st := New(store)

	key := cliq.Keccak256([]byte("k"))

	var loaded record
	assert.Nil(t, st.GetStructedStorage(key, &loaded))
	assert.Equal(t, int64(0), loaded.Amount.Int64())

	saved := record{big.NewInt(10), 100}
	assert.Nil(t, st.SetStructedStorage(key, &saved))

	assert.Nil(t, st.GetStructedStorage(key, &loaded))
	assert.Equal(t, saved, loaded)

	// zero value erases the entry
	assert.Nil(t, st.SetStructedStorage(key, &record{&big.Int{}, 0}))
	has, err := store.Has(key.Bytes())
	assert.Nil(t, err)
	assert.False(t, has)
}

func TestPlainStorage(t *testing.T) {
	store, _ := lvldb.NewMem()
	defer store.Close()
	st := New(store)

	key := cliq.Keccak256([]byte("count"))

	var count uint64
	assert.Nil(t, st.GetStructedStorage(key, &count))
	assert.Equal(t, uint64(0), count)

	assert.Nil(t, st.SetStructedStorage(key, uint64(7)))
	assert.Nil(t, st.GetStructedStorage(key, &count))
	assert.Equal(t, uint64(7), count)
}
