// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/staking"
)

func newTestDB(t *testing.T) *EventDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedEvents(t *testing.T, db *EventDB) (alice, bob cliq.Address) {
	alice = cliq.BytesToAddress([]byte("alice"))
	bob = cliq.BytesToAddress([]byte("bob"))

	evs := []*staking.Event{
		{Name: staking.EvStakeAdded, Timestamp: 100, User: alice, Package: cliq.StringToName("Silver Package"), Amount: big.NewInt(100), StakeIndex: 0},
		{Name: staking.EvStakeAdded, Timestamp: 200, User: bob, Package: cliq.StringToName("Gold Package"), Amount: big.NewInt(50), RewardType: staking.CliqToken, StakeIndex: 0},
		{Name: staking.EvNativeTokenRewardAdded, Timestamp: 300, User: bob, Amount: big.NewInt(1000)},
		{Name: staking.EvUnstaked, Timestamp: 400, User: alice, Amount: big.NewInt(100), StakeIndex: 0},
	}
	for _, ev := range evs {
		require.NoError(t, db.Append(ev))
	}
	return alice, bob
}

func TestAppendFilter(t *testing.T) {
	db := newTestDB(t)
	alice, _ := seedEvents(t, db)

	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 4)

	// insertion order, sequence starts at one
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, staking.EvStakeAdded, all[0].Name)
	assert.Equal(t, alice, all[0].User)
	assert.Equal(t, "Silver Package", all[0].Package.NameToString())
	assert.Equal(t, big.NewInt(100), all[0].Amount)
	assert.Equal(t, staking.EvUnstaked, all[3].Name)
}

func TestFilterByUser(t *testing.T) {
	db := newTestDB(t)
	alice, bob := seedEvents(t, db)

	got, err := db.Filter(context.Background(), &Filter{User: &alice})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, staking.EvStakeAdded, got[0].Name)
	assert.Equal(t, staking.EvUnstaked, got[1].Name)

	got, err = db.Filter(context.Background(), &Filter{User: &bob})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFilterByName(t *testing.T) {
	db := newTestDB(t)
	seedEvents(t, db)

	got, err := db.Filter(context.Background(), &Filter{
		Names: []staking.EventName{staking.EvStakeAdded},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = db.Filter(context.Background(), &Filter{
		Names: []staking.EventName{staking.EvUnstaked, staking.EvNativeTokenRewardAdded},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFilterRangeOrderPaging(t *testing.T) {
	db := newTestDB(t)
	seedEvents(t, db)

	got, err := db.Filter(context.Background(), &Filter{Range: &Range{From: 200, To: 300}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(200), got[0].Timestamp)

	// open upper bound
	got, err = db.Filter(context.Background(), &Filter{Range: &Range{From: 300, To: 0}})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = db.Filter(context.Background(), &Filter{Order: DESC, Options: &Options{Offset: 0, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(4), got[0].Seq)
	assert.Equal(t, uint64(3), got[1].Seq)

	got, err = db.Filter(context.Background(), &Filter{Options: &Options{Offset: 3, Limit: 5}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(4), got[0].Seq)
}

func TestNilAmount(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Append(&staking.Event{
		Name:      staking.EvPaused,
		Timestamp: 100,
		User:      cliq.BytesToAddress([]byte("admin")),
	}))

	got, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Amount)
}
