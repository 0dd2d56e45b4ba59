// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliqproject/cliq-staking/cliq"
)

const day = cliq.SecondsPerDay

func silverPackage(t *testing.T) *Package {
	p, err := NewCatalog().Lookup(cliq.StringToName("Silver Package"))
	require.NoError(t, err)
	return p
}

func TestElapsedDays(t *testing.T) {
	pkg := silverPackage(t)
	st := &Stake{Amount: big.NewInt(100), Timestamp: 1000 * day, RewardType: NativeToken}

	tests := []struct {
		name string
		now  uint64
		want uint64
	}{
		{"before start", 999 * day, 0},
		{"same instant", 1000 * day, 0},
		{"partial day", 1000*day + day - 1, 0},
		{"one day", 1001 * day, 1},
		{"just before lock", 1029*day + day - 1, 29},
		{"at lock", 1030 * day, 30},
		{"capped past lock", 1100 * day, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ElapsedDays(st, pkg, tt.now))
		})
	}
}

func TestElapsedDaysFrozenAfterWithdrawal(t *testing.T) {
	pkg := silverPackage(t)
	st := &Stake{
		Amount:             big.NewInt(100),
		Timestamp:          1000 * day,
		WithdrawnTimestamp: 1035 * day,
		RewardType:         NativeToken,
	}

	// frozen value is not capped at the lock duration
	assert.Equal(t, uint64(35), ElapsedDays(st, pkg, 1035*day))
	assert.Equal(t, uint64(35), ElapsedDays(st, pkg, 2000*day))
}

func TestCheckNativeReward(t *testing.T) {
	pkg := silverPackage(t)
	st := &Stake{Amount: big.NewInt(50), Timestamp: 0, RewardType: NativeToken}

	yield, days, err := CheckNativeReward(st, pkg, 29*day)
	require.NoError(t, err)
	assert.Equal(t, uint64(29), days)
	assert.Zero(t, yield.Sign())

	yield, days, err = CheckNativeReward(st, pkg, 30*day)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), days)
	assert.Equal(t, big.NewInt(4), yield)

	// no further growth past the lock duration
	yield, _, err = CheckNativeReward(st, pkg, 365*day)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(4), yield)
}

func TestCheckCliqReward(t *testing.T) {
	pkg := silverPackage(t)
	st := &Stake{Amount: big.NewInt(50), Timestamp: 0, RewardType: CliqToken}

	yield, _, err := CheckCliqReward(st, pkg, 10*day)
	require.NoError(t, err)
	assert.Zero(t, yield.Sign())

	yield, days, err := CheckCliqReward(st, pkg, 31*day)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), days)
	assert.Equal(t, big.NewInt(50), yield)
}

func TestCheckRewardTypeMismatch(t *testing.T) {
	pkg := silverPackage(t)

	native := &Stake{Amount: big.NewInt(50), Timestamp: 0, RewardType: NativeToken}
	_, _, err := CheckCliqReward(native, pkg, 30*day)
	assert.ErrorIs(t, err, ErrNotCliqReward)

	inCliq := &Stake{Amount: big.NewInt(50), Timestamp: 0, RewardType: CliqToken}
	_, _, err = CheckNativeReward(inCliq, pkg, 30*day)
	assert.ErrorIs(t, err, ErrNotNativeReward)
	assert.True(t, IsValidation(err))
}
