// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cliq

import "math/big"

// Constants of the staking ledger.
const (
	// SecondsPerDay elapsed staking time is accounted in whole days.
	SecondsPerDay uint64 = 24 * 60 * 60

	// InterestDivisor package interest is an integer percentage of the principal.
	InterestDivisor uint64 = 100

	// CliqRewardDivisor CLIQ reward rates are expressed per one million units staked.
	CliqRewardDivisor uint64 = 1_000_000
)

var (
	// TokenUnit smallest-unit multiplier of one whole token (18 decimals).
	TokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)
