// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/cliqproject/cliq-staking/metrics"

var (
	metricOpCount    = metrics.LazyLoadCounterVec("staking_op_count", []string{"op"})
	metricOpenStakes = metrics.LazyLoadGauge("staking_open_stakes")
)
