// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopDefault(t *testing.T) {
	// package must be usable without initialization
	Counter("c").Add(1)
	CounterVec("cv", []string{"op"}).AddWithLabel(1, map[string]string{"op": "stake"})
	Gauge("g").Set(10)
	HistogramVec("h", []string{"code"}, BucketHTTPReqs).ObserveWithLabels(5, map[string]string{"code": "200"})

	assert.Nil(t, HTTPHandler())
}
