// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/staking"
)

// Record is one stored event plus its insertion sequence number.
type Record struct {
	Seq uint64
	staking.Event
}

// Range limits a query to records emitted inside [From, To]. A To below
// From leaves the upper bound open.
type Range struct {
	From uint64
	To   uint64
}

// Options applies offset/limit paging to a query.
type Options struct {
	Offset uint64
	Limit  uint64
}

// Order of returned records by insertion sequence.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Filter narrows a query. Zero-value fields do not constrain.
type Filter struct {
	User    *cliq.Address
	Names   []staking.EventName
	Range   *Range
	Options *Options
	Order   Order
}
