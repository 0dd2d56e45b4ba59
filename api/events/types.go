// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/eventdb"
	"github.com/cliqproject/cliq-staking/staking"
)

// FilterRequest is the JSON shape of an event query.
type FilterRequest struct {
	User    *cliq.Address    `json:"user"`
	Names   []string         `json:"names"`
	Range   *eventdb.Range   `json:"range"`
	Options *eventdb.Options `json:"options"`
	Order   eventdb.Order    `json:"order"`
}

func (f *FilterRequest) toQuery() *eventdb.Filter {
	names := make([]staking.EventName, 0, len(f.Names))
	for _, name := range f.Names {
		names = append(names, staking.EventName(name))
	}
	return &eventdb.Filter{
		User:    f.User,
		Names:   names,
		Range:   f.Range,
		Options: f.Options,
		Order:   f.Order,
	}
}

// Record is the JSON shape of one stored event.
type Record struct {
	Seq        uint64                `json:"seq"`
	Name       string                `json:"name"`
	Timestamp  uint64                `json:"timestamp"`
	User       cliq.Address          `json:"user"`
	Package    string                `json:"package,omitempty"`
	Amount     *math.HexOrDecimal256 `json:"amount,omitempty"`
	RewardType uint8                 `json:"rewardType"`
	StakeIndex uint64                `json:"stakeIndex"`
	Token      string                `json:"token,omitempty"`
}

func convertRecords(records []*eventdb.Record) []*Record {
	out := make([]*Record, 0, len(records))
	for _, rec := range records {
		r := &Record{
			Seq:        rec.Seq,
			Name:       string(rec.Name),
			Timestamp:  rec.Timestamp,
			User:       rec.User,
			RewardType: uint8(rec.RewardType),
			StakeIndex: rec.StakeIndex,
			Token:      rec.Token,
		}
		if !rec.Package.IsZero() {
			r.Package = rec.Package.NameToString()
		}
		if rec.Amount != nil {
			r.Amount = (*math.HexOrDecimal256)(rec.Amount)
		}
		out = append(out, r)
	}
	return out
}
