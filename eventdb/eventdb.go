// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists the records the staking service emits, so the
// history of stakes, withdrawals and pool movements stays queryable.
package eventdb

import (
	"context"
	"database/sql"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/staking"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	ts INTEGER NOT NULL,
	user BLOB NOT NULL,
	pkg BLOB,
	amount BLOB,
	rewardType INTEGER NOT NULL,
	stakeIndex INTEGER NOT NULL,
	token TEXT NOT NULL DEFAULT '');

CREATE INDEX IF NOT EXISTS event_user ON event(user);
CREATE INDEX IF NOT EXISTS event_name ON event(name);
CREATE INDEX IF NOT EXISTS event_ts ON event(ts);`

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

var _ staking.Events = (*EventDB)(nil)

// Append stores one emitted record. It implements staking.Events.
func (db *EventDB) Append(ev *staking.Event) error {
	stmt, err := db.stmtCache.Prepare(
		"INSERT INTO event(name, ts, user, pkg, amount, rewardType, stakeIndex, token) VALUES (?, ?, ?, ?, ?, ?, ?, ?);")
	if err != nil {
		return err
	}
	_, err = stmt.Exec(
		string(ev.Name),
		ev.Timestamp,
		ev.User.Bytes(),
		ev.Package.Bytes(),
		amountValue(ev.Amount),
		uint8(ev.RewardType),
		ev.StakeIndex,
		ev.Token,
	)
	return err
}

// Filter queries stored records. A nil filter returns everything in
// insertion order.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var args []interface{}
	stmt := "SELECT * FROM event WHERE 1"
	if filter.User != nil {
		args = append(args, filter.User.Bytes())
		stmt += " AND user = ? "
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN ("
		for i, name := range filter.Names {
			if i > 0 {
				stmt += ","
			}
			stmt += "?"
			args = append(args, string(name))
		}
		stmt += ") "
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND ts >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND ts <= ? "
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...interface{}) ([]*Record, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq        uint64
			name       string
			ts         uint64
			user       []byte
			pkg        []byte
			amount     []byte
			rewardType uint8
			stakeIndex uint64
			token      string
		)
		if err := rows.Scan(
			&seq,
			&name,
			&ts,
			&user,
			&pkg,
			&amount,
			&rewardType,
			&stakeIndex,
			&token,
		); err != nil {
			return nil, err
		}
		rec := &Record{
			Seq: seq,
			Event: staking.Event{
				Name:       staking.EventName(name),
				Timestamp:  ts,
				User:       cliq.BytesToAddress(user),
				Package:    cliq.BytesToBytes32(pkg),
				RewardType: staking.RewardType(rewardType),
				StakeIndex: stakeIndex,
				Token:      token,
			},
		}
		if len(amount) > 0 {
			rec.Amount = new(big.Int).SetBytes(amount)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func amountValue(amount *big.Int) []byte {
	if amount == nil {
		return nil
	}
	return amount.Bytes()
}
