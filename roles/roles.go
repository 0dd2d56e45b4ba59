// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roles

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/kv"
	"github.com/cliqproject/cliq-staking/state"
)

// Role identifiers. DefaultAdmin administers the other roles.
var (
	DefaultAdmin   = cliq.Bytes32{}
	RewardProvider = cliq.Keccak256([]byte("REWARD_PROVIDER"))
	Maintainer     = cliq.Keccak256([]byte("MAINTAINER"))
)

// ErrNotAdmin the caller does not hold the admin role.
var ErrNotAdmin = errors.New("caller does not have the admin role")

func grantKey(role cliq.Bytes32, addr cliq.Address) cliq.Bytes32 {
	return cliq.Keccak256(role.Bytes(), addr.Bytes())
}

// Authority keeps role grants in structured storage.
type Authority struct {
	state *state.State
}

// New creates the authority on its own logical bucket of the given store,
// granting the admin role to admin.
func New(store kv.Store, admin cliq.Address) (*Authority, error) {
	a := &Authority{state.New(kv.Bucket("roles").NewStore(store))}
	if err := a.setGrant(DefaultAdmin, admin, true); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Authority) setGrant(role cliq.Bytes32, addr cliq.Address, granted bool) error {
	return a.state.EncodeStorage(grantKey(role, addr), func() ([]byte, error) {
		if !granted {
			return nil, nil
		}
		return rlp.EncodeToBytes(granted)
	})
}

// Has returns whether addr holds the role.
func (a *Authority) Has(role cliq.Bytes32, addr cliq.Address) (bool, error) {
	var granted bool
	if err := a.state.DecodeStorage(grantKey(role, addr), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &granted)
	}); err != nil {
		return false, err
	}
	return granted, nil
}

// Grant gives addr the role. Only admins may grant.
func (a *Authority) Grant(caller cliq.Address, role cliq.Bytes32, addr cliq.Address) error {
	isAdmin, err := a.Has(DefaultAdmin, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotAdmin
	}
	return a.setGrant(role, addr, true)
}

// Revoke removes the role from addr. Only admins may revoke.
func (a *Authority) Revoke(caller cliq.Address, role cliq.Bytes32, addr cliq.Address) error {
	isAdmin, err := a.Has(DefaultAdmin, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotAdmin
	}
	return a.setGrant(role, addr, false)
}
