// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/kv"
)

// StorageEncoder storage value types may implement it to customize encoding.
type StorageEncoder interface {
	Encode() ([]byte, error)
}

// StorageDecoder storage value types may implement it to customize decoding.
type StorageDecoder interface {
	Decode(data []byte) error
}

// State provides structured storage access over a kv store.
// An empty encoded value erases the underlying entry, so the zero value of a
// storage type never occupies space.
type State struct {
	store kv.Store
}

// New creates a state object backed by the given kv store.
func New(store kv.Store) *State {
	return &State{store}
}

// DecodeStorage loads the raw value of key and passes it to dec.
// A missing key is presented as an empty raw value.
func (s *State) DecodeStorage(key cliq.Bytes32, dec func(raw []byte) error) error {
	raw, err := s.store.Get(key.Bytes())
	if err != nil {
		if s.store.IsNotFound(err) {
			return dec(nil)
		}
		return errors.Wrap(err, "decode storage")
	}
	return dec(raw)
}

// EncodeStorage saves the value produced by enc under key.
// An empty raw value deletes the entry.
func (s *State) EncodeStorage(key cliq.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return s.store.Delete(key.Bytes())
	}
	return s.store.Put(key.Bytes(), raw)
}

// GetStructedStorage loads and decodes the storage value of key into val.
// val may implement StorageDecoder, otherwise RLP decoding applies and a
// missing entry leaves val at its zero value.
func (s *State) GetStructedStorage(key cliq.Bytes32, val interface{}) error {
	return s.DecodeStorage(key, func(raw []byte) error {
		if dec, ok := val.(StorageDecoder); ok {
			return dec.Decode(raw)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, val)
	})
}

// SetStructedStorage encodes val and saves it under key.
// val may implement StorageEncoder, otherwise RLP encoding applies.
func (s *State) SetStructedStorage(key cliq.Bytes32, val interface{}) error {
	return s.EncodeStorage(key, func() ([]byte, error) {
		if enc, ok := val.(StorageEncoder); ok {
			return enc.Encode()
		}
		return rlp.EncodeToBytes(val)
	})
}
