// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/cliqproject/cliq-staking/cliq"

// Catalog holds the fixed staking tiers. It is populated once at
// construction and never mutated, so it needs no locking.
type Catalog struct {
	names    []cliq.Bytes32
	packages map[cliq.Bytes32]*Package
}

// NewCatalog creates the catalog with the three standard tiers.
func NewCatalog() *Catalog {
	c := &Catalog{packages: make(map[cliq.Bytes32]*Package)}
	c.define(&Package{
		Name:        cliq.StringToName("Silver Package"),
		DaysLocked:  30,
		DaysBlocked: 15,
		Interest:    8,
		CliqReward:  1_000_000,
	})
	c.define(&Package{
		Name:        cliq.StringToName("Gold Package"),
		DaysLocked:  60,
		DaysBlocked: 30,
		Interest:    18,
		CliqReward:  1_500_000,
	})
	c.define(&Package{
		Name:        cliq.StringToName("Platinum Package"),
		DaysLocked:  90,
		DaysBlocked: 45,
		Interest:    30,
		CliqReward:  2_000_000,
	})
	return c
}

func (c *Catalog) define(p *Package) {
	c.names = append(c.names, p.Name)
	c.packages[p.Name] = p
}

// Lookup resolves a package by its encoded name.
func (c *Catalog) Lookup(name cliq.Bytes32) (*Package, error) {
	p, ok := c.packages[name]
	if !ok {
		return nil, ErrUnknownPackage
	}
	return p, nil
}

// Len returns the number of defined packages.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Name returns the encoded name of the package at index i, in definition order.
func (c *Catalog) Name(i int) (cliq.Bytes32, error) {
	if i < 0 || i >= len(c.names) {
		return cliq.Bytes32{}, ErrUnknownPackage
	}
	return c.names[i], nil
}

// Names returns all package names in definition order.
func (c *Catalog) Names() []cliq.Bytes32 {
	names := make([]cliq.Bytes32, len(c.names))
	copy(names, c.names)
	return names
}
