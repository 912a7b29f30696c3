// Copyright (C) 2025 NTT Communications Corporation
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package normalize

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ConstraintCache is a read-through cache for parsed constraint sets, keyed
// by the raw expression string. Parsed sets are immutable and shared across
// goroutines. The cache is owned by whoever constructs it - there is no
// package-level singleton.
type ConstraintCache struct {
	cache *lru.Cache[string, ConstraintSet]
}

func NewConstraintCache(size int) (*ConstraintCache, error) {
	cache, err := lru.New[string, ConstraintSet](size)
	if err != nil {
		return nil, err
	}
	return &ConstraintCache{cache: cache}, nil
}

// Parse returns the parsed form of expr, consulting the cache first. Parse
// errors are never cached - malformed expressions are rare and the author is
// expected to fix them.
func (c *ConstraintCache) Parse(expr string) (ConstraintSet, error) {
	if set, ok := c.cache.Get(expr); ok {
		return set, nil
	}

	set, err := ParseConstraint(expr)
	if err != nil {
		return ConstraintSet{}, err
	}

	c.cache.Add(expr, set)
	return set, nil
}
