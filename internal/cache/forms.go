// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/olegiv/userbird/internal/store"
)

const formKeyPrefix = "form:"

// FormCache caches registered forms by id. Forms are immutable, so entries
// only ever leave the cache by TTL.
type FormCache struct {
	cache Cacher
	ttl   time.Duration
}

// NewFormCache wraps a Cacher for form lookups.
func NewFormCache(c Cacher, ttl time.Duration) *FormCache {
	return &FormCache{cache: c, ttl: ttl}
}

// Get returns the cached form, or false on a miss or any backend error.
func (c *FormCache) Get(ctx context.Context, id string) (store.Form, bool) {
	data, err := c.cache.Get(ctx, formKeyPrefix+id)
	if err != nil {
		return store.Form{}, false
	}

	var form store.Form
	if err := json.Unmarshal(data, &form); err != nil {
		return store.Form{}, false
	}
	return form, true
}

// Set stores a form.
func (c *FormCache) Set(ctx context.Context, form store.Form) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, formKeyPrefix+form.ID, data, c.ttl)
}
