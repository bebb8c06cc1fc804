/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package detector

import (
	"context"
	"sync"
	"time"

	"github.com/carverauto/skywatch/pkg/models"
)

// zoneCache holds one zone snapshot for at most ttl. A zero ttl disables it
// and every evaluation re-reads the store. Failed loads are never cached.
type zoneCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	zones    []models.Zone
	loadedAt time.Time
	now      func() time.Time
}

func newZoneCache(ttl time.Duration) *zoneCache {
	return &zoneCache{ttl: ttl, now: time.Now}
}

func (c *zoneCache) get(
	ctx context.Context, load func(context.Context) ([]models.Zone, error),
) ([]models.Zone, error) {
	if c.ttl <= 0 {
		return load(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.zones != nil && c.now().Sub(c.loadedAt) < c.ttl {
		return c.zones, nil
	}

	zones, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if zones == nil {
		zones = []models.Zone{}
	}

	c.zones = zones
	c.loadedAt = c.now()

	return zones, nil
}
