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

// Package tracker records per-asset breadcrumbs and reads them back in
// capture order.
package tracker

//go:generate mockgen -destination=mock_tracker.go -package=tracker github.com/carverauto/skywatch/pkg/tracker Store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/spatial"
)

// Store persists breadcrumbs. *db.DB satisfies it.
type Store interface {
	InsertPathPoint(ctx context.Context, p *models.PathPoint) error
	ListPath(ctx context.Context, assetID uuid.UUID, since time.Time, limit int) ([]models.PathPoint, error)
}

// Window bounds a path read. The zero Window returns the full history.
type Window struct {
	Since time.Time
	Limit int
}

type Tracker struct {
	store  Store
	logger logger.Logger
	now    func() time.Time
}

func New(store Store, log logger.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RecordPosition appends one sample. Every call inserts a row: there is no
// deduplication and no rate limit. A zero capturedAt is stamped with now.
func (t *Tracker) RecordPosition(
	ctx context.Context, assetID uuid.UUID, lat, lng float64, capturedAt time.Time,
) (models.PathPoint, error) {
	if assetID == uuid.Nil {
		return models.PathPoint{}, models.ErrAssetIDRequired
	}

	if !(spatial.Point{Lat: lat, Lng: lng}).Valid() {
		return models.PathPoint{}, models.ErrInvalidCoordinates
	}

	if capturedAt.IsZero() {
		capturedAt = t.now()
	}

	p := models.PathPoint{
		AssetID:    assetID,
		Lat:        lat,
		Lng:        lng,
		CapturedAt: capturedAt.UTC(),
	}

	if err := t.store.InsertPathPoint(ctx, &p); err != nil {
		return models.PathPoint{}, err
	}

	t.logger.Debug().
		Str("asset_id", assetID.String()).
		Float64("lat", lat).
		Float64("lng", lng).
		Msg("breadcrumb recorded")

	return p, nil
}

// GetPath returns the asset's samples oldest first. Each call is an
// independent full read; a Limit keeps the most recent points.
func (t *Tracker) GetPath(ctx context.Context, assetID uuid.UUID, w Window) ([]models.PathPoint, error) {
	if assetID == uuid.Nil {
		return nil, models.ErrAssetIDRequired
	}

	limit := w.Limit
	if limit < 0 {
		limit = 0
	}

	return t.store.ListPath(ctx, assetID, w.Since, limit)
}
