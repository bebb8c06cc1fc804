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

//go:generate mockgen -destination=mock_detector.go -package=detector github.com/carverauto/skywatch/pkg/detector ZoneSource,AssetStore,EventStore,PathRecorder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/skywatch/pkg/models"
)

// ZoneSource reads the evaluation targets.
type ZoneSource interface {
	ListZones(ctx context.Context, zoneTypes ...string) ([]models.Zone, error)
	ListActiveHotspots(ctx context.Context) ([]models.Hotspot, error)
}

// AssetStore updates asset state. Implementations audit every change.
type AssetStore interface {
	UpdateAssetPosition(ctx context.Context, id uuid.UUID, lat, lng float64) error
	RecallActiveAssets(ctx context.Context, issuedBy string) ([]uuid.UUID, error)
}

// EventStore writes the rows whose insertion drives realtime notification.
type EventStore interface {
	InsertSystemEvent(ctx context.Context, e *models.SystemEvent) error
	InsertDetection(ctx context.Context, d *models.Detection) error
}

// PathRecorder captures breadcrumbs. *tracker.Tracker satisfies it.
type PathRecorder interface {
	RecordPosition(ctx context.Context, assetID uuid.UUID, lat, lng float64, capturedAt time.Time) (models.PathPoint, error)
}
