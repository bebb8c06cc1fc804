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

package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/tracker"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/skywatch/pkg/api Detector,PathReader,Store

// Detector evaluates position reports and records detections.
type Detector interface {
	RecordPosition(ctx context.Context, assetID uuid.UUID, lat, lng float64) ([]models.Classification, error)
	LogDetection(ctx context.Context, det *models.Detection) error
	RecallFleet(ctx context.Context, issuedBy string) ([]uuid.UUID, error)
}

type PathReader interface {
	GetPath(ctx context.Context, assetID uuid.UUID, w tracker.Window) ([]models.PathPoint, error)
}

// Store is the read surface for threats, the audit ledger and map data, plus
// the single threat write.
type Store interface {
	ListThreats(ctx context.Context, role models.Role) ([]models.ThreatAssessment, error)
	CreateThreat(ctx context.Context, level models.ThreatLevel, decision string, role models.Role) (models.ThreatAssessment, error)
	ListAuditLog(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
	ListZones(ctx context.Context, zoneTypes ...string) ([]models.Zone, error)
	ListActiveHotspots(ctx context.Context) ([]models.Hotspot, error)
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}
