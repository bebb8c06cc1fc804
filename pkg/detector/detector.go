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

// Package detector classifies asset position reports against restricted zones
// and hotspots. Every report leaves a breadcrumb; breach and proximity results
// are written as system events, which the datastore publishes to live clients.
//
// Zone loading fails open: if the zones cannot be read the report is accepted
// without evaluation and the failure is logged, so ingestion never stalls on a
// transient read error.
package detector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/metrics"
	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/spatial"
)

// Deps are the stores the detector reads and writes.
type Deps struct {
	Zones  ZoneSource
	Assets AssetStore
	Events EventStore
	Path   PathRecorder
}

type Detector struct {
	deps      Deps
	threshold float64
	timeout   time.Duration
	distance  func(spatial.Point, spatial.Ring) float64
	cache     *zoneCache
	metrics   *metrics.Instruments
	logger    logger.Logger
}

type Option func(*Detector)

// WithMetrics records ingestion and classification counters.
func WithMetrics(m *metrics.Instruments) Option {
	return func(d *Detector) {
		d.metrics = m
	}
}

// New validates cfg, applying defaults, and returns a detector safe for
// concurrent use across assets.
func New(cfg models.DetectorConfig, deps Deps, log logger.Logger, opts ...Option) (*Detector, error) {
	if deps.Zones == nil || deps.Assets == nil || deps.Events == nil || deps.Path == nil {
		return nil, ErrMissingDependency
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Detector{
		deps:      deps,
		threshold: cfg.ProximityThresholdMeters,
		timeout:   time.Duration(cfg.EvalTimeout),
		distance:  spatial.DistanceToPolygon,
		cache:     newZoneCache(time.Duration(cfg.ZoneCacheTTL)),
		logger:    log,
	}

	if cfg.DistanceMode == models.DistanceModeVertex {
		d.distance = spatial.MinDistanceToVertices
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// RecordPosition ingests one position report for assetID and returns every
// breach and proximity result, possibly none. Only invalid input and unknown
// assets produce an error; datastore failures are logged and the report is
// still accepted.
func (d *Detector) RecordPosition(
	ctx context.Context, assetID uuid.UUID, lat, lng float64,
) ([]models.Classification, error) {
	if assetID == uuid.Nil {
		return nil, ErrAssetIDRequired
	}

	point := spatial.Point{Lat: lat, Lng: lng}
	if !point.Valid() {
		return nil, ErrInvalidCoordinates
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	d.metrics.PositionIngested(ctx)

	log := d.logger.With().Str("asset_id", assetID.String()).Logger()

	if _, err := d.deps.Path.RecordPosition(ctx, assetID, lat, lng, time.Time{}); err != nil {
		log.Error().Err(err).Msg("failed to record breadcrumb")
	}

	if err := d.deps.Assets.UpdateAssetPosition(ctx, assetID, lat, lng); err != nil {
		if errors.Is(err, models.ErrAssetNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, assetID)
		}

		log.Error().Err(err).Msg("failed to update last known position")
	}

	zones, err := d.cache.get(ctx, d.loadZones)
	if err != nil {
		log.Warn().Err(err).Msg("zone load failed, skipping zone evaluation")
	}

	hotspots, err := d.deps.Zones.ListActiveHotspots(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("hotspot load failed, skipping hotspot evaluation")
	}

	results := d.Classify(point, zones, hotspots)

	for i := range results {
		d.emit(ctx, assetID, point, &results[i])
	}

	return results, nil
}

func (d *Detector) loadZones(ctx context.Context) ([]models.Zone, error) {
	return d.deps.Zones.ListZones(ctx)
}

// Classify evaluates point against zones and hotspots without side effects.
// A zone containing the point yields a breach; otherwise a zone within the
// proximity threshold yields a proximity result. Hotspots only ever yield
// proximity results.
func (d *Detector) Classify(
	point spatial.Point, zones []models.Zone, hotspots []models.Hotspot,
) []models.Classification {
	results := make([]models.Classification, 0)

	for i := range zones {
		z := &zones[i]

		if spatial.PointInPolygon(point, z.Boundary) {
			results = append(results, models.Classification{
				Kind:       models.ClassificationBreach,
				TargetKind: models.TargetZone,
				TargetID:   z.ID,
				TargetName: z.Name,
				ZoneType:   z.ZoneType,
				Severity:   models.SeverityCritical,
			})

			continue
		}

		dist := d.distance(point, z.Boundary)
		if dist <= d.threshold {
			results = append(results, models.Classification{
				Kind:           models.ClassificationProximity,
				TargetKind:     models.TargetZone,
				TargetID:       z.ID,
				TargetName:     z.Name,
				ZoneType:       z.ZoneType,
				DistanceMeters: roundMeters(dist),
				Severity:       models.SeverityMedium,
			})
		}
	}

	for i := range hotspots {
		h := &hotspots[i]
		if !h.IsActive {
			continue
		}

		dist := spatial.HaversineDistance(point, spatial.Point{Lat: h.Lat, Lng: h.Lng})
		if dist <= d.threshold {
			results = append(results, models.Classification{
				Kind:           models.ClassificationProximity,
				TargetKind:     models.TargetHotspot,
				TargetID:       h.ID,
				TargetName:     h.Title,
				DistanceMeters: roundMeters(dist),
				Severity:       models.SeverityMedium,
			})
		}
	}

	return results
}

// emit writes the system event for one classification. Write failures are
// logged; the classification is still reported to the caller.
func (d *Detector) emit(ctx context.Context, assetID uuid.UUID, point spatial.Point, c *models.Classification) {
	event := models.SystemEvent{
		Severity: c.Severity,
		AssetID:  &assetID,
		Metadata: map[string]interface{}{
			"target_kind": string(c.TargetKind),
			"target_id":   c.TargetID.String(),
			"zone":        c.TargetName,
			"asset_id":    assetID.String(),
			"coords":      map[string]float64{"lat": point.Lat, "lng": point.Lng},
		},
	}

	switch c.Kind {
	case models.ClassificationBreach:
		event.EventType = models.EventZoneBreach
		event.Title = "ZONE BREACH: " + c.TargetName
		event.Metadata["zone_type"] = c.ZoneType

		d.logger.Warn().
			Str("asset_id", assetID.String()).
			Str("zone", c.TargetName).
			Str("zone_type", c.ZoneType).
			Msgf("asset %s breached %s", assetID, c.TargetName)
	case models.ClassificationProximity:
		event.EventType = models.EventProximityAlert
		event.Title = "Approaching " + c.TargetName
		event.Metadata["distance_m"] = c.DistanceMeters

		d.logger.Warn().
			Str("asset_id", assetID.String()).
			Str("zone", c.TargetName).
			Float64("distance_m", c.DistanceMeters).
			Msgf("asset %s approaching %s (%.0fm)", assetID, c.TargetName, c.DistanceMeters)
	}

	d.metrics.Classified(ctx, string(c.Kind), string(c.TargetKind))

	if err := d.deps.Events.InsertSystemEvent(ctx, &event); err != nil {
		d.logger.Error().Err(err).
			Str("asset_id", assetID.String()).
			Str("event_type", event.EventType).
			Msg("failed to write classification event")
	}
}

func roundMeters(m float64) float64 {
	return math.Round(m*10) / 10
}
