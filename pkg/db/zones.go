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

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/spatial"
)

const (
	listZonesBaseSQL = `SELECT id, name, zone_type, boundary, created_at FROM zones`

	upsertZoneSQL = `
INSERT INTO zones (name, zone_type, boundary)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE
   SET zone_type = EXCLUDED.zone_type,
       boundary  = EXCLUDED.boundary
RETURNING id, created_at`

	listActiveHotspotsSQL = `
SELECT id, title, lat, lng, severity, is_active
  FROM hotspots
 WHERE is_active
 ORDER BY title`

	upsertHotspotSQL = `
INSERT INTO hotspots (title, lat, lng, severity, is_active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (title) DO UPDATE
   SET lat       = EXCLUDED.lat,
       lng       = EXCLUDED.lng,
       severity  = EXCLUDED.severity,
       is_active = EXCLUDED.is_active
RETURNING id`
)

func buildListZonesQuery(zoneTypes []string) (string, []interface{}) {
	types := make([]string, 0, len(zoneTypes))

	for _, zt := range zoneTypes {
		if zt = strings.TrimSpace(zt); zt != "" {
			types = append(types, strings.ToUpper(zt))
		}
	}

	if len(types) == 0 {
		return listZonesBaseSQL + ` ORDER BY name`, nil
	}

	return listZonesBaseSQL + ` WHERE zone_type = ANY($1) ORDER BY name`, []interface{}{types}
}

// ListZones returns zones, optionally restricted to the given types. Rows whose
// stored boundary no longer decodes to a valid ring are skipped and logged so
// one bad zone cannot blind classification against the rest.
func (db *DB) ListZones(ctx context.Context, zoneTypes ...string) ([]models.Zone, error) {
	query, args := buildListZonesQuery(zoneTypes)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w zones: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var zones []models.Zone

	for rows.Next() {
		var (
			z   models.Zone
			raw []byte
		)

		if err := rows.Scan(&z.ID, &z.Name, &z.ZoneType, &raw, &z.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w zone: %w", ErrFailedToScan, err)
		}

		ring, err := spatial.ParseGeoJSONRing(raw)
		if err != nil {
			db.logger.Warn().
				Err(err).
				Str("zone_id", z.ID.String()).
				Str("zone", z.Name).
				Msg("skipping zone with unusable boundary")

			continue
		}

		z.Boundary = ring
		zones = append(zones, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w zones: %w", ErrFailedToQuery, err)
	}

	return zones, nil
}

// UpsertZone creates or replaces the zone with the given name.
func (db *DB) UpsertZone(ctx context.Context, zone *models.Zone) error {
	if strings.TrimSpace(zone.Name) == "" {
		return ErrZoneNameRequired
	}

	if err := zone.Boundary.Validate(); err != nil {
		return err
	}

	if zone.ZoneType == "" {
		zone.ZoneType = models.ZoneTypeRestricted
	}

	boundary, err := zone.Boundary.GeoJSON()
	if err != nil {
		return fmt.Errorf("encode boundary: %w", err)
	}

	if err := db.pool.QueryRow(ctx, upsertZoneSQL, zone.Name, zone.ZoneType, boundary).
		Scan(&zone.ID, &zone.CreatedAt); err != nil {
		return fmt.Errorf("%w zone %q: %w", ErrFailedToInsert, zone.Name, err)
	}

	return nil
}

// ListActiveHotspots returns points of interest that participate in proximity checks.
func (db *DB) ListActiveHotspots(ctx context.Context) ([]models.Hotspot, error) {
	rows, err := db.pool.Query(ctx, listActiveHotspotsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w hotspots: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var hotspots []models.Hotspot

	for rows.Next() {
		var h models.Hotspot
		if err := rows.Scan(&h.ID, &h.Title, &h.Lat, &h.Lng, &h.Severity, &h.IsActive); err != nil {
			return nil, fmt.Errorf("%w hotspot: %w", ErrFailedToScan, err)
		}

		hotspots = append(hotspots, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w hotspots: %w", ErrFailedToQuery, err)
	}

	return hotspots, nil
}

// UpsertHotspot creates or updates a point of interest by title.
func (db *DB) UpsertHotspot(ctx context.Context, h *models.Hotspot) error {
	if strings.TrimSpace(h.Title) == "" {
		return ErrHotspotTitleRequired
	}

	if !(spatial.Point{Lat: h.Lat, Lng: h.Lng}).Valid() {
		return models.ErrInvalidCoordinates
	}

	if h.Severity == "" {
		h.Severity = models.SeverityMedium
	}

	if err := db.pool.QueryRow(ctx, upsertHotspotSQL, h.Title, h.Lat, h.Lng, h.Severity, h.IsActive).
		Scan(&h.ID); err != nil {
		return fmt.Errorf("%w hotspot: %w", ErrFailedToInsert, err)
	}

	return nil
}
