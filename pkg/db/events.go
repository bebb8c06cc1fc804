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

	"github.com/carverauto/skywatch/pkg/models"
)

const (
	insertDetectionSQL = `
INSERT INTO detections (asset_id, detected_object, confidence, bounding_box, detected_at)
VALUES ($1, $2, $3, $4, COALESCE($5, now()))
RETURNING id, detected_at`

	insertSystemEventSQL = `
INSERT INTO system_events (event_type, severity, title, asset_id, metadata)
VALUES ($1, $2, $3, $4, COALESCE($5, '{}'::jsonb))
RETURNING id, created_at`

	listSystemEventsSQL = `
SELECT id, event_type, severity, title, asset_id, metadata, created_at
  FROM system_events
 ORDER BY created_at DESC
 LIMIT $1`
)

// InsertDetection stores a detection. Rows above 80% confidence are published
// on the alert channel by the datastore trigger.
func (db *DB) InsertDetection(ctx context.Context, d *models.Detection) error {
	if d.Confidence < 0 || d.Confidence > 100 {
		return ErrInvalidConfidence
	}

	var detectedAt interface{}
	if !d.DetectedAt.IsZero() {
		detectedAt = d.DetectedAt.UTC()
	}

	if err := db.pool.QueryRow(ctx, insertDetectionSQL,
		d.AssetID, d.DetectedObject, d.Confidence, d.BoundingBox, detectedAt).
		Scan(&d.ID, &d.DetectedAt); err != nil {
		return fmt.Errorf("%w detection: %w", ErrFailedToInsert, err)
	}

	return nil
}

// InsertSystemEvent stores an event. Non-INFO events are published by the
// datastore trigger.
func (db *DB) InsertSystemEvent(ctx context.Context, e *models.SystemEvent) error {
	return insertSystemEvent(ctx, db.pool, e)
}

func insertSystemEvent(ctx context.Context, q querier, e *models.SystemEvent) error {
	if e.Severity == "" {
		e.Severity = models.SeverityInfo
	}

	var metadata interface{}
	if len(e.Metadata) > 0 {
		metadata = e.Metadata
	}

	if err := q.QueryRow(ctx, insertSystemEventSQL,
		e.EventType, e.Severity, e.Title, e.AssetID, metadata).
		Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("%w system event %s: %w", ErrFailedToInsert, e.EventType, err)
	}

	return nil
}

// ListSystemEvents returns the most recent events first.
func (db *DB) ListSystemEvents(ctx context.Context, limit int) ([]models.SystemEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	rows, err := db.pool.Query(ctx, listSystemEventsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("%w system events: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	events := make([]models.SystemEvent, 0)

	for rows.Next() {
		var e models.SystemEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.Severity, &e.Title, &e.AssetID,
			&e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w system event: %w", ErrFailedToScan, err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w system events: %w", ErrFailedToQuery, err)
	}

	return events, nil
}
