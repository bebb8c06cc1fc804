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
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/skywatch/pkg/models"
)

const insertPathPointSQL = `
INSERT INTO path_points (asset_id, lat, lng, captured_at)
VALUES ($1, $2, $3, $4)
RETURNING id`

// buildListPathQuery selects an asset's breadcrumbs in chronological order.
// With a limit, the most recent points are kept and still returned oldest first.
func buildListPathQuery(assetID uuid.UUID, since time.Time, limit int) (string, []interface{}) {
	var (
		sb   strings.Builder
		args = []interface{}{assetID}
	)

	sb.WriteString(`SELECT id, asset_id, lat, lng, captured_at FROM path_points WHERE asset_id = $1`)

	if !since.IsZero() {
		args = append(args, since.UTC())
		fmt.Fprintf(&sb, ` AND captured_at >= $%d`, len(args))
	}

	if limit <= 0 {
		sb.WriteString(` ORDER BY captured_at ASC, id ASC`)
		return sb.String(), args
	}

	args = append(args, limit)
	fmt.Fprintf(&sb, ` ORDER BY captured_at DESC, id DESC LIMIT $%d`, len(args))

	return `SELECT id, asset_id, lat, lng, captured_at FROM (` + sb.String() +
		`) AS recent ORDER BY captured_at ASC, id ASC`, args
}

// InsertPathPoint appends one breadcrumb. Points are never deduplicated.
func (db *DB) InsertPathPoint(ctx context.Context, p *models.PathPoint) error {
	if p.CapturedAt.IsZero() {
		p.CapturedAt = time.Now().UTC()
	}

	if err := db.pool.QueryRow(ctx, insertPathPointSQL, p.AssetID, p.Lat, p.Lng, p.CapturedAt).
		Scan(&p.ID); err != nil {
		return fmt.Errorf("%w path point for %s: %w", ErrFailedToInsert, p.AssetID, err)
	}

	return nil
}

// ListPath returns an asset's breadcrumbs ordered by capture time.
func (db *DB) ListPath(ctx context.Context, assetID uuid.UUID, since time.Time, limit int) ([]models.PathPoint, error) {
	query, args := buildListPathQuery(assetID, since, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w path for %s: %w", ErrFailedToQuery, assetID, err)
	}
	defer rows.Close()

	points := make([]models.PathPoint, 0)

	for rows.Next() {
		var p models.PathPoint
		if err := rows.Scan(&p.ID, &p.AssetID, &p.Lat, &p.Lng, &p.CapturedAt); err != nil {
			return nil, fmt.Errorf("%w path point: %w", ErrFailedToScan, err)
		}

		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w path for %s: %w", ErrFailedToQuery, assetID, err)
	}

	return points, nil
}
