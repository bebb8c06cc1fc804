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
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carverauto/skywatch/pkg/models"
)

const (
	assetColumns = `id, code_name, category, status, battery_level, last_lat, last_lng, updated_at`

	getAssetSQL   = `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	listAssetsSQL = `SELECT ` + assetColumns + ` FROM assets ORDER BY code_name`

	upsertAssetSQL = `
INSERT INTO assets (code_name, category, status, battery_level, last_lat, last_lng)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code_name) DO UPDATE
   SET category      = EXCLUDED.category,
       status        = EXCLUDED.status,
       battery_level = EXCLUDED.battery_level,
       last_lat      = EXCLUDED.last_lat,
       last_lng      = EXCLUDED.last_lng,
       updated_at    = now()
RETURNING ` + assetColumns

	updateAssetPositionSQL = `
UPDATE assets
   SET last_lat = $2, last_lng = $3, updated_at = now()
 WHERE id = $1`

	recallActiveAssetsSQL = `
UPDATE assets
   SET status = 'RETURNING', updated_at = now()
 WHERE status = 'ACTIVE'
RETURNING id`
)

func scanAsset(row pgx.Row) (models.Asset, error) {
	var a models.Asset

	err := row.Scan(&a.ID, &a.CodeName, &a.Category, &a.Status, &a.BatteryLevel,
		&a.LastLat, &a.LastLng, &a.UpdatedAt)

	return a, err
}

// GetAsset returns one asset or models.ErrAssetNotFound.
func (db *DB) GetAsset(ctx context.Context, id uuid.UUID) (models.Asset, error) {
	a, err := scanAsset(db.pool.QueryRow(ctx, getAssetSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Asset{}, models.ErrAssetNotFound
	}

	if err != nil {
		return models.Asset{}, fmt.Errorf("%w asset %s: %w", ErrFailedToQuery, id, err)
	}

	return a, nil
}

// ListAssets returns every asset ordered by code name.
func (db *DB) ListAssets(ctx context.Context) ([]models.Asset, error) {
	rows, err := db.pool.Query(ctx, listAssetsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w assets: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var assets []models.Asset

	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("%w asset: %w", ErrFailedToScan, err)
		}

		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w assets: %w", ErrFailedToQuery, err)
	}

	return assets, nil
}

// UpsertAsset creates or updates an asset by code name. Audited.
func (db *DB) UpsertAsset(ctx context.Context, in models.Asset) (models.Asset, error) {
	if in.Status == "" {
		in.Status = models.AssetStatusIdle
	}

	if in.Category == "" {
		in.Category = "SCOUT"
	}

	var out models.Asset

	err := db.recorder.Mutate(ctx, func(tx pgx.Tx) error {
		var scanErr error

		out, scanErr = scanAsset(tx.QueryRow(ctx, upsertAssetSQL,
			in.CodeName, in.Category, in.Status, in.BatteryLevel, in.LastLat, in.LastLng))

		return scanErr
	})
	if err != nil {
		return models.Asset{}, fmt.Errorf("%w asset %q: %w", ErrFailedToInsert, in.CodeName, err)
	}

	return out, nil
}

// UpdateAssetPosition records the last known position. Audited.
func (db *DB) UpdateAssetPosition(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	var affected int64

	err := db.recorder.Mutate(ctx, func(tx pgx.Tx) error {
		tag, execErr := tx.Exec(ctx, updateAssetPositionSQL, id, lat, lng)
		affected = tag.RowsAffected()

		return execErr
	})
	if err != nil {
		return fmt.Errorf("%w asset %s position: %w", ErrFailedToUpdate, id, err)
	}

	if affected == 0 {
		return models.ErrAssetNotFound
	}

	return nil
}

// RecallActiveAssets moves every ACTIVE asset to RETURNING and records a
// FLEET_RECALL event in the same audited transaction.
func (db *DB) RecallActiveAssets(ctx context.Context, issuedBy string) ([]uuid.UUID, error) {
	var recalled []uuid.UUID

	err := db.recorder.Mutate(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, recallActiveAssetsSQL)
		if err != nil {
			return err
		}

		recalled, err = pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
		if err != nil {
			return err
		}

		ids := make([]string, len(recalled))
		for i, id := range recalled {
			ids[i] = id.String()
		}

		event := models.SystemEvent{
			EventType: models.EventFleetRecall,
			Severity:  models.SeverityCritical,
			Title:     fmt.Sprintf("Fleet recall: %d assets returning to base", len(recalled)),
			Metadata: map[string]interface{}{
				"issued_by":  issuedBy,
				"asset_ids":  ids,
				"recalled_n": len(recalled),
			},
		}

		return insertSystemEvent(ctx, tx, &event)
	})
	if err != nil {
		return nil, fmt.Errorf("%w fleet recall: %w", ErrFailedToUpdate, err)
	}

	return recalled, nil
}
