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
	listAuditLogSQL = `
SELECT id, table_name, action, old_data, new_data, changed_by, created_at
  FROM audit_logs
 ORDER BY created_at DESC, id DESC
 LIMIT $1`

	dashboardStatsSQL = `
SELECT active_assets, total_assets, restricted_zones, detections_24h,
       high_confidence_24h, breaches_24h, proximity_alerts_24h
  FROM dashboard_stats`
)

// ListAuditLog returns ledger entries most recent first. A non-positive limit
// uses the default of 100.
func (db *DB) ListAuditLog(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	rows, err := db.pool.Query(ctx, listAuditLogSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("%w audit log: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	entries := make([]models.AuditLogEntry, 0)

	for rows.Next() {
		var (
			e       models.AuditLogEntry
			oldData []byte
			newData []byte
		)

		if err := rows.Scan(&e.ID, &e.TableName, &e.Action, &oldData, &newData,
			&e.ChangedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w audit entry: %w", ErrFailedToScan, err)
		}

		e.OldData = oldData
		e.NewData = newData
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w audit log: %w", ErrFailedToQuery, err)
	}

	return entries, nil
}

// DashboardStats reads the rolling counters view.
func (db *DB) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var s models.DashboardStats

	if err := db.pool.QueryRow(ctx, dashboardStatsSQL).Scan(
		&s.ActiveAssets, &s.TotalAssets, &s.RestrictedZones, &s.Detections24h,
		&s.HighConfidence24h, &s.Breaches24h, &s.ProximityAlerts24h,
	); err != nil {
		return models.DashboardStats{}, fmt.Errorf("%w dashboard stats: %w", ErrFailedToQuery, err)
	}

	return s, nil
}
