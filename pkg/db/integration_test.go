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
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/skywatch/pkg/audit"
	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/models"
)

const testDatabaseURLEnv = "SKYWATCH_TEST_DATABASE_URL"

// openTestDB connects to a scratch database named by SKYWATCH_TEST_DATABASE_URL
// and applies the migrations. Tests are skipped when it is unset.
func openTestDB(t *testing.T) (*DB, context.Context) {
	t.Helper()

	dsn := os.Getenv(testDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	log := logger.NewTestLogger()

	pool, err := NewPool(ctx, &models.DatabaseConfig{URL: dsn, MaxConnections: 4}, log)
	require.NoError(t, err)

	database := New(pool, log)
	t.Cleanup(database.Close)

	require.NoError(t, database.Migrate(ctx))

	return database, ctx
}

func TestIntegrationHighConfidenceDetectionNotifies(t *testing.T) {
	database, ctx := openTestDB(t)

	connCfg, err := pgx.ParseConfig(os.Getenv(testDatabaseURLEnv))
	require.NoError(t, err)

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	require.NoError(t, err)

	defer func() { _ = conn.Close(context.Background()) }()

	_, err = conn.Exec(ctx, "LISTEN "+models.HighThreatChannel)
	require.NoError(t, err)

	low := models.Detection{DetectedObject: "bird", Confidence: 80}
	require.NoError(t, database.InsertDetection(ctx, &low))

	high := models.Detection{DetectedObject: "quadcopter", Confidence: 81}
	require.NoError(t, database.InsertDetection(ctx, &high))

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := conn.WaitForNotification(waitCtx)
	require.NoError(t, err)
	assert.Equal(t, models.HighThreatChannel, n.Channel)

	var payload struct {
		ID         uuid.UUID `json:"id"`
		Confidence int       `json:"confidence"`
	}

	require.NoError(t, json.Unmarshal([]byte(n.Payload), &payload))
	assert.Equal(t, high.ID, payload.ID)
	assert.Equal(t, 81, payload.Confidence)
}

// auditTrail returns the ledger rows for one record, oldest first.
func auditTrail(ctx context.Context, t *testing.T, database *DB, table string, id uuid.UUID) []models.AuditLogEntry {
	t.Helper()

	rows, err := database.Pool().Query(ctx, `
		SELECT id, table_name, action, old_data, new_data, changed_by, created_at
		FROM audit_logs
		WHERE table_name = $1
		  AND COALESCE(new_data->>'id', old_data->>'id') = $2
		ORDER BY id`, table, id.String())
	require.NoError(t, err)

	defer rows.Close()

	var out []models.AuditLogEntry

	for rows.Next() {
		var (
			e        models.AuditLogEntry
			old, cur []byte
		)

		require.NoError(t, rows.Scan(&e.ID, &e.TableName, &e.Action, &old, &cur, &e.ChangedBy, &e.CreatedAt))
		e.OldData = old
		e.NewData = cur
		out = append(out, e)
	}

	require.NoError(t, rows.Err())

	return out
}

func TestIntegrationAuditLedgerCapturesActorAndSnapshots(t *testing.T) {
	database, ctx := openTestDB(t)

	actor := uuid.New()
	actx := audit.WithActor(ctx, actor)

	asset, err := database.UpsertAsset(actx, models.Asset{
		CodeName: "ledger-" + uuid.NewString()[:8],
		Category: "SCOUT",
		Status:   models.AssetStatusIdle,
	})
	require.NoError(t, err)

	require.NoError(t, database.UpdateAssetPosition(ctx, asset.ID, 20.5, 78.9))

	trail := auditTrail(ctx, t, database, "assets", asset.ID)
	require.Len(t, trail, 2, "one ledger row per mutation")

	insert, update := trail[0], trail[1]

	assert.Equal(t, models.AuditInsert, insert.Action)
	require.NotNil(t, insert.ChangedBy)
	assert.Equal(t, actor, *insert.ChangedBy)
	assert.Empty(t, insert.OldData)
	assert.NotEmpty(t, insert.NewData)

	assert.Equal(t, "assets", update.TableName)
	assert.Equal(t, models.AuditUpdate, update.Action)
	assert.Nil(t, update.ChangedBy)
	assert.NotEmpty(t, update.OldData)
	assert.NotEmpty(t, update.NewData)

	_, err = database.Pool().Exec(ctx, `DELETE FROM audit_logs WHERE id = $1`, update.ID)
	require.Error(t, err, "audit rows must be append-only")
}

func TestIntegrationAuditLedgerRecordsDelete(t *testing.T) {
	database, ctx := openTestDB(t)

	asset, err := database.UpsertAsset(ctx, models.Asset{CodeName: "retired-" + uuid.NewString()[:8]})
	require.NoError(t, err)

	actor := uuid.New()

	err = database.recorder.Mutate(audit.WithActor(ctx, actor), func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, `DELETE FROM assets WHERE id = $1`, asset.ID)
		return execErr
	})
	require.NoError(t, err)

	trail := auditTrail(ctx, t, database, "assets", asset.ID)
	require.Len(t, trail, 2)

	deleted := trail[1]
	assert.Equal(t, models.AuditDelete, deleted.Action)
	assert.Empty(t, deleted.NewData)
	require.NotEmpty(t, deleted.OldData)
	require.NotNil(t, deleted.ChangedBy)
	assert.Equal(t, actor, *deleted.ChangedBy)

	var prior struct {
		CodeName string `json:"code_name"`
	}

	require.NoError(t, json.Unmarshal(deleted.OldData, &prior))
	assert.Equal(t, asset.CodeName, prior.CodeName)
}

func TestIntegrationCreateThreatIsAudited(t *testing.T) {
	database, ctx := openTestDB(t)

	actor := uuid.New()

	created, err := database.CreateThreat(audit.WithActor(ctx, actor), models.ThreatHigh, "shadow convoy", models.RoleCommander)
	require.NoError(t, err)

	trail := auditTrail(ctx, t, database, "threat_assessments", created.ID)
	require.Len(t, trail, 1)

	entry := trail[0]
	assert.Equal(t, models.AuditInsert, entry.Action)
	assert.Empty(t, entry.OldData)
	assert.Contains(t, string(entry.NewData), "shadow convoy")
	require.NotNil(t, entry.ChangedBy)
	assert.Equal(t, actor, *entry.ChangedBy)
}

func TestIntegrationOversizedDetectionStillNotifies(t *testing.T) {
	database, ctx := openTestDB(t)

	connCfg, err := pgx.ParseConfig(os.Getenv(testDatabaseURLEnv))
	require.NoError(t, err)

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	require.NoError(t, err)

	defer func() { _ = conn.Close(context.Background()) }()

	_, err = conn.Exec(ctx, "LISTEN "+models.HighThreatChannel)
	require.NoError(t, err)

	// stored directly so the detector's label cap is not in the way
	det := models.Detection{DetectedObject: strings.Repeat("A", 9000), Confidence: 95}
	require.NoError(t, database.InsertDetection(ctx, &det))

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payload struct {
		ID             uuid.UUID `json:"id"`
		DetectedObject string    `json:"detected_object"`
		Truncated      bool      `json:"truncated"`
	}

	for payload.ID != det.ID {
		n, err := conn.WaitForNotification(waitCtx)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal([]byte(n.Payload), &payload))
	}

	assert.True(t, payload.Truncated)
	assert.Len(t, payload.DetectedObject, 512)
}

func TestIntegrationThreatVisibilityByRole(t *testing.T) {
	database, ctx := openTestDB(t)

	critical, err := database.CreateThreat(ctx, models.ThreatCritical, "intercept", models.RoleAnalyst)
	require.NoError(t, err)

	high, err := database.CreateThreat(ctx, models.ThreatHigh, "observe", models.RoleCommander)
	require.NoError(t, err)

	ids := func(threats []models.ThreatAssessment) map[uuid.UUID]bool {
		out := make(map[uuid.UUID]bool, len(threats))
		for _, th := range threats {
			out[th.ID] = true
		}

		return out
	}

	analyst, err := database.ListThreats(ctx, models.RoleAnalyst)
	require.NoError(t, err)
	assert.False(t, ids(analyst)[critical.ID])
	assert.True(t, ids(analyst)[high.ID])

	commander, err := database.ListThreats(ctx, models.RoleCommander)
	require.NoError(t, err)
	assert.True(t, ids(commander)[critical.ID])
	assert.True(t, ids(commander)[high.ID])

	unknown, err := database.ListThreats(ctx, "visitor")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestIntegrationUpsertHotspotIsRepeatable(t *testing.T) {
	database, ctx := openTestDB(t)

	title := "post-" + uuid.NewString()[:8]

	first := models.Hotspot{Title: title, Lat: 20.476, Lng: 78.874, IsActive: true}
	require.NoError(t, database.UpsertHotspot(ctx, &first))
	assert.Equal(t, models.SeverityMedium, first.Severity)

	second := models.Hotspot{Title: title, Lat: 20.477, Lng: 78.875, Severity: models.SeverityHigh, IsActive: true}
	require.NoError(t, database.UpsertHotspot(ctx, &second))
	assert.Equal(t, first.ID, second.ID)

	active, err := database.ListActiveHotspots(ctx)
	require.NoError(t, err)

	var matches []models.Hotspot

	for _, h := range active {
		if h.Title == title {
			matches = append(matches, h)
		}
	}

	require.Len(t, matches, 1)
	assert.Equal(t, models.SeverityHigh, matches[0].Severity)
	assert.InDelta(t, 20.477, matches[0].Lat, 1e-9)
}

func TestIntegrationPathWindowKeepsNewest(t *testing.T) {
	database, ctx := openTestDB(t)

	asset, err := database.UpsertAsset(ctx, models.Asset{CodeName: "path-" + uuid.NewString()[:8]})
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	for i := 0; i < 5; i++ {
		require.NoError(t, database.InsertPathPoint(ctx, &models.PathPoint{
			AssetID:    asset.ID,
			Lat:        20 + float64(i)*0.01,
			Lng:        78,
			CapturedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	points, err := database.ListPath(ctx, asset.ID, time.Time{}, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i-1].CapturedAt.Before(points[i].CapturedAt))
	}

	assert.InDelta(t, 20.04, points[2].Lat, 1e-9)
}
