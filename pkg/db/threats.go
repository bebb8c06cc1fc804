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
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/policy"
)

const (
	threatColumns = `id, threat_level, decision, COALESCE(created_by_role, ''), created_at`

	insertThreatSQL = `
INSERT INTO threat_assessments (threat_level, decision, created_by_role)
VALUES ($1, $2, NULLIF($3, ''))
RETURNING ` + threatColumns
)

func buildListThreatsQuery(engine *policy.Engine, role models.Role) (string, []interface{}, bool) {
	pred, ok := engine.Predicate(role, "threat_level", 0)
	if !ok {
		return "", nil, false
	}

	return `SELECT ` + threatColumns + ` FROM threat_assessments WHERE ` + pred.SQL +
		` ORDER BY created_at DESC, id`, pred.Args, true
}

func scanThreats(rows pgx.Rows) ([]models.ThreatAssessment, error) {
	defer rows.Close()

	threats := make([]models.ThreatAssessment, 0)

	for rows.Next() {
		var (
			t    models.ThreatAssessment
			role string
		)

		if err := rows.Scan(&t.ID, &t.ThreatLevel, &t.Decision, &role, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w threat: %w", ErrFailedToScan, err)
		}

		t.CreatedByRole = models.Role(role)
		threats = append(threats, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w threats: %w", ErrFailedToQuery, err)
	}

	return threats, nil
}

// ListThreats returns the assessments visible to role, newest first. Unknown
// roles get an empty list without touching the datastore.
func (db *DB) ListThreats(ctx context.Context, role models.Role) ([]models.ThreatAssessment, error) {
	role = policy.NormalizeRole(string(role))

	if !db.policy.Known(role) {
		db.logger.Debug().Str("role", string(role)).Msg("unknown role requested threats")
		return []models.ThreatAssessment{}, nil
	}

	query, args, _ := buildListThreatsQuery(db.policy, role)

	var (
		threats []models.ThreatAssessment
		err     error
	)

	if db.nativeRoles {
		threats, err = db.listThreatsAsRole(ctx, role, query, args)
	} else {
		var rows pgx.Rows

		rows, err = db.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("%w threats: %w", ErrFailedToQuery, err)
		}

		threats, err = scanThreats(rows)
	}

	if err != nil {
		return nil, err
	}

	return db.visibleThreats(role, threats), nil
}

// visibleThreats re-checks rows against the engine. The SQL predicate and the
// row security policies should already agree with it; anything dropped here
// means the database policy has drifted.
func (db *DB) visibleThreats(role models.Role, threats []models.ThreatAssessment) []models.ThreatAssessment {
	visible := db.policy.Filter(role, threats)

	if dropped := len(threats) - len(visible); dropped > 0 {
		db.logger.Warn().
			Str("role", string(role)).
			Int("dropped", dropped).
			Msg("threat rows outside the role policy were filtered")
	}

	return visible
}

func (db *DB) listThreatsAsRole(
	ctx context.Context, role models.Role, query string, args []interface{},
) ([]models.ThreatAssessment, error) {
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("%w threats: begin: %w", ErrFailedToQuery, err)
	}

	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			db.logger.Warn().Err(rbErr).Msg("threat read rollback failed")
		}
	}()

	if _, err := tx.Exec(ctx, "SET LOCAL ROLE "+pgx.Identifier{string(role)}.Sanitize()); err != nil {
		return nil, fmt.Errorf("%w threats: set role %s: %w", ErrFailedToQuery, role, err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w threats: %w", ErrFailedToQuery, err)
	}

	threats, err := scanThreats(rows)
	if err != nil {
		return nil, err
	}

	return threats, tx.Commit(ctx)
}

// CreateThreat stores a new assessment. The role is kept as provenance only;
// writes are not gated by role. Audited.
func (db *DB) CreateThreat(
	ctx context.Context, level models.ThreatLevel, decision string, role models.Role,
) (models.ThreatAssessment, error) {
	if strings.TrimSpace(decision) == "" {
		return models.ThreatAssessment{}, ErrDecisionRequired
	}

	var created []models.ThreatAssessment

	err := db.recorder.Mutate(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, insertThreatSQL, level, decision, string(policy.NormalizeRole(string(role))))
		if err != nil {
			return err
		}

		created, err = scanThreats(rows)

		return err
	})
	if err != nil {
		return models.ThreatAssessment{}, fmt.Errorf("%w threat: %w", ErrFailedToInsert, err)
	}

	if len(created) != 1 {
		return models.ThreatAssessment{}, fmt.Errorf("%w threat: no row returned", ErrFailedToInsert)
	}

	return created[0], nil
}
