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

// Package db is the PostgreSQL persistence layer: zones, hotspots, assets,
// breadcrumbs, detections, system events, threat assessments, and the audit
// ledger, plus the embedded schema migrations that install the alert and audit
// triggers.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/skywatch/pkg/audit"
	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/policy"
)

const defaultAuditLimit = 100

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// DB owns the pool and applies audit scoping and threat visibility on every
// call that needs them.
type DB struct {
	pool        *pgxpool.Pool
	recorder    *audit.Recorder
	policy      *policy.Engine
	nativeRoles bool
	logger      logger.Logger
}

type Option func(*DB)

// WithPolicy replaces the default visibility rules.
func WithPolicy(engine *policy.Engine) Option {
	return func(db *DB) {
		db.policy = engine
	}
}

// WithNativeRoles makes threat reads SET LOCAL ROLE to the caller's role.
func WithNativeRoles(enabled bool) Option {
	return func(db *DB) {
		db.nativeRoles = enabled
	}
}

func New(pool *pgxpool.Pool, log logger.Logger, opts ...Option) *DB {
	db := &DB{
		pool:     pool,
		recorder: audit.NewRecorder(pool, log),
		policy:   policy.NewEngine(),
		logger:   log,
	}

	for _, opt := range opts {
		opt(db)
	}

	return db
}

// Pool exposes the underlying pool for components that need raw access.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, db.pool, db.logger)
}

// Close releases every pooled connection.
func (db *DB) Close() {
	db.pool.Close()
}
