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

// Package audit scopes mutations of protected tables so the ledger triggers
// can attribute them. The ledger rows themselves are written by the datastore
// in the same transaction as the change.
package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carverauto/skywatch/pkg/logger"
)

// ActorSetting is the transaction-local setting the audit trigger reads.
const ActorSetting = "skywatch.actor_id"

const setActorSQL = `SELECT set_config($1, $2, true)`

var ErrMutationFailed = errors.New("audited mutation failed")

type actorKey struct{}

// WithActor returns a context carrying the identity responsible for mutations.
func WithActor(ctx context.Context, actor uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the acting identity, if any.
func ActorFrom(ctx context.Context) (uuid.UUID, bool) {
	actor, ok := ctx.Value(actorKey{}).(uuid.UUID)
	if !ok || actor == uuid.Nil {
		return uuid.Nil, false
	}

	return actor, true
}

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Recorder runs protected-table mutations in a transaction tagged with the actor.
type Recorder struct {
	db     TxBeginner
	logger logger.Logger
}

func NewRecorder(db TxBeginner, log logger.Logger) *Recorder {
	return &Recorder{db: db, logger: log}
}

// Mutate opens a transaction, binds the actor from ctx to it, runs fn, and
// commits. Any error from fn, from the audit trigger, or from commit rolls the
// whole transaction back so no mutation exists without its ledger entry.
func (r *Recorder) Mutate(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrMutationFailed, err)
	}

	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.Warn().Err(rbErr).Msg("audit transaction rollback failed")
		}
	}()

	if err := BindActor(ctx, tx); err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		return fmt.Errorf("%w: %w", ErrMutationFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrMutationFailed, err)
	}

	return nil
}

// BindActor sets the transaction-local actor when ctx carries one. Without an
// actor the setting stays empty and the ledger records a null actor.
func BindActor(ctx context.Context, tx pgx.Tx) error {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return nil
	}

	if _, err := tx.Exec(ctx, setActorSQL, ActorSetting, actor.String()); err != nil {
		return fmt.Errorf("%w: bind actor: %w", ErrMutationFailed, err)
	}

	return nil
}
