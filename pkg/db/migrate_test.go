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
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLStatementsHandlesDollarQuotedBlocks(t *testing.T) {
	t.Parallel()

	content := `
-- trigger body contains semicolons
CREATE OR REPLACE FUNCTION f() RETURNS trigger AS $$
BEGIN
    PERFORM pg_notify('high_threat_alert', 'x;y');
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DO $body$
BEGIN
    RAISE NOTICE 'done;';
END;
$body$;

SELECT 1;
`

	statements := splitSQLStatements(content)

	require.Len(t, statements, 3)
	assert.True(t, strings.HasPrefix(statements[0], "CREATE OR REPLACE FUNCTION"))
	assert.True(t, strings.HasSuffix(statements[0], "LANGUAGE plpgsql"))
	assert.True(t, strings.HasPrefix(statements[1], "DO $body$"))
	assert.True(t, strings.HasSuffix(statements[1], "$body$"))
	assert.Equal(t, "SELECT 1", statements[2])
}

func TestSplitSQLStatementsIgnoresQuotesAndComments(t *testing.T) {
	t.Parallel()

	content := `INSERT INTO t(v) VALUES('a;b'), ('it''s; fine');
/* block; comment */ UPDATE "weird;name" SET v = $1; -- trailing; comment
SELECT 2`

	statements := splitSQLStatements(content)

	require.Len(t, statements, 3)
	assert.Equal(t, `INSERT INTO t(v) VALUES('a;b'), ('it''s; fine')`, statements[0])
	assert.Equal(t, `UPDATE "weird;name" SET v = $1`, statements[1])
	assert.Equal(t, "SELECT 2", statements[2])
}

func TestDollarQuoteTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$$", dollarQuoteTag("$$ BEGIN"))
	assert.Equal(t, "$fn_1$", dollarQuoteTag("$fn_1$ BEGIN"))
	assert.Empty(t, dollarQuoteTag("$1, $2"))
	assert.Empty(t, dollarQuoteTag("$"))
}

func TestPendingMigrationFiles(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"migrations/00000000000002_b.up.sql":   {Data: []byte("SELECT 2;")},
		"migrations/00000000000001_a.up.sql":   {Data: []byte("SELECT 1;")},
		"migrations/00000000000001_a.down.sql": {Data: []byte("SELECT 0;")},
		"migrations/00000000000003_c.up.sql":   {Data: []byte("SELECT 3;")},
	}

	files, err := pendingMigrationFiles(fsys, map[string]struct{}{"00000000000002": {}})
	require.NoError(t, err)
	assert.Equal(t, []string{"00000000000001_a.up.sql", "00000000000003_c.up.sql"}, files)
}

func TestEmbeddedMigrationsInstallTriggers(t *testing.T) {
	t.Parallel()

	files, err := pendingMigrationFiles(migrationsFS, nil)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var all strings.Builder

	for _, name := range files {
		content, err := migrationsFS.ReadFile("migrations/" + name)
		require.NoError(t, err)

		statements := splitSQLStatements(string(content))
		require.NotEmpty(t, statements, name)

		for _, stmt := range statements {
			all.WriteString(stmt)
			all.WriteString("\n")
		}
	}

	sql := all.String()

	assert.Contains(t, sql, "IF NEW.confidence <= 80")
	assert.Contains(t, sql, "pg_notify('high_threat_alert'")
	assert.Contains(t, sql, "AFTER INSERT OR UPDATE OR DELETE ON assets")
	assert.Contains(t, sql, "AFTER INSERT OR UPDATE OR DELETE ON threat_assessments")
	assert.Contains(t, sql, "current_setting('skywatch.actor_id', true)")
	assert.Contains(t, sql, "BEFORE UPDATE OR DELETE ON audit_logs")
}

func TestEveryNotifyTriggerGuardsPayloadSize(t *testing.T) {
	t.Parallel()

	files, err := pendingMigrationFiles(migrationsFS, nil)
	require.NoError(t, err)

	// the last definition of each function is the one installed
	latest := map[string]string{}

	for _, name := range files {
		content, err := migrationsFS.ReadFile("migrations/" + name)
		require.NoError(t, err)

		for _, stmt := range splitSQLStatements(string(content)) {
			for _, fn := range []string{"notify_detection", "notify_system_event"} {
				if strings.Contains(stmt, "CREATE OR REPLACE FUNCTION "+fn+"()") {
					latest[fn] = stmt
				}
			}
		}
	}

	require.Len(t, latest, 2)

	for fn, body := range latest {
		assert.Contains(t, body, "octet_length(payload::text) > 7900", fn)
		assert.Contains(t, body, "'truncated', TRUE", fn)
	}
}

func TestMigrationVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00000000000004", migrationVersion("00000000000004_threat_row_security.up.sql"))
	assert.Equal(t, "noprefix.sql", migrationVersion("noprefix.sql"))
}
