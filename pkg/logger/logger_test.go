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

package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l, err := New(&Config{Level: "warn", Output: "stdout"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestNewDebugOverridesLevel(t *testing.T) {
	l, err := New(&Config{Level: "error", Debug: true})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SKYWATCH_LOG_LEVEL", "")
	t.Setenv("LOG_OUTPUT", "")
	t.Setenv("SKYWATCH_LOG_OUTPUT", "")

	config := DefaultConfig()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "stdout", config.Output)
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "trace")
	t.Setenv("SKYWATCH_LOG_LEVEL", "")
	t.Setenv("DEBUG", "yes")
	t.Setenv("SKYWATCH_DEBUG", "")

	config := DefaultConfig()

	assert.Equal(t, "trace", config.Level)
	assert.True(t, config.Debug)
}

func TestDefaultConfigPrefixedWins(t *testing.T) {
	t.Setenv("LOG_LEVEL", "trace")
	t.Setenv("SKYWATCH_LOG_LEVEL", "warn")
	t.Setenv("SKYWATCH_DEBUG", "off")
	t.Setenv("DEBUG", "true")

	config := DefaultConfig()

	assert.Equal(t, "warn", config.Level)
	assert.False(t, config.Debug)
}

func TestWriterSelection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, os.Stderr, (&Config{Output: OutputStderr}).Writer())
	assert.Equal(t, os.Stdout, (&Config{}).Writer())
	assert.IsType(t, zerolog.ConsoleWriter{}, (&Config{Output: OutputConsole}).Writer())
}

func TestTestLoggerIsSilent(t *testing.T) {
	t.Parallel()

	l := NewTestLogger()
	l.Info().Str("asset_id", "a").Msg("discarded")

	assert.Equal(t, zerolog.Disabled, l.WithComponent("detector").GetLevel())
}
