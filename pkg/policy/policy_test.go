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

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/skywatch/pkg/models"
)

func threatsAtEveryLevel() []models.ThreatAssessment {
	return []models.ThreatAssessment{
		{Decision: "monitor", ThreatLevel: models.ThreatLow},
		{Decision: "intercept", ThreatLevel: models.ThreatCritical},
		{Decision: "escalate", ThreatLevel: models.ThreatHigh},
		{Decision: "observe", ThreatLevel: models.ThreatMedium},
	}
}

func TestFilterByRole(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	tests := []struct {
		name string
		role models.Role
		want []string
	}{
		{name: "analyst hides critical", role: models.RoleAnalyst, want: []string{"monitor", "escalate", "observe"}},
		{name: "commander sees all", role: models.RoleCommander, want: []string{"monitor", "intercept", "escalate", "observe"}},
		{name: "role is case insensitive", role: " Commander ", want: []string{"monitor", "intercept", "escalate", "observe"}},
		{name: "unknown role sees nothing", role: "guest", want: []string{}},
		{name: "empty role sees nothing", role: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := engine.Filter(tt.role, threatsAtEveryLevel())

			decisions := make([]string, 0, len(got))
			for _, th := range got {
				decisions = append(decisions, th.Decision)
			}

			assert.Equal(t, tt.want, decisions)
		})
	}
}

func TestPredicate(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	p, ok := engine.Predicate(models.RoleAnalyst, "t.threat_level", 2)
	require.True(t, ok)
	assert.Equal(t, "t.threat_level NOT IN ($3)", p.SQL)
	assert.Equal(t, []interface{}{"CRITICAL"}, p.Args)

	p, ok = engine.Predicate(models.RoleCommander, "threat_level", 0)
	require.True(t, ok)
	assert.Equal(t, "TRUE", p.SQL)
	assert.Empty(t, p.Args)

	_, ok = engine.Predicate("intruder", "threat_level", 0)
	assert.False(t, ok)
}

func TestCustomRules(t *testing.T) {
	t.Parallel()

	engine := NewEngine(
		Rule{Role: "observer", Hidden: []models.ThreatLevel{models.ThreatCritical, models.ThreatHigh}},
	)

	assert.True(t, engine.Known("observer"))
	assert.False(t, engine.Known(models.RoleCommander))
	assert.True(t, engine.Allows("observer", models.ThreatMedium))
	assert.False(t, engine.Allows("observer", models.ThreatHigh))

	p, ok := engine.Predicate("observer", "threat_level", 0)
	require.True(t, ok)
	assert.Equal(t, "threat_level NOT IN ($1, $2)", p.SQL)
	assert.Equal(t, []interface{}{"CRITICAL", "HIGH"}, p.Args)
}
