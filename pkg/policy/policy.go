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

// Package policy decides which threat assessments a role may read. Rules are
// declarative: each role maps to the set of threat levels hidden from it, and
// the same rule renders both an in-memory check and a SQL predicate so every
// read path filters identically. Unknown roles see nothing.
package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carverauto/skywatch/pkg/models"
)

// Rule is the visibility rule for one role.
type Rule struct {
	Role   models.Role
	Hidden []models.ThreatLevel
}

// Predicate is a SQL boolean expression over the threat_level column with its
// positional arguments, numbered from the offset passed to Engine.Predicate.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// Engine evaluates role visibility. It is immutable after construction.
type Engine struct {
	rules map[models.Role]map[models.ThreatLevel]struct{}
}

// DefaultRules hides CRITICAL threats from analysts and nothing from commanders.
func DefaultRules() []Rule {
	return []Rule{
		{Role: models.RoleAnalyst, Hidden: []models.ThreatLevel{models.ThreatCritical}},
		{Role: models.RoleCommander},
	}
}

// NewEngine builds an engine from rules. Later rules for the same role replace earlier ones.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	e := &Engine{rules: make(map[models.Role]map[models.ThreatLevel]struct{}, len(rules))}

	for _, r := range rules {
		hidden := make(map[models.ThreatLevel]struct{}, len(r.Hidden))
		for _, level := range r.Hidden {
			hidden[level] = struct{}{}
		}

		e.rules[normalize(r.Role)] = hidden
	}

	return e
}

// Known reports whether role has a rule.
func (e *Engine) Known(role models.Role) bool {
	_, ok := e.rules[normalize(role)]
	return ok
}

// Allows reports whether role may see a threat at level.
func (e *Engine) Allows(role models.Role, level models.ThreatLevel) bool {
	hidden, ok := e.rules[normalize(role)]
	if !ok {
		return false
	}

	_, blocked := hidden[level]

	return !blocked
}

// Filter keeps only the threats role may see, preserving order.
func (e *Engine) Filter(role models.Role, threats []models.ThreatAssessment) []models.ThreatAssessment {
	out := make([]models.ThreatAssessment, 0, len(threats))

	for i := range threats {
		if e.Allows(role, threats[i].ThreatLevel) {
			out = append(out, threats[i])
		}
	}

	return out
}

// Predicate renders the rule for role as SQL against column. Placeholders start
// at $argOffset+1. ok is false for unknown roles, which callers must treat as
// an empty result without querying.
func (e *Engine) Predicate(role models.Role, column string, argOffset int) (Predicate, bool) {
	hidden, ok := e.rules[normalize(role)]
	if !ok {
		return Predicate{}, false
	}

	if len(hidden) == 0 {
		return Predicate{SQL: "TRUE"}, true
	}

	levels := make([]string, 0, len(hidden))
	for level := range hidden {
		levels = append(levels, string(level))
	}

	sort.Strings(levels)

	placeholders := make([]string, len(levels))
	args := make([]interface{}, len(levels))

	for i, level := range levels {
		placeholders[i] = fmt.Sprintf("$%d", argOffset+i+1)
		args[i] = level
	}

	return Predicate{
		SQL:  fmt.Sprintf("%s NOT IN (%s)", column, strings.Join(placeholders, ", ")),
		Args: args,
	}, true
}

// NormalizeRole lowercases and trims a caller-supplied role.
func NormalizeRole(raw string) models.Role {
	return normalize(models.Role(raw))
}

func normalize(role models.Role) models.Role {
	return models.Role(strings.ToLower(strings.TrimSpace(string(role))))
}
