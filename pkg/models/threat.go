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

package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ThreatLevel is the classification of a threat assessment.
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "LOW"
	ThreatMedium   ThreatLevel = "MEDIUM"
	ThreatHigh     ThreatLevel = "HIGH"
	ThreatCritical ThreatLevel = "CRITICAL"
)

// ParseThreatLevel normalizes s and checks it against the known levels.
func ParseThreatLevel(s string) (ThreatLevel, error) {
	level := ThreatLevel(strings.ToUpper(strings.TrimSpace(s)))

	switch level {
	case ThreatLow, ThreatMedium, ThreatHigh, ThreatCritical:
		return level, nil
	}

	return "", ErrInvalidThreatLevel
}

// Role is the caller-declared access role used for threat visibility.
type Role string

const (
	RoleAnalyst   Role = "analyst"
	RoleCommander Role = "commander"
)

// ThreatAssessment is a protected, audited record.
type ThreatAssessment struct {
	ID            uuid.UUID   `json:"id"`
	ThreatLevel   ThreatLevel `json:"threat_level"`
	Decision      string      `json:"decision"`
	CreatedByRole Role        `json:"created_by_role,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// AuditAction is the mutation kind recorded in the ledger.
type AuditAction string

const (
	AuditInsert AuditAction = "INSERT"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// AuditLogEntry is one append-only ledger row. OldData is nil on insert and
// NewData is nil on delete.
type AuditLogEntry struct {
	ID        int64           `json:"id"`
	TableName string          `json:"table_name"`
	Action    AuditAction     `json:"action"`
	OldData   json.RawMessage `json:"old_data"`
	NewData   json.RawMessage `json:"new_data"`
	ChangedBy *uuid.UUID      `json:"changed_by"`
	CreatedAt time.Time       `json:"created_at"`
}
