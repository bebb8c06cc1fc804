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
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/skywatch/pkg/spatial"
)

const (
	ZoneTypeRestricted = "RESTRICTED"
	ZoneTypeBase       = "BASE"
	ZoneTypeBorder     = "BORDER"
)

// Zone is a named polygonal region. Boundary holds the outer ring only.
type Zone struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	ZoneType  string       `json:"zone_type"`
	Boundary  spatial.Ring `json:"boundary"`
	CreatedAt time.Time    `json:"created_at"`
}

// Hotspot is a point of interest with its own proximity threshold semantics.
type Hotspot struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Severity Severity  `json:"severity"`
	IsActive bool      `json:"is_active"`
}

// ClassificationKind distinguishes containment from nearness.
type ClassificationKind string

const (
	ClassificationBreach    ClassificationKind = "BREACH"
	ClassificationProximity ClassificationKind = "PROXIMITY"
)

// TargetKind names what a classification was evaluated against.
type TargetKind string

const (
	TargetZone    TargetKind = "ZONE"
	TargetHotspot TargetKind = "HOTSPOT"
)

// Classification is one breach or proximity result for a single position report.
type Classification struct {
	Kind           ClassificationKind `json:"kind"`
	TargetKind     TargetKind         `json:"target_kind"`
	TargetID       uuid.UUID          `json:"target_id"`
	TargetName     string             `json:"target_name"`
	ZoneType       string             `json:"zone_type,omitempty"`
	DistanceMeters float64            `json:"distance_m"`
	Severity       Severity           `json:"severity"`
}
