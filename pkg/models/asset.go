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

// Package models holds the skywatch domain types and service configuration.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus is the operational state of a tracked asset.
type AssetStatus string

const (
	AssetStatusIdle      AssetStatus = "IDLE"
	AssetStatusActive    AssetStatus = "ACTIVE"
	AssetStatusCharging  AssetStatus = "CHARGING"
	AssetStatusError     AssetStatus = "ERROR"
	AssetStatusOffline   AssetStatus = "OFFLINE"
	AssetStatusReturning AssetStatus = "RETURNING"
)

// Valid reports whether s is a known status.
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusIdle, AssetStatusActive, AssetStatusCharging,
		AssetStatusError, AssetStatusOffline, AssetStatusReturning:
		return true
	}

	return false
}

// Asset is a tracked moving platform. Assets are never hard-deleted in normal operation.
type Asset struct {
	ID           uuid.UUID   `json:"id"`
	CodeName     string      `json:"code_name"`
	Category     string      `json:"category"`
	Status       AssetStatus `json:"status"`
	BatteryLevel int         `json:"battery_level"`
	LastLat      *float64    `json:"last_lat,omitempty"`
	LastLng      *float64    `json:"last_lng,omitempty"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// PathPoint is one breadcrumb in an asset's movement trail.
type PathPoint struct {
	ID         int64     `json:"id"`
	AssetID    uuid.UUID `json:"asset_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	CapturedAt time.Time `json:"captured_at"`
}
