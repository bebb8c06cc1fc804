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
	"time"

	"github.com/google/uuid"
)

// Severity tiers shared by system events and hotspots.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// System event types written by the detector and the fleet operations.
const (
	EventZoneBreach        = "ZONE_BREACH"
	EventProximityAlert    = "PROXIMITY_ALERT"
	EventCriticalDetection = "CRITICAL_DETECTION"
	EventFleetRecall       = "FLEET_RECALL"
)

// Channel message types delivered to realtime clients.
const (
	MessageTypeConnected    = "CONNECTED"
	MessageTypeNewDetection = "NEW_DETECTION"
	MessageTypeSystemEvent  = "SYSTEM_EVENT"
)

// HighThreatChannel is the notification channel the datastore triggers publish on.
const HighThreatChannel = "high_threat_alert"

// BoundingBox locates a detected object within the source frame.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Detection is an AI-model observation reported by an asset. Append-only.
type Detection struct {
	ID             uuid.UUID    `json:"id"`
	AssetID        *uuid.UUID   `json:"asset_id,omitempty"`
	DetectedObject string       `json:"detected_object"`
	Confidence     int          `json:"confidence"`
	BoundingBox    *BoundingBox `json:"bounding_box,omitempty"`
	DetectedAt     time.Time    `json:"detected_at"`
}

// SystemEvent is an append-only operational event such as a zone breach.
type SystemEvent struct {
	ID        uuid.UUID              `json:"id"`
	EventType string                 `json:"event_type"`
	Severity  Severity               `json:"severity"`
	Title     string                 `json:"title"`
	AssetID   *uuid.UUID             `json:"asset_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// ChannelMessage is the envelope every realtime client receives.
type ChannelMessage struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}
