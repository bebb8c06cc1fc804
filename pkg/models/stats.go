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

// DashboardStats are rolling 24 hour operational counters.
type DashboardStats struct {
	ActiveAssets       int64 `json:"active_assets"`
	TotalAssets        int64 `json:"total_assets"`
	RestrictedZones    int64 `json:"restricted_zones"`
	Detections24h      int64 `json:"detections_24h"`
	HighConfidence24h  int64 `json:"high_confidence_24h"`
	Breaches24h        int64 `json:"breaches_24h"`
	ProximityAlerts24h int64 `json:"proximity_alerts_24h"`
}
