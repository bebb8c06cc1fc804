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

import "errors"

var (
	errInvalidDuration = errors.New("invalid duration")

	ErrInvalidThreatLevel = errors.New("invalid threat level")
	ErrAssetNotFound      = errors.New("asset not found")

	ErrAssetIDRequired    = errors.New("asset id is required")
	ErrInvalidCoordinates = errors.New("latitude must be within [-90,90] and longitude within [-180,180]")

	// Configuration validation.

	ErrListenAddrRequired   = errors.New("listen_addr is required")
	ErrDatabaseRequired     = errors.New("database url or host is required")
	ErrInvalidThreshold     = errors.New("proximity threshold must be positive")
	ErrInvalidDistanceMode  = errors.New("distance mode must be exact or vertex")
	ErrInvalidBackoff       = errors.New("max backoff must be >= initial backoff")
	ErrInvalidAPIKeyRole    = errors.New("api key bound to unknown role")
	ErrMQTTTopicRequired    = errors.New("mqtt topic is required when a broker is configured")
	ErrMetricsEndpointUnset = errors.New("metrics endpoint is required when metrics are enabled")
)
