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

package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carverauto/skywatch/pkg/models"
)

const (
	KindPosition  = "position"
	KindDetection = "detection"
)

var (
	ErrInvalidMessage = errors.New("invalid telemetry message")
	ErrUnknownKind    = errors.New("unknown telemetry kind")
	ErrMissingAssetID = errors.New("telemetry message has no asset id")
	ErrMissingCoords  = errors.New("position message requires lat and lng")
)

// Message is one telemetry report. Kind and AssetID may instead come from the
// topic, e.g. skywatch/assets/<uuid>/position.
type Message struct {
	Kind           string              `json:"kind,omitempty"`
	AssetID        string              `json:"asset_id,omitempty"`
	Lat            *float64            `json:"lat,omitempty"`
	Lng            *float64            `json:"lng,omitempty"`
	DetectedObject string              `json:"detected_object,omitempty"`
	Confidence     int                 `json:"confidence,omitempty"`
	BoundingBox    *models.BoundingBox `json:"bounding_box,omitempty"`
}

// Report is a decoded, routed telemetry message.
type Report struct {
	Kind    string
	AssetID uuid.UUID
	Lat     float64
	Lng     float64

	Detection *models.Detection
}

// ParseMessage decodes payload and resolves its kind and asset from the
// payload first, then from the topic.
func ParseMessage(topic string, payload []byte) (Report, error) {
	var msg Message

	if err := json.Unmarshal(payload, &msg); err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	segments := strings.Split(strings.Trim(topic, "/"), "/")

	kind := strings.ToLower(strings.TrimSpace(msg.Kind))
	if kind == "" && len(segments) > 0 {
		kind = strings.ToLower(segments[len(segments)-1])
	}

	if kind != KindPosition && kind != KindDetection {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	assetID, err := resolveAssetID(msg.AssetID, segments)
	if err != nil {
		return Report{}, err
	}

	r := Report{Kind: kind, AssetID: assetID}

	switch kind {
	case KindPosition:
		if msg.Lat == nil || msg.Lng == nil {
			return Report{}, ErrMissingCoords
		}

		r.Lat, r.Lng = *msg.Lat, *msg.Lng
	default:
		r.Detection = &models.Detection{
			AssetID:        &assetID,
			DetectedObject: msg.DetectedObject,
			Confidence:     msg.Confidence,
			BoundingBox:    msg.BoundingBox,
		}
	}

	return r, nil
}

func resolveAssetID(raw string, segments []string) (uuid.UUID, error) {
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: asset_id: %w", ErrInvalidMessage, err)
		}

		return id, nil
	}

	for i := len(segments) - 1; i >= 0; i-- {
		if id, err := uuid.Parse(segments[i]); err == nil {
			return id, nil
		}
	}

	return uuid.Nil, ErrMissingAssetID
}
