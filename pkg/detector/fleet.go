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

package detector

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/carverauto/skywatch/pkg/models"
)

// criticalConfidence is the confidence above which a detection is escalated
// to a CRITICAL_DETECTION system event.
const criticalConfidence = 90

// MaxDetectedObjectLen caps the label so a detection alert always fits in a
// single NOTIFY payload.
const MaxDetectedObjectLen = 256

// LogDetection stores a model detection. Detections above 90% confidence are
// also escalated as a HIGH severity system event. The escalation is best
// effort: a failed event write is logged and the stored detection stands.
func (d *Detector) LogDetection(ctx context.Context, det *models.Detection) error {
	det.DetectedObject = strings.TrimSpace(det.DetectedObject)
	if det.DetectedObject == "" {
		return ErrDetectedObjectRequired
	}

	if utf8.RuneCountInString(det.DetectedObject) > MaxDetectedObjectLen {
		return ErrDetectedObjectTooLong
	}

	if det.Confidence < 0 || det.Confidence > 100 {
		return ErrInvalidConfidence
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.deps.Events.InsertDetection(ctx, det); err != nil {
		return fmt.Errorf("log detection: %w", err)
	}

	critical := det.Confidence > criticalConfidence
	d.metrics.DetectionLogged(ctx, critical)

	if !critical {
		return nil
	}

	metadata := map[string]interface{}{
		"object":       det.DetectedObject,
		"confidence":   det.Confidence,
		"detection_id": det.ID.String(),
	}

	if det.AssetID != nil {
		metadata["asset_id"] = det.AssetID.String()
	}

	event := models.SystemEvent{
		EventType: models.EventCriticalDetection,
		Severity:  models.SeverityHigh,
		Title:     fmt.Sprintf("Critical detection: %s (%d%%)", det.DetectedObject, det.Confidence),
		AssetID:   det.AssetID,
		Metadata:  metadata,
	}

	if err := d.deps.Events.InsertSystemEvent(ctx, &event); err != nil {
		d.logger.Error().Err(err).
			Str("detection_id", det.ID.String()).
			Msg("failed to escalate critical detection")
	}

	return nil
}

// RecallFleet returns every ACTIVE asset to base. The status changes and the
// FLEET_RECALL event commit together and each status change is audited.
func (d *Detector) RecallFleet(ctx context.Context, issuedBy string) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	recalled, err := d.deps.Assets.RecallActiveAssets(ctx, issuedBy)
	if err != nil {
		return nil, err
	}

	d.logger.Warn().
		Str("issued_by", issuedBy).
		Int("assets", len(recalled)).
		Msg("fleet recall issued")

	return recalled, nil
}
