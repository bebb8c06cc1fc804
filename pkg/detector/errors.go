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
	"errors"
	"fmt"

	"github.com/carverauto/skywatch/pkg/models"
)

var (
	// Re-exported so callers can check input errors without importing models.
	ErrAssetIDRequired    = models.ErrAssetIDRequired
	ErrInvalidCoordinates = models.ErrInvalidCoordinates

	ErrUnknownAsset           = errors.New("unknown asset")
	ErrInvalidConfidence      = errors.New("confidence must be between 0 and 100")
	ErrDetectedObjectRequired = errors.New("detected object label is required")
	ErrDetectedObjectTooLong  = fmt.Errorf("detected object label exceeds %d characters", MaxDetectedObjectLen)
	ErrMissingDependency      = errors.New("detector dependency is nil")
)
