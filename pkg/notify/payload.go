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

package notify

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carverauto/skywatch/pkg/models"
)

var ErrMalformedPayload = errors.New("malformed alert payload")

// ParsePayload turns a channel payload into a client message. The payload must
// be a JSON object. A string "type" field selects the message type, otherwise
// NEW_DETECTION. A "data" field becomes the message data, otherwise the whole
// object does.
func ParsePayload(payload string) (models.ChannelMessage, error) {
	var fields map[string]json.RawMessage

	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return models.ChannelMessage{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if fields == nil {
		return models.ChannelMessage{}, fmt.Errorf("%w: not an object", ErrMalformedPayload)
	}

	msg := models.ChannelMessage{
		Type: models.MessageTypeNewDetection,
		Data: json.RawMessage(payload),
	}

	if raw, ok := fields["type"]; ok {
		var t string
		if err := json.Unmarshal(raw, &t); err != nil {
			return models.ChannelMessage{}, fmt.Errorf("%w: type is not a string", ErrMalformedPayload)
		}

		if t != "" {
			msg.Type = t
		}
	}

	if raw, ok := fields["data"]; ok && len(raw) > 0 && string(raw) != "null" {
		msg.Data = raw
	}

	return msg, nil
}
