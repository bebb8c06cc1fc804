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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/skywatch/pkg/models"
)

func TestParsePayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		payload  string
		wantType string
		wantData string
		wantErr  bool
	}{
		{
			name:     "flat detection defaults to new detection",
			payload:  `{"id":"a","detected_object":"drone","confidence":88,"location":{"lat":20.5,"lng":78.9}}`,
			wantType: models.MessageTypeNewDetection,
			wantData: `{"id":"a","detected_object":"drone","confidence":88,"location":{"lat":20.5,"lng":78.9}}`,
		},
		{
			name:     "typed envelope unwraps data",
			payload:  `{"type":"SYSTEM_EVENT","data":{"severity":"CRITICAL"}}`,
			wantType: models.MessageTypeSystemEvent,
			wantData: `{"severity":"CRITICAL"}`,
		},
		{
			name:     "empty type falls back",
			payload:  `{"type":"","confidence":81}`,
			wantType: models.MessageTypeNewDetection,
			wantData: `{"type":"","confidence":81}`,
		},
		{
			name:     "null data keeps whole object",
			payload:  `{"type":"SYSTEM_EVENT","data":null}`,
			wantType: models.MessageTypeSystemEvent,
			wantData: `{"type":"SYSTEM_EVENT","data":null}`,
		},
		{name: "not json", payload: `high confidence`, wantErr: true},
		{name: "array", payload: `[{"type":"SYSTEM_EVENT"}]`, wantErr: true},
		{name: "null", payload: `null`, wantErr: true},
		{name: "numeric type", payload: `{"type":7}`, wantErr: true},
		{name: "empty", payload: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := ParsePayload(tt.payload)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedPayload)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, msg.Type)
			assert.JSONEq(t, tt.wantData, string(msg.Data))
		})
	}
}
