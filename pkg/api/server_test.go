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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/skywatch/pkg/audit"
	"github.com/carverauto/skywatch/pkg/db"
	"github.com/carverauto/skywatch/pkg/detector"
	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/tracker"
)

type fixture struct {
	detector *MockDetector
	paths    *MockPathReader
	store    *MockStore
	server   *APIServer
}

func newFixture(t *testing.T, opts ...func(*APIServer)) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		detector: NewMockDetector(ctrl),
		paths:    NewMockPathReader(ctrl),
		store:    NewMockStore(ctrl),
	}

	base := []func(*APIServer){
		WithDetector(f.detector),
		WithPathReader(f.paths),
		WithStore(f.store),
	}

	f.server = NewAPIServer(models.CORSConfig{AllowedOrigins: []string{"http://console.local"}}, append(base, opts...)...)

	return f
}

func (f *fixture) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	return resp
}

func TestRecordPosition(t *testing.T) {
	t.Parallel()

	assetID := uuid.New()
	hotspotID := uuid.New()

	tests := []struct {
		name       string
		path       string
		body       string
		setup      func(f *fixture)
		wantStatus int
		wantCount  int
	}{
		{
			name: "classifications returned",
			path: "/api/assets/" + assetID.String() + "/positions",
			body: `{"lat":20.55,"lng":78.95}`,
			setup: func(f *fixture) {
				f.detector.EXPECT().RecordPosition(gomock.Any(), assetID, 20.55, 78.95).Return([]models.Classification{{
					Kind:       models.ClassificationProximity,
					TargetKind: models.TargetHotspot,
					TargetID:   hotspotID,
					Severity:   models.SeverityMedium,
				}}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name: "no classifications encodes empty list",
			path: "/api/assets/" + assetID.String() + "/positions",
			body: `{"lat":0,"lng":0}`,
			setup: func(f *fixture) {
				f.detector.EXPECT().RecordPosition(gomock.Any(), assetID, 0.0, 0.0).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad asset id",
			path:       "/api/assets/not-a-uuid/positions",
			body:       `{"lat":1,"lng":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing coordinates",
			path:       "/api/assets/" + assetID.String() + "/positions",
			body:       `{"lat":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid coordinates",
			path: "/api/assets/" + assetID.String() + "/positions",
			body: `{"lat":91,"lng":1}`,
			setup: func(f *fixture) {
				f.detector.EXPECT().RecordPosition(gomock.Any(), assetID, 91.0, 1.0).
					Return(nil, detector.ErrInvalidCoordinates)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown asset",
			path: "/api/assets/" + assetID.String() + "/positions",
			body: `{"lat":1,"lng":1}`,
			setup: func(f *fixture) {
				f.detector.EXPECT().RecordPosition(gomock.Any(), assetID, 1.0, 1.0).
					Return(nil, detector.ErrUnknownAsset)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "store failure",
			path: "/api/assets/" + assetID.String() + "/positions",
			body: `{"lat":1,"lng":1}`,
			setup: func(f *fixture) {
				f.detector.EXPECT().RecordPosition(gomock.Any(), assetID, 1.0, 1.0).
					Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			rec := f.do(http.MethodPost, tt.path, tt.body, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantStatus, decodeError(t, rec).Status)
				return
			}

			var resp struct {
				AssetID         uuid.UUID                `json:"asset_id"`
				Classifications *[]models.Classification `json:"classifications"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.NotNil(t, resp.Classifications)
			assert.Len(t, *resp.Classifications, tt.wantCount)
			assert.Equal(t, assetID, resp.AssetID)
		})
	}
}

func TestRecordPositionBindsActor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	assetID := uuid.New()
	actor := uuid.New()

	f.detector.EXPECT().RecordPosition(gomock.Any(), assetID, 1.0, 2.0).DoAndReturn(
		func(ctx context.Context, _ uuid.UUID, _, _ float64) ([]models.Classification, error) {
			got, ok := audit.ActorFrom(ctx)
			assert.True(t, ok)
			assert.Equal(t, actor, got)

			return nil, nil
		})

	rec := f.do(http.MethodPost, "/api/assets/"+assetID.String()+"/positions", `{"lat":1,"lng":2}`,
		map[string]string{headerActor: actor.String()})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/api/assets/"+assetID.String()+"/positions", `{"lat":1,"lng":2}`,
		map[string]string{headerActor: "someone"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPath(t *testing.T) {
	t.Parallel()

	assetID := uuid.New()
	since := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("window forwarded", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.paths.EXPECT().GetPath(gomock.Any(), assetID, tracker.Window{Since: since, Limit: 50}).
			Return([]models.PathPoint{{AssetID: assetID, Lat: 1, Lng: 2}}, nil)

		rec := f.do(http.MethodGet, "/api/assets/"+assetID.String()+"/path?since=2025-03-01T12:00:00Z&limit=50", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var points []models.PathPoint
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&points))
		assert.Len(t, points, 1)
	})

	t.Run("empty path is a list", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.paths.EXPECT().GetPath(gomock.Any(), assetID, tracker.Window{}).Return(nil, nil)

		rec := f.do(http.MethodGet, "/api/assets/"+assetID.String()+"/path", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	for _, query := range []string{"?since=yesterday", "?limit=-1", "?limit=ten"} {
		t.Run("rejects "+query, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			rec := f.do(http.MethodGet, "/api/assets/"+assetID.String()+"/path"+query, "", nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogDetection(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.detector.EXPECT().LogDetection(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, det *models.Detection) error {
				assert.Equal(t, "vehicle", det.DetectedObject)
				assert.Equal(t, 91, det.Confidence)
				det.ID = uuid.New()

				return nil
			})

		rec := f.do(http.MethodPost, "/api/detections", `{"detected_object":"vehicle","confidence":91}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var det models.Detection
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&det))
		assert.NotEqual(t, uuid.Nil, det.ID)
	})

	t.Run("validation error", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.detector.EXPECT().LogDetection(gomock.Any(), gomock.Any()).Return(detector.ErrInvalidConfidence)

		rec := f.do(http.MethodPost, "/api/detections", `{"detected_object":"vehicle","confidence":140}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized label", func(t *testing.T) {
		t.Parallel()

		label := strings.Repeat("x", 9000)

		f := newFixture(t)
		f.detector.EXPECT().LogDetection(gomock.Any(), gomock.Any()).Return(detector.ErrDetectedObjectTooLong)

		rec := f.do(http.MethodPost, "/api/detections", `{"detected_object":"`+label+`","confidence":95}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "exceeds")
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(http.MethodPost, "/api/detections", `{"object":"vehicle"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRecallFleet(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	recalled := []uuid.UUID{uuid.New(), uuid.New()}

	f := newFixture(t)
	f.detector.EXPECT().RecallFleet(gomock.Any(), actor.String()).Return(recalled, nil)
	f.detector.EXPECT().RecallFleet(gomock.Any(), "ops").Return(nil, nil)

	rec := f.do(http.MethodPost, "/api/fleet/recall", "", map[string]string{headerActor: actor.String()})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recallResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, recalled, resp.Recalled)

	rec = f.do(http.MethodPost, "/api/fleet/recall", `{"issued_by":"ops"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"recalled":[]}`, rec.Body.String())
}

func TestListThreatsRoleResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   string
		headers  map[string]string
		opts     []func(*APIServer)
		wantRole models.Role
	}{
		{
			name:     "header role",
			target:   "/api/threats",
			headers:  map[string]string{headerRole: " Commander "},
			wantRole: models.RoleCommander,
		},
		{
			name:     "query role",
			target:   "/api/threats?role=analyst",
			wantRole: models.RoleAnalyst,
		},
		{
			name:     "no role",
			target:   "/api/threats",
			wantRole: "",
		},
		{
			name:     "api key wins over declared role",
			target:   "/api/threats",
			headers:  map[string]string{headerAPIKey: "k-1", headerRole: "commander"},
			opts:     []func(*APIServer){WithAPIKeys(map[string]models.Role{"k-1": models.RoleAnalyst})},
			wantRole: models.RoleAnalyst,
		},
		{
			name:     "unknown api key",
			target:   "/api/threats",
			headers:  map[string]string{headerAPIKey: "nope"},
			opts:     []func(*APIServer){WithAPIKeys(map[string]models.Role{"k-1": models.RoleCommander})},
			wantRole: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, tt.opts...)
			f.store.EXPECT().ListThreats(gomock.Any(), tt.wantRole).Return(nil, nil)

			rec := f.do(http.MethodGet, tt.target, "", tt.headers)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `[]`, rec.Body.String())
		})
	}
}

func TestCreateThreat(t *testing.T) {
	t.Parallel()

	t.Run("created with provenance", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		want := models.ThreatAssessment{
			ID:            uuid.New(),
			ThreatLevel:   models.ThreatCritical,
			Decision:      "intercept",
			CreatedByRole: models.RoleAnalyst,
		}

		// analysts may write CRITICAL even though they cannot read it back
		f.store.EXPECT().CreateThreat(gomock.Any(), models.ThreatCritical, "intercept", models.RoleAnalyst).
			Return(want, nil)

		rec := f.do(http.MethodPost, "/api/threats", `{"threat_level":"critical","decision":"intercept"}`,
			map[string]string{headerRole: "analyst"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var got models.ThreatAssessment
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, want.ID, got.ID)
	})

	t.Run("bad level", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(http.MethodPost, "/api/threats", `{"threat_level":"SEVERE","decision":"x"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing decision", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.store.EXPECT().CreateThreat(gomock.Any(), models.ThreatLow, "", models.Role("")).
			Return(models.ThreatAssessment{}, db.ErrDecisionRequired)

		rec := f.do(http.MethodPost, "/api/threats", `{"threat_level":"LOW","decision":""}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListAudit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	entries := []models.AuditLogEntry{
		{ID: 2, TableName: "threat_assessments", Action: models.AuditInsert},
		{ID: 1, TableName: "threat_assessments", Action: models.AuditInsert},
	}

	f.store.EXPECT().ListAuditLog(gomock.Any(), 10).Return(entries, nil)
	f.store.EXPECT().ListAuditLog(gomock.Any(), 0).Return(nil, errors.New("timeout"))

	rec := f.do(http.MethodGet, "/api/audit?limit=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.AuditLogEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)

	rec = f.do(http.MethodGet, "/api/audit", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec).Message)
}

func TestMapAndStatsEndpoints(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.EXPECT().ListZones(gomock.Any(), "RESTRICTED").Return([]models.Zone{{Name: "Sector 44"}}, nil)
	f.store.EXPECT().ListActiveHotspots(gomock.Any()).Return(nil, nil)
	f.store.EXPECT().DashboardStats(gomock.Any()).Return(models.DashboardStats{ActiveAssets: 3}, nil)

	rec := f.do(http.MethodGet, "/api/zones?type=RESTRICTED", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sector 44")

	rec = f.do(http.MethodGet, "/api/hotspots", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.DashboardStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, int64(3), stats.ActiveAssets)
}

func TestHealthAndOptionalRoutes(t *testing.T) {
	t.Parallel()

	ws := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	s := NewAPIServer(models.CORSConfig{},
		WithHealth(func() map[string]interface{} {
			return map[string]interface{}{"listener": "connected", "clients": 2}
		}),
		WithWebSocket("/ws", ws),
	)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","listener":"connected","clients":2}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", http.NoBody))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	// no store configured
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/threats", http.NoBody))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreflightAllowedOrigin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := f.do(http.MethodOptions, "/api/threats", "", map[string]string{
		"Origin":                        "http://console.local",
		"Access-Control-Request-Method": http.MethodPost,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://console.local", rec.Header().Get("Access-Control-Allow-Origin"))
}
