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
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/carverauto/skywatch/pkg/audit"
	"github.com/carverauto/skywatch/pkg/db"
	"github.com/carverauto/skywatch/pkg/detector"
	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/tracker"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidActor = errors.New("X-Skywatch-Actor must be a UUID")
	errInvalidLimit = errors.New("limit must be a non-negative integer")
	errInvalidSince = errors.New("since must be an RFC3339 timestamp")
)

type positionRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type positionResponse struct {
	AssetID         uuid.UUID               `json:"asset_id"`
	Classifications []models.Classification `json:"classifications"`
}

type detectionRequest struct {
	AssetID        *uuid.UUID          `json:"asset_id,omitempty"`
	DetectedObject string              `json:"detected_object"`
	Confidence     int                 `json:"confidence"`
	BoundingBox    *models.BoundingBox `json:"bounding_box,omitempty"`
}

type recallRequest struct {
	IssuedBy string `json:"issued_by"`
}

type recallResponse struct {
	Recalled []uuid.UUID `json:"recalled"`
}

type threatRequest struct {
	ThreatLevel string `json:"threat_level"`
	Decision    string `json:"decision"`
}

func (s *APIServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]interface{}{"status": "ok"}

	if s.health != nil {
		for k, v := range s.health() {
			body[k] = v
		}
	}

	s.encodeJSONResponse(w, http.StatusOK, body)
}

func (s *APIServer) handleRecordPosition(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathAssetID(w, r)
	if !ok {
		return
	}

	var req positionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Lat == nil || req.Lng == nil {
		writeError(w, "lat and lng are required", http.StatusBadRequest)
		return
	}

	ctx, ok := withActor(w, r)
	if !ok {
		return
	}

	results, err := s.detector.RecordPosition(ctx, assetID, *req.Lat, *req.Lng)

	switch {
	case errors.Is(err, detector.ErrAssetIDRequired), errors.Is(err, detector.ErrInvalidCoordinates):
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, detector.ErrUnknownAsset):
		writeError(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		s.internalError(w, "record position", err)
		return
	}

	if results == nil {
		results = []models.Classification{}
	}

	s.encodeJSONResponse(w, http.StatusOK, positionResponse{AssetID: assetID, Classifications: results})
}

func (s *APIServer) handleGetPath(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathAssetID(w, r)
	if !ok {
		return
	}

	var window tracker.Window

	q := r.URL.Query()

	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, errInvalidSince.Error(), http.StatusBadRequest)
			return
		}

		window.Since = since
	}

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	window.Limit = limit

	points, err := s.paths.GetPath(r.Context(), assetID, window)
	if err != nil {
		if errors.Is(err, models.ErrAssetIDRequired) {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.internalError(w, "get path", err)

		return
	}

	if points == nil {
		points = []models.PathPoint{}
	}

	s.encodeJSONResponse(w, http.StatusOK, points)
}

func (s *APIServer) handleLogDetection(w http.ResponseWriter, r *http.Request) {
	var req detectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	det := &models.Detection{
		AssetID:        req.AssetID,
		DetectedObject: req.DetectedObject,
		Confidence:     req.Confidence,
		BoundingBox:    req.BoundingBox,
	}

	err := s.detector.LogDetection(r.Context(), det)

	switch {
	case errors.Is(err, detector.ErrDetectedObjectRequired),
		errors.Is(err, detector.ErrDetectedObjectTooLong),
		errors.Is(err, detector.ErrInvalidConfidence):
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.internalError(w, "log detection", err)
		return
	}

	s.encodeJSONResponse(w, http.StatusCreated, det)
}

func (s *APIServer) handleRecallFleet(w http.ResponseWriter, r *http.Request) {
	var req recallRequest

	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	ctx, ok := withActor(w, r)
	if !ok {
		return
	}

	if req.IssuedBy == "" {
		if actor, found := audit.ActorFrom(ctx); found {
			req.IssuedBy = actor.String()
		}
	}

	ids, err := s.detector.RecallFleet(ctx, req.IssuedBy)
	if err != nil {
		s.internalError(w, "recall fleet", err)
		return
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}

	s.encodeJSONResponse(w, http.StatusOK, recallResponse{Recalled: ids})
}

// handleListThreats never fails on role: unknown roles get an empty list.
func (s *APIServer) handleListThreats(w http.ResponseWriter, r *http.Request) {
	threats, err := s.store.ListThreats(r.Context(), s.roleFor(r))
	if err != nil {
		s.internalError(w, "list threats", err)
		return
	}

	if threats == nil {
		threats = []models.ThreatAssessment{}
	}

	s.encodeJSONResponse(w, http.StatusOK, threats)
}

// handleCreateThreat records the caller's role as provenance. It does not
// restrict who may write.
func (s *APIServer) handleCreateThreat(w http.ResponseWriter, r *http.Request) {
	var req threatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	level, err := models.ParseThreatLevel(req.ThreatLevel)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, ok := withActor(w, r)
	if !ok {
		return
	}

	created, err := s.store.CreateThreat(ctx, level, req.Decision, s.roleFor(r))

	switch {
	case errors.Is(err, db.ErrDecisionRequired):
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.internalError(w, "create threat", err)
		return
	}

	s.encodeJSONResponse(w, http.StatusCreated, created)
}

func (s *APIServer) handleListAudit(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := s.store.ListAuditLog(r.Context(), limit)
	if err != nil {
		s.internalError(w, "list audit log", err)
		return
	}

	if entries == nil {
		entries = []models.AuditLogEntry{}
	}

	s.encodeJSONResponse(w, http.StatusOK, entries)
}

func (s *APIServer) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := s.store.ListZones(r.Context(), r.URL.Query()["type"]...)
	if err != nil {
		s.internalError(w, "list zones", err)
		return
	}

	if zones == nil {
		zones = []models.Zone{}
	}

	s.encodeJSONResponse(w, http.StatusOK, zones)
}

func (s *APIServer) handleListHotspots(w http.ResponseWriter, r *http.Request) {
	hotspots, err := s.store.ListActiveHotspots(r.Context())
	if err != nil {
		s.internalError(w, "list hotspots", err)
		return
	}

	if hotspots == nil {
		hotspots = []models.Hotspot{}
	}

	s.encodeJSONResponse(w, http.StatusOK, hotspots)
}

func (s *APIServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.DashboardStats(r.Context())
	if err != nil {
		s.internalError(w, "dashboard stats", err)
		return
	}

	s.encodeJSONResponse(w, http.StatusOK, stats)
}

func (s *APIServer) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error().Err(err).Str("op", op).Msg("request failed")
	writeError(w, "Internal server error", http.StatusInternalServerError)
}

func pathAssetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "asset id must be a UUID", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

// withActor attaches the X-Skywatch-Actor identity, if present, for the audit
// trigger.
func withActor(w http.ResponseWriter, r *http.Request) (context.Context, bool) {
	raw := r.Header.Get(headerActor)
	if raw == "" {
		return r.Context(), true
	}

	actor, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, errInvalidActor.Error(), http.StatusBadRequest)
		return nil, false
	}

	return audit.WithActor(r.Context(), actor), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return false
	}

	return true
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errInvalidLimit
	}

	return n, nil
}
