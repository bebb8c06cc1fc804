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

// Package api exposes the detection pipeline, threat assessments and the
// audit ledger over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	srHttp "github.com/carverauto/skywatch/pkg/http"
	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/policy"
)

const (
	headerRole   = "X-Skywatch-Role"
	headerActor  = "X-Skywatch-Actor"
	headerAPIKey = "X-API-Key"
)

// HealthFunc reports component state for /healthz.
type HealthFunc func() map[string]interface{}

type APIServer struct {
	router     *mux.Router
	handler    http.Handler
	corsConfig models.CORSConfig
	apiKeys    map[string]models.Role

	detector Detector
	paths    PathReader
	store    Store

	wsPath    string
	wsHandler http.Handler
	health    HealthFunc

	logger logger.Logger
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// NewAPIServer builds the router. Handlers whose dependency was not supplied
// are not registered.
func NewAPIServer(config models.CORSConfig, options ...func(server *APIServer)) *APIServer {
	s := &APIServer{
		router:     mux.NewRouter(),
		corsConfig: config,
		logger:     logger.NewTestLogger(),
	}

	for _, o := range options {
		o(s)
	}

	s.setupRoutes()

	// wrapped outside the router so preflight requests reach the CORS layer
	// even for routes that only accept GET or POST
	s.handler = srHttp.CommonMiddleware(s.router, s.corsConfig, s.logger)

	return s
}

func WithDetector(d Detector) func(*APIServer) {
	return func(s *APIServer) {
		s.detector = d
	}
}

func WithPathReader(p PathReader) func(*APIServer) {
	return func(s *APIServer) {
		s.paths = p
	}
}

func WithStore(st Store) func(*APIServer) {
	return func(s *APIServer) {
		s.store = st
	}
}

// WithAPIKeys binds API keys to roles. Once set, the role always comes from
// the X-API-Key header and caller-declared roles are ignored.
func WithAPIKeys(keys map[string]models.Role) func(*APIServer) {
	return func(s *APIServer) {
		s.apiKeys = keys
	}
}

// WithWebSocket mounts the realtime feed handler at path.
func WithWebSocket(path string, h http.Handler) func(*APIServer) {
	return func(s *APIServer) {
		s.wsPath = path
		s.wsHandler = h
	}
}

func WithHealth(fn HealthFunc) func(*APIServer) {
	return func(s *APIServer) {
		s.health = fn
	}
}

func WithLogger(log logger.Logger) func(*APIServer) {
	return func(s *APIServer) {
		s.logger = log
	}
}

// Router returns the configured handler.
func (s *APIServer) Router() http.Handler {
	return s.handler
}

func (s *APIServer) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	if s.wsHandler != nil {
		s.router.Handle(s.wsPath, s.wsHandler).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/api").Subrouter()

	if s.detector != nil {
		api.HandleFunc("/assets/{id}/positions", s.handleRecordPosition).Methods(http.MethodPost)
		api.HandleFunc("/detections", s.handleLogDetection).Methods(http.MethodPost)
		api.HandleFunc("/fleet/recall", s.handleRecallFleet).Methods(http.MethodPost)
	}

	if s.paths != nil {
		api.HandleFunc("/assets/{id}/path", s.handleGetPath).Methods(http.MethodGet)
	}

	if s.store != nil {
		api.HandleFunc("/threats", s.handleListThreats).Methods(http.MethodGet)
		api.HandleFunc("/threats", s.handleCreateThreat).Methods(http.MethodPost)
		api.HandleFunc("/audit", s.handleListAudit).Methods(http.MethodGet)
		api.HandleFunc("/zones", s.handleListZones).Methods(http.MethodGet)
		api.HandleFunc("/hotspots", s.handleListHotspots).Methods(http.MethodGet)
		api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	}
}

// roleFor resolves the caller's role. Without configured keys the role is
// whatever the caller declares; nothing here authenticates it.
func (s *APIServer) roleFor(r *http.Request) models.Role {
	if len(s.apiKeys) > 0 {
		return s.apiKeys[r.Header.Get(headerAPIKey)]
	}

	raw := r.Header.Get(headerRole)
	if raw == "" {
		raw = r.URL.Query().Get("role")
	}

	return policy.NormalizeRole(raw)
}

func (s *APIServer) encodeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)

	errResponse := ErrorResponse{
		Message: message,
		Status:  statusCode,
	}

	if err := json.NewEncoder(w).Encode(errResponse); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
