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

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/carverauto/skywatch/pkg/logger"
)

const (
	DefaultProximityThresholdMeters = 500.0
	DefaultEvalTimeout              = 5 * time.Second
	DefaultInitialBackoff           = 500 * time.Millisecond
	DefaultMaxBackoff               = 30 * time.Second
	DefaultClientBuffer             = 64
	DefaultWebSocketPath            = "/ws"

	DistanceModeExact  = "exact"
	DistanceModeVertex = "vertex"
)

type Duration time.Duration

// MarshalJSON renders the duration as a Go duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts "30s" style strings or numeric nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// TLSConfig points at PEM files, resolved against CertDir when relative.
type TLSConfig struct {
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
	CAFile   string `json:"ca_file"`
}

// DatabaseConfig describes the PostgreSQL connection. URL wins over the discrete fields.
type DatabaseConfig struct {
	URL                string            `json:"url,omitempty" sensitive:"true"`
	Host               string            `json:"host,omitempty"`
	Port               int               `json:"port,omitempty"`
	Database           string            `json:"database,omitempty"`
	Username           string            `json:"username,omitempty"`
	Password           string            `json:"password,omitempty" sensitive:"true"`
	SSLMode            string            `json:"ssl_mode,omitempty"`
	ApplicationName    string            `json:"application_name,omitempty"`
	CertDir            string            `json:"cert_dir,omitempty"`
	TLS                *TLSConfig        `json:"tls,omitempty"`
	MaxConnections     int32             `json:"max_connections,omitempty"`
	MinConnections     int32             `json:"min_connections,omitempty"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime,omitempty"`
	HealthCheckPeriod  Duration          `json:"health_check_period,omitempty"`
	StatementTimeout   Duration          `json:"statement_timeout,omitempty"`
	ExtraRuntimeParams map[string]string `json:"extra_runtime_params,omitempty"`
	// NativeRoles switches threat reads to SET LOCAL ROLE so row security
	// policies installed by the migrations apply in addition to the predicate.
	NativeRoles bool `json:"native_roles,omitempty"`
	// AutoMigrate applies embedded migrations on startup.
	AutoMigrate bool `json:"auto_migrate,omitempty"`
}

type DetectorConfig struct {
	ProximityThresholdMeters float64  `json:"proximity_threshold_m,omitempty"`
	DistanceMode             string   `json:"distance_mode,omitempty"`
	EvalTimeout              Duration `json:"eval_timeout,omitempty"`
	ZoneCacheTTL             Duration `json:"zone_cache_ttl,omitempty"`
}

type NotifyConfig struct {
	Channel        string   `json:"channel,omitempty"`
	InitialBackoff Duration `json:"initial_backoff,omitempty"`
	MaxBackoff     Duration `json:"max_backoff,omitempty"`
}

type GatewayConfig struct {
	Path         string   `json:"path,omitempty"`
	ClientBuffer int      `json:"client_buffer,omitempty"`
	WriteTimeout Duration `json:"write_timeout,omitempty"`
	PingInterval Duration `json:"ping_interval,omitempty"`
}

type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// NATSConfig enables the JetStream alert relay when URL is set.
type NATSConfig struct {
	URL           string `json:"url"`
	Stream        string `json:"stream,omitempty"`
	SubjectPrefix string `json:"subject_prefix,omitempty"`
	QueueSize     int    `json:"queue_size,omitempty"`
}

// MQTTConfig enables telemetry ingestion when Broker is set.
type MQTTConfig struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id,omitempty"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty" sensitive:"true"`

	// RetryInterval spaces connection attempts while the broker is
	// unreachable, including before the first successful connect.
	RetryInterval Duration `json:"retry_interval,omitempty"`
}

type MetricsConfig struct {
	Enabled        bool              `json:"enabled"`
	Endpoint       string            `json:"endpoint,omitempty"`
	Insecure       bool              `json:"insecure,omitempty"`
	Headers        map[string]string `json:"headers,omitempty" sensitive:"true"`
	ExportInterval Duration          `json:"export_interval,omitempty"`
}

// AuthConfig binds API keys to roles. Empty means roles are caller-supplied.
type AuthConfig struct {
	APIKeys map[string]Role `json:"api_keys,omitempty" sensitive:"true"`
}

// SentinelConfig is the top-level configuration of the sentinel service.
type SentinelConfig struct {
	ListenAddr string         `json:"listen_addr"`
	GrpcAddr   string         `json:"grpc_addr,omitempty"`
	Database   DatabaseConfig `json:"database"`
	Detector   DetectorConfig `json:"detector"`
	Notify     NotifyConfig   `json:"notify"`
	Gateway    GatewayConfig  `json:"gateway"`
	CORS       CORSConfig     `json:"cors,omitempty"`
	NATS       *NATSConfig    `json:"nats,omitempty"`
	MQTT       *MQTTConfig    `json:"mqtt,omitempty"`
	Metrics    MetricsConfig  `json:"metrics,omitempty"`
	Auth       AuthConfig     `json:"auth,omitempty"`
	Logging    *logger.Config `json:"logging,omitempty"`
}

// Validate fills defaults and rejects inconsistent settings.
func (c *SentinelConfig) Validate() error {
	if c.ListenAddr == "" {
		return ErrListenAddrRequired
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return ErrDatabaseRequired
	}

	if err := c.Detector.Validate(); err != nil {
		return err
	}

	if err := c.Notify.Validate(); err != nil {
		return err
	}

	c.Gateway.applyDefaults()

	if c.MQTT != nil && c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return ErrMQTTTopicRequired
	}

	if c.Metrics.Enabled && c.Metrics.Endpoint == "" {
		return ErrMetricsEndpointUnset
	}

	for key, role := range c.Auth.APIKeys {
		if role != RoleAnalyst && role != RoleCommander {
			return fmt.Errorf("%w: key %q -> %q", ErrInvalidAPIKeyRole, maskKey(key), role)
		}
	}

	return nil
}

func (c *DetectorConfig) Validate() error {
	if c.ProximityThresholdMeters == 0 {
		c.ProximityThresholdMeters = DefaultProximityThresholdMeters
	}

	if c.ProximityThresholdMeters < 0 {
		return ErrInvalidThreshold
	}

	switch c.DistanceMode {
	case "":
		c.DistanceMode = DistanceModeExact
	case DistanceModeExact, DistanceModeVertex:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDistanceMode, c.DistanceMode)
	}

	if c.EvalTimeout <= 0 {
		c.EvalTimeout = Duration(DefaultEvalTimeout)
	}

	return nil
}

func (c *NotifyConfig) Validate() error {
	if c.Channel == "" {
		c.Channel = HighThreatChannel
	}

	if c.InitialBackoff <= 0 {
		c.InitialBackoff = Duration(DefaultInitialBackoff)
	}

	if c.MaxBackoff <= 0 {
		c.MaxBackoff = Duration(DefaultMaxBackoff)
	}

	if c.MaxBackoff < c.InitialBackoff {
		return ErrInvalidBackoff
	}

	return nil
}

func (c *GatewayConfig) applyDefaults() {
	if c.Path == "" {
		c.Path = DefaultWebSocketPath
	}

	if c.ClientBuffer <= 0 {
		c.ClientBuffer = DefaultClientBuffer
	}

	if c.WriteTimeout <= 0 {
		c.WriteTimeout = Duration(10 * time.Second)
	}

	if c.PingInterval <= 0 {
		c.PingInterval = Duration(30 * time.Second)
	}
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}

	return key[:4] + "****"
}
