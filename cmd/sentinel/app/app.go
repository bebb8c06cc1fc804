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

package app

import (
	"context"
	"errors"

	"github.com/carverauto/skywatch/pkg/config"
	"github.com/carverauto/skywatch/pkg/lifecycle"
	"github.com/carverauto/skywatch/pkg/metrics"
	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/sentinel"
	"github.com/carverauto/skywatch/pkg/version"
)

const serviceName = "skywatch-sentinel"

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
}

// Run boots the sentinel service using the provided options.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var cfg models.SentinelConfig

	if err := config.NewConfig(nil).LoadAndValidate(ctx, opts.ConfigPath, &cfg); err != nil {
		return err
	}

	mainLogger, err := lifecycle.CreateComponentLogger("sentinel-main", cfg.Logging)
	if err != nil {
		return err
	}

	mainLogger.Info().Str("version", version.String()).Msg("Starting sentinel")

	if sanitized, err := config.Sanitize(&cfg); err == nil {
		mainLogger.Debug().RawJSON("config", sanitized).Msg("Loaded configuration")
	}

	if _, err := metrics.Initialize(ctx, &cfg.Metrics, serviceName, version.Version()); err != nil &&
		!errors.Is(err, metrics.ErrMetricsDisabled) {
		return err
	}

	defer func() {
		if err := metrics.Shutdown(context.Background()); err != nil {
			mainLogger.Error().Err(err).Msg("Error shutting down metrics provider")
		}
	}()

	server, err := sentinel.NewServer(ctx, &cfg, mainLogger)
	if err != nil {
		return err
	}

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ServiceName: serviceName,
		Service:     server,
		HealthAddr:  cfg.GrpcAddr,
		Logger:      mainLogger,
	})
}
