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

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/carverauto/skywatch/pkg/logger"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

var ErrServiceRequired = errors.New("lifecycle: service is required")

// Service is a long-running component started and stopped by RunServer.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type ServerOptions struct {
	ServiceName string
	Service     Service
	// HealthAddr, when set, serves the gRPC health protocol on that address.
	HealthAddr      string
	ShutdownTimeout time.Duration
	Logger          logger.Logger
}

// NewHTTPServer returns an http.Server with the standard timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}
}

// RunServer starts the service, reports SERVING on the health endpoint and
// blocks until ctx is done or SIGINT/SIGTERM arrives, then stops everything.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	if opts.Service == nil {
		return ErrServiceRequired
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		grpcServer *grpc.Server
		healthSrv  *health.Server
	)

	if opts.HealthAddr != "" {
		lis, err := net.Listen("tcp", opts.HealthAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", opts.HealthAddr, err)
		}

		grpcServer = grpc.NewServer()
		healthSrv = health.NewServer()
		healthSrv.SetServingStatus(opts.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
		healthpb.RegisterHealthServer(grpcServer, healthSrv)

		go func() {
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				log.Error().Err(err).Msg("health server stopped")
			}
		}()

		log.Info().Str("addr", opts.HealthAddr).Msg("gRPC health endpoint listening")
	}

	if err := opts.Service.Start(ctx); err != nil {
		if grpcServer != nil {
			grpcServer.Stop()
		}

		return fmt.Errorf("failed to start %s: %w", opts.ServiceName, err)
	}

	if healthSrv != nil {
		healthSrv.SetServingStatus(opts.ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}

	log.Info().Str("service", opts.ServiceName).Msg("service started")

	<-ctx.Done()

	log.Info().Str("service", opts.ServiceName).Msg("shutting down")

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if healthSrv != nil {
		healthSrv.Shutdown()
	}

	err := opts.Service.Stop(shutdownCtx)

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	return err
}
