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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/skywatch/pkg/logger"
)

type fakeService struct {
	started  chan struct{}
	stopped  bool
	startErr error
}

func (f *fakeService) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}

	close(f.started)

	return nil
}

func (f *fakeService) Stop(ctx context.Context) error {
	f.stopped = true

	if _, ok := ctx.Deadline(); !ok {
		return errors.New("stop called without a deadline")
	}

	return nil
}

func TestRunServerStopsOnCancel(t *testing.T) {
	t.Parallel()

	svc := &fakeService{started: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- RunServer(ctx, &ServerOptions{
			ServiceName: "sentinel",
			Service:     svc,
			HealthAddr:  "127.0.0.1:0",
			Logger:      logger.NewTestLogger(),
		})
	}()

	select {
	case <-svc.started:
	case <-time.After(2 * time.Second):
		t.Fatal("service never started")
	}

	cancel()

	require.NoError(t, <-done)
	assert.True(t, svc.stopped)
}

func TestRunServerStartFailure(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	err := RunServer(context.Background(), &ServerOptions{
		ServiceName: "sentinel",
		Service:     &fakeService{startErr: errBoom},
	})
	require.ErrorIs(t, err, errBoom)

	require.ErrorIs(t, RunServer(context.Background(), &ServerOptions{}), ErrServiceRequired)
}

func TestNewHTTPServerTimeouts(t *testing.T) {
	t.Parallel()

	srv := NewHTTPServer(":0", nil)
	assert.Equal(t, defaultReadTimeout, srv.ReadTimeout)
	assert.Equal(t, defaultWriteTimeout, srv.WriteTimeout)
	assert.Equal(t, defaultIdleTimeout, srv.IdleTimeout)
}
