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

package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/models"
)

type published struct {
	subject string
	payload []byte
	hasDL   bool
}

type fakePublisher struct {
	mu    sync.Mutex
	calls []published
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	_, hasDeadline := ctx.Deadline()

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, published{subject: subject, payload: payload, hasDL: hasDeadline})

	if f.err != nil {
		return nil, f.err
	}

	return &jetstream.PubAck{Stream: DefaultStream, Sequence: uint64(len(f.calls))}, nil
}

func (f *fakePublisher) published() []published {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]published(nil), f.calls...)
}

// stalledPublisher never acks; each call holds until its context expires.
type stalledPublisher struct {
	started chan struct{}
}

func (s *stalledPublisher) Publish(ctx context.Context, _ string, _ []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	select {
	case s.started <- struct{}{}:
	default:
	}

	<-ctx.Done()

	return nil, ctx.Err()
}

func TestSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		typ    string
		want   string
	}{
		{prefix: "", typ: models.MessageTypeNewDetection, want: "skywatch.alerts.new_detection"},
		{prefix: "ops.feed.", typ: models.MessageTypeSystemEvent, want: "ops.feed.system_event"},
	}

	for _, tt := range tests {
		r := New(&fakePublisher{}, tt.prefix, logger.NewTestLogger(), nil)
		assert.Equal(t, tt.want, r.Subject(tt.typ))
	}
}

func TestDeliverPublishesCloudEvent(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	r := New(pub, "", logger.NewTestLogger(), nil)
	r.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go r.Run(ctx)

	r.Deliver(ctx, models.ChannelMessage{
		Type: models.MessageTypeSystemEvent,
		Data: json.RawMessage(`{"event_type":"ZONE_BREACH","severity":"CRITICAL"}`),
	})

	require.Eventually(t, func() bool { return len(pub.published()) == 1 }, time.Second, 5*time.Millisecond)

	call := pub.published()[0]
	assert.Equal(t, "skywatch.alerts.system_event", call.subject)
	assert.True(t, call.hasDL)

	var ev Event
	require.NoError(t, json.Unmarshal(call.payload, &ev))
	assert.Equal(t, "1.0", ev.SpecVersion)
	assert.Equal(t, "com.carverauto.skywatch.alert.system_event", ev.Type)
	assert.Equal(t, "skywatch/sentinel", ev.Source)
	assert.NotEmpty(t, ev.ID)
	assert.True(t, ev.Time.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.MessageTypeSystemEvent, ev.Data.Type)
	assert.JSONEq(t, `{"event_type":"ZONE_BREACH","severity":"CRITICAL"}`, string(ev.Data.Data))
}

func TestPublishFailureIsReported(t *testing.T) {
	t.Parallel()

	errNoStream := errors.New("no responders")
	pub := &fakePublisher{err: errNoStream}
	r := New(pub, "", logger.NewTestLogger(), nil)

	err := r.Publish(context.Background(), models.ChannelMessage{Type: models.MessageTypeNewDetection})
	require.ErrorIs(t, err, errNoStream)

	// the worker swallows the same failure and keeps going
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go r.Run(ctx)

	r.Deliver(ctx, models.ChannelMessage{Type: models.MessageTypeNewDetection})
	r.Deliver(ctx, models.ChannelMessage{Type: models.MessageTypeNewDetection})

	require.Eventually(t, func() bool { return len(pub.published()) == 3 }, time.Second, 5*time.Millisecond)
}

func TestDeliverNeverBlocksOnStalledStream(t *testing.T) {
	t.Parallel()

	pub := &stalledPublisher{started: make(chan struct{}, 1)}
	r := New(pub, "", logger.NewTestLogger(), nil, WithQueueSize(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go r.Run(ctx)

	msg := models.ChannelMessage{Type: models.MessageTypeNewDetection}

	// the first alert occupies the worker, the next two fill the queue and
	// the rest are dropped
	r.Deliver(ctx, msg)
	<-pub.started

	start := time.Now()

	for i := 0; i < 5; i++ {
		r.Deliver(ctx, msg)
	}

	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 2, r.Pending())
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	pub := &stalledPublisher{started: make(chan struct{}, 1)}
	r := New(pub, "", logger.NewTestLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		r.Run(ctx)
		close(done)
	}()

	r.Deliver(ctx, models.ChannelMessage{Type: models.MessageTypeNewDetection})
	<-pub.started
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay worker did not stop after cancel")
	}
}

func TestWithQueueSizeIgnoresNonPositive(t *testing.T) {
	t.Parallel()

	r := New(&fakePublisher{}, "", logger.NewTestLogger(), nil, WithQueueSize(0))
	assert.Equal(t, DefaultQueueSize, cap(r.queue))

	r = New(&fakePublisher{}, "", logger.NewTestLogger(), nil, WithQueueSize(8))
	assert.Equal(t, 8, cap(r.queue))
}
