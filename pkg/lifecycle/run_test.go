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
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	name     string
	startErr error
	stopErr  error
	calls    *[]string
}

func (s *recordingService) Start(_ context.Context) error {
	*s.calls = append(*s.calls, "start:"+s.name)
	return s.startErr
}

func (s *recordingService) Stop(_ context.Context) error {
	*s.calls = append(*s.calls, "stop:"+s.name)
	return s.stopErr
}

func TestRunStopsInReverseOrder(t *testing.T) {
	var calls []string

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Run(ctx, logger.NewTestLogger(),
		&recordingService{name: "a", calls: &calls},
		&recordingService{name: "b", calls: &calls},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"start:a", "start:b", "stop:b", "stop:a"}, calls)
}

func TestRunUnwindsOnStartFailure(t *testing.T) {
	var calls []string

	errBoom := errors.New("boom")

	err := Run(context.Background(), logger.NewTestLogger(),
		&recordingService{name: "a", calls: &calls},
		&recordingService{name: "b", startErr: errBoom, calls: &calls},
	)
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, []string{"start:a", "start:b", "stop:a"}, calls)
}

func TestCreateComponentLogger(t *testing.T) {
	log, err := CreateComponentLogger("correlator", &logger.Config{Level: "warn", Output: "discard"})
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = CreateComponentLogger("correlator", &logger.Config{Level: "nope"})
	assert.Error(t, err)
}

func TestBackgroundRunsUntilStopped(t *testing.T) {
	started := make(chan struct{})

	svc := Background("loop", logger.NewTestLogger(), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()

		return ctx.Err()
	})

	parent, cancelParent := context.WithCancel(context.Background())
	require.NoError(t, svc.Start(parent))
	require.NoError(t, svc.Start(parent), "second start is a no-op")

	<-started

	// the loop outlives the start context until Stop
	cancelParent()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, svc.Stop(ctx))
	require.NoError(t, svc.Stop(ctx))
}

func TestNewWriterLogger(t *testing.T) {
	var buf strings.Builder

	NewWriterLogger(&buf).Debug().Str("k", "v").Msg("hello")

	assert.Contains(t, buf.String(), `"k":"v"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestComponentLoggerFollowsParentLevel(t *testing.T) {
	var buf strings.Builder

	root := NewWriterLogger(&buf)
	child := ComponentLogger(root, "discovery")

	child.Info().Msg("before")
	assert.Contains(t, buf.String(), `"component":"discovery"`)

	root.SetLevel(zerolog.ErrorLevel)
	buf.Reset()

	child.Info().Msg("after")
	ComponentLogger(child, "nested").Warn().Msg("after")
	assert.Empty(t, buf.String())

	child.Error().Msg("still logged")
	assert.Contains(t, buf.String(), "still logged")

	child.SetDebug(true)
	buf.Reset()

	root.Debug().Msg("root follows child")
	assert.Contains(t, buf.String(), "root follows child")
}

func TestSetLevelWhileLogging(t *testing.T) {
	root := NewWriterLogger(io.Discard)
	child := ComponentLogger(root, "correlator")

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 0; i < 1000; i++ {
			child.Info().Int("i", i).Msg("tick")
		}
	}()

	for i := 0; i < 1000; i++ {
		root.SetDebug(i%2 == 0)
	}

	wg.Wait()
}
