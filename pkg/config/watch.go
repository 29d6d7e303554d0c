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

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/carverauto/hostsentry/pkg/logger"
)

const defaultWatchDebounce = 250 * time.Millisecond

var errWatchPathNotSet = errors.New("config path not set")

// WatchFile calls onChange after path is written, created or renamed into
// place, coalescing bursts of events. The parent directory is watched so
// atomic replacements are seen. It blocks until ctx is canceled.
func WatchFile(ctx context.Context, path string, log logger.Logger, onChange func()) error {
	if path == "" {
		return errWatchPathNotSet
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch '%s': %w", filepath.Dir(path), err)
	}

	target := filepath.Base(path)

	debounce := time.NewTimer(defaultWatchDebounce)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()

			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Base(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			debounce.Reset(defaultWatchDebounce)
		case <-debounce.C:
			log.Info().Str("path", path).Msg("Configuration file changed")
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Warn().Err(err).Msg("Config watcher error")
		}
	}
}
