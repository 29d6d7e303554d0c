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

package oui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultReloadDebounce = 500 * time.Millisecond

// Watch reloads the catalog whenever its file is written or replaced. It
// watches the parent directory so editor-style atomic renames are seen. It
// blocks until ctx is canceled.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return ErrCatalogPathNotSet
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create vendor file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(c.path)
	filename := filepath.Base(c.path)

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch '%s': %w", dir, err)
	}

	c.logger.Debug().Str("path", c.path).Msg("Watching vendor catalog for changes")

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)

	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}

			timer = time.AfterFunc(defaultReloadDebounce, func() {
				if ctx.Err() != nil {
					return
				}

				c.logger.Info().Str("path", c.path).Msg("Vendor catalog changed, reloading")

				_ = c.Reload()
			})
			timerMu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			c.logger.Warn().Err(err).Msg("Vendor catalog watcher error")
		}
	}
}
