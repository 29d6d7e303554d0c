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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/carverauto/hostsentry/pkg/config"
	"github.com/carverauto/hostsentry/pkg/lifecycle"
)

const defaultConfigPath = "/etc/hostsentry/hostsentry.json"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "Path to hostsentry config file (JSON or YAML)")
	once := flag.Bool("once", false, "Run a single full scan, print the devices as JSON and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, watchPath, err := loadConfig(ctx, *configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := lifecycle.CreateComponentLogger("hostsentry", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a, err := newApp(ctx, cfg, watchPath, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if *once {
		return a.scanOnce(ctx, os.Stdout)
	}

	return lifecycle.Run(ctx, logger, a.services...)
}

// loadConfig reads the config from path. A missing file at the default
// location falls back to built-in defaults, and the returned watch path is
// empty so no file watcher is started.
func loadConfig(ctx context.Context, path string) (*Config, string, error) {
	cfg := DefaultConfig()

	_, statErr := os.Stat(path)
	if path == defaultConfigPath && errors.Is(statErr, fs.ErrNotExist) && os.Getenv("CONFIG_SOURCE") == "" {
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}

		return cfg, "", nil
	}

	if err := config.NewConfig(nil).LoadAndValidate(ctx, path, cfg); err != nil {
		return nil, "", err
	}

	if statErr != nil {
		return cfg, "", nil
	}

	return cfg, path, nil
}
