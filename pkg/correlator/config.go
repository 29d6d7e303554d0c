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

package correlator

import (
	"fmt"
	"time"

	"github.com/carverauto/hostsentry/pkg/models"
)

const (
	defaultMaxFailedAttempts = 5
	defaultTimeWindow        = 15 * time.Minute
	defaultSweepInterval     = time.Second
	maxSweepInterval         = time.Second
)

// Config controls the brute-force detection thresholds.
type Config struct {
	MaxFailedAttempts int             `json:"max_failed_attempts" yaml:"max_failed_attempts"`
	TimeWindow        models.Duration `json:"time_window" yaml:"time_window"`
	SweepInterval     models.Duration `json:"sweep_interval" yaml:"sweep_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxFailedAttempts: defaultMaxFailedAttempts,
		TimeWindow:        models.Duration(defaultTimeWindow),
		SweepInterval:     models.Duration(defaultSweepInterval),
	}
}

// Validate fills zero values with defaults and rejects invalid settings.
func (c *Config) Validate() error {
	if c.MaxFailedAttempts == 0 {
		c.MaxFailedAttempts = defaultMaxFailedAttempts
	}

	if c.TimeWindow == 0 {
		c.TimeWindow = models.Duration(defaultTimeWindow)
	}

	if c.SweepInterval == 0 {
		c.SweepInterval = models.Duration(defaultSweepInterval)
	}

	if c.MaxFailedAttempts < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxAttempts, c.MaxFailedAttempts)
	}

	if c.TimeWindow < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeWindow, c.TimeWindow.Std())
	}

	if c.SweepInterval < 0 || c.SweepInterval.Std() > maxSweepInterval {
		return fmt.Errorf("%w: got %v", ErrInvalidSweepInterval, c.SweepInterval.Std())
	}

	return nil
}
