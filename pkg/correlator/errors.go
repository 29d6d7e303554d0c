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

import "errors"

var (
	ErrConfigNil              = errors.New("config cannot be nil")
	ErrInvalidMaxAttempts     = errors.New("max failed attempts must be at least 1")
	ErrInvalidTimeWindow      = errors.New("time window must be greater than 0")
	ErrInvalidSweepInterval   = errors.New("sweep interval must be between 0 and 1s")
	ErrNotifierRequired       = errors.New("notifier is required")
	ErrCorrelatorAlreadyStart = errors.New("correlator already started")
)
