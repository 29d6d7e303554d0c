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

package logins

import "errors"

var (
	ErrRecorderRequired     = errors.New("login event recorder is required")
	ErrJetStreamRequired    = errors.New("jetstream context is required")
	ErrMissingStreamName    = errors.New("stream name is required")
	ErrMissingConsumerName  = errors.New("consumer name is required")
	ErrMissingSubject       = errors.New("login subject is required")
	ErrInvalidPayload       = errors.New("invalid login event payload")
	ErrConsumerAlreadyStart = errors.New("login consumer already started")
)
