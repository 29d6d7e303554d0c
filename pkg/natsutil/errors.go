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

package natsutil

import "errors"

var (
	// ErrMTLSRequired is returned when a TLS config is built without a client certificate.
	ErrMTLSRequired = errors.New("client certificate and key are required for NATS mTLS")
	// ErrCAParsingFailed is returned when CA certificate cannot be parsed
	ErrCAParsingFailed = errors.New("failed to parse CA certificate")
	// ErrURLRequired is returned when no server URL is configured.
	ErrURLRequired = errors.New("nats url is required")
	// ErrStreamRequired is returned when no JetStream stream name is configured.
	ErrStreamRequired = errors.New("nats stream name is required")
	// ErrSubjectRequired is returned when publishing without a subject.
	ErrSubjectRequired = errors.New("event subject is required")
)
