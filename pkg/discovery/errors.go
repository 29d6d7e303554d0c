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

package discovery

import "errors"

var (
	ErrConfigNil          = errors.New("config cannot be nil")
	ErrGatewayRequired    = errors.New("probe gateway is required")
	ErrNotifierRequired   = errors.New("notifier is required")
	ErrInvalidConcurrency = errors.New("max concurrent probes must be greater than 0")
	ErrInvalidSubnet      = errors.New("invalid subnet")
	ErrSubnetNotIPv4      = errors.New("subnet must be IPv4")
	ErrSubnetTooWide      = errors.New("subnet must be /24 or narrower")
	ErrInvalidInterval    = errors.New("interval must be greater than 0")
	ErrScanInProgress     = errors.New("full scan already in progress")
	ErrAlreadyMonitoring  = errors.New("discovery monitoring already running")
	ErrProbePanic         = errors.New("probe mechanism failure")
	ErrNoPrivateIPv4      = errors.New("no private IPv4 address found")
)
