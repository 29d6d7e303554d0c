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

package scan

import "errors"

var (
	errConnectionRefused = errors.New("connection refused")

	ErrICMPUnavailable      = errors.New("ICMP socket unavailable")
	ErrInvalidIPv4          = errors.New("not a valid IPv4 address")
	ErrUnexpectedReply      = errors.New("unexpected ICMP reply")
	ErrARPTableUnavailable  = errors.New("ARP table unavailable")
	ErrNmapUnavailable      = errors.New("nmap binary not available")
	ErrSNMPDisabled         = errors.New("SNMP describe disabled")
	ErrUnsupportedSNMPVer   = errors.New("unsupported SNMP version")
	ErrNoSNMPData           = errors.New("no SNMP data returned")
	ErrInvalidPingRate      = errors.New("ping rate must be greater than 0")
	ErrInvalidPortScanLimit = errors.New("port scan concurrency must be greater than 0")
)
