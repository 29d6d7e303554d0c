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

//go:generate mockgen -destination=mock_correlator.go -package=correlator github.com/carverauto/hostsentry/pkg/correlator Notifier

package correlator

import "github.com/carverauto/hostsentry/pkg/models"

// Notifier receives login notifications. Delivery is at-least-once with no
// ordering guarantee across keys.
type Notifier interface {
	OnFailedLogin(event models.LoginEvent)
	OnSuspiciousActivity(key string, count int)
	OnLogMessage(text string, level models.LogLevel)
}

// MetricsRecorder is the optional instrumentation hook.
type MetricsRecorder interface {
	ObserveLoginEvent(kind string, escalated bool)
	SetActiveAttemptCounters(n int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveLoginEvent(string, bool) {}
func (nopMetrics) SetActiveAttemptCounters(int)   {}
