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

package sink

import (
	"sync"

	"github.com/carverauto/hostsentry/pkg/models"
)

// LogRecord is one OnLogMessage call captured by a Recorder.
type LogRecord struct {
	Text  string
	Level models.LogLevel
}

// SuspiciousRecord is one OnSuspiciousActivity call captured by a Recorder.
type SuspiciousRecord struct {
	Key   string
	Count int
}

// Recorder keeps every notification in memory. It is safe for concurrent use.
type Recorder struct {
	mu            sync.Mutex
	failedLogins  []models.LoginEvent
	suspicious    []SuspiciousRecord
	newDevices    []*models.NetworkDevice
	statusChanges []*models.NetworkDevice
	logs          []LogRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnFailedLogin(event models.LoginEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failedLogins = append(r.failedLogins, event)
}

func (r *Recorder) OnSuspiciousActivity(key string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.suspicious = append(r.suspicious, SuspiciousRecord{Key: key, Count: count})
}

func (r *Recorder) OnNewDeviceDetected(device *models.NetworkDevice) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.newDevices = append(r.newDevices, device.Clone())
}

func (r *Recorder) OnDeviceStatusChanged(device *models.NetworkDevice) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statusChanges = append(r.statusChanges, device.Clone())
}

func (r *Recorder) OnLogMessage(text string, level models.LogLevel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, LogRecord{Text: text, Level: level})
}

func (r *Recorder) FailedLogins() []models.LoginEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]models.LoginEvent(nil), r.failedLogins...)
}

func (r *Recorder) Suspicious() []SuspiciousRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]SuspiciousRecord(nil), r.suspicious...)
}

func (r *Recorder) NewDevices() []*models.NetworkDevice {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*models.NetworkDevice(nil), r.newDevices...)
}

func (r *Recorder) StatusChanges() []*models.NetworkDevice {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*models.NetworkDevice(nil), r.statusChanges...)
}

func (r *Recorder) Logs() []LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]LogRecord(nil), r.logs...)
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failedLogins = nil
	r.suspicious = nil
	r.newDevices = nil
	r.statusChanges = nil
	r.logs = nil
}
