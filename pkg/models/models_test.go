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

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseLoginKind(t *testing.T) {
	tests := []struct {
		input   string
		want    LoginKind
		wantErr bool
	}{
		{input: "FailedLogin", want: FailedLogin},
		{input: "failed_login", want: FailedLogin},
		{input: "4625", want: FailedLogin},
		{input: "successful-login", want: SuccessfulLogin},
		{input: "4624", want: SuccessfulLogin},
		{input: "LogoffInitiated", want: LogoffInitiated},
		{input: "4647", want: LogoffInitiated},
		{input: "session ended", want: SessionEnded},
		{input: "4634", want: SessionEnded},
		{input: "4700", wantErr: true},
		{input: "reboot", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLoginKind(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidLoginKind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoginEventDecode(t *testing.T) {
	raw := `{"timestamp":"2025-03-01T10:00:00Z","username":"admin","source_ip":"10.0.0.5","computer":"WS01","kind":4625}`

	var ev LoginEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	assert.Equal(t, FailedLogin, ev.Kind)
	assert.Equal(t, "10.0.0.5_admin", ev.Key())
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), ev.Timestamp)

	out, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"kind":"FailedLogin"`)
}

func TestLoginEventNormalized(t *testing.T) {
	ev, substituted := LoginEvent{SourceIP: "-", Username: "", Kind: FailedLogin}.Normalized()

	assert.True(t, substituted)
	assert.Equal(t, "Unknown_Unknown", ev.Key())

	ev, substituted = LoginEvent{SourceIP: "10.0.0.5", Username: "admin"}.Normalized()
	assert.False(t, substituted)
	assert.Equal(t, "10.0.0.5_admin", ev.Key())
}

func TestNormalizePorts(t *testing.T) {
	assert.Equal(t, []int{22, 80, 443}, NormalizePorts([]int{443, 22, 80, 22, 0, 70000}))
	assert.Nil(t, NormalizePorts(nil))
}

func TestNetworkDeviceClone(t *testing.T) {
	d := &NetworkDevice{IPAddress: "192.168.1.10", OpenPorts: []int{22}}
	c := d.Clone()
	c.OpenPorts[0] = 80

	assert.Equal(t, 22, d.OpenPorts[0])
	assert.True(t, d.HasPort(22))
	assert.False(t, d.HasPort(80))
}

func TestIsUnknown(t *testing.T) {
	assert.True(t, IsUnknown(""))
	assert.True(t, IsUnknown("unknown"))
	assert.True(t, IsUnknown(" Unknown "))
	assert.False(t, IsUnknown("Apple, Inc."))
}

func TestDurationDecode(t *testing.T) {
	var cfg struct {
		Window Duration `json:"window" yaml:"window"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"window":"15m"}`), &cfg))
	assert.Equal(t, 15*time.Minute, cfg.Window.Std())

	require.NoError(t, yaml.Unmarshal([]byte("window: 30s\n"), &cfg))
	assert.Equal(t, 30*time.Second, cfg.Window.Std())

	require.NoError(t, yaml.Unmarshal([]byte("window: 1000\n"), &cfg))
	assert.Equal(t, time.Microsecond, cfg.Window.Std())

	assert.Error(t, json.Unmarshal([]byte(`{"window":true}`), &cfg))
	assert.Equal(t, time.Second, Duration(0).Or(time.Second))
}
