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

// Package models holds the shared data types of the login correlator and the
// network discovery engine.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unknown is the placeholder used wherever a value could not be resolved.
const Unknown = "Unknown"

var (
	errInvalidLoginKind = errors.New("invalid login kind")
)

// LoginKind classifies a normalized authentication event.
type LoginKind int

const (
	FailedLogin LoginKind = iota + 1
	SuccessfulLogin
	LogoffInitiated
	SessionEnded
)

// Windows security audit event IDs accepted as aliases when decoding.
const (
	eventIDLogonSuccess = 4624
	eventIDLogonFailure = 4625
	eventIDLogoff       = 4634
	eventIDUserLogoff   = 4647
)

func (k LoginKind) String() string {
	switch k {
	case FailedLogin:
		return "FailedLogin"
	case SuccessfulLogin:
		return "SuccessfulLogin"
	case LogoffInitiated:
		return "LogoffInitiated"
	case SessionEnded:
		return "SessionEnded"
	default:
		return "LoginKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Valid reports whether k is one of the defined kinds.
func (k LoginKind) Valid() bool {
	return k >= FailedLogin && k <= SessionEnded
}

// ParseLoginKind accepts the kind name in any case, with or without
// separators, or the matching Windows event ID.
func ParseLoginKind(s string) (LoginKind, error) {
	normalized := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(s)))

	switch normalized {
	case "failedlogin", "failed", "failure":
		return FailedLogin, nil
	case "successfullogin", "success", "successful":
		return SuccessfulLogin, nil
	case "logoffinitiated", "logoff":
		return LogoffInitiated, nil
	case "sessionended", "ended":
		return SessionEnded, nil
	}

	if id, err := strconv.Atoi(normalized); err == nil {
		return loginKindFromEventID(id)
	}

	return 0, fmt.Errorf("%w: %q", errInvalidLoginKind, s)
}

func loginKindFromEventID(id int) (LoginKind, error) {
	switch id {
	case eventIDLogonFailure:
		return FailedLogin, nil
	case eventIDLogonSuccess:
		return SuccessfulLogin, nil
	case eventIDUserLogoff:
		return LogoffInitiated, nil
	case eventIDLogoff:
		return SessionEnded, nil
	default:
		return 0, fmt.Errorf("%w: event id %d", errInvalidLoginKind, id)
	}
}

func (k LoginKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *LoginKind) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case string:
		kind, err := ParseLoginKind(value)
		if err != nil {
			return err
		}

		*k = kind

		return nil
	case float64:
		kind, err := loginKindFromEventID(int(value))
		if err != nil {
			return err
		}

		*k = kind

		return nil
	default:
		return fmt.Errorf("%w: %s", errInvalidLoginKind, string(b))
	}
}

// LoginEvent is an immutable, normalized remote-session authentication record.
type LoginEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	SourceIP  string    `json:"source_ip"`
	Computer  string    `json:"computer"`
	Kind      LoginKind `json:"kind"`
}

// AttemptKey builds the counter key for a source and user.
func AttemptKey(sourceIP, username string) string {
	return sourceIP + "_" + username
}

// Key returns the attempt counter key of the event.
func (e LoginEvent) Key() string {
	return AttemptKey(e.SourceIP, e.Username)
}

// Normalized returns a copy with missing SourceIP/Username replaced by
// Unknown. The bool reports whether anything was substituted.
func (e LoginEvent) Normalized() (LoginEvent, bool) {
	substituted := false

	if isMissing(e.SourceIP) {
		e.SourceIP = Unknown
		substituted = true
	}

	if isMissing(e.Username) {
		e.Username = Unknown
		substituted = true
	}

	return e, substituted
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)

	return s == "" || s == "-"
}

// AttemptCounter tracks consecutive failed logins for one key.
type AttemptCounter struct {
	Count    int       `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}

// LoginNotification describes what the correlator emitted for one event.
type LoginNotification struct {
	Event     LoginEvent `json:"event"`
	Key       string     `json:"key"`
	Count     int        `json:"count"`
	Escalated bool       `json:"escalated"`
}

// LogLevel is the severity attached to sink log messages.
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)
