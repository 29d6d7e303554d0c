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

// Package natsutil connects to NATS and publishes CloudEvents to JetStream.
package natsutil

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/hostsentry/pkg/models"
)

const (
	DefaultURL           = nats.DefaultURL
	DefaultStream        = "HOSTSENTRY_EVENTS"
	DefaultSubjectPrefix = "hostsentry.events"
	DefaultLoginSubject  = "hostsentry.logins"
	defaultConnectWait   = 5 * time.Second
)

// Config describes the NATS connection used by the sink and the login consumer.
type Config struct {
	Enabled       bool            `json:"enabled" yaml:"enabled"`
	URL           string          `json:"url" yaml:"url"`
	Name          string          `json:"name,omitempty" yaml:"name,omitempty"`
	Domain        string          `json:"domain,omitempty" yaml:"domain,omitempty"`
	Stream        string          `json:"stream" yaml:"stream"`
	SubjectPrefix string          `json:"subject_prefix" yaml:"subject_prefix"`
	LoginSubject  string          `json:"login_subject" yaml:"login_subject"`
	CredsFile     string          `json:"creds_file,omitempty" yaml:"creds_file,omitempty"`
	ConnectWait   models.Duration `json:"connect_wait" yaml:"connect_wait"`
	TLS           *TLSConfig      `json:"tls,omitempty" yaml:"tls,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		URL:           DefaultURL,
		Name:          "hostsentry",
		Stream:        DefaultStream,
		SubjectPrefix: DefaultSubjectPrefix,
		LoginSubject:  DefaultLoginSubject,
		ConnectWait:   models.Duration(defaultConnectWait),
	}
}

// Validate fills defaults for optional fields.
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrURLRequired
	}

	if c.Stream == "" {
		return ErrStreamRequired
	}

	if c.SubjectPrefix == "" {
		c.SubjectPrefix = DefaultSubjectPrefix
	}

	if c.LoginSubject == "" {
		c.LoginSubject = DefaultLoginSubject
	}

	if c.ConnectWait <= 0 {
		c.ConnectWait = models.Duration(defaultConnectWait)
	}

	return nil
}

// Subjects returns the stream subjects needed to capture every published event.
func (c *Config) Subjects() []string {
	return []string{c.SubjectPrefix + ".>"}
}
