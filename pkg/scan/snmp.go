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

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/carverauto/hostsentry/pkg/logger"
)

const oidSysDescr = "1.3.6.1.2.1.1.1.0"

// SNMPDescriber fetches sysDescr from devices that answer SNMP.
type SNMPDescriber struct {
	config SNMPConfig
	logger logger.Logger
}

func NewSNMPDescriber(cfg SNMPConfig, log logger.Logger) *SNMPDescriber {
	return &SNMPDescriber{config: cfg, logger: log}
}

// Describe returns the device's sysDescr, or "" when SNMP is disabled or the
// device does not answer.
func (d *SNMPDescriber) Describe(ctx context.Context, ip string) string {
	descr, err := d.SysDescr(ctx, ip)
	if err != nil {
		d.logger.Debug().Err(err).Str("ip", ip).Msg("SNMP describe failed")

		return ""
	}

	return descr
}

// SysDescr queries the sysDescr.0 object of ip.
func (d *SNMPDescriber) SysDescr(ctx context.Context, ip string) (string, error) {
	if !d.config.Enabled {
		return "", ErrSNMPDisabled
	}

	client, err := d.newClient(ctx, ip)
	if err != nil {
		return "", err
	}

	if err := client.Connect(); err != nil {
		return "", fmt.Errorf("SNMP connect failed: %w", err)
	}
	defer func() { _ = client.Conn.Close() }()

	result, err := client.Get([]string{oidSysDescr})
	if err != nil {
		return "", fmt.Errorf("SNMP Get failed: %w", err)
	}

	if result.Error != gosnmp.NoError {
		return "", fmt.Errorf("%w: %s", ErrNoSNMPData, result.Error)
	}

	for _, v := range result.Variables {
		if v.Type != gosnmp.OctetString {
			continue
		}

		if raw, ok := v.Value.([]byte); ok {
			return strings.TrimSpace(string(raw)), nil
		}
	}

	return "", ErrNoSNMPData
}

func (d *SNMPDescriber) newClient(ctx context.Context, ip string) (*gosnmp.GoSNMP, error) {
	client := &gosnmp.GoSNMP{
		Context:            ctx,
		Target:             ip,
		Port:               d.config.Port,
		Timeout:            d.config.Timeout.Or(defaultSNMPTimeout),
		Retries:            d.config.Retries,
		MaxOids:            gosnmp.MaxOids,
		ExponentialTimeout: true,
	}

	if err := configureClientVersion(client, &d.config); err != nil {
		return nil, err
	}

	return client, nil
}

func configureClientVersion(client *gosnmp.GoSNMP, cfg *SNMPConfig) error {
	switch cfg.Version {
	case SNMPVersion1:
		client.Version = gosnmp.Version1
		client.Community = cfg.Community
	case SNMPVersion2c, "":
		client.Version = gosnmp.Version2c
		client.Community = cfg.Community
	case SNMPVersion3:
		client.Version = gosnmp.Version3

		usm := &gosnmp.UsmSecurityParameters{UserName: cfg.Username}
		flags := gosnmp.NoAuthNoPriv

		if configureV3Authentication(usm, cfg) {
			flags = gosnmp.AuthNoPriv

			if configureV3Privacy(usm, cfg) {
				flags = gosnmp.AuthPriv
			}
		}

		client.SecurityModel = gosnmp.UserSecurityModel
		client.SecurityParameters = usm
		client.MsgFlags = flags
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSNMPVer, cfg.Version)
	}

	return nil
}

func configureV3Authentication(usm *gosnmp.UsmSecurityParameters, cfg *SNMPConfig) bool {
	protocols := map[string]gosnmp.SnmpV3AuthProtocol{
		"MD5":    gosnmp.MD5,
		"SHA":    gosnmp.SHA,
		"SHA224": gosnmp.SHA224,
		"SHA256": gosnmp.SHA256,
		"SHA384": gosnmp.SHA384,
		"SHA512": gosnmp.SHA512,
	}

	proto, ok := protocols[strings.ToUpper(cfg.AuthProtocol)]
	if !ok {
		return false
	}

	usm.AuthenticationProtocol = proto
	usm.AuthenticationPassphrase = cfg.AuthPassword

	return true
}

func configureV3Privacy(usm *gosnmp.UsmSecurityParameters, cfg *SNMPConfig) bool {
	protocols := map[string]gosnmp.SnmpV3PrivProtocol{
		"DES":    gosnmp.DES,
		"AES":    gosnmp.AES,
		"AES192": gosnmp.AES192,
		"AES256": gosnmp.AES256,
	}

	proto, ok := protocols[strings.ToUpper(cfg.PrivacyProtocol)]
	if !ok {
		return false
	}

	usm.PrivacyProtocol = proto
	usm.PrivacyPassphrase = cfg.PrivacyPassword

	return true
}
