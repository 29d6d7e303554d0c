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
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/maxminddb-golang"
)

var errGeoIPPathNotSet = errors.New("geoip database path not set")

// GeoLocator resolves an IP address to an ISO country code.
type GeoLocator interface {
	Country(ip string) string
}

// GeoIP reads country codes from a MaxMind GeoLite2/GeoIP2 database.
type GeoIP struct {
	reader *maxminddb.Reader
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// OpenGeoIP opens the mmdb file at path.
func OpenGeoIP(path string) (*GeoIP, error) {
	if path == "" {
		return nil, errGeoIPPathNotSet
	}

	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database %s: %w", path, err)
	}

	return &GeoIP{reader: reader}, nil
}

// Country returns the ISO code for ip, or "" when it is unknown.
func (g *GeoIP) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if g == nil || parsed == nil {
		return ""
	}

	var rec countryRecord
	if err := g.reader.Lookup(parsed, &rec); err != nil {
		return ""
	}

	return rec.Country.ISOCode
}

func (g *GeoIP) Close() error {
	return g.reader.Close()
}
