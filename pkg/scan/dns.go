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
	"net"
	"strings"
	"time"

	"github.com/carverauto/hostsentry/pkg/models"
)

// Resolver is the subset of *net.Resolver used for PTR lookups.
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// ReverseLookup resolves the PTR record of ip. It returns models.Unknown
// when the lookup fails or only echoes the address back.
func ReverseLookup(ctx context.Context, resolver Resolver, ip string, timeout time.Duration) string {
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	names, err := resolver.LookupAddr(lookupCtx, ip)
	if err != nil || len(names) == 0 {
		return models.Unknown
	}

	name := strings.TrimSuffix(strings.TrimSpace(names[0]), ".")
	if name == "" || name == ip {
		return models.Unknown
	}

	return name
}
