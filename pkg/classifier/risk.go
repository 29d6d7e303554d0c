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

package classifier

import "github.com/carverauto/hostsentry/pkg/models"

const (
	pointsPerOpenPort   = 2
	pointsRemoteAccess  = 10
	pointsWebService    = 3
	pointsUnresolved    = 5
	pointsCameraOrIoT   = 3
	highRiskThreshold   = 15
	mediumRiskThreshold = 8
	lowRiskThreshold    = 3
)

var (
	remoteAccessPorts = []int{22, 23, 3389}
	webServicePorts   = []int{80, 443, 8080}
)

func riskScore(obs Observation, deviceType string, ports map[int]struct{}) int {
	score := len(ports) * pointsPerOpenPort

	if hasAny(ports, remoteAccessPorts...) {
		score += pointsRemoteAccess
	}

	if hasAny(ports, webServicePorts...) {
		score += pointsWebService
	}

	if models.IsUnknown(obs.Vendor) || deviceType == TypeUnknown {
		score += pointsUnresolved
	}

	if deviceType == TypeCamera || deviceType == TypeIoT {
		score += pointsCameraOrIoT
	}

	return score
}

// LevelFor buckets a risk score.
func LevelFor(score int) models.RiskLevel {
	switch {
	case score >= highRiskThreshold:
		return models.RiskHigh
	case score >= mediumRiskThreshold:
		return models.RiskMedium
	case score >= lowRiskThreshold:
		return models.RiskLow
	default:
		return models.RiskSafe
	}
}
