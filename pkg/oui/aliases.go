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

package oui

import "strings"

// alias groups several registered prefixes under one vendor name. These
// cover common hardware even when the vendor file is missing or stale.
type alias struct {
	vendor   string
	prefixes []string
}

func (a alias) matches(prefix string) bool {
	for _, p := range a.prefixes {
		if strings.HasPrefix(prefix, p) {
			return true
		}
	}

	return false
}

var defaultAliases = []alias{
	{vendor: "VMware, Inc.", prefixes: []string{"000569", "000C29", "001C14", "005056"}},
	{vendor: "Oracle VirtualBox", prefixes: []string{"080027", "0A0027"}},
	{vendor: "Microsoft Hyper-V", prefixes: []string{"00155D"}},
	{vendor: "QEMU/KVM", prefixes: []string{"525400"}},
	{vendor: "Xen", prefixes: []string{"00163E"}},
	{vendor: "Parallels", prefixes: []string{"001C42"}},
	{vendor: "Raspberry Pi Foundation", prefixes: []string{"B827EB", "DCA632", "E45F01", "28CDC1", "2CCF67", "D83ADD"}},
	{vendor: "Apple, Inc.", prefixes: []string{"FC253F", "F0B479", "A4D1D2", "3C0754", "28CFE9", "DC2B2A", "AC87A3", "F0DCE2"}},
	{vendor: "Samsung Electronics", prefixes: []string{"0012FB", "001632", "002339", "5C0A5B", "8425DB", "F4F524"}},
	{vendor: "Google, Inc.", prefixes: []string{"3C5AB4", "F4F5D8", "F88FCA", "54609A"}},
	{vendor: "Amazon Technologies", prefixes: []string{"44650D", "F0272D", "747548", "FCA667"}},
	{vendor: "Espressif Inc.", prefixes: []string{"240AC4", "30AEA4", "84CCA8", "A4CF12", "ECFABC"}},
	{vendor: "TP-Link", prefixes: []string{"50C7BF", "C46E1F", "F4F26D", "EC086B"}},
	{vendor: "Hikvision", prefixes: []string{"4419B6", "BCAD28", "C056E3"}},
}

const (
	locallyAdministeredBit = 0x02
	multicastBit           = 0x01
)

// heuristicVendor is the last resort for prefixes absent from the table and
// the aliases.
func heuristicVendor(prefix string) (string, bool) {
	switch {
	case prefix == "FFFFFF":
		return "Broadcast", true
	case strings.HasPrefix(prefix, "01005E"):
		return "IPv4 multicast", true
	case strings.HasPrefix(prefix, "3333"):
		return "IPv6 multicast", true
	case strings.HasPrefix(prefix, "0242"):
		return "Docker container", true
	}

	first, ok := firstOctet(prefix)
	if !ok {
		return "", false
	}

	if first&multicastBit != 0 {
		return "Multicast group", true
	}

	if first&locallyAdministeredBit != 0 {
		return "Virtual machine (probably)", true
	}

	return "", false
}

func firstOctet(prefix string) (byte, bool) {
	if len(prefix) < 2 {
		return 0, false
	}

	var v byte

	for i := 0; i < 2; i++ {
		c := prefix[i]

		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | (c - '0')
		case c >= 'A' && c <= 'F':
			v = v<<4 | (c - 'A' + 10)
		default:
			return 0, false
		}
	}

	return v, true
}
