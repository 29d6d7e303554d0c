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

import (
	"strings"

	"github.com/carverauto/hostsentry/pkg/models"
)

// rule maps any of its case-insensitive substrings to a result. Rule slices
// are evaluated in order and the first match wins.
type rule struct {
	result  string
	needles []string
}

func matchRules(value string, rules []rule) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", false
	}

	for _, r := range rules {
		for _, needle := range r.needles {
			if strings.Contains(value, needle) {
				return r.result, true
			}
		}
	}

	return "", false
}

var hostnameTypeRules = []rule{
	{TypePhone, []string{"iphone", "android", "pixel", "galaxy-s", "galaxy-a", "galaxy-z", "oneplus", "redmi", "phone"}},
	{TypeTablet, []string{"ipad", "tablet", "galaxy-tab", "kindle", "fire-hd"}},
	{TypeComputer, []string{"macbook", "imac", "mac-mini", "macmini", "desktop", "laptop", "workstation", "thinkpad", "-pc", "pc-"}},
	{TypeTV, []string{"appletv", "apple-tv", "firetv", "fire-tv", "roku", "chromecast", "bravia", "smarttv", "-tv", "tv-"}},
	{TypeWatch, []string{"watch"}},
	{TypeAudio, []string{"sonos", "homepod", "echo", "alexa", "speaker", "soundbar", "audio"}},
	{TypeRouter, []string{"router", "gateway", "openwrt", "fritz", "unifi", "ubnt", "mikrotik", "access-point", "switch"}},
	{TypePrinter, []string{"printer", "officejet", "laserjet", "deskjet", "epson", "brother", "canon"}},
	{TypeCamera, []string{"camera", "ipcam", "doorbell", "nvr", "dvr", "-cam", "cam-"}},
	{TypeGameConsole, []string{"xbox", "playstation", "ps4", "ps5", "nintendo"}},
	{TypeMobile, []string{"mobile", "handy", "smartphone"}},
}

var vendorTypeRules = []rule{
	{TypeVirtualMachine, []string{"vmware", "virtualbox", "hyper-v", "qemu", "xen", "parallels", "virtual machine"}},
	{TypeContainer, []string{"docker"}},
	{TypeSingleBoard, []string{"raspberry"}},
	{TypeCamera, []string{"hikvision", "dahua", "axis communications", "reolink", "arlo", "wyze", "amcrest"}},
	{TypeIoT, []string{"espressif", "tuya", "shelly", "sonoff", "itead", "signify", "philips lighting", "nest labs", "ecobee"}},
	{TypePrinter, []string{"hewlett", "epson", "canon", "brother", "lexmark", "xerox", "kyocera"}},
	{TypeRouter, []string{"cisco", "juniper", "mikrotik", "routerboard", "ubiquiti", "netgear", "tp-link", "asustek", "linksys", "d-link", "avm", "aruba", "zyxel"}},
	{TypeAudio, []string{"sonos", "bose"}},
	{TypeTV, []string{"roku", "lg electronics", "vizio", "tcl"}},
	{TypeGameConsole, []string{"nintendo", "sony interactive"}},
	{TypeNAS, []string{"synology", "qnap", "western digital"}},
	{TypeAppleDevice, []string{"apple"}},
	{TypeMobile, []string{"samsung", "xiaomi", "huawei", "oneplus", "motorola", "oppo", "vivo"}},
	{TypeComputer, []string{"intel", "dell", "lenovo", "microsoft", "asrock", "gigabyte", "micro-star", "framework"}},
}

// Operating system names produced by the classifier.
const (
	OSWindows  = "Windows"
	OSMacOS    = "macOS"
	OSIOS      = "iOS"
	OSIPadOS   = "iPadOS"
	OSTvOS     = "tvOS"
	OSWatchOS  = "watchOS"
	OSAndroid  = "Android"
	OSLinux    = "Linux"
	OSUnix     = "Unix"
	OSRouterOS = "RouterOS"
	OSCiscoIOS = "Cisco IOS"
	OSEmbedded = "Embedded firmware"
	OSUnknown  = "Unknown"
)

var hostnameOSRules = []rule{
	{OSIOS, []string{"iphone"}},
	{OSIPadOS, []string{"ipad"}},
	{OSTvOS, []string{"appletv", "apple-tv"}},
	{OSMacOS, []string{"macbook", "imac", "mac-mini", "macmini"}},
	{OSAndroid, []string{"android", "pixel", "galaxy", "oneplus", "redmi"}},
	{OSWindows, []string{"desktop-", "laptop-", "windows", "win10", "win11"}},
	{OSLinux, []string{"ubuntu", "debian", "fedora", "centos", "raspberrypi", "linux"}},
}

var descriptionOSRules = []rule{
	{OSCiscoIOS, []string{"cisco ios"}},
	{OSRouterOS, []string{"routeros"}},
	{OSWindows, []string{"windows"}},
	{OSLinux, []string{"linux"}},
	{OSUnix, []string{"freebsd", "openbsd", "darwin", "sunos"}},
}

var vendorOSRules = []rule{
	{OSLinux, []string{"raspberry", "synology", "qnap"}},
	{OSRouterOS, []string{"mikrotik", "routerboard"}},
	{OSCiscoIOS, []string{"cisco"}},
	{OSWindows, []string{"microsoft"}},
	{OSAndroid, []string{"samsung", "xiaomi", "huawei", "oneplus", "motorola", "oppo", "vivo"}},
}

var appleOSByType = map[string]string{
	TypePhone:    OSIOS,
	TypeTablet:   OSIPadOS,
	TypeTV:       OSTvOS,
	TypeWatch:    OSWatchOS,
	TypeComputer: OSMacOS,
	TypeAudio:    OSTvOS,
}

var embeddedTypes = map[string]struct{}{
	TypeRouter:        {},
	TypePrinter:       {},
	TypeCamera:        {},
	TypeIoT:           {},
	TypeNetworkDevice: {},
}

func inferOperatingSystem(obs Observation, deviceType string, ports map[int]struct{}) string {
	switch deviceType {
	case TypeMulticast, TypeBroadcast, TypeIPv6Multicast:
		return OSUnknown
	}

	if !models.IsUnknown(obs.Hostname) {
		if os, ok := matchRules(obs.Hostname, hostnameOSRules); ok {
			return os
		}
	}

	if os, ok := matchRules(obs.Description, descriptionOSRules); ok {
		return os
	}

	if os, ok := osFromVendorAndType(obs.Vendor, deviceType); ok {
		return os
	}

	if os, ok := osFromPorts(ports); ok {
		return os
	}

	return OSUnknown
}

func osFromVendorAndType(vendor, deviceType string) (string, bool) {
	if !models.IsUnknown(vendor) {
		if strings.Contains(strings.ToLower(vendor), "apple") {
			if os, ok := appleOSByType[deviceType]; ok {
				return os, true
			}

			return OSMacOS, true
		}

		if os, ok := matchRules(vendor, vendorOSRules); ok {
			return os, true
		}
	}

	switch deviceType {
	case TypeWindowsHost:
		return OSWindows, true
	case TypeUnixHost, TypeSingleBoard, TypeNAS:
		return OSLinux, true
	case TypeAppleDevice:
		return OSMacOS, true
	}

	if _, ok := embeddedTypes[deviceType]; ok {
		return OSEmbedded, true
	}

	return "", false
}

func osFromPorts(ports map[int]struct{}) (string, bool) {
	switch {
	case hasAny(ports, 3389, 445, 135):
		return OSWindows, true
	case hasAny(ports, 62078):
		return OSIOS, true
	case hasAny(ports, 548, 5353):
		return OSMacOS, true
	case hasAny(ports, 22):
		return OSLinux, true
	}

	return "", false
}
