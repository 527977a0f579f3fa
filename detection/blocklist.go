// go-um3750
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-um3750.
//
// go-um3750 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-um3750 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-um3750; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package detection

import (
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB devices that enumerate as serial ports but
// have no usable modem control lines. Format: VID:PID in hexadecimal,
// case-insensitive.
func DefaultBlocklist() []string {
	return []string{
		"1366:0105", // SEGGER J-Link CDC, RTS/DTR not wired
		"0D28:0204", // ARM mbed DAPLink CDC, RTS/DTR not wired
	}
}

// IsBlocked reports whether vidpid is in blocklist.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.TrimSpace(vidpid)
	if vidpid == "" {
		return false
	}
	for _, blocked := range blocklist {
		if strings.EqualFold(vidpid, strings.TrimSpace(blocked)) {
			return true
		}
	}
	return false
}

// vidKeys and pidKeys are the spellings found in port descriptors.
var (
	vidKeys = []string{"VID:", "VENDOR=", "VID="}
	pidKeys = []string{"PID:", "PRODUCT=", "PID="}
)

// ParseVIDPID extracts VID:PID from a USB descriptor such as
// "VID:1234 PID:5678", "vendor=1234 product=5678" or "1234:5678". It returns
// "" when no pair is found.
func ParseVIDPID(descriptor string) string {
	descriptor = strings.ToUpper(descriptor)

	vid, pid := valueAfter(descriptor, vidKeys), valueAfter(descriptor, pidKeys)
	if vid != "" && pid != "" {
		return vid + ":" + pid
	}

	if left, right, ok := strings.Cut(descriptor, ":"); ok && isHex(left) && isHex(right) {
		return descriptor
	}
	return ""
}

// FormatVIDPID joins separate VID and PID strings, as reported by port
// enumerators, into VID:PID. It returns "" if either is missing.
func FormatVIDPID(vid, pid string) string {
	vid, pid = strings.TrimSpace(vid), strings.TrimSpace(pid)
	if !isHex(vid) || !isHex(pid) {
		return ""
	}
	return strings.ToUpper(vid + ":" + pid)
}

// valueAfter returns the hex digits following the first key found.
func valueAfter(s string, keys []string) string {
	for _, key := range keys {
		if _, rest, ok := strings.Cut(s, key); ok {
			return leadingHex(rest)
		}
	}
	return ""
}

// leadingHex returns the first run of hex digits in s.
func leadingHex(s string) string {
	start := strings.IndexFunc(s, isHexDigit)
	if start < 0 {
		return ""
	}
	s = s[start:]
	if end := strings.IndexFunc(s, func(r rune) bool { return !isHexDigit(r) }); end >= 0 {
		return s[:end]
	}
	return s
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

func isHex(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !isHexDigit(r) }) < 0
}

// IsPathIgnored reports whether devicePath matches one of ignorePaths,
// exactly or after cleaning and case folding.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	normalized := normalizedPath(devicePath)
	for _, ignored := range ignorePaths {
		if ignored == "" {
			continue
		}
		if devicePath == ignored || normalized == normalizedPath(ignored) {
			return true
		}
	}
	return false
}

// normalizedPath cleans path and folds its case, Windows port names being
// case-insensitive.
func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}

// Skip reports whether a device should be left out under opts.
func (o *Options) Skip(path, vidpid string) bool {
	return IsPathIgnored(path, o.IgnorePaths) || IsBlocked(vidpid, o.Blocklist)
}
