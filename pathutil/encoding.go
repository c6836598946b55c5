// Copyright 2026 The vfsemu Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathutil

import "unicode/utf16"

// Encode turns a decoded path string into the profile's on-disk byte
// representation: UTF-8 under POSIX profiles, and UTF-16 code units
// (little endian) under Windows. Unpaired surrogates are not preserved:
// a Go string cannot hold one, and utf16.Encode writes U+FFFD for any
// rune in the surrogate range.
func Encode(p Profile, path string) []byte {
	if p.OS != Windows {
		return []byte(path)
	}

	units := utf16.Encode([]rune(path))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

// Decode turns a profile-encoded byte string back into a Go string. Go
// strings must hold valid UTF-8, so a lone (unpaired) surrogate still maps
// to U+FFFD like utf16.Decode would; this function exists as the single
// place that knowledge lives, so callers that need true surrogate
// passthrough (e.g. a future byte-string path type) have one seam to
// change rather than reimplementing UTF-16 decoding per call site.
func Decode(p Profile, data []byte) string {
	if p.OS != Windows {
		return string(data)
	}

	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = uint16(data[2*i]) | uint16(data[2*i+1])<<8
	}

	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < 0xD800 || u > 0xDFFF:
			runes = append(runes, rune(u))
		case u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF:
			runes = append(runes, utf16.DecodeRune(rune(u), rune(units[i+1])))
			i++
		default:
			// Unpaired surrogate: kept as a rune here, but the string
			// conversion below still turns it into U+FFFD.
			runes = append(runes, rune(u))
		}
	}

	return string(runes)
}
