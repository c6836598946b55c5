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

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// folder does locale-independent Unicode case folding for directory-entry
// comparison under non-case-sensitive profiles. golang.org/x/text/cases is
// used here rather than strings.ToLower for a locale-independent Unicode
// lowercase transform, which strings.ToLower does not guarantee for all
// scripts.
var folder = cases.Fold()

// SplitDrive splits path into a drive/share prefix and the remainder,
// recognizing "X:" and UNC "\\server\share" prefixes only under the
// Windows profile. Under every other profile, drive is always empty.
func SplitDrive(p Profile, path string) (drive, tail string) {
	if p.OS != Windows {
		return "", path
	}

	// UNC path: \\server\share\...
	if len(path) >= 2 && p.isSeparator(rune(path[0])) && p.isSeparator(rune(path[1])) {
		rest := path[2:]
		// Find server then share, each terminated by a separator.
		firstSep := indexSeparator(p, rest)
		if firstSep < 0 {
			return "", path
		}
		server := rest[:firstSep]
		afterServer := rest[firstSep+1:]
		secondSep := indexSeparator(p, afterServer)
		if secondSep < 0 {
			return path, ""
		}
		share := afterServer[:secondSep]
		drive = string(path[0]) + string(path[1]) + server + string(rest[firstSep]) + share
		tail = afterServer[secondSep:]
		return drive, tail
	}

	// Drive letter: "X:"
	if len(path) >= 2 && isDriveLetter(path[0]) && path[1] == ':' {
		return path[:2], path[2:]
	}

	return "", path
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func indexSeparator(p Profile, s string) int {
	for i, r := range s {
		if p.isSeparator(r) {
			return i
		}
	}
	return -1
}

// IsAbs reports whether path is absolute under the profile.
func IsAbs(p Profile, path string) bool {
	_, tail := SplitDrive(p, path)
	return len(tail) > 0 && p.isSeparator(rune(tail[0]))
}

// Split splits path into (head, tail) such that head is everything up to
// and including the final separator, and tail is what follows, matching
// the host os.path.split/filepath.Split semantics for the active profile.
func Split(p Profile, path string) (head, tail string) {
	drive, rest := SplitDrive(p, path)
	idx := lastIndexSeparator(p, rest)
	if idx < 0 {
		return drive, rest
	}
	return drive + rest[:idx+1], rest[idx+1:]
}

func lastIndexSeparator(p Profile, s string) int {
	last := -1
	for i, r := range s {
		if p.isSeparator(r) {
			last = i
		}
	}
	return last
}

// Dirname returns the directory portion of path (trailing separators
// stripped, except for a bare root).
func Dirname(p Profile, path string) string {
	head, _ := Split(p, path)
	if head == "" {
		return "."
	}

	trimmed := strings.TrimRight(head, string(p.Separator)+stringOrEmpty(p.AltSeparator))
	if trimmed == "" {
		// head consisted entirely of separators (and possibly a drive): the
		// directory is the root itself, not ".".
		return string(head[len(head)-1])
	}
	return trimmed
}

func stringOrEmpty(r rune) string {
	if r == 0 {
		return ""
	}
	return string(r)
}

// Basename returns the final path component.
func Basename(p Profile, path string) string {
	_, tail := Split(p, path)
	return tail
}

// Join joins path elements with the profile's separator, then normalizes
// the result.
func Join(p Profile, elems ...string) string {
	nonEmpty := elems[:0:0]
	for _, e := range elems {
		if e != "" {
			nonEmpty = append(nonEmpty, e)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	return Normpath(p, strings.Join(nonEmpty, string(p.Separator)))
}

// Normpath collapses redundant separators and resolves "." and ".."
// components lexically (without touching the tree), matching
// os.path.normpath/filepath.Clean for the active profile.
func Normpath(p Profile, path string) string {
	if path == "" {
		return "."
	}

	drive, rest := SplitDrive(p, path)
	abs := len(rest) > 0 && p.isSeparator(rune(rest[0]))

	comps := Components(p, rest)

	var out []string
	for _, c := range comps {
		switch c {
		case ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
				continue
			}
			if abs {
				continue
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}

	sep := string(p.Separator)
	joined := strings.Join(out, sep)

	switch {
	case abs && joined == "":
		joined = sep
	case abs:
		joined = sep + joined
	case joined == "":
		joined = "."
	}

	return drive + joined
}

// Components splits the tail (post-drive) of a path into its non-empty
// segments, collapsing repeated separators.
func Components(p Profile, path string) []string {
	_, tail := SplitDrive(p, path)
	if tail == path {
		// no drive, nothing to strip; path already is the tail
		tail = path
	}

	var comps []string
	var cur strings.Builder
	for _, r := range tail {
		if p.isSeparator(r) {
			if cur.Len() > 0 {
				comps = append(comps, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		comps = append(comps, cur.String())
	}
	return comps
}

// CommonPath returns the longest common directory prefix of paths, or ""
// if they share none (including when they're on different drives).
func CommonPath(p Profile, paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	drive, _ := SplitDrive(p, paths[0])
	var sets [][]string
	for _, path := range paths {
		d, _ := SplitDrive(p, path)
		if !Matches(p, d, drive) {
			return ""
		}
		sets = append(sets, Components(p, path))
	}

	common := sets[0]
	for _, s := range sets[1:] {
		common = commonPrefix(p, common, s)
	}

	if len(common) == 0 {
		return drive
	}

	sep := string(p.Separator)
	root := drive
	if IsAbs(p, paths[0]) {
		root += sep
	}
	return root + strings.Join(common, sep)
}

func commonPrefix(p Profile, a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && Matches(p, a[i], b[i]) {
		i++
	}
	return a[:i]
}

// Matches compares two names (or full paths) under the profile's case
// policy: byte-for-byte on case-sensitive profiles, Unicode-case-folded
// otherwise.
func Matches(p Profile, a, b string) bool {
	if p.CaseSensitive {
		return a == b
	}
	return folder.String(a) == folder.String(b)
}

// FoldKey returns the canonical comparison key for name under the
// profile's case policy; directory entry indexes key on this so lookups
// are O(1) even when case-insensitive.
func FoldKey(p Profile, name string) string {
	if p.CaseSensitive {
		return name
	}
	return folder.String(name)
}
