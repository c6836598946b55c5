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

// Package mount maintains the table of mount points: a root directory
// inode, an absolute mount path, a device id, and a disk-size budget per
// mount, with longest-prefix lookup and per-mount disk accounting.
package mount

import (
	"sort"
	"strings"
	"sync"

	"github.com/fakefsgo/vfsemu/pathutil"
	"github.com/google/uuid"
)

// DefaultWindowsDriveSize is the budget auto-assigned to a Windows drive
// letter mount created lazily on first reference (≈1 TiB).
const DefaultWindowsDriveSize int64 = 1 << 40

// Mount is one mount point: a root inode id, an absolute path, a device
// id, and byte accounting.
type Mount struct {
	Path     string
	RootInodeID uint64
	DeviceID uint64

	mu    sync.Mutex
	total int64
	used  int64
}

// NewDeviceID synthesizes a process-unique device id from a fresh UUID,
// rather than a bare incrementing counter, so device ids collected across
// separate engine instances (e.g. across a test run's parallel packages)
// never accidentally collide in a way a test could depend on.
func NewDeviceID() uint64 {
	id := uuid.New()
	var v uint64
	for _, b := range id[:8] {
		v = v<<8 | uint64(b)
	}
	return v
}

// Total returns the mount's byte budget.
func (m *Mount) Total() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Used returns the mount's current byte usage.
func (m *Mount) Used() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}

// Free returns Total - Used.
func (m *Mount) Free() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total - m.used
}

// SetTotal replaces the mount's byte budget, used by the engine's
// set_disk_usage API.
func (m *Mount) SetTotal(total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
}

// Reserve attempts to account for delta additional bytes of usage,
// failing if doing so would exceed the mount's total budget. A negative
// delta always succeeds (freeing space).
func (m *Mount) Reserve(delta int64) (ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if delta <= 0 {
		m.used += delta
		if m.used < 0 {
			m.used = 0
		}
		return true
	}

	if m.used+delta > m.total {
		return false
	}

	m.used += delta
	return true
}

// Table is the ordered collection of mounts, kept sorted by path-prefix
// length (longest first) so MountFor resolves to the most specific mount
// containing a path.
type Table struct {
	mu      sync.Mutex
	profile pathutil.Profile
	mounts  []*Mount
	nextInodeForDrive func() uint64
}

// NewTable creates a table with a single root mount "/" (or the profile's
// equivalent); the engine always starts with at least one root mount.
func NewTable(profile pathutil.Profile, rootInodeID uint64, totalBytes int64) *Table {
	root := &Mount{
		Path:        rootPath(profile),
		RootInodeID: rootInodeID,
		DeviceID:    NewDeviceID(),
		total:       totalBytes,
	}

	return &Table{
		profile: profile,
		mounts:  []*Mount{root},
	}
}

func rootPath(p pathutil.Profile) string {
	return string(p.Separator)
}

// SetNextInodeForDrive installs the callback the table uses to mint a
// root inode id when it auto-creates a Windows drive mount on first
// reference. The engine wires this to its own inode allocator.
func (t *Table) SetNextInodeForDrive(f func() uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextInodeForDrive = f
}

// Add registers a new mount at path with the given byte budget, returning
// it. Path must not already be the root of an existing mount.
func (t *Table) Add(path string, totalBytes int64) *Mount {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := &Mount{
		Path:     path,
		DeviceID: NewDeviceID(),
		total:    totalBytes,
	}
	if t.nextInodeForDrive != nil {
		m.RootInodeID = t.nextInodeForDrive()
	}

	t.mounts = append(t.mounts, m)
	t.sortLocked()
	return m
}

func (t *Table) sortLocked() {
	sort.Slice(t.mounts, func(i, j int) bool {
		return len(t.mounts[i].Path) > len(t.mounts[j].Path)
	})
}

// MountFor returns the most specific mount containing path and path's
// location relative to that mount's root. On the Windows profile, if no
// drive-letter mount exists yet for the path's drive, one is created
// lazily with DefaultWindowsDriveSize.
func (t *Table) MountFor(path string) (m *Mount, relative string) {
	t.mu.Lock()

	drive, _ := pathutil.SplitDrive(t.profile, path)

	for _, candidate := range t.mounts {
		if within(t.profile, candidate.Path, path) {
			t.mu.Unlock()
			return candidate, trimPrefix(t.profile, candidate.Path, path)
		}
	}

	if t.profile.OS == pathutil.Windows && drive != "" {
		t.mu.Unlock()
		mnt := t.Add(drive+string(t.profile.Separator), DefaultWindowsDriveSize)
		return mnt, trimPrefix(t.profile, mnt.Path, path)
	}

	// Fall back to the root mount (the longest-prefix match always
	// includes it since every mount is added under "/").
	root := t.mounts[len(t.mounts)-1]
	t.mu.Unlock()
	return root, trimPrefix(t.profile, root.Path, path)
}

func within(p pathutil.Profile, mountPath, target string) bool {
	norm := pathutil.Normpath(p, target)
	if pathutil.Matches(p, norm, mountPath) {
		return true
	}
	prefix := mountPath
	if !strings.HasSuffix(prefix, string(p.Separator)) {
		prefix += string(p.Separator)
	}
	return len(norm) >= len(prefix) && pathutil.Matches(p, norm[:len(prefix)], prefix)
}

func trimPrefix(p pathutil.Profile, mountPath, target string) string {
	norm := pathutil.Normpath(p, target)
	if pathutil.Matches(p, norm, mountPath) {
		return string(p.Separator)
	}
	prefix := mountPath
	if !strings.HasSuffix(prefix, string(p.Separator)) {
		prefix += string(p.Separator)
	}
	return string(p.Separator) + norm[len(prefix):]
}

// ByDeviceID returns the mount with the given device id, or nil if none
// matches, used to route a reclaimed inode's freed bytes back to the
// mount it was created under.
func (t *Table) ByDeviceID(id uint64) *Mount {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.mounts {
		if m.DeviceID == id {
			return m
		}
	}
	return nil
}

// All returns every mount currently in the table, longest-prefix first.
func (t *Table) All() []*Mount {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Mount, len(t.mounts))
	copy(out, t.mounts)
	return out
}
