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

package vfs

import (
	"github.com/fakefsgo/vfsemu/inode"
	"github.com/fakefsgo/vfsemu/mount"
	"github.com/fakefsgo/vfsemu/pathutil"
	"github.com/fakefsgo/vfsemu/vfserr"
)

// Pause suspends the engine until Resume is called, simulating an
// unavailable filesystem mid-test. While paused, the path-based
// operations return vfserr.IOError and Access/Exists/Lexists report
// false. Descriptor-based calls (Close, Flush, Handle methods),
// AddRealFile, AddRealDirectory, and the mount and disk-usage calls in
// this file are not blocked.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

// Resume un-suspends the engine.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

// Paused reports whether the engine is currently paused.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// checkPaused returns vfserr.IOError if the engine is currently paused;
// the path-based operations call this first (see Pause for the calls
// that do not).
func (e *Engine) checkPaused(op, path string) error {
	if e.Paused() {
		return vfserr.New(vfserr.IOError, op, path)
	}
	return nil
}

// AddMount registers a new mount point at path with the given byte
// budget, exposed so a test can simulate a second device (e.g. to
// exercise EXDEV on a cross-device rename).
func (e *Engine) AddMount(path string, totalBytes int64) {
	abs := pathutil.Normpath(e.profile, e.absPath(path))

	now := e.now()
	rootID := e.inodes.Allocate()
	root := inode.NewDirectory(rootID, 0o755, e.identity.Uid, e.identity.Gid, now)
	e.inodes.Put(root)

	m := e.mounts.Add(abs, totalBytes)
	m.RootInodeID = rootID
	root.DeviceID = m.DeviceID
}

// SetDiskUsage replaces the byte budget of the mount containing path.
func (e *Engine) SetDiskUsage(path string, totalBytes int64) {
	abs := pathutil.Normpath(e.profile, e.absPath(path))
	m, _ := e.mounts.MountFor(abs)
	m.SetTotal(totalBytes)
}

// DiskUsage returns (total, used, free) for the mount containing path.
func (e *Engine) DiskUsage(path string) (total, used, free int64) {
	abs := pathutil.Normpath(e.profile, e.absPath(path))
	m, _ := e.mounts.MountFor(abs)
	return m.Total(), m.Used(), m.Free()
}

// Mounts returns every mount currently registered, longest-prefix first.
func (e *Engine) Mounts() []*mount.Mount {
	return e.mounts.All()
}
