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
	"time"

	"github.com/fakefsgo/vfsemu/inode"
	"github.com/fakefsgo/vfsemu/perms"
)

// FileInfo is the engine's stat(2)-equivalent result: the subset of
// inode metadata a caller can observe without holding any lock.
type FileInfo struct {
	InodeID  uint64
	Kind     inode.Kind
	Mode     perms.Mode
	Size     int64
	OwnerUID uint32
	OwnerGID uint32
	NLink    uint32
	DeviceID uint64
	Atime    time.Time
	Mtime    time.Time
	Ctime    time.Time
}

func snapshot(in *inode.Inode, deviceID uint64) FileInfo {
	in.Lock()
	defer in.Unlock()
	return FileInfo{
		InodeID:  in.ID,
		Kind:     in.Kind,
		Mode:     in.Mode,
		Size:     in.Size(),
		OwnerUID: in.OwnerUID,
		OwnerGID: in.OwnerGID,
		NLink:    in.NLink,
		DeviceID: deviceID,
		Atime:    in.Atime,
		Mtime:    in.Mtime,
		Ctime:    in.Ctime,
	}
}

// Stat follows the final symlink if path names one.
func (e *Engine) Stat(path string) (FileInfo, error) {
	if err := e.checkPaused("stat", path); err != nil {
		return FileInfo{}, err
	}
	in, abs, err := e.resolvePath(path, true)
	if err != nil {
		return FileInfo{}, err
	}
	m, _ := e.mounts.MountFor(abs)
	return snapshot(in, m.DeviceID), nil
}

// Lstat does not follow a final symlink.
func (e *Engine) Lstat(path string) (FileInfo, error) {
	if err := e.checkPaused("lstat", path); err != nil {
		return FileInfo{}, err
	}
	in, abs, err := e.resolvePath(path, false)
	if err != nil {
		return FileInfo{}, err
	}
	m, _ := e.mounts.MountFor(abs)
	return snapshot(in, m.DeviceID), nil
}

// Exists reports whether path resolves to anything, following a final
// symlink.
func (e *Engine) Exists(path string) bool {
	if e.Paused() {
		return false
	}
	_, _, err := e.resolvePath(path, true)
	return err == nil
}

// Lexists reports whether path resolves to anything without following a
// final symlink (so a broken symlink still counts).
func (e *Engine) Lexists(path string) bool {
	if e.Paused() {
		return false
	}
	_, _, err := e.resolvePath(path, false)
	return err == nil
}
