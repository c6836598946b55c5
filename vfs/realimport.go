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
	"github.com/fakefsgo/vfsemu/pathutil"
	"github.com/fakefsgo/vfsemu/perms"
	"github.com/fakefsgo/vfsemu/realimport"
	"github.com/fakefsgo/vfsemu/vfserr"
)

// AddRealFile imports a real host file's content at emulated path,
// reading it eagerly.
func (e *Engine) AddRealFile(hostPath, emulatedPath string) error {
	entry, err := realimport.ReadFile(e.reader, hostPath)
	if err != nil {
		return vfserr.New(vfserr.NotFound, "add_real_file", hostPath)
	}

	parent, name, fold, abs, err := e.resolveParent(emulatedPath)
	if err != nil {
		return err
	}

	now := e.now()
	id := e.inodes.Allocate()
	f := inode.NewRegularFile(id, perms.Mode(entry.Mode.Perm()), e.identity.Uid, e.identity.Gid, now)
	f.Content = entry.Content
	if m, _ := e.mounts.MountFor(abs); m != nil {
		f.DeviceID = m.DeviceID
	}
	e.inodes.Put(f)

	parent.Lock()
	if _, exists := parent.Lookup(fold); exists {
		parent.Unlock()
		return vfserr.New(vfserr.Exists, "add_real_file", abs)
	}
	parent.AddEntry(name, fold, id)
	parent.Mtime = now
	parent.Unlock()
	return nil
}

// AddRealDirectory imports a real host directory at emulatedPath,
// recording it for lazy listing: its children aren't read from disk
// until something scans or walks into it.
func (e *Engine) AddRealDirectory(hostPath, emulatedPath string) error {
	info, err := realimport.Stat(e.reader, hostPath)
	if err != nil || info.Kind != realimport.Directory {
		return vfserr.New(vfserr.NotFound, "add_real_directory", hostPath)
	}

	parent, name, fold, abs, err := e.resolveParent(emulatedPath)
	if err != nil {
		return err
	}

	now := e.now()
	id := e.inodes.Allocate()
	dir := inode.NewDirectory(id, perms.Mode(info.Mode.Perm()), e.identity.Uid, e.identity.Gid, now)
	dir.HostDir = hostPath
	if m, _ := e.mounts.MountFor(abs); m != nil {
		dir.DeviceID = m.DeviceID
	}
	e.inodes.Put(dir)

	parent.Lock()
	if _, exists := parent.Lookup(fold); exists {
		parent.Unlock()
		return vfserr.New(vfserr.Exists, "add_real_directory", abs)
	}
	parent.AddEntry(name, fold, id)
	parent.Mtime = now
	parent.Unlock()
	return nil
}

// AddRealSymlink imports a real host symlink's target at emulatedPath
// without validating the target resolves to anything.
func (e *Engine) AddRealSymlink(hostPath, emulatedPath string) error {
	entry, err := realimport.Stat(e.reader, hostPath)
	if err != nil || entry.Kind != realimport.Symlink {
		return vfserr.New(vfserr.NotFound, "add_real_symlink", hostPath)
	}
	return e.Symlink(entry.Target, emulatedPath)
}

// AddRealPaths imports every host path in paths, dispatching to
// AddRealFile/AddRealDirectory/AddRealSymlink by kind, placing each at
// the same path in the emulated tree as on the host (its parent
// directory must already exist there).
func (e *Engine) AddRealPaths(hostPaths []string) error {
	for _, hostPath := range hostPaths {
		entry, err := realimport.Stat(e.reader, hostPath)
		if err != nil {
			return vfserr.New(vfserr.NotFound, "add_real_paths", hostPath)
		}

		switch entry.Kind {
		case realimport.Directory:
			if err := e.AddRealDirectory(hostPath, hostPath); err != nil {
				return err
			}
		case realimport.Symlink:
			if err := e.AddRealSymlink(hostPath, hostPath); err != nil {
				return err
			}
		default:
			if err := e.AddRealFile(hostPath, hostPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// ensureMaterialized lists in's host directory (if it has one pending)
// and installs the resulting children, without holding in's lock across
// the blocking host I/O call.
func (e *Engine) ensureMaterialized(in *inode.Inode) error {
	in.Lock()
	hostDir := in.HostDir
	needs := in.NeedsHostMaterialization()
	deviceID := in.DeviceID
	in.Unlock()
	if !needs {
		return nil
	}

	entries, names, err := realimport.ListDirectory(e.reader, hostDir)
	if err != nil {
		return vfserr.New(vfserr.IOError, "scandir", hostDir)
	}

	now := e.now()
	dirEntries := make([]inode.DirEntry, 0, len(entries))
	for i, re := range entries {
		id := e.inodes.Allocate()
		var child *inode.Inode
		switch re.Kind {
		case realimport.Directory:
			child = inode.NewDirectory(id, perms.Mode(re.Mode.Perm()), e.identity.Uid, e.identity.Gid, now)
			child.HostDir = hostDir + string(e.profile.Separator) + names[i]
		case realimport.Symlink:
			child = inode.NewSymlink(id, re.Target, e.identity.Uid, e.identity.Gid, now)
		default:
			child = inode.NewRegularFile(id, perms.Mode(re.Mode.Perm()), e.identity.Uid, e.identity.Gid, now)
			child.Content = re.Content
		}
		child.DeviceID = deviceID
		e.inodes.Put(child)
		dirEntries = append(dirEntries, inode.DirEntry{
			Name:    names[i],
			FoldKey: pathutil.FoldKey(e.profile, names[i]),
			Child:   id,
		})
	}

	in.Lock()
	if in.NeedsHostMaterialization() {
		in.MaterializeHost(dirEntries)
	}
	in.Unlock()
	return nil
}
