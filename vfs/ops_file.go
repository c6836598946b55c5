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
	"github.com/fakefsgo/vfsemu/handle"
	"github.com/fakefsgo/vfsemu/inode"
	"github.com/fakefsgo/vfsemu/mount"
	"github.com/fakefsgo/vfsemu/perms"
	"github.com/fakefsgo/vfsemu/vfserr"
)

// inodeBackend adapts an *inode.Inode's Content slice to handle.Backend,
// so every open file object reads and writes through the same locking
// discipline as every other inode access. mnt is the mount the inode was
// opened under, used to enforce the mount's byte budget on growth.
type inodeBackend struct {
	in  *inode.Inode
	e   *Engine
	mnt *mount.Mount
}

func (b inodeBackend) ReadAt(off int64, p []byte) (int, error) {
	b.in.Lock()
	defer b.in.Unlock()
	if b.in.Kind == inode.Device {
		// a null-like sink: every read reports zero length, matching
		// /dev/null.
		return 0, nil
	}
	if off >= int64(len(b.in.Content)) {
		return 0, nil
	}
	n := copy(p, b.in.Content[off:])
	b.in.Atime = b.e.now()
	return n, nil
}

func (b inodeBackend) WriteAt(off int64, p []byte) (int, error) {
	b.in.Lock()
	defer b.in.Unlock()

	if b.in.Kind == inode.Device {
		// writes are silently discarded, matching /dev/null.
		b.in.Mtime = b.e.now()
		return len(p), nil
	}

	end := off + int64(len(p))
	grow := end - int64(len(b.in.Content))
	if grow > 0 && b.mnt != nil && !b.mnt.Reserve(grow) {
		return 0, vfserr.New(vfserr.NoSpace, "write", "")
	}

	if end > int64(len(b.in.Content)) {
		grown := make([]byte, end)
		copy(grown, b.in.Content)
		b.in.Content = grown
	}
	copy(b.in.Content[off:end], p)
	b.in.Mtime = b.e.now()
	return len(p), nil
}

func (b inodeBackend) Size() int64 {
	b.in.Lock()
	defer b.in.Unlock()
	return int64(len(b.in.Content))
}

func (b inodeBackend) Truncate(size int64) error {
	b.in.Lock()
	defer b.in.Unlock()
	if b.in.Kind == inode.Device {
		return nil
	}

	delta := size - int64(len(b.in.Content))
	if delta > 0 && b.mnt != nil && !b.mnt.Reserve(delta) {
		return vfserr.New(vfserr.NoSpace, "truncate", "")
	}

	if size <= int64(len(b.in.Content)) {
		b.in.Content = b.in.Content[:size]
	} else {
		grown := make([]byte, size)
		copy(grown, b.in.Content)
		b.in.Content = grown
	}
	if delta < 0 && b.mnt != nil {
		b.mnt.Reserve(delta)
	}
	b.in.Mtime = b.e.now()
	return nil
}

// Flush updates the inode's modification time, matching a descriptor
// flush that has no pending content to sync against in-memory storage.
func (b inodeBackend) Flush() error {
	b.in.Lock()
	defer b.in.Unlock()
	if b.in.Kind != inode.Device {
		b.in.Mtime = b.e.now()
	}
	return nil
}

// Open resolves path (creating it if flags includes handle.Create and it
// is absent) and returns a file handle bound to it.
func (e *Engine) Open(path string, flags handle.Flag, mode perms.Mode) (*handle.Handle, error) {
	if err := e.checkPaused("open", path); err != nil {
		return nil, err
	}
	in, abs, err := e.resolvePath(path, true)
	if err != nil {
		if flags&handle.Create == 0 {
			return nil, err
		}
		parent, name, fold, parentAbs, perr := e.resolveParent(path)
		if perr != nil {
			return nil, perr
		}
		if err := e.createChildFile(parent, name, fold, parentAbs, mode); err != nil {
			return nil, err
		}
		in, abs, err = e.resolvePath(path, true)
		if err != nil {
			return nil, err
		}
	} else if flags&handle.Exclusive != 0 {
		return nil, vfserr.New(vfserr.Exists, "open", path)
	}

	in.Lock()
	kind := in.Kind
	ownerUID, ownerGID, fmode := in.OwnerUID, in.OwnerGID, in.Mode
	in.Unlock()

	if kind == inode.Directory {
		return nil, vfserr.New(vfserr.IsADir, "open", path)
	}

	want := perms.Right(0)
	if flags&(handle.ReadOnly|handle.ReadWrite) != 0 {
		want |= perms.Read
	}
	if flags&(handle.WriteOnly|handle.ReadWrite|handle.Append) != 0 {
		want |= perms.Write
	}
	if !perms.Check(e.identity, ownerUID, ownerGID, fmode, want) {
		return nil, vfserr.New(vfserr.PermissionDenied, "open", path)
	}

	if flags&handle.Truncate != 0 {
		in.Lock()
		in.Content = nil
		in.Mtime = e.now()
		in.Unlock()
	}

	m, _ := e.mounts.MountFor(abs)
	return e.handles.Open(in.ID, flags, inodeBackend{in: in, e: e, mnt: m}), nil
}

func (e *Engine) createChildFile(parent *inode.Inode, name, fold, abs string, mode perms.Mode) error {
	parent.Lock()
	if _, exists := parent.Lookup(fold); exists {
		parent.Unlock()
		return vfserr.New(vfserr.Exists, "open", abs)
	}
	if !perms.Check(e.identity, parent.OwnerUID, parent.OwnerGID, parent.Mode, perms.Write) {
		parent.Unlock()
		return vfserr.New(vfserr.PermissionDenied, "open", abs)
	}
	parent.Unlock()

	now := e.now()
	id := e.inodes.Allocate()
	f := inode.NewRegularFile(id, perms.Apply(e.umask, mode), e.identity.Uid, e.identity.Gid, now)
	if m, _ := e.mounts.MountFor(abs); m != nil {
		f.DeviceID = m.DeviceID
	}
	e.inodes.Put(f)

	parent.Lock()
	parent.AddEntry(name, fold, id)
	parent.Mtime = now
	parent.Unlock()

	return nil
}

// Unlink removes a directory entry, deleting the underlying inode once
// both its link count reaches zero and no handle still references it.
func (e *Engine) Unlink(path string) error {
	if err := e.checkPaused("unlink", path); err != nil {
		return err
	}
	parent, _, fold, abs, err := e.resolveParent(path)
	if err != nil {
		return err
	}

	parent.Lock()
	childID, ok := parent.Lookup(fold)
	if !ok {
		parent.Unlock()
		return vfserr.New(vfserr.NotFound, "unlink", abs)
	}
	parent.Unlock()

	child := e.inodes.Get(childID)
	child.Lock()
	if child.Kind == inode.Directory {
		child.Unlock()
		return vfserr.New(vfserr.IsADir, "unlink", abs)
	}
	child.Unlock()

	parent.Lock()
	if perms.StickyBitBlocksDelete(e.identity, parent.Mode, parent.OwnerUID, child.OwnerUID) {
		parent.Unlock()
		return vfserr.New(vfserr.PermissionDenied, "unlink", abs)
	}
	parent.RemoveEntry(fold)
	parent.Mtime = e.now()
	parent.Unlock()

	child.Lock()
	child.NLink--
	child.Unlock()

	e.reclaimIfOrphaned(childID)
	return nil
}

// reclaimIfOrphaned deletes inodeID's inode and, for a regular file,
// releases its bytes back to the mount it was created under, but only
// once both its link count and its open-descriptor count have hit zero.
// It is the shared tail of Unlink and Close, the two operations that can
// drive either count to zero.
func (e *Engine) reclaimIfOrphaned(inodeID uint64) {
	in := e.inodes.Get(inodeID)
	if in == nil {
		return
	}

	in.Lock()
	nlink := in.NLink
	kind := in.Kind
	size := in.Size()
	deviceID := in.DeviceID
	in.Unlock()

	if nlink != 0 || len(e.handles.OpenOnInode(inodeID)) != 0 {
		return
	}

	e.inodes.Delete(inodeID)

	if kind == inode.RegularFile {
		if mnt := e.mounts.ByDeviceID(deviceID); mnt != nil {
			mnt.Reserve(-size)
		}
	}
}

// Close closes fd and, if it held the last open reference to an
// unlinked inode, reclaims that inode and releases its bytes back to its
// mount.
func (e *Engine) Close(fd uint64) error {
	h := e.handles.Get(fd)
	if err := e.handles.Close(fd); err != nil {
		return err
	}
	if h != nil {
		e.reclaimIfOrphaned(h.InodeID)
	}
	return nil
}

// Flush updates an open file's modification time, matching a Flush
// system call that has no buffered content to sync against in-memory
// storage.
func (e *Engine) Flush(fd uint64) error {
	h := e.handles.Get(fd)
	if h == nil {
		return vfserr.New(vfserr.BadDescriptor, "flush", "")
	}
	return h.Flush()
}

// Rename moves oldPath to newPath, replacing newPath if it already
// exists and is not a non-empty directory.
func (e *Engine) Rename(oldPath, newPath string) error {
	if err := e.checkPaused("rename", oldPath); err != nil {
		return err
	}
	oldParent, _, oldFold, oldAbs, err := e.resolveParent(oldPath)
	if err != nil {
		return err
	}
	newParent, newName, newFold, newAbs, err := e.resolveParent(newPath)
	if err != nil {
		return err
	}
	oldMount, _ := e.mounts.MountFor(oldAbs)
	newMount, _ := e.mounts.MountFor(newAbs)
	if oldMount != newMount {
		return vfserr.New(vfserr.CrossDevice, "rename", newAbs)
	}

	oldParent.Lock()
	childID, ok := oldParent.Lookup(oldFold)
	oldParent.Unlock()
	if !ok {
		return vfserr.New(vfserr.NotFound, "rename", oldAbs)
	}

	newParent.Lock()
	if existingID, exists := newParent.Lookup(newFold); exists {
		existing := e.inodes.Get(existingID)
		existing.Lock()
		existingKind := existing.Kind
		existingEmpty := existingKind != inode.Directory || existing.IsEmpty()
		existing.Unlock()
		if !existingEmpty {
			newParent.Unlock()
			return vfserr.New(vfserr.NotEmpty, "rename", newPath)
		}
		newParent.RemoveEntry(newFold)
		e.inodes.Delete(existingID)
	}

	if oldParent == newParent {
		oldParent.RenameEntry(oldFold, newName, newFold)
		oldParent.Mtime = e.now()
		newParent.Unlock()
		return nil
	}
	newParent.AddEntry(newName, newFold, childID)
	newParent.Mtime = e.now()
	newParent.Unlock()

	oldParent.Lock()
	oldParent.RemoveEntry(oldFold)
	oldParent.Mtime = e.now()
	oldParent.Unlock()

	return nil
}

// Link creates a new hard link newPath to the existing inode at
// oldPath.
func (e *Engine) Link(oldPath, newPath string) error {
	if err := e.checkPaused("link", oldPath); err != nil {
		return err
	}
	target, _, err := e.resolvePath(oldPath, true)
	if err != nil {
		return err
	}
	target.Lock()
	if target.Kind == inode.Directory {
		target.Unlock()
		return vfserr.New(vfserr.IsADir, "link", oldPath)
	}
	target.Unlock()

	parent, name, fold, abs, err := e.resolveParent(newPath)
	if err != nil {
		return err
	}

	parent.Lock()
	if _, exists := parent.Lookup(fold); exists {
		parent.Unlock()
		return vfserr.New(vfserr.Exists, "link", abs)
	}
	parent.AddEntry(name, fold, target.ID)
	parent.Mtime = e.now()
	parent.Unlock()

	target.Lock()
	target.NLink++
	target.Unlock()
	return nil
}

// Symlink creates a new symlink at linkPath pointing at target (which is
// not validated to exist, matching POSIX symlink(2)).
func (e *Engine) Symlink(target, linkPath string) error {
	if err := e.checkPaused("symlink", linkPath); err != nil {
		return err
	}
	parent, name, fold, abs, err := e.resolveParent(linkPath)
	if err != nil {
		return err
	}

	parent.Lock()
	if _, exists := parent.Lookup(fold); exists {
		parent.Unlock()
		return vfserr.New(vfserr.Exists, "symlink", abs)
	}
	parent.Unlock()

	now := e.now()
	id := e.inodes.Allocate()
	link := inode.NewSymlink(id, target, e.identity.Uid, e.identity.Gid, now)
	if m, _ := e.mounts.MountFor(abs); m != nil {
		link.DeviceID = m.DeviceID
	}
	e.inodes.Put(link)

	parent.Lock()
	parent.AddEntry(name, fold, id)
	parent.Mtime = now
	parent.Unlock()
	return nil
}

// Readlink returns a symlink's target string.
func (e *Engine) Readlink(path string) (string, error) {
	if err := e.checkPaused("readlink", path); err != nil {
		return "", err
	}
	in, abs, err := e.resolvePath(path, false)
	if err != nil {
		return "", err
	}
	in.Lock()
	defer in.Unlock()
	if in.Kind != inode.Symlink {
		return "", vfserr.New(vfserr.InvalidArgument, "readlink", abs)
	}
	return in.Target, nil
}

// Chmod changes an inode's mode bits.
func (e *Engine) Chmod(path string, mode perms.Mode, followSymlink bool) error {
	if err := e.checkPaused("chmod", path); err != nil {
		return err
	}
	in, _, err := e.resolvePath(path, followSymlink)
	if err != nil {
		return err
	}
	in.Lock()
	defer in.Unlock()
	if in.OwnerUID != e.identity.Uid && !(e.identity.Uid == 0 && e.identity.AllowRootOverride) {
		return vfserr.New(vfserr.PermissionDenied, "chmod", path)
	}
	in.Mode = mode
	in.Ctime = e.now()
	return nil
}

// Chown changes an inode's owning uid/gid. A value of ^uint32(0) leaves
// that field unchanged, matching chown(2)'s -1 sentinel.
func (e *Engine) Chown(path string, uid, gid uint32, followSymlink bool) error {
	if err := e.checkPaused("chown", path); err != nil {
		return err
	}
	in, _, err := e.resolvePath(path, followSymlink)
	if err != nil {
		return err
	}
	in.Lock()
	defer in.Unlock()
	if !(e.identity.Uid == 0 && e.identity.AllowRootOverride) {
		return vfserr.New(vfserr.PermissionDenied, "chown", path)
	}
	if uid != ^uint32(0) {
		in.OwnerUID = uid
	}
	if gid != ^uint32(0) {
		in.OwnerGID = gid
	}
	in.Ctime = e.now()
	return nil
}

// Access reports whether the current identity has want rights on path.
func (e *Engine) Access(path string, want perms.Right) bool {
	if e.Paused() {
		return false
	}
	in, _, err := e.resolvePath(path, true)
	if err != nil {
		return false
	}
	in.Lock()
	defer in.Unlock()
	return perms.Check(e.identity, in.OwnerUID, in.OwnerGID, in.Mode, want)
}

// Truncate resizes the regular file at path to size without requiring an
// open handle, matching os.Truncate/truncate(2).
func (e *Engine) Truncate(path string, size int64) error {
	if err := e.checkPaused("truncate", path); err != nil {
		return err
	}
	in, abs, err := e.resolvePath(path, true)
	if err != nil {
		return err
	}
	mnt, _ := e.mounts.MountFor(abs)

	in.Lock()
	defer in.Unlock()
	if in.Kind != inode.RegularFile {
		return vfserr.New(vfserr.InvalidArgument, "truncate", abs)
	}

	delta := size - int64(len(in.Content))
	if delta > 0 && mnt != nil && !mnt.Reserve(delta) {
		return vfserr.New(vfserr.NoSpace, "truncate", abs)
	}

	if size <= int64(len(in.Content)) {
		in.Content = in.Content[:size]
	} else {
		grown := make([]byte, size)
		copy(grown, in.Content)
		in.Content = grown
	}
	if delta < 0 && mnt != nil {
		mnt.Reserve(delta)
	}
	in.Mtime = e.now()
	return nil
}
