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

// Package inode implements the in-memory inode store: every regular
// file, directory, symlink, and device node the engine knows about, plus
// the allocator that mints fresh inode numbers and the store that indexes
// inodes by number for O(1) lookup.
//
// LOCK ORDERING. Each Inode has its own mutex guarding its fields and (for
// directories) its entry list. The Store's mutex guards only the id->Inode
// map itself. Code that must hold both locks always acquires the Store's
// lock first, then an Inode's lock.
package inode

import (
	"fmt"
	"sort"
	"time"

	"github.com/fakefsgo/vfsemu/perms"
	"github.com/jacobsa/syncutil"
)

// Kind identifies what sort of inode this is.
type Kind int

const (
	RegularFile Kind = iota
	Directory
	Symlink
	Device
)

// DirEntry is one name->child mapping inside a directory, in the order it
// was created, per the invariant that "directory entries preserve
// creation order unless shuffle_listdir_results is enabled."
type DirEntry struct {
	Name string
	// FoldKey is the case-folded comparison key for Name under the
	// engine's active profile, used for O(1) case-insensitive lookup.
	FoldKey string
	Child   uint64
}

// Inode is one filesystem object: its metadata plus, for directories, its
// children, or for regular files, its byte content, or for symlinks, its
// target string.
type Inode struct {
	mu syncutil.InvariantMutex

	ID      uint64
	Kind    Kind
	Mode    perms.Mode
	OwnerUID uint32
	OwnerGID uint32
	// DeviceID is the device id of the mount this inode was created under,
	// stamped once at creation time. Reclaiming an orphaned inode (Unlink
	// or Close dropping its last reference) uses it to find the right
	// mount.Table.ByDeviceID entry to release its bytes back to, without
	// needing to re-resolve a path or keep a *mount.Mount pointer on the
	// inode itself.
	DeviceID uint64

	Atime time.Time
	Mtime time.Time
	Ctime time.Time

	NLink uint32

	// Xattr holds extended attributes. The engine accepts them under every
	// profile, not only Linux. Values are copied in and out to prevent
	// callers from mutating stored bytes through an alias.
	Xattr map[string][]byte

	// Content is the byte payload of a RegularFile inode.
	Content []byte

	// Target is the textual target of a Symlink inode.
	Target string

	// entries holds the ordered children of a Directory inode; index
	// mirrors entries by FoldKey for O(1) lookup.
	entries []DirEntry
	index   map[string]int

	// HostDir, when non-empty, names a real host directory this inode
	// was lazily imported from: its children have not yet been listed.
	// Cleared once the vfs package materializes them via MaterializeHost.
	HostDir string

	// RDevMajor/RDevMinor identify a Device inode (spec's /dev/null-style
	// supplemented nodes); unused for other kinds.
	RDevMajor, RDevMinor uint32
}

// NewDirectory builds an empty directory inode.
func NewDirectory(id uint64, mode perms.Mode, uid, gid uint32, now time.Time) *Inode {
	in := &Inode{
		ID:       id,
		Kind:     Directory,
		Mode:     mode,
		OwnerUID: uid,
		OwnerGID: gid,
		Atime:    now,
		Mtime:    now,
		Ctime:    now,
		NLink:    2, // "." and the entry in the parent
		index:    make(map[string]int),
	}
	in.mu = syncutil.NewInvariantMutex(in.checkInvariants)
	return in
}

// NewRegularFile builds an empty regular file inode.
func NewRegularFile(id uint64, mode perms.Mode, uid, gid uint32, now time.Time) *Inode {
	in := &Inode{
		ID:       id,
		Kind:     RegularFile,
		Mode:     mode,
		OwnerUID: uid,
		OwnerGID: gid,
		Atime:    now,
		Mtime:    now,
		Ctime:    now,
		NLink:    1,
	}
	in.mu = syncutil.NewInvariantMutex(in.checkInvariants)
	return in
}

// NewSymlink builds a symlink inode pointing at target.
func NewSymlink(id uint64, target string, uid, gid uint32, now time.Time) *Inode {
	in := &Inode{
		ID:       id,
		Kind:     Symlink,
		Mode:     0o777,
		OwnerUID: uid,
		OwnerGID: gid,
		Target:   target,
		Atime:    now,
		Mtime:    now,
		Ctime:    now,
		NLink:    1,
	}
	in.mu = syncutil.NewInvariantMutex(in.checkInvariants)
	return in
}

// NewDevice builds a device-node inode (e.g. the supplemented /dev/null).
func NewDevice(id uint64, major, minor uint32, uid, gid uint32, now time.Time) *Inode {
	in := &Inode{
		ID:        id,
		Kind:      Device,
		Mode:      0o666,
		OwnerUID:  uid,
		OwnerGID:  gid,
		RDevMajor: major,
		RDevMinor: minor,
		Atime:     now,
		Mtime:     now,
		Ctime:     now,
		NLink:     1,
	}
	in.mu = syncutil.NewInvariantMutex(in.checkInvariants)
	return in
}

// checkInvariants verifies that the directory index mirrors entries
// exactly; the InvariantMutex calls this automatically around every
// Lock/Unlock. Caller must hold in's lock.
func (in *Inode) checkInvariants() {
	if in.Kind != Directory {
		return
	}
	if len(in.index) != len(in.entries) {
		panic(fmt.Sprintf("inode %d: index has %d keys but entries has %d", in.ID, len(in.index), len(in.entries)))
	}
	for i, ent := range in.entries {
		j, ok := in.index[ent.FoldKey]
		if !ok || j != i {
			panic(fmt.Sprintf("inode %d: index[%q] = %d, want %d", in.ID, ent.FoldKey, j, i))
		}
	}
}

// Lock/Unlock expose the inode's mutex for callers (the resolver, the
// operation surface) that must hold it across a multi-field read-modify-
// write sequence.
func (in *Inode) Lock()   { in.mu.Lock() }
func (in *Inode) Unlock() { in.mu.Unlock() }

// Size returns the inode's reported byte size: content length for regular
// files, target length for symlinks, the number of entries for
// directories, and 0 for devices. Caller must hold in's lock.
func (in *Inode) Size() int64 {
	switch in.Kind {
	case RegularFile:
		return int64(len(in.Content))
	case Symlink:
		return int64(len(in.Target))
	default:
		return int64(len(in.entries)) * 4096 / 4096 // equals the entry count
	}
}

// Lookup returns the child inode id for name within a directory inode
// under fold, or false if absent. Caller must hold in's lock.
func (in *Inode) Lookup(fold string) (uint64, bool) {
	i, ok := in.index[fold]
	if !ok {
		return 0, false
	}
	return in.entries[i].Child, true
}

// AddEntry appends a new directory entry. Caller must hold in's lock and
// must have already verified the name does not exist (per Lookup).
func (in *Inode) AddEntry(name, fold string, child uint64) {
	in.index[fold] = len(in.entries)
	in.entries = append(in.entries, DirEntry{Name: name, FoldKey: fold, Child: child})
}

// RemoveEntry deletes the directory entry keyed by fold, if present,
// preserving the relative order of the remaining entries. Caller must
// hold in's lock.
func (in *Inode) RemoveEntry(fold string) {
	i, ok := in.index[fold]
	if !ok {
		return
	}
	in.entries = append(in.entries[:i], in.entries[i+1:]...)
	delete(in.index, fold)
	for k, v := range in.index {
		if v > i {
			in.index[k] = v - 1
		}
	}
}

// RenameEntry changes the Name/FoldKey under which a child is indexed,
// used when a directory entry is renamed in place (same parent). Caller
// must hold in's lock.
func (in *Inode) RenameEntry(oldFold, newName, newFold string) {
	i, ok := in.index[oldFold]
	if !ok {
		return
	}
	in.entries[i].Name = newName
	in.entries[i].FoldKey = newFold
	delete(in.index, oldFold)
	in.index[newFold] = i
}

// Entries returns a copy of the directory's entries in creation order.
// Caller must hold in's lock.
func (in *Inode) Entries() []DirEntry {
	out := make([]DirEntry, len(in.entries))
	copy(out, in.entries)
	return out
}

// EntriesShuffled returns the directory's entries in an order determined
// by shuffle, a caller-supplied deterministic permutation function (the
// engine seeds it from its own PRNG, reseeded by Reset, so results are
// reproducible between resets), matching shuffle_listdir_results. Caller must
// hold in's lock.
func (in *Inode) EntriesShuffled(shuffle func(n int, swap func(i, j int))) []DirEntry {
	out := in.Entries()
	shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// EntriesSorted returns the directory's entries sorted by Name (plain
// byte order, not case-folded),
// used by walk operations that want deterministic traversal order
// regardless of creation order.
func (in *Inode) EntriesSorted() []DirEntry {
	out := in.Entries()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsEmpty reports whether a directory inode has no entries beyond "." and
// "..", which the store does not materialize as real entries. Caller
// must hold in's lock.
func (in *Inode) IsEmpty() bool {
	return len(in.entries) == 0
}

// GetXattr returns a copy of the named extended attribute's value. Caller
// must hold in's lock.
func (in *Inode) GetXattr(name string) ([]byte, bool) {
	v, ok := in.Xattr[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// SetXattr stores a copy of value under name, replacing any prior value.
// Caller must hold in's lock.
func (in *Inode) SetXattr(name string, value []byte) {
	if in.Xattr == nil {
		in.Xattr = make(map[string][]byte)
	}
	in.Xattr[name] = append([]byte(nil), value...)
}

// RemoveXattr deletes the named extended attribute, if present. Caller
// must hold in's lock.
func (in *Inode) RemoveXattr(name string) bool {
	if _, ok := in.Xattr[name]; !ok {
		return false
	}
	delete(in.Xattr, name)
	return true
}

// ListXattr returns the names of every extended attribute set on this
// inode. Caller must hold in's lock.
func (in *Inode) ListXattr() []string {
	names := make([]string, 0, len(in.Xattr))
	for name := range in.Xattr {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NeedsHostMaterialization reports whether this directory was imported
// lazily from a host path and has not yet had its children listed.
// Caller must hold in's lock.
func (in *Inode) NeedsHostMaterialization() bool {
	return in.HostDir != ""
}

// MaterializeHost installs freshly-listed children (computed by the vfs
// package from in.HostDir) and clears the pending-import marker. Caller
// must hold in's lock.
func (in *Inode) MaterializeHost(entries []DirEntry) {
	for _, e := range entries {
		in.index[e.FoldKey] = len(in.entries)
		in.entries = append(in.entries, e)
	}
	in.HostDir = ""
}
