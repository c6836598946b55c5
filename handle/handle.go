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

// Package handle implements the open-file-object table: one entry per
// successful open() call, tracking the cursor, the requested flags, and
// the text/binary decoding mode, independent of the underlying inode.
// Two handles opened against the same inode have independent cursors,
// matching POSIX open-file-description semantics.
package handle

import (
	"sync"

	"github.com/fakefsgo/vfsemu/vfserr"
)

// Flag is a bitmask of the flags an open() call was made with.
type Flag uint32

const (
	ReadOnly Flag = 1 << iota
	WriteOnly
	ReadWrite
	Append
	Create
	Truncate
	Exclusive
	Binary
)

// Handle is one open file object: the inode it targets, its cursor, and
// the mode it was opened under. Concurrent Read/Write/Seek calls against
// the same handle are serialized by mu.
type Handle struct {
	mu sync.Mutex

	ID       uint64
	InodeID  uint64
	Flags    Flag
	closed   bool
	offset   int64

	// Encoding records a text codec name for the handle ("" meaning
	// UTF-8). Read and Write do not consult it: they move raw bytes
	// whether or not the handle is in binary mode.
	Encoding string

	readFn          func(off int64, p []byte) (int, error)
	writeFn         func(off int64, p []byte) (int, error)
	sizeFn          func() int64
	backendTruncate func(int64) error
	backendFlush    func() error
}

// Backend abstracts the byte storage a Handle reads and writes, letting
// the vfs package supply the inode's content slice without handle
// importing the inode package (keeping the dependency direction
// pathutil/perms/vfserr -> inode -> handle -> vfs instead of a cycle).
type Backend interface {
	ReadAt(off int64, p []byte) (int, error)
	WriteAt(off int64, p []byte) (int, error)
	Size() int64
	Truncate(size int64) error
	Flush() error
}

// New creates a handle bound to backend, starting at offset 0 (or at the
// backend's current size if opened with Append).
func New(id, inodeID uint64, flags Flag, backend Backend) *Handle {
	h := &Handle{
		ID:              id,
		InodeID:         inodeID,
		Flags:           flags,
		readFn:          backend.ReadAt,
		writeFn:         backend.WriteAt,
		sizeFn:          backend.Size,
		backendTruncate: backend.Truncate,
		backendFlush:    backend.Flush,
	}
	if flags&Append != 0 {
		h.offset = backend.Size()
	}
	return h
}

func (h *Handle) readable() bool {
	return h.Flags&ReadOnly != 0 || h.Flags&ReadWrite != 0
}

func (h *Handle) writable() bool {
	return h.Flags&WriteOnly != 0 || h.Flags&ReadWrite != 0 || h.Flags&Append != 0
}

// Read reads up to len(p) bytes starting at the handle's current cursor,
// advancing the cursor by the number of bytes read.
func (h *Handle) Read(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, vfserr.New(vfserr.BadDescriptor, "read", "")
	}
	if !h.readable() {
		return 0, vfserr.New(vfserr.BadDescriptor, "read", "")
	}

	n, err := h.readFn(h.offset, p)
	h.offset += int64(n)
	return n, err
}

// Write writes len(p) bytes at the handle's current cursor (or at EOF if
// opened with Append, re-seeking to the backend's end before every write
// regardless of earlier seeks), advancing the cursor. Only this handle's
// own lock is held, so two handles appending at once are not serialized
// against each other.
func (h *Handle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, vfserr.New(vfserr.BadDescriptor, "write", "")
	}
	if !h.writable() {
		return 0, vfserr.New(vfserr.BadDescriptor, "write", "")
	}

	if h.Flags&Append != 0 {
		h.offset = h.sizeFn()
	}

	n, err := h.writeFn(h.offset, p)
	h.offset += int64(n)
	return n, err
}

// Whence mirrors io.Seeker's whence values without importing io, so
// handle has no stdlib-interface coupling beyond what it needs.
type Whence int

const (
	SeekStart Whence = iota
	SeekCurrent
	SeekEnd
)

// Seek repositions the handle's cursor and returns the new offset.
func (h *Handle) Seek(offset int64, whence Whence) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, vfserr.New(vfserr.BadDescriptor, "seek", "")
	}

	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = h.offset
	case SeekEnd:
		base = h.sizeFn()
	}

	next := base + offset
	if next < 0 {
		return 0, vfserr.New(vfserr.InvalidArgument, "seek", "")
	}
	h.offset = next
	return h.offset, nil
}

// Tell returns the handle's current cursor without moving it.
func (h *Handle) Tell() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.offset
}

// Truncate resizes the backend to size, matching ftruncate(2)/file.truncate().
func (h *Handle) Truncate(size int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || !h.writable() {
		return vfserr.New(vfserr.BadDescriptor, "truncate", "")
	}
	return h.backendTruncate(size)
}

// Flush updates the backend's timestamps without closing the handle,
// matching a flush() call made before further reads/writes continue
// against the same descriptor.
func (h *Handle) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return vfserr.New(vfserr.BadDescriptor, "flush", "")
	}
	return h.backendFlush()
}

// Close marks the handle unusable for further Read/Write/Seek calls.
// Closing an already-closed handle is idempotent.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
