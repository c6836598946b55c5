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

package handle

import "sync"

// Table is the engine-wide table of open Handles, keyed by a monotonic
// descriptor number, mirroring a process's per-process file descriptor
// table.
type Table struct {
	mu      sync.Mutex
	next    uint64
	handles map[uint64]*Handle
}

// NewTable creates an empty table whose first descriptor is 3, leaving 0-2
// free to mirror stdin/stdout/stderr the way a real process's fd table
// does, so tests asserting on "the first fd returned by open" see
// familiar numbers.
func NewTable() *Table {
	return &Table{
		next:    3,
		handles: make(map[uint64]*Handle),
	}
}

// Open registers a new handle against backend and returns it, already
// inserted under its own freshly allocated descriptor.
func (t *Table) Open(inodeID uint64, flags Flag, backend Backend) *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.next
	t.next++

	h := New(id, inodeID, flags, backend)
	t.handles[id] = h
	return h
}

// Get returns the handle for a descriptor, or nil if unknown or already
// removed from the table via Close.
func (t *Table) Get(fd uint64) *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handles[fd]
}

// Close closes and removes fd's handle from the table. Closing an unknown
// fd is a no-op.
func (t *Table) Close(fd uint64) error {
	t.mu.Lock()
	h := t.handles[fd]
	delete(t.handles, fd)
	t.mu.Unlock()

	if h == nil {
		return nil
	}
	return h.Close()
}

// Dup registers a fresh descriptor sharing the same underlying Handle
// (and therefore the same cursor) as fd, matching dup(2) semantics.
func (t *Table) Dup(fd uint64) (uint64, *Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.handles[fd]
	if h == nil {
		return 0, nil
	}
	newID := t.next
	t.next++
	t.handles[newID] = h
	return newID, h
}

// OpenOnInode finds every live handle pointing at a given inode, used by
// the vfs package's orphan reclamation to detect "file still open" on
// unlink-while-open.
func (t *Table) OpenOnInode(inodeID uint64) []*Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []*Handle
	for _, h := range t.handles {
		if h.InodeID == inodeID && !h.Closed() {
			out = append(out, h)
		}
	}
	return out
}

// CloseAll closes every open handle, used by the pause/resume lifecycle's
// reset() operation.
func (t *Table) CloseAll() {
	t.mu.Lock()
	handles := make([]*Handle, 0, len(t.handles))
	for _, h := range t.handles {
		handles = append(handles, h)
	}
	t.handles = make(map[uint64]*Handle)
	t.mu.Unlock()

	for _, h := range handles {
		_ = h.Close()
	}
}
