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
	"github.com/fakefsgo/vfsemu/vfserr"
)

// Mkdir creates a single directory. If parents is true, missing
// intermediate directories are created too (mkdir -p / os.MkdirAll
// semantics); otherwise a missing intermediate directory is reported as
// NotFound.
func (e *Engine) Mkdir(path string, mode perms.Mode, parents bool) error {
	if err := e.checkPaused("mkdir", path); err != nil {
		return err
	}
	abs := pathutil.Normpath(e.profile, e.absPath(path))

	if parents {
		return e.mkdirAll(abs, mode)
	}

	parent, name, fold, abs, err := e.resolveParent(abs)
	if err != nil {
		return err
	}
	return e.createChildDir(parent, name, fold, abs, mode)
}

func (e *Engine) mkdirAll(abs string, mode perms.Mode) error {
	comps := pathutil.Components(e.profile, abs)
	cur := e.rootInode()
	curPath := string(e.profile.Separator)

	for _, comp := range comps {
		cur = e.mountRootAt(curPath, cur)
		nextPath := pathutil.Join(e.profile, curPath, comp)
		fold := pathutil.FoldKey(e.profile, comp)

		cur.Lock()
		childID, ok := cur.Lookup(fold)
		cur.Unlock()

		if ok {
			child := e.inodes.Get(childID)
			child.Lock()
			kind := child.Kind
			child.Unlock()
			if kind != inode.Directory {
				return vfserr.New(vfserr.NotADir, "mkdir", nextPath)
			}
			cur = child
			curPath = nextPath
			continue
		}

		if err := e.createChildDir(cur, comp, fold, nextPath, mode); err != nil {
			return err
		}
		cur.Lock()
		childID, _ = cur.Lookup(fold)
		cur.Unlock()
		cur = e.inodes.Get(childID)
		curPath = nextPath
	}
	return nil
}

func (e *Engine) createChildDir(parent *inode.Inode, name, fold, abs string, mode perms.Mode) error {
	parent.Lock()
	if _, exists := parent.Lookup(fold); exists {
		parent.Unlock()
		return vfserr.New(vfserr.Exists, "mkdir", abs)
	}
	if !perms.Check(e.identity, parent.OwnerUID, parent.OwnerGID, parent.Mode, perms.Write) {
		parent.Unlock()
		return vfserr.New(vfserr.PermissionDenied, "mkdir", abs)
	}
	parent.Unlock()

	now := e.now()
	id := e.inodes.Allocate()
	dir := inode.NewDirectory(id, perms.Apply(e.umask, mode), e.identity.Uid, e.identity.Gid, now)
	if m, _ := e.mounts.MountFor(abs); m != nil {
		dir.DeviceID = m.DeviceID
	}
	e.inodes.Put(dir)

	parent.Lock()
	parent.AddEntry(name, fold, id)
	parent.Mtime = now
	parent.Unlock()

	return nil
}

// Rmdir removes an empty directory.
func (e *Engine) Rmdir(path string) error {
	if err := e.checkPaused("rmdir", path); err != nil {
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
		return vfserr.New(vfserr.NotFound, "rmdir", abs)
	}
	parent.Unlock()

	child := e.inodes.Get(childID)
	child.Lock()
	if child.Kind != inode.Directory {
		child.Unlock()
		return vfserr.New(vfserr.NotADir, "rmdir", abs)
	}
	if !child.IsEmpty() {
		child.Unlock()
		return vfserr.New(vfserr.NotEmpty, "rmdir", abs)
	}
	child.Unlock()

	parent.Lock()
	if perms.StickyBitBlocksDelete(e.identity, parent.Mode, parent.OwnerUID, child.OwnerUID) {
		parent.Unlock()
		return vfserr.New(vfserr.PermissionDenied, "rmdir", abs)
	}
	parent.RemoveEntry(fold)
	parent.Mtime = e.now()
	parent.Unlock()

	e.inodes.Delete(childID)
	return nil
}

// Scandir returns a directory's entries, in creation order unless the
// engine was configured with shuffle_listdir_results.
func (e *Engine) Scandir(path string) ([]string, error) {
	if err := e.checkPaused("scandir", path); err != nil {
		return nil, err
	}
	in, _, err := e.resolvePath(path, true)
	if err != nil {
		return nil, err
	}

	if err := e.ensureMaterialized(in); err != nil {
		return nil, err
	}

	in.Lock()
	defer in.Unlock()
	if in.Kind != inode.Directory {
		return nil, vfserr.New(vfserr.NotADir, "scandir", path)
	}

	var entries []inode.DirEntry
	if e.cfg.ShuffleListdirResults {
		entries = in.EntriesShuffled(e.shuffle)
	} else {
		entries = in.Entries()
	}

	names := make([]string, len(entries))
	for i, ent := range entries {
		names[i] = ent.Name
	}
	return names, nil
}

// WalkEntry is one entry produced by Walk, mirroring os.DirEntry's
// relevant subset.
type WalkEntry struct {
	Path  string
	Name  string
	IsDir bool
}

// Walk visits path and every descendant in deterministic (name-sorted)
// order, depth first, calling fn for each. It stops and returns fn's
// error if fn returns non-nil.
func (e *Engine) Walk(path string, fn func(WalkEntry) error) error {
	if err := e.checkPaused("walk", path); err != nil {
		return err
	}
	in, abs, err := e.resolvePath(path, true)
	if err != nil {
		return err
	}
	return e.walkRecursive(in, abs, fn)
}

func (e *Engine) walkRecursive(in *inode.Inode, abs string, fn func(WalkEntry) error) error {
	if err := e.ensureMaterialized(in); err != nil {
		return err
	}

	in.Lock()
	kind := in.Kind
	var entries []inode.DirEntry
	if kind == inode.Directory {
		entries = in.EntriesSorted()
	}
	in.Unlock()

	if err := fn(WalkEntry{Path: abs, Name: pathutil.Basename(e.profile, abs), IsDir: kind == inode.Directory}); err != nil {
		return err
	}

	for _, ent := range entries {
		child := e.inodes.Get(ent.Child)
		if child == nil {
			continue
		}
		childPath := pathutil.Join(e.profile, abs, ent.Name)
		if err := e.walkRecursive(child, childPath, fn); err != nil {
			return err
		}
	}
	return nil
}
