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
	"github.com/fakefsgo/vfsemu/vfserr"
)

// maxSymlinkFollows bounds the number of symlink indirections a single
// resolution may chase before reporting ELOOP. The profile's
// MaxSymlinkDepth field is not consulted.
const maxSymlinkFollows = 40

// resolvePath resolves path (absolute or cwd-relative) to its target
// inode. If followFinal is true and the final component is a symlink, it
// is followed too; otherwise the symlink inode itself is returned
// (lstat-style).
func (e *Engine) resolvePath(path string, followFinal bool) (*inode.Inode, string, error) {
	abs := pathutil.Normpath(e.profile, e.absPath(path))
	comps := pathutil.Components(e.profile, abs)

	cur := e.rootInode()
	curPath := string(e.profile.Separator)

	in, resolvedPath, err := e.walk(cur, curPath, comps, followFinal, 0)
	if err != nil {
		return nil, "", err
	}
	return in, resolvedPath, nil
}

// resolveParent resolves the directory containing path's final
// component, without requiring that component to exist. It returns the
// parent inode, the final component's literal name, its case-fold key,
// and the path's normalized absolute form.
func (e *Engine) resolveParent(path string) (parent *inode.Inode, name, fold, abs string, err error) {
	abs = pathutil.Normpath(e.profile, e.absPath(path))
	dir := pathutil.Dirname(e.profile, abs)
	name = pathutil.Basename(e.profile, abs)
	if name == "" {
		return nil, "", "", "", vfserr.New(vfserr.InvalidArgument, "resolve", abs)
	}

	parent, _, err = e.resolvePath(dir, true)
	if err != nil {
		return nil, "", "", "", err
	}

	parent.Lock()
	kind := parent.Kind
	parent.Unlock()
	if kind != inode.Directory {
		return nil, "", "", "", vfserr.New(vfserr.NotADir, "resolve", dir)
	}

	return parent, name, pathutil.FoldKey(e.profile, name), abs, nil
}

func (e *Engine) rootInode() *inode.Inode {
	root, _ := e.mounts.MountFor(string(e.profile.Separator))
	return e.inodes.Get(root.RootInodeID)
}

// mountRootAt switches the traversal root to a more specific mount's root
// inode when curPath exactly matches that mount's path, implementing
// cross-mount-boundary traversal.
func (e *Engine) mountRootAt(curPath string, cur *inode.Inode) *inode.Inode {
	m, rel := e.mounts.MountFor(curPath)
	if rel == string(e.profile.Separator) && pathutil.Matches(e.profile, m.Path, curPath) {
		if in := e.inodes.Get(m.RootInodeID); in != nil {
			return in
		}
	}
	return cur
}

// walk traverses comps starting from cur (located at curPath), resolving
// symlinks as encountered. followFinal controls whether a symlink in the
// final position is itself followed.
func (e *Engine) walk(cur *inode.Inode, curPath string, comps []string, followFinal bool, follows int) (*inode.Inode, string, error) {
	cur = e.mountRootAt(curPath, cur)

	for i := 0; i < len(comps); i++ {
		comp := comps[i]
		isLast := i == len(comps)-1

		cur.Lock()
		if cur.Kind != inode.Directory {
			cur.Unlock()
			return nil, "", vfserr.New(vfserr.NotADir, "resolve", curPath)
		}
		cur.Unlock()

		if err := e.ensureMaterialized(cur); err != nil {
			return nil, "", err
		}

		cur.Lock()
		childID, ok := cur.Lookup(pathutil.FoldKey(e.profile, comp))
		cur.Unlock()
		if !ok {
			if isLast && e.profile.IsReservedDeviceName(comp) {
				return e.sinkDevice, pathutil.Join(e.profile, curPath, comp), nil
			}
			return nil, "", vfserr.New(vfserr.NotFound, "resolve", pathutil.Join(e.profile, curPath, comp))
		}

		child := e.inodes.Get(childID)
		if child == nil {
			return nil, "", vfserr.New(vfserr.NotFound, "resolve", pathutil.Join(e.profile, curPath, comp))
		}

		nextPath := pathutil.Join(e.profile, curPath, comp)
		child = e.mountRootAt(nextPath, child)

		child.Lock()
		kind := child.Kind
		target := child.Target
		child.Unlock()

		if kind == inode.Symlink && (!isLast || followFinal) {
			follows++
			if follows > maxSymlinkFollows {
				return nil, "", vfserr.New(vfserr.LinkLoop, "resolve", nextPath)
			}

			var linkComps []string
			var base *inode.Inode
			var basePath string
			if pathutil.IsAbs(e.profile, target) {
				linkComps = pathutil.Components(e.profile, target)
				base = e.rootInode()
				basePath = string(e.profile.Separator)
			} else {
				linkComps = pathutil.Components(e.profile, target)
				base = e.mountRootAt(curPath, cur)
				basePath = curPath
			}

			remaining := append(append([]string{}, linkComps...), comps[i+1:]...)
			return e.walk(base, basePath, remaining, followFinal, follows)
		}

		cur = child
		curPath = nextPath
	}

	return cur, curPath, nil
}
