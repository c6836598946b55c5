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
	"path/filepath"

	"github.com/fakefsgo/vfsemu/handle"
	"github.com/fakefsgo/vfsemu/inode"
	"github.com/fakefsgo/vfsemu/pathutil"
	"github.com/fakefsgo/vfsemu/perms"
	"github.com/fakefsgo/vfsemu/vfserr"
)

// Glob returns the entries of pattern's directory whose names match
// pattern's final component, built on top of Scandir the way the faked
// standard library's glob module is built on top of scandir rather than
// its own traversal. Only the final component is matched; wildcards in
// the directory part are taken literally.
func (e *Engine) Glob(pattern string) ([]string, error) {
	dir := pathutil.Dirname(e.profile, pattern)
	base := pathutil.Basename(e.profile, pattern)

	names, err := e.Scandir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, name := range names {
		match, err := filepath.Match(base, name)
		if err != nil {
			return nil, vfserr.New(vfserr.InvalidArgument, "glob", pattern)
		}
		if match {
			out = append(out, pathutil.Join(e.profile, dir, name))
		}
	}
	return out, nil
}

// CopyFile copies a regular file's content from src to dst, reading src's
// content from its inode and writing it through Open/Write. A newly
// created dst gets src's mode bits masked by the umask; an existing dst
// keeps its own mode.
func (e *Engine) CopyFile(src, dst string) error {
	if err := e.checkPaused("copyfile", src); err != nil {
		return err
	}
	in, srcAbs, err := e.resolvePath(src, true)
	if err != nil {
		return err
	}
	in.Lock()
	kind := in.Kind
	mode := in.Mode
	content := append([]byte(nil), in.Content...)
	in.Unlock()

	if kind != inode.RegularFile {
		return vfserr.New(vfserr.InvalidArgument, "copyfile", srcAbs)
	}

	h, err := e.Open(dst, handle.WriteOnly|handle.Create|handle.Truncate, mode)
	if err != nil {
		return err
	}
	defer h.Close()

	_, err = h.Write(content)
	return err
}

// CopyTree recursively copies a directory (or a single file) from src to
// dst, built on Walk + CopyFile + Mkdir.
func (e *Engine) CopyTree(src, dst string) error {
	if err := e.checkPaused("copytree", src); err != nil {
		return err
	}
	in, srcAbs, err := e.resolvePath(src, true)
	if err != nil {
		return err
	}
	in.Lock()
	kind := in.Kind
	in.Unlock()

	if kind != inode.Directory {
		return e.CopyFile(src, dst)
	}

	return e.Walk(src, func(ent WalkEntry) error {
		rel := ent.Path[len(srcAbs):]
		target := pathutil.Join(e.profile, dst, rel)

		if ent.IsDir {
			return e.Mkdir(target, perms.Mode(0o755), true)
		}
		return e.CopyFile(ent.Path, target)
	})
}
