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

import "github.com/fakefsgo/vfsemu/vfserr"

// GetXattr returns the value stored under name on the inode at path,
// following a final symlink.
func (e *Engine) GetXattr(path, name string) ([]byte, error) {
	if err := e.checkPaused("getxattr", path); err != nil {
		return nil, err
	}
	in, abs, err := e.resolvePath(path, true)
	if err != nil {
		return nil, err
	}
	in.Lock()
	defer in.Unlock()
	v, ok := in.GetXattr(name)
	if !ok {
		return nil, vfserr.New(vfserr.NotFound, "getxattr", abs)
	}
	return v, nil
}

// SetXattr stores value under name on the inode at path, following a
// final symlink.
func (e *Engine) SetXattr(path, name string, value []byte) error {
	if err := e.checkPaused("setxattr", path); err != nil {
		return err
	}
	in, _, err := e.resolvePath(path, true)
	if err != nil {
		return err
	}
	in.Lock()
	defer in.Unlock()
	in.SetXattr(name, value)
	in.Ctime = e.now()
	return nil
}

// RemoveXattr deletes the named extended attribute from the inode at
// path, following a final symlink.
func (e *Engine) RemoveXattr(path, name string) error {
	if err := e.checkPaused("removexattr", path); err != nil {
		return err
	}
	in, abs, err := e.resolvePath(path, true)
	if err != nil {
		return err
	}
	in.Lock()
	defer in.Unlock()
	if !in.RemoveXattr(name) {
		return vfserr.New(vfserr.NotFound, "removexattr", abs)
	}
	in.Ctime = e.now()
	return nil
}

// ListXattr returns the names of every extended attribute set on the
// inode at path, following a final symlink.
func (e *Engine) ListXattr(path string) ([]string, error) {
	if err := e.checkPaused("listxattr", path); err != nil {
		return nil, err
	}
	in, _, err := e.resolvePath(path, true)
	if err != nil {
		return nil, err
	}
	in.Lock()
	defer in.Unlock()
	return in.ListXattr(), nil
}
