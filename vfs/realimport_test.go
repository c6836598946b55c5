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

package vfs_test

import (
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/fakefsgo/vfsemu/handle"
	"github.com/fakefsgo/vfsemu/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeInfo struct {
	name string
	mode os.FileMode
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() os.FileMode  { return f.mode }
func (f fakeInfo) ModTime() time.Time { return time.Unix(0, 0) }
func (f fakeInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeInfo) Sys() any           { return nil }

type fakeDirEntry struct{ fakeInfo }

func (f fakeDirEntry) Type() fs.FileMode          { return f.mode.Type() }
func (f fakeDirEntry) Info() (fs.FileInfo, error) { return f.fakeInfo, nil }

type fakeHostReader struct {
	infos    map[string]fakeInfo
	contents map[string][]byte
	children map[string][]string
}

func (r *fakeHostReader) Stat(name string) (fs.FileInfo, error)  { return r.Lstat(name) }
func (r *fakeHostReader) Lstat(name string) (fs.FileInfo, error) {
	info, ok := r.infos[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return info, nil
}
func (r *fakeHostReader) ReadFile(name string) ([]byte, error) { return r.contents[name], nil }
func (r *fakeHostReader) Readlink(name string) (string, error) { return "", nil }
func (r *fakeHostReader) ReadDir(name string) ([]fs.DirEntry, error) {
	var out []fs.DirEntry
	for _, child := range r.children[name] {
		out = append(out, fakeDirEntry{r.infos[child]})
	}
	return out, nil
}

type RealImportEngineTest struct {
	suite.Suite
	e *vfs.Engine
	r *fakeHostReader
}

func TestRealImportEngineSuite(t *testing.T) {
	suite.Run(t, new(RealImportEngineTest))
}

func (t *RealImportEngineTest) SetupTest() {
	e, err := vfs.New(nil)
	require.NoError(t.T(), err)
	t.e = e
	t.r = &fakeHostReader{
		infos:    map[string]fakeInfo{},
		contents: map[string][]byte{},
		children: map[string][]string{},
	}
	e.SetReader(t.r)
}

func (t *RealImportEngineTest) TestAddRealFileImportsContent() {
	t.r.infos["/host/a.txt"] = fakeInfo{name: "a.txt", mode: 0o644}
	t.r.contents["/host/a.txt"] = []byte("hello")

	require.NoError(t.T(), t.e.AddRealFile("/host/a.txt", "/a.txt"))

	h, err := t.e.Open("/a.txt", handle.ReadOnly, 0)
	require.NoError(t.T(), err)
	buf := make([]byte, 16)
	n, err := h.Read(buf)
	require.NoError(t.T(), err)
	assert.Equal(t.T(), "hello", string(buf[:n]))
}

func (t *RealImportEngineTest) TestAddRealDirectoryListsLazily() {
	t.r.infos["/host/dir"] = fakeInfo{name: "dir", mode: os.ModeDir | 0o755}
	t.r.infos["/host/dir/f.txt"] = fakeInfo{name: "f.txt", mode: 0o644}
	t.r.contents["/host/dir/f.txt"] = []byte("data")
	t.r.children["/host/dir"] = []string{"/host/dir/f.txt"}

	require.NoError(t.T(), t.e.AddRealDirectory("/host/dir", "/dir"))

	names, err := t.e.Scandir("/dir")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), []string{"f.txt"}, names)
}
