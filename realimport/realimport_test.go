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

package realimport_test

import (
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/fakefsgo/vfsemu/realimport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeInfo struct {
	name string
	mode os.FileMode
	size int64
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() os.FileMode  { return f.mode }
func (f fakeInfo) ModTime() time.Time { return time.Unix(0, 0) }
func (f fakeInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeInfo) Sys() any           { return nil }

type fakeDirEntry struct{ fakeInfo }

func (f fakeDirEntry) Type() fs.FileMode          { return f.mode.Type() }
func (f fakeDirEntry) Info() (fs.FileInfo, error) { return f.fakeInfo, nil }

type fakeReader struct {
	infos    map[string]fakeInfo
	contents map[string][]byte
	children map[string][]string
	links    map[string]string
}

func (r *fakeReader) Stat(name string) (fs.FileInfo, error)  { return r.Lstat(name) }
func (r *fakeReader) Lstat(name string) (fs.FileInfo, error) {
	info, ok := r.infos[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return info, nil
}
func (r *fakeReader) ReadFile(name string) ([]byte, error) { return r.contents[name], nil }
func (r *fakeReader) Readlink(name string) (string, error) { return r.links[name], nil }
func (r *fakeReader) ReadDir(name string) ([]fs.DirEntry, error) {
	var out []fs.DirEntry
	for _, child := range r.children[name] {
		out = append(out, fakeDirEntry{r.infos[child]})
	}
	return out, nil
}

type RealImportTest struct {
	suite.Suite
}

func TestRealImportSuite(t *testing.T) {
	suite.Run(t, new(RealImportTest))
}

func (t *RealImportTest) TestStatClassifiesRegularFile() {
	r := &fakeReader{infos: map[string]fakeInfo{"/host/a.txt": {name: "a.txt", mode: 0o644}}}
	entry, err := realimport.Stat(r, "/host/a.txt")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), realimport.RegularFile, entry.Kind)
}

func (t *RealImportTest) TestStatClassifiesSymlink() {
	r := &fakeReader{
		infos: map[string]fakeInfo{"/host/link": {name: "link", mode: os.ModeSymlink | 0o777}},
		links: map[string]string{"/host/link": "/host/a.txt"},
	}
	entry, err := realimport.Stat(r, "/host/link")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), realimport.Symlink, entry.Kind)
	assert.Equal(t.T(), "/host/a.txt", entry.Target)
}

func (t *RealImportTest) TestReadFileEagerlyLoadsContent() {
	r := &fakeReader{
		infos:    map[string]fakeInfo{"/host/a.txt": {name: "a.txt", mode: 0o644}},
		contents: map[string][]byte{"/host/a.txt": []byte("hello")},
	}
	entry, err := realimport.ReadFile(r, "/host/a.txt")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), "hello", string(entry.Content))
}

func (t *RealImportTest) TestListDirectoryReturnsChildren() {
	r := &fakeReader{
		infos: map[string]fakeInfo{
			"/host/dir":     {name: "dir", mode: os.ModeDir | 0o755},
			"/host/dir/a":   {name: "a", mode: 0o644},
			"/host/dir/sub": {name: "sub", mode: os.ModeDir | 0o755},
		},
		children: map[string][]string{"/host/dir": {"/host/dir/a", "/host/dir/sub"}},
	}
	entries, names, err := realimport.ListDirectory(r, "/host/dir")
	require.NoError(t.T(), err)
	require.Len(t.T(), entries, 2)
	assert.Equal(t.T(), []string{"a", "sub"}, names)
	assert.Equal(t.T(), realimport.RegularFile, entries[0].Kind)
	assert.Equal(t.T(), realimport.Directory, entries[1].Kind)
}
