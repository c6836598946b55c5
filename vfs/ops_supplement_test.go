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
	"sort"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (t *VfsTest) TestGlobMatchesWildcard() {
	require.NoError(t.T(), t.e.Mkdir("/dir", 0o755, false))
	t.writeFile("/dir/a.txt", "")
	t.writeFile("/dir/b.txt", "")
	t.writeFile("/dir/c.log", "")

	matches, err := t.e.Glob("/dir/*.txt")
	require.NoError(t.T(), err)
	sort.Strings(matches)
	assert.Equal(t.T(), []string{"/dir/a.txt", "/dir/b.txt"}, matches)
}

func (t *VfsTest) TestCopyFileDuplicatesContent() {
	t.writeFile("/src.txt", "payload")
	require.NoError(t.T(), t.e.CopyFile("/src.txt", "/dst.txt"))
	assert.Equal(t.T(), "payload", t.readFile("/dst.txt"))
	assert.Equal(t.T(), "payload", t.readFile("/src.txt"))
}

func (t *VfsTest) TestCopyTreeDuplicatesDirectoryStructure() {
	require.NoError(t.T(), t.e.Mkdir("/src/sub", 0o755, true))
	t.writeFile("/src/a.txt", "top")
	t.writeFile("/src/sub/b.txt", "nested")

	require.NoError(t.T(), t.e.CopyTree("/src", "/dst"))

	assert.Equal(t.T(), "top", t.readFile("/dst/a.txt"))
	assert.Equal(t.T(), "nested", t.readFile("/dst/sub/b.txt"))
	assert.Equal(t.T(), "top", t.readFile("/src/a.txt"))
}
