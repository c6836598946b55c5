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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (t *VfsTest) TestSetGetXattrRoundTrip() {
	t.writeFile("/a.txt", "x")
	require.NoError(t.T(), t.e.SetXattr("/a.txt", "user.note", []byte("hello")))

	v, err := t.e.GetXattr("/a.txt", "user.note")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), "hello", string(v))
}

func (t *VfsTest) TestGetXattrMissingFails() {
	t.writeFile("/a.txt", "x")
	_, err := t.e.GetXattr("/a.txt", "user.missing")
	assert.Error(t.T(), err)
}

func (t *VfsTest) TestListXattrReturnsSortedNames() {
	t.writeFile("/a.txt", "x")
	require.NoError(t.T(), t.e.SetXattr("/a.txt", "user.b", []byte("2")))
	require.NoError(t.T(), t.e.SetXattr("/a.txt", "user.a", []byte("1")))

	names, err := t.e.ListXattr("/a.txt")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), []string{"user.a", "user.b"}, names)
}

func (t *VfsTest) TestRemoveXattrDeletesAttribute() {
	t.writeFile("/a.txt", "x")
	require.NoError(t.T(), t.e.SetXattr("/a.txt", "user.note", []byte("hello")))
	require.NoError(t.T(), t.e.RemoveXattr("/a.txt", "user.note"))

	_, err := t.e.GetXattr("/a.txt", "user.note")
	assert.Error(t.T(), err)
}
