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

package mount_test

import (
	"testing"

	"github.com/fakefsgo/vfsemu/mount"
	"github.com/fakefsgo/vfsemu/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type MountTest struct {
	suite.Suite
	posix   pathutil.Profile
	windows pathutil.Profile
}

func TestMountSuite(t *testing.T) {
	suite.Run(t, new(MountTest))
}

func (t *MountTest) SetupTest() {
	t.posix = pathutil.DefaultProfile(pathutil.Linux)
	t.windows = pathutil.DefaultProfile(pathutil.Windows)
}

func (t *MountTest) TestNewTableHasRootMount() {
	tbl := mount.NewTable(t.posix, 1, 1<<30)
	all := tbl.All()
	t.Require().Len(all, 1)
	assert.Equal(t.T(), "/", all[0].Path)
	assert.EqualValues(t.T(), 1, all[0].RootInodeID)
}

func (t *MountTest) TestMountForPrefersLongestPrefix() {
	tbl := mount.NewTable(t.posix, 1, 1<<30)
	sub := tbl.Add("/mnt/data", 1<<20)

	m, rel := tbl.MountFor("/mnt/data/foo/bar")
	assert.Same(t.T(), sub, m)
	assert.Equal(t.T(), "/foo/bar", rel)

	m2, rel2 := tbl.MountFor("/etc/passwd")
	assert.Equal(t.T(), "/", m2.Path)
	assert.Equal(t.T(), "/etc/passwd", rel2)
}

func (t *MountTest) TestMountForExactMountPath() {
	tbl := mount.NewTable(t.posix, 1, 1<<30)
	sub := tbl.Add("/mnt/data", 1<<20)

	m, rel := tbl.MountFor("/mnt/data")
	assert.Same(t.T(), sub, m)
	assert.Equal(t.T(), "/", rel)
}

func (t *MountTest) TestWindowsDriveAutoMounts() {
	tbl := mount.NewTable(t.windows, 1, 1<<30)
	var nextID uint64 = 100
	tbl.SetNextInodeForDrive(func() uint64 {
		nextID++
		return nextID
	})

	m, rel := tbl.MountFor(`D:\foo\bar.txt`)
	assert.Equal(t.T(), `D:\`, m.Path)
	assert.Equal(t.T(), mount.DefaultWindowsDriveSize, m.Total())
	assert.Equal(t.T(), `\foo\bar.txt`, rel)
	assert.EqualValues(t.T(), 101, m.RootInodeID)

	// Referencing the same drive again reuses the mount, not a new one.
	m2, _ := tbl.MountFor(`D:\other`)
	assert.Same(t.T(), m, m2)
	assert.Len(t.T(), tbl.All(), 2)
}

func (t *MountTest) TestReserveRespectsBudget() {
	m := mount.NewTable(t.posix, 1, 100).All()[0]
	assert.True(t.T(), m.Reserve(60))
	assert.False(t.T(), m.Reserve(50))
	assert.True(t.T(), m.Reserve(40))
	assert.EqualValues(t.T(), 100, m.Used())

	m.Reserve(-30)
	assert.EqualValues(t.T(), 70, m.Used())
	assert.EqualValues(t.T(), 30, m.Free())
}

func (t *MountTest) TestDeviceIDsAreDistinctPerMount() {
	tbl := mount.NewTable(t.posix, 1, 1<<30)
	a := tbl.Add("/a", 1<<20)
	b := tbl.Add("/b", 1<<20)
	assert.NotEqual(t.T(), a.DeviceID, b.DeviceID)
}

func (t *MountTest) TestByDeviceIDFindsMount() {
	tbl := mount.NewTable(t.posix, 1, 1<<30)
	sub := tbl.Add("/mnt/data", 1<<20)

	assert.Same(t.T(), sub, tbl.ByDeviceID(sub.DeviceID))
	assert.Nil(t.T(), tbl.ByDeviceID(sub.DeviceID+1))
}
