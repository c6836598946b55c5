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

package pathutil_test

import (
	"testing"

	"github.com/fakefsgo/vfsemu/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PathutilTest struct {
	suite.Suite
	posix   pathutil.Profile
	windows pathutil.Profile
}

func TestPathutilSuite(t *testing.T) {
	suite.Run(t, new(PathutilTest))
}

func (t *PathutilTest) SetupTest() {
	t.posix = pathutil.DefaultProfile(pathutil.Linux)
	t.windows = pathutil.DefaultProfile(pathutil.Windows)
}

func (t *PathutilTest) TestSplitDrivePosixIsAlwaysEmpty() {
	drive, tail := pathutil.SplitDrive(t.posix, "C:/foo/bar")
	assert.Equal(t.T(), "", drive)
	assert.Equal(t.T(), "C:/foo/bar", tail)
}

func (t *PathutilTest) TestSplitDriveWindowsLetter() {
	drive, tail := pathutil.SplitDrive(t.windows, `C:\Foo\Bar.TXT`)
	assert.Equal(t.T(), "C:", drive)
	assert.Equal(t.T(), `\Foo\Bar.TXT`, tail)
}

func (t *PathutilTest) TestSplitDriveWindowsUNC() {
	drive, tail := pathutil.SplitDrive(t.windows, `\\server\share\dir`)
	assert.Equal(t.T(), `\\server\share`, drive)
	assert.Equal(t.T(), `\dir`, tail)
}

func (t *PathutilTest) TestDirnameBasenameRoundTrip() {
	// normpath(join(dirname(p), basename(p))) == normpath(p)
	for _, p := range []string{"/a/b/c", "/a", "/", "a/b/c.txt"} {
		dir := pathutil.Dirname(t.posix, p)
		base := pathutil.Basename(t.posix, p)
		joined := pathutil.Join(t.posix, dir, base)
		assert.Equal(t.T(), pathutil.Normpath(t.posix, p), joined, "for path %q", p)
	}
}

func (t *PathutilTest) TestNormpathCollapsesDotDot() {
	assert.Equal(t.T(), "/a/c", pathutil.Normpath(t.posix, "/a/b/../c"))
	assert.Equal(t.T(), "/", pathutil.Normpath(t.posix, "/a/.."))
	assert.Equal(t.T(), "..", pathutil.Normpath(t.posix, "../a/.."))
}

func (t *PathutilTest) TestIsAbs() {
	assert.True(t.T(), pathutil.IsAbs(t.posix, "/a/b"))
	assert.False(t.T(), pathutil.IsAbs(t.posix, "a/b"))
	assert.True(t.T(), pathutil.IsAbs(t.windows, `C:\a\b`))
	assert.False(t.T(), pathutil.IsAbs(t.windows, `a\b`))
}

func (t *PathutilTest) TestMatchesCaseSensitivity() {
	assert.False(t.T(), pathutil.Matches(t.posix, "Foo", "foo"))
	assert.True(t.T(), pathutil.Matches(t.windows, "Foo", "foo"))
}

func (t *PathutilTest) TestComponents() {
	assert.Equal(t.T(), []string{"a", "b", "c"}, pathutil.Components(t.posix, "/a//b/c/"))
}

func (t *PathutilTest) TestCommonPath() {
	got := pathutil.CommonPath(t.posix, []string{"/a/b/c", "/a/b/d", "/a/b"})
	assert.Equal(t.T(), "/a/b", got)
}

func (t *PathutilTest) TestReservedDeviceNames() {
	assert.True(t.T(), t.windows.IsReservedDeviceName("CON"))
	assert.True(t.T(), t.windows.IsReservedDeviceName("nul.txt"))
	assert.False(t.T(), t.windows.IsReservedDeviceName("console"))
	assert.False(t.T(), t.posix.IsReservedDeviceName("CON"))
}

func (t *PathutilTest) TestEncodeDecodeRoundTrip() {
	for _, p := range []pathutil.Profile{t.posix, t.windows} {
		s := "héllo/wörld"
		got := pathutil.Decode(p, pathutil.Encode(p, s))
		assert.Equal(t.T(), s, got)
	}
}
