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
	"testing"

	"github.com/fakefsgo/vfsemu/handle"
	"github.com/fakefsgo/vfsemu/inode"
	"github.com/fakefsgo/vfsemu/vfs"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DeviceTest struct {
	suite.Suite
	e *vfs.Engine
}

func TestDeviceSuite(t *testing.T) {
	suite.Run(t, new(DeviceTest))
}

func (t *DeviceTest) SetupTest() {
	e, err := vfs.New(map[string]any{"os": "windows"})
	require.NoError(t.T(), err)
	t.e = e
}

func (t *DeviceTest) TestReservedNameOpensAsSinkDevice() {
	info, err := t.e.Stat(`\NUL`)
	require.NoError(t.T(), err)
	t.Equal(inode.Device, info.Kind)
}

func (t *DeviceTest) TestWritesToSinkDeviceAreDiscarded() {
	h, err := t.e.Open(`\NUL`, handle.ReadWrite, 0)
	require.NoError(t.T(), err)
	n, err := h.Write([]byte("ignored"))
	require.NoError(t.T(), err)
	t.Equal(7, n)

	buf := make([]byte, 16)
	n, err = h.Read(buf)
	require.NoError(t.T(), err)
	t.Equal(0, n)
	require.NoError(t.T(), h.Close())
}
