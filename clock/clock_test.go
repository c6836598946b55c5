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

package clock_test

import (
	"testing"
	"time"

	"github.com/fakefsgo/vfsemu/clock"
	"github.com/jacobsa/syncutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ClockTest struct {
	suite.Suite
}

func TestClockSuite(t *testing.T) {
	syncutil.EnableInvariantChecking()
	suite.Run(t, new(ClockTest))
}

func (t *ClockTest) TestRealClockReportsWallTime() {
	before := time.Now()
	got := clock.RealClock{}.Now()
	after := time.Now()
	assert.False(t.T(), got.Before(before))
	assert.False(t.T(), got.After(after))
}

func (t *ClockTest) TestSimulatedClockHoldsTimeUntilAdvanced() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc := clock.NewSimulatedClock(start)
	assert.Equal(t.T(), start, sc.Now())

	sc.AdvanceTime(time.Hour)
	assert.Equal(t.T(), start.Add(time.Hour), sc.Now())
}

func (t *ClockTest) TestSimulatedClockSetTimeJumpsForward() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc := clock.NewSimulatedClock(start)

	target := start.Add(24 * time.Hour)
	sc.SetTime(target)
	assert.Equal(t.T(), target, sc.Now())
}

func (t *ClockTest) TestSimulatedClockRejectsNegativeAdvance() {
	sc := clock.NewSimulatedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Panics(t.T(), func() { sc.AdvanceTime(-time.Second) })
}

func (t *ClockTest) TestSimulatedClockRejectsTimeGoingBackwards() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc := clock.NewSimulatedClock(start)
	assert.Panics(t.T(), func() { sc.SetTime(start.Add(-time.Second)) })
}
