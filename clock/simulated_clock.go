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

package clock

import (
	"fmt"
	"time"

	"github.com/jacobsa/syncutil"
)

// SimulatedClock is a clock that only advances when SetTime or AdvanceTime
// is called, letting a test pin inode timestamps to exact values. The zero
// value is not usable; construct one with NewSimulatedClock.
type SimulatedClock struct {
	mu      syncutil.InvariantMutex
	t       time.Time // GUARDED_BY(mu)
	started bool      // GUARDED_BY(mu): true once t has ever been set to a non-zero value
}

// NewSimulatedClock returns a SimulatedClock initialized to startTime.
func NewSimulatedClock(startTime time.Time) *SimulatedClock {
	sc := &SimulatedClock{t: startTime, started: !startTime.IsZero()}
	sc.mu = syncutil.NewInvariantMutex(sc.checkInvariants)
	return sc
}

// checkInvariants enforces that simulated time, once advanced past the
// zero value, never regresses to it: a clock an inode has already taken a
// timestamp from must keep producing a well-formed time.Time for the rest
// of its life.
func (sc *SimulatedClock) checkInvariants() {
	if sc.started && sc.t.IsZero() {
		panic("clock: simulated time regressed to the zero value after being started")
	}
}

func (sc *SimulatedClock) Now() time.Time {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.t
}

// SetTime sets the current time according to the clock. t must not be
// before the clock's current time.
func (sc *SimulatedClock) SetTime(t time.Time) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if t.Before(sc.t) {
		panic(fmt.Sprintf("clock: SetTime(%v) precedes current time %v", t, sc.t))
	}
	sc.t = t
	sc.started = sc.started || !t.IsZero()
}

// AdvanceTime advances the current time by d, which must not be negative.
func (sc *SimulatedClock) AdvanceTime(d time.Duration) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if d < 0 {
		panic(fmt.Sprintf("clock: AdvanceTime(%v) is negative", d))
	}
	sc.t = sc.t.Add(d)
	sc.started = sc.started || !sc.t.IsZero()
}
