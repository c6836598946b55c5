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

// Package clock provides the time source used throughout the engine for
// inode timestamps, so that tests can substitute a SimulatedClock and
// assert on exact, deterministic timestamp values instead of racing
// against the wall clock.
package clock

import "time"

// Clock is the time source threaded through the engine. Production code
// uses RealClock; tests use SimulatedClock to get deterministic,
// independently advanceable timestamps. Unlike a general-purpose clock
// seam, the engine never waits on a timer channel, so Clock exposes only
// Now.
type Clock interface {
	// Now returns the current time according to this clock.
	Now() time.Time
}

var (
	_ Clock = RealClock{}
	_ Clock = &SimulatedClock{}
)
