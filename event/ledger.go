// Copyright 2026 Corvus Labs
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

package event

import "time"

// RebuildStepEventType is the event type for ledger rebuild phase progress
const RebuildStepEventType = EventType("ledger.rebuild.step")

// RebuildStepEvent is emitted when the ledger rebuild starts a phase
type RebuildStepEvent struct {
	// Name is the phase name
	Name string
	// Step is the 1-based index of the phase
	Step int
	// Total is the number of phases in the rebuild
	Total int
}

// RebuildDoneEventType is the event type for ledger rebuild completion
const RebuildDoneEventType = EventType("ledger.rebuild.done")

// RebuildDoneEvent is emitted when the ledger rebuild has finished
type RebuildDoneEvent struct {
	// Height is the chain height the ledger was rebuilt to
	Height uint64
	// Wallets is the number of wallets in the rebuilt ledger
	Wallets int
	// Delegates is the number of registered delegates in the rebuilt ledger
	Delegates int
	// Duration is the wall-clock time the rebuild took
	Duration time.Duration
}
