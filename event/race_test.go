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

import (
	"sync"
	"testing"

	"go.uber.org/goleak"
)

// TestPublishUnsubscribeRace repeatedly publishes while unsubscribing to
// surface races; the implementation should be deterministic and not panic.
func TestPublishUnsubscribeRace(t *testing.T) {
	const iters = 1000
	for range iters {
		eb := NewEventBus(nil, nil)
		typ := EventType("race.test")

		// Subscribe a channel-backed subscriber
		subId, ch := eb.Subscribe(typ)

		var wg sync.WaitGroup
		wg.Add(3)

		// Publisher goroutine
		go func() {
			defer wg.Done()
			// Publish many events to increase chance of overlapping with close
			for j := range 10 {
				eb.Publish(typ, NewEvent(typ, j))
			}
		}()

		// Concurrently unsubscribe/stop the bus
		go func() {
			defer wg.Done()
			// Unsubscribe the subscriber and Stop the bus concurrently
			eb.Unsubscribe(typ, subId)
			eb.Stop()
		}()

		// Drain channel until closed or timeout (no timeout here; Publish/Close should finish)
		go func() {
			defer wg.Done()
			for range ch {
			}
		}()

		wg.Wait()
	}
}

// TestStopEndsSubscriberGoroutines verifies that Stop closes subscriber
// channels and ends the goroutines behind SubscribeFunc handlers.
func TestStopEndsSubscriberGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)
	eb := NewEventBus(nil, nil)
	typ := EventType("leak.test")

	var wg sync.WaitGroup
	wg.Add(5)
	for range 5 {
		eb.SubscribeFunc(typ, func(_ Event) {
			wg.Done()
		})
	}
	eb.Publish(typ, NewEvent(typ, nil))
	// All handlers observed the event before the bus is stopped
	wg.Wait()
	eb.Stop()
}
