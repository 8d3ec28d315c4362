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

package skink

import (
	"testing"
	"time"

	"github.com/corvuslabs-io/skink/config/chain"
	"github.com/corvuslabs-io/skink/event"
	"github.com/corvuslabs-io/skink/tx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeRunRebuildsAndStops(t *testing.T) {
	key := make([]byte, tx.PublicKeySize)
	key[0] = 0x03
	genesisAddr, err := tx.AddressFromPublicKey(key, 30)
	require.NoError(t, err)
	params := &chain.Params{
		Name:           "corvus-unittest",
		AddressVersion: 30,
		GenesisWallets: []string{genesisAddr},
		Milestones: []chain.Milestone{
			{Height: 1, ActiveDelegates: 51, BlockTime: 8},
		},
	}
	// Empty database path keeps both stores in memory
	n, err := New(NewConfig(WithChainParams(params)))
	require.NoError(t, err)

	_, doneCh := n.EventBus().Subscribe(event.RebuildDoneEventType)
	errCh := make(chan error, 1)
	go func() {
		errCh <- n.Run()
	}()

	select {
	case evt := <-doneCh:
		done, ok := evt.Data.(event.RebuildDoneEvent)
		require.True(t, ok)
		// No chain history: the ledger holds exactly the genesis wallets
		assert.Equal(t, uint64(0), done.Height)
		assert.Equal(t, len(params.GenesisWallets), done.Wallets)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for rebuild")
	}

	require.NotNil(t, n.WalletStore())
	require.NotNil(t, n.Database())
	_, ok := n.WalletStore().LookupByAddress(genesisAddr)
	assert.True(t, ok)

	require.NoError(t, n.Stop())
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
	// Stop is idempotent
	require.NoError(t, n.Stop())
}
