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

package chain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/corvuslabs-io/skink/config/chain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedNetworks(t *testing.T) {
	testDefs := []struct {
		network        string
		addressVersion uint8
		delegates      int
	}{
		{network: "mainnet", addressVersion: 28, delegates: 51},
		{network: "devnet", addressVersion: 30, delegates: 51},
		{network: "testnet", addressVersion: 23, delegates: 11},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.network, func(t *testing.T) {
			params, err := chain.LoadParamsWithFallback(
				"",
				testDef.network,
			)
			require.NoError(t, err)
			assert.Equal(
				t,
				"corvus-"+testDef.network,
				params.Name,
			)
			assert.Equal(
				t,
				testDef.addressVersion,
				params.AddressVersion,
			)
			assert.Equal(
				t,
				testDef.delegates,
				params.ActiveDelegates(1),
			)
			assert.NotEmpty(t, params.GenesisWallets)
			hash, err := params.GenesisHashBytes()
			require.NoError(t, err)
			assert.Len(t, hash, 32)
		})
	}
}

func TestUnknownNetwork(t *testing.T) {
	_, err := chain.LoadParamsWithFallback("", "bogus")
	require.Error(t, err)
}

func TestMilestoneFor(t *testing.T) {
	params, err := chain.NewParamsFromReader(strings.NewReader(`
name: corvus-unit
addressVersion: 28
epoch: 2025-01-01T00:00:00Z
milestones:
  - height: 1
    activeDelegates: 5
    blockTime: 8
    reward: 0
  - height: 100
    activeDelegates: 7
    blockTime: 8
    reward: 200000000
`))
	require.NoError(t, err)

	assert.Equal(t, 5, params.ActiveDelegates(1))
	assert.Equal(t, 5, params.ActiveDelegates(99))
	assert.Equal(t, 7, params.ActiveDelegates(100))
	assert.Equal(t, 7, params.ActiveDelegates(1000000))
	// Heights below the first milestone resolve to the first milestone
	assert.Equal(t, 5, params.ActiveDelegates(0))
	assert.Equal(t, uint64(200000000), params.MilestoneFor(100).Reward)
}

func TestParamsValidation(t *testing.T) {
	t.Run("no milestones", func(t *testing.T) {
		_, err := chain.NewParamsFromReader(strings.NewReader(`
name: corvus-unit
addressVersion: 28
milestones: []
`))
		require.ErrorIs(t, err, chain.ErrNoMilestones)
	})
	t.Run("descending heights", func(t *testing.T) {
		_, err := chain.NewParamsFromReader(strings.NewReader(`
name: corvus-unit
addressVersion: 28
milestones:
  - height: 100
    activeDelegates: 5
  - height: 1
    activeDelegates: 5
`))
		require.ErrorIs(t, err, chain.ErrBadMilestoneOrder)
	})
}

func TestTimeFromEpoch(t *testing.T) {
	params, err := chain.LoadParamsWithFallback("", "mainnet")
	require.NoError(t, err)
	at := params.TimeFromEpoch(3600)
	assert.Equal(t, params.Epoch.Add(time.Hour), at)
}
