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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NotNil(t, cfg.logger, "default logger should discard, not be nil")
	assert.Empty(t, cfg.dataDir)
	assert.Empty(t, cfg.network)
	assert.False(t, cfg.tracing)
	assert.Zero(t, cfg.shutdownTimeout)
}

func TestNewConfigOptions(t *testing.T) {
	params := &chain.Params{
		Name:           "corvus-unittest",
		AddressVersion: 30,
		GenesisWallets: []string{"DLNS9qpXh1cmw3VPHKZRk5ugA46JC6xkjj"},
		Milestones: []chain.Milestone{
			{Height: 1, ActiveDelegates: 51},
		},
	}
	cfg := NewConfig(
		WithNetwork("devnet"),
		WithDatabasePath("/tmp/skink-test"),
		WithChainParams(params),
		WithShutdownTimeout(5*time.Second),
		WithTracing(true),
		WithTracingStdout(true),
	)
	assert.Equal(t, "devnet", cfg.network)
	assert.Equal(t, "/tmp/skink-test", cfg.dataDir)
	assert.Same(t, params, cfg.chainParams)
	assert.Equal(t, 5*time.Second, cfg.shutdownTimeout)
	assert.True(t, cfg.tracing)
	assert.True(t, cfg.tracingStdout)
}

func TestNewNodeResolvesEmbeddedNetwork(t *testing.T) {
	n, err := New(NewConfig(
		WithNetwork("devnet"),
	))
	require.NoError(t, err)
	require.NotNil(t, n.config.chainParams)
	assert.Equal(t, "corvus-devnet", n.config.chainParams.Name)
	assert.NotEmpty(t, n.config.chainParams.GenesisWallets)
}

func TestNewNodeRejectsMissingNetwork(t *testing.T) {
	_, err := New(NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestNewNodeRejectsUnknownNetwork(t *testing.T) {
	_, err := New(NewConfig(
		WithNetwork("nonet"),
	))
	require.Error(t, err)
}

func TestNewNodeRejectsParamsWithoutGenesisWallets(t *testing.T) {
	_, err := New(NewConfig(
		WithChainParams(&chain.Params{
			Name:           "corvus-unittest",
			AddressVersion: 30,
			Milestones: []chain.Milestone{
				{Height: 1, ActiveDelegates: 51},
			},
		}),
	))
	require.Error(t, err)
}
