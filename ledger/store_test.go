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

package ledger_test

import (
	"testing"

	"github.com/corvuslabs-io/skink/ledger"
	"github.com/corvuslabs-io/skink/tx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddressVersion = 30

func testKey(seed byte) []byte {
	key := make([]byte, tx.PublicKeySize)
	key[0] = 0x03
	for i := 1; i < len(key); i++ {
		key[i] = seed
	}
	return key
}

func testAddr(t *testing.T, seed byte) string {
	t.Helper()
	addr, err := tx.AddressFromPublicKey(testKey(seed), testAddressVersion)
	require.NoError(t, err)
	return addr
}

func newTestStore() *ledger.WalletStore {
	return ledger.NewWalletStore(ledger.WalletStoreConfig{
		AddressVersion: testAddressVersion,
	})
}

func TestStoreFindByAddressCreates(t *testing.T) {
	store := newTestStore()
	wallet := store.FindByAddress("DTestAddress")
	require.NotNil(t, wallet)
	assert.Equal(t, "DTestAddress", wallet.Address)
	assert.Equal(t, 1, store.Len())
	// Same wallet on repeat lookup
	assert.Same(t, wallet, store.FindByAddress("DTestAddress"))
	assert.Equal(t, 1, store.Len())
}

func TestStoreLookupByAddressDoesNotCreate(t *testing.T) {
	store := newTestStore()
	_, ok := store.LookupByAddress("DMissing")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStoreFindByPublicKeyDerivesAddress(t *testing.T) {
	store := newTestStore()
	wallet, err := store.FindByPublicKey(testKey(0x11))
	require.NoError(t, err)
	assert.Equal(t, testAddr(t, 0x11), wallet.Address)
	assert.Equal(t, testKey(0x11), wallet.PublicKey)
	// Lookup by the derived address returns the same wallet
	byAddr, ok := store.LookupByAddress(testAddr(t, 0x11))
	require.True(t, ok)
	assert.Same(t, wallet, byAddr)
}

func TestStoreFindByPublicKeyAttachesKeyToSeededWallet(t *testing.T) {
	store := newTestStore()
	// Genesis wallets are seeded by address only
	store.SeedGenesisWallets([]string{testAddr(t, 0x22)})
	seeded, ok := store.LookupByAddress(testAddr(t, 0x22))
	require.True(t, ok)
	assert.Nil(t, seeded.PublicKey)

	wallet, err := store.FindByPublicKey(testKey(0x22))
	require.NoError(t, err)
	assert.Same(t, seeded, wallet)
	assert.Equal(t, testKey(0x22), wallet.PublicKey)
}

func TestStoreFindByPublicKeyRejectsBadKey(t *testing.T) {
	store := newTestStore()
	_, err := store.FindByPublicKey([]byte{0x01, 0x02})
	require.Error(t, err)
}

func TestStoreReindexUsername(t *testing.T) {
	store := newTestStore()
	wallet, err := store.FindByPublicKey(testKey(0x33))
	require.NoError(t, err)
	_, ok := store.FindByUsername("crow")
	assert.False(t, ok)

	wallet.Username = "crow"
	store.Reindex(wallet)
	byName, ok := store.FindByUsername("crow")
	require.True(t, ok)
	assert.Same(t, wallet, byName)
}

func TestStoreGenesisPredicate(t *testing.T) {
	store := newTestStore()
	store.SeedGenesisWallets([]string{testAddr(t, 0x44)})
	genesis, ok := store.LookupByAddress(testAddr(t, 0x44))
	require.True(t, ok)
	assert.True(t, store.IsGenesis(genesis))

	other := store.FindByAddress("DOther")
	assert.False(t, store.IsGenesis(other))
}

func TestStoreResetReseedsGenesis(t *testing.T) {
	store := newTestStore()
	store.SeedGenesisWallets([]string{testAddr(t, 0x55)})
	wallet, err := store.FindByPublicKey(testKey(0x56))
	require.NoError(t, err)
	wallet.Balance = 12345
	wallet.Username = "stale"
	store.Reindex(wallet)
	require.Equal(t, 2, store.Len())

	store.Reset()
	// Only the genesis wallet survives, with fresh state
	assert.Equal(t, 1, store.Len())
	genesis, ok := store.LookupByAddress(testAddr(t, 0x55))
	require.True(t, ok)
	assert.True(t, store.IsGenesis(genesis))
	assert.Zero(t, genesis.Balance)
	_, ok = store.LookupByAddress(wallet.Address)
	assert.False(t, ok)
	_, ok = store.FindByUsername("stale")
	assert.False(t, ok)
}

func TestStoreDelegates(t *testing.T) {
	store := newTestStore()
	delegate, err := store.FindByPublicKey(testKey(0x66))
	require.NoError(t, err)
	delegate.Username = "magpie"
	store.Reindex(delegate)
	_, err = store.FindByPublicKey(testKey(0x67))
	require.NoError(t, err)

	delegates := store.Delegates()
	require.Len(t, delegates, 1)
	assert.Same(t, delegate, delegates[0])
	assert.Equal(t, 2, store.Len())
}
