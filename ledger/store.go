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

package ledger

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/corvuslabs-io/skink/tx"

	"github.com/puzpuzpuz/xsync/v4"
)

// WalletStoreConfig contains the configuration for a WalletStore
type WalletStoreConfig struct {
	Logger *slog.Logger
	// AddressVersion is the network's address version byte, used when
	// deriving addresses from public keys
	AddressVersion byte
}

// WalletStore is the in-memory ledger: every known wallet, indexed by
// address, public key, and delegate username. Index reads are safe for
// concurrent observers, but per-wallet field mutation is owned by the
// rebuild pass.
type WalletStore struct {
	config       WalletStoreConfig
	byAddress    *xsync.Map[string, *Wallet]
	byPublicKey  *xsync.Map[string, *Wallet]
	byUsername   *xsync.Map[string, *Wallet]
	genesisAddrs []string
	genesisSet   *xsync.Map[string, struct{}]
}

// NewWalletStore creates an empty wallet store
func NewWalletStore(cfg WalletStoreConfig) *WalletStore {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &WalletStore{
		config:      cfg,
		byAddress:   xsync.NewMap[string, *Wallet](),
		byPublicKey: xsync.NewMap[string, *Wallet](),
		byUsername:  xsync.NewMap[string, *Wallet](),
		genesisSet:  xsync.NewMap[string, struct{}](),
	}
}

// FindByAddress returns the wallet for the given address, creating it when
// absent
func (s *WalletStore) FindByAddress(address string) *Wallet {
	if wallet, ok := s.byAddress.Load(address); ok {
		return wallet
	}
	wallet, _ := s.byAddress.LoadOrStore(address, &Wallet{Address: address})
	return wallet
}

// LookupByAddress returns the wallet for the given address without creating
// it
func (s *WalletStore) LookupByAddress(address string) (*Wallet, bool) {
	return s.byAddress.Load(address)
}

// FindByPublicKey returns the wallet owning the given public key, creating
// it when absent. The wallet's address is derived from the key, and the key
// is recorded on the wallet the first time it is seen.
func (s *WalletStore) FindByPublicKey(publicKey []byte) (*Wallet, error) {
	if wallet, ok := s.byPublicKey.Load(string(publicKey)); ok {
		return wallet, nil
	}
	address, err := tx.AddressFromPublicKey(publicKey, s.config.AddressVersion)
	if err != nil {
		return nil, err
	}
	wallet := s.FindByAddress(address)
	if wallet.PublicKey == nil {
		wallet.PublicKey = bytes.Clone(publicKey)
	}
	s.byPublicKey.Store(string(publicKey), wallet)
	return wallet, nil
}

// FindByUsername returns the delegate wallet registered under the given
// username
func (s *WalletStore) FindByUsername(username string) (*Wallet, bool) {
	return s.byUsername.Load(username)
}

// IsGenesis reports whether the wallet is one of the chain's genesis
// wallets
func (s *WalletStore) IsGenesis(wallet *Wallet) bool {
	_, ok := s.genesisSet.Load(wallet.Address)
	return ok
}

// Reindex refreshes the public key and username indexes for the wallet
func (s *WalletStore) Reindex(wallet *Wallet) {
	if wallet.PublicKey != nil {
		s.byPublicKey.Store(string(wallet.PublicKey), wallet)
	}
	if wallet.Username != "" {
		s.byUsername.Store(wallet.Username, wallet)
	}
}

// SeedGenesisWallets creates an entry for each genesis address and records
// the set for later Reset calls
func (s *WalletStore) SeedGenesisWallets(addresses []string) {
	s.genesisAddrs = addresses
	for _, address := range addresses {
		s.FindByAddress(address)
		s.genesisSet.Store(address, struct{}{})
	}
}

// Reset discards every wallet and index and re-seeds the genesis wallets.
// The caller must own the store exclusively.
func (s *WalletStore) Reset() {
	s.byAddress = xsync.NewMap[string, *Wallet]()
	s.byPublicKey = xsync.NewMap[string, *Wallet]()
	s.byUsername = xsync.NewMap[string, *Wallet]()
	s.genesisSet = xsync.NewMap[string, struct{}]()
	s.SeedGenesisWallets(s.genesisAddrs)
}

// Wallets returns every wallet in the store
func (s *WalletStore) Wallets() []*Wallet {
	ret := make([]*Wallet, 0, s.byAddress.Size())
	s.byAddress.Range(func(_ string, wallet *Wallet) bool {
		ret = append(ret, wallet)
		return true
	})
	return ret
}

// Delegates returns every wallet holding a delegate registration
func (s *WalletStore) Delegates() []*Wallet {
	var ret []*Wallet
	s.byAddress.Range(func(_ string, wallet *Wallet) bool {
		if wallet.IsDelegate() {
			ret = append(ret, wallet)
		}
		return true
	})
	return ret
}

// Len returns the number of wallets in the store
func (s *WalletStore) Len() int {
	return s.byAddress.Size()
}
