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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/corvuslabs-io/skink/database"
	"github.com/corvuslabs-io/skink/event"
	"github.com/corvuslabs-io/skink/ledger"
)

// Node owns the persisted chain history and the in-memory wallet ledger
// rebuilt from it. Run opens the stores, rebuilds the ledger up to the chain
// tip, and keeps the result resident until Stop.
type Node struct {
	eventBus      *event.EventBus
	db            *database.Database
	walletStore   *ledger.WalletStore
	rebuilder     *ledger.Rebuilder
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Node, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	n := &Node{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	if err := n.configPopulateChainParams(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

func (n *Node) Run() error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir:      n.config.dataDir,
		Logger:       n.config.logger,
		PromRegistry: n.config.promRegistry,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.db = db
	// Seed wallet store with the genesis wallets
	n.walletStore = ledger.NewWalletStore(ledger.WalletStoreConfig{
		Logger:         n.config.logger,
		AddressVersion: n.config.chainParams.AddressVersion,
	})
	n.walletStore.SeedGenesisWallets(n.config.chainParams.GenesisWallets)
	// Create rebuilder
	rebuilder, err := ledger.NewRebuilder(ledger.RebuilderConfig{
		Logger:       n.config.logger,
		EventBus:     n.eventBus,
		Database:     n.db,
		Store:        n.walletStore,
		Params:       n.config.chainParams,
		PromRegistry: n.config.promRegistry,
	})
	if err != nil {
		return fmt.Errorf("failed to create rebuilder: %w", err)
	}
	n.rebuilder = rebuilder
	// Rebuild ledger from chain history
	if err := n.Rebuild(); err != nil {
		return err
	}
	// Wait for shutdown signal
	<-n.done
	return nil
}

// Rebuild reconstructs the wallet ledger from the persisted chain history up
// to the current tip. The wallet store is reset first, so a failed pass can
// be retried by calling Rebuild again.
func (n *Node) Rebuild() error {
	if n.rebuilder == nil {
		return errors.New("node is not running")
	}
	n.walletStore.Reset()
	tip, err := database.BlockTip(n.db)
	if err != nil {
		return fmt.Errorf("failed to read chain tip: %w", err)
	}
	var height uint64
	if tip != nil {
		height = tip.Height
	}
	if err := n.rebuilder.Build(height); err != nil {
		return fmt.Errorf("failed to rebuild ledger: %w", err)
	}
	return nil
}

// WalletStore returns the node's wallet ledger
func (n *Node) WalletStore() *ledger.WalletStore {
	return n.walletStore
}

// EventBus returns the node's event bus
func (n *Node) EventBus() *event.EventBus {
	return n.eventBus
}

// Database returns the node's database
func (n *Node) Database() *database.Database {
	return n.db
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Flush state and close database
	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(
				err,
				fmt.Errorf("database close: %w", closeErr),
			)
		}
	}

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}
