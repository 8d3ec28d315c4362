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

package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/corvuslabs-io/skink/config/chain"
	"github.com/corvuslabs-io/skink/database"
	"github.com/corvuslabs-io/skink/event"
	"github.com/corvuslabs-io/skink/internal/config"
	"github.com/corvuslabs-io/skink/ledger"

	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"
)

func rebuildCommand() *cobra.Command {
	var topCount int
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the ledger state from the local database and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return errors.New("no config found in context")
			}
			return rebuildRun(cfg, topCount)
		},
	}
	cmd.Flags().IntVar(
		&topCount,
		"top",
		10,
		"number of top delegates to print after the rebuild",
	)
	return cmd
}

func rebuildRun(cfg *config.Config, topCount int) error {
	logger := commonRun()

	params, err := chain.LoadParamsWithFallback(cfg.ChainConfig, cfg.Network)
	if err != nil {
		return fmt.Errorf("loading chain params: %w", err)
	}

	db, err := database.New(&database.Config{
		DataDir: cfg.DatabasePath,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tip, err := database.BlockTip(db)
	if err != nil {
		return fmt.Errorf("reading chain tip: %w", err)
	}
	if tip == nil {
		return errors.New(
			"database is empty, run 'skink load' to import a snapshot first",
		)
	}

	store := ledger.NewWalletStore(ledger.WalletStoreConfig{
		Logger:         logger,
		AddressVersion: params.AddressVersion,
	})
	store.SeedGenesisWallets(params.GenesisWallets)

	eventBus := event.NewEventBus(nil, logger)
	rebuilder, err := ledger.NewRebuilder(ledger.RebuilderConfig{
		Logger:   logger,
		EventBus: eventBus,
		Database: db,
		Store:    store,
		Params:   params,
	})
	if err != nil {
		return err
	}

	// Drive a progress bar from the rebuild step events. The event bus is
	// stopped after the build, which closes the channel and ends the
	// goroutine.
	_, stepCh := eventBus.Subscribe(event.RebuildStepEventType)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var bar *pb.ProgressBar
		for evt := range stepCh {
			step, ok := evt.Data.(event.RebuildStepEvent)
			if !ok {
				continue
			}
			if bar == nil {
				bar = pb.New(step.Total).SetMaxWidth(90).Start()
			}
			bar.Set(step.Step)
		}
		if bar != nil {
			bar.Finish()
		}
	}()

	buildErr := rebuilder.Build(tip.Height)
	eventBus.Stop()
	wg.Wait()
	if buildErr != nil {
		return fmt.Errorf("rebuild failed: %w", buildErr)
	}

	delegates := store.Delegates()
	fmt.Printf("Height:    %d\n", tip.Height)
	fmt.Printf("Wallets:   %d\n", store.Len())
	fmt.Printf("Delegates: %d\n", len(delegates))

	top := store.TopDelegates(topCount)
	if len(top) > 0 {
		fmt.Printf(
			"\n%-5s  %-24s  %20s  %8s\n",
			"RANK",
			"USERNAME",
			"VOTE BALANCE",
			"FORGED",
		)
		for _, delegate := range top {
			fmt.Printf(
				"%-5d  %-24s  %20d  %8d\n",
				delegate.Rate,
				delegate.Username,
				delegate.VoteBalance,
				delegate.ProducedBlocks,
			)
		}
	}

	return nil
}
