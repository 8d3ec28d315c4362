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

package node

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/corvuslabs-io/skink/config/chain"
	"github.com/corvuslabs-io/skink/database"
	"github.com/corvuslabs-io/skink/internal/config"
	"github.com/corvuslabs-io/skink/ledger"
	"github.com/corvuslabs-io/skink/tx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loadTestAddressVersion = 30

func loadTestKey(seed byte) []byte {
	key := make([]byte, tx.PublicKeySize)
	key[0] = 0x03
	for i := 1; i < len(key); i++ {
		key[i] = seed
	}
	return key
}

func writeSnapshot(t *testing.T, blocks []snapshotBlock) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	for _, block := range blocks {
		line, err := json.Marshal(block)
		require.NoError(t, err)
		_, err = fmt.Fprintf(f, "%s\n", line)
		require.NoError(t, err)
	}
	return path
}

func TestLoadImportsSnapshotAndRebuilds(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	senderKey := loadTestKey(0xA0)
	senderAddr, err := tx.AddressFromPublicKey(
		senderKey,
		loadTestAddressVersion,
	)
	require.NoError(t, err)
	generatorKey := loadTestKey(0xB0)

	transfer := &tx.Transaction{
		Version:         1,
		Network:         loadTestAddressVersion,
		Type:            tx.TypeTransfer,
		Timestamp:       150,
		SenderPublicKey: senderKey,
		Fee:             5,
		Transfer: &tx.TransferAsset{
			Amount:           300,
			RecipientAddress: senderAddr,
		},
	}
	payload, err := transfer.Serialize()
	require.NoError(t, err)

	blockHash := func(n byte) string {
		hash := make([]byte, 32)
		hash[0] = n
		return hex.EncodeToString(hash)
	}
	snapshotPath := writeSnapshot(t, []snapshotBlock{
		{
			Hash:               blockHash(1),
			Height:             1,
			Timestamp:          100,
			PreviousHash:       blockHash(0),
			GeneratorPublicKey: hex.EncodeToString(generatorKey),
			Reward:             200,
			TotalFee:           0,
		},
		{
			Hash:               blockHash(2),
			Height:             2,
			Timestamp:          200,
			PreviousHash:       blockHash(1),
			GeneratorPublicKey: hex.EncodeToString(generatorKey),
			Reward:             200,
			TotalFee:           5,
			TotalAmount:        300,
			Transactions:       []string{hex.EncodeToString(payload)},
		},
	})

	dataDir := filepath.Join(t.TempDir(), "db")
	cfg := &config.Config{
		DatabasePath:  dataDir,
		LoadBatchSize: 1,
		LoadWorkers:   2,
	}
	require.NoError(
		t,
		Load(context.Background(), cfg, logger, snapshotPath),
	)

	// Reopen the database and rebuild the ledger from the imported history
	db, err := database.New(&database.Config{
		DataDir: dataDir,
		Logger:  logger,
	})
	require.NoError(t, err)
	defer db.Close()

	tip, err := database.BlockTip(db)
	require.NoError(t, err)
	require.NotNil(t, tip)
	assert.Equal(t, uint64(2), tip.Height)

	params := &chain.Params{
		Name:           "corvus-loadtest",
		AddressVersion: loadTestAddressVersion,
		GenesisWallets: []string{senderAddr},
		Milestones: []chain.Milestone{
			{Height: 1, ActiveDelegates: 51, BlockTime: 8},
		},
	}
	store := ledger.NewWalletStore(ledger.WalletStoreConfig{
		Logger:         logger,
		AddressVersion: loadTestAddressVersion,
	})
	store.SeedGenesisWallets(params.GenesisWallets)
	rebuilder, err := ledger.NewRebuilder(ledger.RebuilderConfig{
		Logger:   logger,
		Database: db,
		Store:    store,
		Params:   params,
	})
	require.NoError(t, err)
	require.NoError(t, rebuilder.Build(tip.Height))

	// Self-transfer: received 300, sent 305
	sender, ok := store.LookupByAddress(senderAddr)
	require.True(t, ok)
	assert.Equal(t, int64(-5), sender.Balance)
	// Generator: two rewards plus the fee
	generatorAddr, err := tx.AddressFromPublicKey(
		generatorKey,
		loadTestAddressVersion,
	)
	require.NoError(t, err)
	generator, ok := store.LookupByAddress(generatorAddr)
	require.True(t, ok)
	assert.Equal(t, int64(405), generator.Balance)
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "snapshot.jsonl")
	require.NoError(
		t,
		os.WriteFile(path, []byte("{not json\n"), 0o600),
	)
	cfg := &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "db"),
	}
	err := Load(context.Background(), cfg, logger, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed snapshot line")
}

func TestOpenSnapshotRejectsBadBucketURL(t *testing.T) {
	_, err := openSnapshot(context.Background(), "gs://bucket-only")
	require.Error(t, err)
}
