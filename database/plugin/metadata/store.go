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

package metadata

import (
	"log/slog"

	"github.com/corvuslabs-io/skink/database/models"
	"github.com/corvuslabs-io/skink/database/plugin/metadata/sqlite"
	"github.com/corvuslabs-io/skink/database/types"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	NewTransaction() types.Txn
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error

	// Blocks
	AddBlock(*models.Block, types.Txn) error
	GetBlockByHash([]byte, types.Txn) (*models.Block, error)
	GetTipBlock(types.Txn) (*models.Block, error)
	GetBlockCount(types.Txn) (int64, error)
	GetRecentBlocks(int, types.Txn) ([]models.Block, error)
	GetForgedTotals(types.Txn) ([]models.ForgedTotal, error)
	GetDelegateForgedStats([][]byte, types.Txn) ([]models.DelegateForgedStat, error)

	// Transactions
	AddTransaction(*models.Transaction, types.Txn) error
	GetTransactionByHash([]byte, types.Txn) (*models.Transaction, error)
	GetTransactionCount(types.Txn) (int64, error)
	GetTransactionsByType(uint8, bool, types.Txn) ([]models.Transaction, error)
	GetReceivedTransferTotals(types.Txn) ([]models.ReceivedTotal, error)
	GetSentTotals(types.Txn) ([]models.SentTotal, error)
}

// New returns the metadata store. Data is kept in an in-memory database
// when dataDir is empty.
func New(
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	return sqlite.New(dataDir, logger, promRegistry)
}
