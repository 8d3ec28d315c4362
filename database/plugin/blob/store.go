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

package blob

import (
	"log/slog"

	"github.com/corvuslabs-io/skink/database/plugin/blob/badger"
	"github.com/corvuslabs-io/skink/database/types"

	"github.com/prometheus/client_golang/prometheus"
)

// BlobStore is the interface for raw payload storage
type BlobStore interface {
	Close() error
	NewTransaction(bool) types.Txn
	Get(types.Txn, []byte) ([]byte, error)
	Set(types.Txn, []byte, []byte) error
	Delete(types.Txn, []byte) error
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
}

// New returns the blob store. Data is kept in memory when dataDir is empty.
func New(
	dataDir string,
	cacheSize int64,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (BlobStore, error) {
	opts := []badger.BlobStoreBadgerOptionFunc{
		badger.WithDataDir(dataDir),
		badger.WithLogger(logger),
		badger.WithPromRegistry(promRegistry),
	}
	if cacheSize > 0 {
		opts = append(opts, badger.WithBlockCacheSize(uint64(cacheSize)))
	}
	return badger.New(opts...)
}
