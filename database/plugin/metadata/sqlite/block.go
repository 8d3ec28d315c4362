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

package sqlite

import (
	"errors"

	"github.com/corvuslabs-io/skink/database/models"
	"github.com/corvuslabs-io/skink/database/types"

	"gorm.io/gorm"
)

// AddBlock inserts a block header row
func (d *MetadataStoreSqlite) AddBlock(
	block *models.Block,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Create(block)
	return result.Error
}

// GetBlockByHash returns the block with the given hash, or nil when no
// such block exists
func (d *MetadataStoreSqlite) GetBlockByHash(
	hash []byte,
	txn types.Txn,
) (*models.Block, error) {
	ret := &models.Block{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.First(ret, "hash = ?", hash)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetTipBlock returns the highest block, or nil when the store is empty
func (d *MetadataStoreSqlite) GetTipBlock(
	txn types.Txn,
) (*models.Block, error) {
	ret := &models.Block{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Order("height DESC").First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetBlockCount returns the number of stored blocks
func (d *MetadataStoreSqlite) GetBlockCount(txn types.Txn) (int64, error) {
	var count int64
	db, err := d.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	result := db.Model(&models.Block{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetRecentBlocks returns the most recent blocks, newest first. Blocks with
// equal timestamps are ordered by descending row ID to keep the result
// deterministic.
func (d *MetadataStoreSqlite) GetRecentBlocks(
	limit int,
	txn types.Txn,
) ([]models.Block, error) {
	var ret []models.Block
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetForgedTotals returns the summed reward plus fee value per block
// generator across all blocks
func (d *MetadataStoreSqlite) GetForgedTotals(
	txn types.Txn,
) ([]models.ForgedTotal, error) {
	var ret []models.ForgedTotal
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.
		Model(&models.Block{}).
		Select("generator_public_key, COALESCE(SUM(reward + total_fee), 0) AS forged").
		Group("generator_public_key").
		Scan(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetDelegateForgedStats returns per-generator forging statistics for the
// given generator public keys: summed fees, summed rewards, and the number
// of produced blocks
func (d *MetadataStoreSqlite) GetDelegateForgedStats(
	generatorKeys [][]byte,
	txn types.Txn,
) ([]models.DelegateForgedStat, error) {
	if len(generatorKeys) == 0 {
		return nil, nil
	}
	var ret []models.DelegateForgedStat
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.
		Model(&models.Block{}).
		Select("generator_public_key, COALESCE(SUM(total_fee), 0) AS total_fees, COALESCE(SUM(reward), 0) AS rewards, COUNT(*) AS produced_blocks").
		Where("generator_public_key IN ?", generatorKeys).
		Group("generator_public_key").
		Scan(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
