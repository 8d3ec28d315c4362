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

package database

import (
	"github.com/corvuslabs-io/skink/database/models"
	"github.com/corvuslabs-io/skink/database/types"
)

// BlockCreate stores a block header row
func (d *Database) BlockCreate(block *models.Block, txn *Txn) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.AddBlock(block, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// BlockByHash returns the block header row with the given hash, or nil when
// no such block is stored
func BlockByHash(db *Database, hash []byte) (*models.Block, error) {
	var ret *models.Block
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = BlockByHashTxn(txn, hash)
		return err
	})
	return ret, err
}

func BlockByHashTxn(txn *Txn, hash []byte) (*models.Block, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetBlockByHash(hash, txn.Metadata())
}

// BlockTip returns the stored block with the greatest height, or nil when
// the database is empty
func BlockTip(db *Database) (*models.Block, error) {
	var ret *models.Block
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = BlockTipTxn(txn)
		return err
	})
	return ret, err
}

func BlockTipTxn(txn *Txn) (*models.Block, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetTipBlock(txn.Metadata())
}

// BlockCount returns the number of stored block header rows
func BlockCount(db *Database) (int64, error) {
	var ret int64
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = BlockCountTxn(txn)
		return err
	})
	return ret, err
}

func BlockCountTxn(txn *Txn) (int64, error) {
	if txn == nil {
		return 0, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetBlockCount(txn.Metadata())
}

// BlocksRecent returns up to limit block header rows ordered newest first,
// with the row ID breaking timestamp ties
func BlocksRecent(db *Database, limit int) ([]models.Block, error) {
	var ret []models.Block
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = BlocksRecentTxn(txn, limit)
		return err
	})
	return ret, err
}

func BlocksRecentTxn(txn *Txn, limit int) ([]models.Block, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetRecentBlocks(limit, txn.Metadata())
}

// BlocksForgedTotals returns the summed reward plus fee per generator across
// all stored blocks
func BlocksForgedTotals(db *Database) ([]models.ForgedTotal, error) {
	var ret []models.ForgedTotal
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = BlocksForgedTotalsTxn(txn)
		return err
	})
	return ret, err
}

func BlocksForgedTotalsTxn(txn *Txn) ([]models.ForgedTotal, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetForgedTotals(txn.Metadata())
}

// BlocksDelegateForgedStats returns per-generator fee, reward, and block
// count sums restricted to the given generator public keys
func BlocksDelegateForgedStats(
	db *Database,
	generatorKeys [][]byte,
) ([]models.DelegateForgedStat, error) {
	var ret []models.DelegateForgedStat
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = BlocksDelegateForgedStatsTxn(txn, generatorKeys)
		return err
	})
	return ret, err
}

func BlocksDelegateForgedStatsTxn(
	txn *Txn,
	generatorKeys [][]byte,
) ([]models.DelegateForgedStat, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetDelegateForgedStats(generatorKeys, txn.Metadata())
}
