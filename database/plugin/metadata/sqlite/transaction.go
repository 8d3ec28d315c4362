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
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND,
// either express or implied. See the License for the specific language
// governing permissions and limitations under the License.

package sqlite

import (
	"errors"

	"github.com/corvuslabs-io/skink/database/models"
	"github.com/corvuslabs-io/skink/database/types"
	"github.com/corvuslabs-io/skink/tx"
	"gorm.io/gorm"
)

// AddTransaction adds a new transaction to the database
func (d *MetadataStoreSqlite) AddTransaction(
	transaction *models.Transaction,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(transaction); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetTransactionByHash returns a transaction by its hash
func (d *MetadataStoreSqlite) GetTransactionByHash(
	hash []byte,
	txn types.Txn,
) (*models.Transaction, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Transaction{}
	result := db.First(ret, "hash = ?", hash)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetTransactionCount returns the number of stored transactions
func (d *MetadataStoreSqlite) GetTransactionCount(
	txn types.Txn,
) (int64, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	var count int64
	result := db.Model(&models.Transaction{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetTransactionsByType returns all transactions of the given type. The
// default order is insertion order, newestFirst switches to timestamp
// descending with the row ID as tie-break
func (d *MetadataStoreSqlite) GetTransactionsByType(
	txType uint8,
	newestFirst bool,
	txn types.Txn,
) ([]models.Transaction, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	order := "id ASC"
	if newestFirst {
		order = "timestamp DESC, id DESC"
	}
	var ret []models.Transaction
	result := db.
		Where("type = ?", txType).
		Order(order).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetReceivedTransferTotals returns the summed transfer amount per
// recipient address
func (d *MetadataStoreSqlite) GetReceivedTransferTotals(
	txn types.Txn,
) ([]models.ReceivedTotal, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.ReceivedTotal
	result := db.
		Model(&models.Transaction{}).
		Select("recipient_address, COALESCE(SUM(amount), 0) AS amount").
		Where("type = ?", uint8(tx.TypeTransfer)).
		Group("recipient_address").
		Scan(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetSentTotals returns the summed amount and fee per sender public key
// across all transaction types
func (d *MetadataStoreSqlite) GetSentTotals(
	txn types.Txn,
) ([]models.SentTotal, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.SentTotal
	result := db.
		Model(&models.Transaction{}).
		Select("sender_public_key, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(fee), 0) AS fee").
		Group("sender_public_key").
		Scan(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
