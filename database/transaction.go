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

// TransactionCreate stores a transaction row along with its serialized
// payload. The row carries the queryable columns, the payload carries the
// type-specific asset
func (d *Database) TransactionCreate(
	transaction *models.Transaction,
	payload []byte,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.AddTransaction(transaction, txn.Metadata()); err != nil {
		return err
	}
	blobTxn := txn.Blob()
	if blobTxn == nil {
		return types.ErrNilTxn
	}
	key := types.TransactionBlobKey(transaction.Hash)
	if err := d.blob.Set(blobTxn, key, payload); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// TransactionByHash returns the transaction row with the given hash, or nil
// when no such transaction is stored
func TransactionByHash(db *Database, hash []byte) (*models.Transaction, error) {
	var ret *models.Transaction
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = TransactionByHashTxn(txn, hash)
		return err
	})
	return ret, err
}

func TransactionByHashTxn(txn *Txn, hash []byte) (*models.Transaction, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetTransactionByHash(hash, txn.Metadata())
}

// TransactionPayload returns the serialized payload stored for the
// transaction with the given hash
func TransactionPayload(db *Database, hash []byte) ([]byte, error) {
	var ret []byte
	txn := db.BlobTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = TransactionPayloadTxn(txn, hash)
		return err
	})
	return ret, err
}

func TransactionPayloadTxn(txn *Txn, hash []byte) ([]byte, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	blobTxn := txn.Blob()
	if blobTxn == nil {
		return nil, types.ErrNilTxn
	}
	blob := txn.DB().Blob()
	if blob == nil {
		return nil, types.ErrBlobStoreUnavailable
	}
	return blob.Get(blobTxn, types.TransactionBlobKey(hash))
}

// TransactionCount returns the number of stored transaction rows
func TransactionCount(db *Database) (int64, error) {
	var ret int64
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = TransactionCountTxn(txn)
		return err
	})
	return ret, err
}

func TransactionCountTxn(txn *Txn) (int64, error) {
	if txn == nil {
		return 0, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetTransactionCount(txn.Metadata())
}

// TransactionsByType returns all transaction rows of the given type. The
// default order is insertion order, newestFirst switches to timestamp
// descending with the row ID as tie-break
func TransactionsByType(
	db *Database,
	txType uint8,
	newestFirst bool,
) ([]models.Transaction, error) {
	var ret []models.Transaction
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = TransactionsByTypeTxn(txn, txType, newestFirst)
		return err
	})
	return ret, err
}

func TransactionsByTypeTxn(
	txn *Txn,
	txType uint8,
	newestFirst bool,
) ([]models.Transaction, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetTransactionsByType(txType, newestFirst, txn.Metadata())
}

// TransactionsReceivedTotals returns the summed transfer amount per
// recipient address
func TransactionsReceivedTotals(db *Database) ([]models.ReceivedTotal, error) {
	var ret []models.ReceivedTotal
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = TransactionsReceivedTotalsTxn(txn)
		return err
	})
	return ret, err
}

func TransactionsReceivedTotalsTxn(txn *Txn) ([]models.ReceivedTotal, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetReceivedTransferTotals(txn.Metadata())
}

// TransactionsSentTotals returns the summed amount and fee per sender
// public key across all transaction types
func TransactionsSentTotals(db *Database) ([]models.SentTotal, error) {
	var ret []models.SentTotal
	txn := db.MetadataTxn(false)
	err := txn.Do(func(txn *Txn) error {
		var err error
		ret, err = TransactionsSentTotalsTxn(txn)
		return err
	})
	return ret, err
}

func TransactionsSentTotalsTxn(txn *Txn) ([]models.SentTotal, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	return txn.DB().Metadata().GetSentTotals(txn.Metadata())
}
