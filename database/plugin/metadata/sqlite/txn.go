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
	"github.com/corvuslabs-io/skink/database/types"

	"gorm.io/gorm"
)

// sqliteTxn wraps a gorm transaction and implements types.Txn. A failed
// Begin is carried in beginErr and surfaced on first use.
type sqliteTxn struct {
	store    *MetadataStoreSqlite
	db       *gorm.DB
	beginErr error
	finished bool
}

func (t *sqliteTxn) Commit() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if t.beginErr != nil {
		return t.beginErr
	}
	return t.db.Commit().Error
}

func (t *sqliteTxn) Rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if t.beginErr != nil {
		// Nothing to roll back
		return nil
	}
	return t.db.Rollback().Error
}

// NewTransaction begins a new metadata transaction
func (d *MetadataStoreSqlite) NewTransaction() types.Txn {
	tx := d.DB().Begin()
	return &sqliteTxn{
		store:    d,
		db:       tx,
		beginErr: tx.Error,
	}
}

// resolveDB returns the *gorm.DB for the given transaction, or the store
// handle if txn is nil. Returns ErrTxnWrongType if txn is non-nil but not
// from this store.
func (d *MetadataStoreSqlite) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		return d.DB(), nil
	}
	stx, ok := txn.(*sqliteTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if stx.store != d {
		return nil, types.ErrTxnWrongType
	}
	if stx.beginErr != nil {
		return nil, stx.beginErr
	}
	if stx.finished {
		return nil, types.ErrNilTxn
	}
	return stx.db, nil
}
