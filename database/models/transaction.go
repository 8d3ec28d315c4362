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

package models

// Transaction represents a transaction row in the metadata store. Only the
// fields needed for lookups and aggregation live here; the full serialized
// payload lives in the blob store keyed by hash. The row ID reflects
// insertion order, which follows chain order during import.
type Transaction struct {
	ID              uint   `gorm:"primarykey"`
	Hash            []byte `gorm:"uniqueIndex;size:32"`
	BlockHash       []byte `gorm:"index;size:32"`
	Type            uint8  `gorm:"index"`
	Timestamp       uint32 `gorm:"index"`
	SenderPublicKey []byte `gorm:"index;size:33"`
	// RecipientAddress is empty for transaction types without a recipient
	RecipientAddress string `gorm:"index;size:64"`
	Amount           uint64
	Fee              uint64
}

func (Transaction) TableName() string {
	return "transaction"
}

// ReceivedTotal is the aggregation row for total transferred value per
// recipient address
type ReceivedTotal struct {
	RecipientAddress string
	Amount           uint64
}

// SentTotal is the aggregation row for total spent value and fees per
// sender public key, across all transaction types
type SentTotal struct {
	SenderPublicKey []byte
	Amount          uint64
	Fee             uint64
}
