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

// Block represents a block header row in the metadata store. The row ID
// reflects insertion order, which follows chain order during import.
type Block struct {
	ID                 uint   `gorm:"primarykey"`
	Hash               []byte `gorm:"uniqueIndex;size:32"`
	Height             uint64 `gorm:"uniqueIndex"`
	Timestamp          uint32 `gorm:"index"`
	PreviousHash       []byte `gorm:"size:32"`
	GeneratorPublicKey []byte `gorm:"index;size:33"`
	Reward             uint64
	TotalFee           uint64
	TotalAmount        uint64
	TransactionCount   uint32
}

func (Block) TableName() string {
	return "block"
}

// ForgedTotal is the aggregation row for total forged value (rewards plus
// collected fees) per block generator
type ForgedTotal struct {
	GeneratorPublicKey []byte
	Forged             uint64
}

// DelegateForgedStat is the aggregation row for per-generator forging
// statistics: summed fees, summed rewards, and number of produced blocks
type DelegateForgedStat struct {
	GeneratorPublicKey []byte
	TotalFees          uint64
	Rewards            uint64
	ProducedBlocks     uint64
}
