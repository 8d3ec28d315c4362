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

package ledger

import (
	"github.com/corvuslabs-io/skink/tx"
)

// ForgedBlock identifies the most recent block a delegate produced within
// the inspected window
type ForgedBlock struct {
	Hash      []byte
	Height    uint64
	Timestamp uint32
}

// Wallet is the in-memory ledger entry for a single address. Balances are
// signed because the rebuild tolerates (and reports) negative balances
// instead of clamping them.
type Wallet struct {
	// Address is the base58check account identifier and never changes
	Address string
	// PublicKey is learned from the first transaction the wallet sends
	PublicKey []byte
	// SecondPublicKey is the optional second signature credential
	SecondPublicKey []byte
	// Balance in minor currency units
	Balance int64
	// Username is set for registered delegates, empty otherwise
	Username string
	// Vote holds the public key of the delegate this wallet votes for,
	// nil when the wallet does not vote
	Vote []byte
	// Voted blocks further vote mutation within a rebuild pass
	Voted bool
	// VoteBalance is the sum of the balances of this delegate's voters
	VoteBalance int64
	// ForgedFees is the total of transaction fees collected by this
	// delegate's blocks
	ForgedFees int64
	// ForgedRewards is the total of block rewards earned by this delegate
	ForgedRewards int64
	// ProducedBlocks counts the blocks this delegate generated
	ProducedBlocks int64
	// Rate is the 1-based delegate rank, 0 when unranked
	Rate int
	// Multisignature is set at most once per rebuild pass
	Multisignature *tx.MultisignatureAsset
	// LastBlock is the delegate's most recent block within the inspected
	// window, nil outside it
	LastBlock *ForgedBlock
}

// IsDelegate reports whether the wallet holds a delegate registration
func (w *Wallet) IsDelegate() bool {
	return w.Username != ""
}
