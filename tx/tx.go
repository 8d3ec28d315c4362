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

// Package tx provides the transaction model for the corvus networks and
// the binary codec used for transaction payloads at rest.
package tx

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Type identifies the transaction type
type Type uint8

const (
	TypeTransfer             Type = 0
	TypeSecondSignature      Type = 1
	TypeDelegateRegistration Type = 2
	TypeVote                 Type = 3
	TypeMultisignature       Type = 4
)

func (t Type) String() string {
	switch t {
	case TypeTransfer:
		return "transfer"
	case TypeSecondSignature:
		return "second-signature"
	case TypeDelegateRegistration:
		return "delegate-registration"
	case TypeVote:
		return "vote"
	case TypeMultisignature:
		return "multisignature"
	default:
		return "unknown"
	}
}

const (
	// PayloadMarker is the first byte of every serialized transaction
	PayloadMarker = 0xC7

	// PublicKeySize is the size of a compressed public key
	PublicKeySize = 33

	// MaxMemoSize bounds the optional memo field
	MaxMemoSize = 64

	recipientSize = 21
)

var (
	ErrBadMarker     = errors.New("bad payload marker")
	ErrUnknownType   = errors.New("unknown transaction type")
	ErrTruncated     = errors.New("truncated payload")
	ErrTrailingBytes = errors.New("trailing bytes after payload")
	ErrMemoTooLarge  = errors.New("memo exceeds maximum size")
	ErrBadPublicKey  = errors.New("bad public key length")
	ErrBadAddress    = errors.New("bad address")
	ErrEmptyAsset    = errors.New("empty asset")
)

// Transaction is a decoded transaction. Exactly one of the asset fields is
// populated, matching Type.
type Transaction struct {
	Version         uint8
	Network         uint8
	Type            Type
	Timestamp       uint32
	SenderPublicKey []byte
	Fee             uint64
	Memo            []byte

	Transfer       *TransferAsset
	Signature      *SignatureAsset
	Delegate       *DelegateAsset
	Votes          []Vote
	Multisignature *MultisignatureAsset
}

// TransferAsset carries the value movement of a transfer transaction
type TransferAsset struct {
	Amount           uint64
	Expiration       uint32
	RecipientAddress string
}

// SignatureAsset carries the second public key registered by a
// second-signature transaction
type SignatureAsset struct {
	PublicKey []byte
}

// DelegateAsset carries the username claimed by a delegate registration
type DelegateAsset struct {
	Username string
}

// VoteOp distinguishes vote casts from vote withdrawals
type VoteOp uint8

const (
	VoteOpRemove VoteOp = 0
	VoteOpAdd    VoteOp = 1
)

// Vote is a single vote operation against a delegate public key
type Vote struct {
	Op                VoteOp
	DelegatePublicKey []byte
}

// MultisignatureAsset carries the participant set registered by a
// multisignature transaction
type MultisignatureAsset struct {
	Min        uint8
	Lifetime   uint8
	PublicKeys [][]byte
}

// Hash returns the SHA-256 digest of the serialized transaction
func (t *Transaction) Hash() ([]byte, error) {
	data, err := t.Serialize()
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(data)
	return digest[:], nil
}

// Amount returns the transferred amount, or zero for transaction types
// that move no value
func (t *Transaction) Amount() uint64 {
	if t.Transfer != nil {
		return t.Transfer.Amount
	}
	return 0
}

// RecipientAddress returns the transfer recipient, or the empty string for
// transaction types that have none
func (t *Transaction) RecipientAddress() string {
	if t.Transfer != nil {
		return t.Transfer.RecipientAddress
	}
	return ""
}

// SenderHex returns the sender public key as a hex string for display
func (t *Transaction) SenderHex() string {
	return hex.EncodeToString(t.SenderPublicKey)
}
