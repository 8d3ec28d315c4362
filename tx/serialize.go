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

package tx

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// Serialize encodes the transaction into its binary payload form.
//
// The layout is a fixed little-endian header followed by a type-specific
// asset section:
//
//	marker(1) version(1) network(1) type(1) timestamp(4)
//	senderPublicKey(33) fee(8) memoLen(1) memo(memoLen)
func (t *Transaction) Serialize() ([]byte, error) {
	if len(t.SenderPublicKey) != PublicKeySize {
		return nil, fmt.Errorf(
			"%w: sender key is %d bytes",
			ErrBadPublicKey,
			len(t.SenderPublicKey),
		)
	}
	if len(t.Memo) > MaxMemoSize {
		return nil, fmt.Errorf(
			"%w: %d bytes",
			ErrMemoTooLarge,
			len(t.Memo),
		)
	}
	var buf bytes.Buffer
	buf.WriteByte(PayloadMarker)
	buf.WriteByte(t.Version)
	buf.WriteByte(t.Network)
	buf.WriteByte(uint8(t.Type))
	writeUint32(&buf, t.Timestamp)
	buf.Write(t.SenderPublicKey)
	writeUint64(&buf, t.Fee)
	buf.WriteByte(uint8(len(t.Memo)))
	buf.Write(t.Memo)
	if err := t.serializeAsset(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t *Transaction) serializeAsset(buf *bytes.Buffer) error {
	switch t.Type {
	case TypeTransfer:
		if t.Transfer == nil {
			return ErrEmptyAsset
		}
		writeUint64(buf, t.Transfer.Amount)
		writeUint32(buf, t.Transfer.Expiration)
		hash, version, err := base58.CheckDecode(
			t.Transfer.RecipientAddress,
		)
		if err != nil {
			return fmt.Errorf(
				"%w: recipient %s: %w",
				ErrBadAddress,
				t.Transfer.RecipientAddress,
				err,
			)
		}
		if len(hash) != recipientSize-1 {
			return fmt.Errorf(
				"%w: recipient %s",
				ErrBadAddress,
				t.Transfer.RecipientAddress,
			)
		}
		buf.WriteByte(version)
		buf.Write(hash)
	case TypeSecondSignature:
		if t.Signature == nil {
			return ErrEmptyAsset
		}
		if len(t.Signature.PublicKey) != PublicKeySize {
			return fmt.Errorf(
				"%w: second key is %d bytes",
				ErrBadPublicKey,
				len(t.Signature.PublicKey),
			)
		}
		buf.Write(t.Signature.PublicKey)
	case TypeDelegateRegistration:
		if t.Delegate == nil || t.Delegate.Username == "" {
			return ErrEmptyAsset
		}
		if len(t.Delegate.Username) > 255 {
			return fmt.Errorf(
				"username too long: %d bytes",
				len(t.Delegate.Username),
			)
		}
		buf.WriteByte(uint8(len(t.Delegate.Username)))
		buf.WriteString(t.Delegate.Username)
	case TypeVote:
		if len(t.Votes) == 0 {
			return ErrEmptyAsset
		}
		if len(t.Votes) > 255 {
			return fmt.Errorf("too many votes: %d", len(t.Votes))
		}
		buf.WriteByte(uint8(len(t.Votes)))
		for _, vote := range t.Votes {
			if len(vote.DelegatePublicKey) != PublicKeySize {
				return fmt.Errorf(
					"%w: vote target is %d bytes",
					ErrBadPublicKey,
					len(vote.DelegatePublicKey),
				)
			}
			buf.WriteByte(uint8(vote.Op))
			buf.Write(vote.DelegatePublicKey)
		}
	case TypeMultisignature:
		if t.Multisignature == nil ||
			len(t.Multisignature.PublicKeys) == 0 {
			return ErrEmptyAsset
		}
		if len(t.Multisignature.PublicKeys) > 255 {
			return fmt.Errorf(
				"too many participants: %d",
				len(t.Multisignature.PublicKeys),
			)
		}
		buf.WriteByte(t.Multisignature.Min)
		buf.WriteByte(t.Multisignature.Lifetime)
		buf.WriteByte(uint8(len(t.Multisignature.PublicKeys)))
		for _, key := range t.Multisignature.PublicKeys {
			if len(key) != PublicKeySize {
				return fmt.Errorf(
					"%w: participant key is %d bytes",
					ErrBadPublicKey,
					len(key),
				)
			}
			buf.Write(key)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownType, uint8(t.Type))
	}
	return nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}
