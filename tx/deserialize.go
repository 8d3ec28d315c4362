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
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// Deserialize decodes a binary transaction payload. It fails on a bad
// marker, an unknown type, truncation, and trailing bytes.
func Deserialize(data []byte) (*Transaction, error) {
	r := payloadReader{data: data}
	marker, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if marker != PayloadMarker {
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadMarker, marker)
	}
	t := &Transaction{}
	if t.Version, err = r.readByte(); err != nil {
		return nil, err
	}
	if t.Network, err = r.readByte(); err != nil {
		return nil, err
	}
	rawType, err := r.readByte()
	if err != nil {
		return nil, err
	}
	t.Type = Type(rawType)
	if t.Timestamp, err = r.readUint32(); err != nil {
		return nil, err
	}
	if t.SenderPublicKey, err = r.readBytes(PublicKeySize); err != nil {
		return nil, err
	}
	if t.Fee, err = r.readUint64(); err != nil {
		return nil, err
	}
	memoLen, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if memoLen > MaxMemoSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMemoTooLarge, memoLen)
	}
	if memoLen > 0 {
		if t.Memo, err = r.readBytes(int(memoLen)); err != nil {
			return nil, err
		}
	}
	if err := deserializeAsset(&r, t); err != nil {
		return nil, err
	}
	if r.remaining() > 0 {
		return nil, fmt.Errorf(
			"%w: %d bytes",
			ErrTrailingBytes,
			r.remaining(),
		)
	}
	return t, nil
}

func deserializeAsset(r *payloadReader, t *Transaction) error {
	switch t.Type {
	case TypeTransfer:
		asset := &TransferAsset{}
		var err error
		if asset.Amount, err = r.readUint64(); err != nil {
			return err
		}
		if asset.Expiration, err = r.readUint32(); err != nil {
			return err
		}
		recipient, err := r.readBytes(recipientSize)
		if err != nil {
			return err
		}
		asset.RecipientAddress = base58.CheckEncode(
			recipient[1:],
			recipient[0],
		)
		t.Transfer = asset
	case TypeSecondSignature:
		key, err := r.readBytes(PublicKeySize)
		if err != nil {
			return err
		}
		t.Signature = &SignatureAsset{PublicKey: key}
	case TypeDelegateRegistration:
		nameLen, err := r.readByte()
		if err != nil {
			return err
		}
		if nameLen == 0 {
			return ErrEmptyAsset
		}
		name, err := r.readBytes(int(nameLen))
		if err != nil {
			return err
		}
		t.Delegate = &DelegateAsset{Username: string(name)}
	case TypeVote:
		count, err := r.readByte()
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrEmptyAsset
		}
		votes := make([]Vote, 0, count)
		for range int(count) {
			op, err := r.readByte()
			if err != nil {
				return err
			}
			if op != uint8(VoteOpAdd) && op != uint8(VoteOpRemove) {
				return fmt.Errorf("bad vote op: 0x%02x", op)
			}
			key, err := r.readBytes(PublicKeySize)
			if err != nil {
				return err
			}
			votes = append(
				votes,
				Vote{Op: VoteOp(op), DelegatePublicKey: key},
			)
		}
		t.Votes = votes
	case TypeMultisignature:
		asset := &MultisignatureAsset{}
		var err error
		if asset.Min, err = r.readByte(); err != nil {
			return err
		}
		if asset.Lifetime, err = r.readByte(); err != nil {
			return err
		}
		count, err := r.readByte()
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrEmptyAsset
		}
		asset.PublicKeys = make([][]byte, 0, count)
		for range int(count) {
			key, err := r.readBytes(PublicKeySize)
			if err != nil {
				return err
			}
			asset.PublicKeys = append(asset.PublicKeys, key)
		}
		t.Multisignature = asset
	default:
		return fmt.Errorf("%w: %d", ErrUnknownType, uint8(t.Type))
	}
	return nil
}

type payloadReader struct {
	data []byte
	pos  int
}

func (r *payloadReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *payloadReader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *payloadReader) readBytes(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, ErrTruncated
	}
	// Copy so the decoded transaction doesn't alias the input buffer
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *payloadReader) readUint32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *payloadReader) readUint64() (uint64, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
