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

package tx_test

import (
	"testing"

	"github.com/corvuslabs-io/skink/tx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddressVersion = 0x1c

func testKey(seed byte) []byte {
	key := make([]byte, tx.PublicKeySize)
	key[0] = 0x03
	for i := 1; i < len(key); i++ {
		key[i] = seed
	}
	return key
}

func testAddress(t *testing.T, seed byte) string {
	t.Helper()
	addr, err := tx.AddressFromPublicKey(testKey(seed), testAddressVersion)
	require.NoError(t, err)
	return addr
}

func TestSerializeRoundTrip(t *testing.T) {
	testDefs := []struct {
		name string
		tx   *tx.Transaction
	}{
		{
			name: "transfer",
			tx: &tx.Transaction{
				Version:         1,
				Network:         testAddressVersion,
				Type:            tx.TypeTransfer,
				Timestamp:       48278400,
				SenderPublicKey: testKey(0x01),
				Fee:             10000000,
				Memo:            []byte("coffee"),
				Transfer: &tx.TransferAsset{
					Amount:           250000000,
					Expiration:       48300000,
					RecipientAddress: testAddress(t, 0x02),
				},
			},
		},
		{
			name: "second signature",
			tx: &tx.Transaction{
				Version:         1,
				Network:         testAddressVersion,
				Type:            tx.TypeSecondSignature,
				Timestamp:       100,
				SenderPublicKey: testKey(0x03),
				Fee:             500000000,
				Signature: &tx.SignatureAsset{
					PublicKey: testKey(0x04),
				},
			},
		},
		{
			name: "delegate registration",
			tx: &tx.Transaction{
				Version:         1,
				Network:         testAddressVersion,
				Type:            tx.TypeDelegateRegistration,
				Timestamp:       200,
				SenderPublicKey: testKey(0x05),
				Fee:             2500000000,
				Delegate: &tx.DelegateAsset{
					Username: "genesis_1",
				},
			},
		},
		{
			name: "vote",
			tx: &tx.Transaction{
				Version:         1,
				Network:         testAddressVersion,
				Type:            tx.TypeVote,
				Timestamp:       300,
				SenderPublicKey: testKey(0x06),
				Fee:             100000000,
				Votes: []tx.Vote{
					{
						Op:                tx.VoteOpAdd,
						DelegatePublicKey: testKey(0x05),
					},
				},
			},
		},
		{
			name: "vote withdrawal",
			tx: &tx.Transaction{
				Version:         1,
				Network:         testAddressVersion,
				Type:            tx.TypeVote,
				Timestamp:       400,
				SenderPublicKey: testKey(0x06),
				Fee:             100000000,
				Votes: []tx.Vote{
					{
						Op:                tx.VoteOpRemove,
						DelegatePublicKey: testKey(0x05),
					},
				},
			},
		},
		{
			name: "multisignature",
			tx: &tx.Transaction{
				Version:         1,
				Network:         testAddressVersion,
				Type:            tx.TypeMultisignature,
				Timestamp:       500,
				SenderPublicKey: testKey(0x07),
				Fee:             2000000000,
				Multisignature: &tx.MultisignatureAsset{
					Min:      2,
					Lifetime: 24,
					PublicKeys: [][]byte{
						testKey(0x08),
						testKey(0x09),
						testKey(0x0a),
					},
				},
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			data, err := testDef.tx.Serialize()
			require.NoError(t, err)
			decoded, err := tx.Deserialize(data)
			require.NoError(t, err)
			assert.Equal(t, testDef.tx, decoded)
		})
	}
}

func TestDeserializeFailures(t *testing.T) {
	valid, err := (&tx.Transaction{
		Version:         1,
		Network:         testAddressVersion,
		Type:            tx.TypeTransfer,
		Timestamp:       1,
		SenderPublicKey: testKey(0x01),
		Fee:             1,
		Transfer: &tx.TransferAsset{
			Amount:           1,
			RecipientAddress: testAddress(t, 0x02),
		},
	}).Serialize()
	require.NoError(t, err)

	testDefs := []struct {
		name    string
		payload []byte
		wantErr error
	}{
		{
			name:    "empty",
			payload: nil,
			wantErr: tx.ErrTruncated,
		},
		{
			name:    "bad marker",
			payload: append([]byte{0x00}, valid[1:]...),
			wantErr: tx.ErrBadMarker,
		},
		{
			name:    "truncated header",
			payload: valid[:10],
			wantErr: tx.ErrTruncated,
		},
		{
			name:    "truncated asset",
			payload: valid[:len(valid)-5],
			wantErr: tx.ErrTruncated,
		},
		{
			name:    "trailing bytes",
			payload: append(append([]byte{}, valid...), 0xff),
			wantErr: tx.ErrTrailingBytes,
		},
		{
			name: "unknown type",
			payload: func() []byte {
				bad := append([]byte{}, valid...)
				bad[3] = 0x63
				return bad
			}(),
			wantErr: tx.ErrUnknownType,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := tx.Deserialize(testDef.payload)
			require.ErrorIs(t, err, testDef.wantErr)
		})
	}
}

func TestSerializeRejectsOversizeMemo(t *testing.T) {
	memo := make([]byte, tx.MaxMemoSize+1)
	_, err := (&tx.Transaction{
		Version:         1,
		Network:         testAddressVersion,
		Type:            tx.TypeSecondSignature,
		SenderPublicKey: testKey(0x01),
		Memo:            memo,
		Signature:       &tx.SignatureAsset{PublicKey: testKey(0x02)},
	}).Serialize()
	require.ErrorIs(t, err, tx.ErrMemoTooLarge)
}

func TestSerializeRejectsMissingAsset(t *testing.T) {
	_, err := (&tx.Transaction{
		Version:         1,
		Network:         testAddressVersion,
		Type:            tx.TypeVote,
		SenderPublicKey: testKey(0x01),
	}).Serialize()
	require.ErrorIs(t, err, tx.ErrEmptyAsset)
}

func TestHashDeterministic(t *testing.T) {
	txn := &tx.Transaction{
		Version:         1,
		Network:         testAddressVersion,
		Type:            tx.TypeDelegateRegistration,
		Timestamp:       123,
		SenderPublicKey: testKey(0x0b),
		Fee:             2500000000,
		Delegate:        &tx.DelegateAsset{Username: "voter"},
	}
	h1, err := txn.Hash()
	require.NoError(t, err)
	h2, err := txn.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 32)
}

func TestAddressFromPublicKey(t *testing.T) {
	addr, err := tx.AddressFromPublicKey(testKey(0x01), testAddressVersion)
	require.NoError(t, err)
	assert.NotEmpty(t, addr)

	// Same key, same address
	addr2, err := tx.AddressFromPublicKey(testKey(0x01), testAddressVersion)
	require.NoError(t, err)
	assert.Equal(t, addr, addr2)

	// Different version byte, different address
	addr3, err := tx.AddressFromPublicKey(testKey(0x01), 0x17)
	require.NoError(t, err)
	assert.NotEqual(t, addr, addr3)

	// Round trip through decode
	hash, version, err := tx.DecodeAddress(addr)
	require.NoError(t, err)
	assert.Len(t, hash, 20)
	assert.Equal(t, byte(testAddressVersion), version)

	_, err = tx.AddressFromPublicKey([]byte{0x01, 0x02}, testAddressVersion)
	require.ErrorIs(t, err, tx.ErrBadPublicKey)
}
