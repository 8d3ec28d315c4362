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

package database_test

import (
	"testing"
	"time"

	"github.com/corvuslabs-io/skink/database"
	"github.com/corvuslabs-io/skink/database/models"
	"github.com/corvuslabs-io/skink/tx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dbConfig = &database.Config{
	BlobCacheSize: 1 << 20,
	Logger:        nil,
	PromRegistry:  nil,
	DataDir:       "",
}

func testHash(fill byte) []byte {
	hash := make([]byte, 32)
	for i := range hash {
		hash[i] = fill
	}
	return hash
}

func testPubKey(fill byte) []byte {
	key := make([]byte, 33)
	key[0] = 0x03
	for i := 1; i < len(key); i++ {
		key[i] = fill
	}
	return key
}

// TestInMemorySqliteMultipleTransaction tests that our sqlite connection allows multiple
// concurrent transactions when using in-memory mode. This requires special URI flags, and
// this is mostly making sure that we don't lose them
func TestInMemorySqliteMultipleTransaction(t *testing.T) {
	var db *database.Database
	doQuery := func(sleep time.Duration) error {
		txn := db.Metadata().NewTransaction()
		if _, err := db.Metadata().GetBlockCount(txn); err != nil {
			return err
		}
		time.Sleep(sleep)
		return txn.Commit()
	}
	db, err := database.New(dbConfig)
	require.NoError(t, err)
	defer db.Close()
	done := make(chan error, 1)
	go func() {
		done <- doQuery(time.Second)
	}()
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, doQuery(0))
	require.NoError(t, <-done)
}

func TestBlockRoundTrip(t *testing.T) {
	db, err := database.New(dbConfig)
	require.NoError(t, err)
	defer db.Close()

	blocks := []models.Block{
		{
			Hash:               testHash(0x01),
			Height:             1,
			Timestamp:          10,
			GeneratorPublicKey: testPubKey(0xa1),
			Reward:             200,
			TotalFee:           50,
			TotalAmount:        1000,
			TransactionCount:   2,
		},
		{
			Hash:               testHash(0x02),
			Height:             2,
			Timestamp:          20,
			PreviousHash:       testHash(0x01),
			GeneratorPublicKey: testPubKey(0xa2),
			Reward:             200,
		},
	}
	for i := range blocks {
		require.NoError(t, db.BlockCreate(&blocks[i], nil))
	}

	got, err := database.BlockByHash(db, testHash(0x01))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1), got.Height)
	assert.Equal(t, uint32(10), got.Timestamp)
	assert.Equal(t, testPubKey(0xa1), got.GeneratorPublicKey)

	missing, err := database.BlockByHash(db, testHash(0xff))
	require.NoError(t, err)
	assert.Nil(t, missing)

	tip, err := database.BlockTip(db)
	require.NoError(t, err)
	require.NotNil(t, tip)
	assert.Equal(t, uint64(2), tip.Height)

	count, err := database.BlockCount(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBlocksRecentOrder(t *testing.T) {
	db, err := database.New(dbConfig)
	require.NoError(t, err)
	defer db.Close()

	// Two blocks share a timestamp, so the insertion order decides
	blocks := []models.Block{
		{Hash: testHash(0x01), Height: 1, Timestamp: 10, GeneratorPublicKey: testPubKey(0xa1)},
		{Hash: testHash(0x02), Height: 2, Timestamp: 30, GeneratorPublicKey: testPubKey(0xa2)},
		{Hash: testHash(0x03), Height: 3, Timestamp: 30, GeneratorPublicKey: testPubKey(0xa3)},
	}
	for i := range blocks {
		require.NoError(t, db.BlockCreate(&blocks[i], nil))
	}

	recent, err := database.BlocksRecent(db, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, uint64(3), recent[0].Height)
	assert.Equal(t, uint64(2), recent[1].Height)
}

func TestBlockForgedAggregations(t *testing.T) {
	db, err := database.New(dbConfig)
	require.NoError(t, err)
	defer db.Close()

	gen1 := testPubKey(0xb1)
	gen2 := testPubKey(0xb2)
	blocks := []models.Block{
		{Hash: testHash(0x01), Height: 1, Timestamp: 10, GeneratorPublicKey: gen1, Reward: 2, TotalFee: 1},
		{Hash: testHash(0x02), Height: 2, Timestamp: 20, GeneratorPublicKey: gen1, Reward: 2},
		{Hash: testHash(0x03), Height: 3, Timestamp: 30, GeneratorPublicKey: gen2, Reward: 3, TotalFee: 1},
	}
	for i := range blocks {
		require.NoError(t, db.BlockCreate(&blocks[i], nil))
	}

	totals, err := database.BlocksForgedTotals(db)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	byGen := map[string]uint64{}
	for _, row := range totals {
		byGen[string(row.GeneratorPublicKey)] = row.Forged
	}
	assert.Equal(t, uint64(5), byGen[string(gen1)])
	assert.Equal(t, uint64(4), byGen[string(gen2)])

	// Restricted to gen1 only
	stats, err := database.BlocksDelegateForgedStats(db, [][]byte{gen1})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, gen1, stats[0].GeneratorPublicKey)
	assert.Equal(t, uint64(1), stats[0].TotalFees)
	assert.Equal(t, uint64(4), stats[0].Rewards)
	assert.Equal(t, uint64(2), stats[0].ProducedBlocks)

	// Empty key set matches nothing
	stats, err = database.BlocksDelegateForgedStats(db, nil)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestTransactionRoundTrip(t *testing.T) {
	db, err := database.New(dbConfig)
	require.NoError(t, err)
	defer db.Close()

	sender := testPubKey(0xc1)
	recipient, err := tx.AddressFromPublicKey(testPubKey(0xc2), 0x1c)
	require.NoError(t, err)
	transfer := &tx.Transaction{
		Version:         1,
		Network:         0x1c,
		Type:            tx.TypeTransfer,
		Timestamp:       1000,
		SenderPublicKey: sender,
		Fee:             10000000,
		Transfer: &tx.TransferAsset{
			Amount:           250000000,
			RecipientAddress: recipient,
		},
	}
	payload, err := transfer.Serialize()
	require.NoError(t, err)
	hash, err := transfer.Hash()
	require.NoError(t, err)

	row := &models.Transaction{
		Hash:             hash,
		BlockHash:        testHash(0x01),
		Type:             uint8(tx.TypeTransfer),
		Timestamp:        transfer.Timestamp,
		SenderPublicKey:  sender,
		RecipientAddress: recipient,
		Amount:           transfer.Amount(),
		Fee:              transfer.Fee,
	}
	require.NoError(t, db.TransactionCreate(row, payload, nil))

	got, err := database.TransactionByHash(db, hash)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, recipient, got.RecipientAddress)
	assert.Equal(t, uint64(250000000), got.Amount)

	missing, err := database.TransactionByHash(db, testHash(0xff))
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Stored payload decodes back to the original transaction
	storedPayload, err := database.TransactionPayload(db, hash)
	require.NoError(t, err)
	decoded, err := tx.Deserialize(storedPayload)
	require.NoError(t, err)
	require.NotNil(t, decoded.Transfer)
	assert.Equal(t, recipient, decoded.Transfer.RecipientAddress)
	assert.Equal(t, uint64(250000000), decoded.Transfer.Amount)

	count, err := database.TransactionCount(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTransactionsByTypeOrder(t *testing.T) {
	db, err := database.New(dbConfig)
	require.NoError(t, err)
	defer db.Close()

	sender := testPubKey(0xc1)
	rows := []models.Transaction{
		{Hash: testHash(0x01), Type: uint8(tx.TypeTransfer), Timestamp: 100, SenderPublicKey: sender, RecipientAddress: "addrA", Amount: 1},
		{Hash: testHash(0x02), Type: uint8(tx.TypeTransfer), Timestamp: 100, SenderPublicKey: sender, RecipientAddress: "addrA", Amount: 2},
		{Hash: testHash(0x03), Type: uint8(tx.TypeTransfer), Timestamp: 50, SenderPublicKey: sender, RecipientAddress: "addrB", Amount: 3},
		{Hash: testHash(0x04), Type: uint8(tx.TypeVote), Timestamp: 60, SenderPublicKey: sender},
	}
	for i := range rows {
		require.NoError(t, db.TransactionCreate(&rows[i], []byte{0x00}, nil))
	}

	// Insertion order
	asc, err := database.TransactionsByType(db, uint8(tx.TypeTransfer), false)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, uint64(1), asc[0].Amount)
	assert.Equal(t, uint64(2), asc[1].Amount)
	assert.Equal(t, uint64(3), asc[2].Amount)

	// Newest first, with the later row winning the timestamp tie
	desc, err := database.TransactionsByType(db, uint8(tx.TypeTransfer), true)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, uint64(2), desc[0].Amount)
	assert.Equal(t, uint64(1), desc[1].Amount)
	assert.Equal(t, uint64(3), desc[2].Amount)
}

func TestTransactionAggregations(t *testing.T) {
	db, err := database.New(dbConfig)
	require.NoError(t, err)
	defer db.Close()

	s1 := testPubKey(0xd1)
	s2 := testPubKey(0xd2)
	rows := []models.Transaction{
		{Hash: testHash(0x01), Type: uint8(tx.TypeTransfer), Timestamp: 10, SenderPublicKey: s1, RecipientAddress: "addrA", Amount: 10, Fee: 1},
		{Hash: testHash(0x02), Type: uint8(tx.TypeTransfer), Timestamp: 20, SenderPublicKey: s1, RecipientAddress: "addrA", Amount: 5, Fee: 1},
		{Hash: testHash(0x03), Type: uint8(tx.TypeTransfer), Timestamp: 30, SenderPublicKey: s2, RecipientAddress: "addrB", Amount: 7, Fee: 2},
		{Hash: testHash(0x04), Type: uint8(tx.TypeDelegateRegistration), Timestamp: 40, SenderPublicKey: s1, Fee: 25},
	}
	for i := range rows {
		require.NoError(t, db.TransactionCreate(&rows[i], []byte{0x00}, nil))
	}

	// Only transfers count toward received totals
	received, err := database.TransactionsReceivedTotals(db)
	require.NoError(t, err)
	require.Len(t, received, 2)
	byAddr := map[string]uint64{}
	for _, row := range received {
		byAddr[row.RecipientAddress] = row.Amount
	}
	assert.Equal(t, uint64(15), byAddr["addrA"])
	assert.Equal(t, uint64(7), byAddr["addrB"])

	// All types count toward sent totals
	sent, err := database.TransactionsSentTotals(db)
	require.NoError(t, err)
	require.Len(t, sent, 2)
	type sentRow struct {
		amount uint64
		fee    uint64
	}
	bySender := map[string]sentRow{}
	for _, row := range sent {
		bySender[string(row.SenderPublicKey)] = sentRow{row.Amount, row.Fee}
	}
	assert.Equal(t, sentRow{15, 27}, bySender[string(s1)])
	assert.Equal(t, sentRow{7, 2}, bySender[string(s2)])
}

func TestCommitTimestampMismatch(t *testing.T) {
	// First instance commits a coordinated write, which records a commit
	// timestamp in both stores
	db1, err := database.New(dbConfig)
	require.NoError(t, err)
	defer db1.Close()
	row := &models.Transaction{
		Hash:            testHash(0x01),
		Type:            uint8(tx.TypeTransfer),
		Timestamp:       10,
		SenderPublicKey: testPubKey(0xe1),
		Amount:          1,
	}
	require.NoError(t, db1.TransactionCreate(row, []byte{0x00}, nil))

	// A second instance shares the in-memory sqlite database but gets a
	// fresh blob store, so the timestamps cannot agree
	db2, err := database.New(dbConfig)
	require.Error(t, err)
	var mismatchErr database.CommitTimestampError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Zero(t, mismatchErr.BlobTimestamp)
	assert.Positive(t, mismatchErr.MetadataTimestamp)
	if db2 != nil {
		db2.Close()
	}
}
