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

package node

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/alitto/pond/v2"

	"github.com/corvuslabs-io/skink/database"
	"github.com/corvuslabs-io/skink/database/models"
	"github.com/corvuslabs-io/skink/internal/config"
	"github.com/corvuslabs-io/skink/tx"
)

// snapshotBlock is one line of a chain snapshot: the block header fields
// plus the hex-encoded serialized payload of each transaction in the block
type snapshotBlock struct {
	Hash               string   `json:"hash"`
	Height             uint64   `json:"height"`
	Timestamp          uint32   `json:"timestamp"`
	PreviousHash       string   `json:"previousHash"`
	GeneratorPublicKey string   `json:"generatorPublicKey"`
	Reward             uint64   `json:"reward"`
	TotalFee           uint64   `json:"totalFee"`
	TotalAmount        uint64   `json:"totalAmount"`
	Transactions       []string `json:"transactions"`
}

// importedBlock is a snapshot block decoded into storage form
type importedBlock struct {
	block    models.Block
	rows     []models.Transaction
	payloads [][]byte
}

// Load imports chain history from a snapshot file into the database. The
// snapshot path may be a local file or a gs:// URL. Transaction payloads are
// decoded on a worker pool; inserts happen in batched coordinated
// transactions across the metadata and blob stores.
func Load(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	snapshotPath string,
) error {
	// Load database
	db, err := database.New(&database.Config{
		DataDir: cfg.DatabasePath,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	reader, err := openSnapshot(ctx, snapshotPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	batchSize := cfg.LoadBatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	workers := cfg.LoadWorkers
	if workers <= 0 {
		workers = 4
	}
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	logger.Info(
		"importing blocks from snapshot",
		"snapshot", snapshotPath,
		"component", "node",
	)
	scanner := bufio.NewScanner(reader)
	// Individual snapshot lines can be large with full blocks of payloads
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	var blocksImported int
	var transactionsImported int
	batch := make([]snapshotBlock, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		imported := make([]importedBlock, len(batch))
		group := pool.NewGroupContext(ctx)
		for i := range batch {
			group.SubmitErr(func() error {
				decoded, err := decodeSnapshotBlock(&batch[i])
				if err != nil {
					return err
				}
				imported[i] = *decoded
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}
		txn := db.Transaction(true)
		err := txn.Do(func(txn *database.Txn) error {
			for i := range imported {
				if err := db.BlockCreate(&imported[i].block, txn); err != nil {
					return err
				}
				for j := range imported[i].rows {
					err := db.TransactionCreate(
						&imported[i].rows[j],
						imported[i].payloads[j],
						txn,
					)
					if err != nil {
						return err
					}
				}
				transactionsImported += len(imported[i].rows)
			}
			return nil
		})
		if err != nil {
			return err
		}
		blocksImported += len(batch)
		batch = batch[:0]
		if blocksImported%10000 == 0 {
			logger.Info(
				fmt.Sprintf(
					"importing blocks from snapshot (%d blocks imported)",
					blocksImported,
				),
				"component", "node",
			)
		}
		return nil
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var block snapshotBlock
		if err := json.Unmarshal([]byte(line), &block); err != nil {
			return fmt.Errorf(
				"malformed snapshot line after block %d: %w",
				blocksImported,
				err,
			)
		}
		batch = append(batch, block)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}
	logger.Info(
		fmt.Sprintf(
			"finished importing %d blocks (%d transactions) from snapshot",
			blocksImported,
			transactionsImported,
		),
		"component", "node",
	)
	return nil
}

// decodeSnapshotBlock converts one snapshot line into storage rows, running
// every transaction payload through the codec to derive the metadata columns
func decodeSnapshotBlock(src *snapshotBlock) (*importedBlock, error) {
	blockHash, err := hex.DecodeString(src.Hash)
	if err != nil {
		return nil, fmt.Errorf("block %d: bad hash: %w", src.Height, err)
	}
	prevHash, err := hex.DecodeString(src.PreviousHash)
	if err != nil {
		return nil, fmt.Errorf(
			"block %d: bad previous hash: %w",
			src.Height,
			err,
		)
	}
	generator, err := hex.DecodeString(src.GeneratorPublicKey)
	if err != nil {
		return nil, fmt.Errorf(
			"block %d: bad generator public key: %w",
			src.Height,
			err,
		)
	}
	ret := &importedBlock{
		block: models.Block{
			Hash:               blockHash,
			Height:             src.Height,
			Timestamp:          src.Timestamp,
			PreviousHash:       prevHash,
			GeneratorPublicKey: generator,
			Reward:             src.Reward,
			TotalFee:           src.TotalFee,
			TotalAmount:        src.TotalAmount,
			TransactionCount:   uint32(len(src.Transactions)), // #nosec G115
		},
		rows:     make([]models.Transaction, 0, len(src.Transactions)),
		payloads: make([][]byte, 0, len(src.Transactions)),
	}
	for i, payloadHex := range src.Transactions {
		payload, err := hex.DecodeString(payloadHex)
		if err != nil {
			return nil, fmt.Errorf(
				"block %d: bad payload %d: %w",
				src.Height,
				i,
				err,
			)
		}
		decoded, err := tx.Deserialize(payload)
		if err != nil {
			return nil, fmt.Errorf(
				"block %d: transaction %d: %w",
				src.Height,
				i,
				err,
			)
		}
		txHash, err := decoded.Hash()
		if err != nil {
			return nil, fmt.Errorf(
				"block %d: transaction %d: %w",
				src.Height,
				i,
				err,
			)
		}
		ret.rows = append(ret.rows, models.Transaction{
			Hash:             txHash,
			BlockHash:        blockHash,
			Type:             uint8(decoded.Type),
			Timestamp:        decoded.Timestamp,
			SenderPublicKey:  decoded.SenderPublicKey,
			RecipientAddress: decoded.RecipientAddress(),
			Amount:           decoded.Amount(),
			Fee:              decoded.Fee,
		})
		ret.payloads = append(ret.payloads, payload)
	}
	return ret, nil
}

// openSnapshot opens a snapshot for reading from a local path or a gs://
// bucket URL
func openSnapshot(
	ctx context.Context,
	snapshotPath string,
) (io.ReadCloser, error) {
	if bucketPath, ok := strings.CutPrefix(snapshotPath, "gs://"); ok {
		bucketName, objectName, ok := strings.Cut(bucketPath, "/")
		if !ok || objectName == "" {
			return nil, fmt.Errorf(
				"invalid snapshot URL %q (expected gs://<bucket>/<object>)",
				snapshotPath,
			)
		}
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		reader, err := client.Bucket(bucketName).
			Object(objectName).
			NewReader(ctx)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf(
				"failed to open snapshot object: %w",
				err,
			)
		}
		return &gcsSnapshotReader{client: client, reader: reader}, nil
	}
	f, err := os.Open(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	return f, nil
}

// gcsSnapshotReader ties the storage client lifetime to the object reader
type gcsSnapshotReader struct {
	client *storage.Client
	reader *storage.Reader
}

func (r *gcsSnapshotReader) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *gcsSnapshotReader) Close() error {
	err := r.reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}
