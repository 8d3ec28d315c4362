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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/corvuslabs-io/skink/config/chain"
	"github.com/corvuslabs-io/skink/database"
	"github.com/corvuslabs-io/skink/event"
	"github.com/corvuslabs-io/skink/tx"

	"github.com/prometheus/client_golang/prometheus"
)

// RebuilderConfig contains the configuration for a Rebuilder
type RebuilderConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	Database     *database.Database
	Store        *WalletStore
	Params       *chain.Params
	PromRegistry prometheus.Registerer
}

// Rebuilder reconstructs the in-memory ledger from persisted chain history.
// It runs a fixed sequence of phases, each folding one aggregation result
// set into the wallet store. A phase error aborts the whole pass; the
// caller must Reset the store before retrying.
type Rebuilder struct {
	config  RebuilderConfig
	metrics rebuildMetrics
}

// NewRebuilder creates a Rebuilder
func NewRebuilder(cfg RebuilderConfig) (*Rebuilder, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Database == nil {
		return nil, errors.New("no database provided")
	}
	if cfg.Store == nil {
		return nil, errors.New("no wallet store provided")
	}
	if cfg.Params == nil {
		return nil, errors.New("no chain params provided")
	}
	r := &Rebuilder{
		config: cfg,
	}
	r.metrics.init(cfg.PromRegistry)
	return r, nil
}

type rebuildStep struct {
	name string
	fn   func() error
}

// Build rebuilds the ledger up to the given chain height. The wallet store
// must already hold the genesis wallets.
func (r *Rebuilder) Build(height uint64) error {
	start := time.Now()
	activeDelegates := r.config.Params.ActiveDelegates(height)
	steps := []rebuildStep{
		{"receivedTransactions", r.buildReceivedTransactions},
		{"blockRewards", r.buildBlockRewards},
		{"lastForgedBlocks", func() error {
			return r.buildLastForgedBlocks(activeDelegates)
		}},
		{"sentTransactions", r.buildSentTransactions},
		{"secondSignatures", r.buildSecondSignatures},
		{"delegates", r.buildDelegates},
		{"votes", r.buildVotes},
		{"multisignatures", r.buildMultisignatures},
	}
	for i, step := range steps {
		r.publishStep(step.name, i+1, len(steps))
		r.config.Logger.Debug(
			"rebuilding ledger state",
			"step", step.name,
			"component", "ledger",
		)
		if err := step.fn(); err != nil {
			return fmt.Errorf("rebuild %s: %w", step.name, err)
		}
	}
	duration := time.Since(start)
	wallets := r.config.Store.Len()
	delegates := len(r.config.Store.Delegates())
	r.metrics.height.Set(float64(height))
	r.metrics.wallets.Set(float64(wallets))
	r.metrics.delegates.Set(float64(delegates))
	r.metrics.duration.Set(duration.Seconds())
	r.metrics.rebuildsTotal.Inc()
	r.config.Logger.Info(
		"ledger state rebuilt",
		"height", height,
		"wallets", wallets,
		"delegates", delegates,
		"duration", duration.Round(time.Millisecond).String(),
		"component", "ledger",
	)
	if r.config.EventBus != nil {
		r.config.EventBus.Publish(
			event.RebuildDoneEventType,
			event.NewEvent(
				event.RebuildDoneEventType,
				event.RebuildDoneEvent{
					Height:    height,
					Wallets:   wallets,
					Delegates: delegates,
					Duration:  duration,
				},
			),
		)
	}
	return nil
}

func (r *Rebuilder) publishStep(name string, step int, total int) {
	if r.config.EventBus == nil {
		return
	}
	r.config.EventBus.Publish(
		event.RebuildStepEventType,
		event.NewEvent(
			event.RebuildStepEventType,
			event.RebuildStepEvent{
				Name:  name,
				Step:  step,
				Total: total,
			},
		),
	)
}

// buildReceivedTransactions folds per-recipient transfer totals into wallet
// balances. Recipients without an existing wallet are cold wallets: their
// balance is unrecoverable without a public key, so the row is dropped with
// a warning rather than creating an entry.
func (r *Rebuilder) buildReceivedTransactions() error {
	rows, err := database.TransactionsReceivedTotals(r.config.Database)
	if err != nil {
		return err
	}
	for _, row := range rows {
		wallet, ok := r.config.Store.LookupByAddress(row.RecipientAddress)
		if !ok {
			r.config.Logger.Warn(
				"lost cold wallet",
				"address", row.RecipientAddress,
				"amount", row.Amount,
				"component", "ledger",
			)
			r.metrics.anomalies.WithLabelValues("cold_wallet").Inc()
			continue
		}
		wallet.Balance = int64(row.Amount)
	}
	return nil
}

// buildBlockRewards credits each generator with the rewards and fees of all
// blocks it forged
func (r *Rebuilder) buildBlockRewards() error {
	rows, err := database.BlocksForgedTotals(r.config.Database)
	if err != nil {
		return err
	}
	for _, row := range rows {
		wallet, err := r.config.Store.FindByPublicKey(row.GeneratorPublicKey)
		if err != nil {
			return err
		}
		wallet.Balance += int64(row.Forged)
	}
	return nil
}

// buildLastForgedBlocks records each generator's most recent block within
// the newest-block window. Rows arrive newest first and each row overwrites
// the previous assignment, so a generator appearing more than once keeps
// its oldest block in the window.
func (r *Rebuilder) buildLastForgedBlocks(activeDelegates int) error {
	rows, err := database.BlocksRecent(r.config.Database, activeDelegates)
	if err != nil {
		return err
	}
	for _, row := range rows {
		wallet, err := r.config.Store.FindByPublicKey(row.GeneratorPublicKey)
		if err != nil {
			return err
		}
		wallet.LastBlock = &ForgedBlock{
			Hash:      row.Hash,
			Height:    row.Height,
			Timestamp: row.Timestamp,
		}
	}
	return nil
}

// buildSentTransactions debits each sender with the amounts and fees of
// everything it sent, across all transaction types. Balances are allowed to
// go negative; for non-genesis wallets that is an anomaly worth reporting.
func (r *Rebuilder) buildSentTransactions() error {
	rows, err := database.TransactionsSentTotals(r.config.Database)
	if err != nil {
		return err
	}
	for _, row := range rows {
		wallet, err := r.config.Store.FindByPublicKey(row.SenderPublicKey)
		if err != nil {
			return err
		}
		wallet.Balance -= int64(row.Amount) + int64(row.Fee)
		if wallet.Balance < 0 && !r.config.Store.IsGenesis(wallet) {
			r.config.Logger.Warn(
				"negative balance",
				"address", wallet.Address,
				"balance", wallet.Balance,
				"component", "ledger",
			)
			r.metrics.anomalies.WithLabelValues("negative_balance").Inc()
		}
	}
	return nil
}

// buildSecondSignatures applies second signature registrations in insertion
// order. Each registration overwrites the previous one.
func (r *Rebuilder) buildSecondSignatures() error {
	registrations, err := r.transactionsWithAssets(tx.TypeSecondSignature, false)
	if err != nil {
		return err
	}
	for _, registration := range registrations {
		wallet, err := r.config.Store.FindByPublicKey(registration.SenderPublicKey)
		if err != nil {
			return err
		}
		wallet.SecondPublicKey = registration.Signature.PublicKey
	}
	return nil
}

// buildDelegates applies delegate registrations in insertion order (the
// last registration decides the username), computes the initial ranking,
// then folds per-delegate forging statistics
func (r *Rebuilder) buildDelegates() error {
	registrations, err := r.transactionsWithAssets(
		tx.TypeDelegateRegistration,
		false,
	)
	if err != nil {
		return err
	}
	for _, registration := range registrations {
		wallet, err := r.config.Store.FindByPublicKey(registration.SenderPublicKey)
		if err != nil {
			return err
		}
		wallet.Username = registration.Delegate.Username
		r.config.Store.Reindex(wallet)
	}
	r.config.Store.RecomputeDelegateRanking()
	delegates := r.config.Store.Delegates()
	generatorKeys := make([][]byte, 0, len(delegates))
	for _, delegate := range delegates {
		generatorKeys = append(generatorKeys, delegate.PublicKey)
	}
	stats, err := database.BlocksDelegateForgedStats(r.config.Database, generatorKeys)
	if err != nil {
		return err
	}
	for _, stat := range stats {
		wallet, err := r.config.Store.FindByPublicKey(stat.GeneratorPublicKey)
		if err != nil {
			return err
		}
		wallet.ForgedFees = int64(stat.TotalFees)
		wallet.ForgedRewards = int64(stat.Rewards)
		wallet.ProducedBlocks = int64(stat.ProducedBlocks)
		r.config.Store.Reindex(wallet)
	}
	return nil
}

// buildVotes applies votes newest first. The Voted guard makes the first
// row seen per sender the only one applied, so the chronologically latest
// vote wins. Only the first operation of a vote transaction counts.
func (r *Rebuilder) buildVotes() error {
	votes, err := r.transactionsWithAssets(tx.TypeVote, true)
	if err != nil {
		return err
	}
	for _, vote := range votes {
		wallet, err := r.config.Store.FindByPublicKey(vote.SenderPublicKey)
		if err != nil {
			return err
		}
		if wallet.Voted {
			continue
		}
		first := vote.Votes[0]
		if first.Op == tx.VoteOpAdd {
			wallet.Vote = first.DelegatePublicKey
		} else {
			wallet.Vote = nil
		}
		wallet.Voted = true
	}
	r.config.Store.RecomputeDelegateRanking()
	return nil
}

// buildMultisignatures applies multisignature registrations newest first,
// keeping the first one seen per wallet
func (r *Rebuilder) buildMultisignatures() error {
	registrations, err := r.transactionsWithAssets(tx.TypeMultisignature, true)
	if err != nil {
		return err
	}
	for _, registration := range registrations {
		wallet, err := r.config.Store.FindByPublicKey(registration.SenderPublicKey)
		if err != nil {
			return err
		}
		if wallet.Multisignature != nil {
			continue
		}
		wallet.Multisignature = registration.Multisignature
	}
	return nil
}

// transactionsWithAssets returns the decoded transactions of the given type
// in the requested order. The metadata rows provide ordering, the blob
// store provides the payloads carrying the assets. A missing or malformed
// payload is fatal.
func (r *Rebuilder) transactionsWithAssets(
	txType tx.Type,
	newestFirst bool,
) ([]*tx.Transaction, error) {
	rows, err := database.TransactionsByType(
		r.config.Database,
		uint8(txType),
		newestFirst,
	)
	if err != nil {
		return nil, err
	}
	txn := r.config.Database.BlobTxn(false)
	defer txn.Release()
	ret := make([]*tx.Transaction, 0, len(rows))
	for _, row := range rows {
		payload, err := database.TransactionPayloadTxn(txn, row.Hash)
		if err != nil {
			return nil, fmt.Errorf(
				"payload for transaction %x: %w",
				row.Hash,
				err,
			)
		}
		decoded, err := tx.Deserialize(payload)
		if err != nil {
			return nil, fmt.Errorf(
				"decode transaction %x: %w",
				row.Hash,
				err,
			)
		}
		ret = append(ret, decoded)
	}
	return ret, nil
}
