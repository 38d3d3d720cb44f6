package photos

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Attempt outcomes recorded in the journal.
const (
	OutcomeSaved     = "saved"     // a candidate downloaded and stored
	OutcomeExhausted = "exhausted" // every candidate failed
	OutcomeNoResults = "no_results" // the search returned nothing usable
)

// AttemptRecord is the journal entry for one SKU.
type AttemptRecord struct {
	SKU        string    `json:"sku"`
	Outcome    string    `json:"outcome"`
	URL        string    `json:"url,omitempty"`      // winning candidate, if any
	Candidates int       `json:"candidates"`         // how many were tried
	UpdatedAt  time.Time `json:"updated_at"`
}

// Journal persists fetch attempts in a Badger database so reruns skip SKUs
// that already succeeded or exhausted their candidates. This is fetch
// bookkeeping only; inventory data is never persisted.
type Journal struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenJournal opens (or creates) the journal at the given path.
func OpenJournal(path string, logger *slog.Logger) (*Journal, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open fetch journal: %w", err)
	}

	if logger != nil {
		logger.Debug("fetch journal opened", "path", path)
	}

	return &Journal{db: db, logger: logger}, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// journalKey builds the Badger key for a SKU.
func journalKey(sku string) []byte {
	return []byte("attempt:" + sku)
}

// Record stores the outcome of a fetch attempt.
func (j *Journal) Record(rec AttemptRecord) error {
	rec.UpdatedAt = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(journalKey(rec.SKU), data)
	})
	if err != nil {
		return fmt.Errorf("write attempt for %s: %w", rec.SKU, err)
	}
	return nil
}

// Get returns the recorded attempt for a SKU, or ok=false when the SKU has
// not been attempted.
func (j *Journal) Get(sku string) (AttemptRecord, bool, error) {
	var rec AttemptRecord
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(journalKey(sku))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return AttemptRecord{}, false, nil
	}
	if err != nil {
		return AttemptRecord{}, false, fmt.Errorf("read attempt for %s: %w", sku, err)
	}
	return rec, true, nil
}

// ShouldSkip reports whether a SKU's previous attempt makes a retry
// pointless: it already saved a photo, or it exhausted its candidates.
// SKUs whose searches returned nothing are retried, since search results
// change over time.
func (j *Journal) ShouldSkip(sku string) bool {
	rec, ok, err := j.Get(sku)
	if err != nil {
		if j.logger != nil {
			j.logger.Warn("journal read failed, not skipping", "sku", sku, "error", err)
		}
		return false
	}
	return ok && (rec.Outcome == OutcomeSaved || rec.Outcome == OutcomeExhausted)
}
