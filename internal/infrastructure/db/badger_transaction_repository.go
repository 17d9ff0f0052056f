package db

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v3"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

const (
	txPrefix = "tx:"
	txSeqKey = "seq:tx"
)

// txRecord stores a transaction with its insertion sequence number
type txRecord struct {
	Seq         uint64             `json:"seq"`
	Transaction entity.Transaction `json:"transaction"`
}

// BadgerTransactionRepository implements the transaction repository interface using BadgerDB
type BadgerTransactionRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerTransactionRepository creates a new BadgerDB transaction repository
func NewBadgerTransactionRepository(db *badger.DB) (*BadgerTransactionRepository, error) {
	seq, err := db.GetSequence([]byte(txSeqKey), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sequence: %w", err)
	}
	return &BadgerTransactionRepository{db: db, seq: seq}, nil
}

// Close releases the leased sequence range
func (r *BadgerTransactionRepository) Close() error {
	return r.seq.Release()
}

func txKey(id string) []byte {
	return []byte(txPrefix + id)
}

// List returns every stored transaction in insertion order
func (r *BadgerTransactionRepository) List(ctx context.Context) ([]entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []txRecord
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		records, err = scan(txn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return flatten(records), nil
}

// FindByID retrieves a transaction by its unique identifier
func (r *BadgerTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var rec txRecord
	var found bool

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, txKey(id), &rec)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}
	if !found {
		return nil, &entity.NotFoundError{Resource: "transaction", ID: id}
	}

	return &rec.Transaction, nil
}

// Append stores a new transaction and returns the updated list
func (r *BadgerTransactionRepository) Append(ctx context.Context, tx entity.Transaction) ([]entity.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	seq, err := r.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate sequence: %w", err)
	}

	return r.update(ctx, func(txn *badger.Txn) error {
		var existing txRecord
		found, err := getJSON(txn, txKey(tx.ID), &existing)
		if err != nil {
			return err
		}
		if found {
			return &entity.ValidationError{Field: "id", Message: "transaction '" + tx.ID + "' already exists"}
		}
		return setJSON(txn, txKey(tx.ID), txRecord{Seq: seq, Transaction: tx})
	})
}

// Replace swaps the transaction with the given id, keeping its position, and returns the updated list
func (r *BadgerTransactionRepository) Replace(ctx context.Context, id string, tx entity.Transaction) ([]entity.Transaction, error) {
	tx.ID = id
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return r.update(ctx, func(txn *badger.Txn) error {
		var existing txRecord
		found, err := getJSON(txn, txKey(id), &existing)
		if err != nil {
			return err
		}
		if !found {
			return &entity.NotFoundError{Resource: "transaction", ID: id}
		}
		return setJSON(txn, txKey(id), txRecord{Seq: existing.Seq, Transaction: tx})
	})
}

// Remove deletes the transaction with the given id and returns the updated list
func (r *BadgerTransactionRepository) Remove(ctx context.Context, id string) ([]entity.Transaction, error) {
	return r.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(txKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return &entity.NotFoundError{Resource: "transaction", ID: id}
			}
			return err
		}
		return txn.Delete(txKey(id))
	})
}

// update applies fn and reads back the full list within the same badger transaction
func (r *BadgerTransactionRepository) update(ctx context.Context, fn func(txn *badger.Txn) error) ([]entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []txRecord
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := fn(txn); err != nil {
			return err
		}
		var err error
		records, err = scan(txn)
		return err
	})
	if err != nil {
		if entity.IsValidation(err) || entity.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}
	return flatten(records), nil
}

func scan(txn *badger.Txn) ([]txRecord, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(txPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	records := make([]txRecord, 0)
	for it.Rewind(); it.Valid(); it.Next() {
		var rec txRecord
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func flatten(records []txRecord) []entity.Transaction {
	slices.SortFunc(records, func(a, b txRecord) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	out := make([]entity.Transaction, len(records))
	for i, rec := range records {
		out[i] = rec.Transaction
	}
	return out
}
