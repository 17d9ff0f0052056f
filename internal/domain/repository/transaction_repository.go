package repository

import (
	"context"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction storage.
// List returns transactions in insertion order.
type TransactionRepository interface {
	// List returns every stored transaction
	List(ctx context.Context) ([]entity.Transaction, error)

	// FindByID retrieves a transaction by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Transaction, error)

	// Append stores a new transaction and returns the updated list
	Append(ctx context.Context, tx entity.Transaction) ([]entity.Transaction, error)

	// Replace swaps the transaction with the given id and returns the updated list
	Replace(ctx context.Context, id string, tx entity.Transaction) ([]entity.Transaction, error)

	// Remove deletes the transaction with the given id and returns the updated list
	Remove(ctx context.Context, id string) ([]entity.Transaction, error)
}
