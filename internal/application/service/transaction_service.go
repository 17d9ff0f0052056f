// Package service holds the application use cases on top of the domain engine.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/aggregation"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/repository"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// TransactionInput carries the user-supplied fields of a transaction
type TransactionInput struct {
	Type        string
	Category    string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

// ChangeListener is told about the full transaction list after each successful mutation
type ChangeListener interface {
	TransactionsChanged(ctx context.Context, txs []entity.Transaction)
}

// TransactionService handles business logic for transactions
type TransactionService struct {
	repo     repository.TransactionRepository
	logger   logger.Logger
	listener ChangeListener
	newID    func() string
	mu       *sync.Mutex
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo repository.TransactionRepository, log logger.Logger) *TransactionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionService{
		repo:   repo,
		logger: log,
		newID:  func() string { return uuid.New().String() },
		mu:     &sync.Mutex{},
	}
}

// ShareLock serialises mutations with every other service holding mu
func (s *TransactionService) ShareLock(mu *sync.Mutex) {
	s.mu = mu
}

// SetListener registers the component recomputed after every mutation
func (s *TransactionService) SetListener(l ChangeListener) {
	s.listener = l
}

func (s *TransactionService) build(id string, in TransactionInput) (entity.Transaction, error) {
	typ, err := entity.ParseTransactionType(in.Type)
	if err != nil {
		return entity.Transaction{}, err
	}

	tx := entity.Transaction{
		ID:          id,
		Type:        typ,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount.Round(2),
		Date:        entity.DateOf(in.Date),
		Description: strings.TrimSpace(in.Description),
	}
	if err := tx.Validate(); err != nil {
		return entity.Transaction{}, err
	}
	return tx, nil
}

// CreateTransaction creates and stores a new transaction
func (s *TransactionService) CreateTransaction(ctx context.Context, in TransactionInput) (*entity.Transaction, error) {
	requestID := middleware.GetRequestID(ctx)

	tx, err := s.build(s.newID(), in)
	if err != nil {
		s.logger.Warn("Rejected transaction", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.repo.Append(ctx, tx)
	if err != nil {
		s.logger.Error("Failed to store transaction", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Transaction created", map[string]interface{}{
		"request_id": requestID,
		"id":         tx.ID,
		"type":       tx.Type,
		"category":   tx.Category,
	})
	s.changed(ctx, txs)
	return &tx, nil
}

// UpdateTransaction replaces every field of the transaction with the given id
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, in TransactionInput) (*entity.Transaction, error) {
	requestID := middleware.GetRequestID(ctx)

	tx, err := s.build(id, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.repo.Replace(ctx, id, tx)
	if err != nil {
		s.logger.Warn("Failed to update transaction", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Transaction updated", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
	})
	s.changed(ctx, txs)
	return &tx, nil
}

// DeleteTransaction removes the transaction with the given id
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	requestID := middleware.GetRequestID(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.repo.Remove(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to delete transaction", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info("Transaction deleted", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
	})
	s.changed(ctx, txs)
	return nil
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// ListTransactions returns the stored transactions matching f in insertion order
func (s *TransactionService) ListTransactions(ctx context.Context, f aggregation.Filter) ([]entity.Transaction, error) {
	txs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(txs), nil
}

func (s *TransactionService) changed(ctx context.Context, txs []entity.Transaction) {
	if s.listener != nil {
		s.listener.TransactionsChanged(ctx, txs)
	}
}
