package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/angeleyes/internal/types"
	"github.com/fadedpez/angeleyes/pkg/entities"
	ledgerRepo "github.com/fadedpez/angeleyes/pkg/repositories/ledger"
	"github.com/google/uuid"
)

var (
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Service handles bankroll business logic. Every balance change flows
// through Credit or Debit and leaves a transaction behind; Debit refuses
// to overdraw, so the bankroll never goes negative.
type Service struct {
	repo ledgerRepo.Repository
}

// NewService creates a new ledger service
func NewService(repo ledgerRepo.Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// GetOrCreateLedger retrieves a gambler's ledger or opens a new one with
// the given bankroll. Returns whether the ledger was created.
func (s *Service) GetOrCreateLedger(ctx context.Context, gamblerName string, openingBankroll int64) (*entities.Ledger, bool, error) {
	ledger, err := s.repo.GetLedger(ctx, gamblerName)
	if err == nil {
		return ledger, false, nil
	}

	if !errors.Is(err, ledgerRepo.ErrLedgerNotFound) {
		return nil, false, err
	}

	if openingBankroll < 0 {
		return nil, false, ErrNegativeAmount
	}

	newLedger := &entities.Ledger{
		GamblerName: gamblerName,
		Balance:     openingBankroll,
		LastUpdated: time.Now(),
	}

	if err := s.repo.SaveLedger(ctx, newLedger); err != nil {
		return nil, false, err
	}

	if openingBankroll > 0 {
		transaction := &entities.Transaction{
			ID:           uuid.New().String(),
			GamblerName:  gamblerName,
			Amount:       openingBankroll,
			Type:         entities.TransactionTypeDeposit,
			Description:  "Opening bankroll",
			Timestamp:    time.Now(),
			BalanceAfter: openingBankroll,
		}
		if err := s.repo.AddTransaction(ctx, transaction); err != nil {
			return nil, false, err
		}
	}

	return newLedger, true, nil
}

// Balance returns the current bankroll for a gambler
func (s *Service) Balance(ctx context.Context, gamblerName string) (int64, error) {
	ledger, err := s.repo.GetLedger(ctx, gamblerName)
	if err != nil {
		return 0, err
	}
	return ledger.Balance, nil
}

// Credit adds funds to a gambler's bankroll and records the transaction
func (s *Service) Credit(ctx context.Context, gamblerName string, amount int64, txType entities.TransactionType, description string) error {
	if amount < 0 {
		return ErrNegativeAmount
	}

	ledger, err := s.repo.GetLedger(ctx, gamblerName)
	if err != nil {
		return err
	}

	ledger.Balance += amount
	ledger.LastUpdated = time.Now()

	if err := s.repo.SaveLedger(ctx, ledger); err != nil {
		return err
	}

	transaction := &entities.Transaction{
		ID:           uuid.New().String(),
		GamblerName:  gamblerName,
		Amount:       amount,
		Type:         txType,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: ledger.Balance,
	}

	return s.repo.AddTransaction(ctx, transaction)
}

// Debit removes funds from a gambler's bankroll. The balance check comes
// before any write: an overdraw attempt fails cleanly with an
// INSUFFICIENT_BANKROLL error and changes nothing.
func (s *Service) Debit(ctx context.Context, gamblerName string, amount int64, txType entities.TransactionType, description string) error {
	if amount < 0 {
		return ErrNegativeAmount
	}

	ledger, err := s.repo.GetLedger(ctx, gamblerName)
	if err != nil {
		return err
	}

	if ledger.Balance < amount {
		return types.NewGameError(types.ErrInsufficientBankroll,
			fmt.Sprintf("bankroll %s cannot cover %s", entities.FormatCents(ledger.Balance), entities.FormatCents(amount)))
	}

	ledger.Balance -= amount
	ledger.LastUpdated = time.Now()

	if err := s.repo.SaveLedger(ctx, ledger); err != nil {
		return err
	}

	transaction := &entities.Transaction{
		ID:           uuid.New().String(),
		GamblerName:  gamblerName,
		Amount:       -amount,
		Type:         txType,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: ledger.Balance,
	}

	return s.repo.AddTransaction(ctx, transaction)
}

// GetRecentTransactions retrieves recent transactions for a gambler
func (s *Service) GetRecentTransactions(ctx context.Context, gamblerName string, limit int) ([]*entities.Transaction, error) {
	return s.repo.GetTransactions(ctx, gamblerName, limit)
}
