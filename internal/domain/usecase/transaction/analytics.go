package transaction

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultAnalyticsDays = 30
	maxAnalyticsDays     = 365
)

func clampDays(days int) int {
	if days <= 0 {
		return defaultAnalyticsDays
	}
	return min(days, maxAnalyticsDays)
}

// Analytics summarizes the caller's transactions of the last days. Sent and
// received totals only count completed transactions.
func (s *Service) Analytics(ctx context.Context, userID uuid.UUID, days int) (*usecase.TransactionAnalytics, error) {
	days = clampDays(days)
	result := &usecase.TransactionAnalytics{
		Days:          days,
		TotalSent:     decimal.Zero,
		TotalReceived: decimal.Zero,
		ByType:        map[entity.TransactionType]int{},
		ByStatus:      map[entity.TransactionStatus]int{},
	}

	ids, err := s.accountIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return result, nil
	}

	since := s.timeProvider.Now().Add(-time.Duration(days) * 24 * time.Hour)
	txs, err := s.uow.GetTransactionRepository(ctx).ListSince(ctx, ids, since)
	if err != nil {
		return nil, err
	}

	for _, tx := range txs {
		result.Count++
		result.ByType[tx.TransactionType]++
		result.ByStatus[tx.Status]++

		if tx.Status != entity.StatusCompleted {
			continue
		}
		if tx.FromAccountID != nil && containsID(ids, *tx.FromAccountID) {
			result.TotalSent = result.TotalSent.Add(tx.Amount)
		}
		if tx.ToAccountID != nil && containsID(ids, *tx.ToAccountID) {
			result.TotalReceived = result.TotalReceived.Add(tx.NetAmount)
		}
	}
	return result, nil
}

// SpendingByCategory sums the caller's completed outgoing amounts per category
func (s *Service) SpendingByCategory(ctx context.Context, userID uuid.UUID, days int) ([]entity.CategorySpending, error) {
	ids, err := s.accountIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []entity.CategorySpending{}, nil
	}

	since := s.timeProvider.Now().Add(-time.Duration(clampDays(days)) * 24 * time.Hour)
	return s.uow.GetTransactionRepository(ctx).SpendingByCategory(ctx, ids, since)
}
