package transaction

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
)

// DefaultReferenceAttempts bounds how often a colliding reference is redrawn
const DefaultReferenceAttempts = 5

// ReferenceGenerator draws reference numbers that are not yet taken
type ReferenceGenerator struct {
	random       coreport.RandomSource
	timeProvider coreport.TimeProvider
	attempts     int
}

// NewReferenceGenerator creates a ReferenceGenerator
func NewReferenceGenerator(random coreport.RandomSource, timeProvider coreport.TimeProvider, attempts int) *ReferenceGenerator {
	if attempts <= 0 {
		attempts = DefaultReferenceAttempts
	}
	return &ReferenceGenerator{
		random:       random,
		timeProvider: timeProvider,
		attempts:     attempts,
	}
}

// Next returns a reference number unused in repo. The unique index on the
// column still guards against a concurrent writer drawing the same number.
func (g *ReferenceGenerator) Next(ctx context.Context, repo persistence.TransactionRepository) (string, error) {
	for i := 0; i < g.attempts; i++ {
		reference, err := entity.GenerateReferenceNumber(g.timeProvider.Now(), g.random)
		if err != nil {
			return "", err
		}

		exists, err := repo.ReferenceExists(ctx, reference)
		if err != nil {
			return "", fmt.Errorf("failed to check reference number: %w", err)
		}
		if !exists {
			return reference, nil
		}
	}
	return "", fmt.Errorf("%w: no free reference number after %d attempts", errs.ErrDuplicate, g.attempts)
}
