package persistence

import (
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// Seeding and inspection helpers for tests. They bypass uniqueness checks.

func (s *MemoryStore) PutUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
}

func (s *MemoryStore) PutAccount(a *entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = *a
}

func (s *MemoryStore) PutTransaction(t *entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.ID] = *t
}

func (s *MemoryStore) PutRecurring(r *entity.RecurringTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recurring[r.ID] = *r
}

func (s *MemoryStore) PutCard(c *entity.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[c.ID] = *c
}

func (s *MemoryStore) PutNetwork(n *entity.SupportedNetwork) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.networks[n.ChainID] = *n
}

func (s *MemoryStore) PutToken(t *entity.TokenContract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.ID] = *t
}

// Transaction returns a copy of a stored transaction, nil when absent
func (s *MemoryStore) Transaction(id uuid.UUID) *entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil
	}
	return &t
}

// Recurring returns a copy of a stored template, nil when absent
func (s *MemoryStore) Recurring(id uuid.UUID) *entity.RecurringTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recurring[id]
	if !ok {
		return nil
	}
	return &r
}

// Card returns a copy of a stored card, nil when absent
func (s *MemoryStore) Card(id uuid.UUID) *entity.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return nil
	}
	return &c
}

// CardTransactions returns copies of every stored card charge
func (s *MemoryStore) CardTransactions() []*entity.CardTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return values(s.cardTxs)
}
