package persistence

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory persistence.UnitOfWork for use case tests.
// Execute serializes units of work and restores every table when fn fails,
// which mirrors a rolled back database transaction.
type MemoryStore struct {
	mu   sync.Mutex // guards the tables
	exec sync.Mutex // serializes Execute
	tables

	// Executions counts completed calls to Execute, including failed ones
	Executions int
	// FailCommit makes the next n units of work fail with ErrConcurrentUpdate after fn ran
	FailCommit int
}

type tables struct {
	users        map[uuid.UUID]entity.User
	preferences  map[uuid.UUID]entity.UserPreference
	accounts     map[uuid.UUID]entity.Account
	accLimits    map[uuid.UUID]entity.AccountLimit
	txLimits     map[uuid.UUID]entity.TransactionLimit
	transactions map[uuid.UUID]entity.Transaction
	categories   map[uuid.UUID]entity.TransactionCategory
	disputes     map[uuid.UUID]entity.TransactionDispute
	recurring    map[uuid.UUID]entity.RecurringTransaction
	cards        map[uuid.UUID]entity.Card
	cardTxs      map[uuid.UUID]entity.CardTransaction
	networks     map[int64]entity.SupportedNetwork
	tokens       map[uuid.UUID]entity.TokenContract
	balances     map[uuid.UUID]entity.WalletBalance
	interactions map[uuid.UUID]entity.SmartContractInteraction
	positions    map[uuid.UUID]entity.DeFiPosition
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: tables{
		users:        map[uuid.UUID]entity.User{},
		preferences:  map[uuid.UUID]entity.UserPreference{},
		accounts:     map[uuid.UUID]entity.Account{},
		accLimits:    map[uuid.UUID]entity.AccountLimit{},
		txLimits:     map[uuid.UUID]entity.TransactionLimit{},
		transactions: map[uuid.UUID]entity.Transaction{},
		categories:   map[uuid.UUID]entity.TransactionCategory{},
		disputes:     map[uuid.UUID]entity.TransactionDispute{},
		recurring:    map[uuid.UUID]entity.RecurringTransaction{},
		cards:        map[uuid.UUID]entity.Card{},
		cardTxs:      map[uuid.UUID]entity.CardTransaction{},
		networks:     map[int64]entity.SupportedNetwork{},
		tokens:       map[uuid.UUID]entity.TokenContract{},
		balances:     map[uuid.UUID]entity.WalletBalance{},
		interactions: map[uuid.UUID]entity.SmartContractInteraction{},
		positions:    map[uuid.UUID]entity.DeFiPosition{},
	}}
}

func (t tables) clone() tables {
	return tables{
		users:        maps.Clone(t.users),
		preferences:  maps.Clone(t.preferences),
		accounts:     maps.Clone(t.accounts),
		accLimits:    maps.Clone(t.accLimits),
		txLimits:     maps.Clone(t.txLimits),
		transactions: maps.Clone(t.transactions),
		categories:   maps.Clone(t.categories),
		disputes:     maps.Clone(t.disputes),
		recurring:    maps.Clone(t.recurring),
		cards:        maps.Clone(t.cards),
		cardTxs:      maps.Clone(t.cardTxs),
		networks:     maps.Clone(t.networks),
		tokens:       maps.Clone(t.tokens),
		balances:     maps.Clone(t.balances),
		interactions: maps.Clone(t.interactions),
		positions:    maps.Clone(t.positions),
	}
}

func (s *MemoryStore) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (s *MemoryStore) Commit(ctx context.Context) error                  { return nil }
func (s *MemoryStore) Rollback(ctx context.Context) error                { return nil }

func (s *MemoryStore) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	s.exec.Lock()
	defer s.exec.Unlock()
	defer func() { s.Executions++ }()

	s.mu.Lock()
	snap := s.tables.clone()
	s.mu.Unlock()

	err := fn(ctx)
	if err == nil && s.FailCommit > 0 {
		s.FailCommit--
		err = errs.ErrConcurrentUpdate
	}
	if err != nil {
		s.mu.Lock()
		s.tables = snap
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) GetUserRepository(context.Context) persistence.UserRepository { return memUsers{s} }
func (s *MemoryStore) GetPreferenceRepository(context.Context) persistence.PreferenceRepository {
	return memPreferences{s}
}
func (s *MemoryStore) GetAccountRepository(context.Context) persistence.AccountRepository {
	return memAccounts{s}
}
func (s *MemoryStore) GetAccountLimitRepository(context.Context) persistence.AccountLimitRepository {
	return memAccountLimits{s}
}
func (s *MemoryStore) GetTransactionLimitRepository(context.Context) persistence.TransactionLimitRepository {
	return memTransactionLimits{s}
}
func (s *MemoryStore) GetTransactionRepository(context.Context) persistence.TransactionRepository {
	return memTransactions{s}
}
func (s *MemoryStore) GetCategoryRepository(context.Context) persistence.CategoryRepository {
	return memCategories{s}
}
func (s *MemoryStore) GetDisputeRepository(context.Context) persistence.DisputeRepository {
	return memDisputes{s}
}
func (s *MemoryStore) GetRecurringRepository(context.Context) persistence.RecurringRepository {
	return memRecurring{s}
}
func (s *MemoryStore) GetCardRepository(context.Context) persistence.CardRepository { return memCards{s} }
func (s *MemoryStore) GetCardTransactionRepository(context.Context) persistence.CardTransactionRepository {
	return memCardTransactions{s}
}
func (s *MemoryStore) GetNetworkRepository(context.Context) persistence.NetworkRepository {
	return memNetworks{s}
}
func (s *MemoryStore) GetTokenRepository(context.Context) persistence.TokenRepository {
	return memTokens{s}
}
func (s *MemoryStore) GetWalletBalanceRepository(context.Context) persistence.WalletBalanceRepository {
	return memBalances{s}
}
func (s *MemoryStore) GetInteractionRepository(context.Context) persistence.InteractionRepository {
	return memInteractions{s}
}
func (s *MemoryStore) GetPositionRepository(context.Context) persistence.PositionRepository {
	return memPositions{s}
}

// Account returns a copy of a stored account, nil when absent
func (s *MemoryStore) Account(id uuid.UUID) *entity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil
	}
	return &a
}

// Transactions returns copies of every stored transaction
func (s *MemoryStore) Transactions() []*entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return values(s.transactions)
}

func values[K comparable, V any](m map[K]V) []*V {
	out := make([]*V, 0, len(m))
	for _, v := range m {
		out = append(out, &v)
	}
	return out
}

func window[T any](rows []*T, page entity.Page) []*T {
	page = page.Normalize()
	if page.Offset >= len(rows) {
		return []*T{}
	}
	end := min(page.Offset+page.Limit, len(rows))
	return rows[page.Offset:end]
}

func containsID(ids []uuid.UUID, id *uuid.UUID) bool {
	return id != nil && slices.Contains(ids, *id)
}

type memUsers struct{ s *MemoryStore }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
			return errs.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (r memUsers) Exists(_ context.Context, email, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return errs.ErrUserNotFound
	}
	r.s.users[u.ID] = *u
	return nil
}

type memPreferences struct{ s *MemoryStore }

func (r memPreferences) Get(_ context.Context, userID uuid.UUID) (*entity.UserPreference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.preferences[userID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (r memPreferences) Save(_ context.Context, p *entity.UserPreference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.preferences[p.UserID] = *p
	return nil
}

type memAccounts struct{ s *MemoryStore }

func (r memAccounts) Create(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if existing.AccountNumber == a.AccountNumber ||
			(existing.UserID == a.UserID && existing.AccountType == a.AccountType && existing.Currency == a.Currency) {
			return errs.ErrDuplicate
		}
	}
	r.s.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) GetByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return &a, nil
}

func (r memAccounts) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

func (r memAccounts) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Account
	for _, a := range values(r.s.accounts) {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Account) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r memAccounts) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	list, _ := r.ListByUser(ctx, userID)
	return int64(len(list)), nil
}

func (r memAccounts) Exists(ctx context.Context, userID uuid.UUID, t entity.AccountType, c entity.Currency) (bool, error) {
	list, _ := r.ListByUser(ctx, userID)
	return slices.ContainsFunc(list, func(a *entity.Account) bool { return a.AccountType == t && a.Currency == c }), nil
}

func (r memAccounts) NumberExists(_ context.Context, number string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.AccountNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r memAccounts) FindActiveByType(ctx context.Context, userID uuid.UUID, t entity.AccountType) (*entity.Account, error) {
	list, _ := r.ListByUser(ctx, userID)
	for _, a := range list {
		if a.AccountType == t && a.IsActive && !a.IsFrozen {
			return a, nil
		}
	}
	return nil, errs.ErrAccountNotFound
}

func (r memAccounts) Update(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; !ok {
		return errs.ErrAccountNotFound
	}
	r.s.accounts[a.ID] = *a
	return nil
}

type memAccountLimits struct{ s *MemoryStore }

func (r memAccountLimits) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*entity.AccountLimit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AccountLimit
	for _, l := range values(r.s.accLimits) {
		if l.AccountID == accountID {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b *entity.AccountLimit) int { return cmp.Compare(a.LimitType, b.LimitType) })
	return out, nil
}

func (r memAccountLimits) ListForUpdate(_ context.Context, accountIDs []uuid.UUID) ([]*entity.AccountLimit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AccountLimit
	for _, l := range values(r.s.accLimits) {
		if l.IsActive && slices.Contains(accountIDs, l.AccountID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memAccountLimits) Upsert(_ context.Context, l *entity.AccountLimit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.accLimits {
		if existing.AccountID == l.AccountID && existing.LimitType == l.LimitType {
			existing.LimitAmount = l.LimitAmount
			existing.ResetPeriod = l.ResetPeriod
			existing.IsActive = l.IsActive
			existing.UpdatedAt = l.UpdatedAt
			r.s.accLimits[id] = existing
			*l = existing
			return nil
		}
	}
	r.s.accLimits[l.ID] = *l
	return nil
}

func (r memAccountLimits) Update(_ context.Context, l *entity.AccountLimit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accLimits[l.ID] = *l
	return nil
}

func (r memAccountLimits) ListActive(_ context.Context) ([]*entity.AccountLimit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AccountLimit
	for _, l := range values(r.s.accLimits) {
		if l.IsActive && l.ResetPeriod != entity.ResetNever {
			out = append(out, l)
		}
	}
	return out, nil
}

type memTransactionLimits struct{ s *MemoryStore }

func (r memTransactionLimits) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TransactionLimit
	for _, l := range values(r.s.txLimits) {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b *entity.TransactionLimit) int { return cmp.Compare(a.LimitType, b.LimitType) })
	return out, nil
}

func (r memTransactionLimits) ListForUpdate(ctx context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error) {
	all, _ := r.ListByUser(ctx, userID)
	var out []*entity.TransactionLimit
	for _, l := range all {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func sameAccount(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r memTransactionLimits) Upsert(_ context.Context, l *entity.TransactionLimit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.txLimits {
		if existing.UserID == l.UserID && sameAccount(existing.AccountID, l.AccountID) &&
			existing.TransactionType == l.TransactionType && existing.LimitType == l.LimitType {
			existing.LimitAmount = l.LimitAmount
			existing.IsActive = l.IsActive
			existing.UpdatedAt = l.UpdatedAt
			r.s.txLimits[id] = existing
			*l = existing
			return nil
		}
	}
	r.s.txLimits[l.ID] = *l
	return nil
}

func (r memTransactionLimits) Update(_ context.Context, l *entity.TransactionLimit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.txLimits[l.ID] = *l
	return nil
}

func (r memTransactionLimits) ListActive(_ context.Context) ([]*entity.TransactionLimit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TransactionLimit
	for _, l := range values(r.s.txLimits) {
		if l.IsActive && l.ResetPeriod != entity.ResetNever {
			out = append(out, l)
		}
	}
	return out, nil
}

type memTransactions struct{ s *MemoryStore }

func (r memTransactions) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.transactions {
		if t.ReferenceNumber != "" && existing.ReferenceNumber == t.ReferenceNumber {
			return errs.ErrDuplicate
		}
	}
	r.s.transactions[t.ID] = *t
	return nil
}

func (r memTransactions) Update(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[t.ID]; !ok {
		return errs.ErrTransactionNotFound
	}
	r.s.transactions[t.ID] = *t
	return nil
}

func (r memTransactions) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, errs.ErrTransactionNotFound
	}
	return &t, nil
}

func (r memTransactions) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r memTransactions) ReferenceExists(_ context.Context, reference string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.transactions {
		if t.ReferenceNumber == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r memTransactions) matching(accountIDs []uuid.UUID, keep func(*entity.Transaction) bool) []*entity.Transaction {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Transaction
	for _, t := range values(r.s.transactions) {
		if (containsID(accountIDs, t.FromAccountID) || containsID(accountIDs, t.ToAccountID)) && keep(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Transaction) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r memTransactions) List(_ context.Context, f persistence.TransactionFilter, page entity.Page) ([]*entity.Transaction, int64, error) {
	rows := r.matching(f.AccountIDs, func(t *entity.Transaction) bool {
		return (f.Status == "" || t.Status == f.Status) && (f.Type == "" || t.TransactionType == f.Type)
	})
	return window(rows, page), int64(len(rows)), nil
}

func (r memTransactions) ListSince(_ context.Context, accountIDs []uuid.UUID, since time.Time) ([]*entity.Transaction, error) {
	return r.matching(accountIDs, func(t *entity.Transaction) bool { return !t.CreatedAt.Before(since) }), nil
}

func (r memTransactions) SpendingByCategory(_ context.Context, accountIDs []uuid.UUID, since time.Time) ([]entity.CategorySpending, error) {
	rows := r.matching(accountIDs, func(t *entity.Transaction) bool {
		return t.Status == entity.StatusCompleted && containsID(accountIDs, t.FromAccountID) && !t.CreatedAt.Before(since)
	})

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totals := map[uuid.UUID]*entity.CategorySpending{}
	var uncategorized *entity.CategorySpending
	for _, t := range rows {
		var bucket *entity.CategorySpending
		if t.CategoryID == nil {
			if uncategorized == nil {
				uncategorized = &entity.CategorySpending{}
			}
			bucket = uncategorized
		} else {
			bucket = totals[*t.CategoryID]
			if bucket == nil {
				id := *t.CategoryID
				bucket = &entity.CategorySpending{CategoryID: &id, CategoryName: r.s.categories[id].Name}
				totals[id] = bucket
			}
		}
		bucket.Total = bucket.Total.Add(t.Amount)
		bucket.Count++
	}

	var out []entity.CategorySpending
	for _, b := range totals {
		out = append(out, *b)
	}
	if uncategorized != nil {
		out = append(out, *uncategorized)
	}
	slices.SortFunc(out, func(a, b entity.CategorySpending) int { return b.Total.Cmp(a.Total) })
	return out, nil
}

type memCategories struct{ s *MemoryStore }

func (r memCategories) Create(_ context.Context, c *entity.TransactionCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return errs.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r memCategories) GetByID(_ context.Context, id uuid.UUID) (*entity.TransactionCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, errs.ErrCategoryNotFound
	}
	return &c, nil
}

func (r memCategories) ListActive(_ context.Context) ([]*entity.TransactionCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TransactionCategory
	for _, c := range values(r.s.categories) {
		if c.IsActive {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *entity.TransactionCategory) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

type memDisputes struct{ s *MemoryStore }

func (r memDisputes) Create(_ context.Context, d *entity.TransactionDispute) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.disputes {
		if existing.TransactionID == d.TransactionID {
			return errs.ErrDisputeExists
		}
	}
	r.s.disputes[d.ID] = *d
	return nil
}

func (r memDisputes) ExistsForTransaction(_ context.Context, transactionID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.disputes {
		if d.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

type memRecurring struct{ s *MemoryStore }

func (r memRecurring) Create(_ context.Context, rt *entity.RecurringTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.recurring[rt.ID] = *rt
	return nil
}

func (r memRecurring) Update(_ context.Context, rt *entity.RecurringTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recurring[rt.ID]; !ok {
		return errs.ErrRecurringNotFound
	}
	r.s.recurring[rt.ID] = *rt
	return nil
}

func (r memRecurring) GetByID(_ context.Context, id uuid.UUID) (*entity.RecurringTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.recurring[id]
	if !ok {
		return nil, errs.ErrRecurringNotFound
	}
	return &rt, nil
}

func (r memRecurring) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r memRecurring) ListByUser(_ context.Context, userID uuid.UUID, page entity.Page) ([]*entity.RecurringTransaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.RecurringTransaction
	for _, rt := range values(r.s.recurring) {
		if rt.UserID == userID {
			out = append(out, rt)
		}
	}
	slices.SortFunc(out, func(a, b *entity.RecurringTransaction) int { return a.NextExecution.Compare(b.NextExecution) })
	return window(out, page), int64(len(out)), nil
}

func (r memRecurring) ListDueIDs(_ context.Context, now time.Time, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var due []*entity.RecurringTransaction
	for _, rt := range values(r.s.recurring) {
		if rt.IsActive && !rt.NextExecution.After(now) && strings.Compare(rt.ID.String(), after.String()) > 0 {
			due = append(due, rt)
		}
	}
	slices.SortFunc(due, func(a, b *entity.RecurringTransaction) int { return strings.Compare(a.ID.String(), b.ID.String()) })
	ids := make([]uuid.UUID, 0, len(due))
	for _, rt := range due {
		if len(ids) == limit {
			break
		}
		ids = append(ids, rt.ID)
	}
	return ids, nil
}

type memCards struct{ s *MemoryStore }

func (r memCards) Create(_ context.Context, c *entity.Card) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.cards {
		if existing.CardNumber == c.CardNumber {
			return errs.ErrDuplicate
		}
	}
	r.s.cards[c.ID] = *c
	return nil
}

func (r memCards) Update(_ context.Context, c *entity.Card) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cards[c.ID]; !ok {
		return errs.ErrCardNotFound
	}
	r.s.cards[c.ID] = *c
	return nil
}

func (r memCards) GetByID(_ context.Context, id uuid.UUID) (*entity.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cards[id]
	if !ok {
		return nil, errs.ErrCardNotFound
	}
	return &c, nil
}

func (r memCards) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	return r.GetByID(ctx, id)
}

func (r memCards) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Card
	for _, c := range values(r.s.cards) {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Card) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r memCards) NumberExists(_ context.Context, number string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.cards {
		if c.CardNumber == number {
			return true, nil
		}
	}
	return false, nil
}

type memCardTransactions struct{ s *MemoryStore }

func (r memCardTransactions) Create(_ context.Context, ct *entity.CardTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cardTxs[ct.ID] = *ct
	return nil
}

func (r memCardTransactions) ListByCard(_ context.Context, cardID uuid.UUID, page entity.Page) ([]*entity.CardTransaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CardTransaction
	for _, ct := range values(r.s.cardTxs) {
		if ct.CardID == cardID {
			out = append(out, ct)
		}
	}
	slices.SortFunc(out, func(a, b *entity.CardTransaction) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return window(out, page), int64(len(out)), nil
}

type memNetworks struct{ s *MemoryStore }

func (r memNetworks) List(_ context.Context, activeOnly bool) ([]*entity.SupportedNetwork, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SupportedNetwork
	for _, n := range values(r.s.networks) {
		if !activeOnly || n.IsActive {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b *entity.SupportedNetwork) int { return cmp.Compare(a.ChainID, b.ChainID) })
	return out, nil
}

func (r memNetworks) GetActive(_ context.Context, chainID int64) (*entity.SupportedNetwork, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.networks[chainID]
	if !ok || !n.IsActive {
		return nil, errs.ErrUnsupportedNetwork
	}
	return &n, nil
}

func (r memNetworks) Upsert(_ context.Context, n *entity.SupportedNetwork) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.networks[n.ChainID] = *n
	return nil
}

type memTokens struct{ s *MemoryStore }

func (r memTokens) ListActive(_ context.Context) ([]*entity.TokenContract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TokenContract
	for _, t := range values(r.s.tokens) {
		if t.IsActive && r.s.networks[t.ChainID].IsActive {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *entity.TokenContract) int {
		return cmp.Or(cmp.Compare(a.ChainID, b.ChainID), cmp.Compare(a.Symbol, b.Symbol))
	})
	return out, nil
}

func (r memTokens) FindActive(_ context.Context, chainID int64, symbolOrAddress string) (*entity.TokenContract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.IsActive && t.ChainID == chainID &&
			(strings.EqualFold(t.Symbol, symbolOrAddress) || strings.EqualFold(t.ContractAddress, symbolOrAddress)) {
			return &t, nil
		}
	}
	return nil, errs.ErrTokenNotFound
}

func (r memTokens) Upsert(_ context.Context, t *entity.TokenContract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.tokens {
		if existing.ChainID == t.ChainID && strings.EqualFold(existing.ContractAddress, t.ContractAddress) {
			t.ID = id
		}
	}
	r.s.tokens[t.ID] = *t
	return nil
}

type memBalances struct{ s *MemoryStore }

func (r memBalances) Upsert(_ context.Context, b *entity.WalletBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.balances {
		if existing.UserID == b.UserID && existing.TokenID == b.TokenID && existing.WalletAddress == b.WalletAddress {
			b.ID = id
		}
	}
	r.s.balances[b.ID] = *b
	return nil
}

func (r memBalances) ListByUser(_ context.Context, userID uuid.UUID, wallet string) ([]*entity.WalletBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.WalletBalance
	for _, b := range values(r.s.balances) {
		if b.UserID == userID && strings.EqualFold(b.WalletAddress, wallet) {
			if t, ok := r.s.tokens[b.TokenID]; ok {
				b.Token = &t
			}
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b *entity.WalletBalance) int { return b.BalanceUSD.Cmp(a.BalanceUSD) })
	return out, nil
}

type memInteractions struct{ s *MemoryStore }

func (r memInteractions) Create(_ context.Context, i *entity.SmartContractInteraction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.interactions {
		if existing.TxHash == i.TxHash {
			return errs.ErrDuplicate
		}
	}
	r.s.interactions[i.ID] = *i
	return nil
}

func (r memInteractions) ListByUser(_ context.Context, userID uuid.UUID, page entity.Page) ([]*entity.SmartContractInteraction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SmartContractInteraction
	for _, i := range values(r.s.interactions) {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	slices.SortFunc(out, func(a, b *entity.SmartContractInteraction) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return window(out, page), int64(len(out)), nil
}

type memPositions struct{ s *MemoryStore }

func (r memPositions) FindActiveForUpdate(_ context.Context, userID uuid.UUID, protocol string, tokenInID uuid.UUID) (*entity.DeFiPosition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.positions {
		if p.IsActive && p.UserID == userID && p.TokenInID == tokenInID && strings.EqualFold(p.Protocol, protocol) {
			return &p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r memPositions) Create(_ context.Context, p *entity.DeFiPosition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.positions[p.ID] = *p
	return nil
}

func (r memPositions) Update(_ context.Context, p *entity.DeFiPosition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.positions[p.ID]; !ok {
		return errs.ErrNotFound
	}
	r.s.positions[p.ID] = *p
	return nil
}

func (r memPositions) ListByUser(_ context.Context, userID uuid.UUID, activeOnly bool) ([]*entity.DeFiPosition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DeFiPosition
	for _, p := range values(r.s.positions) {
		if p.UserID == userID && (!activeOnly || p.IsActive) {
			if t, ok := r.s.tokens[p.TokenInID]; ok {
				p.TokenIn = &t
			}
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b *entity.DeFiPosition) int { return b.OpenedAt.Compare(a.OpenedAt) })
	return out, nil
}
