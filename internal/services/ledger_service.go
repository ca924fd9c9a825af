package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"finanzas/internal/cache"
	"finanzas/internal/core"
	"finanzas/internal/storage"
)

const (
	summaryCacheSize  = 64
	categoryCacheSize = 4
)

// LedgerService handles categories, transactions and budget weeks. Category
// lists and week summaries are cached; writes invalidate the affected entries.
type LedgerService struct {
	categories   CategoryRepository
	transactions TransactionRepository
	weeks        WeekRepository

	categoryCache *cache.LRUCache[[]core.Category]
	summaryCache  *cache.LRUCache[core.WeekSummary]
}

func NewLedgerService(categories CategoryRepository, transactions TransactionRepository, weeks WeekRepository, ttl time.Duration) *LedgerService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LedgerService{
		categories:    categories,
		transactions:  transactions,
		weeks:         weeks,
		categoryCache: cache.NewLRUCache[[]core.Category](categoryCacheSize, ttl),
		summaryCache:  cache.NewLRUCache[core.WeekSummary](summaryCacheSize, ttl),
	}
}

// Caches exposes the service caches for periodic cleanup.
func (s *LedgerService) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.categoryCache, s.summaryCache}
}

func (s *LedgerService) Categories(ctx context.Context, typ core.TransactionType) ([]core.Category, error) {
	if typ != "" && !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown category type %q", core.ErrValidation, typ)
	}
	return s.categoryCache.GetOrLoad("type:"+string(typ), func() ([]core.Category, error) {
		return s.categories.List(ctx, typ)
	})
}

func (s *LedgerService) Transactions(ctx context.Context, f storage.TransactionFilter) ([]core.Transaction, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", core.ErrValidation, f.Type)
	}
	return s.transactions.List(ctx, f)
}

func (s *LedgerService) Transaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.transactions.Get(ctx, id)
}

func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	t.Amount = core.RoundCents(t.Amount)
	id, err := s.transactions.Create(ctx, t)
	if err != nil {
		return 0, err
	}
	s.invalidateWeek(t.WeekID)
	return id, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	t, err := s.transactions.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateWeek(t.WeekID)
	return nil
}

func (s *LedgerService) Weeks(ctx context.Context) ([]core.Week, error) {
	return s.weeks.List(ctx)
}

func (s *LedgerService) Week(ctx context.Context, id int64) (core.Week, error) {
	return s.weeks.Get(ctx, id)
}

func (s *LedgerService) CreateWeek(ctx context.Context, w core.Week) (int64, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}
	w.Budget = core.RoundCents(w.Budget)
	return s.weeks.Create(ctx, w)
}

func (s *LedgerService) DeleteWeek(ctx context.Context, id int64) error {
	if err := s.weeks.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateWeek(id)
	return nil
}

// CurrentWeek returns the week containing today, falling back to the most
// recently started week. core.ErrNotFound means no weeks exist.
func (s *LedgerService) CurrentWeek(ctx context.Context, today core.Date) (core.Week, error) {
	w, err := s.weeks.FindContaining(ctx, today)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.Week{}, err
	}

	weeks, err := s.weeks.List(ctx)
	if err != nil {
		return core.Week{}, err
	}
	w, ok := core.CurrentWeek(weeks, today)
	if !ok {
		return core.Week{}, fmt.Errorf("no budget weeks: %w", core.ErrNotFound)
	}
	return w, nil
}

// Summary totals a week. The week row and its transactions are read
// concurrently.
func (s *LedgerService) Summary(ctx context.Context, weekID int64) (core.WeekSummary, error) {
	return s.summaryCache.GetOrLoad(weekKey(weekID), func() (core.WeekSummary, error) {
		var (
			week core.Week
			txs  []core.Transaction
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			week, err = s.weeks.Get(gctx, weekID)
			return err
		})
		g.Go(func() error {
			var err error
			txs, err = s.transactions.List(gctx, storage.TransactionFilter{WeekID: weekID})
			return err
		})
		if err := g.Wait(); err != nil {
			return core.WeekSummary{}, err
		}
		return core.SummarizeWeek(week, txs), nil
	})
}

func (s *LedgerService) invalidateWeek(id int64) {
	s.summaryCache.Delete(weekKey(id))
}

func weekKey(id int64) string {
	return "week:" + strconv.FormatInt(id, 10)
}
