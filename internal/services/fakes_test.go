package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/storage"
)

type fakeContracts struct {
	mu        sync.Mutex
	created   []storage.ContractRef
	terms     []core.ContractTerms
	createErr error
	deleteRes storage.DeleteResult
	deleteErr error
	byID      map[int64]core.Contract
}

func (f *fakeContracts) List(_ context.Context, _ storage.ContractFilter) ([]core.Contract, error) {
	return nil, nil
}

func (f *fakeContracts) Get(_ context.Context, id int64) (core.Contract, error) {
	c, ok := f.byID[id]
	if !ok {
		return core.Contract{}, fmt.Errorf("contract %d: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (f *fakeContracts) Create(_ context.Context, _ core.Client, _ core.Aval, terms core.ContractTerms, folio string) (storage.ContractRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return storage.ContractRef{}, f.createErr
	}
	n := int64(len(f.created) + 1)
	ref := storage.ContractRef{ID: n, Folio: folio, ClientID: n * 10, AvalID: n * 100}
	f.created = append(f.created, ref)
	f.terms = append(f.terms, terms)
	return ref, nil
}

func (f *fakeContracts) Delete(_ context.Context, id int64) (storage.DeleteResult, error) {
	if f.deleteErr != nil {
		return storage.DeleteResult{}, f.deleteErr
	}
	res := f.deleteRes
	res.ContractID = id
	return res, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.ContractEvent
	err    error
}

func (p *fakePublisher) PublishContractEvent(_ context.Context, ev *amqp.ContractEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type fakeWeeks struct {
	mu      sync.Mutex
	weeks   map[int64]core.Week
	nextID  int64
	listErr error
}

func newFakeWeeks(weeks ...core.Week) *fakeWeeks {
	f := &fakeWeeks{weeks: map[int64]core.Week{}}
	for _, w := range weeks {
		f.weeks[w.ID] = w
		if w.ID > f.nextID {
			f.nextID = w.ID
		}
	}
	return f
}

func (f *fakeWeeks) List(_ context.Context) ([]core.Week, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]core.Week, 0, len(f.weeks))
	for _, w := range f.weeks {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate.Time) })
	return out, nil
}

func (f *fakeWeeks) Get(_ context.Context, id int64) (core.Week, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.weeks[id]
	if !ok {
		return core.Week{}, fmt.Errorf("week %d: %w", id, core.ErrNotFound)
	}
	return w, nil
}

func (f *fakeWeeks) FindContaining(_ context.Context, day core.Date) (core.Week, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.weeks {
		if w.Contains(day) {
			return w, nil
		}
	}
	return core.Week{}, fmt.Errorf("week containing %s: %w", day, core.ErrNotFound)
}

func (f *fakeWeeks) Create(_ context.Context, w core.Week) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	w.ID = f.nextID
	f.weeks[w.ID] = w
	return w.ID, nil
}

func (f *fakeWeeks) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.weeks[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.weeks, id)
	return nil
}

type fakeTransactions struct {
	mu        sync.Mutex
	txs       map[int64]core.Transaction
	nextID    int64
	listCalls int
}

func newFakeTransactions() *fakeTransactions {
	return &fakeTransactions{txs: map[int64]core.Transaction{}}
}

func (f *fakeTransactions) List(_ context.Context, filter storage.TransactionFilter) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []core.Transaction
	for _, t := range f.txs {
		if filter.WeekID > 0 && t.WeekID != filter.WeekID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTransactions) Get(_ context.Context, id int64) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (f *fakeTransactions) Create(_ context.Context, t core.Transaction) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	f.txs[t.ID] = t
	return t.ID, nil
}

func (f *fakeTransactions) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.txs[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.txs, id)
	return nil
}

type fakeCategories struct {
	calls int
	err   error
}

func (f *fakeCategories) List(_ context.Context, typ core.TransactionType) ([]core.Category, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	all := []core.Category{
		{ID: 1, Name: "Renta", Type: core.Expense},
		{ID: 2, Name: "Salario", Type: core.Income},
	}
	if typ == "" {
		return all, nil
	}
	var out []core.Category
	for _, c := range all {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) Get(_ context.Context, id int64) (core.Category, error) {
	return core.Category{}, errors.New("not used")
}
