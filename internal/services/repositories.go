package services

import (
	"context"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/storage"
)

// The store types in internal/storage satisfy these; tests use fakes.
type (
	ContractRepository interface {
		List(ctx context.Context, f storage.ContractFilter) ([]core.Contract, error)
		Get(ctx context.Context, id int64) (core.Contract, error)
		Create(ctx context.Context, client core.Client, aval core.Aval, terms core.ContractTerms, folio string) (storage.ContractRef, error)
		Delete(ctx context.Context, id int64) (storage.DeleteResult, error)
	}

	CategoryRepository interface {
		List(ctx context.Context, typ core.TransactionType) ([]core.Category, error)
		Get(ctx context.Context, id int64) (core.Category, error)
	}

	TransactionRepository interface {
		List(ctx context.Context, f storage.TransactionFilter) ([]core.Transaction, error)
		Get(ctx context.Context, id int64) (core.Transaction, error)
		Create(ctx context.Context, t core.Transaction) (int64, error)
		Delete(ctx context.Context, id int64) error
	}

	WeekRepository interface {
		List(ctx context.Context) ([]core.Week, error)
		Get(ctx context.Context, id int64) (core.Week, error)
		FindContaining(ctx context.Context, day core.Date) (core.Week, error)
		Create(ctx context.Context, w core.Week) (int64, error)
		Delete(ctx context.Context, id int64) error
	}

	// EventPublisher is implemented by *amqp.Client.
	EventPublisher interface {
		PublishContractEvent(ctx context.Context, ev *amqp.ContractEvent) error
	}
)
