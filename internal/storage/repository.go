package storage

import "context"

// Repository groups the per-entity stores over one database.
type Repository struct {
	db *DB

	Categories   *CategoryStore
	Clients      *ClientStore
	Avales       *AvalStore
	Contracts    *ContractStore
	Transactions *TransactionStore
	Weeks        *WeekStore
}

// NewRepository opens the database described by opts and wires the stores.
func NewRepository(ctx context.Context, opts Options) (*Repository, error) {
	db, err := Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	return newRepository(db), nil
}

func newRepository(db *DB) *Repository {
	return &Repository{
		db:           db,
		Categories:   &CategoryStore{db: db},
		Clients:      &ClientStore{db: db},
		Avales:       &AvalStore{db: db},
		Contracts:    &ContractStore{db: db},
		Transactions: &TransactionStore{db: db},
		Weeks:        &WeekStore{db: db},
	}
}

func (r *Repository) Ping(ctx context.Context) error { return r.db.Ping(ctx) }

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) Backend() Backend { return r.db.Backend() }
