package repository

import (
	"context"
	"database/sql"

	"ar-dashboard/internal/domain"
)

// Store is the live backend: the three table repositories over one pool.
type Store struct {
	db          *sql.DB
	customers   *CustomerRepository
	receivables *ReceivableRepository
	followUps   *FollowUpRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:          db,
		customers:   NewCustomerRepository(db),
		receivables: NewReceivableRepository(db),
		followUps:   NewFollowUpRepository(db),
	}
}

// Probe pings the backend and runs a trivial read against customers, which
// also proves the schema is in place.
func (s *Store) Probe(ctx context.Context) error {
	if s == nil || s.db == nil {
		return domain.ErrNotConfigured
	}
	if err := s.db.PingContext(ctx); err != nil {
		return wrapErr("ping", err)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM customers`).Scan(&n); err != nil {
		return wrapErr("probe customers", err)
	}
	return nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *Store) CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	return s.customers.Create(ctx, in)
}

func (s *Store) ListReceivables(ctx context.Context, f ReceivablesFilter) ([]domain.Receivable, error) {
	return s.receivables.List(ctx, f)
}

func (s *Store) GetReceivable(ctx context.Context, id string) (*domain.Receivable, error) {
	return s.receivables.GetByID(ctx, id)
}

func (s *Store) CreateReceivable(ctx context.Context, in domain.NewReceivable) (*domain.Receivable, error) {
	return s.receivables.Create(ctx, in)
}

func (s *Store) ListFollowUps(ctx context.Context, f FollowUpsFilter) ([]domain.FollowUp, error) {
	return s.followUps.List(ctx, f)
}

func (s *Store) CreateFollowUp(ctx context.Context, in domain.NewFollowUp) (*domain.FollowUp, error) {
	return s.followUps.Create(ctx, in)
}
