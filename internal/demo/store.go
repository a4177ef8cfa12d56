package demo

import (
	"context"
	"sort"

	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/repository"
)

// Store serves the built-in dataset behind the same method set as the live
// repository store. Writes are refused.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	out := Customers()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	c, ok := customerByID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	return nil, domain.ErrReadOnly
}

func (s *Store) ListReceivables(ctx context.Context, f repository.ReceivablesFilter) ([]domain.Receivable, error) {
	all := Receivables()
	out := make([]domain.Receivable, 0, len(all))
	for _, r := range all {
		if f.CustomerID != nil && (r.CustomerID == nil || *r.CustomerID != *f.CustomerID) {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		out = append(out, r)
	}

	switch f.Order {
	case repository.ReceivablesByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			switch {
			case a == nil && b == nil:
				return out[i].CreatedAt.After(out[j].CreatedAt)
			case a == nil:
				return false
			case b == nil:
				return true
			case a.Equal(*b):
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return a.Before(*b)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out, nil
}

func (s *Store) GetReceivable(ctx context.Context, id string) (*domain.Receivable, error) {
	for _, r := range Receivables() {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateReceivable(ctx context.Context, in domain.NewReceivable) (*domain.Receivable, error) {
	return nil, domain.ErrReadOnly
}

func (s *Store) ListFollowUps(ctx context.Context, f repository.FollowUpsFilter) ([]domain.FollowUp, error) {
	all := FollowUps()
	out := make([]domain.FollowUp, 0, len(all))
	for _, fu := range all {
		if f.ReceivableID != nil && fu.ReceivableID != *f.ReceivableID {
			continue
		}
		if f.ScheduledDate != nil && !fu.ScheduledDate.Equal(*f.ScheduledDate) {
			continue
		}
		if f.Completed != nil && fu.Completed != *f.Completed {
			continue
		}
		out = append(out, fu)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if f.Order == repository.FollowUpsBySchedule && !out[i].ScheduledDate.Equal(out[j].ScheduledDate) {
			return out[i].ScheduledDate.Before(out[j].ScheduledDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateFollowUp(ctx context.Context, in domain.NewFollowUp) (*domain.FollowUp, error) {
	return nil, domain.ErrReadOnly
}
