package service

import (
	"context"
	"sync"
	"time"

	"ar-dashboard/internal/demo"
	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/repository"
)

// fakeLive serves the demo rows as if they came from a reachable backend,
// with hooks to fail individual calls.
type fakeLive struct {
	*demo.Store

	mu              sync.Mutex
	probeErr        error
	probeBlocks     bool
	receivablesErr  error
	extra           []domain.Receivable
	lastReceivables repository.ReceivablesFilter
	created         []any
}

func newFakeLive() *fakeLive {
	return &fakeLive{Store: demo.NewStore()}
}

func (f *fakeLive) Probe(ctx context.Context) error {
	if f.probeBlocks {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.probeErr
}

func (f *fakeLive) ListReceivables(ctx context.Context, filter repository.ReceivablesFilter) ([]domain.Receivable, error) {
	f.mu.Lock()
	f.lastReceivables = filter
	f.mu.Unlock()

	if f.receivablesErr != nil {
		return nil, f.receivablesErr
	}
	out, _ := f.Store.ListReceivables(ctx, filter)
	for _, r := range f.extra {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLive) CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	f.created = append(f.created, in)
	return &domain.Customer{ID: "c-new", Name: in.Name, Email: in.Email, CreatedAt: time.Now()}, nil
}

func (f *fakeLive) CreateReceivable(ctx context.Context, in domain.NewReceivable) (*domain.Receivable, error) {
	f.created = append(f.created, in)
	return &domain.Receivable{
		ID:             "r-new",
		ReceiptNumber:  in.ReceiptNumber,
		CustomerID:     in.CustomerID,
		DueDate:        in.DueDate,
		OriginalAmount: in.OriginalAmount,
		BalanceDue:     in.BalanceDue,
		Status:         in.Status,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}, nil
}

func (f *fakeLive) CreateFollowUp(ctx context.Context, in domain.NewFollowUp) (*domain.FollowUp, error) {
	f.created = append(f.created, in)
	return &domain.FollowUp{
		ID:            "f-new",
		ReceivableID:  in.ReceivableID,
		ScheduledDate: in.ScheduledDate,
		Method:        in.Method,
		CreatedAt:     time.Now(),
	}, nil
}

var fixedNow = time.Date(2024, 7, 20, 9, 30, 0, 0, time.UTC)

func newDashboard(live LiveStore, missing ...string) *DashboardService {
	selector := NewSourceSelector(live, demo.NewStore(), missing, time.Second, nil)
	selector.now = func() time.Time { return fixedNow }

	d := NewDashboardService(selector, time.UTC, nil)
	d.now = func() time.Time { return fixedNow }
	return d
}
