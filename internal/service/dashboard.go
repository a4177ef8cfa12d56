package service

import (
	"context"
	"errors"
	"time"

	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Listing is a read result with the data source it came from. Warnings carry
// read failures that were degraded to empty results.
type Listing[T any] struct {
	Source   SourceStatus `json:"source"`
	Items    []T          `json:"items"`
	Warnings []string     `json:"warnings,omitempty"`
}

type Item[T any] struct {
	Source SourceStatus `json:"source"`
	Item   T            `json:"item"`
}

type Overview struct {
	Source       SourceStatus          `json:"source"`
	Date         domain.Date           `json:"date"`
	Stats        domain.DashboardStats `json:"stats"`
	Customers    []domain.Customer     `json:"customers"`
	Receivables  []domain.Receivable   `json:"receivables"`
	FollowUpsDue []domain.FollowUp     `json:"follow_ups_due"`
	Warnings     []string              `json:"warnings,omitempty"`
}

type DashboardService struct {
	selector *SourceSelector
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewDashboardService(selector *SourceSelector, loc *time.Location, log *zap.Logger) *DashboardService {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		selector: selector,
		log:      log.Named("dashboard"),
		loc:      loc,
		now:      time.Now,
	}
}

// Today is the current calendar day in the configured timezone.
func (s *DashboardService) Today() domain.Date {
	return domain.DateOf(s.now().In(s.loc))
}

func (s *DashboardService) Source(ctx context.Context) SourceStatus {
	_, status := s.selector.Select(ctx)
	return status
}

func (s *DashboardService) degrade(op string, source SourceStatus, err error) string {
	s.log.Error("read failed, returning empty result",
		zap.String("op", op),
		zap.String("source", string(source.Source)),
		zap.Error(err),
	)
	return op + ": " + err.Error()
}

func enrich(in []domain.Receivable, today domain.Date) []domain.Receivable {
	out := make([]domain.Receivable, len(in))
	for i, r := range in {
		out[i] = r.WithAging(today)
	}
	return out
}

func (s *DashboardService) Customers(ctx context.Context) Listing[domain.Customer] {
	store, source := s.selector.Select(ctx)
	res := Listing[domain.Customer]{Source: source, Items: []domain.Customer{}}

	items, err := store.ListCustomers(ctx)
	if err != nil {
		res.Warnings = append(res.Warnings, s.degrade("list customers", source, err))
		return res
	}
	if items != nil {
		res.Items = items
	}
	return res
}

func (s *DashboardService) Customer(ctx context.Context, id string) (Item[domain.Customer], error) {
	store, source := s.selector.Select(ctx)

	c, err := store.GetCustomer(ctx, id)
	if err != nil {
		return Item[domain.Customer]{Source: source}, s.getErr("get customer", source, err)
	}
	return Item[domain.Customer]{Source: source, Item: *c}, nil
}

// getErr passes not-found through and logs anything else.
func (s *DashboardService) getErr(op string, source SourceStatus, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.log.Error("read failed", zap.String("op", op), zap.String("source", string(source.Source)), zap.Error(err))
	return err
}

func (s *DashboardService) listReceivables(ctx context.Context, store Store, f repository.ReceivablesFilter, today domain.Date) ([]domain.Receivable, error) {
	items, err := store.ListReceivables(ctx, f)
	if err != nil {
		return nil, err
	}
	return enrich(items, today), nil
}

func (s *DashboardService) Receivables(ctx context.Context) Listing[domain.Receivable] {
	return s.receivables(ctx, "list receivables", repository.ReceivablesFilter{})
}

func (s *DashboardService) CustomerReceivables(ctx context.Context, customerID string) Listing[domain.Receivable] {
	return s.receivables(ctx, "list customer receivables", repository.ReceivablesFilter{CustomerID: &customerID})
}

func (s *DashboardService) receivables(ctx context.Context, op string, f repository.ReceivablesFilter) Listing[domain.Receivable] {
	store, source := s.selector.Select(ctx)
	res := Listing[domain.Receivable]{Source: source, Items: []domain.Receivable{}}

	items, err := s.listReceivables(ctx, store, f, s.Today())
	if err != nil {
		res.Warnings = append(res.Warnings, s.degrade(op, source, err))
		return res
	}
	res.Items = items
	return res
}

// ReceivablesByStatus filters on the derived status, earliest due date first.
// Stored paid is terminal, so that case is filtered by the store.
func (s *DashboardService) ReceivablesByStatus(ctx context.Context, status domain.ReceivableStatus) Listing[domain.Receivable] {
	store, source := s.selector.Select(ctx)
	res := Listing[domain.Receivable]{Source: source, Items: []domain.Receivable{}}

	f := repository.ReceivablesFilter{Order: repository.ReceivablesByDueDate}
	if status == domain.StatusPaid {
		f.Status = &status
	}

	items, err := s.listReceivables(ctx, store, f, s.Today())
	if err != nil {
		res.Warnings = append(res.Warnings, s.degrade("list receivables by status", source, err))
		return res
	}
	for _, r := range items {
		if r.Status == status {
			res.Items = append(res.Items, r)
		}
	}
	return res
}

func (s *DashboardService) Receivable(ctx context.Context, id string) (Item[domain.Receivable], error) {
	store, source := s.selector.Select(ctx)

	r, err := store.GetReceivable(ctx, id)
	if err != nil {
		return Item[domain.Receivable]{Source: source}, s.getErr("get receivable", source, err)
	}
	return Item[domain.Receivable]{Source: source, Item: r.WithAging(s.Today())}, nil
}

func (s *DashboardService) FollowUps(ctx context.Context, receivableID *string) Listing[domain.FollowUp] {
	store, source := s.selector.Select(ctx)
	res := Listing[domain.FollowUp]{Source: source, Items: []domain.FollowUp{}}

	items, err := store.ListFollowUps(ctx, repository.FollowUpsFilter{ReceivableID: receivableID})
	if err != nil {
		res.Warnings = append(res.Warnings, s.degrade("list follow-ups", source, err))
		return res
	}
	if items != nil {
		res.Items = items
	}
	return res
}

func (s *DashboardService) TodaysFollowUps(ctx context.Context) Listing[domain.FollowUp] {
	store, source := s.selector.Select(ctx)
	res := Listing[domain.FollowUp]{Source: source, Items: []domain.FollowUp{}}

	today := s.Today()
	items, err := store.ListFollowUps(ctx, repository.DueOn(today))
	if err != nil {
		res.Warnings = append(res.Warnings, s.degrade("list today's follow-ups", source, err))
		return res
	}
	res.Items = domain.DueFollowUps(items, today)
	return res
}

// Overview reads customers, receivables and today's follow-ups concurrently
// from one selected store and aggregates them.
func (s *DashboardService) Overview(ctx context.Context) Overview {
	store, source := s.selector.Select(ctx)
	today := s.Today()

	var (
		customers   []domain.Customer
		receivables []domain.Receivable
		followUps   []domain.FollowUp
		warnings    [3]string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := store.ListCustomers(gctx)
		if err != nil {
			warnings[0] = s.degrade("list customers", source, err)
			return nil
		}
		customers = items
		return nil
	})

	g.Go(func() error {
		items, err := s.listReceivables(gctx, store, repository.ReceivablesFilter{}, today)
		if err != nil {
			warnings[1] = s.degrade("list receivables", source, err)
			return nil
		}
		receivables = items
		return nil
	})

	g.Go(func() error {
		items, err := store.ListFollowUps(gctx, repository.DueOn(today))
		if err != nil {
			warnings[2] = s.degrade("list today's follow-ups", source, err)
			return nil
		}
		followUps = domain.DueFollowUps(items, today)
		return nil
	})

	_ = g.Wait()

	out := Overview{
		Source:       source,
		Date:         today,
		Stats:        domain.ComputeStats(receivables, followUps, today),
		Customers:    customers,
		Receivables:  receivables,
		FollowUpsDue: followUps,
	}
	if out.Customers == nil {
		out.Customers = []domain.Customer{}
	}
	if out.Receivables == nil {
		out.Receivables = []domain.Receivable{}
	}
	if out.FollowUpsDue == nil {
		out.FollowUpsDue = []domain.FollowUp{}
	}
	for _, w := range warnings {
		if w != "" {
			out.Warnings = append(out.Warnings, w)
		}
	}
	return out
}
