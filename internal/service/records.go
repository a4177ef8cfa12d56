package service

import (
	"context"

	"ar-dashboard/internal/domain"

	"go.uber.org/zap"
)

// RecordService creates records in whichever store the probe selects. The demo
// store refuses writes with domain.ErrReadOnly.
type RecordService struct {
	selector  *SourceSelector
	dashboard *DashboardService
	log       *zap.Logger
}

func NewRecordService(selector *SourceSelector, dashboard *DashboardService, log *zap.Logger) *RecordService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecordService{selector: selector, dashboard: dashboard, log: log.Named("records")}
}

func (s *RecordService) created(kind, id string, source SourceStatus) {
	s.log.Info("record created",
		zap.String("kind", kind),
		zap.String("id", id),
		zap.String("source", string(source.Source)),
	)
}

func (s *RecordService) CreateCustomer(ctx context.Context, in domain.NewCustomer) (Item[domain.Customer], error) {
	store, source := s.selector.Select(ctx)

	c, err := store.CreateCustomer(ctx, in)
	if err != nil {
		return Item[domain.Customer]{Source: source}, err
	}
	s.created("customer", c.ID, source)
	return Item[domain.Customer]{Source: source, Item: *c}, nil
}

func (s *RecordService) CreateReceivable(ctx context.Context, in domain.NewReceivable) (Item[domain.Receivable], error) {
	store, source := s.selector.Select(ctx)

	r, err := store.CreateReceivable(ctx, in)
	if err != nil {
		return Item[domain.Receivable]{Source: source}, err
	}
	s.created("receivable", r.ID, source)
	return Item[domain.Receivable]{Source: source, Item: r.WithAging(s.dashboard.Today())}, nil
}

func (s *RecordService) CreateFollowUp(ctx context.Context, in domain.NewFollowUp) (Item[domain.FollowUp], error) {
	store, source := s.selector.Select(ctx)

	f, err := store.CreateFollowUp(ctx, in)
	if err != nil {
		return Item[domain.FollowUp]{Source: source}, err
	}
	s.created("follow-up", f.ID, source)
	return Item[domain.FollowUp]{Source: source, Item: *f}, nil
}
