package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/repository"

	"go.uber.org/zap"
)

// Store is the read/write surface shared by the live backend and the demo dataset.
type Store interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error)

	ListReceivables(ctx context.Context, f repository.ReceivablesFilter) ([]domain.Receivable, error)
	GetReceivable(ctx context.Context, id string) (*domain.Receivable, error)
	CreateReceivable(ctx context.Context, in domain.NewReceivable) (*domain.Receivable, error)

	ListFollowUps(ctx context.Context, f repository.FollowUpsFilter) ([]domain.FollowUp, error)
	CreateFollowUp(ctx context.Context, in domain.NewFollowUp) (*domain.FollowUp, error)
}

// LiveStore is a Store that can prove it is reachable.
type LiveStore interface {
	Store
	Probe(ctx context.Context) error
}

type Source string

const (
	SourceLive Source = "live"
	SourceDemo Source = "demo"
)

// SourceStatus explains which data a response was built from and why.
type SourceStatus struct {
	Source          Source    `json:"source"`
	Connected       bool      `json:"connected"`
	TablesExist     bool      `json:"tables_exist"`
	Error           *string   `json:"error"`
	MissingSettings []string  `json:"missing_settings"`
	CheckedAt       time.Time `json:"checked_at"`
}

func (s SourceStatus) IsDemo() bool { return s.Source == SourceDemo }

// SourceSelector probes the live backend and falls back to the demo store.
// It holds no state between calls; every Select probes again.
type SourceSelector struct {
	live    LiveStore
	demo    Store
	missing []string
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewSourceSelector(live LiveStore, demo Store, missing []string, probeTimeout time.Duration, log *zap.Logger) *SourceSelector {
	if log == nil {
		log = zap.NewNop()
	}
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &SourceSelector{
		live:    live,
		demo:    demo,
		missing: append([]string(nil), missing...),
		timeout: probeTimeout,
		log:     log.Named("source"),
		now:     time.Now,
	}
}

func (s *SourceSelector) Select(ctx context.Context) (Store, SourceStatus) {
	status := SourceStatus{
		Source:          SourceDemo,
		MissingSettings: append([]string{}, s.missing...),
		CheckedAt:       s.now().UTC(),
	}

	if s.live == nil || len(s.missing) > 0 {
		msg := domain.ErrNotConfigured.Error()
		if len(s.missing) > 0 {
			msg += ": missing " + strings.Join(s.missing, ", ")
		}
		status.Error = &msg
		s.log.Warn("serving demo data", zap.String("reason", msg))
		return s.demo, status
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.live.Probe(probeCtx)
	if err == nil {
		status.Source = SourceLive
		status.Connected = true
		status.TablesExist = true
		return s.live, status
	}

	msg := err.Error()
	status.Error = &msg

	switch {
	case repository.IsMissingTable(err):
		status.Connected = true
		s.log.Warn("backend reachable but tables are missing, serving demo data", zap.Error(err))
	case errors.Is(err, domain.ErrNotConfigured):
		s.log.Warn("serving demo data", zap.Error(err))
	default:
		s.log.Warn("backend probe failed, serving demo data", zap.Error(err))
	}
	return s.demo, status
}
