package rest

import (
	"context"
	"net/http"
	"time"

	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

type DashboardReader interface {
	Source(ctx context.Context) service.SourceStatus
	Overview(ctx context.Context) service.Overview
	Customers(ctx context.Context) service.Listing[domain.Customer]
	Customer(ctx context.Context, id string) (service.Item[domain.Customer], error)
	Receivables(ctx context.Context) service.Listing[domain.Receivable]
	CustomerReceivables(ctx context.Context, customerID string) service.Listing[domain.Receivable]
	ReceivablesByStatus(ctx context.Context, status domain.ReceivableStatus) service.Listing[domain.Receivable]
	Receivable(ctx context.Context, id string) (service.Item[domain.Receivable], error)
	FollowUps(ctx context.Context, receivableID *string) service.Listing[domain.FollowUp]
	TodaysFollowUps(ctx context.Context) service.Listing[domain.FollowUp]
}

type RecordWriter interface {
	CreateCustomer(ctx context.Context, in domain.NewCustomer) (service.Item[domain.Customer], error)
	CreateReceivable(ctx context.Context, in domain.NewReceivable) (service.Item[domain.Receivable], error)
	CreateFollowUp(ctx context.Context, in domain.NewFollowUp) (service.Item[domain.FollowUp], error)
}

type AgingExporter interface {
	StartAgingExport(ctx context.Context, operator string, req service.AgingExportRequest) (*service.ExportStatus, error)
}

type ExportListService interface {
	GetExports(ctx context.Context, operator string) ([]service.ExportView, error)
	GetExport(ctx context.Context, exportID, operator string) (*service.ExportView, error)
}

// FileOpener resolves a stored export file for download.
type FileOpener interface {
	Open(fileName string) (path string, downloadName string, err error)
}

type WebSocketUpgrader interface {
	HandleWebSocket(w http.ResponseWriter, r *http.Request, operator string)
}

type Options struct {
	RequestTimeout time.Duration
	// RateLimit is requests per minute per client IP; zero disables it.
	RateLimit int
}

type Handler struct {
	dashboard  DashboardReader
	records    RecordWriter
	exporter   AgingExporter
	exportList ExportListService
	files      FileOpener
	ws         WebSocketUpgrader
	opts       Options
	log        *zap.Logger
}

func NewHandler(
	dashboard DashboardReader,
	records RecordWriter,
	exporter AgingExporter,
	exportList ExportListService,
	files FileOpener,
	ws WebSocketUpgrader,
	opts Options,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	return &Handler{
		dashboard:  dashboard,
		records:    records,
		exporter:   exporter,
		exportList: exportList,
		files:      files,
		ws:         ws,
		opts:       opts,
		log:        log.Named("http"),
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	return h.InitRouterWithAuth(nil)
}

func (h *Handler) InitRouterWithAuth(authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	headers := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
	})

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(h.log),
		middleware.Recoverer,
		headers.Handler,
	)

	r.Get("/health", h.health)

	// downloads are addressed by an unguessable file name and stay public
	if h.files != nil {
		r.Get("/files/{file}", h.serveFile)
	}

	r.Group(func(r chi.Router) {
		if h.opts.RateLimit > 0 {
			r.Use(httprate.Limit(h.opts.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		}
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		if h.ws != nil {
			r.Get("/ws", h.serveWebSocket)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(h.opts.RequestTimeout))

			r.Route("/setup", func(r chi.Router) {
				r.Get("/status", h.setupStatus)
				r.Post("/retry", h.setupRetry)
			})

			r.Get("/dashboard", h.getDashboard)
			r.Get("/dashboard/stats", h.getDashboardStats)

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", h.listCustomers)
				r.Post("/", h.createCustomer)
				r.Get("/{id}", h.getCustomer)
				r.Get("/{id}/receivables", h.listCustomerReceivables)
			})

			r.Route("/receivables", func(r chi.Router) {
				r.Get("/", h.listReceivables)
				r.Post("/", h.createReceivable)
				r.Get("/{id}", h.getReceivable)
			})

			r.Route("/follow-ups", func(r chi.Router) {
				r.Get("/", h.listFollowUps)
				r.Post("/", h.createFollowUp)
				r.Get("/today", h.todaysFollowUps)
			})

			r.Route("/export", func(r chi.Router) {
				r.Get("/", h.listExports)
				r.Get("/{export_id}", h.getExport)
				r.Post("/aging", h.exportAging)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	Success(w, "ok", map[string]string{"status": "ok"})
}
