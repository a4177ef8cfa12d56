package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"ar-dashboard/internal/clients"
	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	exportSetKey    = "export_ids"
	exportKeyPrefix = "exports:"
	exportTypeAging = "aging"

	receivablesSheet = "Receivables"
	agingSheet       = "Aging"

	progressChunk = 500
)

var (
	ErrExportNotFound   = errors.New("export not found")
	ErrExportsDisabled  = errors.New("export status store is not configured")
	ErrNoExportColumns  = errors.New("no known columns selected")
	defaultAgingColumns = []string{
		"receipt_number",
		"customer.name",
		"due_date",
		"balance_due",
		"status",
		"aging_days",
		"aging_bucket",
	}
)

// FileStore persists a finished workbook and returns where it can be downloaded.
type FileStore interface {
	Put(ctx context.Context, fileName string, data []byte) (string, error)
}

type ExportStatus struct {
	Key      string         `json:"key"`
	Type     string         `json:"type"`
	Operator string         `json:"operator"`
	Filters  map[string]any `json:"filters"`
	Source   Source         `json:"source"`
	Progress float64        `json:"progress"`
	Stage    string         `json:"stage,omitempty"`
	FileURL  *string        `json:"file_url"`
	Error    *string        `json:"error"`
	Created  time.Time      `json:"created_at"`
}

// ExportView is the listing shape with a humanised creation time.
type ExportView struct {
	Key       string         `json:"key"`
	Type      string         `json:"type"`
	Operator  string         `json:"operator"`
	Filters   map[string]any `json:"filters"`
	Source    Source         `json:"source"`
	Progress  float64        `json:"progress"`
	Stage     string         `json:"stage,omitempty"`
	FileURL   *string        `json:"file_url"`
	Error     *string        `json:"error"`
	CreatedAt string         `json:"created_at"`
}

type AgingExportRequest struct {
	Columns    []string                 `json:"columns"`
	Status     *domain.ReceivableStatus `json:"status"`
	CustomerID *string                  `json:"customer_id"`
}

type ReceivableColumn struct {
	Header string
	Value  func(r domain.Receivable) any
}

func strPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func datePtr(p *domain.Date) string {
	if p == nil {
		return ""
	}
	return p.String()
}

var receivableColumns = map[string]ReceivableColumn{
	"receipt_number": {
		Header: "Receipt #",
		Value:  func(r domain.Receivable) any { return r.ReceiptNumber },
	},
	"po_number": {
		Header: "PO #",
		Value:  func(r domain.Receivable) any { return strPtr(r.PONumber) },
	},
	"customer.name": {
		Header: "Customer",
		Value: func(r domain.Receivable) any {
			if r.Customer == nil {
				return ""
			}
			return r.Customer.Name
		},
	},
	"order_date": {
		Header: "Order date",
		Value:  func(r domain.Receivable) any { return datePtr(r.OrderDate) },
	},
	"due_date": {
		Header: "Due date",
		Value:  func(r domain.Receivable) any { return datePtr(r.DueDate) },
	},
	"original_amount": {
		Header: "Original amount",
		Value:  func(r domain.Receivable) any { return r.OriginalAmount.InexactFloat64() },
	},
	"balance_due": {
		Header: "Balance due",
		Value:  func(r domain.Receivable) any { return r.BalanceDue.InexactFloat64() },
	},
	"status": {
		Header: "Status",
		Value:  func(r domain.Receivable) any { return string(r.Status) },
	},
	"aging_days": {
		Header: "Aging (days)",
		Value:  func(r domain.Receivable) any { return r.AgingDays },
	},
	"aging_bucket": {
		Header: "Aging bucket",
		Value:  func(r domain.Receivable) any { return string(domain.BucketFor(r.AgingDays)) },
	},
	"ewity_transaction_id": {
		Header: "Ewity transaction",
		Value:  func(r domain.Receivable) any { return strPtr(r.EwityTransactionID) },
	},
	"quickbooks_invoice_id": {
		Header: "QuickBooks invoice",
		Value:  func(r domain.Receivable) any { return strPtr(r.QuickbooksInvoiceID) },
	},
	"created_at": {
		Header: "Created",
		Value:  func(r domain.Receivable) any { return r.CreatedAt.Format("2006-01-02 15:04:05") },
	},
}

// ExportColumns lists the column keys accepted by the aging export.
func ExportColumns() []string {
	keys := make([]string, 0, len(receivableColumns))
	for k := range receivableColumns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type ExportService struct {
	dashboard *DashboardService
	redis     *clients.RedisClient
	files     FileStore
	ws        *clients.WebSocketClient
	ttl       time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewExportService(
	dashboard *DashboardService,
	redis *clients.RedisClient,
	files FileStore,
	ws *clients.WebSocketClient,
	ttl time.Duration,
	log *zap.Logger,
) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 20 * time.Minute
	}
	return &ExportService{
		dashboard: dashboard,
		redis:     redis,
		files:     files,
		ws:        ws,
		ttl:       ttl,
		log:       log.Named("export"),
		now:       time.Now,
	}
}

func (s *ExportService) saveExportStatus(ctx context.Context, st *ExportStatus) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(st)
	if err != nil {
		s.log.Error("encode export status", zap.String("export_id", st.Key), zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, st.Key, string(data), s.ttl); err != nil {
		s.log.Warn("save export status", zap.String("export_id", st.Key), zap.Error(err))
		return
	}
	if err := s.redis.SAdd(ctx, exportSetKey, st.Key); err != nil {
		s.log.Warn("index export status", zap.String("export_id", st.Key), zap.Error(err))
	}
}

func resolveColumns(selected []string) ([]string, []ReceivableColumn) {
	if len(selected) == 0 {
		selected = defaultAgingColumns
	}
	var (
		keys []string
		cols []ReceivableColumn
	)
	for _, key := range selected {
		col, ok := receivableColumns[key]
		if !ok {
			continue
		}
		keys = append(keys, key)
		cols = append(cols, col)
	}
	return keys, cols
}

func buildAgingFiltersMap(req AgingExportRequest, columns []string) map[string]any {
	m := map[string]any{
		"status":      nil,
		"customer_id": nil,
		"columns":     columns,
	}
	if req.Status != nil {
		m["status"] = string(*req.Status)
	}
	if req.CustomerID != nil {
		m["customer_id"] = *req.CustomerID
	}
	return m
}

// StartAgingExport records a pending export and builds the workbook in the
// background. The store is selected once, here, and used for the whole run.
func (s *ExportService) StartAgingExport(ctx context.Context, operator string, req AgingExportRequest) (*ExportStatus, error) {
	columns, cols := resolveColumns(req.Columns)
	if len(cols) == 0 {
		return nil, ErrNoExportColumns
	}

	store, source := s.dashboard.selector.Select(ctx)

	status := &ExportStatus{
		Key:      exportKeyPrefix + uuid.NewString(),
		Type:     exportTypeAging,
		Operator: operator,
		Filters:  buildAgingFiltersMap(req, columns),
		Source:   source.Source,
		Stage:    "queued",
		Created:  s.now(),
	}
	s.saveExportStatus(ctx, status)

	snapshot := *status
	go s.runAgingExport(context.Background(), store, &snapshot, req, cols)

	return status, nil
}

func (s *ExportService) fail(ctx context.Context, st *ExportStatus, err error) {
	msg := err.Error()
	s.log.Error("export failed", zap.String("export_id", st.Key), zap.Error(err))

	st.Error = &msg
	st.Stage = "failed"
	st.Progress = 100
	s.saveExportStatus(ctx, st)
	_ = s.ws.NotifyExportFailed(ctx, st.Operator, st.Key, msg)
}

func (s *ExportService) progress(ctx context.Context, st *ExportStatus, progress float64, stage string) {
	st.Progress = progress
	st.Stage = stage
	s.saveExportStatus(ctx, st)
	_ = s.ws.NotifyExportProgress(ctx, st.Operator, st.Key, progress, stage)
}

func (s *ExportService) runAgingExport(ctx context.Context, store Store, st *ExportStatus, req AgingExportRequest, cols []ReceivableColumn) {
	today := s.dashboard.Today()

	f := repository.ReceivablesFilter{CustomerID: req.CustomerID, Order: repository.ReceivablesByDueDate}
	if req.Status != nil && *req.Status == domain.StatusPaid {
		f.Status = req.Status
	}

	all, err := s.dashboard.listReceivables(ctx, store, f, today)
	if err != nil {
		s.fail(ctx, st, fmt.Errorf("read receivables: %w", err))
		return
	}

	receivables := all
	if req.Status != nil {
		receivables = make([]domain.Receivable, 0, len(all))
		for _, r := range all {
			if r.Status == *req.Status {
				receivables = append(receivables, r)
			}
		}
	}

	book := excelize.NewFile()
	defer book.Close()

	book.SetSheetName(book.GetSheetName(0), receivablesSheet)
	_ = book.SetDocProps(&excelize.DocProperties{
		Creator: st.Operator,
		Title:   "Receivables aging " + today.String(),
	})

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = book.SetCellValue(receivablesSheet, cell, col.Header)
	}

	total := len(receivables)
	for i, r := range receivables {
		for colIdx, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, i+2)
			_ = book.SetCellValue(receivablesSheet, cell, col.Value(r))
		}

		if (i+1)%progressChunk == 0 || i == total-1 {
			// 100 is reserved for the moment the file URL exists
			progress := math.Min(math.Round(float64(i+1)/float64(total)*100), 90)
			s.progress(ctx, st, progress, "generating")
		}
	}

	if err := writeAgingSheet(book, domain.ComputeStats(receivables, nil, today), today, st.Source); err != nil {
		s.fail(ctx, st, fmt.Errorf("write aging sheet: %w", err))
		return
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		s.fail(ctx, st, fmt.Errorf("render workbook: %w", err))
		return
	}

	if s.files == nil {
		s.fail(ctx, st, errors.New("no file storage configured"))
		return
	}

	s.progress(ctx, st, 95, "uploading")

	fileName := fmt.Sprintf("aging_%s.xlsx", s.now().Format("20060102_150405"))
	url, err := s.files.Put(ctx, fileName, buf.Bytes())
	if err != nil {
		s.fail(ctx, st, fmt.Errorf("store export: %w", err))
		return
	}

	st.FileURL = &url
	s.progress(ctx, st, 100, "ready")
	_ = s.ws.NotifyExportComplete(ctx, st.Operator, st.Key, url, fileName)

	s.log.Info("export ready",
		zap.String("export_id", st.Key),
		zap.String("operator", st.Operator),
		zap.Int("rows", total),
	)
}

func writeAgingSheet(book *excelize.File, stats domain.DashboardStats, today domain.Date, source Source) error {
	if _, err := book.NewSheet(agingSheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Bucket (days)", "Balance due"},
	}
	for _, b := range domain.AgingBuckets {
		rows = append(rows, []any{string(b), stats.AgingBuckets.Get(b).InexactFloat64()})
	}
	rows = append(rows,
		[]any{},
		[]any{"Total outstanding", stats.TotalOutstanding.InexactFloat64()},
		[]any{"Overdue count", stats.OverdueCount},
		[]any{"Overdue amount", stats.OverdueAmount.InexactFloat64()},
		[]any{"Collection rate", stats.CollectionRate.InexactFloat64()},
		[]any{"Average aging (days)", stats.AverageAgingDays},
		[]any{"Receivables", stats.ReceivableCount},
		[]any{"As of", today.String()},
		[]any{"Source", string(source)},
	)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := book.SetSheetRow(agingSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) view(st ExportStatus) ExportView {
	return ExportView{
		Key:       st.Key,
		Type:      st.Type,
		Operator:  st.Operator,
		Filters:   st.Filters,
		Source:    st.Source,
		Progress:  st.Progress,
		Stage:     st.Stage,
		FileURL:   st.FileURL,
		Error:     st.Error,
		CreatedAt: humanizeAgo(st.Created, s.now()),
	}
}

func (s *ExportService) load(ctx context.Context, key string) (*ExportStatus, error) {
	data, err := s.redis.Get(ctx, key)
	if err != nil {
		if clients.IsMissing(err) {
			return nil, ErrExportNotFound
		}
		return nil, fmt.Errorf("read export %s: %w", key, err)
	}

	var st ExportStatus
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("decode export %s: %w", key, err)
	}
	return &st, nil
}

// GetExports lists the operator's exports, newest first. Index entries whose
// status has expired are dropped from the set.
func (s *ExportService) GetExports(ctx context.Context, operator string) ([]ExportView, error) {
	if s.redis == nil {
		return nil, ErrExportsDisabled
	}

	keys, err := s.redis.SMembers(ctx, exportSetKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get export keys: %w", err)
	}

	var statuses []ExportStatus
	for _, key := range keys {
		st, err := s.load(ctx, key)
		if errors.Is(err, ErrExportNotFound) {
			_ = s.redis.SRem(ctx, exportSetKey, key)
			continue
		}
		if err != nil {
			s.log.Warn("skip export", zap.String("export_id", key), zap.Error(err))
			continue
		}
		if st.Operator == operator {
			statuses = append(statuses, *st)
		}
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Created.After(statuses[j].Created)
	})

	views := make([]ExportView, 0, len(statuses))
	for _, st := range statuses {
		views = append(views, s.view(st))
	}
	return views, nil
}

func (s *ExportService) GetExport(ctx context.Context, exportID, operator string) (*ExportView, error) {
	if s.redis == nil {
		return nil, ErrExportsDisabled
	}

	st, err := s.load(ctx, exportID)
	if err != nil {
		return nil, err
	}
	if st.Operator != operator {
		return nil, ErrExportNotFound
	}

	v := s.view(*st)
	return &v, nil
}

func humanizeAgo(t, now time.Time) string {
	if t.After(now) {
		return "just now"
	}

	minutes := int(now.Sub(t).Minutes())
	if minutes < 1 {
		return "just now"
	}
	if minutes < 60 {
		return plural(minutes, "minute") + " ago"
	}
	hours := minutes / 60
	if hours < 24 {
		return plural(hours, "hour") + " ago"
	}
	days := hours / 24
	if days < 30 {
		return plural(days, "day") + " ago"
	}
	return t.Format("2006-01-02 15:04")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
