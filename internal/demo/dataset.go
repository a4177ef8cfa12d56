// Package demo holds the built-in dataset served when the backend cannot be reached.
package demo

import (
	"time"

	"ar-dashboard/internal/domain"

	"github.com/shopspring/decimal"
)

type dataset struct {
	customers   []domain.Customer
	receivables []domain.Receivable
	followUps   []domain.FollowUp
}

// built once at package init and never mutated; accessors hand out copies
var data = build()

func strp(s string) *string { return &s }

func datep(s string) *domain.Date {
	d := domain.MustParseDate(s)
	return &d
}

func methodp(m domain.ContactMethod) *domain.ContactMethod { return &m }

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func build() dataset {
	customers := []domain.Customer{
		{
			ID:             "1",
			Name:           "ABC Manufacturing Ltd.",
			EwityName:      strp("ABC Mfg"),
			QuickbooksName: strp("ABC Manufacturing Ltd."),
			ContactNumber:  strp("+65 6123 4567"),
			Email:          strp("finance@abcmfg.com"),
			CreatedAt:      ts("2024-01-15T08:00:00Z"),
		},
		{
			ID:             "2",
			Name:           "TechCorp Solutions",
			EwityName:      strp("TechCorp"),
			QuickbooksName: strp("TechCorp Solutions Pte Ltd"),
			ContactNumber:  strp("+65 6234 5678"),
			Email:          strp("accounts@techcorp.sg"),
			CreatedAt:      ts("2024-02-01T09:00:00Z"),
		},
		{
			ID:             "3",
			Name:           "Global Trading Co.",
			EwityName:      strp("Global Trading"),
			QuickbooksName: strp("Global Trading Co."),
			ContactNumber:  strp("+65 6345 6789"),
			Email:          strp("billing@globaltrading.com"),
			CreatedAt:      ts("2024-02-15T10:00:00Z"),
		},
		{
			ID:             "4",
			Name:           "Smart Electronics",
			EwityName:      strp("Smart Electronics"),
			QuickbooksName: strp("Smart Electronics Pte Ltd"),
			ContactNumber:  strp("+65 6456 7890"),
			Email:          strp("finance@smartelectronics.sg"),
			CreatedAt:      ts("2024-03-01T11:00:00Z"),
		},
	}

	receivable := func(id, receipt, po, customerID, order, due string, amount int64, status domain.ReceivableStatus, ewity, qb, created string) domain.Receivable {
		return domain.Receivable{
			ID:                  id,
			ReceiptNumber:       receipt,
			PONumber:            strp(po),
			CustomerID:          strp(customerID),
			OrderDate:           datep(order),
			DueDate:             datep(due),
			OriginalAmount:      decimal.NewFromInt(amount),
			BalanceDue:          decimal.NewFromInt(amount),
			Status:              status,
			EwityTransactionID:  strp(ewity),
			QuickbooksInvoiceID: strp(qb),
			CreatedAt:           ts(created),
			UpdatedAt:           ts(created),
		}
	}

	receivables := []domain.Receivable{
		receivable("1", "RCP-2024-001", "PO-ABC-2024-100", "1", "2024-06-01", "2024-07-01", 15000, domain.StatusOverdue, "EWT-001-2024", "QB-INV-001", "2024-06-01T10:00:00Z"),
		receivable("2", "RCP-2024-002", "PO-TECH-2024-050", "2", "2024-06-15", "2024-07-15", 8500, domain.StatusPending, "EWT-002-2024", "QB-INV-002", "2024-06-15T14:00:00Z"),
		receivable("3", "RCP-2024-003", "PO-GLB-2024-025", "3", "2024-05-20", "2024-06-20", 22000, domain.StatusOverdue, "EWT-003-2024", "QB-INV-003", "2024-05-20T09:00:00Z"),
		receivable("4", "RCP-2024-004", "PO-SMT-2024-075", "4", "2024-07-01", "2024-08-01", 12500, domain.StatusPending, "EWT-004-2024", "QB-INV-004", "2024-07-01T16:00:00Z"),
		receivable("5", "RCP-2024-005", "PO-ABC-2024-150", "1", "2024-05-01", "2024-06-01", 35000, domain.StatusOverdue, "EWT-005-2024", "QB-INV-005", "2024-05-01T11:00:00Z"),
	}

	followUps := []domain.FollowUp{
		{
			ID:            "1",
			ReceivableID:  "1",
			ScheduledDate: domain.MustParseDate("2024-07-19"),
			ContactedBy:   strp("Sarah Chen"),
			Method:        methodp(domain.MethodCall),
			Notes:         strp("Need to follow up on overdue payment"),
			CreatedAt:     ts("2024-07-15T10:00:00Z"),
		},
		{
			ID:            "2",
			ReceivableID:  "3",
			ScheduledDate: domain.MustParseDate("2024-07-19"),
			ContactedBy:   strp("John Tan"),
			Method:        methodp(domain.MethodEmail),
			Notes:         strp("Send payment reminder email"),
			CreatedAt:     ts("2024-07-10T14:00:00Z"),
		},
		{
			ID:            "3",
			ReceivableID:  "2",
			ScheduledDate: domain.MustParseDate("2024-07-20"),
			ContactedBy:   strp("Sarah Chen"),
			Method:        methodp(domain.MethodCall),
			Notes:         strp("Check on payment status before due date"),
			CreatedAt:     ts("2024-07-18T09:00:00Z"),
		},
	}

	return dataset{customers: customers, receivables: receivables, followUps: followUps}
}

// Customers returns a copy of the demo customers.
func Customers() []domain.Customer {
	out := make([]domain.Customer, len(data.customers))
	for i, c := range data.customers {
		out[i] = cloneCustomer(c)
	}
	return out
}

// Receivables returns a copy of the demo receivables with their customers attached.
func Receivables() []domain.Receivable {
	out := make([]domain.Receivable, len(data.receivables))
	for i, r := range data.receivables {
		out[i] = cloneReceivable(r)
	}
	return out
}

// FollowUps returns a copy of the demo follow-ups.
func FollowUps() []domain.FollowUp {
	out := make([]domain.FollowUp, len(data.followUps))
	for i, f := range data.followUps {
		out[i] = cloneFollowUp(f)
	}
	return out
}

func customerByID(id string) (domain.Customer, bool) {
	for _, c := range data.customers {
		if c.ID == id {
			return cloneCustomer(c), true
		}
	}
	return domain.Customer{}, false
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	return strp(*p)
}

func cloneDate(p *domain.Date) *domain.Date {
	if p == nil {
		return nil
	}
	d := *p
	return &d
}

func cloneCustomer(c domain.Customer) domain.Customer {
	c.EwityName = cloneStr(c.EwityName)
	c.QuickbooksName = cloneStr(c.QuickbooksName)
	c.ContactNumber = cloneStr(c.ContactNumber)
	c.Email = cloneStr(c.Email)
	return c
}

func cloneReceivable(r domain.Receivable) domain.Receivable {
	r.PONumber = cloneStr(r.PONumber)
	r.CustomerID = cloneStr(r.CustomerID)
	r.OrderDate = cloneDate(r.OrderDate)
	r.DueDate = cloneDate(r.DueDate)
	r.EwityTransactionID = cloneStr(r.EwityTransactionID)
	r.QuickbooksInvoiceID = cloneStr(r.QuickbooksInvoiceID)
	r.Customer = nil
	if r.CustomerID != nil {
		if c, ok := customerByID(*r.CustomerID); ok {
			r.Customer = &c
		}
	}
	return r
}

func cloneFollowUp(f domain.FollowUp) domain.FollowUp {
	f.CompletedDate = cloneDate(f.CompletedDate)
	f.ContactedBy = cloneStr(f.ContactedBy)
	if f.Method != nil {
		f.Method = methodp(*f.Method)
	}
	f.Notes = cloneStr(f.Notes)
	f.NextFollowUp = cloneDate(f.NextFollowUp)
	return f
}
