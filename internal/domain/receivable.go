package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceivableStatus string

const (
	StatusPending ReceivableStatus = "pending"
	StatusOverdue ReceivableStatus = "overdue"
	StatusPaid    ReceivableStatus = "paid"
)

func (s ReceivableStatus) Valid() bool {
	switch s {
	case StatusPending, StatusOverdue, StatusPaid:
		return true
	}
	return false
}

type Receivable struct {
	ID                  string           `json:"id"`
	ReceiptNumber       string           `json:"receipt_number"`
	PONumber            *string          `json:"po_number"`
	CustomerID          *string          `json:"customer_id"`
	OrderDate           *Date            `json:"order_date"`
	DueDate             *Date            `json:"due_date"`
	OriginalAmount      decimal.Decimal  `json:"original_amount"`
	BalanceDue          decimal.Decimal  `json:"balance_due"`
	Status              ReceivableStatus `json:"status"`
	EwityTransactionID  *string          `json:"ewity_transaction_id"`
	QuickbooksInvoiceID *string          `json:"quickbooks_invoice_id"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`

	// Customer is attached on reads that join the owning customer.
	Customer *Customer `json:"customer,omitempty"`

	// AgingDays is derived on read and never persisted.
	AgingDays int `json:"aging_days"`
}

// WithAging returns a copy with aging_days recomputed for today and the status derived from it.
func (r Receivable) WithAging(today Date) Receivable {
	if r.DueDate != nil {
		r.AgingDays = AgingDays(*r.DueDate, today)
	} else {
		r.AgingDays = 0
	}
	r.Status = DeriveStatus(r.Status, r.AgingDays)
	return r
}

type NewReceivable struct {
	ID                  *string          `json:"id,omitempty" validate:"omitempty,uuid"`
	ReceiptNumber       string           `json:"receipt_number" validate:"required,max=64"`
	PONumber            *string          `json:"po_number,omitempty" validate:"omitempty,max=64"`
	CustomerID          *string          `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	OrderDate           *Date            `json:"order_date,omitempty"`
	DueDate             *Date            `json:"due_date,omitempty"`
	OriginalAmount      decimal.Decimal  `json:"original_amount"`
	BalanceDue          decimal.Decimal  `json:"balance_due"`
	Status              ReceivableStatus `json:"status" validate:"required,oneof=pending overdue paid"`
	EwityTransactionID  *string          `json:"ewity_transaction_id,omitempty" validate:"omitempty,max=128"`
	QuickbooksInvoiceID *string          `json:"quickbooks_invoice_id,omitempty" validate:"omitempty,max=128"`
	CreatedAt           *time.Time       `json:"created_at,omitempty"`
	UpdatedAt           *time.Time       `json:"updated_at,omitempty"`
}
