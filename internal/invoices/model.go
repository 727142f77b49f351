// Package invoices tracks purchase, sale and debt-payment invoices against
// customers and suppliers.
package invoices

import (
	"errors"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// InvoiceType enumerates what an invoice documents.
type InvoiceType string

const (
	TypePurchase    InvoiceType = "purchase"
	TypeSale        InvoiceType = "sale"
	TypeDebtPayment InvoiceType = "debt_payment"
	TypeOther       InvoiceType = "other"
)

// InvoiceStatus enumerates payment states.
type InvoiceStatus string

const (
	StatusPaid          InvoiceStatus = "paid"
	StatusUnpaid        InvoiceStatus = "unpaid"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusOverdue       InvoiceStatus = "overdue"
)

// Item is one line of a purchase or sale invoice. Total is quantity times
// unit price, fixed at entry time.
type Item struct {
	Description string       `json:"description"`
	Quantity    int64        `json:"quantity"`
	UnitPrice   money.Amount `json:"unit_price"`
	Total       money.Amount `json:"total"`
}

type Invoice struct {
	ID            int64         `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	CreationDate  time.Time     `json:"creation_date"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	Type          InvoiceType   `json:"type"`
	PartyID       int64         `json:"party_id"`
	PartyName     string        `json:"party_name"`
	Items         []Item        `json:"items,omitempty"`
	TotalAmount   money.Amount  `json:"total_amount"`
	AmountPaid    money.Amount  `json:"amount_paid"`
	Status        InvoiceStatus `json:"status"`
	Notes         *string       `json:"notes,omitempty"`
	RelatedTo     *string       `json:"related_to,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

var (
	ErrNotFound = errors.New("invoices: invoice not found")
	// ErrDuplicateNumber guards the unique invoice number.
	ErrDuplicateNumber = errors.New("invoices: invoice number already exists")
	// ErrOverpaid indicates amount paid above the invoice total.
	ErrOverpaid = errors.New("invoices: amount paid exceeds total")
)
