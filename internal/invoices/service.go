package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// Repository defines data access for invoices.
type Repository interface {
	Create(ctx context.Context, inv Invoice) (int64, error)
	Get(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

const dateLayout = "2006-01-02"

// Create registers an invoice. The total is either given explicitly or
// summed from the line items; the payment status defaults to what the paid
// amount implies.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	creation, err := time.Parse(dateLayout, req.CreationDate)
	if err != nil {
		return nil, fmt.Errorf("parse creation date: %w", err)
	}

	inv := Invoice{
		InvoiceNumber: req.InvoiceNumber,
		CreationDate:  creation,
		Type:          InvoiceType(req.Type),
		PartyID:       req.PartyID,
		PartyName:     req.PartyName,
		AmountPaid:    money.Amount(req.AmountPaid),
		Notes:         req.Notes,
		RelatedTo:     req.RelatedTo,
	}
	if req.DueDate != nil {
		due, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("parse due date: %w", err)
		}
		inv.DueDate = &due
	}

	var itemTotal money.Amount
	for _, item := range req.Items {
		lineTotal := money.Amount(item.UnitPrice).MulQty(item.Quantity)
		inv.Items = append(inv.Items, Item{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   money.Amount(item.UnitPrice),
			Total:       lineTotal,
		})
		itemTotal += lineTotal
	}
	switch {
	case req.TotalAmount != nil:
		inv.TotalAmount = money.Amount(*req.TotalAmount)
	case itemTotal > 0:
		inv.TotalAmount = itemTotal
	default:
		return nil, errors.New("invoices: total amount or items required")
	}
	if inv.AmountPaid > inv.TotalAmount {
		return nil, ErrOverpaid
	}

	if req.Status != "" {
		inv.Status = InvoiceStatus(req.Status)
	} else {
		inv.Status = deriveStatus(inv.AmountPaid, inv.TotalAmount)
	}

	id, err := s.repo.Create(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	inv.ID = id
	return &inv, nil
}

// Update records payments and status changes; the invoice body itself is
// immutable once written.
func (s *Service) Update(ctx context.Context, id int64, req UpdateInvoiceRequest) (*Invoice, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.DueDate != nil {
		due, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("parse due date: %w", err)
		}
		updates["due_date"] = due
	}
	if req.AmountPaid != nil {
		paid := money.Amount(*req.AmountPaid)
		if paid > existing.TotalAmount {
			return nil, ErrOverpaid
		}
		updates["amount_paid"] = paid
		if req.Status == nil {
			updates["status"] = string(deriveStatus(paid, existing.TotalAmount))
		}
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func deriveStatus(paid, total money.Amount) InvoiceStatus {
	switch {
	case paid >= total:
		return StatusPaid
	case paid > 0:
		return StatusPartiallyPaid
	default:
		return StatusUnpaid
	}
}
