package invoices

type ItemRequest struct {
	Description string `json:"description" validate:"required,max=500"`
	Quantity    int64  `json:"quantity" validate:"gt=0"`
	UnitPrice   int64  `json:"unit_price" validate:"gte=0"`
}

type CreateInvoiceRequest struct {
	InvoiceNumber string        `json:"invoice_number" validate:"required,max=50"`
	CreationDate  string        `json:"creation_date" validate:"required"`
	DueDate       *string       `json:"due_date,omitempty"`
	Type          string        `json:"type" validate:"required,oneof=purchase sale debt_payment other"`
	PartyID       int64         `json:"party_id" validate:"required"`
	PartyName     string        `json:"party_name" validate:"required,max=200"`
	Items         []ItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
	TotalAmount   *int64        `json:"total_amount,omitempty" validate:"omitempty,gt=0"`
	AmountPaid    int64         `json:"amount_paid" validate:"gte=0"`
	Status        string        `json:"status" validate:"omitempty,oneof=paid unpaid partially_paid overdue"`
	Notes         *string       `json:"notes,omitempty" validate:"omitempty,max=2000"`
	RelatedTo     *string       `json:"related_to,omitempty" validate:"omitempty,max=100"`
}

type UpdateInvoiceRequest struct {
	DueDate    *string `json:"due_date,omitempty"`
	AmountPaid *int64  `json:"amount_paid,omitempty" validate:"omitempty,gte=0"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=paid unpaid partially_paid overdue"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ListInvoicesRequest struct {
	Type    *string `json:"type,omitempty"`
	Status  *string `json:"status,omitempty"`
	PartyID *int64  `json:"party_id,omitempty"`
	Limit   int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset  int     `json:"offset" validate:"gte=0"`
}
