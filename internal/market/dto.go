package market

type CreateGoodRequest struct {
	ShipDate         string  `json:"ship_date" validate:"required"`
	ProductCode      string  `json:"product_code" validate:"required,max=50"`
	CustomerID       int64   `json:"customer_id" validate:"required"`
	QuantityNeeded   int64   `json:"quantity_needed" validate:"gt=0"`
	QuantityProduced int64   `json:"quantity_produced" validate:"gte=0"`
	Notes            *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateGoodRequest struct {
	ShipDate         *string `json:"ship_date,omitempty"`
	QuantityNeeded   *int64  `json:"quantity_needed,omitempty" validate:"omitempty,gt=0"`
	QuantityProduced *int64  `json:"quantity_produced,omitempty" validate:"omitempty,gte=0"`
	Delivered        *bool   `json:"delivered,omitempty"`
	Notes            *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ListGoodsRequest struct {
	Month       *string `json:"month,omitempty"`
	ProductCode *string `json:"product_code,omitempty"`
	CustomerID  *int64  `json:"customer_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	Limit       int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset      int     `json:"offset" validate:"gte=0"`
}
