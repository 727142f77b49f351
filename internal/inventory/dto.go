package inventory

type CreateStockEntryRequest struct {
	Kind        string  `json:"kind" validate:"required,oneof=fabric accessory"`
	EntryDate   string  `json:"entry_date" validate:"required,datetime=2006-01-02"`
	Code        string  `json:"code" validate:"required,max=50"`
	Name        string  `json:"name" validate:"required,max=200"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=50"`
	ProductCode *string `json:"product_code,omitempty" validate:"omitempty,max=50"`
	SupplierID  int64   `json:"supplier_id" validate:"required,gt=0"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	UnitCost    int64   `json:"unit_cost" validate:"gte=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateStockEntryRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Color       *string  `json:"color,omitempty" validate:"omitempty,max=50"`
	ProductCode *string  `json:"product_code,omitempty" validate:"omitempty,max=50"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitCost    *int64   `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ListStockEntriesRequest struct {
	Kind       *Kind  `json:"kind,omitempty"`
	SupplierID *int64 `json:"supplier_id,omitempty"`
	Limit      int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int    `json:"offset" validate:"gte=0"`
}
