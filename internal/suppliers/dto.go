package suppliers

type CreateSupplierRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Address         *string `json:"address,omitempty" validate:"omitempty,max=500"`
	ContactPerson   *string `json:"contact_person,omitempty" validate:"omitempty,max=200"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	SuppliesType    string  `json:"supplies_type" validate:"required,oneof=fabric accessories general"`
	TotalOrderValue *int64  `json:"total_order_value,omitempty" validate:"omitempty,gte=0"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateSupplierRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Address         *string `json:"address,omitempty" validate:"omitempty,max=500"`
	ContactPerson   *string `json:"contact_person,omitempty" validate:"omitempty,max=200"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	SuppliesType    *string `json:"supplies_type,omitempty" validate:"omitempty,oneof=fabric accessories general"`
	TotalOrderValue *int64  `json:"total_order_value,omitempty" validate:"omitempty,gte=0"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ListSuppliersRequest struct {
	SuppliesType *string `json:"supplies_type,omitempty"`
	Search       *string `json:"search,omitempty"`
	Limit        int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset       int     `json:"offset" validate:"gte=0"`
}
