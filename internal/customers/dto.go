package customers

type CreateCustomerRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Building    *string `json:"building,omitempty" validate:"omitempty,max=100"`
	ShopNumber  *string `json:"shop_number,omitempty" validate:"omitempty,max=50"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Currency    string  `json:"currency" validate:"required,oneof=VND RUB"`
	OpeningDebt int64   `json:"opening_debt" validate:"gte=0"`
}

type UpdateCustomerRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Building   *string `json:"building,omitempty" validate:"omitempty,max=100"`
	ShopNumber *string `json:"shop_number,omitempty" validate:"omitempty,max=50"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ListCustomersRequest struct {
	Search   *string `json:"search,omitempty"`
	Building *string `json:"building,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
