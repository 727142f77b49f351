package catalog

type CreateProductRequest struct {
	Code          string  `json:"code" validate:"required,max=50"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	FabricType    *string `json:"fabric_type,omitempty" validate:"omitempty,max=100"`
	WorkerPrice   int64   `json:"worker_price" validate:"gte=0"`
	CustomerPrice *int64  `json:"customer_price,omitempty" validate:"omitempty,gte=0"`
	ImageURL      *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	FabricType    *string `json:"fabric_type,omitempty" validate:"omitempty,max=100"`
	WorkerPrice   *int64  `json:"worker_price,omitempty" validate:"omitempty,gte=0"`
	CustomerPrice *int64  `json:"customer_price,omitempty" validate:"omitempty,gte=0"`
	ImageURL      *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type ListProductsRequest struct {
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
