package request

type AddCartItem struct {
	ProductID int64 `validate:"required,gt=0" json:"productId"`
	Quantity  int   `validate:"required,gte=1" json:"quantity"`
}

type UpdateCartItemQuantity struct {
	Quantity int `validate:"required,gte=1" json:"quantity"`
}
