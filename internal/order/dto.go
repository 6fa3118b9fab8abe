package order

// PlaceOrderItem is one requested line entry. Clients may send the product
// reference as either "id" or "productId"; any client-supplied price is ignored.
// swagger:model PlaceOrderItem
type PlaceOrderItem struct {
	ID        string `json:"id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity" example:"2"`
}

// Ref returns whichever product reference field the client filled.
func (it PlaceOrderItem) Ref() string {
	if it.ProductID != "" {
		return it.ProductID
	}
	return it.ID
}

// PlaceOrderRequest payload of order creation.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	CustomerName  string           `json:"customerName" example:"Jane Roe"`
	CustomerEmail string           `json:"customerEmail" example:"jane@example.com"`
	CustomerPhone string           `json:"customerPhone,omitempty" example:"+34 600 000 000"`
	Address       string           `json:"address" example:"Calle Mayor 1, Madrid"`
	Items         []PlaceOrderItem `json:"items"`
}

// UpdateStatusRequest payload of a status transition.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"confirmed"`
}
