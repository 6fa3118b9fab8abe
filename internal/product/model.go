package product

import "time"

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price string `json:"price"`
	// Category holds the category *name*, not its id. Historical denormalization:
	// products are filtered by name and the category delete-guard matches on it.
	Category  string    `json:"category,omitempty"`
	Stock     int       `json:"stock"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is what a guarded decrement captures at reservation time.
type Snapshot struct {
	Name  string
	Price string
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	Q        string    `json:"q,omitempty"`
	Category string    `json:"category,omitempty"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
	Items    []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name"        example:"Mechanical Keyboard"`
	Description string `json:"description" example:"RGB 60%"`
	Price       string `json:"price"       example:"199.90"`
	Category    string `json:"category"    example:"peripherals"`
	Stock       int    `json:"stock"       example:"10"`
	Image       string `json:"image"       example:"/uploads/kb.png"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Stock       *int   `json:"stock"`
	Image       string `json:"image"`
}
