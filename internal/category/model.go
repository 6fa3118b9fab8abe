package category

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCategoryRequest payload of creation.
// swagger:model CreateCategoryRequest
type CreateCategoryRequest struct {
	Name        string `json:"name"        example:"peripherals"`
	Description string `json:"description" example:"Keyboards, mice, headsets"`
}

// UpdateCategoryRequest payload of partial update.
// swagger:model UpdateCategoryRequest
type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
