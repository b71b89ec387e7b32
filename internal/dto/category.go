package dto

// CreateCategoryRequest contains category creation data
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateCategoryRequest contains category update data
type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// BulkCreateCategoriesRequest contains a batch of category names
type BulkCreateCategoriesRequest struct {
	Names []string `json:"names" validate:"required,min=1,max=50,dive,required,min=1,max=100"`
}
