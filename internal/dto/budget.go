package dto

// CreateBudgetRequest contains budget creation data. Dates use YYYY-MM-DD.
type CreateBudgetRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Amount    string `json:"amount" validate:"required,money_amount"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// UpdateBudgetRequest contains budget update data
type UpdateBudgetRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Amount    string `json:"amount" validate:"required,money_amount"`
	IsActive  *bool  `json:"is_active" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// AllocationItem assigns an amount to one category
type AllocationItem struct {
	CategoryID string `json:"category_id" validate:"required,uuid"`
	Amount     string `json:"amount" validate:"required,money_amount"`
}

// UpdateAllocationsRequest replaces allocated amounts per category
type UpdateAllocationsRequest struct {
	Allocations []AllocationItem `json:"allocations" validate:"required,dive"`
}

// BudgetExistsResponse reports whether the user has any budget
type BudgetExistsResponse struct {
	HasBudget bool `json:"has_budget"`
}
