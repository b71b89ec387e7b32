package dto

// CreateSavingsGoalRequest contains goal creation data
type CreateSavingsGoalRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	TargetAmount string `json:"target_amount" validate:"required,money_amount"`
	TargetDate   string `json:"target_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateSavingsGoalRequest contains goal update data
type UpdateSavingsGoalRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	TargetAmount string `json:"target_amount" validate:"required,money_amount"`
	TargetDate   string `json:"target_date" validate:"omitempty,datetime=2006-01-02"`
}

// AddProgressRequest adds saved money toward a goal
type AddProgressRequest struct {
	Amount string `json:"amount" validate:"required,money_amount"`
}
