package api

import (
	"time"

	"library-ledger/internal/model"
)

// swagger:model api.BorrowerResponse
type BorrowerResponse struct {
	ID        int       `json:"id" example:"1"`
	Name      string    `json:"name" example:"Alice Chen"`
	Username  string    `json:"username" example:"alice"`
	Role      string    `json:"role" example:"student"`
	Course    string    `json:"course" example:"BSIT"`
	YearLevel int       `json:"year_level" example:"2"`
	CreatedAt time.Time `json:"created_at" example:"2025-03-03T10:00:00Z"`
}

func NewBorrowerResponse(b model.Borrower) BorrowerResponse {
	return BorrowerResponse{
		ID:        b.ID,
		Name:      b.Name,
		Username:  b.Username,
		Role:      string(b.Role),
		Course:    b.Course,
		YearLevel: b.YearLevel,
		CreatedAt: b.CreatedAt,
	}
}
