package api

import (
	"time"

	"library-ledger/internal/model"
)

// DateLayout is how every calendar date leaves the API.
const DateLayout = time.DateOnly

// swagger:model api.LoanResponse
type LoanResponse struct {
	ID           int     `json:"id" example:"7"`
	BorrowerID   int     `json:"borrower_id" example:"10"`
	BookID       int     `json:"book_id" example:"42"`
	BorrowerName string  `json:"borrower_name,omitempty" example:"Alice Chen"`
	BookTitle    string  `json:"book_title,omitempty" example:"The Go Programming Language"`
	BorrowDate   string  `json:"borrow_date" example:"2025-03-03"`
	DueDate      string  `json:"due_date" example:"2025-03-10"`
	ReturnDate   *string `json:"return_date" example:"2025-03-13"`
	Penalty      float64 `json:"penalty" example:"15"`
	Status       string  `json:"status" example:"Returned"`
}

func NewLoanResponse(r model.BorrowRecord) LoanResponse {
	resp := LoanResponse{
		ID:         r.ID,
		BorrowerID: r.BorrowerID,
		BookID:     r.BookID,
		BorrowDate: r.BorrowDate.Format(DateLayout),
		DueDate:    r.DueDate.Format(DateLayout),
		Penalty:    r.Penalty,
		Status:     r.Status(),
	}
	if r.ReturnDate != nil {
		d := r.ReturnDate.Format(DateLayout)
		resp.ReturnDate = &d
	}
	return resp
}

func NewLoanViewResponse(v model.LoanView) LoanResponse {
	resp := NewLoanResponse(v.BorrowRecord)
	resp.BorrowerName = v.BorrowerName
	resp.BookTitle = v.BookTitle
	return resp
}
