package api

// BorrowRequest 借書；borrower_id 省略時替自己借，只有館員可以指定他人
// swagger:model api.BorrowRequest
type BorrowRequest struct {
	BookID     int `json:"book_id" form:"book_id" validate:"required,gt=0" example:"42"`
	BorrowerID int `json:"borrower_id" form:"borrower_id" validate:"gte=0" example:"0"`
}
