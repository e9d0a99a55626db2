// File: internal/model/borrow_record.go
package model

import "time"

const (
	StatusPending  = "Pending"
	StatusReturned = "Returned"
)

// BorrowRecord 借閱紀錄；ReturnDate 為 nil 表示尚未歸還
type BorrowRecord struct {
	ID         int        `db:"id" json:"id"`
	BorrowerID int        `db:"borrower_id" json:"borrower_id"`
	BookID     int        `db:"book_id" json:"book_id"`
	BorrowDate time.Time  `db:"borrow_date" json:"borrow_date"`
	DueDate    time.Time  `db:"due_date" json:"due_date"`
	ReturnDate *time.Time `db:"return_date" json:"return_date,omitempty"`
	Penalty    float64    `db:"penalty" json:"penalty"`
}

func (r BorrowRecord) IsOpen() bool {
	return r.ReturnDate == nil
}

func (r BorrowRecord) Status() string {
	if r.IsOpen() {
		return StatusPending
	}
	return StatusReturned
}

// LoanView is a borrow record joined with its borrower and book, as listed on
// the dashboard and in the CSV report.
type LoanView struct {
	BorrowRecord
	BorrowerName string `db:"borrower_name" json:"borrower_name"`
	BookTitle    string `db:"book_title" json:"book_title"`
}
