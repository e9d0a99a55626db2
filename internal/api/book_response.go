package api

import (
	"time"

	"library-ledger/internal/model"
)

// swagger:model api.BookResponse
type BookResponse struct {
	ID        int       `json:"id" example:"42"`
	Title     string    `json:"title" example:"The Go Programming Language"`
	Author    string    `json:"author" example:"Alan Donovan"`
	Available bool      `json:"available" example:"true"`
	CreatedAt time.Time `json:"created_at" example:"2025-03-03T10:00:00Z"`
}

func NewBookResponse(b model.Book) BookResponse {
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Available: b.Available,
		CreatedAt: b.CreatedAt,
	}
}
