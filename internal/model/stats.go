// File: internal/model/stats.go
package model

type DashboardStats struct {
	TotalBorrowers int `json:"total_borrowers"`
	TotalBooks     int `json:"total_books"`
	TotalBorrowed  int `json:"total_borrowed"`
	PendingReturns int `json:"pending_returns"`
}
