// File: internal/model/borrower.go
package model

import "time"

// Role 區分館員與一般借閱者
type Role string

const (
	RoleLibrarian Role = "librarian"
	RoleStudent   Role = "student"
	RoleUser      Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleLibrarian, RoleStudent, RoleUser:
		return true
	}
	return false
}

// Borrower 是所有可借書的身分（學生、一般使用者、館員）
type Borrower struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Course       string    `db:"course" json:"course"`
	YearLevel    int       `db:"year_level" json:"year_level"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (b Borrower) IsLibrarian() bool {
	return b.Role == RoleLibrarian
}
