package store

import (
	"context"
	"fmt"

	"library-ledger/internal/database"
	"library-ledger/internal/model"

	"github.com/doug-martin/goqu/v9"
)

const borrowerColumns = `id, name, username, password_hash, role, course, year_level, created_at`

func scanBorrower(row interface{ Scan(dest ...any) error }, b *model.Borrower) error {
	return row.Scan(
		&b.ID,
		&b.Name,
		&b.Username,
		&b.PasswordHash,
		&b.Role,
		&b.Course,
		&b.YearLevel,
		&b.CreatedAt,
	)
}

func GetBorrowerByID(ctx context.Context, db database.Querier, id int) (*model.Borrower, error) {
	row := db.QueryRow(ctx,
		`SELECT `+borrowerColumns+` FROM borrowers WHERE id = $1`,
		id,
	)
	b := &model.Borrower{}
	if err := scanBorrower(row, b); err != nil {
		return nil, fmt.Errorf("GetBorrowerByID: %w", err)
	}
	return b, nil
}

func GetBorrowerByUsername(ctx context.Context, db database.Querier, username string) (*model.Borrower, error) {
	row := db.QueryRow(ctx,
		`SELECT `+borrowerColumns+` FROM borrowers WHERE username = $1`,
		username,
	)
	b := &model.Borrower{}
	if err := scanBorrower(row, b); err != nil {
		return nil, fmt.Errorf("GetBorrowerByUsername: %w", err)
	}
	return b, nil
}

// CreateBorrower 新增借閱者；帳號重複時回傳 ErrDuplicateUsername
func CreateBorrower(ctx context.Context, db database.Querier, b *model.Borrower) (*model.Borrower, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO borrowers (name, username, password_hash, role, course, year_level)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		b.Name,
		b.Username,
		b.PasswordHash,
		b.Role,
		b.Course,
		b.YearLevel,
	)
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		if IsUniqueViolation(err, "") {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("CreateBorrower: %w", err)
	}
	return b, nil
}

// UpdateBorrowerProfile 只更新個人資料欄位，帳號與角色不變
func UpdateBorrowerProfile(ctx context.Context, db database.Querier, b *model.Borrower) error {
	tag, err := db.Exec(ctx,
		`UPDATE borrowers SET name = $1, course = $2, year_level = $3
		 WHERE id = $4`,
		b.Name,
		b.Course,
		b.YearLevel,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateBorrowerProfile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateBorrowerProfile: %w", ErrNoRows)
	}
	return nil
}

func UpdateBorrowerPassword(ctx context.Context, db database.Querier, id int, hash string) error {
	tag, err := db.Exec(ctx, `UPDATE borrowers SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("UpdateBorrowerPassword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateBorrowerPassword: %w", ErrNoRows)
	}
	return nil
}

func ListBorrowers(ctx context.Context, db database.Querier, role model.Role) ([]model.Borrower, error) {
	ds := dialect.From("borrowers").
		Select("id", "name", "username", "password_hash", "role", "course", "year_level", "created_at").
		Order(goqu.C("id").Asc())
	if role != "" {
		ds = ds.Where(goqu.C("role").Eq(string(role)))
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("ListBorrowers: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListBorrowers: %w", err)
	}
	defer rows.Close()

	var list []model.Borrower
	for rows.Next() {
		var b model.Borrower
		if err := scanBorrower(rows, &b); err != nil {
			return nil, fmt.Errorf("ListBorrowers: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListBorrowers: %w", err)
	}
	return list, nil
}
