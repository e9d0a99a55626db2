package store

import (
	"context"
	"fmt"
	"time"

	"library-ledger/internal/database"
	"library-ledger/internal/model"

	"github.com/doug-martin/goqu/v9"
)

const recordColumns = `id, borrower_id, book_id, borrow_date, due_date, return_date, penalty`

// LoanFilter 篩選借閱紀錄；零值代表不篩選
type LoanFilter struct {
	// Status is "open", "returned" or empty.
	Status     string
	BorrowerID int
}

const (
	LoanStatusOpen     = "open"
	LoanStatusReturned = "returned"
)

func scanRecord(row interface{ Scan(dest ...any) error }, r *model.BorrowRecord) error {
	return row.Scan(
		&r.ID,
		&r.BorrowerID,
		&r.BookID,
		&r.BorrowDate,
		&r.DueDate,
		&r.ReturnDate,
		&r.Penalty,
	)
}

func InsertBorrowRecord(ctx context.Context, db database.Querier, r *model.BorrowRecord) (*model.BorrowRecord, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO borrow_records (borrower_id, book_id, borrow_date, due_date, penalty)
		 VALUES ($1, $2, $3, $4, 0)
		 RETURNING id`,
		r.BorrowerID,
		r.BookID,
		r.BorrowDate,
		r.DueDate,
	)
	if err := row.Scan(&r.ID); err != nil {
		return nil, fmt.Errorf("InsertBorrowRecord: %w", err)
	}
	r.Penalty = 0
	r.ReturnDate = nil
	return r, nil
}

func GetBorrowRecordByID(ctx context.Context, db database.Querier, id int) (*model.BorrowRecord, error) {
	row := db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM borrow_records WHERE id = $1`,
		id,
	)
	r := &model.BorrowRecord{}
	if err := scanRecord(row, r); err != nil {
		return nil, fmt.Errorf("GetBorrowRecordByID: %w", err)
	}
	return r, nil
}

// GetBorrowRecordForUpdate 讀取並鎖定借閱紀錄
func GetBorrowRecordForUpdate(ctx context.Context, db database.Querier, id int) (*model.BorrowRecord, error) {
	row := db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM borrow_records WHERE id = $1 FOR UPDATE`,
		id,
	)
	r := &model.BorrowRecord{}
	if err := scanRecord(row, r); err != nil {
		return nil, fmt.Errorf("GetBorrowRecordForUpdate: %w", err)
	}
	return r, nil
}

// MarkReturned sets return_date and penalty on a record that is still open.
// A record that was already returned is left untouched and ErrNoRows is returned.
func MarkReturned(ctx context.Context, db database.Querier, id int, returnDate time.Time, penalty float64) error {
	tag, err := db.Exec(ctx,
		`UPDATE borrow_records SET return_date = $1, penalty = $2
		 WHERE id = $3 AND return_date IS NULL`,
		returnDate,
		penalty,
		id,
	)
	if err != nil {
		return fmt.Errorf("MarkReturned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("MarkReturned: %w", ErrNoRows)
	}
	return nil
}

func DeleteBorrowRecord(ctx context.Context, db database.Querier, id int) error {
	tag, err := db.Exec(ctx, `DELETE FROM borrow_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteBorrowRecord: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteBorrowRecord: %w", ErrNoRows)
	}
	return nil
}

// CountOpenRecordsForBook 回傳該書未歸還的紀錄數
func CountOpenRecordsForBook(ctx context.Context, db database.Querier, bookID int) (int, error) {
	var n int
	row := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM borrow_records WHERE book_id = $1 AND return_date IS NULL`,
		bookID,
	)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("CountOpenRecordsForBook: %w", err)
	}
	return n, nil
}

// loansQuery builds the joined listing used by both the API and the CSV report.
func loansQuery(f LoanFilter) (string, []any, error) {
	ds := dialect.From(goqu.T("borrow_records").As("r")).
		Join(goqu.T("borrowers").As("s"), goqu.On(goqu.I("r.borrower_id").Eq(goqu.I("s.id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("r.book_id").Eq(goqu.I("b.id")))).
		Select(
			goqu.I("r.id"),
			goqu.I("r.borrower_id"),
			goqu.I("r.book_id"),
			goqu.I("r.borrow_date"),
			goqu.I("r.due_date"),
			goqu.I("r.return_date"),
			goqu.I("r.penalty"),
			goqu.I("s.name").As("borrower_name"),
			goqu.I("b.title").As("book_title"),
		).
		Order(goqu.I("r.id").Asc())

	switch f.Status {
	case LoanStatusOpen:
		ds = ds.Where(goqu.I("r.return_date").IsNull())
	case LoanStatusReturned:
		ds = ds.Where(goqu.I("r.return_date").IsNotNull())
	case "":
	default:
		return "", nil, fmt.Errorf("unknown loan status %q", f.Status)
	}
	if f.BorrowerID != 0 {
		ds = ds.Where(goqu.I("r.borrower_id").Eq(f.BorrowerID))
	}
	return ds.Prepared(true).ToSQL()
}

func ListLoans(ctx context.Context, db database.Querier, f LoanFilter) ([]model.LoanView, error) {
	query, args, err := loansQuery(f)
	if err != nil {
		return nil, fmt.Errorf("ListLoans: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListLoans: %w", err)
	}
	defer rows.Close()

	var list []model.LoanView
	for rows.Next() {
		var v model.LoanView
		if err := rows.Scan(
			&v.ID,
			&v.BorrowerID,
			&v.BookID,
			&v.BorrowDate,
			&v.DueDate,
			&v.ReturnDate,
			&v.Penalty,
			&v.BorrowerName,
			&v.BookTitle,
		); err != nil {
			return nil, fmt.Errorf("ListLoans: %w", err)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListLoans: %w", err)
	}
	return list, nil
}

// GetDashboardStats 一次查詢取得儀表板所需的所有計數
func GetDashboardStats(ctx context.Context, db database.Querier) (*model.DashboardStats, error) {
	row := db.QueryRow(ctx,
		`SELECT
		     (SELECT COUNT(*) FROM borrowers WHERE role <> 'librarian'),
		     (SELECT COUNT(*) FROM books),
		     (SELECT COUNT(*) FROM borrow_records),
		     (SELECT COUNT(*) FROM borrow_records WHERE return_date IS NULL)`,
	)
	s := &model.DashboardStats{}
	if err := row.Scan(&s.TotalBorrowers, &s.TotalBooks, &s.TotalBorrowed, &s.PendingReturns); err != nil {
		return nil, fmt.Errorf("GetDashboardStats: %w", err)
	}
	return s, nil
}
