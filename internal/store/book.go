package store

import (
	"context"
	"fmt"

	"library-ledger/internal/database"
	"library-ledger/internal/model"

	"github.com/doug-martin/goqu/v9"
)

func scanBook(row interface{ Scan(dest ...any) error }, b *model.Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Author, &b.Available, &b.CreatedAt)
}

func CreateBook(ctx context.Context, db database.Querier, b *model.Book) (*model.Book, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO books (title, author, available)
		 VALUES ($1, $2, TRUE)
		 RETURNING id, available, created_at`,
		b.Title,
		b.Author,
	)
	if err := row.Scan(&b.ID, &b.Available, &b.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateBook: %w", err)
	}
	return b, nil
}

func GetBookByID(ctx context.Context, db database.Querier, id int) (*model.Book, error) {
	row := db.QueryRow(ctx,
		`SELECT id, title, author, available, created_at FROM books WHERE id = $1`,
		id,
	)
	b := &model.Book{}
	if err := scanBook(row, b); err != nil {
		return nil, fmt.Errorf("GetBookByID: %w", err)
	}
	return b, nil
}

// GetBookForUpdate 讀取書籍並鎖定該列直到交易結束，用來序列化同一本書的借閱
func GetBookForUpdate(ctx context.Context, db database.Querier, id int) (*model.Book, error) {
	row := db.QueryRow(ctx,
		`SELECT id, title, author, available, created_at FROM books WHERE id = $1 FOR UPDATE`,
		id,
	)
	b := &model.Book{}
	if err := scanBook(row, b); err != nil {
		return nil, fmt.Errorf("GetBookForUpdate: %w", err)
	}
	return b, nil
}

func SetBookAvailable(ctx context.Context, db database.Querier, id int, available bool) error {
	tag, err := db.Exec(ctx,
		`UPDATE books SET available = $1 WHERE id = $2`,
		available,
		id,
	)
	if err != nil {
		return fmt.Errorf("SetBookAvailable: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("SetBookAvailable: %w", ErrNoRows)
	}
	return nil
}

func DeleteBook(ctx context.Context, db database.Querier, id int) error {
	tag, err := db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteBook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteBook: %w", ErrNoRows)
	}
	return nil
}

// ListBooks 列出所有書籍，onlyAvailable 為 true 時只列可借的
func ListBooks(ctx context.Context, db database.Querier, onlyAvailable bool) ([]model.Book, error) {
	ds := dialect.From("books").
		Select("id", "title", "author", "available", "created_at").
		Order(goqu.C("id").Asc())
	if onlyAvailable {
		ds = ds.Where(goqu.C("available").IsTrue())
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("ListBooks: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListBooks: %w", err)
	}
	defer rows.Close()

	var list []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, fmt.Errorf("ListBooks: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListBooks: %w", err)
	}
	return list, nil
}
