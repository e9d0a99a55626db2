package ledger

import (
	"context"
	"errors"
	"time"

	"library-ledger/internal/database"
	"library-ledger/internal/model"
	"library-ledger/internal/store"

	"github.com/jackc/pgx/v5"
)

const (
	DefaultLoanDays      = 7
	DefaultPenaltyPerDay = 5.0

	// openBookIndex 保證同一本書最多一筆未歸還紀錄
	openBookIndex = "borrow_records_open_book_idx"
)

// 以變數包裝 store 函式，方便測試時替換
var (
	getBorrowerByID          = store.GetBorrowerByID
	getBookForUpdate         = store.GetBookForUpdate
	setBookAvailable         = store.SetBookAvailable
	deleteBook               = store.DeleteBook
	insertBorrowRecord       = store.InsertBorrowRecord
	getBorrowRecordForUpdate = store.GetBorrowRecordForUpdate
	markReturned             = store.MarkReturned
	deleteBorrowRecord       = store.DeleteBorrowRecord
	countOpenRecordsForBook  = store.CountOpenRecordsForBook
)

// Actor is the authenticated borrower on whose session an operation runs.
type Actor struct {
	BorrowerID int
	Role       model.Role
}

func (a Actor) IsLibrarian() bool {
	return a.Role == model.RoleLibrarian
}

// may reports whether a can act on records belonging to borrowerID.
func (a Actor) may(borrowerID int) bool {
	return a.IsLibrarian() || a.BorrowerID == borrowerID
}

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type Config struct {
	LoanDays      int
	PenaltyPerDay float64
	// Location decides which calendar day "now" falls on. nil means UTC.
	Location *time.Location
}

func DefaultConfig() Config {
	return Config{
		LoanDays:      DefaultLoanDays,
		PenaltyPerDay: DefaultPenaltyPerDay,
		Location:      time.UTC,
	}
}

// Ledger 負責借書、還書、刪除紀錄與下架書籍，每個操作都在單一交易中完成
type Ledger struct {
	db       database.DB
	cfg      Config
	now      func() time.Time
	logger   Logger
	onChange func()
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(logger Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithChangeHook registers fn to run after every committed mutation.
func WithChangeHook(fn func()) Option {
	return func(l *Ledger) { l.onChange = fn }
}

func New(db database.DB, cfg Config, opts ...Option) *Ledger {
	if cfg.LoanDays <= 0 {
		cfg.LoanDays = DefaultLoanDays
	}
	if cfg.PenaltyPerDay < 0 {
		cfg.PenaltyPerDay = 0
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	l := &Ledger{
		db:     db,
		cfg:    cfg,
		now:    time.Now,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Config() Config {
	return l.cfg
}

// Today returns the current calendar date in the library's time zone.
func (l *Ledger) Today() time.Time {
	return civilDate(l.now(), l.cfg.Location)
}

func (l *Ledger) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}

// Borrow 建立借閱紀錄並將書設為不可借。館員可代任何借閱者借書，其他人只能替自己借
func (l *Ledger) Borrow(ctx context.Context, actor Actor, borrowerID, bookID int) (*model.BorrowRecord, error) {
	if !actor.may(borrowerID) {
		return nil, ErrNotOwned
	}

	today := l.Today()
	var rec *model.BorrowRecord
	err := database.WithTx(ctx, l.db, func(tx pgx.Tx) error {
		if _, err := getBorrowerByID(ctx, tx, borrowerID); err != nil {
			return notFound(err, "borrower", borrowerID)
		}
		book, err := getBookForUpdate(ctx, tx, bookID)
		if err != nil {
			return notFound(err, "book", bookID)
		}
		if !book.Available {
			return ErrNotAvailable
		}

		r, err := insertBorrowRecord(ctx, tx, &model.BorrowRecord{
			BorrowerID: borrowerID,
			BookID:     bookID,
			BorrowDate: today,
			DueDate:    today.AddDate(0, 0, l.cfg.LoanDays),
		})
		if err != nil {
			if store.IsUniqueViolation(err, openBookIndex) {
				return ErrNotAvailable
			}
			return err
		}
		if err := setBookAvailable(ctx, tx, bookID, false); err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		l.logger.Warn("borrow failed", "borrower_id", borrowerID, "book_id", bookID, "error", err)
		return nil, err
	}

	l.logger.Info("book borrowed", "record_id", rec.ID, "borrower_id", borrowerID, "book_id", bookID, "due_date", rec.DueDate.Format(time.DateOnly))
	l.changed()
	return rec, nil
}

// Return 歸還書籍並計算罰金；已歸還的紀錄不會被改動
func (l *Ledger) Return(ctx context.Context, actor Actor, recordID int) (*model.BorrowRecord, error) {
	today := l.Today()
	var rec *model.BorrowRecord
	err := database.WithTx(ctx, l.db, func(tx pgx.Tx) error {
		r, err := getBorrowRecordForUpdate(ctx, tx, recordID)
		if err != nil {
			return notFound(err, "record", recordID)
		}
		if !actor.may(r.BorrowerID) {
			return ErrNotOwned
		}
		if !r.IsOpen() {
			return ErrAlreadyReturned
		}

		penalty := Penalty(r.DueDate, today, l.cfg.PenaltyPerDay)
		if err := markReturned(ctx, tx, r.ID, today, penalty); err != nil {
			if errors.Is(err, store.ErrNoRows) {
				return ErrAlreadyReturned
			}
			return err
		}
		if err := setBookAvailable(ctx, tx, r.BookID, true); err != nil {
			return err
		}

		r.ReturnDate = &today
		r.Penalty = penalty
		rec = r
		return nil
	})
	if err != nil {
		l.logger.Warn("return failed", "record_id", recordID, "error", err)
		return nil, err
	}

	l.logger.Info("book returned", "record_id", rec.ID, "book_id", rec.BookID, "penalty", rec.Penalty)
	l.changed()
	return rec, nil
}

// DeleteRecord removes a borrow record. Deleting a record that is still open
// makes its book available again.
func (l *Ledger) DeleteRecord(ctx context.Context, recordID int) (*model.BorrowRecord, error) {
	var rec *model.BorrowRecord
	err := database.WithTx(ctx, l.db, func(tx pgx.Tx) error {
		r, err := getBorrowRecordForUpdate(ctx, tx, recordID)
		if err != nil {
			return notFound(err, "record", recordID)
		}
		if r.IsOpen() {
			if err := setBookAvailable(ctx, tx, r.BookID, true); err != nil {
				return err
			}
		}
		if err := deleteBorrowRecord(ctx, tx, r.ID); err != nil {
			return notFound(err, "record", recordID)
		}
		rec = r
		return nil
	})
	if err != nil {
		l.logger.Warn("delete record failed", "record_id", recordID, "error", err)
		return nil, err
	}

	l.logger.Info("record deleted", "record_id", rec.ID, "book_id", rec.BookID, "was_open", rec.IsOpen())
	l.changed()
	return rec, nil
}

// RemoveBook 下架書籍；書仍借出時回傳 ErrOnLoan。已歸還的紀錄隨書一併刪除
func (l *Ledger) RemoveBook(ctx context.Context, bookID int) error {
	err := database.WithTx(ctx, l.db, func(tx pgx.Tx) error {
		book, err := getBookForUpdate(ctx, tx, bookID)
		if err != nil {
			return notFound(err, "book", bookID)
		}
		n, err := countOpenRecordsForBook(ctx, tx, bookID)
		if err != nil {
			return err
		}
		if n > 0 || !book.Available {
			return ErrOnLoan
		}
		if err := deleteBook(ctx, tx, bookID); err != nil {
			return notFound(err, "book", bookID)
		}
		return nil
	})
	if err != nil {
		l.logger.Warn("remove book failed", "book_id", bookID, "error", err)
		return err
	}

	l.logger.Info("book removed", "book_id", bookID)
	l.changed()
	return nil
}
