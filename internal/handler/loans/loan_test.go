package loans

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"library-ledger/internal/database"
	"library-ledger/internal/ledger"
	"library-ledger/internal/middleware"
	"library-ledger/internal/model"
	"library-ledger/internal/service"
	"library-ledger/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

// fakeLedger 記錄呼叫參數並回傳預設結果
type fakeLedger struct {
	actor      ledger.Actor
	borrowerID int
	bookID     int
	recordID   int
	rec        *model.BorrowRecord
	err        error
}

func (f *fakeLedger) Borrow(ctx context.Context, actor ledger.Actor, borrowerID, bookID int) (*model.BorrowRecord, error) {
	f.actor, f.borrowerID, f.bookID = actor, borrowerID, bookID
	return f.rec, f.err
}

func (f *fakeLedger) Return(ctx context.Context, actor ledger.Actor, recordID int) (*model.BorrowRecord, error) {
	f.actor, f.recordID = actor, recordID
	return f.rec, f.err
}

func (f *fakeLedger) DeleteRecord(ctx context.Context, recordID int) (*model.BorrowRecord, error) {
	f.recordID = recordID
	return f.rec, f.err
}

var day0 = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func openRecord() *model.BorrowRecord {
	return &model.BorrowRecord{ID: 7, BorrowerID: 10, BookID: 42, BorrowDate: day0, DueDate: day0.AddDate(0, 0, 7)}
}

func newCtx(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newIDCtx(e *echo.Echo, method, id string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newCtx(e, method, "/loans/"+id, "")
	c.SetPath("/loans/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func withActor(c echo.Context, id int, role model.Role) echo.Context {
	c.Set(middleware.ContextUserKey, &service.CustomClaims{BorrowerID: id, Role: role})
	return c
}

func TestBorrowHandler(t *testing.T) {
	e := echo.New()
	e.Validator = &stubValidator{}

	t.Run("unauthenticated", func(t *testing.T) {
		ctx, rec := newCtx(e, http.MethodPost, "/loans", "book_id=42")
		require.NoError(t, BorrowHandler(&fakeLedger{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		e := echo.New()
		e.Validator = &stubValidator{err: errors.New("book_id required")}
		ctx, rec := newCtx(e, http.MethodPost, "/loans", "borrower_id=1")
		require.NoError(t, BorrowHandler(&fakeLedger{})(withActor(ctx, 10, model.RoleStudent)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("defaults to self", func(t *testing.T) {
		l := &fakeLedger{rec: openRecord()}
		ctx, rec := newCtx(e, http.MethodPost, "/loans", "book_id=42")
		require.NoError(t, BorrowHandler(l)(withActor(ctx, 10, model.RoleStudent)))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, 10, l.borrowerID)
		require.Equal(t, 42, l.bookID)
		require.Equal(t, ledger.Actor{BorrowerID: 10, Role: model.RoleStudent}, l.actor)
		require.Contains(t, rec.Body.String(), `"due_date":"2025-03-10"`)
		require.Contains(t, rec.Body.String(), `"status":"Pending"`)
		require.Contains(t, rec.Body.String(), `"return_date":null`)
	})

	t.Run("librarian on behalf", func(t *testing.T) {
		l := &fakeLedger{rec: openRecord()}
		ctx, rec := newCtx(e, http.MethodPost, "/loans", "book_id=42&borrower_id=10")
		require.NoError(t, BorrowHandler(l)(withActor(ctx, 1, model.RoleLibrarian)))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, 10, l.borrowerID)
	})

	errCases := []struct {
		err  error
		code int
	}{
		{ledger.ErrNotAvailable, http.StatusConflict},
		{ledger.ErrNotOwned, http.StatusForbidden},
		{fmt.Errorf("book 42: %w", ledger.ErrNotFound), http.StatusNotFound},
		{errors.New("db"), http.StatusInternalServerError},
	}
	for _, tc := range errCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			ctx, rec := newCtx(e, http.MethodPost, "/loans", "book_id=42")
			require.NoError(t, BorrowHandler(&fakeLedger{err: tc.err})(withActor(ctx, 10, model.RoleStudent)))
			require.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestReturnHandler(t *testing.T) {
	e := echo.New()

	t.Run("unauthenticated", func(t *testing.T) {
		ctx, rec := newIDCtx(e, http.MethodPost, "7")
		require.NoError(t, ReturnHandler(&fakeLedger{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		ctx, rec := newIDCtx(e, http.MethodPost, "-1")
		require.NoError(t, ReturnHandler(&fakeLedger{})(withActor(ctx, 10, model.RoleStudent)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("late return", func(t *testing.T) {
		r := openRecord()
		returned := day0.AddDate(0, 0, 10)
		r.ReturnDate = &returned
		r.Penalty = 15
		l := &fakeLedger{rec: r}
		ctx, rec := newIDCtx(e, http.MethodPost, "7")
		require.NoError(t, ReturnHandler(l)(withActor(ctx, 10, model.RoleStudent)))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 7, l.recordID)
		require.Contains(t, rec.Body.String(), `"penalty":15`)
		require.Contains(t, rec.Body.String(), `"return_date":"2025-03-13"`)
		require.Contains(t, rec.Body.String(), `"status":"Returned"`)
	})

	t.Run("already returned", func(t *testing.T) {
		ctx, rec := newIDCtx(e, http.MethodPost, "7")
		require.NoError(t, ReturnHandler(&fakeLedger{err: ledger.ErrAlreadyReturned})(withActor(ctx, 10, model.RoleStudent)))
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "book already returned")
	})

	t.Run("not owned", func(t *testing.T) {
		ctx, rec := newIDCtx(e, http.MethodPost, "7")
		require.NoError(t, ReturnHandler(&fakeLedger{err: ledger.ErrNotOwned})(withActor(ctx, 11, model.RoleStudent)))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestDeleteLoanHandler(t *testing.T) {
	e := echo.New()

	t.Run("bad id", func(t *testing.T) {
		ctx, rec := newIDCtx(e, http.MethodDelete, "x")
		require.NoError(t, DeleteLoanHandler(&fakeLedger{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctx, rec := newIDCtx(e, http.MethodDelete, "7")
		require.NoError(t, DeleteLoanHandler(&fakeLedger{err: fmt.Errorf("record 7: %w", ledger.ErrNotFound)})(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		l := &fakeLedger{rec: openRecord()}
		ctx, rec := newIDCtx(e, http.MethodDelete, "7")
		require.NoError(t, DeleteLoanHandler(l)(ctx))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, 7, l.recordID)
	})
}

func TestListLoansHandler(t *testing.T) {
	e := echo.New()
	t.Cleanup(func() { listLoans = store.ListLoans })

	t.Run("bad status", func(t *testing.T) {
		ctx, rec := newCtx(e, http.MethodGet, "/loans?status=lost", "")
		require.NoError(t, ListLoansHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad borrower", func(t *testing.T) {
		ctx, rec := newCtx(e, http.MethodGet, "/loans?borrower_id=abc", "")
		require.NoError(t, ListLoansHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("filters", func(t *testing.T) {
		var got store.LoanFilter
		listLoans = func(_ context.Context, _ database.Querier, f store.LoanFilter) ([]model.LoanView, error) {
			got = f
			return []model.LoanView{{BorrowRecord: *openRecord(), BorrowerName: "Amy", BookTitle: "Go"}}, nil
		}
		ctx, rec := newCtx(e, http.MethodGet, "/loans?status=open&borrower_id=10", "")
		require.NoError(t, ListLoansHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, store.LoanFilter{Status: store.LoanStatusOpen, BorrowerID: 10}, got)
		require.Contains(t, rec.Body.String(), `"borrower_name":"Amy"`)
		require.Contains(t, rec.Body.String(), `"book_title":"Go"`)
	})

	t.Run("store error", func(t *testing.T) {
		listLoans = func(context.Context, database.Querier, store.LoanFilter) ([]model.LoanView, error) {
			return nil, errors.New("db")
		}
		ctx, rec := newCtx(e, http.MethodGet, "/loans", "")
		require.NoError(t, ListLoansHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestMyLoansHandler(t *testing.T) {
	e := echo.New()
	t.Cleanup(func() { listLoans = store.ListLoans })

	t.Run("unauthenticated", func(t *testing.T) {
		ctx, rec := newCtx(e, http.MethodGet, "/loans/me", "")
		require.NoError(t, MyLoansHandler(nil)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("scoped to actor", func(t *testing.T) {
		var got store.LoanFilter
		listLoans = func(_ context.Context, _ database.Querier, f store.LoanFilter) ([]model.LoanView, error) {
			got = f
			return nil, nil
		}
		// borrower_id 參數會被忽略
		ctx, rec := newCtx(e, http.MethodGet, "/loans/me?status=returned&borrower_id=99", "")
		require.NoError(t, MyLoansHandler(nil)(withActor(ctx, 10, model.RoleStudent)))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, store.LoanFilter{Status: store.LoanStatusReturned, BorrowerID: 10}, got)
		require.Equal(t, "[]\n", rec.Body.String())
	})
}
