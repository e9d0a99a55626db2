package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"library-ledger/internal/database"
	"library-ledger/internal/model"
	"library-ledger/internal/service"
	"library-ledger/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// helper to build echo context
func newLoginCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type errBinder struct{}

func (errBinder) Bind(i any, c echo.Context) error { return errors.New("bind") }

type errValidator struct{}

func (errValidator) Validate(i any) error { return errors.New("v") }

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

type fakeRow struct {
	b   model.Borrower
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int) = r.b.ID
	*dest[1].(*string) = r.b.Name
	*dest[2].(*string) = r.b.Username
	*dest[3].(*string) = r.b.PasswordHash
	*dest[4].(*model.Role) = r.b.Role
	*dest[5].(*string) = r.b.Course
	*dest[6].(*int) = r.b.YearLevel
	*dest[7].(*time.Time) = r.b.CreatedAt
	return nil
}

func rowDB(row fakeRow) *database.FakeDB {
	return &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row { return row }}
}

func restore() {
	getBorrowerByUsername = store.GetBorrowerByUsername
	createBorrower = store.CreateBorrower
	authenticateBorrower = service.AuthenticateBorrower
	issueAccessToken = service.IssueAccessToken
	hashPassword = service.HashPassword
}

func TestLoginHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	// bind error
	e := echo.New()
	e.Binder = errBinder{}
	ctx, rec := newLoginCtx(e, "")
	h := LoginHandler(&database.FakeDB{})
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// validate error
	e = echo.New()
	e.Validator = errValidator{}
	ctx, rec = newLoginCtx(e, "username=a&password=b")
	h = LoginHandler(&database.FakeDB{})
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// user not found
	e = echo.New()
	e.Validator = okValidator{}
	ctx, rec = newLoginCtx(e, "username=a&password=b")
	h = LoginHandler(rowDB(fakeRow{err: pgx.ErrNoRows}))
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid credentials")

	// database error
	ctx, rec = newLoginCtx(e, "username=a&password=b")
	h = LoginHandler(rowDB(fakeRow{err: errors.New("conn reset")}))
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// authenticate error
	ctx, rec = newLoginCtx(e, "username=a&password=b")
	badHash, _ := service.HashPassword("other")
	h = LoginHandler(rowDB(fakeRow{b: model.Borrower{ID: 1, PasswordHash: badHash, Role: model.RoleStudent}}))
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// issue token error (JWT_SECRET not set)
	ctx, rec = newLoginCtx(e, "username=a&password=b")
	goodHash, _ := service.HashPassword("b")
	h = LoginHandler(rowDB(fakeRow{b: model.Borrower{ID: 1, PasswordHash: goodHash, Role: model.RoleStudent}}))
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// success
	ctx, rec = newLoginCtx(e, "username=a&password=b")
	t.Setenv("JWT_SECRET", "s")
	h = LoginHandler(rowDB(fakeRow{b: model.Borrower{ID: 1, Username: "a", PasswordHash: goodHash, Role: model.RoleLibrarian}}))
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "access_token")
	require.Contains(t, rec.Body.String(), `"token_type":"Bearer"`)
	require.Contains(t, rec.Body.String(), `"role":"librarian"`)
	require.NotContains(t, rec.Body.String(), goodHash)
}

func TestRegisterHandler(t *testing.T) {
	e := echo.New()
	e.Validator = okValidator{}
	body := "name=Alice&username=alice&password=secret1&course=BSIT&year_level=2"

	t.Run("bind error", func(t *testing.T) {
		e := echo.New()
		e.Binder = errBinder{}
		ctx, rec := newLoginCtx(e, body)
		require.NoError(t, RegisterHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		e := echo.New()
		e.Validator = errValidator{}
		ctx, rec := newLoginCtx(e, body)
		require.NoError(t, RegisterHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("librarian role refused", func(t *testing.T) {
		ctx, rec := newLoginCtx(e, body+"&role=librarian")
		require.NoError(t, RegisterHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid role")
	})

	t.Run("hash error", func(t *testing.T) {
		t.Cleanup(restore)
		hashPassword = func(string) (string, error) { return "", errors.New("hash") }
		ctx, rec := newLoginCtx(e, body)
		require.NoError(t, RegisterHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Cleanup(restore)
		hashPassword = func(string) (string, error) { return "h", nil }
		createBorrower = func(ctx context.Context, db database.Querier, b *model.Borrower) (*model.Borrower, error) {
			return nil, store.ErrDuplicateUsername
		}
		ctx, rec := newLoginCtx(e, body)
		require.NoError(t, RegisterHandler(nil)(ctx))
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "username already taken")
	})

	t.Run("create error", func(t *testing.T) {
		t.Cleanup(restore)
		hashPassword = func(string) (string, error) { return "h", nil }
		createBorrower = func(ctx context.Context, db database.Querier, b *model.Borrower) (*model.Borrower, error) {
			return nil, errors.New("db")
		}
		ctx, rec := newLoginCtx(e, body)
		require.NoError(t, RegisterHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success defaults to student", func(t *testing.T) {
		t.Cleanup(restore)
		hashPassword = func(string) (string, error) { return "h", nil }
		var created model.Borrower
		createBorrower = func(ctx context.Context, db database.Querier, b *model.Borrower) (*model.Borrower, error) {
			created = *b
			b.ID = 10
			return b, nil
		}
		ctx, rec := newLoginCtx(e, body)
		require.NoError(t, RegisterHandler(nil)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, model.RoleStudent, created.Role)
		require.Equal(t, "h", created.PasswordHash)
		require.Equal(t, 2, created.YearLevel)
		require.Contains(t, rec.Body.String(), `"id":10`)
		require.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("user role", func(t *testing.T) {
		t.Cleanup(restore)
		hashPassword = func(string) (string, error) { return "h", nil }
		createBorrower = func(ctx context.Context, db database.Querier, b *model.Borrower) (*model.Borrower, error) {
			return b, nil
		}
		ctx, rec := newLoginCtx(e, body+"&role=user")
		require.NoError(t, RegisterHandler(nil)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), `"role":"user"`)
	})
}
