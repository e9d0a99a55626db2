package handler

import (
	"errors"
	"net/http"

	"library-ledger/internal/api"
	"library-ledger/internal/ledger"
	"library-ledger/internal/store"

	"github.com/labstack/echo/v4"
)

// StatusFor 將 ledger 與 store 的錯誤對應到 HTTP 狀態碼
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, store.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrNotOwned):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrNotAvailable),
		errors.Is(err, ledger.ErrAlreadyReturned),
		errors.Is(err, ledger.ErrOnLoan),
		errors.Is(err, store.ErrDuplicateUsername):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as an api.ErrorResponse. Unknown errors are logged
// and reported without their details.
func RespondError(c echo.Context, err error) error {
	status := StatusFor(err)
	msg := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		c.Logger().Error(err)
		msg = "internal server error"
	case errors.Is(err, store.ErrNoRows):
		msg = "not found"
	}
	return c.JSON(status, api.ErrorResponse{Message: msg})
}
