package books

import (
	"context"
	"net/http"
	"strconv"

	"library-ledger/internal/api"
	"library-ledger/internal/database"
	"library-ledger/internal/handler"
	"library-ledger/internal/model"
	"library-ledger/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	createBook  = store.CreateBook
	getBookByID = store.GetBookByID
	listBooks   = store.ListBooks
)

// Remover 由 *ledger.Ledger 實作
type Remover interface {
	RemoveBook(ctx context.Context, bookID int) error
}

// @Summary     List books
// @Description 列出所有書籍；available=true 時只列出可借閱的書
// @Tags        books
// @Produce     json
// @Param       available query    bool false "只列出可借閱"
// @Success     200       {array}  api.BookResponse
// @Failure     400       {object} api.ErrorResponse
// @Failure     500       {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /books [get]
func ListBooksHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		onlyAvailable := false
		if v := c.QueryParam("available"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid available flag"})
			}
			onlyAvailable = b
		}

		list, err := listBooks(c.Request().Context(), db, onlyAvailable)
		if err != nil {
			return handler.RespondError(c, err)
		}
		resp := make([]api.BookResponse, 0, len(list))
		for _, b := range list {
			resp = append(resp, api.NewBookResponse(b))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Add a book
// @Description 新增書籍，新書預設可借閱（僅限館員）
// @Tags        books
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.CreateBookRequest true "書籍資料"
// @Success     201  {object} api.BookResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /books [post]
func CreateBookHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateBookRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		b, err := createBook(c.Request().Context(), db, &model.Book{Title: req.Title, Author: req.Author})
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusCreated, api.NewBookResponse(*b))
	}
}

// @Summary     Get a book by ID
// @Tags        books
// @Produce     json
// @Param       id  path     int true "書籍 ID"
// @Success     200 {object} api.BookResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /books/{id} [get]
func GetBookHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid book ID"})
		}
		b, err := getBookByID(c.Request().Context(), db, id)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewBookResponse(*b))
	}
}

// @Summary     Remove a book
// @Description 刪除書籍與其已歸還的紀錄；書仍借出時回傳 409（僅限館員）
// @Tags        books
// @Param       id  path int true "書籍 ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse "書籍借出中"
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /books/{id} [delete]
func DeleteBookHandler(l Remover) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid book ID"})
		}
		if err := l.RemoveBook(c.Request().Context(), id); err != nil {
			return handler.RespondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
