package loans

import (
	"context"
	"net/http"
	"strconv"

	"library-ledger/internal/api"
	"library-ledger/internal/database"
	"library-ledger/internal/handler"
	"library-ledger/internal/ledger"
	"library-ledger/internal/middleware"
	"library-ledger/internal/model"
	"library-ledger/internal/store"

	"github.com/labstack/echo/v4"
)

var listLoans = store.ListLoans

// Ledger 由 *ledger.Ledger 實作
type Ledger interface {
	Borrow(ctx context.Context, actor ledger.Actor, borrowerID, bookID int) (*model.BorrowRecord, error)
	Return(ctx context.Context, actor ledger.Actor, recordID int) (*model.BorrowRecord, error)
	DeleteRecord(ctx context.Context, recordID int) (*model.BorrowRecord, error)
}

func recordID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "unauthorized"})
}

// @Summary     Borrow a book
// @Description 借書，到期日為今天加借閱天數。borrower_id 省略時替自己借；只有館員可以替他人借
// @Tags        loans
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.BorrowRequest true "借閱資料"
// @Success     201  {object} api.LoanResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse "不能替他人借書"
// @Failure     404  {object} api.ErrorResponse "書或借閱者不存在"
// @Failure     409  {object} api.ErrorResponse "書已借出"
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /loans [post]
func BorrowHandler(l Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}

		var req api.BorrowRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		borrowerID := req.BorrowerID
		if borrowerID == 0 {
			borrowerID = actor.BorrowerID
		}

		rec, err := l.Borrow(c.Request().Context(), actor, borrowerID, req.BookID)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusCreated, api.NewLoanResponse(*rec))
	}
}

// @Summary     Return a book
// @Description 還書並計算逾期罰金；重複歸還回傳 409
// @Tags        loans
// @Produce     json
// @Param       id  path     int true "借閱紀錄 ID"
// @Success     200 {object} api.LoanResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse "不是自己的紀錄"
// @Failure     404 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse "已歸還"
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /loans/{id}/return [post]
func ReturnHandler(l Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		id, ok := recordID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid record ID"})
		}

		rec, err := l.Return(c.Request().Context(), actor, id)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewLoanResponse(*rec))
	}
}

// @Summary     Delete a borrow record
// @Description 刪除借閱紀錄；未歸還的紀錄會讓書恢復可借（僅限館員）
// @Tags        loans
// @Param       id  path int true "借閱紀錄 ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /loans/{id} [delete]
func DeleteLoanHandler(l Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := recordID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid record ID"})
		}
		if _, err := l.DeleteRecord(c.Request().Context(), id); err != nil {
			return handler.RespondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// filterFrom 解析 status 查詢參數
func filterFrom(c echo.Context) (store.LoanFilter, bool) {
	f := store.LoanFilter{Status: c.QueryParam("status")}
	switch f.Status {
	case "", store.LoanStatusOpen, store.LoanStatusReturned:
		return f, true
	}
	return f, false
}

func respondLoans(c echo.Context, db database.DB, f store.LoanFilter) error {
	list, err := listLoans(c.Request().Context(), db, f)
	if err != nil {
		return handler.RespondError(c, err)
	}
	resp := make([]api.LoanResponse, 0, len(list))
	for _, v := range list {
		resp = append(resp, api.NewLoanViewResponse(v))
	}
	return c.JSON(http.StatusOK, resp)
}

// @Summary     List borrow records
// @Description 列出借閱紀錄，可依狀態與借閱者篩選（僅限館員）
// @Tags        loans
// @Produce     json
// @Param       status      query    string false "open 或 returned"
// @Param       borrower_id query    int    false "借閱者 ID"
// @Success     200         {array}  api.LoanResponse
// @Failure     400         {object} api.ErrorResponse
// @Failure     500         {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /loans [get]
func ListLoansHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		f, ok := filterFrom(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid status"})
		}
		if v := c.QueryParam("borrower_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil || id <= 0 {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid borrower ID"})
			}
			f.BorrowerID = id
		}
		return respondLoans(c, db, f)
	}
}

// @Summary     List my borrow records
// @Tags        loans
// @Produce     json
// @Param       status query    string false "open 或 returned"
// @Success     200    {array}  api.LoanResponse
// @Failure     400    {object} api.ErrorResponse
// @Failure     401    {object} api.ErrorResponse
// @Failure     500    {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /loans/me [get]
func MyLoansHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		f, ok := filterFrom(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid status"})
		}
		f.BorrowerID = actor.BorrowerID
		return respondLoans(c, db, f)
	}
}
