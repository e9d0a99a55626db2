package reports

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"library-ledger/internal/api"
	"library-ledger/internal/database"
	"library-ledger/internal/handler"
	"library-ledger/internal/model"
	"library-ledger/internal/store"

	"github.com/labstack/echo/v4"
)

var csvHeader = []string{"id", "borrower", "title", "borrow_date", "due_date", "return_date", "penalty"}

func csvRow(v model.LoanView) []string {
	returned := ""
	if v.ReturnDate != nil {
		returned = v.ReturnDate.Format(api.DateLayout)
	}
	return []string{
		strconv.Itoa(v.ID),
		v.BorrowerName,
		v.BookTitle,
		v.BorrowDate.Format(api.DateLayout),
		v.DueDate.Format(api.DateLayout),
		returned,
		strconv.FormatFloat(v.Penalty, 'f', 2, 64),
	}
}

// LoansCSVHandler 匯出所有借閱紀錄為 CSV，唯讀
// @Summary     Export borrow records
// @Description 欄位：id, borrower, title, borrow_date, due_date, return_date, penalty；日期格式 YYYY-MM-DD（僅限館員）
// @Tags        reports
// @Produce     text/csv
// @Param       status query    string false "open 或 returned"
// @Success     200    {string} string "CSV"
// @Failure     400    {object} api.ErrorResponse
// @Failure     500    {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /reports/loans.csv [get]
func LoansCSVHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		f := store.LoanFilter{Status: c.QueryParam("status")}
		switch f.Status {
		case "", store.LoanStatusOpen, store.LoanStatusReturned:
		default:
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid status"})
		}

		list, err := listLoans(c.Request().Context(), db, f)
		if err != nil {
			return handler.RespondError(c, err)
		}

		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="loans.csv"`)
		res.WriteHeader(http.StatusOK)

		w := csv.NewWriter(res)
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		for _, v := range list {
			if err := w.Write(csvRow(v)); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}
}
