package borrowers

import (
	"net/http"
	"strconv"

	"library-ledger/internal/api"
	"library-ledger/internal/database"
	"library-ledger/internal/handler"
	"library-ledger/internal/model"
	"library-ledger/internal/service"
	"library-ledger/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword          = service.HashPassword
	createBorrower        = store.CreateBorrower
	getBorrowerByID       = store.GetBorrowerByID
	listBorrowers         = store.ListBorrowers
	updateBorrowerProfile = store.UpdateBorrowerProfile
	updatePassword        = store.UpdateBorrowerPassword
	authenticateBorrower  = service.AuthenticateBorrower
)

// @Summary     List borrowers
// @Description 列出借閱者，可用 role 篩選（僅限館員）
// @Tags        borrowers
// @Produce     json
// @Param       role query    string false "librarian, student 或 user"
// @Success     200  {array}  api.BorrowerResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrowers [get]
func ListBorrowersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		role := model.Role(c.QueryParam("role"))
		if role != "" && !role.Valid() {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid role"})
		}

		list, err := listBorrowers(c.Request().Context(), db, role)
		if err != nil {
			return handler.RespondError(c, err)
		}
		resp := make([]api.BorrowerResponse, 0, len(list))
		for _, b := range list {
			resp = append(resp, api.NewBorrowerResponse(b))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Add a borrower
// @Description 館員新增任意角色的借閱者帳號
// @Tags        borrowers
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.CreateBorrowerRequest true "借閱者資料"
// @Success     201  {object} api.BorrowerResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse "帳號已存在"
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrowers [post]
func CreateBorrowerHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateBorrowerRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		role := model.Role(req.Role)
		if !role.Valid() {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid role"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}

		b, err := createBorrower(c.Request().Context(), db, &model.Borrower{
			Name:         req.Name,
			Username:     req.Username,
			PasswordHash: hash,
			Role:         role,
			Course:       req.Course,
			YearLevel:    req.YearLevel,
		})
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusCreated, api.NewBorrowerResponse(*b))
	}
}

// @Summary     Get a borrower by ID
// @Tags        borrowers
// @Produce     json
// @Param       id  path     int true "借閱者 ID"
// @Success     200 {object} api.BorrowerResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrowers/{id} [get]
func GetBorrowerHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid borrower ID"})
		}
		b, err := getBorrowerByID(c.Request().Context(), db, id)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewBorrowerResponse(*b))
	}
}
