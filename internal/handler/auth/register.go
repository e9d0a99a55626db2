package auth

import (
	"errors"
	"net/http"

	"library-ledger/internal/api"
	"library-ledger/internal/database"
	"library-ledger/internal/model"
	"library-ledger/internal/store"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 自行註冊借閱者帳號，無法註冊為館員
// @Summary     註冊
// @Description 建立 student 或 user 帳號；role 省略時為 student
// @Tags        auth
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.BorrowerResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse "帳號已存在"
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		role := model.Role(req.Role)
		if role == "" {
			role = model.RoleStudent
		}
		if role == model.RoleLibrarian || !role.Valid() {
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
			if errors.Is(err, store.ErrDuplicateUsername) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: err.Error()})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
		}

		return c.JSON(http.StatusCreated, api.NewBorrowerResponse(*b))
	}
}
