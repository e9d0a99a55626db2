package borrowers

import (
	"net/http"

	"library-ledger/internal/api"
	"library-ledger/internal/database"
	"library-ledger/internal/handler"
	"library-ledger/internal/middleware"

	"github.com/labstack/echo/v4"
)

// @Summary     Get my profile
// @Tags        borrowers
// @Produce     json
// @Success     200 {object} api.BorrowerResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrowers/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "unauthorized"})
		}
		b, err := getBorrowerByID(c.Request().Context(), db, actor.BorrowerID)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewBorrowerResponse(*b))
	}
}

// @Summary     Update my profile
// @Description 更新姓名、科系與年級；帳號與角色不可修改
// @Tags        borrowers
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.UpdateProfileRequest true "個人資料"
// @Success     200  {object} api.BorrowerResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrowers/me [put]
func UpdateMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "unauthorized"})
		}

		var req api.UpdateProfileRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		b, err := getBorrowerByID(ctx, db, actor.BorrowerID)
		if err != nil {
			return handler.RespondError(c, err)
		}
		b.Name = req.Name
		b.Course = req.Course
		b.YearLevel = req.YearLevel
		if err := updateBorrowerProfile(ctx, db, b); err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewBorrowerResponse(*b))
	}
}

// UpdateMyPasswordHandler 驗證舊密碼後更新為新密碼
// @Summary     Change my password
// @Tags        borrowers
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.UpdatePasswordRequest true "舊密碼與新密碼"
// @Success     204  "No Content"
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrowers/me/password [put]
func UpdateMyPasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "unauthorized"})
		}

		var req api.UpdatePasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		b, err := getBorrowerByID(ctx, db, actor.BorrowerID)
		if err != nil {
			return handler.RespondError(c, err)
		}
		if _, err := authenticateBorrower(b, req.OldPassword); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid current password"})
		}

		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			return handler.RespondError(c, err)
		}
		if err := updatePassword(ctx, db, b.ID, hash); err != nil {
			return handler.RespondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
