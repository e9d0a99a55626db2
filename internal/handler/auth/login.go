package auth

import (
	"errors"
	"net/http"

	"library-ledger/internal/api"
	"library-ledger/internal/database"
	"library-ledger/internal/service"
	"library-ledger/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getBorrowerByUsername = store.GetBorrowerByUsername
	createBorrower        = store.CreateBorrower
	authenticateBorrower  = service.AuthenticateBorrower
	issueAccessToken      = service.IssueAccessToken
	hashPassword          = service.HashPassword
)

// LoginHandler 使用 Username/Password 驗證並回傳 JWT
// @Summary     登入
// @Description 使用帳號與密碼進行驗證，回傳存取令牌與到期秒數
// @Tags        auth
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.LoginRequest true "帳號密碼"
// @Success     200  {object} api.LoginResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		b, err := getBorrowerByUsername(c.Request().Context(), db, req.Username)
		if err != nil {
			if errors.Is(err, store.ErrNoRows) {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
		}

		authed, err := authenticateBorrower(b, req.Password)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		token, err := issueAccessToken(*authed, service.AccessTokenTTL)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.LoginResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int(service.AccessTokenTTL.Seconds()),
			Borrower:    api.NewBorrowerResponse(*authed),
		})
	}
}
