package reports

import (
	"net/http"
	"time"

	"library-ledger/internal/cache"
	"library-ledger/internal/database"
	"library-ledger/internal/handler"
	"library-ledger/internal/model"
	"library-ledger/internal/store"

	"github.com/labstack/echo/v4"
)

const (
	DashboardTTL = 30 * time.Second

	headerCache = "X-Cache"
)

var (
	getDashboardStats = store.GetDashboardStats
	listLoans         = store.ListLoans
)

// @Summary     Dashboard counts
// @Description 借閱者、書籍、全部紀錄與未歸還紀錄數量；結果在 Redis 快取 30 秒（僅限館員）
// @Tags        reports
// @Produce     json
// @Success     200 {object} model.DashboardStats
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /dashboard [get]
func DashboardHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var stats model.DashboardStats
		hit, err := cache.GetJSON(ctx, cch, cache.DashboardStatsKey, &stats)
		if err != nil {
			// 快取失效時直接查資料庫
			c.Logger().Warn(err)
		}
		if hit {
			c.Response().Header().Set(headerCache, "HIT")
			return c.JSON(http.StatusOK, stats)
		}

		s, err := getDashboardStats(ctx, db)
		if err != nil {
			return handler.RespondError(c, err)
		}
		if err := cache.SetJSON(ctx, cch, cache.DashboardStatsKey, s, DashboardTTL); err != nil {
			c.Logger().Warn(err)
		}
		c.Response().Header().Set(headerCache, "MISS")
		return c.JSON(http.StatusOK, s)
	}
}
