package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-ledger/internal/cache"
	"library-ledger/internal/database"
	"library-ledger/internal/handler"
	"library-ledger/internal/handler/auth"
	"library-ledger/internal/handler/books"
	"library-ledger/internal/handler/borrowers"
	"library-ledger/internal/handler/loans"
	"library-ledger/internal/handler/reports"
	"library-ledger/internal/middleware"
)

// Ledger 由 *ledger.Ledger 實作
type Ledger interface {
	loans.Ledger
	books.Remover
}

// invalidateAfter 在成功的寫入請求後呼叫 fn
func invalidateAfter(fn func()) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil && fn != nil && c.Response().Status < http.StatusMultipleChoices {
				fn()
			}
			return err
		}
	}
}

// Setup 註冊所有路由與中介層。invalidate 會在新增書籍或借閱者後被呼叫，
// 借還書的快取失效則由 ledger 自行處理
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, l Ledger, invalidate func()) {
	api := e.Group("/api")
	changed := invalidateAfter(invalidate)

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(db, rdb), middleware.RequireAuth)

	// 註冊與登入
	api.POST("/auth/register", auth.RegisterHandler(db), changed)
	api.POST("/auth/login", auth.LoginHandler(db))

	// 書籍：登入可查詢，館員可新增與下架
	api.GET("/books", books.ListBooksHandler(db), middleware.RequireAuth)
	api.GET("/books/:id", books.GetBookHandler(db), middleware.RequireAuth)
	api.POST("/books", books.CreateBookHandler(db), middleware.RequireLibrarian, changed)
	api.DELETE("/books/:id", books.DeleteBookHandler(l), middleware.RequireLibrarian)

	// 個人資料
	api.GET("/borrowers/me", borrowers.GetMeHandler(db), middleware.RequireAuth)
	api.PUT("/borrowers/me", borrowers.UpdateMeHandler(db), middleware.RequireAuth)
	api.PUT("/borrowers/me/password", borrowers.UpdateMyPasswordHandler(db), middleware.RequireAuth)

	// 館員管理借閱者
	api.GET("/borrowers", borrowers.ListBorrowersHandler(db), middleware.RequireLibrarian)
	api.POST("/borrowers", borrowers.CreateBorrowerHandler(db), middleware.RequireLibrarian, changed)
	api.GET("/borrowers/:id", borrowers.GetBorrowerHandler(db), middleware.RequireLibrarian)

	// 借閱
	api.POST("/loans", loans.BorrowHandler(l), middleware.RequireAuth)
	api.GET("/loans/me", loans.MyLoansHandler(db), middleware.RequireAuth)
	api.POST("/loans/:id/return", loans.ReturnHandler(l), middleware.RequireAuth)
	api.GET("/loans", loans.ListLoansHandler(db), middleware.RequireLibrarian)
	api.DELETE("/loans/:id", loans.DeleteLoanHandler(l), middleware.RequireLibrarian)

	// 報表（館員）
	api.GET("/dashboard", reports.DashboardHandler(db, rdb), middleware.RequireLibrarian)
	api.GET("/reports/loans.csv", reports.LoansCSVHandler(db), middleware.RequireLibrarian)
}
