// @title        Library Ledger API
// @version      1.0
// @description  圖書借閱系統後端 API：書籍、借閱者、借還書與逾期罰金
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 格式：Bearer {token}
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"library-ledger/internal/cache"
	"library-ledger/internal/database"
	"library-ledger/internal/ledger"
	"library-ledger/internal/logger"
	"library-ledger/internal/router"
	"library-ledger/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "library-ledger/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

const shutdownTimeout = 10 * time.Second

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// serve 啟動 HTTP 服務，收到 SIGINT/SIGTERM 時優雅關閉
func serve(e *echo.Echo, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

var (
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer     = serve
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

type config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisDB       int
	RedisPassword string
	WorkerCount   int
	HTTPAddr      string
	DevMode       bool
	LogLevel      string
	Ledger        ledger.Config
}

func loadConfig() (config, error) {
	cfg := config{
		WorkerCount: 1,
		HTTPAddr:    ":8080",
		DevMode:     os.Getenv("APP_ENV") == "dev",
		LogLevel:    os.Getenv("LOG_LEVEL"),
		Ledger:      ledger.DefaultConfig(),
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" {
		return cfg, fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}

	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr == "" {
		return cfg, fmt.Errorf("環境變數 REDIS_DB 未設定")
	}
	redisIndex, err := strconv.Atoi(redisDBStr)
	if err != nil {
		return cfg, fmt.Errorf("無效的 REDIS_DB: %v", err)
	}
	cfg.RedisDB = redisIndex

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisPassword == "" {
		return cfg, fmt.Errorf("環境變數 REDIS_PASSWORD 未設定")
	}

	if v := os.Getenv("WORKER_COUNT"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil || c <= 0 {
			return cfg, fmt.Errorf("無效的 WORKER_COUNT: %q", v)
		}
		cfg.WorkerCount = c
	}

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}

	if v := os.Getenv("LOAN_DAYS"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("無效的 LOAN_DAYS: %q", v)
		}
		cfg.Ledger.LoanDays = d
	}

	if v := os.Getenv("PENALTY_PER_DAY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			return cfg, fmt.Errorf("無效的 PENALTY_PER_DAY: %q", v)
		}
		cfg.Ledger.PenaltyPerDay = p
	}

	if v := os.Getenv("LIBRARY_TZ"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return cfg, fmt.Errorf("無效的 LIBRARY_TZ: %v", err)
		}
		cfg.Ledger.Location = loc
	}

	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lg := logger.New(os.Stdout, cfg.DevMode, cfg.LogLevel)
	slog.SetDefault(lg)

	ctx := context.Background()
	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	wp := newWorkerPool(cfg.WorkerCount, lg)
	defer wp.Stop()

	invalidate := cache.NewInvalidator(rdb, wp, lg, cache.DashboardStatsKey)
	l := ledger.New(db, cfg.Ledger,
		ledger.WithLogger(lg),
		ledger.WithChangeHook(invalidate),
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Debug = cfg.DevMode
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, db, rdb, l, invalidate)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	lg.Info("starting server",
		"addr", cfg.HTTPAddr,
		"loan_days", cfg.Ledger.LoanDays,
		"penalty_per_day", cfg.Ledger.PenaltyPerDay,
		"tz", cfg.Ledger.Location.String(),
	)
	return startServer(e, cfg.HTTPAddr)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
