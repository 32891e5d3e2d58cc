package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/auth"
	"github.com/adeharia/finance-tracker/internal/budget"
	budgetPostgres "github.com/adeharia/finance-tracker/internal/budget/postgres"
	"github.com/adeharia/finance-tracker/internal/category"
	categoryPostgres "github.com/adeharia/finance-tracker/internal/category/postgres"
	"github.com/adeharia/finance-tracker/internal/core/events"
	"github.com/adeharia/finance-tracker/internal/currency"
	"github.com/adeharia/finance-tracker/internal/expense"
	expensePostgres "github.com/adeharia/finance-tracker/internal/expense/postgres"
	"github.com/adeharia/finance-tracker/internal/export"
	"github.com/adeharia/finance-tracker/internal/recurring"
	recurringPostgres "github.com/adeharia/finance-tracker/internal/recurring/postgres"
	"github.com/adeharia/finance-tracker/internal/report"
	"github.com/adeharia/finance-tracker/internal/statistics"
	"github.com/adeharia/finance-tracker/internal/transport"
	"github.com/adeharia/finance-tracker/internal/transport/rest"
	"github.com/adeharia/finance-tracker/internal/transport/swagger"
	"github.com/adeharia/finance-tracker/internal/user"
	userPostgres "github.com/adeharia/finance-tracker/internal/user/postgres"
	"github.com/adeharia/finance-tracker/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		deps.Logger.Warn("openapi spec validation failed; swagger docs may be broken", "error", err)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)
	bus := events.NewEventBus(lg)

	userRepo := userPostgres.NewUserRepository(deps.Gorm)
	expenseRepo := expensePostgres.NewExpenseRepository(deps.Gorm)
	categoryRepo := categoryPostgres.NewCategoryRepository(deps.Gorm)
	budgetRepo := budgetPostgres.NewBudgetRepository(deps.Gorm)
	recurringRepo := recurringPostgres.NewRecurringRepository(deps.Gorm)

	tokenGen := auth.NewJWTTokenGenerator(deps.Config.Security.JWTSecret, deps.Config.Security.AccessTokenDuration)
	authSvc := auth.NewService(userRepo, tokenGen, deps.Config.Security.BCryptCost)
	userSvc := user.NewService(userRepo)
	expenseSvc := expense.NewService(expenseRepo, bus, lg)
	categorySvc := category.NewService(categoryRepo, lg)
	budgetSvc := budget.NewService(budgetRepo, expenseRepo, bus, lg)
	recurringSvc := recurring.NewService(recurringRepo, lg)
	generator := recurring.NewGenerator(recurringRepo, expenseRepo, bus, lg)
	reportSvc := report.NewService(expenseRepo, categoryRepo, lg)
	statsSvc := statistics.NewService(expenseRepo, categoryRepo, lg)
	exportSvc := export.NewService(expenseRepo, lg)

	registerEventHandlers(bus, budgetSvc, lg)

	handlers := rest.Handlers{
		Auth:       auth.NewHandler(base, authSvc),
		User:       user.NewHandler(base, userSvc),
		Expense:    expense.NewHandler(base, expenseSvc),
		Category:   category.NewHandler(base, categorySvc),
		Budget:     budget.NewHandler(base, budgetSvc),
		Recurring:  recurring.NewHandler(base, recurringSvc, generator),
		Report:     report.NewHandler(base, reportSvc),
		Statistics: statistics.NewHandler(base, statsSvc),
		Export:     export.NewHandler(base, exportSvc),
		Currency:   currency.NewHandler(base),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, lg)
}

func registerEventHandlers(bus *events.EventBus, budgetSvc *budget.Service, lg *slog.Logger) {
	bus.Subscribe(events.EventTypeExpenseCreated, budgetSvc.HandleExpenseCreated)

	bus.Subscribe(events.EventTypeBudgetExceeded, func(ctx context.Context, event events.Event) error {
		lg.Warn("budget exceeded alert", "payload", event.Payload())
		return nil
	})

	bus.Subscribe(events.EventTypeExpensesGenerated, func(ctx context.Context, event events.Event) error {
		lg.Info("recurring expenses generated", "payload", event.Payload())
		return nil
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-open pgx connection so both share
// one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
}
