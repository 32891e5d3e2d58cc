package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/adeharia/finance-tracker/internal/auth"
	"github.com/adeharia/finance-tracker/internal/budget"
	"github.com/adeharia/finance-tracker/internal/category"
	"github.com/adeharia/finance-tracker/internal/currency"
	"github.com/adeharia/finance-tracker/internal/expense"
	"github.com/adeharia/finance-tracker/internal/export"
	"github.com/adeharia/finance-tracker/internal/recurring"
	"github.com/adeharia/finance-tracker/internal/report"
	"github.com/adeharia/finance-tracker/internal/statistics"
	"github.com/adeharia/finance-tracker/internal/transport/middleware"
	"github.com/adeharia/finance-tracker/internal/transport/swagger"
	"github.com/adeharia/finance-tracker/internal/user"

	"github.com/go-chi/chi"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Expense    *expense.Handler
	Category   *category.Handler
	Budget     *budget.Handler
	Recurring  *recurring.Handler
	Report     *report.Handler
	Statistics *statistics.Handler
	Export     *export.Handler
	Currency   *currency.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Recovery(logger))

	// OpenAPI spec and swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/register", h.Auth.Register)
		})

		// Currency lookups need no account context
		r.Route("/currencies", func(cr chi.Router) {
			cr.Get("/", h.Currency.ListCurrencies)
			cr.Get("/convert", h.Currency.ConvertAmount)
			cr.Get("/rate", h.Currency.GetExchangeRate)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)

			pr.Route("/expenses", func(er chi.Router) {
				er.Post("/", h.Expense.CreateExpense)
				er.Get("/", h.Expense.ListExpenses)
				er.Get("/total", h.Expense.GetTotal)
				er.Get("/{id}", h.Expense.GetExpense)
				er.Put("/{id}", h.Expense.UpdateExpense)
				er.Delete("/{id}", h.Expense.DeleteExpense)
			})

			pr.Route("/categories", func(cr chi.Router) {
				cr.Post("/", h.Category.CreateCategory)
				cr.Get("/", h.Category.ListCategories)
				cr.Get("/{id}", h.Category.GetCategory)
				cr.Put("/{id}", h.Category.UpdateCategory)
				cr.Delete("/{id}", h.Category.DeleteCategory)
			})

			pr.Route("/budgets", func(br chi.Router) {
				br.Post("/", h.Budget.CreateBudget)
				br.Get("/", h.Budget.ListBudgets)
				br.Get("/alerts", h.Budget.GetAlerts)
				br.Get("/{id}", h.Budget.GetBudget)
				br.Get("/{id}/status", h.Budget.GetBudgetStatus)
				br.Delete("/{id}", h.Budget.DeleteBudget)
			})

			pr.Route("/recurring-expenses", func(rr chi.Router) {
				rr.Post("/", h.Recurring.CreateRecurringExpense)
				rr.Get("/", h.Recurring.ListRecurringExpenses)
				rr.Post("/generate", h.Recurring.GenerateExpenses)
				rr.Get("/due", h.Recurring.GetExpensesDue)
				rr.Get("/{id}", h.Recurring.GetRecurringExpense)
				rr.Put("/{id}", h.Recurring.UpdateRecurringExpense)
				rr.Delete("/{id}", h.Recurring.DeleteRecurringExpense)
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.Get("/monthly", h.Report.GetMonthlyReport)
				rr.Get("/yearly", h.Report.GetYearlyReport)
				rr.Get("/category/{id}", h.Report.GetCategoryReport)
			})

			pr.Get("/statistics", h.Statistics.GetStatistics)

			pr.Route("/export", func(xr chi.Router) {
				xr.Get("/csv", h.Export.ExportCSV)
				xr.Get("/json", h.Export.ExportJSON)
			})
		})
	})
}
