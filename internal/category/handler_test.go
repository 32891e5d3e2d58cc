package category_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/adeharia/finance-tracker/internal/auth"
	"github.com/adeharia/finance-tracker/internal/category"
	categoryPostgres "github.com/adeharia/finance-tracker/internal/category/postgres"
	"github.com/adeharia/finance-tracker/internal/transport"

	"github.com/shopspring/decimal"
)

// sqliteCategory mirrors the production model for the in-memory database.
type sqliteCategory struct {
	ID          int64            `gorm:"primaryKey"`
	UserID      int64            `gorm:"column:user_id;not null"`
	Name        string           `gorm:"column:name;not null"`
	BudgetLimit *decimal.Decimal `gorm:"column:budget_limit"`
	CreatedAt   time.Time        `gorm:"column:created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at"`
}

func (sqliteCategory) TableName() string {
	return "categories"
}

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *category.Handler
	)

	currentUser := &auth.User{ID: 1, Email: "user@mail.com"}

	authedRequest := func(method, target string, body string) *http.Request {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		return req.WithContext(auth.ContextWithUser(req.Context(), currentUser))
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&sqliteCategory{})
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo := categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, logger)
		handler = category.NewHandler(transport.NewBaseHandler(logger), service)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("should create a category and return it", func() {
		req := authedRequest(http.MethodPost, "/categories", `{"name":"Groceries","budget_limit":"500"}`)
		w := httptest.NewRecorder()

		handler.CreateCategory(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var created category.Category
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))
		Expect(created.Name).To(Equal("Groceries"))
		Expect(created.BudgetLimit).NotTo(BeNil())
	})

	It("should reject a duplicate name with a conflict", func() {
		first := authedRequest(http.MethodPost, "/categories", `{"name":"Groceries"}`)
		handler.CreateCategory(httptest.NewRecorder(), first)

		dup := authedRequest(http.MethodPost, "/categories", `{"name":"groceries"}`)
		w := httptest.NewRecorder()
		handler.CreateCategory(w, dup)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should reject an invalid body", func() {
		req := authedRequest(http.MethodPost, "/categories", `{not json`)
		w := httptest.NewRecorder()

		handler.CreateCategory(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject an unauthenticated request", func() {
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		w := httptest.NewRecorder()

		handler.ListCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should list only the caller's categories", func() {
		handler.CreateCategory(httptest.NewRecorder(),
			authedRequest(http.MethodPost, "/categories", `{"name":"Transport"}`))
		handler.CreateCategory(httptest.NewRecorder(),
			authedRequest(http.MethodPost, "/categories", `{"name":"Groceries"}`))

		req := authedRequest(http.MethodGet, "/categories", "")
		w := httptest.NewRecorder()
		handler.ListCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response struct {
			Categories []*category.Category `json:"categories"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Categories).To(HaveLen(2))

		names := make([]string, len(response.Categories))
		for i, cat := range response.Categories {
			names[i] = cat.Name
		}
		Expect(names).To(ConsistOf("Groceries", "Transport"))
	})

	It("should return 404 for a category the caller does not own", func() {
		ctx := chi.NewRouteContext()
		ctx.URLParams.Add("id", "999")
		req := authedRequest(http.MethodGet, "/categories/999", "")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
		w := httptest.NewRecorder()

		handler.GetCategory(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
