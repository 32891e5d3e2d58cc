package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/adeharia/finance-tracker/internal/auth"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/transport"

	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GenerateMonthlyReport(userID int64, year int, month time.Month) (*MonthlyReport, error)
	GenerateYearlyReport(userID int64, year int) (*YearlyReport, error)
	GenerateCategoryReport(userID, categoryID int64, start, end *time.Time) (*CategoryReport, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetMonthlyReport handles GET /reports/monthly?year=&month=
func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		h.WriteError(w, http.StatusBadRequest, "invalid month")
		return
	}

	rep, svcErr := h.Service.GenerateMonthlyReport(user.ID, year, time.Month(month))
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}

// GetYearlyReport handles GET /reports/yearly?year=
func (h *Handler) GetYearlyReport(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	rep, svcErr := h.Service.GenerateYearlyReport(user.ID, year)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}

// GetCategoryReport handles GET /reports/category/{id}?start_date=&end_date=
func (h *Handler) GetCategoryReport(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var start, end *time.Time
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		d, err := dates.Parse(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid start_date, want YYYY-MM-DD")
			return
		}
		start = &d
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		d, err := dates.Parse(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid end_date, want YYYY-MM-DD")
			return
		}
		end = &d
	}

	rep, svcErr := h.Service.GenerateCategoryReport(user.ID, categoryID, start, end)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}
