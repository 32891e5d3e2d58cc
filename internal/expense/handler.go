package expense

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/adeharia/finance-tracker/internal/auth"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/transport"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, userID int64, dto CreateExpenseDTO) (*Expense, error)
	GetExpense(id, userID int64) (*Expense, error)
	ListExpenses(userID int64, filters ExpenseFilters) ([]*Expense, error)
	UpdateExpense(id, userID int64, dto UpdateExpenseDTO) (*Expense, error)
	DeleteExpense(id, userID int64) error
	CalculateTotal(userID int64, filters ExpenseFilters) (decimal.Decimal, error)
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.CreateExpense(r.Context(), user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, exp)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters, err := ParseFilters(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	exps, svcErr := h.Service.ListExpenses(user.ID, filters)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": exps,
		"count":    len(exps),
	})
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	exp, svcErr := h.Service.GetExpense(id, user.ID)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	var dto UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, svcErr := h.Service.UpdateExpense(id, user.ID, dto)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	if err := h.Service.DeleteExpense(id, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetTotal sums the amounts of the caller's expenses matching the query
// filters.
func (h *Handler) GetTotal(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters, err := ParseFilters(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	total, svcErr := h.Service.CalculateTotal(user.ID, filters)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"total": total})
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

type filterParseError struct{ msg string }

func (e filterParseError) Error() string { return e.msg }

// ParseFilters reads list/total/export query parameters into ExpenseFilters.
func ParseFilters(r *http.Request) (ExpenseFilters, error) {
	q := r.URL.Query()
	var f ExpenseFilters

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, filterParseError{"invalid category_id"}
		}
		f.CategoryID = &id
	}

	if raw := q.Get("start_date"); raw != "" {
		d, err := dates.Parse(raw)
		if err != nil {
			return f, filterParseError{"invalid start_date, want YYYY-MM-DD"}
		}
		f.StartDate = &d
	}

	if raw := q.Get("end_date"); raw != "" {
		d, err := dates.Parse(raw)
		if err != nil {
			return f, filterParseError{"invalid end_date, want YYYY-MM-DD"}
		}
		f.EndDate = &d
	}

	f.Search = q.Get("search")

	if raw := q.Get("min_amount"); raw != "" {
		amt, err := decimal.NewFromString(raw)
		if err != nil {
			return f, filterParseError{"invalid min_amount"}
		}
		f.MinAmount = &amt
	}

	if raw := q.Get("max_amount"); raw != "" {
		amt, err := decimal.NewFromString(raw)
		if err != nil {
			return f, filterParseError{"invalid max_amount"}
		}
		f.MaxAmount = &amt
	}

	if raw := q.Get("tags"); raw != "" {
		f.Tags = NormalizeTags(strings.Split(raw, ","))
	}

	f.SortBy = q.Get("sort_by")
	f.SortOrder = q.Get("sort_order")

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, filterParseError{"invalid limit"}
		}
		f.Limit = n
	}

	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, filterParseError{"invalid offset"}
		}
		f.Offset = n
	}

	return f, nil
}
