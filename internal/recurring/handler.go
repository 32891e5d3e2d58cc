package recurring

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/adeharia/finance-tracker/internal/auth"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateRecurringExpense(userID int64, dto CreateRecurringExpenseDTO) (*RecurringExpense, error)
	UpdateRecurringExpense(id, userID int64, dto UpdateRecurringExpenseDTO) (*RecurringExpense, error)
	DeleteRecurringExpense(id, userID int64) error
	GetRecurringExpense(id, userID int64) (*RecurringExpense, error)
	ListRecurringExpenses(userID int64) ([]*RecurringExpense, error)
	GetExpensesDue(userID int64, date time.Time) ([]*RecurringExpense, error)
}

type GeneratorAPI interface {
	Generate(ctx context.Context, userID int64, upTo *time.Time) (*GenerationResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Generator GeneratorAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, generator GeneratorAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Generator:   generator,
	}
}

func (h *Handler) CreateRecurringExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRecurringExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateRecurringExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.CreateRecurringExpense(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) ListRecurringExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	recs, err := h.Service.ListRecurringExpenses(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"recurring_expenses": recs})
}

func (h *Handler) GetRecurringExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid recurring expense ID")
		return
	}

	rec, err := h.Service.GetRecurringExpense(id, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) UpdateRecurringExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid recurring expense ID")
		return
	}

	var dto UpdateRecurringExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateRecurringExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.UpdateRecurringExpense(id, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) DeleteRecurringExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid recurring expense ID")
		return
	}

	if err := h.Service.DeleteRecurringExpense(id, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GenerateExpenses materializes due occurrences for the caller, up to an
// optional target date (defaults to today).
func (h *Handler) GenerateExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto GenerateRequestDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Error("GenerateExpenses: invalid request body", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var upTo *time.Time
	if dto.UpToDate != nil {
		t := dto.UpToDate.Time
		upTo = &t
	}

	result, err := h.Generator.Generate(r.Context(), user.ID, upTo)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetExpensesDue(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date := dates.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := dates.Parse(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		date = parsed
	}

	due, err := h.Service.GetExpensesDue(user.ID, date)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"due": due})
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
