package budget

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adeharia/finance-tracker/internal/auth"
	"github.com/adeharia/finance-tracker/internal/transport"

	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateBudget(userID int64, dto CreateBudgetDTO) (*Budget, error)
	ListBudgets(userID int64) ([]*Budget, error)
	GetBudget(id, userID int64) (*Budget, error)
	DeleteBudget(id, userID int64) error
	CheckBudgetStatus(id, userID int64) (*Status, error)
	GetBudgetsExceeding(userID int64) ([]*Status, error)
	GetBudgetsNearLimit(userID int64, threshold int) ([]*Status, error)
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

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateBudget: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.CreateBudget(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	budgets, err := h.Service.ListBudgets(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"budgets": budgets})
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid budget ID")
		return
	}

	b, svcErr := h.Service.GetBudget(id, user.ID)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid budget ID")
		return
	}

	if err := h.Service.DeleteBudget(id, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetBudgetStatus reports spending against one budget.
func (h *Handler) GetBudgetStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid budget ID")
		return
	}

	status, svcErr := h.Service.CheckBudgetStatus(id, user.ID)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, status)
}

// GetAlerts returns exceeded and near-limit budgets in one payload. The
// optional ?threshold= query overrides the near-limit percentage.
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	threshold := 0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			h.WriteError(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = n
	}

	exceeded, err := h.Service.GetBudgetsExceeding(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	nearLimit, err := h.Service.GetBudgetsNearLimit(user.ID, threshold)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exceeded":   exceeded,
		"near_limit": nearLimit,
	})
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
