package export

import (
	"fmt"
	"net/http"

	"github.com/adeharia/finance-tracker/internal/auth"
	"github.com/adeharia/finance-tracker/internal/expense"
	"github.com/adeharia/finance-tracker/internal/transport"

	"github.com/google/uuid"
)

type ServiceAPI interface {
	ExportCSV(userID int64, filters expense.ExpenseFilters) (string, error)
	ExportJSON(userID int64, filters expense.ExpenseFilters) (string, error)
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

// ExportCSV handles GET /export/csv, accepting the same query filters as the
// expense list endpoint.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters, err := expense.ParseFilters(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	csv, svcErr := h.Service.ExportCSV(user.ID, filters)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", attachment("csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		h.Logger.Error("failed to write CSV export", "error", err)
	}
}

// ExportJSON handles GET /export/json.
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters, err := expense.ParseFilters(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, svcErr := h.Service.ExportJSON(user.ID, filters)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", attachment("json"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(data)); err != nil {
		h.Logger.Error("failed to write JSON export", "error", err)
	}
}

func attachment(ext string) string {
	return fmt.Sprintf(`attachment; filename="expenses-%s.%s"`, uuid.NewString(), ext)
}
