package statistics

import (
	"net/http"
	"time"

	"github.com/adeharia/finance-tracker/internal/auth"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	GetStatistics(userID int64, start, end *time.Time) (*Statistics, error)
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

// GetStatistics handles GET /statistics?start_date=&end_date=
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
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

	stats, err := h.Service.GetStatistics(user.ID, start, end)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}
