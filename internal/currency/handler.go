package currency

import (
	"net/http"

	"github.com/adeharia/finance-tracker/internal/transport"

	"github.com/shopspring/decimal"
)

type Handler struct {
	*transport.BaseHandler
}

func NewHandler(baseHandler *transport.BaseHandler) *Handler {
	return &Handler{BaseHandler: baseHandler}
}

// ListCurrencies handles GET /currencies
func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"currencies": Supported()})
}

// ConvertAmount handles GET /currencies/convert?amount=&from=&to=
func (h *Handler) ConvertAmount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		h.WriteError(w, http.StatusBadRequest, "from and to currencies are required")
		return
	}

	converted, convErr := Convert(amount, from, to)
	if convErr != nil {
		h.HandleServiceError(w, convErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted,
	})
}

// GetExchangeRate handles GET /currencies/rate?from=&to=
func (h *Handler) GetExchangeRate(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		h.WriteError(w, http.StatusBadRequest, "from and to currencies are required")
		return
	}

	rate, err := GetRate(from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"from": from,
		"to":   to,
		"rate": rate,
	})
}
