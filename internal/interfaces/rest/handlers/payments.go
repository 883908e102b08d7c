package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/interfaces/rest"
)

type initiatePaymentRequest struct {
	ClientID string `json:"client_id"`
	OrderID  string `json:"order_id"`
}

// InitiatePayment starts a provider payment session for a store order. The
// response body is the provider's session payload; the store checkout page
// follows its url field.
func (h *Handlers) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req initiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteBadRequest(w, "Malformed request body.")
		return
	}
	if req.ClientID == "" || req.OrderID == "" {
		rest.WriteBadRequest(w, "client_id and order_id are required.")
		return
	}

	rt, ok := h.accounts.Lookup(req.ClientID)
	if !ok {
		rest.WriteNotFound(w)
		return
	}

	session, err := rt.Initiation.Initiate(r.Context(), req.OrderID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, session)
}
