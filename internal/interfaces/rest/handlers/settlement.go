package handlers

import (
	"net/http"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/interfaces/rest"
)

// PaymentCallback is the provider's server-to-server webhook for a payment.
// The provider never consumes a response body, so the answer is an empty
// acknowledgement regardless of the settlement result.
func (h *Handlers) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	rt, ok := h.accounts.Lookup(r.PathValue("clientID"))
	if !ok {
		rest.WriteNotFound(w)
		return
	}

	rt.Settlement.Notify(r.Context(), r.PathValue("orderID"))

	w.WriteHeader(http.StatusNoContent)
}

// PaymentRedirect lands the customer's browser after payment approval. It
// waits for the webhook's verdict with a bounded timeout and redirects to
// the store's success or error page accordingly.
func (h *Handlers) PaymentRedirect(w http.ResponseWriter, r *http.Request) {
	rt, ok := h.accounts.Lookup(r.PathValue("clientID"))
	if !ok {
		rest.WriteNotFound(w)
		return
	}

	confirmed := rt.Settlement.AwaitResult(r.Context(), r.PathValue("orderID"))

	target := rt.Store.Account.Domain + "/checkout/error"
	if confirmed {
		target = rt.Store.Account.Domain + "/checkout/complete"
	}
	http.Redirect(w, r, target, http.StatusFound)
}
