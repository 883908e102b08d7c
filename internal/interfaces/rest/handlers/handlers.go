package handlers

import (
	"log/slog"
	"net/http"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/account"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/interfaces/rest"
)

// Handlers exposes the gateway's three-route surface: payment initiation
// for the store checkout page, the provider's webhook callback, and the
// customer's browser redirect.
type Handlers struct {
	accounts   *account.Registry
	robotsPath string
	logger     *slog.Logger
}

func New(accounts *account.Registry, robotsPath string, logger *slog.Logger) *Handlers {
	return &Handlers{
		accounts:   accounts,
		robotsPath: robotsPath,
		logger:     logger,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /payments", h.InitiatePayment)
	mux.HandleFunc("POST /{clientID}/v2/payments/{orderID}", h.PaymentCallback)
	mux.HandleFunc("GET /{clientID}/{orderID}/redirect", h.PaymentRedirect)
	mux.HandleFunc("GET /robots.txt", h.Robots)
	mux.HandleFunc("/", h.NotFound)
}

func (h *Handlers) Robots(w http.ResponseWriter, r *http.Request) {
	if h.robotsPath == "" {
		rest.WriteNotFound(w)
		return
	}
	http.ServeFile(w, r, h.robotsPath)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	rest.WriteNotFound(w)
}
