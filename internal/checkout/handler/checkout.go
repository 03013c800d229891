package handler

import (
	"encoding/json"
	"net/http"

	"glowbook/internal/checkout/service"
	"glowbook/pkg/client"
	apperrors "glowbook/pkg/errors"
	httputil "glowbook/pkg/http"
	"glowbook/pkg/logger"
	"glowbook/pkg/middleware"
	"glowbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CheckoutHandler struct {
	service service.CheckoutService
	log     *logger.Logger
}

func NewCheckoutHandler(service service.CheckoutService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		log:     log,
	}
}

type beginRequest struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

type beginResponse struct {
	Session *sessionView `json:"session"`
	Order   *orderView   `json:"order"`
}

type orderView struct {
	OrderID     string `json:"order_id"`
	ProviderKey string `json:"provider_key"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customerID := middleware.CustomerIDFrom(r.Context())

	var req beginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	session, order, err := h.service.Begin(r.Context(), customerID, model.SlotSelection{
		Date:  req.Date,
		Times: req.Times,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, beginResponse{
		Session: newSessionView(session),
		Order: &orderView{
			OrderID:     order.OrderID,
			ProviderKey: order.ProviderKey,
			Amount:      order.Amount.StringFixed(2),
			Currency:    order.Currency,
		},
	})
}

func (h *CheckoutHandler) CompletePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var result client.PaymentResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	session, err := h.service.CompletePayment(r.Context(), ps.ByName("sessionID"), result)
	if err != nil {
		// The session, when present, carries the terminal state the UI
		// needs alongside the error.
		if session != nil {
			if appErr, ok := apperrors.IsAppError(err); ok {
				details := map[string]any{"session": newSessionView(session)}
				for k, v := range appErr.Details {
					details[k] = v
				}
				httputil.WriteError(w, appErr.WithDetails(details))
				return
			}
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, newSessionView(session))
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, err := h.service.Get(ps.ByName("sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if session.CustomerID != middleware.CustomerIDFrom(r.Context()) {
		httputil.WriteError(w, apperrors.NotFoundWithID("Checkout session", ps.ByName("sessionID")))
		return
	}

	httputil.WriteSuccess(w, newSessionView(session))
}

func (h *CheckoutHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/checkout", h.Begin)
	router.POST("/api/v1/checkout/:sessionID/payment", h.CompletePayment)
	router.GET("/api/v1/checkout/:sessionID", h.Get)
}
