package handler

import (
	"encoding/json"
	"net/http"

	"glowbook/internal/cart/service"
	apperrors "glowbook/pkg/errors"
	httputil "glowbook/pkg/http"
	"glowbook/pkg/logger"
	"glowbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type CartHandler struct {
	service service.CartService
	log     *logger.Logger
}

func NewCartHandler(service service.CartService, log *logger.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log,
	}
}

type addItemRequest struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customerID := middleware.CustomerIDFrom(r.Context())

	cart, err := h.service.GetCart(r.Context(), customerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, cartView(cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customerID := middleware.CustomerIDFrom(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	cart, err := h.service.AddItem(r.Context(), customerID, req.ServiceID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, cartView(cart))
}

func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	customerID := middleware.CustomerIDFrom(r.Context())

	cart, err := h.service.IncrementQuantity(r.Context(), customerID, ps.ByName("itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, cartView(cart))
}

func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	customerID := middleware.CustomerIDFrom(r.Context())

	cart, err := h.service.DecrementQuantity(r.Context(), customerID, ps.ByName("itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, cartView(cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	customerID := middleware.CustomerIDFrom(r.Context())

	cart, err := h.service.RemoveItem(r.Context(), customerID, ps.ByName("itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, cartView(cart))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customerID := middleware.CustomerIDFrom(r.Context())

	if err := h.service.Clear(r.Context(), customerID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CartHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/cart", h.Get)
	router.POST("/api/v1/cart/items", h.AddItem)
	router.POST("/api/v1/cart/items/:itemID/increment", h.Increment)
	router.POST("/api/v1/cart/items/:itemID/decrement", h.Decrement)
	router.DELETE("/api/v1/cart/items/:itemID", h.RemoveItem)
	router.DELETE("/api/v1/cart", h.Clear)
}
