package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"glowbook/internal/slots"
	apperrors "glowbook/pkg/errors"
	httputil "glowbook/pkg/http"
	"glowbook/pkg/logger"
	"glowbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SlotsHandler struct {
	selector *slots.Selector
	log      *logger.Logger
}

func NewSlotsHandler(selector *slots.Selector, log *logger.Logger) *SlotsHandler {
	return &SlotsHandler{
		selector: selector,
		log:      log,
	}
}

func (h *SlotsHandler) Dates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	windowDays := h.selector.WindowDays(r.Context())
	dates := h.selector.GenerateDates(windowDays)

	httputil.WriteSuccess(w, map[string]any{
		"window_days": windowDays,
		"dates":       dates,
	})
}

func (h *SlotsHandler) Times(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	httputil.WriteSuccess(w, map[string]any{
		"times": h.selector.GenerateTimeSlots(),
	})
}

type toggleRequest struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
	Value string   `json:"value"`
}

type toggleResponse struct {
	Selection    model.SlotSelection `json:"selection"`
	LimitReached bool                `json:"limit_reached"`
}

// Toggle is stateless: the client sends its current selection plus the time
// being toggled and receives the next selection back.
func (h *SlotsHandler) Toggle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	sel := model.SlotSelection{Date: req.Date, Times: req.Times}

	next, err := h.selector.ToggleTime(sel, req.Value)
	if err != nil {
		if errors.Is(err, slots.ErrSelectionLimit) {
			httputil.WriteSuccess(w, toggleResponse{Selection: next, LimitReached: true})
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, toggleResponse{Selection: next})
}

func (h *SlotsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/slots/dates", h.Dates)
	router.GET("/api/v1/slots/times", h.Times)
	router.POST("/api/v1/slots/toggle", h.Toggle)
}
