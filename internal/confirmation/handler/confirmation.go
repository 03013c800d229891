package handler

import (
	"net/http"

	"glowbook/internal/confirmation/service"
	apperrors "glowbook/pkg/errors"
	httputil "glowbook/pkg/http"
	"glowbook/pkg/logger"
	"glowbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type ConfirmationHandler struct {
	service     service.ConfirmationService
	fallbackURL string
	log         *logger.Logger
}

func NewConfirmationHandler(svc service.ConfirmationService, fallbackURL string, log *logger.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{
		service:     svc,
		fallbackURL: fallbackURL,
		log:         log,
	}
}

// Get renders the confirmation for a completed checkout. A request without a
// usable session, typically a direct navigation or a stale bookmark, is sent
// to the fallback URL instead of an error page.
func (h *ConfirmationHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	customerID := middleware.CustomerIDFrom(r.Context())

	conf, err := h.service.Build(ps.ByName("sessionID"), customerID)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeMissingContext {
			h.log.Info("Confirmation without context, redirecting",
				"request_id", middleware.RequestIDFrom(r.Context()),
				"session_id", ps.ByName("sessionID"),
			)
			http.Redirect(w, r, h.fallbackURL, http.StatusSeeOther)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, conf)
}

func (h *ConfirmationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/confirmation/:sessionID", h.Get)
}
