package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/persistence"
)

type settingsService interface {
	Get(ctx context.Context) (persistence.BoardSettings, error)
	Update(ctx context.Context, update application.SettingsUpdate) (persistence.BoardSettings, error)
	RotateToken(ctx context.Context) (persistence.BoardSettings, error)
}

// SettingsHandler serves the administrator board configuration surface.
type SettingsHandler struct {
	service   settingsService
	responder responder
	logger    *slog.Logger
}

// NewSettingsHandler constructs the settings handler.
func NewSettingsHandler(service settingsService, logger *slog.Logger) *SettingsHandler {
	base := defaultLogger(logger)
	return &SettingsHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SettingsHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SettingsHandler", operation, attrs...)
}

// Get returns the current board configuration.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	settings, err := h.service.Get(r.Context())
	if err != nil {
		h.log(r.Context(), "Get").ErrorContext(r.Context(), "failed to load settings", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSettingsDTO(settings))
}

type settingsUpdateRequest struct {
	TimeZone         *string `json:"timeZone"`
	BookingDurations []int   `json:"bookingDurations"`
	ExtendIncrements []int   `json:"extendIncrements"`
}

// Update applies a partial configuration change.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req settingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update")
	settings, err := h.service.Update(r.Context(), application.SettingsUpdate{
		TimeZone:         req.TimeZone,
		BookingDurations: req.BookingDurations,
		ExtendIncrements: req.ExtendIncrements,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "settings update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "settings updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSettingsDTO(settings))
}

// RotateToken mints a new public board token, invalidating shared links.
func (h *SettingsHandler) RotateToken(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "RotateToken")
	settings, err := h.service.RotateToken(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "token rotation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "board token rotated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSettingsDTO(settings))
}
