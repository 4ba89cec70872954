package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/persistence"
)

type adminBookingService interface {
	Create(ctx context.Context, params application.CreateBookingParams) (persistence.Booking, error)
	EndEarly(ctx context.Context, params application.EndEarlyParams) error
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

type settingsReader interface {
	Get(ctx context.Context) (persistence.BoardSettings, error)
}

// BookingHandler serves the administrator booking surface: scheduled
// bookings with an explicit start time and the manual sweep trigger.
type BookingHandler struct {
	bookings  adminBookingService
	settings  settingsReader
	responder responder
	logger    *slog.Logger
}

// NewBookingHandler constructs the admin booking handler.
func NewBookingHandler(bookings adminBookingService, settings settingsReader, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{bookings: bookings, settings: settings, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

type adminBookingRequest struct {
	RoomID          string     `json:"roomId"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"durationMinutes"`
	StartTime       *time.Time `json:"startTime"`
}

// Create books a room on behalf of an administrator, optionally at a future
// start time.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "")
}

// CreateForRoom is Create with the room fixed by the request path.
func (h *BookingHandler) CreateForRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || roomID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}
	h.create(w, r, roomID)
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request, roomID string) {
	if h == nil || h.bookings == nil || h.settings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req adminBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if roomID != "" {
		req.RoomID = roomID
	}

	settings, err := h.settings.Get(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			h.responder.writeError(r.Context(), w, http.StatusInternalServerError, errors.New("board settings missing"))
			return
		}
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", req.RoomID)
	booking, err := h.bookings.Create(r.Context(), application.CreateBookingParams{
		RoomID:           req.RoomID,
		DurationMinutes:  req.DurationMinutes,
		Title:            req.Title,
		Start:            req.StartTime,
		Source:           persistence.BookingSourceAdmin,
		AllowedDurations: settings.BookingDurations,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "admin booking failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "admin booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingDTO(booking))
}

// End terminates a booking from the admin surface.
func (h *BookingHandler) End(w http.ResponseWriter, r *http.Request, bookingID string) {
	if h == nil || h.bookings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "End", "booking_id", bookingID)
	if err := h.bookings.EndEarly(r.Context(), application.EndEarlyParams{BookingID: bookingID}); err != nil {
		logger.ErrorContext(r.Context(), "end booking failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking ended")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Expire triggers the expiration sweep on demand and reports how many rows
// it transitioned.
func (h *BookingHandler) Expire(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.bookings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	count, err := h.bookings.Sweep(r.Context(), time.Time{})
	if err != nil {
		h.log(r.Context(), "Expire").ErrorContext(r.Context(), "sweep failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]int64{"expired": count})
}
