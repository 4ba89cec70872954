package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/persistence"
)

type boardBookingService interface {
	BoardState(ctx context.Context, params application.BoardStateParams) (application.BoardState, error)
	Create(ctx context.Context, params application.CreateBookingParams) (persistence.Booking, error)
	Extend(ctx context.Context, params application.ExtendBookingParams) (persistence.Booking, error)
	EndEarly(ctx context.Context, params application.EndEarlyParams) error
}

type boardSettingsResolver interface {
	GetByToken(ctx context.Context, token string) (persistence.BoardSettings, error)
}

type boardRoomResolver interface {
	GetRoom(ctx context.Context, roomID string) (persistence.Room, error)
}

// BoardHandler serves the public, token-gated display surface: the live
// board snapshot and the walk-up booking actions.
type BoardHandler struct {
	bookings  boardBookingService
	rooms     boardRoomResolver
	settings  boardSettingsResolver
	responder responder
	logger    *slog.Logger
}

// NewBoardHandler constructs the public board handler.
func NewBoardHandler(bookings boardBookingService, rooms boardRoomResolver, settings boardSettingsResolver, logger *slog.Logger) *BoardHandler {
	base := defaultLogger(logger)
	return &BoardHandler{bookings: bookings, rooms: rooms, settings: settings, responder: newResponder(base), logger: base}
}

func (h *BoardHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BoardHandler", operation, attrs...)
}

// resolveToken gates every board endpoint on the public token. An unknown
// token reads as not found so the token cannot be probed apart from room
// data.
func (h *BoardHandler) resolveToken(w http.ResponseWriter, r *http.Request, token string) (persistence.BoardSettings, bool) {
	settings, err := h.settings.GetByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			http.NotFound(w, r)
			return persistence.BoardSettings{}, false
		}
		h.responder.handleServiceError(r.Context(), w, err)
		return persistence.BoardSettings{}, false
	}
	return settings, true
}

// State serves the full board snapshot for the display.
func (h *BoardHandler) State(w http.ResponseWriter, r *http.Request, token string) {
	if h == nil || h.bookings == nil || h.settings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	settings, ok := h.resolveToken(w, r, token)
	if !ok {
		return
	}

	state, err := h.bookings.BoardState(r.Context(), application.BoardStateParams{Settings: settings})
	if err != nil {
		h.log(r.Context(), "State").ErrorContext(r.Context(), "failed to compute board state", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBoardStateDTO(state))
}

type boardBookRequest struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
}

// Book creates a walk-up booking that starts immediately. Rooms that do not
// exist or were deactivated are invisible to the board and read as not found.
func (h *BoardHandler) Book(w http.ResponseWriter, r *http.Request, token, roomID string) {
	if h == nil || h.bookings == nil || h.rooms == nil || h.settings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	settings, ok := h.resolveToken(w, r, token)
	if !ok {
		return
	}

	room, err := h.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !room.IsActive {
		http.NotFound(w, r)
		return
	}

	var req boardBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Book", "room_id", roomID)
	booking, err := h.bookings.Create(r.Context(), application.CreateBookingParams{
		RoomID:           roomID,
		DurationMinutes:  req.DurationMinutes,
		Title:            req.Title,
		Source:           persistence.BookingSourceBoard,
		AllowedDurations: settings.BookingDurations,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "board booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingDTO(booking))
}

type boardExtendRequest struct {
	IncrementMinutes int `json:"incrementMinutes"`
}

// Extend pushes the booking's end forward by a configured increment.
func (h *BoardHandler) Extend(w http.ResponseWriter, r *http.Request, token, bookingID string) {
	if h == nil || h.bookings == nil || h.settings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	settings, ok := h.resolveToken(w, r, token)
	if !ok {
		return
	}

	var req boardExtendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Extend", "booking_id", bookingID)
	booking, err := h.bookings.Extend(r.Context(), application.ExtendBookingParams{
		BookingID:         bookingID,
		IncrementMinutes:  req.IncrementMinutes,
		AllowedIncrements: settings.ExtendIncrements,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "extend failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking extended")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(booking))
}

// End terminates a booking before its scheduled end.
func (h *BoardHandler) End(w http.ResponseWriter, r *http.Request, token, bookingID string) {
	if h == nil || h.bookings == nil || h.settings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if _, ok := h.resolveToken(w, r, token); !ok {
		return
	}

	logger := h.log(r.Context(), "End", "booking_id", bookingID)
	if err := h.bookings.EndEarly(r.Context(), application.EndEarlyParams{BookingID: bookingID}); err != nil {
		logger.ErrorContext(r.Context(), "end early failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking ended early")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
