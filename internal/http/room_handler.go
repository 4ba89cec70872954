package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/persistence"
)

type roomService interface {
	CreateRoom(ctx context.Context, input application.RoomInput) (persistence.Room, error)
	UpdateRoom(ctx context.Context, roomID string, update application.RoomUpdate) (persistence.Room, error)
	GetRoom(ctx context.Context, roomID string) (persistence.Room, error)
	ListRooms(ctx context.Context, activeOnly bool) ([]persistence.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error
}

type dayBookingLister interface {
	RoomBookingsForDay(ctx context.Context, params application.DayBookingsParams) ([]persistence.Booking, error)
}

// RoomHandler serves the administrator room management surface.
type RoomHandler struct {
	service   roomService
	bookings  dayBookingLister
	location  func() *time.Location
	responder responder
	logger    *slog.Logger
}

// NewRoomHandler constructs the admin room handler. location supplies the
// deployment time zone used to window day listings.
func NewRoomHandler(service roomService, bookings dayBookingLister, location func() *time.Location, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	if location == nil {
		location = func() *time.Location { return time.UTC }
	}
	return &RoomHandler{service: service, bookings: bookings, location: location, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

type roomRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Capacity    *int    `json:"capacity"`
}

type roomUpdateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Color        *string `json:"color"`
	Capacity     *int    `json:"capacity"`
	IsActive     *bool   `json:"isActive"`
	DisplayOrder *int    `json:"displayOrder"`
}

// List returns every room, including deactivated ones, for administration.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rooms, err := h.service.ListRooms(r.Context(), false)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list rooms", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		dtos = append(dtos, toRoomDTO(room))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]roomDTO{"rooms": dtos})
}

// Create adds a new room at the end of the display order.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	room, err := h.service.CreateRoom(r.Context(), application.RoomInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Capacity:    req.Capacity,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRoomDTO(room))
}

// Get returns a single room.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.roomID(w, r, "Get")
	if !ok {
		return
	}

	room, err := h.service.GetRoom(r.Context(), roomID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomDTO(room))
}

// Update applies a partial room update.
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.roomID(w, r, "Update")
	if !ok {
		return
	}

	var req roomUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "room_id", roomID)
	room, err := h.service.UpdateRoom(r.Context(), roomID, application.RoomUpdate{
		Name:         req.Name,
		Description:  req.Description,
		Color:        req.Color,
		Capacity:     req.Capacity,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomDTO(room))
}

// Delete removes a room along with its bookings.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.roomID(w, r, "Delete")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Delete", "room_id", roomID)
	if err := h.service.DeleteRoom(r.Context(), roomID); err != nil {
		logger.ErrorContext(r.Context(), "room deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// DayBookings lists the room's bookings for one calendar day in the
// deployment time zone. The date query parameter defaults to today.
func (h *RoomHandler) DayBookings(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.roomID(w, r, "DayBookings")
	if !ok {
		return
	}
	if h.bookings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	loc := h.location()
	reference := time.Now().In(loc)
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		reference = parsed
	}

	bookings, err := h.bookings.RoomBookingsForDay(r.Context(), application.DayBookingsParams{
		RoomID:    roomID,
		Reference: reference,
		Location:  loc,
	})
	if err != nil {
		h.log(r.Context(), "DayBookings", "room_id", roomID).ErrorContext(r.Context(), "failed to list day bookings", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]bookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		dtos = append(dtos, toBookingDTO(booking))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]bookingDTO{"bookings": dtos})
}

func (h *RoomHandler) roomID(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return "", false
	}
	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return "", false
	}
	return roomID, true
}
