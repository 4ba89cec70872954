package http

import (
	"time"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/persistence"
)

type roomDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Color        *string `json:"color,omitempty"`
	Capacity     *int    `json:"capacity,omitempty"`
	IsActive     bool    `json:"isActive"`
	DisplayOrder int     `json:"displayOrder"`
}

func toRoomDTO(room persistence.Room) roomDTO {
	return roomDTO{
		ID:           room.ID,
		Name:         room.Name,
		Description:  room.Description,
		Color:        room.Color,
		Capacity:     room.Capacity,
		IsActive:     room.IsActive,
		DisplayOrder: room.DisplayOrder,
	}
}

type bookingDTO struct {
	ID           string     `json:"id"`
	RoomID       string     `json:"roomId"`
	Title        string     `json:"title"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      time.Time  `json:"endTime"`
	Status       string     `json:"status"`
	Source       string     `json:"source"`
	EndedEarlyAt *time.Time `json:"endedEarlyAt,omitempty"`
}

func toBookingDTO(booking persistence.Booking) bookingDTO {
	return bookingDTO{
		ID:           booking.ID,
		RoomID:       booking.RoomID,
		Title:        booking.Title,
		StartTime:    booking.Start,
		EndTime:      booking.End,
		Status:       string(booking.Status),
		Source:       string(booking.Source),
		EndedEarlyAt: booking.EndedEarlyAt,
	}
}

type currentBookingDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	CanExtend   bool      `json:"canExtend"`
	CanEndEarly bool      `json:"canEndEarly"`
}

type upcomingBookingDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type roomStatusDTO struct {
	Status  string              `json:"status"`
	Current *currentBookingDTO  `json:"current,omitempty"`
	Next    *upcomingBookingDTO `json:"next,omitempty"`
}

func toRoomStatusDTO(status application.RoomStatus) roomStatusDTO {
	dto := roomStatusDTO{Status: string(status.Status)}
	if status.Current != nil {
		dto.Current = &currentBookingDTO{
			ID:          status.Current.ID,
			Title:       status.Current.Title,
			StartTime:   status.Current.Start,
			EndTime:     status.Current.End,
			CanExtend:   status.Current.CanExtend,
			CanEndEarly: status.Current.CanEndEarly,
		}
	}
	if status.Next != nil {
		dto.Next = &upcomingBookingDTO{
			ID:        status.Next.ID,
			Title:     status.Next.Title,
			StartTime: status.Next.Start,
			EndTime:   status.Next.End,
		}
	}
	return dto
}

type boardRoomDTO struct {
	Room   roomDTO       `json:"room"`
	Status roomStatusDTO `json:"status"`
}

type boardStateDTO struct {
	ServerTime       time.Time      `json:"serverTime"`
	Rooms            []boardRoomDTO `json:"rooms"`
	BookingDurations []int          `json:"bookingDurations"`
	ExtendIncrements []int          `json:"extendIncrements"`
}

func toBoardStateDTO(state application.BoardState) boardStateDTO {
	dto := boardStateDTO{
		ServerTime:       state.ServerTime,
		Rooms:            make([]boardRoomDTO, 0, len(state.Rooms)),
		BookingDurations: state.BookingDurations,
		ExtendIncrements: state.ExtendIncrements,
	}
	for _, entry := range state.Rooms {
		dto.Rooms = append(dto.Rooms, boardRoomDTO{
			Room:   toRoomDTO(entry.Room),
			Status: toRoomStatusDTO(entry.Status),
		})
	}
	return dto
}

type settingsDTO struct {
	TimeZone         string `json:"timeZone"`
	BookingDurations []int  `json:"bookingDurations"`
	ExtendIncrements []int  `json:"extendIncrements"`
	PublicToken      string `json:"publicToken"`
}

func toSettingsDTO(settings persistence.BoardSettings) settingsDTO {
	return settingsDTO{
		TimeZone:         settings.TimeZone,
		BookingDurations: settings.BookingDurations,
		ExtendIncrements: settings.ExtendIncrements,
		PublicToken:      settings.PublicToken,
	}
}
