// Package http provides HTTP handlers and middleware for the room board
// API.
//
// The public display surface is gated by the board token carried in the
// path:
//   - GET /board/{token}/state: the live board snapshot with per-room
//     occupancy, offered durations, and extension increments.
//   - POST /board/{token}/rooms/{roomId}/book: walk-up booking starting
//     immediately. Body: {"title","durationMinutes"}.
//   - POST /board/{token}/bookings/{bookingId}/extend: pushes the end
//     forward. Body: {"incrementMinutes"}.
//   - POST /board/{token}/bookings/{bookingId}/end: ends the booking now.
//
// The administrator surface requires a session token via the Authorization
// header or the admin_session cookie, except for setup and login:
//   - GET/POST /admin/setup, POST /admin/login, POST /admin/logout.
//   - PUT /admin/password: replaces the administrator password.
//   - GET/POST /admin/rooms, GET/PUT/DELETE /admin/rooms/{id}: room catalog
//     management exchanging the roomDTO payload.
//   - GET /admin/rooms/{id}/bookings?date=YYYY-MM-DD: one calendar day of
//     bookings windowed in the deployment time zone.
//   - POST /admin/bookings: scheduled booking with an optional startTime.
//   - POST /admin/bookings/{id}/end, POST /admin/bookings/expire.
//   - GET/PUT /admin/settings, POST /admin/settings/rotate-token.
//
// Request/response DTOs live in dto.go so tests and documentation share the
// same ground truth.
package http
