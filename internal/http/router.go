package http

import (
	"net/http"
	"strings"
)

// RouterConfig wires handlers and middleware into the HTTP surface. The
// SessionGuard wraps every admin route except setup, login, and logout.
type RouterConfig struct {
	Board        *BoardHandler
	Auth         *AuthHandler
	Rooms        *RoomHandler
	Bookings     *BookingHandler
	Settings     *SettingsHandler
	SessionGuard func(http.Handler) http.Handler
	Middleware   []func(http.Handler) http.Handler
}

// NewRouter assembles the public board routes and the administrator routes.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Board != nil {
		mux.HandleFunc("/board/", func(w http.ResponseWriter, r *http.Request) {
			routeBoard(cfg.Board, w, r)
		})
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/admin/setup", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Auth.SetupStatus(w, r)
			case http.MethodPost:
				cfg.Auth.Setup(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/admin/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/admin/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		})
	}

	if protected := protectedAdminRoutes(cfg); protected != nil {
		guard := cfg.SessionGuard
		if guard == nil {
			guard = func(next http.Handler) http.Handler { return next }
		}
		guarded := guard(protected)
		mux.Handle("/admin/password", guarded)
		mux.Handle("/admin/rooms", guarded)
		mux.Handle("/admin/rooms/", guarded)
		mux.Handle("/admin/bookings", guarded)
		mux.Handle("/admin/bookings/", guarded)
		mux.Handle("/admin/settings", guarded)
		mux.Handle("/admin/settings/", guarded)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

// routeBoard dispatches /board/{token}/... paths. The token segment gates
// everything underneath.
func routeBoard(h *BoardHandler, w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/board/")
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) < 2 || segments[0] == "" {
		http.NotFound(w, r)
		return
	}
	token := segments[0]

	switch {
	case len(segments) == 2 && segments[1] == "state":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.State(w, r, token)
	case len(segments) == 4 && segments[1] == "rooms" && segments[3] == "book":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.Book(w, r, token, segments[2])
	case len(segments) == 4 && segments[1] == "bookings" && segments[3] == "extend":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.Extend(w, r, token, segments[2])
	case len(segments) == 4 && segments[1] == "bookings" && segments[3] == "end":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.End(w, r, token, segments[2])
	default:
		http.NotFound(w, r)
	}
}

// protectedAdminRoutes builds the session-guarded admin mux.
func protectedAdminRoutes(cfg RouterConfig) http.Handler {
	if cfg.Auth == nil && cfg.Rooms == nil && cfg.Bookings == nil && cfg.Settings == nil {
		return nil
	}

	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/admin/password", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Auth.ChangePassword(w, r)
		})
	}

	if cfg.Rooms != nil {
		mux.HandleFunc("/admin/rooms", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Rooms.List(w, r)
			case http.MethodPost:
				cfg.Rooms.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/admin/rooms/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/rooms/"), "/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}
			segments := strings.Split(rest, "/")
			r = r.WithContext(ContextWithRoomID(r.Context(), segments[0]))

			switch {
			case len(segments) == 1:
				switch r.Method {
				case http.MethodGet:
					cfg.Rooms.Get(w, r)
				case http.MethodPut:
					cfg.Rooms.Update(w, r)
				case http.MethodDelete:
					cfg.Rooms.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case len(segments) == 2 && segments[1] == "bookings":
				switch r.Method {
				case http.MethodGet:
					cfg.Rooms.DayBookings(w, r)
				case http.MethodPost:
					if cfg.Bookings == nil {
						http.NotFound(w, r)
						return
					}
					cfg.Bookings.CreateForRoom(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPost)
				}
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Bookings != nil {
		mux.HandleFunc("/admin/bookings", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Bookings.Create(w, r)
		})
		mux.HandleFunc("/admin/bookings/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/bookings/"), "/")
			segments := strings.Split(rest, "/")

			switch {
			case len(segments) == 1 && segments[0] == "expire":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Bookings.Expire(w, r)
			case len(segments) == 2 && segments[1] == "end":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Bookings.End(w, r, segments[0])
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Settings != nil {
		mux.HandleFunc("/admin/settings", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Settings.Get(w, r)
			case http.MethodPut:
				cfg.Settings.Update(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
		mux.HandleFunc("/admin/settings/rotate-token", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Settings.RotateToken(w, r)
		})
	}

	return mux
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
