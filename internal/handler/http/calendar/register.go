package calendar

import "net/http"

// Register registers the calendar routes with the given mux.
// limit wraps every route that can reach AniList; nil applies no limit.
func Register(mux *http.ServeMux, h Handler, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	mux.HandleFunc("GET /{$}", h.Index)
	mux.Handle("GET /cal", limit(http.HandlerFunc(h.Page)))
	mux.Handle("GET /ics", limit(http.HandlerFunc(h.ICS)))
	mux.Handle("GET /u/{username}", limit(http.HandlerFunc(h.UserPage)))
	mux.Handle("GET /u/{username}/birthdays.ics", limit(http.HandlerFunc(h.UserICS)))
	mux.Handle("GET /api/birthdays", limit(http.HandlerFunc(h.API)))
}
