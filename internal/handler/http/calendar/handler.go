// Package calendar provides the HTTP handlers for birthday calendars:
// the HTML pages, the iCalendar download and the JSON API.
package calendar

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"waifu-calendar/internal/handler/http/respond"
	"waifu-calendar/internal/observability/logging"
	"waifu-calendar/internal/report"
	calUC "waifu-calendar/internal/usecase/calendar"
	"waifu-calendar/internal/usecase/favorites"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// FreshnessHeader tells clients whether the body was built from cached data
// kept after an upstream failure.
const FreshnessHeader = "X-Data-Freshness"

// MaxHorizonDays bounds the horizon query parameter.
const MaxHorizonDays = 366

// Service builds calendars. *calendar.Service implements it.
type Service interface {
	Build(ctx context.Context, username string, now time.Time) (calUC.Calendar, error)
	BuildWithHorizon(ctx context.Context, username string, now time.Time, horizonDays int) (calUC.Calendar, error)
}

// Handler serves every calendar endpoint.
type Handler struct {
	Svc Service
	// Now returns the current time. nil means time.Now.
	Now func() time.Time
}

func (h Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type errorPage struct {
	Title   string
	Message string
}

type userPage struct {
	Username string
}

// Index renders the username form.
func (h Handler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "index.html", nil)
}

// Page renders the HTML report for ?username=.
func (h Handler) Page(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, r.URL.Query().Get("username"))
}

// UserPage renders the HTML report for /u/{username}.
func (h Handler) UserPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, r.PathValue("username"))
}

func (h Handler) page(w http.ResponseWriter, r *http.Request, username string) {
	now := h.now()
	cal, ok := h.buildHTML(w, r, username, now)
	if !ok {
		return
	}

	view := report.NewPageView(cal.Username, cal.Report, cal.Source, now)
	w.Header().Set(FreshnessHeader, cal.Source.Freshness.String())
	render(w, r, http.StatusOK, "calendar.html", view)
}

// ICS serves the iCalendar download for ?username=.
func (h Handler) ICS(w http.ResponseWriter, r *http.Request) {
	h.ics(w, r, r.URL.Query().Get("username"))
}

// UserICS serves the iCalendar download for /u/{username}/birthdays.ics.
func (h Handler) UserICS(w http.ResponseWriter, r *http.Request) {
	h.ics(w, r, r.PathValue("username"))
}

func (h Handler) ics(w http.ResponseWriter, r *http.Request, username string) {
	now := h.now()
	cal, ok := h.buildHTML(w, r, username, now)
	if !ok {
		return
	}

	body, err := report.ExportICS(cal.Occurrences(), now)
	if err != nil {
		logging.FromContext(r.Context()).Error("ics export failed",
			slog.String("username", cal.Username),
			slog.Any("error", err))
		renderError(w, r, http.StatusInternalServerError, "Something went wrong", "The calendar could not be generated.")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="birthdays.ics"`)
	w.Header().Set(FreshnessHeader, cal.Source.Freshness.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// API serves the JSON report for ?username=&horizon=.
func (h Handler) API(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		respond.SafeError(w, http.StatusUnprocessableEntity, errors.New("username is required"))
		return
	}

	now := h.now()
	var (
		cal calUC.Calendar
		err error
	)
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		horizon, perr := parseHorizon(raw)
		if perr != nil {
			respond.SafeError(w, http.StatusUnprocessableEntity, perr)
			return
		}
		cal, err = h.Svc.BuildWithHorizon(r.Context(), username, now, horizon)
	} else {
		cal, err = h.Svc.Build(r.Context(), username, now)
	}
	if err != nil {
		code, msg := classify(err)
		respond.SafeError(w, code, respond.NewAppError(code, msg, err))
		return
	}

	w.Header().Set(FreshnessHeader, cal.Source.Freshness.String())
	respond.JSON(w, http.StatusOK, NewResponse(cal, now))
}

// buildHTML resolves username's calendar and renders an error page when it
// cannot. It reports whether the caller should continue.
func (h Handler) buildHTML(w http.ResponseWriter, r *http.Request, username string, now time.Time) (calUC.Calendar, bool) {
	username = strings.TrimSpace(username)
	if username == "" {
		renderError(w, r, http.StatusUnprocessableEntity, "Username required", "Enter an AniList username to build a calendar.")
		return calUC.Calendar{}, false
	}

	cal, err := h.Svc.Build(r.Context(), username, now)
	if err == nil {
		return cal, true
	}

	code, msg := classify(err)
	switch code {
	case http.StatusNotFound:
		render(w, r, code, "user_not_found.html", userPage{Username: username})
	case http.StatusInternalServerError:
		logging.FromContext(r.Context()).Error("calendar build failed",
			slog.String("username", username),
			slog.Any("error", err))
		renderError(w, r, code, "Something went wrong", msg)
	default:
		renderError(w, r, code, http.StatusText(code), msg)
	}
	return calUC.Calendar{}, false
}

// classify maps a calendar error to a status code and a user-facing message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, favorites.ErrEmptyUsername):
		return http.StatusUnprocessableEntity, "username is required"
	case errors.Is(err, favorites.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, favorites.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, "AniList is unreachable, try again later"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func parseHorizon(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > MaxHorizonDays {
		return 0, errors.New("horizon must be an integer between 0 and " + strconv.Itoa(MaxHorizonDays))
	}
	return n, nil
}

func renderError(w http.ResponseWriter, r *http.Request, code int, title, message string) {
	render(w, r, code, "error.html", errorPage{Title: title, Message: message})
}

// render executes the named template into a buffer so a template failure
// still produces a clean 500.
func render(w http.ResponseWriter, r *http.Request, code int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.FromContext(r.Context()).Error("template render failed",
			slog.String("template", name),
			slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}
