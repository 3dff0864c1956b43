// Package router parses and serves the HTTP surface of the explorer.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stats19/collision-explorer/internal/core/model"
	"github.com/stats19/collision-explorer/internal/core/observability"
	"github.com/stats19/collision-explorer/internal/dataset"
	"github.com/stats19/collision-explorer/internal/filter"
	"github.com/stats19/collision-explorer/internal/insights"
	"github.com/stats19/collision-explorer/internal/logger"
	"github.com/stats19/collision-explorer/internal/session"
	"github.com/stats19/collision-explorer/internal/viewcache"
)

const sessionCookie = "sid"

type API struct {
	logger   *slog.Logger
	sessions *session.Registry
	domains  dataset.Domains
	report   insights.Report
}

func New(l *slog.Logger, sessions *session.Registry, domains dataset.Domains, report insights.Report) *API {
	return &API{logger: l, sessions: sessions, domains: domains, report: report}
}

func (a *API) Register(r chi.Router) {
	r.Get("/api/filters", a.instrument("/api/filters", a.handleFilters))
	r.Get("/api/view", a.instrument("/api/view", a.handleFirstView))
	r.Post("/api/view", a.instrument("/api/view", a.handleApply))
	r.Post("/api/reset", a.instrument("/api/reset", a.handleReset))
	r.Get("/api/insights", a.instrument("/api/insights", a.handleInsights))
	r.Get("/view/map", a.instrument("/view/map", a.handleMap))
}

// specPayload is the wire shape of a filter submission.
type specPayload struct {
	Mode       string   `json:"mode"`
	Severities []string `json:"severities"`
	YearMin    int      `json:"year_min"`
	YearMax    int      `json:"year_max"`
	Weathers   []string `json:"weathers"`
	Lightings  []string `json:"lightings"`
	RoadTypes  []string `json:"road_types"`
}

func (p specPayload) toSpec() (model.FilterSpec, error) {
	mode, err := model.ParseMode(p.Mode)
	if err != nil {
		return model.FilterSpec{}, fmt.Errorf("%w: %v", filter.ErrInvalidFilter, err)
	}
	sevs := make([]model.Severity, 0, len(p.Severities))
	for _, s := range p.Severities {
		// values outside the dataset domain just match nothing
		sevs = append(sevs, model.Severity(s))
	}
	return model.FilterSpec{
		Mode:       mode,
		Severities: sevs,
		YearMin:    p.YearMin,
		YearMax:    p.YearMax,
		Weathers:   p.Weathers,
		Lightings:  p.Lightings,
		RoadTypes:  p.RoadTypes,
	}, nil
}

func payloadFromSpec(spec model.FilterSpec) specPayload {
	sevs := make([]string, 0, len(spec.Severities))
	for _, s := range spec.Severities {
		sevs = append(sevs, string(s))
	}
	return specPayload{
		Mode:       string(spec.Mode),
		Severities: sevs,
		YearMin:    spec.YearMin,
		YearMax:    spec.YearMax,
		Weathers:   spec.Weathers,
		Lightings:  spec.Lightings,
		RoadTypes:  spec.RoadTypes,
	}
}

type summaryPayload struct {
	Total        int    `json:"total"`
	Fatal        int    `json:"fatal"`
	FatalityRate string `json:"fatality_rate"`
}

type viewResponse struct {
	SessionID  string         `json:"session_id"`
	Spec       specPayload    `json:"spec"`
	Summary    summaryPayload `json:"summary"`
	Recomputed bool           `json:"recomputed"`
	MapURL     string         `json:"map_url"`
}

func (a *API) handleFilters(w http.ResponseWriter, r *http.Request) {
	sid, _ := a.sessionID(w, r)
	ctrl := a.sessions.Get(sid)

	type filtersResponse struct {
		SessionID string          `json:"session_id"`
		Domains   dataset.Domains `json:"domains"`
		Current   specPayload     `json:"current"`
	}
	writeJSON(w, http.StatusOK, filtersResponse{
		SessionID: sid,
		Domains:   a.domains,
		Current:   payloadFromSpec(ctrl.Current()),
	})
}

// GET /api/view behaves as an implicit apply of the defaults on a fresh
// session, and as a plain re-read (cache hit) otherwise.
func (a *API) handleFirstView(w http.ResponseWriter, r *http.Request) {
	sid, r := a.sessionID(w, r)
	out, err := a.sessions.Get(sid).View()
	a.writeOutcome(r.Context(), w, sid, out, err)
}

func (a *API) handleApply(w http.ResponseWriter, r *http.Request) {
	sid, r := a.sessionID(w, r)

	var payload specPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&payload); err != nil {
		writeNotice(w, http.StatusBadRequest, "malformed filter submission: "+err.Error())
		return
	}
	spec, err := payload.toSpec()
	if err != nil {
		writeNotice(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := a.sessions.Get(sid).Apply(spec)
	a.writeOutcome(r.Context(), w, sid, out, err)
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	sid, r := a.sessionID(w, r)
	out, err := a.sessions.Get(sid).Reset()
	a.writeOutcome(r.Context(), w, sid, out, err)
}

// GET /view/map hands the session's artifact to the display layer
// unmodified. A fresh session gets the default view first.
func (a *API) handleMap(w http.ResponseWriter, r *http.Request) {
	sid, _ := a.sessionID(w, r)
	ctrl := a.sessions.Get(sid)

	out, err := ctrl.View()
	artifact := out.Artifact
	if err != nil {
		// the prior view, if any, stays displayed
		prior, ok := ctrl.Artifact()
		if !ok {
			writeNotice(w, http.StatusNotFound, "no map rendered for this session")
			return
		}
		artifact = prior
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Body)
}

func (a *API) handleInsights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.report)
}

func (a *API) writeOutcome(ctx context.Context, w http.ResponseWriter, sid string, out session.Outcome, err error) {
	switch {
	case err == nil:
	case errors.Is(err, filter.ErrInvalidFilter):
		writeNotice(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, viewcache.ErrEmptyResult):
		writeNotice(w, http.StatusUnprocessableEntity, "no data available for the selected filters")
		return
	default:
		a.logger.ErrorContext(ctx, "resolve failed", "err", err)
		writeNotice(w, http.StatusInternalServerError, "map build failed; previous view is unchanged")
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{
		SessionID: sid,
		Spec:      payloadFromSpec(out.Spec),
		Summary: summaryPayload{
			Total:        out.Summary.Total,
			Fatal:        out.Summary.Fatal,
			FatalityRate: out.Summary.FatalityRateString(),
		},
		Recomputed: out.Recomputed,
		MapURL:     "/view/map",
	})
}

// sessionID reads the session identity from the X-Session-ID header or the
// sid cookie, minting one when absent, and stamps it onto the request
// context so log lines carry it.
func (a *API) sessionID(w http.ResponseWriter, r *http.Request) (string, *http.Request) {
	sid := r.Header.Get("X-Session-ID")
	if sid == "" {
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			sid = c.Value
		}
	}
	if sid == "" {
		sid = logger.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set("X-Session-ID", sid)
	}
	return sid, r.WithContext(logger.WithSessionID(r.Context(), sid))
}

func (a *API) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h(sw, r)
		observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeNotice(w http.ResponseWriter, status int, notice string) {
	writeJSON(w, status, map[string]string{"notice": notice})
}
