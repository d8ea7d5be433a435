package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/logging"
	"github.com/rshade/loadcalc/internal/project"
	"github.com/rshade/loadcalc/internal/quick"
	"github.com/rshade/loadcalc/internal/recommend"
	"github.com/rshade/loadcalc/internal/report"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string            `json:"error"`
	Fields []string          `json:"fields,omitempty"`
	Issues []load.FieldIssue `json:"issues,omitempty"`
}

// writeJSON encodes v before writing the status, so a value that cannot be
// encoded yields a 500 rather than a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody{Error: "internal error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeFailure maps calculation errors to status codes.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr *load.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:  load.ErrValidation.Error(),
			Fields: verr.Fields(),
			Issues: verr.Issues,
		})
	case errors.Is(err, project.ErrInvalidOverride), errors.Is(err, report.ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		ctx := r.Context()
		logging.FromContext(ctx).Error().Ctx(ctx).
			Str("component", "api").
			Str("path", r.URL.Path).
			Err(err).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into v. It writes the error response itself and
// reports whether decoding succeeded.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) defaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, project.CreateDefault())
}

// tablesBody is everything that turns a project into a recommendation.
type tablesBody struct {
	Factors factors.Tables    `json:"factors"`
	Margins load.MarginPolicy `json:"margins"`
	Ladder  recommend.Ladder  `json:"ladder"`
}

func (s *Server) tables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tablesBody{
		Factors: s.engine.Tables(),
		Margins: s.engine.Margins(),
		Ladder:  s.engine.Ladder(),
	})
}

func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	var state project.ProjectState
	if !decode(w, r, &state) {
		return
	}
	est, err := s.engine.Estimate(r.Context(), state)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// whatIfRequest pairs a project with property overrides.
type whatIfRequest struct {
	Project   project.ProjectState `json:"project"`
	Overrides map[string]string    `json:"overrides"`
}

func (s *Server) whatIf(w http.ResponseWriter, r *http.Request) {
	var req whatIfRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.engine.WhatIf(r.Context(), req.Project, req.Overrides)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var contentTypes = map[report.Format]string{
	report.FormatText:     "text/plain; charset=utf-8",
	report.FormatMarkdown: "text/markdown; charset=utf-8",
	report.FormatHTML:     "text/html; charset=utf-8",
	report.FormatJSON:     "application/json",
}

// handleReport renders the estimate as a customer document. The locale comes from
// ?locale=, then Accept-Language, then the server default; ?format= defaults
// to json.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawFormat := q.Get("format")
	if rawFormat == "" {
		rawFormat = string(report.FormatJSON)
	}
	format, err := report.ParseFormat(rawFormat)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	labels, err := s.labelsFor(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	var state project.ProjectState
	if !decode(w, r, &state) {
		return
	}
	est, err := s.engine.Estimate(r.Context(), state)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	doc := report.FormatReport(report.Input{
		Key:       est.Key,
		State:     est.State,
		Breakdown: est.Breakdown,
		Sizing:    est.Sizing,
	}, labels, s.opts.Branding)

	// Render into a buffer so a failure still yields a clean error response.
	var buf bytes.Buffer
	if err = report.Render(&buf, doc, format); err != nil {
		writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Language", doc.Locale)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) labelsFor(r *http.Request) (report.Labels, error) {
	if s.opts.Labels != nil {
		return *s.opts.Labels, nil
	}
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = r.Header.Get("Accept-Language")
	}
	if locale == "" {
		locale = s.opts.Locale
	}
	return report.LoadLabels(locale)
}

func (s *Server) handleQuick(w http.ResponseWriter, r *http.Request) {
	var in quick.Input
	if !decode(w, r, &in) {
		return
	}
	res, err := quick.Estimate(in, s.engine.Tables(), s.engine.Ladder())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
