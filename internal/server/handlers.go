package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/edgebundle/pkg/buildinfo"
	"github.com/matzehuels/edgebundle/pkg/bundle"
	"github.com/matzehuels/edgebundle/pkg/bundle/force"
	"github.com/matzehuels/edgebundle/pkg/bundle/table"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

type bundleRequest struct {
	Edges   []bundle.Edge   `json:"edges"`
	Config  json.RawMessage `json:"config,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

type bundleResponse struct {
	Rows   []table.Row    `json:"rows"`
	Stats  pipeline.Stats `json:"stats"`
	Cycles []force.Cycle  `json:"cycles"`
	Cached bool           `json:"cached"`
}

type errorResponse struct {
	Code      errs.Code `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	var req bundleRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(req.Edges) > s.cfg.MaxEdges {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "too many edges: %d (limit %d)", len(req.Edges), s.cfg.MaxEdges))
		return
	}
	cfg, err := decodeConfig(req.Config)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, req.Edges, pipeline.Options{
		Config:  cfg,
		Refresh: req.Refresh,
		Workers: s.cfg.Workers,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rows := res.Table.Rows
	if rows == nil {
		rows = []table.Row{}
	}
	writeJSON(w, http.StatusOK, bundleResponse{
		Rows:   rows,
		Stats:  res.Stats,
		Cycles: res.Cycles,
		Cached: res.CacheInfo.Hit,
	})
}

// decodeConfig overlays the supplied keys on the defaults. Unknown keys are
// rejected.
func decodeConfig(raw json.RawMessage) (bundle.Config, error) {
	cfg := bundle.DefaultConfig()
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return cfg, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return bundle.Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode config")
	}
	return cfg, nil
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "err", err)
		msg = "internal error"
	}
	if status == http.StatusServiceUnavailable {
		msg = "bundling did not finish before the deadline"
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
