package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/arcdiff/pkg/align"
	"github.com/matzehuels/arcdiff/pkg/buildinfo"
	"github.com/matzehuels/arcdiff/pkg/depgraph"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
	"github.com/matzehuels/arcdiff/pkg/pipeline"
	"github.com/matzehuels/arcdiff/pkg/render/sink"
	"github.com/matzehuels/arcdiff/pkg/store"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// DiffRequest is the body of POST /api/1/diff. Payloads are Odin JSON
// objects or strings (CoNLL-U, or Odin as text). Without payload_a the
// sentence is annotated by the configured service. Unset fields take the
// server's defaults.
type DiffRequest struct {
	Input            string          `json:"input,omitempty" validate:"omitempty,oneof=odin conllu"`
	PayloadA         json.RawMessage `json:"payload_a,omitempty"`
	PayloadB         json.RawMessage `json:"payload_b,omitempty"`
	GraphA           string          `json:"graph_a,omitempty" validate:"omitempty,max=64"`
	GraphB           string          `json:"graph_b,omitempty" validate:"omitempty,max=64"`
	Sentence         string          `json:"sentence,omitempty" validate:"omitempty,max=2000"`
	EnhanceUD        *bool           `json:"enhance_ud,omitempty"`
	EnhancedPlusPlus *bool           `json:"enhanced_plus_plus,omitempty"`
	EnhancedExtra    *bool           `json:"enhanced_extra,omitempty"`
	Mode             string          `json:"mode,omitempty" validate:"omitempty,oneof=auto index text"`
	Formats          []string        `json:"formats,omitempty" validate:"omitempty,max=6,dive,oneof=json odin dot svg png pdf"`
	Detailed         *bool           `json:"detailed,omitempty"`
	Refresh          bool            `json:"refresh,omitempty"`
}

// DiffResponse is the body of a successful POST /api/1/diff. Artifacts
// holds every requested format except json (which is Document itself);
// png and pdf are base64 encoded.
type DiffResponse struct {
	ID        string            `json:"id"`
	Cached    bool              `json:"cached"`
	Document  *sink.Document    `json:"document"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// ListResponse is the body of GET /api/1/diff.
type ListResponse struct {
	Comparisons []*store.Record `json:"comparisons"`
}

// AlignRequest is the body of POST /api/1/align.
type AlignRequest struct {
	A []string `json:"a" validate:"required,min=1,max=1000"`
	B []string `json:"b" validate:"required,min=1,max=1000"`
}

// AlignResponse maps every word of B to its position in A; null entries
// are words the alignment never reached.
type AlignResponse struct {
	Alignment []*float64 `json:"alignment"`
	Identical bool       `json:"identical"`
	Mapped    int        `json:"mapped"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req DiffRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	opts, err := s.options(req)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = loggerFrom(ctx, s.logger)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(ctx, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	doc := *result.Document
	doc.ID = uuid.New().String()
	rec := &store.Record{
		ID:          doc.ID,
		Sentence:    result.Sentence,
		Input:       opts.Input,
		GraphA:      opts.GraphA,
		GraphB:      opts.GraphB,
		Mode:        doc.Mode,
		PayloadHash: result.PayloadHash,
		Summary:     doc.Summary,
		Document:    &doc,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "save comparison"))
		return
	}

	resp := DiffResponse{
		ID:        doc.ID,
		Cached:    result.CacheInfo.RenderHit,
		Document:  &doc,
		Artifacts: make(map[string]string, len(result.Artifacts)),
	}
	for format, data := range result.Artifacts {
		switch format {
		case pipeline.FormatJSON:
		case pipeline.FormatPNG, pipeline.FormatPDF:
			resp.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
		default:
			resp.Artifacts[format] = string(data)
		}
	}

	w.Header().Set("Location", "/api/1/diff/"+doc.ID)
	writeJSON(w, http.StatusCreated, resp)
}

// options merges a request over the server defaults.
func (s *Server) options(req DiffRequest) (pipeline.Options, error) {
	if err := apperrors.ValidateStruct(req); err != nil {
		return pipeline.Options{}, err
	}
	payloadA, err := payloadText(req.PayloadA)
	if err != nil {
		return pipeline.Options{}, err
	}
	payloadB, err := payloadText(req.PayloadB)
	if err != nil {
		return pipeline.Options{}, err
	}

	d := s.defaults
	opts := pipeline.Options{
		Input:            req.Input,
		PayloadA:         payloadA,
		PayloadB:         payloadB,
		GraphA:           d.GraphA,
		GraphB:           d.GraphB,
		Sentence:         req.Sentence,
		EnhanceUD:        d.EnhanceUD,
		EnhancedPlusPlus: d.EnhancedPlusPlus,
		EnhancedExtra:    d.EnhancedExtra,
		Mode:             d.Mode,
		Formats:          slices.Clone(d.Formats),
		Detailed:         d.Detailed,
		Refresh:          req.Refresh,
	}
	setString(&opts.GraphA, req.GraphA)
	setString(&opts.GraphB, req.GraphB)
	setString(&opts.Mode, req.Mode)
	setBool(&opts.EnhanceUD, req.EnhanceUD)
	setBool(&opts.EnhancedPlusPlus, req.EnhancedPlusPlus)
	setBool(&opts.EnhancedExtra, req.EnhancedExtra)
	setBool(&opts.Detailed, req.Detailed)
	if len(req.Formats) > 0 {
		opts.Formats = req.Formats
	}
	return opts, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// payloadText returns a payload field as text: JSON strings are unquoted,
// objects are kept as they are.
func payloadText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] != '"' {
		return string(raw), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode payload")
	}
	return s, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "list comparisons"))
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Comparisons: recs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.lookup(r, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		writeError(w, errNotFound("comparison %q not found", id))
		return
	}
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, errNotFound("comparison %q not found", id))
		return
	}
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "delete comparison"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(r *http.Request, id string) (*store.Record, error) {
	if !store.ValidID(id) {
		return nil, errNotFound("comparison %q not found", id)
	}
	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errNotFound("comparison %q not found", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "get comparison")
	}
	return rec, nil
}

func (s *Server) handleAlign(w http.ResponseWriter, r *http.Request) {
	var req AlignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := apperrors.ValidateStruct(req); err != nil {
		writeError(w, err)
		return
	}

	shift := align.Align(words(req.A), words(req.B))
	resp := AlignResponse{
		Alignment: sink.Alignment(shift),
		Identical: slices.Equal(req.A, req.B),
		Mapped:    shift.Mapped(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func words(texts []string) []depgraph.Word {
	out := make([]depgraph.Word, len(texts))
	for i, t := range texts {
		out[i] = depgraph.Word{Index: i, Text: t}
	}
	return out
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request")
	}
	if dec.More() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "decode request: trailing data after JSON body")
	}
	return nil
}
