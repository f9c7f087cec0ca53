package api

import (
	"encoding/json"
	goio "io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/buildinfo"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/io"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/pipeline"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/store"
)

// Content types by output format.
var contentTypes = map[string]string{
	pipeline.FormatJSON:   "application/json",
	pipeline.FormatDOT:    "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:    "image/svg+xml",
	pipeline.FormatPNG:    "image/png",
	string(io.FormatText): "text/plain; charset=utf-8",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// =============================================================================
// Stateless
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	root, err := s.readTree(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeLayout(w, r, root)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	to, err := io.ParseFormat(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := s.readTree(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeTree(w, root, to)
}

// handleRender draws a layout produced by /v1/layout, possibly edited by the
// client since.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, labels := renderParams(r)
	body, err := goio.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	artifacts, err := pipeline.RenderFromLayoutData(r.Context(), body, []string{format}, labels)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}

// =============================================================================
// Stored trees
// =============================================================================

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"trees": recs})
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	format := io.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := io.ParseFormat(q)
		if err != nil {
			writeError(w, err)
			return
		}
		format = f
	}

	root, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeTree(w, root, format)
}

func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	root, err := s.readTree(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.store.Save(r.Context(), chi.URLParam(r, "name"), root)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTreeLayout(w http.ResponseWriter, r *http.Request) {
	root, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeLayout(w, r, root)
}

// =============================================================================
// Helpers
// =============================================================================

// readTree decodes the request body as .ftree text or JSON.
func (s *Server) readTree(w http.ResponseWriter, r *http.Request) (*family.Node, error) {
	format := io.FormatJSON
	if from := r.URL.Query().Get("from"); from != "" {
		f, err := io.ParseFormat(from)
		if err != nil {
			return nil, err
		}
		format = f
	} else if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/plain") || strings.HasPrefix(ct, "application/x-ftree") {
		format = io.FormatText
	}

	body, err := goio.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	return io.Unmarshal(body, format)
}

func (s *Server) writeLayout(w http.ResponseWriter, r *http.Request, root *family.Node) {
	format, labels := renderParams(r)
	opts := pipeline.Options{
		Layout:  s.cfg.Layout,
		Formats: []string{format},
		Labels:  labels,
	}
	result, err := s.runner.ExecuteTree(r.Context(), root, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if result.CacheInfo.LayoutHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// renderParams reads ?format (default json) and ?labels.
func renderParams(r *http.Request) (format string, labels bool) {
	q := r.URL.Query()
	format = q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	labels, _ = strconv.ParseBool(q.Get("labels"))
	return format, labels
}

func writeTree(w http.ResponseWriter, root *family.Node, format io.Format) {
	data, err := io.Marshal(root, format)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[string(format)])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
