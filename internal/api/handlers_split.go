package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/splitml/internal/node"
	"github.com/dgallion1/splitml/internal/parser"
	"github.com/dgallion1/splitml/internal/pipeline"
)

// documentRequest is the JSON body of /api/split and /api/chunk.
type documentRequest struct {
	Content    string `json:"content"`
	Format     string `json:"format,omitempty"`
	Thresholds []int  `json:"thresholds,omitempty"`
}

func (s *Server) decodeDocument(w http.ResponseWriter, r *http.Request) (documentRequest, parser.Format, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return req, "", false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return req, "", false
	}
	format, err := parser.ParseFormat(req.Format)
	if err != nil {
		writeError(w, err)
		return req, "", false
	}
	return req, format, true
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	req, format, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}

	res, err := s.pipeline.Split(req.Content, format)
	if err != nil {
		s.log.Warn("split failed", "format", format, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	req, format, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}

	res, err := s.pipeline.Chunk(req.Content, format, req.Thresholds)
	if err != nil {
		s.log.Warn("chunk failed", "format", format, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, node.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, node.ErrInvalidInput),
		errors.Is(err, node.ErrParse),
		errors.Is(err, node.ErrDecode),
		errors.Is(err, parser.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, node.ErrNormalization), errors.Is(err, node.ErrTokenization):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrQueueFull):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	jsonError(w, err.Error(), statusFor(err))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
