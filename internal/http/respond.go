package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Clark-Hu/catalog-api/internal/boxoffice"
	"github.com/Clark-Hu/catalog-api/internal/repository"
	"github.com/Clark-Hu/catalog-api/internal/schema"
	"github.com/Clark-Hu/catalog-api/internal/serializer"
)

const maxRequestBody = 1 << 20 // 1 MiB

var (
	// errNoUpstream reports a box office sync attempted without a configured client.
	errNoUpstream    = errors.New("box office upstream not configured")
	errBodyNotObject = errors.New("request body must be a JSON object")
)

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type listResponse struct {
	Items      []map[string]any `json:"items"`
	NextCursor *string          `json:"nextCursor,omitempty"`
}

// decodeJSONBody reads a JSON object into a wire mapping. Numbers are kept as
// json.Number so integer fields are not rounded through float64.
func decodeJSONBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("request body must contain a single JSON object")
	}
	if payload == nil {
		return nil, errBodyNotObject
	}
	return payload, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed JSON payload")
	case errors.As(err, &typeError), errors.Is(err, errBodyNotObject):
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Request body must be a JSON object")
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusRequestEntityTooLarge, "BAD_REQUEST", "Request body too large")
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Unable to parse request body")
	}
}

// respondServiceError maps errors from the serializer, repository and
// upstream client onto HTTP responses. kind labels validation metrics.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, kind schema.Kind, op string, err error) {
	var (
		verrs     serializer.ValidationErrors
		lookupErr *serializer.RelationshipLookupError
		pgErr     *pgconn.PgError
	)
	switch {
	case errors.As(err, &verrs):
		s.recordValidationFailures(kind, verrs)
		s.respondJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Submitted data failed validation",
			Details: verrs.Details(),
		})
	case errors.As(err, &lookupErr):
		s.respondError(w, http.StatusNotFound, "RELATION_NOT_FOUND", lookupErr.Error())
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, boxoffice.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Box office data not found")
	case errors.Is(err, errNoUpstream):
		s.respondError(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Box office upstream is not configured")
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		s.respondError(w, http.StatusConflict, "CONFLICT", "Resource already exists")
	default:
		s.logger.Error().
			Err(err).
			Str("op", op).
			Str("entity", string(kind)).
			Str("request_id", requestID(r)).
			Msg("request failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", fmt.Sprintf("Failed to %s", op))
	}
}

func (s *Server) recordValidationFailures(kind schema.Kind, verrs serializer.ValidationErrors) {
	if s.metrics == nil {
		return
	}
	for field := range verrs.Details() {
		s.metrics.ValidationFailures.WithLabelValues(string(kind), field).Inc()
	}
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return 0, fmt.Errorf("missing %s parameter", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

// queryLimit reads the optional limit query parameter; zero means default.
func queryLimit(r *http.Request) (int, error) {
	val := strings.TrimSpace(r.URL.Query().Get("limit"))
	if val == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(val)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("invalid limit value")
	}
	return limit, nil
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
