package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
	"github.com/Clark-Hu/catalog-api/internal/serializer"
)

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	var authorID *int64
	if val := strings.TrimSpace(r.URL.Query().Get("author")); val != "" {
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil || id <= 0 {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid author value")
			return
		}
		authorID = &id
	}

	comments, err := s.repo.Comments.List(r.Context(), authorID, limit)
	if err != nil {
		s.respondServiceError(w, r, schema.KindComment, "list comments", err)
		return
	}
	items, err := serializer.SerializeAll(r.Context(), comments, s.serializer.SerializeComment)
	if err != nil {
		s.respondServiceError(w, r, schema.KindComment, "list comments", err)
		return
	}
	s.respondJSON(w, http.StatusOK, listResponse{Items: items})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSONBody(w, r)
	if err != nil {
		s.respondDecodeError(w, err)
		return
	}
	values, err := s.serializer.Deserialize(r.Context(), schema.KindComment, body, serializer.Options{})
	if err != nil {
		s.respondServiceError(w, r, schema.KindComment, "create comment", err)
		return
	}

	var c domain.Comment
	serializer.ApplyComment(&c, values)
	created, err := s.repo.Comments.Create(r.Context(), c)
	if err != nil {
		s.respondServiceError(w, r, schema.KindComment, "create comment", err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/comments/%d", created.ID))
	s.respondComment(w, r, http.StatusCreated, created)
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	c, err := s.repo.Comments.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindComment, "fetch comment", err)
		return
	}
	s.respondComment(w, r, http.StatusOK, c)
}

// handleUpdateComment applies a partial update. A datetime in the body is
// ignored.
func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	body, err := decodeJSONBody(w, r)
	if err != nil {
		s.respondDecodeError(w, err)
		return
	}

	c, err := s.repo.Comments.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindComment, "update comment", err)
		return
	}
	values, err := s.serializer.Deserialize(r.Context(), schema.KindComment, body, serializer.Options{Partial: true})
	if err != nil {
		s.respondServiceError(w, r, schema.KindComment, "update comment", err)
		return
	}

	serializer.ApplyComment(&c, values)
	updated, err := s.repo.Comments.Update(r.Context(), c)
	if err != nil {
		s.respondServiceError(w, r, schema.KindComment, "update comment", err)
		return
	}
	s.respondComment(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.repo.Comments.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, r, schema.KindComment, "delete comment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondComment(w http.ResponseWriter, r *http.Request, status int, c domain.Comment) {
	repr, err := s.serializer.SerializeComment(r.Context(), c)
	if err != nil {
		s.respondServiceError(w, r, schema.KindComment, "serialize comment", err)
		return
	}
	s.respondJSON(w, status, repr)
}
