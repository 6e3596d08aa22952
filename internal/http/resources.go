package httpserver

import (
	"fmt"
	"net/http"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
	"github.com/Clark-Hu/catalog-api/internal/serializer"
)

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	resources, err := s.repo.Resources.List(r.Context(), limit)
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "list resources", err)
		return
	}
	items, err := serializer.SerializeAll(r.Context(), resources, s.serializer.SerializeResource)
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "list resources", err)
		return
	}
	s.respondJSON(w, http.StatusOK, listResponse{Items: items})
}

// handleCreateResource accepts the fields either flat or nested under a
// "resource" key.
func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSONBody(w, r)
	if err != nil {
		s.respondDecodeError(w, err)
		return
	}
	values, err := s.serializer.Deserialize(r.Context(), schema.KindResource, body, serializer.Options{})
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "create resource", err)
		return
	}

	var res domain.Resource
	likedBy, _ := serializer.ApplyResource(&res, values)
	created, err := s.repo.Resources.Create(r.Context(), res, likedBy)
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "create resource", err)
		return
	}
	s.respondResource(w, r, http.StatusCreated, created)
}

func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	res, err := s.repo.Resources.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "fetch resource", err)
		return
	}
	s.respondResource(w, r, http.StatusOK, res)
}

// handleUpdateResource serves PUT and PATCH. A PATCH leaves the like set alone
// unless liked_by is supplied.
func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
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

	res, err := s.repo.Resources.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "update resource", err)
		return
	}
	values, err := s.serializer.Deserialize(r.Context(), schema.KindResource, body, serializer.Options{
		Partial: r.Method == http.MethodPatch,
	})
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "update resource", err)
		return
	}

	likedBy, ok := serializer.ApplyResource(&res, values)
	if !ok {
		likedBy = nil
	}
	updated, err := s.repo.Resources.Update(r.Context(), res, likedBy)
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "update resource", err)
		return
	}
	s.respondResource(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.repo.Resources.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, r, schema.KindResource, "delete resource", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLikeResource(w http.ResponseWriter, r *http.Request) {
	res, userID, ok := s.likeTarget(w, r)
	if !ok {
		return
	}
	if err := s.repo.Resources.AddLike(r.Context(), res.ID, userID); err != nil {
		s.respondServiceError(w, r, schema.KindResource, "like resource", err)
		return
	}
	s.respondResource(w, r, http.StatusOK, res)
}

func (s *Server) handleUnlikeResource(w http.ResponseWriter, r *http.Request) {
	res, userID, ok := s.likeTarget(w, r)
	if !ok {
		return
	}
	if err := s.repo.Resources.RemoveLike(r.Context(), res.ID, userID); err != nil {
		s.respondServiceError(w, r, schema.KindResource, "unlike resource", err)
		return
	}
	s.respondResource(w, r, http.StatusOK, res)
}

// likeTarget resolves the resource and user named in a likes route, writing
// the error response itself when either is missing.
func (s *Server) likeTarget(w http.ResponseWriter, r *http.Request) (domain.Resource, int64, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return domain.Resource{}, 0, false
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return domain.Resource{}, 0, false
	}

	res, err := s.repo.Resources.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "fetch resource", err)
		return domain.Resource{}, 0, false
	}
	exists, err := s.repo.Exists(r.Context(), schema.KindUser, userID)
	if err != nil {
		s.respondServiceError(w, r, schema.KindUser, "fetch user", err)
		return domain.Resource{}, 0, false
	}
	if !exists {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("user %d not found", userID))
		return domain.Resource{}, 0, false
	}
	return res, userID, true
}

func (s *Server) respondResource(w http.ResponseWriter, r *http.Request, status int, res domain.Resource) {
	repr, err := s.serializer.SerializeResource(r.Context(), res)
	if err != nil {
		s.respondServiceError(w, r, schema.KindResource, "serialize resource", err)
		return
	}
	if status == http.StatusCreated {
		w.Header().Set("Location", fmt.Sprintf("/resources/%d", res.ID))
	}
	s.respondJSON(w, status, repr)
}
