package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
	"github.com/Clark-Hu/catalog-api/internal/serializer"
)

// userIdentityResponse is returned for users that may not have a profile
// yet, where the full user projection is unavailable.
type userIdentityResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsStaff    bool   `json:"is_staff"`
	IsActive   bool   `json:"is_active"`
	DateJoined string `json:"date_joined"`
}

func toUserIdentityResponse(u domain.User) userIdentityResponse {
	return userIdentityResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsStaff:    u.IsStaff,
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined.UTC().Format(time.RFC3339Nano),
	}
}

// handleListUsers lists identities; it does not require profiles.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	users, err := s.repo.Users.List(r.Context(), limit)
	if err != nil {
		s.respondServiceError(w, r, schema.KindUser, "list users", err)
		return
	}
	items := make([]userIdentityResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserIdentityResponse(u))
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSONBody(w, r)
	if err != nil {
		s.respondDecodeError(w, err)
		return
	}
	values, err := s.serializer.Deserialize(r.Context(), schema.KindUser, body, serializer.Options{})
	if err != nil {
		s.respondServiceError(w, r, schema.KindUser, "create user", err)
		return
	}

	var u domain.User
	serializer.ApplyUser(&u, values)
	created, err := s.repo.Users.Create(r.Context(), u)
	if err != nil {
		s.respondServiceError(w, r, schema.KindUser, "create user", err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/users/%d", created.ID))
	s.respondJSON(w, http.StatusCreated, toUserIdentityResponse(created))
}

// handleGetUser returns the user merged with its profile. A user without a
// profile is reported as a missing relation.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	u, err := s.repo.Users.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindUser, "fetch user", err)
		return
	}
	repr, err := s.serializer.SerializeUser(r.Context(), u)
	if err != nil {
		s.respondServiceError(w, r, schema.KindUser, "fetch user", err)
		return
	}
	s.respondJSON(w, http.StatusOK, repr)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.repo.Users.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, r, schema.KindUser, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
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

	u, err := s.repo.Users.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindUser, "update profile", err)
		return
	}
	values, err := s.serializer.Deserialize(r.Context(), schema.KindUserProfile, body, serializer.Options{})
	if err != nil {
		s.respondServiceError(w, r, schema.KindUserProfile, "update profile", err)
		return
	}

	profile := domain.UserProfile{UserID: u.ID}
	serializer.ApplyProfile(&profile, values)
	_, inserted, err := s.repo.Users.UpsertProfile(r.Context(), profile)
	if err != nil {
		s.respondServiceError(w, r, schema.KindUserProfile, "update profile", err)
		return
	}

	repr, err := s.serializer.SerializeUser(r.Context(), u)
	if err != nil {
		s.respondServiceError(w, r, schema.KindUser, "update profile", err)
		return
	}
	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, repr)
}
