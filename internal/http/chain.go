package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
	"github.com/Clark-Hu/catalog-api/internal/serializer"
)

func (s *Server) registerChainRoutes(r chi.Router) {
	r.Route("/model-c", func(r chi.Router) {
		r.Get("/", s.handleListModelC)
		r.Post("/", s.handleCreateModelC)
		r.Get("/{id}", s.handleGetModelC)
		r.Delete("/{id}", s.handleDeleteChain(schema.KindModelC))
	})
	r.Route("/model-b", func(r chi.Router) {
		r.Get("/", s.handleListModelB)
		r.Post("/", s.handleCreateModelB)
		r.Get("/{id}", s.handleGetModelB)
		r.Delete("/{id}", s.handleDeleteChain(schema.KindModelB))
	})
	r.Route("/model-a", func(r chi.Router) {
		r.Get("/", s.handleListModelA)
		r.Post("/", s.handleCreateModelA)
		r.Get("/{id}", s.handleGetModelA)
		r.Delete("/{id}", s.handleDeleteChain(schema.KindModelA))
	})
}

func (s *Server) handleListModelC(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	items, err := s.repo.Chain.ListModelC(r.Context(), limit)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelC, "list model_c", err)
		return
	}
	respondList(s, w, r, schema.KindModelC, items, serializer.Plain(s.serializer.SerializeModelC))
}

func (s *Server) handleCreateModelC(w http.ResponseWriter, r *http.Request) {
	values, ok := s.decodeChain(w, r, schema.KindModelC)
	if !ok {
		return
	}
	var c domain.ModelC
	serializer.ApplyModelC(&c, values)
	created, err := s.repo.Chain.CreateModelC(r.Context(), c)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelC, "create model_c", err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/model-c/%d", created.ID))
	s.respondJSON(w, http.StatusCreated, s.serializer.SerializeModelC(created))
}

func (s *Server) handleGetModelC(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	c, err := s.repo.Chain.GetModelC(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelC, "fetch model_c", err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.serializer.SerializeModelC(c))
}

func (s *Server) handleListModelB(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	items, err := s.repo.Chain.ListModelB(r.Context(), limit)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelB, "list model_b", err)
		return
	}
	respondList(s, w, r, schema.KindModelB, items, serializer.Plain(s.serializer.SerializeModelB))
}

func (s *Server) handleCreateModelB(w http.ResponseWriter, r *http.Request) {
	values, ok := s.decodeChain(w, r, schema.KindModelB)
	if !ok {
		return
	}
	var b domain.ModelB
	serializer.ApplyModelB(&b, values)
	created, err := s.repo.Chain.CreateModelB(r.Context(), b)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelB, "create model_b", err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/model-b/%d", created.ID))
	s.respondJSON(w, http.StatusCreated, s.serializer.SerializeModelB(created))
}

func (s *Server) handleGetModelB(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	b, err := s.repo.Chain.GetModelB(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelB, "fetch model_b", err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.serializer.SerializeModelB(b))
}

func (s *Server) handleListModelA(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	items, err := s.repo.Chain.ListModelA(r.Context(), limit)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelA, "list model_a", err)
		return
	}
	respondList(s, w, r, schema.KindModelA, items, s.serializer.SerializeModelA)
}

func (s *Server) handleCreateModelA(w http.ResponseWriter, r *http.Request) {
	values, ok := s.decodeChain(w, r, schema.KindModelA)
	if !ok {
		return
	}
	var a domain.ModelA
	serializer.ApplyModelA(&a, values)
	created, err := s.repo.Chain.CreateModelA(r.Context(), a)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelA, "create model_a", err)
		return
	}
	repr, err := s.serializer.SerializeModelA(r.Context(), created)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelA, "create model_a", err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/model-a/%d", created.ID))
	s.respondJSON(w, http.StatusCreated, repr)
}

func (s *Server) handleGetModelA(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	a, err := s.repo.Chain.GetModelA(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelA, "fetch model_a", err)
		return
	}
	repr, err := s.serializer.SerializeModelA(r.Context(), a)
	if err != nil {
		s.respondServiceError(w, r, schema.KindModelA, "fetch model_a", err)
		return
	}
	s.respondJSON(w, http.StatusOK, repr)
}

func (s *Server) handleDeleteChain(kind schema.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		if err := s.repo.Chain.Delete(r.Context(), kind, id); err != nil {
			s.respondServiceError(w, r, kind, "delete "+string(kind), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) decodeChain(w http.ResponseWriter, r *http.Request, kind schema.Kind) (serializer.Values, bool) {
	body, err := decodeJSONBody(w, r)
	if err != nil {
		s.respondDecodeError(w, err)
		return nil, false
	}
	values, err := s.serializer.Deserialize(r.Context(), kind, body, serializer.Options{})
	if err != nil {
		s.respondServiceError(w, r, kind, "create "+string(kind), err)
		return nil, false
	}
	return values, true
}

// respondList serializes items with fn and writes them as a list response.
func respondList[T any](s *Server, w http.ResponseWriter, r *http.Request, kind schema.Kind, items []T, fn func(context.Context, T) (map[string]any, error)) {
	out, err := serializer.SerializeAll(r.Context(), items, fn)
	if err != nil {
		s.respondServiceError(w, r, kind, "list "+string(kind), err)
		return
	}
	s.respondJSON(w, http.StatusOK, listResponse{Items: out})
}
