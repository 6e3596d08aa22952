package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Clark-Hu/catalog-api/internal/boxoffice"
	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/repository"
	"github.com/Clark-Hu/catalog-api/internal/schema"
	"github.com/Clark-Hu/catalog-api/internal/serializer"
)

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	filters, err := buildMovieFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := s.repo.Movies.List(r.Context(), filters)
	if err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "list movies", err)
		return
	}

	items := make([]map[string]any, 0, len(result.Items))
	for _, movie := range result.Items {
		items = append(items, s.serializer.SerializeMovie(movie))
	}
	s.respondJSON(w, http.StatusOK, listResponse{Items: items, NextCursor: result.NextCursor})
}

func buildMovieFilters(query url.Values) (repository.MovieListFilters, error) {
	var filters repository.MovieListFilters

	if q := strings.TrimSpace(query.Get("q")); q != "" {
		filters.Query = &q
	}
	if val := strings.TrimSpace(query.Get("year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return filters, fmt.Errorf("invalid year value")
		}
		filters.Year = &year
	}
	if val := strings.TrimSpace(query.Get("rating_gte")); val != "" {
		rating, err := strconv.Atoi(val)
		if err != nil || rating < 0 {
			return filters, fmt.Errorf("invalid rating_gte value")
		}
		filters.RatingGTE = &rating
	}
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil {
			return filters, fmt.Errorf("invalid limit value")
		}
		filters.Limit = limit
	}
	if val := strings.TrimSpace(query.Get("cursor")); val != "" {
		cursor, err := repository.DecodeCursor(val)
		if err != nil {
			return filters, fmt.Errorf("invalid cursor")
		}
		filters.Cursor = cursor
	}
	return filters, nil
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSONBody(w, r)
	if err != nil {
		s.respondDecodeError(w, err)
		return
	}

	values, err := s.serializer.Deserialize(r.Context(), schema.KindMovie, body, serializer.Options{})
	if err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "create movie", err)
		return
	}

	var movie domain.Movie
	serializer.ApplyMovie(&movie, values)
	created, err := s.repo.Movies.Create(r.Context(), movie)
	if err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "create movie", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/movies/%d", created.ID))
	s.respondJSON(w, http.StatusCreated, s.serializer.SerializeMovie(created))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	movie, err := s.repo.Movies.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "fetch movie", err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.serializer.SerializeMovie(movie))
}

// handleUpdateMovie serves PUT (full replacement) and PATCH (partial update).
// Cross-field rules on a PATCH see the stored values for omitted fields.
func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
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

	movie, err := s.repo.Movies.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "update movie", err)
		return
	}

	opts := serializer.Options{}
	if r.Method == http.MethodPatch {
		opts = serializer.Options{Partial: true, Current: serializer.MovieValues(movie)}
	}
	values, err := s.serializer.Deserialize(r.Context(), schema.KindMovie, body, opts)
	if err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "update movie", err)
		return
	}

	serializer.ApplyMovie(&movie, values)
	updated, err := s.repo.Movies.Update(r.Context(), movie)
	if err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "update movie", err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.serializer.SerializeMovie(updated))
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.repo.Movies.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "delete movie", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSyncBoxOffice pulls gross figures for the movie's title from the
// upstream service and stores them as a partial update.
func (s *Server) handleSyncBoxOffice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if s.boxOffice == nil {
		s.respondServiceError(w, r, schema.KindMovie, "sync box office", errNoUpstream)
		return
	}

	movie, err := s.repo.Movies.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "sync box office", err)
		return
	}

	result, err := s.fetchBoxOffice(r.Context(), movie.Title)
	if err != nil {
		if errors.Is(err, boxoffice.ErrNotFound) {
			s.respondServiceError(w, r, schema.KindMovie, "sync box office", err)
			return
		}
		s.logger.Warn().Err(err).Str("title", movie.Title).Msg("box office fetch failed")
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Box office upstream request failed")
		return
	}

	values, err := s.serializer.Deserialize(r.Context(), schema.KindMovie, result.Fields(), serializer.Options{
		Partial: true,
		Current: serializer.MovieValues(movie),
	})
	if err != nil {
		var verrs serializer.ValidationErrors
		if errors.As(err, &verrs) {
			s.recordValidationFailures(schema.KindMovie, verrs)
			s.respondJSON(w, http.StatusBadGateway, errorResponse{
				Code:    "UPSTREAM_INVALID",
				Message: "Box office upstream returned figures that failed validation",
				Details: verrs.Details(),
			})
			return
		}
		s.respondServiceError(w, r, schema.KindMovie, "sync box office", err)
		return
	}

	serializer.ApplyMovie(&movie, values)
	updated, err := s.repo.Movies.Update(r.Context(), movie)
	if err != nil {
		s.respondServiceError(w, r, schema.KindMovie, "sync box office", err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.serializer.SerializeMovie(updated))
}

func (s *Server) fetchBoxOffice(ctx context.Context, title string) (*boxoffice.Result, error) {
	if s.cfg.BoxOfficeTimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.BoxOfficeTimeoutSecs)*time.Second)
		defer cancel()
	}

	start := time.Now()
	result, err := s.boxOffice.Fetch(ctx, title)
	if s.metrics != nil {
		outcome := "ok"
		switch {
		case errors.Is(err, boxoffice.ErrNotFound):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
		}
		s.metrics.BoxOfficeFetches.WithLabelValues(outcome).Inc()
		s.metrics.BoxOfficeDuration.Observe(time.Since(start).Seconds())
	}
	return result, err
}
