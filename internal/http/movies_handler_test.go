package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"testing"
)

const validMovieBody = `{
	"title": "Inception",
	"description": "A thief who steals corporate secrets through dream-sharing.",
	"release_date": "2010-07-16",
	"rating": 8,
	"us_gross": 292576195,
	"worldwide_gross": 836836967
}`

func TestMoviesCreateAndFetch(t *testing.T) {
	srv := buildTestServer(t)

	rec := srv.do(t, http.MethodPost, "/movies", validMovieBody)
	expectStatus(t, rec, http.StatusCreated)
	movie := decodeObject(t, rec)
	id := int64(movie["id"].(float64))
	if loc := rec.Header().Get("Location"); loc != fmt.Sprintf("/movies/%d", id) {
		t.Fatalf("Location = %q", loc)
	}
	if movie["release_date"] != "2010-07-16" || movie["rating"] != float64(8) {
		t.Fatalf("unexpected movie %v", movie)
	}

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/movies/%d", id), "")
	expectStatus(t, rec, http.StatusOK)
	if got := decodeObject(t, rec); !reflect.DeepEqual(got, movie) {
		t.Fatalf("GET = %v, want %v", got, movie)
	}

	rec = srv.do(t, http.MethodGet, "/movies/999999", "")
	expectStatus(t, rec, http.StatusNotFound)

	rec = srv.do(t, http.MethodGet, "/movies/abc", "")
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestMoviesValidation(t *testing.T) {
	srv := buildTestServer(t)

	tests := []struct {
		name    string
		body    string
		details map[string][]string
	}{
		{
			name:    "rating above range",
			body:    `{"title":"T","description":"D","release_date":"2020-01-01","rating":11}`,
			details: map[string][]string{"rating": {"rating out of range"}},
		},
		{
			name:    "rating below range",
			body:    `{"title":"T","description":"D","release_date":"2020-01-01","rating":0}`,
			details: map[string][]string{"rating": {"rating out of range"}},
		},
		{
			name:    "us gross exceeds worldwide",
			body:    `{"title":"T","description":"D","release_date":"2020-01-01","rating":5,"us_gross":200,"worldwide_gross":100}`,
			details: map[string][]string{"non_field_errors": {"us_gross exceeds worldwide_gross"}},
		},
		{
			name: "missing required fields",
			body: `{}`,
			details: map[string][]string{
				"title":        {"this field is required"},
				"description":  {"this field is required"},
				"release_date": {"this field is required"},
				"rating":       {"this field is required"},
			},
		},
		{
			name: "field errors suppress cross-field check",
			body: `{"title":"T","description":"D","release_date":"2020-01-01","rating":5,"us_gross":"lots","worldwide_gross":1}`,
			details: map[string][]string{
				"us_gross": {"a valid integer is required"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/movies", tt.body)
			expectStatus(t, rec, http.StatusBadRequest)
			code, details := decodeError(t, rec)
			if code != "VALIDATION_ERROR" {
				t.Fatalf("code = %s", code)
			}
			if !reflect.DeepEqual(details, tt.details) {
				t.Fatalf("details = %v, want %v", details, tt.details)
			}
		})
	}

	rec := srv.do(t, http.MethodGet, "/movies", "")
	expectStatus(t, rec, http.StatusOK)
	if items := decodeItems(t, rec); len(items) != 0 {
		t.Fatalf("rejected submissions must not be stored, found %d", len(items))
	}
}

func TestMoviesUpdate(t *testing.T) {
	srv := buildTestServer(t)
	id := srv.createdID(t, "/movies", `{"title":"Indie","description":"Small","release_date":"2019-05-01","rating":6,"us_gross":10,"worldwide_gross":20}`)
	path := fmt.Sprintf("/movies/%d", id)

	// Partial update is checked against the stored worldwide gross.
	rec := srv.do(t, http.MethodPatch, path, `{"us_gross":50}`)
	expectStatus(t, rec, http.StatusBadRequest)
	_, details := decodeError(t, rec)
	if !reflect.DeepEqual(details["non_field_errors"], []string{"us_gross exceeds worldwide_gross"}) {
		t.Fatalf("details = %v", details)
	}

	rec = srv.do(t, http.MethodPatch, path, `{"us_gross":50,"worldwide_gross":80}`)
	expectStatus(t, rec, http.StatusOK)
	movie := decodeObject(t, rec)
	if movie["us_gross"] != float64(50) || movie["title"] != "Indie" {
		t.Fatalf("PATCH result %v", movie)
	}

	// PUT replaces the whole entity and requires every field.
	rec = srv.do(t, http.MethodPut, path, `{"title":"Indie 2"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = srv.do(t, http.MethodPut, path, `{"title":"Indie 2","description":"Sequel","release_date":"2021-05-01","rating":7}`)
	expectStatus(t, rec, http.StatusOK)
	movie = decodeObject(t, rec)
	if movie["title"] != "Indie 2" || movie["us_gross"] != float64(0) || movie["worldwide_gross"] != float64(0) {
		t.Fatalf("PUT must reset omitted grosses to defaults, got %v", movie)
	}

	rec = srv.do(t, http.MethodPatch, "/movies/424242", `{"rating":5}`)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestMoviesListAndDelete(t *testing.T) {
	srv := buildTestServer(t)
	for i := 0; i < 3; i++ {
		srv.createdID(t, "/movies", fmt.Sprintf(`{"title":"Movie %d","description":"D","release_date":"201%d-01-01","rating":%d}`, i, i, i+5))
	}

	rec := srv.do(t, http.MethodGet, "/movies?limit=2", "")
	expectStatus(t, rec, http.StatusOK)
	var page listResponse
	decodeInto(t, rec, &page)
	if len(page.Items) != 2 || page.NextCursor == nil {
		t.Fatalf("first page = %d items, cursor %v", len(page.Items), page.NextCursor)
	}

	rec = srv.do(t, http.MethodGet, "/movies?limit=2&cursor="+url.QueryEscape(*page.NextCursor), "")
	expectStatus(t, rec, http.StatusOK)
	if items := decodeItems(t, rec); len(items) != 1 {
		t.Fatalf("second page = %d items, want 1", len(items))
	}

	rec = srv.do(t, http.MethodGet, "/movies?rating_gte=6", "")
	expectStatus(t, rec, http.StatusOK)
	if items := decodeItems(t, rec); len(items) != 2 {
		t.Fatalf("rating filter = %d items, want 2", len(items))
	}

	rec = srv.do(t, http.MethodGet, "/movies?year=abc", "")
	expectStatus(t, rec, http.StatusBadRequest)

	id := int64(decodeItems(t, srv.do(t, http.MethodGet, "/movies", ""))[0]["id"].(float64))
	rec = srv.do(t, http.MethodDelete, fmt.Sprintf("/movies/%d", id), "")
	expectStatus(t, rec, http.StatusNoContent)
	rec = srv.do(t, http.MethodDelete, fmt.Sprintf("/movies/%d", id), "")
	expectStatus(t, rec, http.StatusNotFound)
}

func TestMoviesMalformedBody(t *testing.T) {
	srv := buildTestServer(t)

	rec := srv.do(t, http.MethodPost, "/movies", "invalid json")
	expectStatus(t, rec, http.StatusBadRequest)
	if code, _ := decodeError(t, rec); code != "BAD_REQUEST" {
		t.Fatalf("code = %s", code)
	}

	rec = srv.do(t, http.MethodPost, "/movies", `["not","an","object"]`)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestMoviesBoxOfficeSync(t *testing.T) {
	srv := buildTestServer(t)

	id := srv.createdID(t, "/movies", `{"title":"Inception","description":"Dreams","release_date":"2010-07-16","rating":8}`)
	rec := srv.do(t, http.MethodPost, fmt.Sprintf("/movies/%d/boxoffice", id), "")
	expectStatus(t, rec, http.StatusOK)
	movie := decodeObject(t, rec)
	if movie["us_gross"] != float64(292576195) || movie["worldwide_gross"] != float64(836836967) {
		t.Fatalf("grosses not synced: %v", movie)
	}

	// Upstream US figure above the stored worldwide gross fails validation.
	flop := srv.createdID(t, "/movies", `{"title":"Flop","description":"D","release_date":"2001-01-01","rating":2}`)
	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/movies/%d/boxoffice", flop), "")
	expectStatus(t, rec, http.StatusBadGateway)
	if code, _ := decodeError(t, rec); code != "UPSTREAM_INVALID" {
		t.Fatalf("code = %s", code)
	}

	unknown := srv.createdID(t, "/movies", `{"title":"Unknown","description":"D","release_date":"2001-01-01","rating":2}`)
	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/movies/%d/boxoffice", unknown), "")
	expectStatus(t, rec, http.StatusNotFound)

	srv.boxOffice = nil
	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/movies/%d/boxoffice", id), "")
	expectStatus(t, rec, http.StatusServiceUnavailable)
}
