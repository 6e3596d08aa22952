package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildMovieFilters(f *testing.F) {
	seeds := []string{
		"q=Inception&rating_gte=7&year=2010",
		"year=abc",
		"limit=200",
		"cursor=eyJpZCI6NDJ9",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		filters, err := buildMovieFilters(values)
		if err != nil {
			return
		}
		if filters.RatingGTE != nil && *filters.RatingGTE < 0 {
			t.Fatalf("negative rating_gte accepted: %d", *filters.RatingGTE)
		}
	})
}
