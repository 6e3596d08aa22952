package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/catalog-api/internal/logging"
)

type movieEntry struct {
	Title          string `json:"title"`
	USGross        *int64 `json:"usGross"`
	WorldwideGross *int64 `json:"worldwideGross"`
}

func gross(v int64) *int64 { return &v }

var builtin = map[string]movieEntry{
	"Inception":    {Title: "Inception", USGross: gross(292576195), WorldwideGross: gross(836836967)},
	"The Matrix":   {Title: "The Matrix", USGross: gross(171479930), WorldwideGross: gross(467222728)},
	"Interstellar": {Title: "Interstellar", USGross: gross(188020017), WorldwideGross: gross(677471339)},
}

func main() {
	var (
		port   = flag.String("port", "9099", "port to listen on")
		data   = flag.String("data", "", "path to mock data file (built-in titles when empty)")
		apiKey = flag.String("api-key", "", "required X-API-Key value (any key accepted when empty)")
		level  = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger := logging.New(*level, "console")

	payload := builtin
	if *data != "" {
		file, err := os.ReadFile(*data)
		if err != nil {
			logger.Fatal().Err(err).Msg("read mock data")
		}
		payload = map[string]movieEntry{}
		if err := json.Unmarshal(file, &payload); err != nil {
			logger.Fatal().Err(err).Msg("parse mock data")
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/boxoffice", func(w http.ResponseWriter, r *http.Request) {
		if *apiKey != "" && r.Header.Get("X-API-Key") != *apiKey {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		title := strings.TrimSpace(r.URL.Query().Get("title"))
		entry, ok := payload[title]
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		logger.Debug().Str("title", title).Msg("served mock entry")
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entry); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	addr := ":" + *port
	logger.Info().Str("addr", addr).Int("entries", len(payload)).Msg("mock boxoffice listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
