package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/catalog-api/internal/config"
)

func TestVerifyBearer(t *testing.T) {
	srv := &Server{cfg: config.Config{AuthToken: "secret"}}
	cases := []struct {
		header  string
		allowed bool
	}{
		{"Bearer secret", true},
		{"Bearer secret ", true},
		{"Bearer other", false},
		{"Bearer ", false},
		{"secret", false},
		{"", false},
	}
	for _, c := range cases {
		if srv.verifyBearer(c.header) != c.allowed {
			t.Fatalf("verifyBearer(%q) expected %v", c.header, c.allowed)
		}
	}
}

func TestRequireWriteTokenOpenWithoutToken(t *testing.T) {
	srv := &Server{cfg: config.Config{}, logger: zerolog.Nop()}
	called := false
	h := srv.requireWriteToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/movies/1", nil))
	if !called {
		t.Fatalf("write without configured token should pass through")
	}
}

func TestDecodeJSONBody(t *testing.T) {
	srv := &Server{logger: zerolog.Nop()}
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"title":`, http.StatusBadRequest},
		{"syntax", `invalid json`, http.StatusBadRequest},
		{"array", `[1,2]`, http.StatusBadRequest},
		{"null", `null`, http.StatusBadRequest},
		{"empty", ``, http.StatusBadRequest},
		{"trailing", `{"a":1}{"b":2}`, http.StatusBadRequest},
		{"too large", `{"a":"` + strings.Repeat("x", maxRequestBody) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			_, err := decodeJSONBody(rec, req)
			if err == nil {
				t.Fatalf("expected decode error")
			}
			srv.respondDecodeError(rec, err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestDecodeJSONBodyKeepsNumbers(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"us_gross": 2147483647}`))
	body, err := decodeJSONBody(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := body["us_gross"]; got == nil || got.(interface{ String() string }).String() != "2147483647" {
		t.Fatalf("us_gross = %#v, want json.Number", got)
	}
}

func TestPathID(t *testing.T) {
	cases := map[string]bool{
		"1":   true,
		"42":  true,
		"0":   false,
		"-3":  false,
		"abc": false,
		"":    false,
		"1.5": false,
		" 7 ": true,
	}
	for raw, ok := range cases {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		_, err := pathID(req, "id")
		if (err == nil) != ok {
			t.Fatalf("pathID(%q) err = %v, want ok=%v", raw, err, ok)
		}
	}
}

func TestStartShutsDownOnCancel(t *testing.T) {
	srv := &Server{
		cfg:    config.Config{Port: "0"},
		router: chi.NewRouter(),
		logger: zerolog.Nop(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Start() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Start did not return after cancel")
	}
	if err := srv.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("ListenAndServe after Start = %v, want ErrServerClosed", err)
	}
}
