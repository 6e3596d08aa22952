package httpserver

import (
	"fmt"
	"net/http"
	"reflect"
	"testing"
)

func TestChainNestingAndCascade(t *testing.T) {
	srv := buildTestServer(t)

	c := srv.createdID(t, "/model-c", `{"content":"C content"}`)
	b := srv.createdID(t, "/model-b", fmt.Sprintf(`{"model_c":%d,"content":"B content"}`, c))

	rec := srv.do(t, http.MethodPost, "/model-a", fmt.Sprintf(`{"model_b":%d,"content":"A content"}`, b))
	expectStatus(t, rec, http.StatusCreated)
	a := decodeObject(t, rec)
	want := map[string]any{
		"id": a["id"],
		"model_b": map[string]any{
			"id":      float64(b),
			"content": "B content",
			"model_c": map[string]any{
				"id":      float64(c),
				"content": "C content",
			},
		},
		"content": "A content",
	}
	if !reflect.DeepEqual(a, want) {
		t.Fatalf("model_a = %v, want %v", a, want)
	}

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/model-b/%d", b), "")
	expectStatus(t, rec, http.StatusOK)
	if got := decodeObject(t, rec)["model_c"]; got != float64(c) {
		t.Fatalf("model_b.model_c = %v, want plain id", got)
	}

	rec = srv.do(t, http.MethodGet, "/model-a", "")
	expectStatus(t, rec, http.StatusOK)
	if items := decodeItems(t, rec); len(items) != 1 || !reflect.DeepEqual(items[0], want) {
		t.Fatalf("model_a list = %v", items)
	}

	rec = srv.do(t, http.MethodPost, "/model-b", `{"model_c":424242,"content":"orphan"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = srv.do(t, http.MethodPost, "/model-c", `{"content":""}`)
	expectStatus(t, rec, http.StatusBadRequest)

	expectStatus(t, srv.do(t, http.MethodDelete, fmt.Sprintf("/model-c/%d", c), ""), http.StatusNoContent)
	expectStatus(t, srv.do(t, http.MethodGet, fmt.Sprintf("/model-b/%d", b), ""), http.StatusNotFound)
	expectStatus(t, srv.do(t, http.MethodGet, fmt.Sprintf("/model-a/%d", int64(a["id"].(float64))), ""), http.StatusNotFound)
	expectStatus(t, srv.do(t, http.MethodDelete, fmt.Sprintf("/model-c/%d", c), ""), http.StatusNotFound)
}
