package http

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestCourseCRUD(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "alice", "alice@x.com", "longpass1")

	w := ts.do(t, http.MethodPost, "/api/courses/", map[string]any{
		"title":  "Go desde cero",
		"price":  "49.99",
		"author": "R. Pike",
		"link":   "https://example.com/go",
	}, withCookie(cookie))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)
	courseID := created["id"].(string)
	if courseID == "" {
		t.Fatal("expected assigned course id")
	}

	w = ts.do(t, http.MethodGet, "/api/courses/", nil, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var listed []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0]["title"] != "Go desde cero" {
		t.Fatalf("unexpected list: %v", listed)
	}

	w = ts.do(t, http.MethodPatch, "/api/courses/"+courseID+"/", map[string]any{
		"price": "59.99",
	}, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	patched := decodeBody(t, w)
	if patched["price"] != "59.99" || patched["title"] != "Go desde cero" {
		t.Fatalf("partial update wrong result: %v", patched)
	}

	w = ts.do(t, http.MethodDelete, "/api/courses/"+courseID+"/", nil, withCookie(cookie))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = ts.do(t, http.MethodGet, "/api/courses/"+courseID+"/", nil, withCookie(cookie))
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestCreateCourseValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "alice", "alice@x.com", "longpass1")

	w := ts.do(t, http.MethodPost, "/api/courses/", map[string]any{
		"price": "not-a-price",
	}, withCookie(cookie))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	errs := decodeBody(t, w)["errors"].(map[string]any)
	if _, ok := errs["title"]; !ok {
		t.Errorf("expected title error, got %v", errs)
	}
	if _, ok := errs["price"]; !ok {
		t.Errorf("expected price error, got %v", errs)
	}
}

func TestCompletedCourseFlow(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "alice", "alice@x.com", "longpass1")

	var accountID string
	for id := range ts.accountRepo.accounts {
		accountID = id
	}

	w := ts.do(t, http.MethodPost, "/api/courses/", map[string]any{
		"title": "Go desde cero",
		"price": "49.99",
	}, withCookie(cookie))
	if w.Code != http.StatusCreated {
		t.Fatalf("create course: expected 201, got %d", w.Code)
	}
	courseID := decodeBody(t, w)["id"].(string)

	w = ts.do(t, http.MethodPost, "/api/courses/completedcourses/", map[string]any{
		"course": "does-not-exist",
		"user":   accountID,
	}, withCookie(cookie))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid reference: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodPost, "/api/courses/completedcourses/", map[string]any{
		"course": courseID,
		"user":   accountID,
	}, withCookie(cookie))
	if w.Code != http.StatusCreated {
		t.Fatalf("create completed: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	completedID := decodeBody(t, w)["id"].(string)

	w = ts.do(t, http.MethodGet, "/api/courses/completedcourses/"+completedID+"/", nil, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("get completed: expected 200, got %d", w.Code)
	}

	w = ts.do(t, http.MethodDelete, "/api/courses/completedcourses/"+completedID+"/", nil, withCookie(cookie))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete completed: expected 204, got %d", w.Code)
	}
}
