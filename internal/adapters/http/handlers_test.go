package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SriBalajiKalepu/SpeedShare/internal/domain"
)

// fakeDirectory is an in-memory stand-in for the Redis directory.
type fakeDirectory struct {
	codes     map[domain.RoomCode]bool
	next      domain.RoomCode
	createErr error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{codes: make(map[domain.RoomCode]bool), next: "X7K2"}
}

func (f *fakeDirectory) CreateUniqueCode(ctx context.Context) (domain.RoomCode, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.codes[f.next] = true
	return f.next, nil
}

func (f *fakeDirectory) Exists(ctx context.Context, code domain.RoomCode) (bool, error) {
	if !code.Valid() {
		return false, domain.ErrInvalidCodeFormat
	}
	return f.codes[code], nil
}

func (f *fakeDirectory) Delete(ctx context.Context, code domain.RoomCode) (bool, error) {
	if !code.Valid() {
		return false, domain.ErrInvalidCodeFormat
	}
	if !f.codes[code] {
		return false, nil
	}
	delete(f.codes, code)
	return true, nil
}

func setupTestRouter(dir *fakeDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewRoomHandlers(dir)
	r.POST("/api/room", h.CreateRoom)
	r.GET("/api/rooms/:code", h.CheckRoom)
	r.DELETE("/api/rooms/:code", h.EndRoom)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body %q: %v", w.Body.String(), err)
	}
	return w, body
}

func TestCreateRoom(t *testing.T) {
	dir := newFakeDirectory()
	r := setupTestRouter(dir)

	w, body := doRequest(t, r, http.MethodPost, "/api/room")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	code, _ := body["code"].(string)
	if len(code) != domain.CodeLen {
		t.Errorf("code = %q, want %d characters", code, domain.CodeLen)
	}
	if !dir.codes[domain.RoomCode(code)] {
		t.Error("created code should be live in the directory")
	}
}

func TestCreateRoomExhausted(t *testing.T) {
	dir := newFakeDirectory()
	dir.createErr = domain.ErrCodeGenerationExhausted
	r := setupTestRouter(dir)

	w, body := doRequest(t, r, http.MethodPost, "/api/room")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body["error"] != "Failed to generate unique room code" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestCheckRoom(t *testing.T) {
	dir := newFakeDirectory()
	dir.codes["X7K2"] = true
	r := setupTestRouter(dir)

	w, body := doRequest(t, r, http.MethodGet, "/api/rooms/X7K2")
	if w.Code != http.StatusOK || body["exists"] != true {
		t.Errorf("status = %d body = %v, want 200 exists:true", w.Code, body)
	}

	// lowercase path param hits the same room
	w, body = doRequest(t, r, http.MethodGet, "/api/rooms/x7k2")
	if w.Code != http.StatusOK || body["exists"] != true {
		t.Errorf("lowercase lookup: status = %d body = %v", w.Code, body)
	}

	w, body = doRequest(t, r, http.MethodGet, "/api/rooms/ZZZZ")
	if w.Code != http.StatusOK || body["exists"] != false {
		t.Errorf("unknown room: status = %d body = %v", w.Code, body)
	}
}

func TestCheckRoomBadCode(t *testing.T) {
	r := setupTestRouter(newFakeDirectory())

	w, body := doRequest(t, r, http.MethodGet, "/api/rooms/ABC")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["exists"] != false || body["error"] == nil {
		t.Errorf("body = %v, want exists:false with error", body)
	}
}

func TestEndRoom(t *testing.T) {
	dir := newFakeDirectory()
	dir.codes["X7K2"] = true
	r := setupTestRouter(dir)

	w, body := doRequest(t, r, http.MethodDelete, "/api/rooms/x7k2")
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("status = %d body = %v, want 200 success:true", w.Code, body)
	}
	if dir.codes["X7K2"] {
		t.Error("room should be gone from the directory")
	}

	w, _ = doRequest(t, r, http.MethodDelete, "/api/rooms/X7K2")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}

	w, _ = doRequest(t, r, http.MethodDelete, "/api/rooms/toolong")
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed code: status = %d, want 400", w.Code)
	}
}
