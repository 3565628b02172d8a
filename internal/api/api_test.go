package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"notas/internal/api"
	"notas/internal/auth"
	"notas/internal/middleware"
	"notas/internal/models"
	"notas/internal/store/sqlstore"
)

type apiResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Notes   []models.Note `json:"notes"`
	Note    *models.Note  `json:"note"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	st, err := sqlstore.New("sqlite3", filepath.Join(t.TempDir(), "notas_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sessions := auth.NewMemorySessions(time.Hour)
	authSvc := auth.NewService(st, sessions)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers := api.NewHandlers(st, authSvc, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/register", handlers.RegisterHandler)
	mux.HandleFunc("/api/login", handlers.LoginHandler)
	mux.HandleFunc("/api/logout", handlers.LogoutHandler)
	mux.HandleFunc("/api/notes", handlers.NotesHandler)

	return middleware.Auth(sessions, mux)
}

func do(handler http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func login(t *testing.T, handler http.Handler, username, password string) *http.Cookie {
	t.Helper()
	body := `{"username": "` + username + `", "password": "` + password + `"}`
	if w := do(handler, "POST", "/api/register", body); w.Code != http.StatusOK {
		t.Fatalf("Register failed with status %v", w.Code)
	}
	w := do(handler, "POST", "/api/login", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with status %v", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected session cookie")
	}
	return cookies[0]
}

func TestRegisterAndLogin(t *testing.T) {
	handler := newTestServer(t)

	w := do(handler, "POST", "/api/register", `{"username": "testuser", "password": "password123"}`)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status OK, got %v", w.Code)
	}
	if resp := decode(t, w); !resp.Success {
		t.Errorf("Expected success, got message %q", resp.Message)
	}

	w = do(handler, "POST", "/api/login", `{"username": "testuser", "password": "password123"}`)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status OK, got %v", w.Code)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("Expected session cookie")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	handler := newTestServer(t)

	body := `{"username": "dupuser", "password": "password123"}`
	if w := do(handler, "POST", "/api/register", body); w.Code != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", w.Code)
	}

	w := do(handler, "POST", "/api/register", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status BadRequest, got %v", w.Code)
	}
	if resp := decode(t, w); resp.Success {
		t.Error("Expected failure on duplicate registration")
	}
}

func TestRegisterValidation(t *testing.T) {
	handler := newTestServer(t)

	for _, body := range []string{
		`{"username": "", "password": "password123"}`,
		`{"username": "someuser", "password": ""}`,
	} {
		w := do(handler, "POST", "/api/register", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status BadRequest for %s, got %v", body, w.Code)
		}
	}
}

func TestLoginUniformResponse(t *testing.T) {
	handler := newTestServer(t)

	if w := do(handler, "POST", "/api/register", `{"username": "alice", "password": "rightpw"}`); w.Code != http.StatusOK {
		t.Fatalf("Register failed with status %v", w.Code)
	}

	wrongPw := do(handler, "POST", "/api/login", `{"username": "alice", "password": "wrongpw"}`)
	noUser := do(handler, "POST", "/api/login", `{"username": "nobody", "password": "x"}`)

	if wrongPw.Code != http.StatusUnauthorized || noUser.Code != http.StatusUnauthorized {
		t.Errorf("Expected status Unauthorized for both, got %v and %v", wrongPw.Code, noUser.Code)
	}
	// identical body so responses cannot be used to enumerate usernames
	if wrongPw.Body.String() != noUser.Body.String() {
		t.Errorf("Expected identical responses, got %q and %q", wrongPw.Body.String(), noUser.Body.String())
	}
}

func TestNotesFlow(t *testing.T) {
	handler := newTestServer(t)
	cookie := login(t, handler, "noteuser", "password123")

	w := do(handler, "POST", "/api/notes", `{"content": "hello"}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", w.Code)
	}
	created := decode(t, w)
	if created.Note == nil || created.Note.ID == 0 {
		t.Fatal("Expected created note with an assigned id")
	}
	if created.Note.Content != "hello" {
		t.Errorf("Expected note content 'hello', got %q", created.Note.Content)
	}

	w = do(handler, "GET", "/api/notes", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", w.Code)
	}
	listed := decode(t, w)
	if len(listed.Notes) != 1 {
		t.Fatalf("Expected 1 note, got %d", len(listed.Notes))
	}
	if listed.Notes[0].ID != created.Note.ID || listed.Notes[0].Content != "hello" {
		t.Errorf("Listed note does not match created note: %+v", listed.Notes[0])
	}

	w = do(handler, "DELETE", "/api/notes?id="+strconv.Itoa(created.Note.ID), "", cookie)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status OK, got %v", w.Code)
	}

	w = do(handler, "GET", "/api/notes", "", cookie)
	if listed := decode(t, w); len(listed.Notes) != 0 {
		t.Errorf("Expected 0 notes after delete, got %d", len(listed.Notes))
	}
}

func TestCreateNoteEmptyContent(t *testing.T) {
	handler := newTestServer(t)
	cookie := login(t, handler, "emptyuser", "password123")

	w := do(handler, "POST", "/api/notes", `{"content": ""}`, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status BadRequest, got %v", w.Code)
	}

	w = do(handler, "GET", "/api/notes", "", cookie)
	if listed := decode(t, w); len(listed.Notes) != 0 {
		t.Errorf("Expected 0 notes, got %d", len(listed.Notes))
	}
}

func TestNotesIsolatedBetweenUsers(t *testing.T) {
	handler := newTestServer(t)
	aliceCookie := login(t, handler, "alice", "password123")
	bobCookie := login(t, handler, "bob", "password123")

	w := do(handler, "POST", "/api/notes", `{"content": "alice's secret"}`, aliceCookie)
	noteID := decode(t, w).Note.ID

	w = do(handler, "GET", "/api/notes", "", bobCookie)
	if listed := decode(t, w); len(listed.Notes) != 0 {
		t.Errorf("Expected bob to see 0 notes, got %d", len(listed.Notes))
	}

	// bob's delete reports success but must not remove alice's note
	w = do(handler, "DELETE", "/api/notes?id="+strconv.Itoa(noteID), "", bobCookie)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status OK, got %v", w.Code)
	}

	w = do(handler, "GET", "/api/notes", "", aliceCookie)
	if listed := decode(t, w); len(listed.Notes) != 1 {
		t.Errorf("Expected alice to still have 1 note, got %d", len(listed.Notes))
	}
}

func TestNotesRequireSession(t *testing.T) {
	handler := newTestServer(t)

	w := do(handler, "GET", "/api/notes", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status Unauthorized, got %v", w.Code)
	}

	w = do(handler, "GET", "/api/notes", "", &http.Cookie{Name: api.SessionCookie, Value: "bogus"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status Unauthorized, got %v", w.Code)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	handler := newTestServer(t)
	cookie := login(t, handler, "byeuser", "password123")

	w := do(handler, "POST", "/api/logout", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", w.Code)
	}

	w = do(handler, "GET", "/api/notes", "", cookie)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status Unauthorized after logout, got %v", w.Code)
	}

	// logout without a session is still a success
	w = do(handler, "POST", "/api/logout", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status OK, got %v", w.Code)
	}
}
