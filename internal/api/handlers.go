package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"notas/internal/auth"
	"notas/internal/models"
	"notas/internal/store"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session_token"

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type notesResponse struct {
	Success bool          `json:"success"`
	Notes   []models.Note `json:"notes"`
}

type noteResponse struct {
	Success bool         `json:"success"`
	Note    *models.Note `json:"note"`
}

// Handlers holds the dependencies of every API endpoint. Stores and the
// session backend are injected so tests can substitute them.
type Handlers struct {
	store store.Store
	auth  *auth.Service
	log   *slog.Logger
}

func NewHandlers(st store.Store, authSvc *auth.Service, log *slog.Logger) *Handlers {
	return &Handlers{store: st, auth: authSvc, log: log}
}

func writeJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeMessage(w http.ResponseWriter, status int, success bool, msg string) {
	writeJSON(w, status, messageResponse{Success: success, Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeMessage(w, status, false, msg)
}

func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := h.auth.Register(u.Username, u.Password)
	switch {
	case errors.Is(err, auth.ErrValidation):
		writeError(w, http.StatusBadRequest, "username and password are required")
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "username already taken")
	case err != nil:
		h.log.Error("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not register user")
	default:
		writeMessage(w, http.StatusOK, true, "user registered")
	}
}

func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.auth.Login(u.Username, u.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, true, "logged in")
}

func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if c, err := r.Cookie(SessionCookie); err == nil {
		h.auth.Logout(c.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	writeMessage(w, http.StatusOK, true, "logged out")
}

func (h *Handlers) NotesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		notes, err := h.store.ListNotes(userID)
		if err != nil {
			h.log.Error("listing notes failed", "error", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "could not fetch notes")
			return
		}
		if notes == nil {
			notes = []models.Note{}
		}
		writeJSON(w, http.StatusOK, notesResponse{Success: true, Notes: notes})

	case http.MethodPost:
		var n models.Note
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		note, err := h.store.CreateNote(userID, n.Content)
		if err != nil {
			if errors.Is(err, store.ErrEmptyContent) {
				writeError(w, http.StatusBadRequest, "note content cannot be empty")
				return
			}
			h.log.Error("creating note failed", "error", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "could not save note")
			return
		}
		writeJSON(w, http.StatusOK, noteResponse{Success: true, Note: note})

	case http.MethodDelete:
		noteID, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid note ID")
			return
		}
		err = h.store.DeleteNote(noteID, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			h.log.Error("deleting note failed", "error", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "could not delete note")
			return
		}
		// A missing note and another user's note look the same here, and
		// both report success so note ids cannot be probed.
		writeMessage(w, http.StatusOK, true, "note deleted")

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
