package fakeapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/memorymap/internal/netx"
)

type userView struct {
	ID             string    `json:"userId"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *user) view() userView {
	return userView{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type authResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    userView `json:"user"`
}

// AddUser seeds an account and returns its id.
func (s *Server) AddUser(username, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.byEmail[key]; ok {
		return "", ErrEmailTaken
	}

	now := s.now().UTC()
	u := &user{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	s.byEmail[key] = u.ID
	return u.ID, nil
}

func (s *Server) lookup(id string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(w, r, &req) {
		return
	}
	for _, f := range []struct{ name, val string }{
		{"username", req.Username},
		{"email", req.Email},
		{"password", req.Password},
	} {
		if strings.TrimSpace(f.val) == "" {
			writeError(w, http.StatusBadRequest, f.name+" is required")
			return
		}
	}

	id, err := s.AddUser(req.Username, req.Email, req.Password)
	if errors.Is(err, ErrEmailTaken) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.log.Error(r.Context(), "register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.respondAuth(w, r, http.StatusCreated, "User registered successfully", id)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	id, ok := s.byEmail[strings.ToLower(req.Email)]
	var hash []byte
	if ok {
		hash = s.users[id].PasswordHash
	}
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.respondAuth(w, r, http.StatusOK, "Login successful", id)
}

func (s *Server) respondAuth(w http.ResponseWriter, r *http.Request, status int, msg, id string) {
	u, ok := s.lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, ErrUserNotFound.Error())
		return
	}
	token, err := s.issueToken(id)
	if err != nil {
		s.log.Error(r.Context(), "issue token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, status, authResponse{Message: msg, Token: token, User: u.view()})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	u, ok := s.lookup(callerID(r.Context()))
	if !ok {
		writeError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "user": u.view()})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.lookup(callerID(r.Context()))
	if !ok {
		writeError(w, http.StatusNotFound, ErrUserNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, u.view())
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, ErrUserNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, u.view())
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != callerID(r.Context()) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req struct {
		Username       *string `json:"username"`
		Email          *string `json:"email"`
		ProfilePicture *string `json:"profile_picture"`
	}
	if !bindJSON(w, r, &req) {
		return
	}

	// an inline picture is stored like an upload and replaced by its URL
	var inline *avatar
	var inlineName string
	if req.ProfilePicture != nil && strings.HasPrefix(*req.ProfilePicture, "data:") {
		mediaType, data, err := netx.ParseDataURI(*req.ProfilePicture)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid profile picture")
			return
		}
		if !strings.HasPrefix(mediaType, "image/") {
			writeError(w, http.StatusBadRequest, "Only image files are allowed")
			return
		}
		if int64(len(data)) > maxAvatarBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		inline = &avatar{ContentType: mediaType, Data: data}
		inlineName = uuid.NewString()
		url := "http://" + r.Host + "/avatars/" + inlineName
		req.ProfilePicture = &url
	}

	s.mu.Lock()
	u, ok := s.users[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, ErrUserNotFound.Error())
		return
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, u.Email) {
		key := strings.ToLower(*req.Email)
		if _, taken := s.byEmail[key]; taken {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, ErrEmailTaken.Error())
			return
		}
		delete(s.byEmail, strings.ToLower(u.Email))
		s.byEmail[key] = id
		u.Email = *req.Email
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.ProfilePicture != nil {
		u.ProfilePicture = *req.ProfilePicture
	}
	if inline != nil {
		s.avatars[inlineName] = *inline
	}
	u.UpdatedAt = s.now().UTC()
	view := u.view()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != callerID(r.Context()) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	file, header, err := r.FormFile("profile_picture")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	name := uuid.NewString() + path.Ext(header.Filename)
	url := "http://" + r.Host + "/avatars/" + name

	s.mu.Lock()
	s.avatars[name] = avatar{ContentType: contentType, Data: data}
	if u, ok := s.users[id]; ok {
		u.ProfilePicture = url
		u.UpdatedAt = s.now().UTC()
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	a, ok := s.avatars[chi.URLParam(r, "name")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Avatar not found")
		return
	}
	w.Header().Set("Content-Type", a.ContentType)
	_, _ = w.Write(a.Data)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entry
	if !bindJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "userId and title are required")
		return
	}

	req.ID = uuid.NewString()
	s.mu.Lock()
	s.entries = append(s.entries, req)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Entry created", "entryId": req.ID})
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	out := make([]entry, 0)
	for _, e := range s.entries {
		if e.UserID == id {
			out = append(out, e)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}
