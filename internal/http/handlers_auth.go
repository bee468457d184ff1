package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

type userPayload struct {
	ID              string `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
	CreatedAt       string `json:"createdAt"`
}

func buildUserPayload(u core.User) userPayload {
	return userPayload{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName        string `json:"fullName"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ProfileImageURL string `json:"profileImageUrl"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := core.User{
		ID:              uuid.NewString(),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:        strings.TrimSpace(req.FullName),
		ProfileImageURL: req.ProfileImageURL,
		CreatedAt:       time.Now().UTC(),
	}
	if err := user.ValidateRegistration(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Password hashing failed",
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpRegister)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	user.PasswordHash = hash

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		s.logger.ErrorContext(r.Context(), "User creation failed",
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpRegister)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Token generation failed",
			applog.FieldError, err.Error(),
			applog.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	s.logger.InfoContext(r.Context(), "User registered",
		applog.FieldUserID, user.ID,
		applog.FieldOperation, applog.OpRegister)

	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  buildUserPayload(user),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same answer as a wrong password, no account probing.
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.ErrorContext(r.Context(), "User lookup failed",
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpLogin)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Token generation failed",
			applog.FieldError, err.Error(),
			applog.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.logger.InfoContext(r.Context(), "User logged in",
		applog.FieldUserID, user.ID,
		applog.FieldOperation, applog.OpLogin)

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  buildUserPayload(user),
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), userID(r.Context()))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "user lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, buildUserPayload(user))
}

// imageExtensions is the upload allow-list, matched case-insensitively.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "image too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		writeError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.logger.ErrorContext(r.Context(), "Upload dir creation failed",
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpUpload)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, name))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Upload file creation failed",
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpUpload)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	imageURL := s.cfg.BaseURL + "/uploads/" + name
	uid := userID(r.Context())
	if err := s.store.SetProfileImage(r.Context(), uid, imageURL); err != nil {
		s.logger.ErrorContext(r.Context(), "Profile image update failed",
			applog.FieldError, err.Error(),
			applog.FieldUserID, uid)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	s.logger.InfoContext(r.Context(), "Profile image uploaded",
		applog.FieldUserID, uid,
		applog.FieldOperation, applog.OpUpload)

	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}
