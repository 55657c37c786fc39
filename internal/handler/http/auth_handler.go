package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/auth"
	"github.com/shelfline/bookmarket/internal/user"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=buyer seller"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type SessionResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type AuthHandler struct {
	service  auth.Service
	validate *validator.Validate
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service, validate: validator.New()}
}

func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/profile", h.handleProfile)
	r.Post("/auth/logout", h.handleLogout)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	u, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, user.Role(req.Role))
	if err != nil {
		log.Error().Err(err).Msg("Failed to register user")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to register user"))
		return
	}

	respondWithJSON(w, http.StatusCreated, SessionResponse{User: userResponse(u), Token: token})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	u, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to log in"))
		return
	}

	respondWithJSON(w, http.StatusOK, SessionResponse{User: userResponse(u), Token: token})
}

func (h *AuthHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]auth.Identity{"user": id})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerTokenFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "access token required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		log.Error().Err(err).Msg("Failed to revoke token")
		respondWithError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func bearerTokenFromRequest(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return "", false
	}
	return header[len(prefix):], true
}

func userResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role.String(),
	}
}
