package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tasknest/tasknest/internal/logger"
	usermodel "github.com/tasknest/tasknest/internal/models/user"
	"github.com/tasknest/tasknest/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	log         *logger.Logger
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         logger.New("auth-handler"),
	}
}

type authResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    usermodel.Public `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req usermodel.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		Token:   result.Token,
		User:    result.User,
	})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req usermodel.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}
