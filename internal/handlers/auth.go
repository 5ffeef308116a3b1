package handlers

import (
	"net/http"

	"github.com/xelth-com/swiftlog/internal/middleware"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/services/logistics"
	"github.com/xelth-com/swiftlog/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// login handles operator login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if !decode(w, req, &loginReq) {
		return
	}

	user, err := r.svc.Authenticate(loginReq.Email, loginReq.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	r.respondTokens(w, http.StatusOK, user, "")
}

// register handles operator registration
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var in logistics.RegisterInput
	if !decode(w, req, &in) {
		return
	}

	user, err := r.svc.Register(req.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	r.respondTokens(w, http.StatusCreated, user, "User registered successfully")
}

// refresh exchanges a refresh token for a new token pair
func (r *Router) refresh(w http.ResponseWriter, req *http.Request) {
	var in RefreshRequest
	if !decode(w, req, &in) {
		return
	}

	claims, err := utils.ValidateToken(in.RefreshToken, r.secret)
	if err != nil || claims["type"] != "refresh" {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	id, _ := claims["id"].(string)
	user, err := r.svc.User(id)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	r.respondTokens(w, http.StatusOK, user, "")
}

// logout handles user logout
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	// Tokens are stateless; the client discards them
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// me returns the operator behind the access token
func (r *Router) me(w http.ResponseWriter, req *http.Request) {
	claims, _ := middleware.ClaimsFromContext(req.Context())
	id, _ := claims["id"].(string)
	user, err := r.svc.User(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (r *Router) respondTokens(w http.ResponseWriter, status int, user models.User, message string) {
	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	response := map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	}
	if message != "" {
		response["message"] = message
	}
	respondJSON(w, status, response)
}
