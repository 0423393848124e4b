package admin

import (
	"time"

	"github.com/akeren/choosepure-waitlist/internal/models"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	LastLogin *string `json:"last_login"`
}

// SessionResponse is what /verify reports about the current session.
type SessionResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     AdminResponse
}

// ========================================
// Mappers
// ========================================

func ToAdminResponse(admin *models.AdminUser) AdminResponse {
	if admin == nil {
		return AdminResponse{}
	}

	response := AdminResponse{
		ID:    admin.ID,
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	}
	if admin.LastLogin != nil {
		lastLogin := admin.LastLogin.Format(constants.RFC3339DateTimeFormat)
		response.LastLogin = &lastLogin
	}

	return response
}

func ToSessionResponse(claims *Claims) SessionResponse {
	if claims == nil {
		return SessionResponse{}
	}

	response := SessionResponse{
		ID:    claims.AdminID,
		Email: claims.Email,
		Role:  claims.Role,
	}
	if claims.ExpiresAt != nil {
		response.ExpiresAt = claims.ExpiresAt.Format(constants.RFC3339DateTimeFormat)
	}

	return response
}
