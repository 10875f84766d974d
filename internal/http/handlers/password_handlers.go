package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// PasswordHandlers handles recovery and authenticated password changes
type PasswordHandlers struct {
	recoverySvc domain.RecoveryService
	authSvc     domain.AuthService
}

// NewPasswordHandlers creates new password handlers
func NewPasswordHandlers(recoverySvc domain.RecoveryService, authSvc domain.AuthService) *PasswordHandlers {
	return &PasswordHandlers{recoverySvc: recoverySvc, authSvc: authSvc}
}

// ResetRequest starts the recovery flow
type ResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetConfirmRequest completes the recovery flow
type ResetConfirmRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangeRequest replaces the credential for an authenticated user
type ChangeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// RequestReset acknowledges every request the same way so the endpoint
// does not reveal which emails hold accounts.
func (h *PasswordHandlers) RequestReset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.recoverySvc.RequestReset(c.Request.Context(), req.Email); err != nil {
		var rle *domain.RateLimitError
		if errors.As(err, &rle) {
			c.Header("Retry-After", strconv.Itoa(int(rle.RetryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":               "Too many reset requests",
				"retry_after_minutes": rle.RetryAfterMinutes(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process reset request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "If an account exists for this email, a reset code has been sent"},
	})
}

// ConfirmReset completes the recovery flow with the emailed code
func (h *PasswordHandlers) ConfirmReset(c *gin.Context) {
	var req ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.recoverySvc.ConfirmReset(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending reset code"})
		case errors.Is(err, domain.ErrCodeExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code has expired, request a new one"})
		case errors.Is(err, domain.ErrCodeMismatch), errors.Is(err, domain.ErrCodeConsumed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Password reset. All sessions have been signed out."},
	})
}

// Change replaces the credential after re-authentication (requires JWT)
func (h *PasswordHandlers) Change(c *gin.Context) {
	var req ChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userIDStr, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	userID, err := strconv.ParseUint(userIDStr.(string), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	err = h.authSvc.ChangePassword(c.Request.Context(), uint(userID), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Password changed"},
	})
}
