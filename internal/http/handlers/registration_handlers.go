package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// RegistrationHandlers exposes the staged-registration flow: stage,
// verify each channel, resend codes.
type RegistrationHandlers struct {
	regSvc domain.RegistrationService
}

// NewRegistrationHandlers creates new registration handlers
func NewRegistrationHandlers(regSvc domain.RegistrationService) *RegistrationHandlers {
	return &RegistrationHandlers{regSvc: regSvc}
}

// RegisterRequest represents a staged registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	UserType string `json:"user_type,omitempty"`
}

// VerifyRequest carries the promotion token and the submitted code
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
	Code  string `json:"otp" binding:"required"`
}

// ResendRequest carries the promotion token for a code resend
type ResendRequest struct {
	Token string `json:"token" binding:"required"`
}

// Register stages a registration and sends both channel codes
func (h *RegistrationHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userType := req.UserType
	if userType == "" {
		userType = domain.UserTypeStudent
	}

	reg, err := h.regSvc.Register(c.Request.Context(), domain.RegistrationRequest{
		Email:    req.Email,
		Phone:    req.Phone,
		Name:     req.Name,
		Password: req.Password,
		UserType: userType,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email or phone already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message":   "Registration staged. Verify both your email and phone to activate the account.",
			"pre_token": reg.Token,
			"status":    reg.Status(),
		},
	})
}

// VerifyEmail verifies the email channel
func (h *RegistrationHandlers) VerifyEmail(c *gin.Context) {
	h.verify(c, domain.ChannelEmail)
}

// VerifyPhone verifies the phone channel
func (h *RegistrationHandlers) VerifyPhone(c *gin.Context) {
	h.verify(c, domain.ChannelPhone)
}

func (h *RegistrationHandlers) verify(c *gin.Context, channel domain.Channel) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.regSvc.VerifyChannel(c.Request.Context(), req.Token, channel, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyPromoted):
			// Replays normally carry the existing account; when the
			// lookup fails the response still reads as success.
			c.JSON(http.StatusOK, gin.H{
				"data": gin.H{"verified": true, "promoted": true},
			})
		case errors.Is(err, domain.ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		case errors.Is(err, domain.ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending code for this channel"})
		case errors.Is(err, domain.ErrCodeExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code has expired, request a new one"})
		case errors.Is(err, domain.ErrCodeMismatch), errors.Is(err, domain.ErrCodeConsumed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	resp := gin.H{"verified": outcome.Verified, "promoted": outcome.Promoted}
	if outcome.Promoted && outcome.User != nil {
		resp["user"] = gin.H{
			"id":    outcome.User.ID,
			"email": outcome.User.Email,
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ResendEmail issues a fresh email code
func (h *RegistrationHandlers) ResendEmail(c *gin.Context) {
	h.resend(c, domain.ChannelEmail)
}

// ResendPhone issues a fresh phone code
func (h *RegistrationHandlers) ResendPhone(c *gin.Context) {
	h.resend(c, domain.ChannelPhone)
}

func (h *RegistrationHandlers) resend(c *gin.Context, channel domain.Channel) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.regSvc.ResendCode(c.Request.Context(), req.Token, channel)
	if err != nil {
		var rle *domain.RateLimitError
		switch {
		case errors.As(err, &rle):
			c.Header("Retry-After", strconv.Itoa(int(rle.RetryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":               "Too many codes requested",
				"retry_after_minutes": rle.RetryAfterMinutes(),
			})
		case errors.Is(err, domain.ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		case errors.Is(err, domain.ErrAlreadyPromoted):
			c.JSON(http.StatusConflict, gin.H{"error": "Registration already completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "A new code has been sent"},
	})
}
