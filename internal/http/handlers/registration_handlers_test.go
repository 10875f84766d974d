package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahuajaykumar2004-dot/EP/domain"
	"github.com/sahuajaykumar2004-dot/EP/internal/mocks"
)

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func registrationRouter(svc domain.RegistrationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRegistrationHandlers(svc)
	r := gin.New()
	r.POST("/api/users/register", h.Register)
	r.POST("/api/users/verify/email", h.VerifyEmail)
	r.POST("/api/users/verify/phone", h.VerifyPhone)
	r.POST("/api/users/resend/email", h.ResendEmail)
	r.POST("/api/users/resend/phone", h.ResendPhone)
	return r
}

func TestRegistrationHandlers_Register(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*mocks.MockRegistrationService)
		expectedStatus int
		validateBody   func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "successful staging returns the promotion token",
			requestBody: RegisterRequest{
				Email:    "student@example.com",
				Phone:    "+8613800000000",
				Name:     "Wang Wei",
				Password: "securepassword123",
			},
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.RegisterFunc = func(ctx context.Context, req domain.RegistrationRequest) (*domain.PreRegistration, error) {
					if req.UserType != domain.UserTypeStudent {
						t.Errorf("expected default student type, got %s", req.UserType)
					}
					return &domain.PreRegistration{ID: 1, Email: req.Email, Token: "tok_abc"}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["pre_token"] != "tok_abc" {
					t.Errorf("expected pre_token in response, got %v", data)
				}
				if data["status"] != "pending_both" {
					t.Errorf("expected pending_both status, got %v", data["status"])
				}
			},
		},
		{
			name: "duplicate account",
			requestBody: RegisterRequest{
				Email:    "taken@example.com",
				Phone:    "+8613800000000",
				Name:     "Wang Wei",
				Password: "securepassword123",
			},
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.RegisterFunc = func(ctx context.Context, req domain.RegistrationRequest) (*domain.PreRegistration, error) {
					return nil, domain.ErrUserAlreadyExists
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "missing email",
			requestBody: map[string]string{
				"phone":    "+8613800000000",
				"name":     "Wang Wei",
				"password": "securepassword123",
			},
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "short password",
			requestBody: map[string]string{
				"email":    "student@example.com",
				"phone":    "+8613800000000",
				"name":     "Wang Wei",
				"password": "short",
			},
			setupMocks:     func(svc *mocks.MockRegistrationService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockRegistrationService()
			tt.setupMocks(svc)
			r := registrationRouter(svc)

			w := performJSON(t, r, http.MethodPost, "/api/users/register", tt.requestBody)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateBody != nil {
				tt.validateBody(t, decodeBody(t, w))
			}
		})
	}
}

func TestRegistrationHandlers_Verify(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		wantChannel    domain.Channel
		setupMocks     func(*mocks.MockRegistrationService)
		expectedStatus int
		validateBody   func(t *testing.T, body map[string]interface{})
	}{
		{
			name:        "email verified without promotion",
			path:        "/api/users/verify/email",
			wantChannel: domain.ChannelEmail,
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.VerifyChannelFunc = func(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error) {
					return &domain.VerificationOutcome{Verified: true}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["verified"] != true || data["promoted"] != false {
					t.Errorf("expected verified-only outcome, got %v", data)
				}
			},
		},
		{
			name:        "phone verification completes the account",
			path:        "/api/users/verify/phone",
			wantChannel: domain.ChannelPhone,
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.VerifyChannelFunc = func(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error) {
					return &domain.VerificationOutcome{
						Verified: true,
						Promoted: true,
						User:     &domain.User{ID: 11, Email: "student@example.com"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["promoted"] != true {
					t.Errorf("expected promoted outcome, got %v", data)
				}
				user := data["user"].(map[string]interface{})
				if user["id"] != float64(11) {
					t.Errorf("expected promoted user in response, got %v", user)
				}
			},
		},
		{
			name:        "replay without an account lookup still reads as success",
			path:        "/api/users/verify/email",
			wantChannel: domain.ChannelEmail,
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.VerifyChannelFunc = func(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error) {
					return nil, domain.ErrAlreadyPromoted
				}
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["verified"] != true || data["promoted"] != true {
					t.Errorf("expected success-equivalent response, got %v", data)
				}
			},
		},
		{
			name:        "unknown token",
			path:        "/api/users/verify/email",
			wantChannel: domain.ChannelEmail,
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.VerifyChannelFunc = func(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error) {
					return nil, domain.ErrRegistrationNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "expired code",
			path:        "/api/users/verify/phone",
			wantChannel: domain.ChannelPhone,
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.VerifyChannelFunc = func(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error) {
					return nil, domain.ErrCodeExpired
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "wrong code",
			path:        "/api/users/verify/phone",
			wantChannel: domain.ChannelPhone,
			setupMocks: func(svc *mocks.MockRegistrationService) {
				svc.VerifyChannelFunc = func(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error) {
					return nil, domain.ErrCodeMismatch
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockRegistrationService()
			tt.setupMocks(svc)

			var gotChannel domain.Channel
			wrapped := svc.VerifyChannelFunc
			svc.VerifyChannelFunc = func(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error) {
				gotChannel = channel
				return wrapped(ctx, token, channel, code)
			}
			r := registrationRouter(svc)

			w := performJSON(t, r, http.MethodPost, tt.path, VerifyRequest{Token: "tok_abc", Code: "123456"})

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if gotChannel != tt.wantChannel {
				t.Errorf("expected channel %s, got %s", tt.wantChannel, gotChannel)
			}
			if tt.validateBody != nil {
				tt.validateBody(t, decodeBody(t, w))
			}
		})
	}
}

func TestRegistrationHandlers_Resend(t *testing.T) {
	t.Run("successful resend", func(t *testing.T) {
		svc := mocks.NewMockRegistrationService()
		var gotChannel domain.Channel
		svc.ResendCodeFunc = func(ctx context.Context, token string, channel domain.Channel) error {
			gotChannel = channel
			return nil
		}
		r := registrationRouter(svc)

		w := performJSON(t, r, http.MethodPost, "/api/users/resend/phone", ResendRequest{Token: "tok_abc"})

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotChannel != domain.ChannelPhone {
			t.Errorf("expected phone channel, got %s", gotChannel)
		}
	})

	t.Run("rate limited resend returns retry-after", func(t *testing.T) {
		svc := mocks.NewMockRegistrationService()
		svc.ResendCodeFunc = func(ctx context.Context, token string, channel domain.Channel) error {
			return &domain.RateLimitError{RetryAfter: 7 * time.Minute}
		}
		r := registrationRouter(svc)

		w := performJSON(t, r, http.MethodPost, "/api/users/resend/email", ResendRequest{Token: "tok_abc"})

		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d: %s", w.Code, w.Body.String())
		}
		if w.Header().Get("Retry-After") == "" {
			t.Error("expected Retry-After header")
		}
		body := decodeBody(t, w)
		if body["retry_after_minutes"] != float64(7) {
			t.Errorf("expected retry_after_minutes 7, got %v", body["retry_after_minutes"])
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := mocks.NewMockRegistrationService()
		svc.ResendCodeFunc = func(ctx context.Context, token string, channel domain.Channel) error {
			return domain.ErrRegistrationNotFound
		}
		r := registrationRouter(svc)

		w := performJSON(t, r, http.MethodPost, "/api/users/resend/email", ResendRequest{Token: "missing"})

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("completed registration", func(t *testing.T) {
		svc := mocks.NewMockRegistrationService()
		svc.ResendCodeFunc = func(ctx context.Context, token string, channel domain.Channel) error {
			return domain.ErrAlreadyPromoted
		}
		r := registrationRouter(svc)

		w := performJSON(t, r, http.MethodPost, "/api/users/resend/email", ResendRequest{Token: "tok_abc"})

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})
}
