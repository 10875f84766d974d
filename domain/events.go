package domain

import "time"

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Registration lifecycle events
	RegistrationStagedEvent   AuditEventType = "REGISTRATION_STAGED"
	ChannelVerifiedEvent      AuditEventType = "CHANNEL_VERIFIED"
	ChannelVerifyFailureEvent AuditEventType = "CHANNEL_VERIFY_FAILED"
	AccountPromotedEvent      AuditEventType = "ACCOUNT_PROMOTED"
	RegistrationReclaimEvent  AuditEventType = "REGISTRATION_RECLAIMED"

	// Code issuance events
	CodeIssuedEvent       AuditEventType = "CODE_ISSUED"
	CodeResendDeniedEvent AuditEventType = "CODE_RESEND_DENIED"

	// Recovery events
	PasswordResetRequestEvent AuditEventType = "PASSWORD_RESET_REQUESTED"
	PasswordResetDoneEvent    AuditEventType = "PASSWORD_RESET_COMPLETED"

	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserLogoutEvent       AuditEventType = "USER_LOGOUT"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType `json:"event_type"`
	SubjectID uint           `json:"subject_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Channel   Channel        `json:"channel,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	ErrorMsg  string         `json:"error_msg,omitempty"`
	Success   bool           `json:"success"`
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, subjectID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithPhone sets the phone field
func (e *AuditEvent) WithPhone(phone string) *AuditEvent {
	e.Phone = phone
	return e
}

// WithChannel sets the channel field
func (e *AuditEvent) WithChannel(ch Channel) *AuditEvent {
	e.Channel = ch
	return e
}
