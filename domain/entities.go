package domain

import "time"

// Channel is a verification path a subject can prove ownership of.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// SubjectKind distinguishes what a verification code is scoped to.
type SubjectKind string

const (
	SubjectStaged  SubjectKind = "prereg"
	SubjectAccount SubjectKind = "account"
)

// Subject identifies the owner of a verification history.
type Subject struct {
	Kind SubjectKind
	ID   uint
}

// User types accepted at registration time.
const (
	UserTypeStudent    = "student"
	UserTypeConsultant = "consultant"
	UserTypeCounsellor = "counsellor"
	UserTypeAdmin      = "admin"
)

// User represents a durable, promoted account.
type User struct {
	ID            uint
	Email         string
	Phone         string
	Name          string
	PasswordHash  string `gorm:"column:password"`
	UserType      string
	IsActive      bool
	EmailVerified bool
	PhoneVerified bool
	Verified      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RegistrationStatus is the staged-registration state machine readout.
type RegistrationStatus string

const (
	StatusPendingBoth  RegistrationStatus = "pending_both"
	StatusPendingEmail RegistrationStatus = "pending_email"
	StatusPendingPhone RegistrationStatus = "pending_phone"
	StatusVerifiedBoth RegistrationStatus = "verified_both"
	StatusPromoted     RegistrationStatus = "promoted"
)

// PreRegistration is a staged registration awaiting channel proof.
// The token is the only handle ever exposed outside the service.
type PreRegistration struct {
	ID            uint
	Email         string
	Phone         string
	Name          string
	UserType      string
	PasswordHash  string
	Token         string
	EmailVerified bool
	PhoneVerified bool
	Promoted      bool
	CreatedAt     time.Time
}

// Status derives the state-machine position from the verification flags.
func (p *PreRegistration) Status() RegistrationStatus {
	switch {
	case p.Promoted:
		return StatusPromoted
	case p.EmailVerified && p.PhoneVerified:
		return StatusVerifiedBoth
	case p.EmailVerified:
		return StatusPendingPhone
	case p.PhoneVerified:
		return StatusPendingEmail
	default:
		return StatusPendingBoth
	}
}

// FullyVerified reports whether both channels have been proven.
func (p *PreRegistration) FullyVerified() bool {
	return p.EmailVerified && p.PhoneVerified
}

// Subject returns the verification subject for this staged registration.
func (p *PreRegistration) Subject() Subject {
	return Subject{Kind: SubjectStaged, ID: p.ID}
}

// VerificationCode is a single issued OTP for a (subject, channel) pair.
// Only the most recently issued unconsumed row is authoritative.
type VerificationCode struct {
	ID          uint
	SubjectKind SubjectKind
	SubjectID   uint
	Channel     Channel
	Code        string
	IssuedAt    time.Time
	Consumed    bool
}

// ExpiredAt reports whether the code's TTL has elapsed at the given instant.
func (v *VerificationCode) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(v.IssuedAt) > ttl
}

// RegistrationRequest carries validated registration input.
type RegistrationRequest struct {
	Email    string
	Phone    string
	Name     string
	Password string
	UserType string
}

// VerificationOutcome is the result of a channel verification call.
// Promoted is true once both channels are proven and the durable
// account exists; User is set whenever Promoted is true.
type VerificationOutcome struct {
	Verified bool
	Promoted bool
	User     *User
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// Session represents a user session
type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// OperationClass names a rate-limited operation family.
type OperationClass string

const (
	OpResend OperationClass = "resend"
	OpReset  OperationClass = "reset"
)

// RateLimitPolicy is the sliding-window cap for one operation class.
type RateLimitPolicy struct {
	Max    int
	Window time.Duration
}
