package repositories

import (
	"context"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
	"gorm.io/gorm"
)

// RegistrationRepositoryImpl implements domain.RegistrationRepository using GORM
type RegistrationRepositoryImpl struct {
	db *gorm.DB
}

// DBPreRegistration represents the database model for a staged registration
type DBPreRegistration struct {
	ID            uint   `gorm:"primaryKey"`
	Email         string `gorm:"index;size:255"`
	Phone         string `gorm:"index;size:32"`
	Name          string `gorm:"size:255"`
	UserType      string `gorm:"size:64"`
	PasswordHash  string `gorm:"column:password"`
	Token         string `gorm:"uniqueIndex;size:64"`
	EmailVerified bool
	PhoneVerified bool
	Promoted      bool
	CreatedAt     time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBPreRegistration) TableName() string {
	return "pre_registrations"
}

// NewRegistrationRepository creates a new staged-registration repository
func NewRegistrationRepository(db *gorm.DB) domain.RegistrationRepository {
	return &RegistrationRepositoryImpl{db: db}
}

// Create implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) Create(ctx context.Context, reg *domain.PreRegistration) error {
	dbReg := r.domainToDB(reg)
	if err := r.db.WithContext(ctx).Create(dbReg).Error; err != nil {
		return err
	}
	reg.ID = dbReg.ID
	reg.CreatedAt = dbReg.CreatedAt
	return nil
}

// FindByToken implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.PreRegistration, error) {
	var dbReg DBPreRegistration
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&dbReg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbReg), nil
}

// FindByID implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.PreRegistration, error) {
	var dbReg DBPreRegistration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbReg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbReg), nil
}

// DeleteByEmail implements domain.RegistrationRepository. Only incomplete
// attempts are discarded; promoted rows stay as the promotion audit trail.
func (r *RegistrationRepositoryImpl) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("email = ? AND promoted = ?", email, false).
		Delete(&DBPreRegistration{}).Error
}

// MarkChannelVerified implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) MarkChannelVerified(ctx context.Context, id uint, channel domain.Channel) (*domain.PreRegistration, error) {
	column := "email_verified"
	if channel == domain.ChannelPhone {
		column = "phone_verified"
	}

	res := r.db.WithContext(ctx).Model(&DBPreRegistration{}).Where("id = ?", id).Update(column, true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrRegistrationNotFound
	}

	// Reload so the caller sees flags written concurrently by the other channel.
	return r.FindByID(ctx, id)
}

// ClaimPromotion implements domain.RegistrationRepository. The guarded
// update makes the promoted flag a compare-and-swap: the row count tells
// the caller whether it won the claim.
func (r *RegistrationRepositoryImpl) ClaimPromotion(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&DBPreRegistration{}).
		Where("id = ? AND promoted = ?", id, false).
		Update("promoted", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteStale implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ? AND promoted = ?", olderThan, false).
		Delete(&DBPreRegistration{})
	return res.RowsAffected, res.Error
}

// domainToDB converts a domain staged registration to its database model
func (r *RegistrationRepositoryImpl) domainToDB(reg *domain.PreRegistration) *DBPreRegistration {
	return &DBPreRegistration{
		ID:            reg.ID,
		Email:         reg.Email,
		Phone:         reg.Phone,
		Name:          reg.Name,
		UserType:      reg.UserType,
		PasswordHash:  reg.PasswordHash,
		Token:         reg.Token,
		EmailVerified: reg.EmailVerified,
		PhoneVerified: reg.PhoneVerified,
		Promoted:      reg.Promoted,
	}
}

// dbToDomain converts a database staged registration to the domain entity
func (r *RegistrationRepositoryImpl) dbToDomain(dbReg *DBPreRegistration) *domain.PreRegistration {
	return &domain.PreRegistration{
		ID:            dbReg.ID,
		Email:         dbReg.Email,
		Phone:         dbReg.Phone,
		Name:          dbReg.Name,
		UserType:      dbReg.UserType,
		PasswordHash:  dbReg.PasswordHash,
		Token:         dbReg.Token,
		EmailVerified: dbReg.EmailVerified,
		PhoneVerified: dbReg.PhoneVerified,
		Promoted:      dbReg.Promoted,
		CreatedAt:     dbReg.CreatedAt,
	}
}
