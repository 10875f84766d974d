package repositories

import (
	"context"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
	"gorm.io/gorm"
)

// VerificationRepositoryImpl implements domain.VerificationRepository using GORM
type VerificationRepositoryImpl struct {
	db *gorm.DB
}

// DBVerificationCode represents the database model for an issued code
type DBVerificationCode struct {
	ID          uint   `gorm:"primaryKey"`
	SubjectKind string `gorm:"index:idx_subject_channel;size:16"`
	SubjectID   uint   `gorm:"index:idx_subject_channel"`
	Channel     string `gorm:"index:idx_subject_channel;size:16"`
	Code        string `gorm:"size:16"`
	IssuedAt    time.Time
	Consumed    bool
}

// TableName returns the table name for GORM
func (DBVerificationCode) TableName() string {
	return "verification_codes"
}

// NewVerificationRepository creates a new verification code repository
func NewVerificationRepository(db *gorm.DB) domain.VerificationRepository {
	return &VerificationRepositoryImpl{db: db}
}

// Create implements domain.VerificationRepository
func (r *VerificationRepositoryImpl) Create(ctx context.Context, code *domain.VerificationCode) error {
	dbCode := &DBVerificationCode{
		SubjectKind: string(code.SubjectKind),
		SubjectID:   code.SubjectID,
		Channel:     string(code.Channel),
		Code:        code.Code,
		IssuedAt:    code.IssuedAt,
		Consumed:    code.Consumed,
	}
	if err := r.db.WithContext(ctx).Create(dbCode).Error; err != nil {
		return err
	}
	code.ID = dbCode.ID
	return nil
}

// Latest implements domain.VerificationRepository. Ordering by issue
// time makes every older code unreachable, which is how issuing a new
// code supersedes the previous one. Consumed rows are returned too, so
// a superseded code stays invalid after the newest one is used.
func (r *VerificationRepositoryImpl) Latest(ctx context.Context, subject domain.Subject, channel domain.Channel) (*domain.VerificationCode, error) {
	var dbCode DBVerificationCode
	err := r.db.WithContext(ctx).
		Where("subject_kind = ? AND subject_id = ? AND channel = ?",
			string(subject.Kind), subject.ID, string(channel)).
		Order("issued_at DESC, id DESC").
		First(&dbCode).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbCode), nil
}

// Consume implements domain.VerificationRepository. The guarded update is
// the exactly-once gate: of two concurrent callers holding the same row,
// only one sees RowsAffected == 1.
func (r *VerificationRepositoryImpl) Consume(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&DBVerificationCode{}).
		Where("id = ? AND consumed = ?", id, false).
		Update("consumed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteForSubject implements domain.VerificationRepository
func (r *VerificationRepositoryImpl) DeleteForSubject(ctx context.Context, subject domain.Subject) error {
	return r.db.WithContext(ctx).
		Where("subject_kind = ? AND subject_id = ?", string(subject.Kind), subject.ID).
		Delete(&DBVerificationCode{}).Error
}

// dbToDomain converts a database code row to the domain entity
func (r *VerificationRepositoryImpl) dbToDomain(dbCode *DBVerificationCode) *domain.VerificationCode {
	return &domain.VerificationCode{
		ID:          dbCode.ID,
		SubjectKind: domain.SubjectKind(dbCode.SubjectKind),
		SubjectID:   dbCode.SubjectID,
		Channel:     domain.Channel(dbCode.Channel),
		Code:        dbCode.Code,
		IssuedAt:    dbCode.IssuedAt,
		Consumed:    dbCode.Consumed,
	}
}
