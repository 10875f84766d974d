package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

func TestVerificationRepositoryImpl_Latest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	subject := domain.Subject{Kind: domain.SubjectStaged, ID: 1}

	if _, err := repo.Latest(ctx, subject, domain.ChannelEmail); err != domain.ErrCodeNotFound {
		t.Fatalf("expected ErrCodeNotFound on empty store, got %v", err)
	}

	older := &domain.VerificationCode{
		SubjectKind: subject.Kind, SubjectID: subject.ID,
		Channel: domain.ChannelEmail, Code: "111111",
		IssuedAt: time.Now().Add(-2 * time.Minute),
	}
	newer := &domain.VerificationCode{
		SubjectKind: subject.Kind, SubjectID: subject.ID,
		Channel: domain.ChannelEmail, Code: "222222",
		IssuedAt: time.Now(),
	}
	for _, c := range []*domain.VerificationCode{older, newer} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.Latest(ctx, subject, domain.ChannelEmail)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got.Code != "222222" {
		t.Errorf("newest issue must supersede older one, got code %s", got.Code)
	}

	// A different channel has its own history.
	if _, err := repo.Latest(ctx, subject, domain.ChannelPhone); err != domain.ErrCodeNotFound {
		t.Errorf("phone channel should have no code, got %v", err)
	}

	// A different subject does not see these codes.
	other := domain.Subject{Kind: domain.SubjectAccount, ID: 1}
	if _, err := repo.Latest(ctx, other, domain.ChannelEmail); err != domain.ErrCodeNotFound {
		t.Errorf("account subject should have no code, got %v", err)
	}
}

// Consuming the newest code must not resurrect a superseded one: the
// newest row stays the latest even once it is consumed.
func TestVerificationRepositoryImpl_Latest_SupersededStaysDead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	subject := domain.Subject{Kind: domain.SubjectAccount, ID: 5}
	older := &domain.VerificationCode{
		SubjectKind: subject.Kind, SubjectID: subject.ID,
		Channel: domain.ChannelEmail, Code: "111111",
		IssuedAt: time.Now().Add(-time.Minute),
	}
	newer := &domain.VerificationCode{
		SubjectKind: subject.Kind, SubjectID: subject.ID,
		Channel: domain.ChannelEmail, Code: "222222",
		IssuedAt: time.Now(),
	}
	for _, c := range []*domain.VerificationCode{older, newer} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	if won, err := repo.Consume(ctx, newer.ID); err != nil || !won {
		t.Fatalf("Consume() = %v/%v", won, err)
	}

	got, err := repo.Latest(ctx, subject, domain.ChannelEmail)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got.ID != newer.ID || !got.Consumed {
		t.Errorf("expected the consumed newest row, got id=%d consumed=%v", got.ID, got.Consumed)
	}
}

func TestVerificationRepositoryImpl_Consume(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	subject := domain.Subject{Kind: domain.SubjectStaged, ID: 7}
	code := &domain.VerificationCode{
		SubjectKind: subject.Kind, SubjectID: subject.ID,
		Channel: domain.ChannelPhone, Code: "654321",
		IssuedAt: time.Now(),
	}
	if err := repo.Create(ctx, code); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	won, err := repo.Consume(ctx, code.ID)
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if !won {
		t.Fatal("first consume should win")
	}

	// consumed is monotonic: a second flip must lose.
	won, err = repo.Consume(ctx, code.ID)
	if err != nil {
		t.Fatalf("second Consume() error = %v", err)
	}
	if won {
		t.Fatal("second consume must lose")
	}

	// The consumed row is still the latest for the pair.
	got, err := repo.Latest(ctx, subject, domain.ChannelPhone)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if !got.Consumed {
		t.Error("latest row should read as consumed")
	}
}

func TestVerificationRepositoryImpl_DeleteForSubject(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	subject := domain.Subject{Kind: domain.SubjectStaged, ID: 3}
	keep := domain.Subject{Kind: domain.SubjectStaged, ID: 4}

	for _, s := range []domain.Subject{subject, keep} {
		code := &domain.VerificationCode{
			SubjectKind: s.Kind, SubjectID: s.ID,
			Channel: domain.ChannelEmail, Code: "999999", IssuedAt: time.Now(),
		}
		if err := repo.Create(ctx, code); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	if err := repo.DeleteForSubject(ctx, subject); err != nil {
		t.Fatalf("DeleteForSubject() error = %v", err)
	}
	if _, err := repo.Latest(ctx, subject, domain.ChannelEmail); err != domain.ErrCodeNotFound {
		t.Errorf("subject's codes should be gone, got %v", err)
	}
	if _, err := repo.Latest(ctx, keep, domain.ChannelEmail); err != nil {
		t.Errorf("other subject's codes must survive: %v", err)
	}
}
