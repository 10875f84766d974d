package repositories

import (
	"context"
	"testing"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

func userFixture() *domain.User {
	return &domain.User{
		Email:         "student@example.com",
		Phone:         "+15550001",
		Name:          "Some Student",
		PasswordHash:  "hashed_password",
		UserType:      domain.UserTypeStudent,
		IsActive:      true,
		EmailVerified: true,
		PhoneVerified: true,
		Verified:      true,
	}
}

func TestUserRepositoryImpl_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := userFixture()
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Create() should backfill the ID")
	}

	tests := []struct {
		name string
		find func() (*domain.User, error)
	}{
		{"by email", func() (*domain.User, error) { return repo.FindByEmail(ctx, user.Email) }},
		{"by phone", func() (*domain.User, error) { return repo.FindByPhone(ctx, user.Phone) }},
		{"by id", func() (*domain.User, error) { return repo.FindByID(ctx, user.ID) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := tt.find()
			if err != nil {
				t.Fatalf("find error = %v", err)
			}
			if found.Email != user.Email || !found.Verified {
				t.Errorf("unexpected user: %+v", found)
			}
		})
	}
}

func TestUserRepositoryImpl_FindByEmail_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	if _, err := repo.FindByEmail(context.Background(), "nobody@example.com"); err != domain.ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryImpl_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	student := userFixture()
	counsellor := userFixture()
	counsellor.Email = "counsellor@example.com"
	counsellor.Phone = "+15550002"
	counsellor.UserType = domain.UserTypeCounsellor
	for _, u := range []*domain.User{student, counsellor} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}

	students, err := repo.List(ctx, domain.UserTypeStudent)
	if err != nil {
		t.Fatalf("List(student) error = %v", err)
	}
	if len(students) != 1 || students[0].Email != student.Email {
		t.Errorf("expected only the student, got %+v", students)
	}
}

func TestUserRepositoryImpl_UpdatePassword(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := userFixture()
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.UpdatePassword(ctx, user.ID, "rehashed"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.PasswordHash != "rehashed" {
		t.Errorf("expected updated hash, got %q", found.PasswordHash)
	}

	if err := repo.UpdatePassword(ctx, 9999, "x"); err != domain.ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound for unknown user, got %v", err)
	}
}
