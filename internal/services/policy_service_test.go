package services

import (
	"errors"
	"testing"

	"github.com/sahuajaykumar2004-dot/EP/domain"
	"github.com/sahuajaykumar2004-dot/EP/internal/mocks"
)

func TestPolicyServiceImpl_AddPolicy(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()

	var added [][]interface{}
	enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
		added = append(added, params)
		return true, nil
	}
	saved := false
	enforcer.SavePolicyFunc = func() error {
		saved = true
		return nil
	}

	svc := NewPolicyServiceWithEnforcer(enforcer)
	if err := svc.AddPolicy("role_admin", "/admin/*", "GET"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("expected one policy added, got %d", len(added))
	}
	if !saved {
		t.Error("expected policy set to be persisted")
	}
}

func TestPolicyServiceImpl_RemovePolicy_Error(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.RemovePolicyFunc = func(params ...interface{}) (bool, error) {
		return false, errors.New("store unavailable")
	}

	svc := NewPolicyServiceWithEnforcer(enforcer)
	if err := svc.RemovePolicy("role_admin", "/admin/*", "GET"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPolicyServiceImpl_CheckPermission(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return rvals[0] == "role_admin", nil
	}

	svc := NewPolicyServiceWithEnforcer(enforcer)

	allowed, err := svc.CheckPermission("role_admin", "/admin/policies", "GET")
	if err != nil || !allowed {
		t.Fatalf("expected admin allowed, got %v/%v", allowed, err)
	}
	allowed, err = svc.CheckPermission(RolePrefix(domain.UserTypeStudent), "/admin/policies", "GET")
	if err != nil || allowed {
		t.Fatalf("expected student denied, got %v/%v", allowed, err)
	}
}

func TestPolicyServiceImpl_SeedDefaults(t *testing.T) {
	t.Run("empty store gets the default roles", func(t *testing.T) {
		enforcer := mocks.NewMockCasbinEnforcer()
		var added [][]interface{}
		enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
			added = append(added, params)
			return true, nil
		}

		svc := NewPolicyServiceWithEnforcer(enforcer)
		if err := svc.SeedDefaults(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(added) == 0 {
			t.Fatal("expected default policies to be seeded")
		}

		subjects := map[interface{}]bool{}
		for _, rule := range added {
			subjects[rule[0]] = true
		}
		for _, userType := range []string{domain.UserTypeAdmin, domain.UserTypeStudent, domain.UserTypeConsultant, domain.UserTypeCounsellor} {
			if !subjects[RolePrefix(userType)] {
				t.Errorf("expected a default policy for %s", userType)
			}
		}
	})

	t.Run("populated store is left untouched", func(t *testing.T) {
		enforcer := mocks.NewMockCasbinEnforcer()
		enforcer.GetPolicyFunc = func() ([][]string, error) {
			return [][]string{{"role_admin", "/admin/*", "GET"}}, nil
		}
		enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
			t.Error("seeding must not touch a populated store")
			return false, nil
		}

		svc := NewPolicyServiceWithEnforcer(enforcer)
		if err := svc.SeedDefaults(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
