package services

import (
	"log"

	"github.com/casbin/casbin/v2"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// RolePrefix turns a user type into the casbin subject it is checked
// as. The prefix keeps role names out of the numeric user-id space.
func RolePrefix(userType string) string {
	return "role_" + userType
}

// CasbinEnforcerWrapper adapts the real casbin enforcer to the narrow
// interface the policy service depends on.
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

func (w *CasbinEnforcerWrapper) SavePolicy() error {
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl implements domain.PolicyService using Casbin
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: NewCasbinEnforcerWrapper(enforcer),
	}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: enforcer,
	}
}

// AddPolicy implements domain.PolicyService
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	_, err := p.enforcer.AddPolicy(role, resource, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy implements domain.PolicyService
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	_, err := p.enforcer.RemovePolicy(role, resource, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(role, resource, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

// SeedDefaults installs the platform's default role policies on an
// empty store. A store with any policy at all is left untouched so
// operator edits survive restarts.
func (p *PolicyServiceImpl) SeedDefaults() error {
	existing, err := p.enforcer.GetPolicy()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := [][3]string{
		{RolePrefix(domain.UserTypeAdmin), "/admin/*", "(GET|POST|PUT|DELETE)"},
		{RolePrefix(domain.UserTypeAdmin), "/api/users/*", "(GET|POST)"},
		{RolePrefix(domain.UserTypeCounsellor), "/admin/users", "GET"},
		{RolePrefix(domain.UserTypeCounsellor), "/api/users/me", "GET"},
		{RolePrefix(domain.UserTypeConsultant), "/api/users/me", "GET"},
		{RolePrefix(domain.UserTypeStudent), "/api/users/me", "GET"},
	}
	for _, rule := range defaults {
		if _, err := p.enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return err
		}
	}
	if err := p.enforcer.SavePolicy(); err != nil {
		return err
	}

	log.Println("casbin: seeded default policies")
	return nil
}
