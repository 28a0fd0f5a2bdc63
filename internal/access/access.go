// Package access defines the role and circuit-breaker collaborators the vault
// consumes, plus in-memory implementations used as injectable test doubles and
// demo stand-ins.
package access

import (
	"sync"

	"github.com/halvard/vault-core/internal/models"
)

// Role names a permission bundle.
type Role string

const (
	// RoleAdmin can pause, set caps, recover funds, and grant roles.
	RoleAdmin Role = "admin"
	// RoleManager can register assets, set asset status, and set caps.
	RoleManager Role = "manager"
)

// RoleChecker answers whether a principal holds a role.
type RoleChecker interface {
	HasRole(principal models.Address, role Role) bool
}

// RoleGranter extends RoleChecker with grant support. The vault's admin
// surface requires it.
type RoleGranter interface {
	RoleChecker
	Grant(principal models.Address, role Role)
}

// CircuitBreaker answers whether the system is halted. When halted, deposits
// and withdrawals fail before any other check runs.
type CircuitBreaker interface {
	IsPaused() bool
}

// Switch extends CircuitBreaker with the levers the vault's pause/unpause
// surface delegates to.
type Switch interface {
	CircuitBreaker
	Pause()
	Unpause()
}

// Roles is an in-memory RoleGranter.
type Roles struct {
	mu    sync.RWMutex
	roles map[models.Address]map[Role]bool
}

// NewRoles creates a role table with the given principal holding admin.
func NewRoles(admin models.Address) *Roles {
	r := &Roles{roles: make(map[models.Address]map[Role]bool)}
	r.Grant(admin, RoleAdmin)
	return r
}

// Grant gives the principal the role. Idempotent.
func (r *Roles) Grant(principal models.Address, role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.roles[principal] == nil {
		r.roles[principal] = make(map[Role]bool)
	}
	r.roles[principal][role] = true
}

// HasRole implements RoleChecker.
func (r *Roles) HasRole(principal models.Address, role Role) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[principal][role]
}

// Breaker is an in-memory Switch.
type Breaker struct {
	mu     sync.RWMutex
	paused bool
}

// NewBreaker creates an unpaused breaker.
func NewBreaker() *Breaker {
	return &Breaker{}
}

// Pause halts the system.
func (b *Breaker) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = true
}

// Unpause resumes the system.
func (b *Breaker) Unpause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = false
}

// IsPaused implements CircuitBreaker.
func (b *Breaker) IsPaused() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.paused
}
