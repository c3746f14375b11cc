package auth

import (
	"context"
)

const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
)

// Principal is the authenticated employee behind a request.
type Principal struct {
	EmployeeID string
	Roles      []string
}

func (p *Principal) HasRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// EmployeeID returns the acting employee, or "" when the context is anonymous.
func EmployeeID(ctx context.Context) string {
	if p, ok := FromContext(ctx); ok {
		return p.EmployeeID
	}
	return ""
}
