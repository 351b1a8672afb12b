package auth

import (
	"context"

	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/registry"
)

// Resolver turns verified token claims into an authorization principal,
// bootstrapping a minimal profile on a user's first authenticated access.
type Resolver struct {
	registry *registry.Service
}

func NewResolver(reg *registry.Service) *Resolver {
	return &Resolver{registry: reg}
}

// Resolve loads (or lazily creates) the caller's profile and assembles the
// principal the policies evaluate against.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (authz.Principal, error) {
	profile, err := r.registry.EnsureProfile(ctx, claims.Subject, claims.Email)
	if err != nil {
		return authz.Principal{}, err
	}
	return authz.Principal{
		UserID:  claims.Subject,
		Email:   profile.Email,
		Profile: toAuthzProfile(profile),
	}, nil
}

func toAuthzProfile(p *registry.Profile) *authz.Profile {
	if p == nil {
		return nil
	}
	out := &authz.Profile{
		ID:                      p.ID,
		UserID:                  p.UserID,
		FirstName:               p.FirstName,
		LastName:                p.LastName,
		Bio:                     p.Bio,
		OrganizationElementCode: p.OrganizationElementCode,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
	for _, role := range p.Roles {
		out.Roles = append(out.Roles, authz.Role{
			ID:          role.ID,
			Code:        authz.RoleCode(role.Code),
			Designation: role.Designation,
		})
	}
	return out
}
