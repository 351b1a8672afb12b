package authz

import "context"

// SourcePolicy guards data sources. Sources carry no organizational foreign
// key, so they are treated as shared reference data: reads and updates are
// gated on role and existence only, never on ownership.
type SourcePolicy struct {
	sources SourceFinder
}

func NewSourcePolicy(sources SourceFinder) *SourcePolicy {
	return &SourcePolicy{sources: sources}
}

func (pol *SourcePolicy) CanCreate(ctx context.Context, p Principal) (bool, error) {
	return canCreateScoped(p), nil
}

func (pol *SourcePolicy) CanViewAll(ctx context.Context, p Principal) (bool, error) {
	return canReadAny(p), nil
}

func (pol *SourcePolicy) CanView(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	if !canReadAny(p) {
		return false, nil
	}
	return pol.sources.SourceExists(ctx, id)
}

func (pol *SourcePolicy) CanUpdate(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	if !HasRole(p.Profile, RoleCreator) {
		return false, nil
	}
	return pol.sources.SourceExists(ctx, id)
}

func (pol *SourcePolicy) CanDelete(ctx context.Context, p Principal, id int64) (bool, error) {
	if !HasRole(p.Profile, RoleAdmin) {
		return false, nil
	}
	return pol.sources.SourceExists(ctx, id)
}
