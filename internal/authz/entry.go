package authz

import "context"

// EntryPolicy guards time-series data entries. Ownership is the entry's
// organizationElementCode matched against the principal's affiliation.
type EntryPolicy struct {
	entries EntryFinder
}

func NewEntryPolicy(entries EntryFinder) *EntryPolicy {
	return &EntryPolicy{entries: entries}
}

func (pol *EntryPolicy) CanCreate(ctx context.Context, p Principal) (bool, error) {
	return canCreateScoped(p), nil
}

func (pol *EntryPolicy) CanViewAll(ctx context.Context, p Principal) (bool, error) {
	return canReadAny(p), nil
}

func (pol *EntryPolicy) CanView(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	if !canReadAny(p) {
		return false, nil
	}
	entry, err := pol.entries.FindEntry(ctx, id)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}
	return p.Profile.Affiliated() && entry.OrganizationElementCode == p.Profile.OrgCode(), nil
}

func (pol *EntryPolicy) CanUpdate(ctx context.Context, p Principal, id int64) (bool, error) {
	return pol.canMutate(ctx, p, id)
}

func (pol *EntryPolicy) CanDelete(ctx context.Context, p Principal, id int64) (bool, error) {
	return pol.canMutate(ctx, p, id)
}

// canMutate allows admins unconditionally; otherwise the principal must hold
// CREATOR and the entry must belong to the principal's organization.
func (pol *EntryPolicy) canMutate(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	if !HasRole(p.Profile, RoleCreator) {
		return false, nil
	}
	entry, err := pol.entries.FindEntry(ctx, id)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}
	return p.Profile.Affiliated() && entry.OrganizationElementCode == p.Profile.OrgCode(), nil
}
