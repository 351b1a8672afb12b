package authz

import "context"

// OrganizationPolicy guards organization elements. Viewing is limited to the
// principal's own organization; updating is reserved for the organization's
// designated data manager rather than mere affiliation; deletion requires the
// organization to have no dependent entries and no affiliated profiles, a
// safety invariant that also binds admins.
type OrganizationPolicy struct {
	organizations OrganizationFinder
}

func NewOrganizationPolicy(organizations OrganizationFinder) *OrganizationPolicy {
	return &OrganizationPolicy{organizations: organizations}
}

func (pol *OrganizationPolicy) CanCreate(ctx context.Context, p Principal) (bool, error) {
	return canCreateScoped(p), nil
}

func (pol *OrganizationPolicy) CanViewAll(ctx context.Context, p Principal) (bool, error) {
	return canReadAny(p), nil
}

func (pol *OrganizationPolicy) CanView(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	if !canReadAny(p) {
		return false, nil
	}
	org, err := pol.organizations.FindOrganization(ctx, id)
	if err != nil {
		return false, err
	}
	if org == nil {
		return false, nil
	}
	return p.Profile.Affiliated() && p.Profile.OrgCode() == org.Code, nil
}

func (pol *OrganizationPolicy) CanUpdate(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	org, err := pol.organizations.FindOrganization(ctx, id)
	if err != nil {
		return false, err
	}
	if org == nil {
		return false, nil
	}
	return org.DataManagerID != "" && org.DataManagerID == p.UserID, nil
}

func (pol *OrganizationPolicy) CanDelete(ctx context.Context, p Principal, id int64) (bool, error) {
	if !HasRole(p.Profile, RoleAdmin) {
		return false, nil
	}
	org, err := pol.organizations.FindOrganization(ctx, id)
	if err != nil {
		return false, err
	}
	if org == nil {
		return false, nil
	}
	return org.EntryCount == 0 && org.ProfileCount == 0, nil
}
