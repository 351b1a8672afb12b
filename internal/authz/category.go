package authz

import "context"

// CategoryPolicy guards data categories. A category has no organization of
// its own; ownership means "some entry of this category belongs to the
// principal's organization". Deletion is blocked while any dependent
// entries, indicators or variables exist — admins included: losing in-use
// reference data outranks the admin bypass.
type CategoryPolicy struct {
	categories CategoryFinder
}

func NewCategoryPolicy(categories CategoryFinder) *CategoryPolicy {
	return &CategoryPolicy{categories: categories}
}

func (pol *CategoryPolicy) CanCreate(ctx context.Context, p Principal) (bool, error) {
	return canCreateScoped(p), nil
}

func (pol *CategoryPolicy) CanViewAll(ctx context.Context, p Principal) (bool, error) {
	return canReadAny(p), nil
}

func (pol *CategoryPolicy) CanView(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	if !canReadAny(p) {
		return false, nil
	}
	cat, err := pol.categories.FindCategory(ctx, id)
	if err != nil {
		return false, err
	}
	if cat == nil {
		return false, nil
	}
	return containsOrg(cat.EntryOrgCodes, p.Profile.OrgCode()), nil
}

func (pol *CategoryPolicy) CanUpdate(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	if !HasRole(p.Profile, RoleCreator) {
		return false, nil
	}
	cat, err := pol.categories.FindCategory(ctx, id)
	if err != nil {
		return false, err
	}
	if cat == nil {
		return false, nil
	}
	return containsOrg(cat.EntryOrgCodes, p.Profile.OrgCode()), nil
}

func (pol *CategoryPolicy) CanDelete(ctx context.Context, p Principal, id int64) (bool, error) {
	if !HasRole(p.Profile, RoleAdmin) {
		return false, nil
	}
	cat, err := pol.categories.FindCategory(ctx, id)
	if err != nil {
		return false, err
	}
	if cat == nil {
		return false, nil
	}
	return cat.EntryCount == 0 && cat.IndicatorCount == 0 && cat.VariableCount == 0, nil
}
