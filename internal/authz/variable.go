package authz

import "context"

// VariablePolicy guards variables. Like categories, a variable belongs to no
// organization directly; ownership flows through the entries that reference
// it. Deletion requires the variable to be unused, admins included.
type VariablePolicy struct {
	variables VariableFinder
}

func NewVariablePolicy(variables VariableFinder) *VariablePolicy {
	return &VariablePolicy{variables: variables}
}

func (pol *VariablePolicy) CanCreate(ctx context.Context, p Principal) (bool, error) {
	return canCreateScoped(p), nil
}

func (pol *VariablePolicy) CanViewAll(ctx context.Context, p Principal) (bool, error) {
	return canReadAny(p), nil
}

func (pol *VariablePolicy) CanView(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	if !canReadAny(p) {
		return false, nil
	}
	v, err := pol.variables.FindVariable(ctx, id)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	return containsOrg(v.EntryOrgCodes, p.Profile.OrgCode()), nil
}

func (pol *VariablePolicy) CanUpdate(ctx context.Context, p Principal, id int64) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	if !HasRole(p.Profile, RoleCreator) {
		return false, nil
	}
	v, err := pol.variables.FindVariable(ctx, id)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	return containsOrg(v.EntryOrgCodes, p.Profile.OrgCode()), nil
}

func (pol *VariablePolicy) CanDelete(ctx context.Context, p Principal, id int64) (bool, error) {
	if !HasRole(p.Profile, RoleAdmin) {
		return false, nil
	}
	v, err := pol.variables.FindVariable(ctx, id)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	return v.EntryCount == 0, nil
}
