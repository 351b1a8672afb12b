package authz

import "context"

// ProfilePolicy guards profiles, which are keyed by user id rather than a
// numeric resource id. Admins manage all profiles; everyone else is limited
// to their own, and even admins may not delete themselves.
type ProfilePolicy struct{}

func NewProfilePolicy() *ProfilePolicy {
	return &ProfilePolicy{}
}

func (pol *ProfilePolicy) CanCreate(ctx context.Context, p Principal) (bool, error) {
	return HasRole(p.Profile, RoleAdmin), nil
}

func (pol *ProfilePolicy) CanViewAll(ctx context.Context, p Principal) (bool, error) {
	return HasRole(p.Profile, RoleAdmin), nil
}

func (pol *ProfilePolicy) CanView(ctx context.Context, p Principal, targetUserID string) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	return p.UserID == targetUserID, nil
}

func (pol *ProfilePolicy) CanUpdate(ctx context.Context, p Principal, targetUserID string) (bool, error) {
	if HasRole(p.Profile, RoleAdmin) {
		return true, nil
	}
	return p.UserID == targetUserID, nil
}

func (pol *ProfilePolicy) CanDelete(ctx context.Context, p Principal, targetUserID string) (bool, error) {
	if !HasRole(p.Profile, RoleAdmin) {
		return false, nil
	}
	return p.UserID != targetUserID, nil
}
