// Package authz evaluates allow/deny decisions for the resources of the
// reporting registry. Each resource type has one policy exposing the uniform
// CanCreate / CanView / CanViewAll / CanUpdate / CanDelete contract.
//
// A policy never returns an error for a business-rule denial; false is the
// normal negative result and missing resources deny rather than erroring, so
// callers cannot distinguish "absent" from "not yours". Only lookup
// (store) faults propagate as errors. Evaluation is advisory: callers
// check, then act, and the race between the two is accepted rather than
// closed with a transactional re-check.
package authz

import "context"

// Policy is the uniform evaluation contract for id-keyed resources.
// Profiles are keyed by user id and have their own policy type.
type Policy interface {
	CanCreate(ctx context.Context, p Principal) (bool, error)
	CanView(ctx context.Context, p Principal, id int64) (bool, error)
	CanViewAll(ctx context.Context, p Principal) (bool, error)
	CanUpdate(ctx context.Context, p Principal, id int64) (bool, error)
	CanDelete(ctx context.Context, p Principal, id int64) (bool, error)
}

// canCreateScoped is the shared create rule: admins always may; creators may
// only when affiliated with an organization.
func canCreateScoped(p Principal) bool {
	if HasRole(p.Profile, RoleAdmin) {
		return true
	}
	return HasRole(p.Profile, RoleCreator) && p.Profile.Affiliated()
}

// canReadAny is the shared list rule: any recognized data role may list;
// result-set filtering is the caller's concern.
func canReadAny(p Principal) bool {
	return HasAnyRole(p.Profile, dataRoles...)
}
