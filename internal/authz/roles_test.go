package authz

import "testing"

func TestHasRoleNilSafety(t *testing.T) {
	if HasRole(nil, RoleAdmin) {
		t.Fatalf("nil profile should have no roles")
	}
	if HasRole(&Profile{}, RoleAdmin) {
		t.Fatalf("profile without roles should have no roles")
	}
	if HasAnyRole(nil, RoleAdmin, RoleViewer) {
		t.Fatalf("nil profile should match no role")
	}
}

func TestHasRoleExactMatch(t *testing.T) {
	p := &Profile{Roles: []Role{{Code: RoleViewer}, {Code: RoleCreator}}}
	if !HasRole(p, RoleViewer) {
		t.Fatalf("expected VIEWER")
	}
	if HasRole(p, RoleAdmin) {
		t.Fatalf("unexpected ADMIN")
	}
	// case-sensitive, no normalization
	if HasRole(p, RoleCode("viewer")) {
		t.Fatalf("role matching must be case-sensitive")
	}
}

func TestHasAnyRole(t *testing.T) {
	p := &Profile{Roles: []Role{{Code: RoleCreator}}}
	if !HasAnyRole(p, RoleViewer, RoleCreator, RoleAdmin) {
		t.Fatalf("expected match on CREATOR")
	}
	if HasAnyRole(p, RoleViewer, RoleAdmin) {
		t.Fatalf("unexpected match")
	}
	if HasAnyRole(p) {
		t.Fatalf("empty candidate list should not match")
	}
}

func TestHasAllRolesVacuousTruth(t *testing.T) {
	// The universal quantifier over an empty list is true, even for a
	// profile with no roles at all.
	if !HasAllRoles(nil, nil) {
		t.Fatalf("empty required list must be vacuously true for nil profile")
	}
	if !HasAllRoles(&Profile{}, []RoleCode{}) {
		t.Fatalf("empty required list must be vacuously true")
	}
}

func TestHasAllRoles(t *testing.T) {
	p := &Profile{Roles: []Role{{Code: RoleViewer}, {Code: RoleCreator}}}
	if !HasAllRoles(p, []RoleCode{RoleViewer, RoleCreator}) {
		t.Fatalf("expected all roles present")
	}
	if HasAllRoles(p, []RoleCode{RoleViewer, RoleAdmin}) {
		t.Fatalf("ADMIN is missing, expected false")
	}
}
