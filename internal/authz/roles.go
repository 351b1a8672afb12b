package authz

// RoleCode identifies a capability tag assigned to a profile. Codes are
// matched by exact, case-sensitive string equality; there is no hierarchy.
type RoleCode string

const (
	// RoleAdmin grants blanket access wherever a policy special-cases it.
	RoleAdmin RoleCode = "ADMIN"
	// RoleCreator may create records and mutate records owned by its organization.
	RoleCreator RoleCode = "CREATOR"
	// RoleViewer may read records scoped to its organization.
	RoleViewer RoleCode = "VIEWER"
	// RoleUser is the bootstrap role assigned to lazily created profiles.
	RoleUser RoleCode = "USER"
)

// dataRoles is the gate for read operations: a principal holding none of
// these is denied before any ownership lookup runs.
var dataRoles = []RoleCode{RoleViewer, RoleCreator, RoleAdmin}

// HasRole reports whether the profile carries the given role code.
// A nil profile or absent role list yields false, never an error.
func HasRole(p *Profile, code RoleCode) bool {
	if p == nil || p.Roles == nil {
		return false
	}
	for _, r := range p.Roles {
		if r.Code == code {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the profile carries at least one of the codes.
func HasAnyRole(p *Profile, codes ...RoleCode) bool {
	for _, code := range codes {
		if HasRole(p, code) {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether the profile carries every code in the list.
// An empty list is vacuously true for any profile, roleless ones included.
func HasAllRoles(p *Profile, codes []RoleCode) bool {
	for _, code := range codes {
		if !HasRole(p, code) {
			return false
		}
	}
	return true
}
