package authz

import "time"

// Principal is the authenticated actor performing a request. It must arrive
// fully resolved: the token layer verifies credentials and loads the profile
// with its roles before any policy runs.
type Principal struct {
	UserID  string
	Email   string
	Profile *Profile
}

// Profile is the application-level identity attached to an authentication
// identity (1:1 by UserID). OrganizationElementCode is empty for principals
// without an organizational affiliation.
type Profile struct {
	ID                      int64
	UserID                  string
	FirstName               string
	LastName                string
	Bio                     string
	OrganizationElementCode string
	Roles                   []Role
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Role is a named capability tag, many-to-many with profiles.
type Role struct {
	ID          int64
	Code        RoleCode
	Designation string
}

// Affiliated reports whether the profile belongs to an organization.
func (p *Profile) Affiliated() bool {
	return p != nil && p.OrganizationElementCode != ""
}

// OrgCode returns the profile's organizational affiliation, empty when the
// profile is nil or unaffiliated.
func (p *Profile) OrgCode() string {
	if p == nil {
		return ""
	}
	return p.OrganizationElementCode
}
