package authz

import "context"

// Snapshot types carry the minimal projection of a resource needed to test
// organizational ownership or dependency counts. Finders return a nil
// snapshot (not an error) when the id does not exist; policies treat that as
// deny. Only infrastructure faults surface as errors.

// EntrySnapshot is the ownership projection of a data entry.
type EntrySnapshot struct {
	OrganizationElementCode string
}

// CategorySnapshot carries the distinct organization codes of a category's
// entries plus the dependency counts that guard deletion.
type CategorySnapshot struct {
	EntryOrgCodes  []string
	EntryCount     int64
	IndicatorCount int64
	VariableCount  int64
}

// OrganizationSnapshot carries the fields organization policies decide on.
type OrganizationSnapshot struct {
	Code          string
	DataManagerID string
	EntryCount    int64
	ProfileCount  int64
}

// VariableSnapshot carries the organization codes of the entries referencing
// a variable plus their count.
type VariableSnapshot struct {
	EntryOrgCodes []string
	EntryCount    int64
}

type EntryFinder interface {
	FindEntry(ctx context.Context, id int64) (*EntrySnapshot, error)
}

type CategoryFinder interface {
	FindCategory(ctx context.Context, id int64) (*CategorySnapshot, error)
}

type OrganizationFinder interface {
	FindOrganization(ctx context.Context, id int64) (*OrganizationSnapshot, error)
}

type VariableFinder interface {
	FindVariable(ctx context.Context, id int64) (*VariableSnapshot, error)
}

type SourceFinder interface {
	SourceExists(ctx context.Context, id int64) (bool, error)
}

// ResourceFinder aggregates every per-resource lookup; the Postgres store
// implements it and policies consume the narrow slices they need.
type ResourceFinder interface {
	EntryFinder
	CategoryFinder
	OrganizationFinder
	VariableFinder
	SourceFinder
}

// containsOrg reports whether codes includes org. An empty org never
// matches: an unaffiliated principal owns nothing.
func containsOrg(codes []string, org string) bool {
	if org == "" {
		return false
	}
	for _, c := range codes {
		if c == org {
			return true
		}
	}
	return false
}
