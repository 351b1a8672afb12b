package authz

import (
	"context"
	"errors"
	"testing"
)

type fakeFinder struct {
	entries       map[int64]*EntrySnapshot
	categories    map[int64]*CategorySnapshot
	organizations map[int64]*OrganizationSnapshot
	variables     map[int64]*VariableSnapshot
	sources       map[int64]bool
	err           error
}

func (f *fakeFinder) FindEntry(_ context.Context, id int64) (*EntrySnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[id], nil
}

func (f *fakeFinder) FindCategory(_ context.Context, id int64) (*CategorySnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories[id], nil
}

func (f *fakeFinder) FindOrganization(_ context.Context, id int64) (*OrganizationSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.organizations[id], nil
}

func (f *fakeFinder) FindVariable(_ context.Context, id int64) (*VariableSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.variables[id], nil
}

func (f *fakeFinder) SourceExists(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.sources[id], nil
}

func principalWith(org string, codes ...RoleCode) Principal {
	roles := make([]Role, 0, len(codes))
	for _, c := range codes {
		roles = append(roles, Role{Code: c})
	}
	return Principal{
		UserID: "7f2b7a66-0a4e-4f2e-9f2a-1c8d1c3adf00",
		Profile: &Profile{
			UserID:                  "7f2b7a66-0a4e-4f2e-9f2a-1c8d1c3adf00",
			OrganizationElementCode: org,
			Roles:                   roles,
		},
	}
}

func mustAllow(t *testing.T, ok bool, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected allow")
	}
}

func mustDeny(t *testing.T, ok bool, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected deny")
	}
}

func TestEntryCreateRequiresAffiliation(t *testing.T) {
	pol := NewEntryPolicy(&fakeFinder{})

	ok, err := pol.CanCreate(context.Background(), principalWith("", RoleCreator))
	mustDeny(t, ok, err)

	ok, err = pol.CanCreate(context.Background(), principalWith("ORG_A", RoleCreator))
	mustAllow(t, ok, err)

	ok, err = pol.CanCreate(context.Background(), principalWith("", RoleAdmin))
	mustAllow(t, ok, err)
}

func TestEntryUpdateOwnership(t *testing.T) {
	finder := &fakeFinder{entries: map[int64]*EntrySnapshot{
		7: {OrganizationElementCode: "ORG_A"},
	}}
	pol := NewEntryPolicy(finder)

	ok, err := pol.CanUpdate(context.Background(), principalWith("ORG_A", RoleCreator), 7)
	mustAllow(t, ok, err)

	finder.entries[7].OrganizationElementCode = "ORG_B"
	ok, err = pol.CanUpdate(context.Background(), principalWith("ORG_A", RoleCreator), 7)
	mustDeny(t, ok, err)
}

func TestEntryMutationDeniedForViewer(t *testing.T) {
	finder := &fakeFinder{entries: map[int64]*EntrySnapshot{
		7: {OrganizationElementCode: "ORG_A"},
	}}
	pol := NewEntryPolicy(finder)

	// A viewer is denied writes even when the organization matches.
	p := principalWith("ORG_A", RoleViewer)
	ok, err := pol.CanUpdate(context.Background(), p, 7)
	mustDeny(t, ok, err)
	ok, err = pol.CanDelete(context.Background(), p, 7)
	mustDeny(t, ok, err)
}

func TestEntryViewOwnership(t *testing.T) {
	finder := &fakeFinder{entries: map[int64]*EntrySnapshot{
		7: {OrganizationElementCode: "ORG_B"},
	}}
	pol := NewEntryPolicy(finder)

	ok, err := pol.CanView(context.Background(), principalWith("ORG_A", RoleViewer), 7)
	mustDeny(t, ok, err)

	ok, err = pol.CanView(context.Background(), principalWith("ORG_B", RoleViewer), 7)
	mustAllow(t, ok, err)
}

func TestEntryNotFoundDenies(t *testing.T) {
	pol := NewEntryPolicy(&fakeFinder{})
	p := principalWith("ORG_A", RoleCreator, RoleViewer)

	for name, fn := range map[string]func() (bool, error){
		"view":   func() (bool, error) { return pol.CanView(context.Background(), p, 404) },
		"update": func() (bool, error) { return pol.CanUpdate(context.Background(), p, 404) },
		"delete": func() (bool, error) { return pol.CanDelete(context.Background(), p, 404) },
	} {
		ok, err := fn()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if ok {
			t.Fatalf("%s: missing resource must deny, not error", name)
		}
	}
}

func TestEntryAdminBypassSkipsLookup(t *testing.T) {
	// Admin is allowed before the lookup runs, so even a failing store or a
	// missing id cannot deny.
	pol := NewEntryPolicy(&fakeFinder{err: errors.New("store down")})
	admin := principalWith("", RoleAdmin)

	ok, err := pol.CanView(context.Background(), admin, 404)
	mustAllow(t, ok, err)
	ok, err = pol.CanUpdate(context.Background(), admin, 404)
	mustAllow(t, ok, err)
	ok, err = pol.CanDelete(context.Background(), admin, 404)
	mustAllow(t, ok, err)
}

func TestEntryLookupErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	pol := NewEntryPolicy(&fakeFinder{err: boom})

	_, err := pol.CanUpdate(context.Background(), principalWith("ORG_A", RoleCreator), 7)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestCategoryDeleteBlockedWhileInUse(t *testing.T) {
	finder := &fakeFinder{categories: map[int64]*CategorySnapshot{
		42: {EntryOrgCodes: []string{"ORG_A"}, EntryCount: 5},
	}}
	pol := NewCategoryPolicy(finder)

	// The emptiness invariant binds admins too: deleting a category with
	// five entries is denied regardless of role.
	ok, err := pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 42)
	mustDeny(t, ok, err)

	finder.categories[42] = &CategorySnapshot{}
	ok, err = pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 42)
	mustAllow(t, ok, err)

	// An empty category still needs ADMIN.
	ok, err = pol.CanDelete(context.Background(), principalWith("ORG_A", RoleCreator, RoleViewer), 42)
	mustDeny(t, ok, err)
}

func TestCategoryDeleteDependencyVariants(t *testing.T) {
	cases := map[string]*CategorySnapshot{
		"entries":    {EntryCount: 1},
		"indicators": {IndicatorCount: 2},
		"variables":  {VariableCount: 1},
	}
	for name, snap := range cases {
		pol := NewCategoryPolicy(&fakeFinder{categories: map[int64]*CategorySnapshot{1: snap}})
		ok, err := pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 1)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if ok {
			t.Fatalf("%s: dependent records must block deletion", name)
		}
	}
}

func TestCategoryViewThroughEntries(t *testing.T) {
	finder := &fakeFinder{categories: map[int64]*CategorySnapshot{
		3: {EntryOrgCodes: []string{"ORG_B", "ORG_C"}, EntryCount: 2},
	}}
	pol := NewCategoryPolicy(finder)

	ok, err := pol.CanView(context.Background(), principalWith("ORG_C", RoleViewer), 3)
	mustAllow(t, ok, err)

	ok, err = pol.CanView(context.Background(), principalWith("ORG_A", RoleViewer), 3)
	mustDeny(t, ok, err)
}

func TestCategoryUpdateRequiresCreatorAndEntries(t *testing.T) {
	finder := &fakeFinder{categories: map[int64]*CategorySnapshot{
		3: {EntryOrgCodes: []string{"ORG_A"}, EntryCount: 1},
	}}
	pol := NewCategoryPolicy(finder)

	ok, err := pol.CanUpdate(context.Background(), principalWith("ORG_A", RoleCreator), 3)
	mustAllow(t, ok, err)

	ok, err = pol.CanUpdate(context.Background(), principalWith("ORG_A", RoleViewer), 3)
	mustDeny(t, ok, err)
}

func TestOrganizationUpdateManagerOnly(t *testing.T) {
	manager := principalWith("ORG_A", RoleCreator)
	finder := &fakeFinder{organizations: map[int64]*OrganizationSnapshot{
		5: {Code: "ORG_A", DataManagerID: manager.UserID},
	}}
	pol := NewOrganizationPolicy(finder)

	ok, err := pol.CanUpdate(context.Background(), manager, 5)
	mustAllow(t, ok, err)

	// Same organization but not the designated manager.
	other := principalWith("ORG_A", RoleCreator)
	other.UserID = "b4c1d9f0-93e1-4c55-8a10-64d04b7c21aa"
	ok, err = pol.CanUpdate(context.Background(), other, 5)
	mustDeny(t, ok, err)
}

func TestOrganizationViewOwnOrgOnly(t *testing.T) {
	finder := &fakeFinder{organizations: map[int64]*OrganizationSnapshot{
		5: {Code: "ORG_A"},
	}}
	pol := NewOrganizationPolicy(finder)

	ok, err := pol.CanView(context.Background(), principalWith("ORG_A", RoleViewer), 5)
	mustAllow(t, ok, err)

	ok, err = pol.CanView(context.Background(), principalWith("ORG_B", RoleViewer), 5)
	mustDeny(t, ok, err)
}

func TestOrganizationDeleteRequiresNoDependents(t *testing.T) {
	finder := &fakeFinder{organizations: map[int64]*OrganizationSnapshot{
		5: {Code: "ORG_A", EntryCount: 0, ProfileCount: 2},
	}}
	pol := NewOrganizationPolicy(finder)

	ok, err := pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 5)
	mustDeny(t, ok, err)

	finder.organizations[5].ProfileCount = 0
	ok, err = pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 5)
	mustAllow(t, ok, err)
}

func TestIndicatorViewIsOpen(t *testing.T) {
	pol := NewIndicatorPolicy()

	// No role gate on single-indicator view, even for a roleless principal.
	ok, err := pol.CanView(context.Background(), principalWith(""), 9)
	mustAllow(t, ok, err)

	ok, err = pol.CanUpdate(context.Background(), principalWith("ORG_A", RoleCreator, RoleViewer), 9)
	mustDeny(t, ok, err)

	ok, err = pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 9)
	mustAllow(t, ok, err)
}

func TestSourceSharedReferenceData(t *testing.T) {
	finder := &fakeFinder{sources: map[int64]bool{11: true}}
	pol := NewSourcePolicy(finder)

	// Sources carry no organization: any data role may view, creators may
	// update, regardless of affiliation.
	ok, err := pol.CanView(context.Background(), principalWith("", RoleViewer), 11)
	mustAllow(t, ok, err)

	ok, err = pol.CanUpdate(context.Background(), principalWith("", RoleCreator), 11)
	mustAllow(t, ok, err)

	ok, err = pol.CanUpdate(context.Background(), principalWith("ORG_A", RoleViewer), 11)
	mustDeny(t, ok, err)

	// Existence still gates non-admins.
	ok, err = pol.CanView(context.Background(), principalWith("", RoleViewer), 404)
	mustDeny(t, ok, err)

	// Delete is admin-only and checks existence.
	ok, err = pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 404)
	mustDeny(t, ok, err)
	ok, err = pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 11)
	mustAllow(t, ok, err)
}

func TestVariableDeleteRequiresUnused(t *testing.T) {
	finder := &fakeFinder{variables: map[int64]*VariableSnapshot{
		2: {EntryOrgCodes: []string{"ORG_A"}, EntryCount: 3},
	}}
	pol := NewVariablePolicy(finder)

	ok, err := pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 2)
	mustDeny(t, ok, err)

	finder.variables[2] = &VariableSnapshot{}
	ok, err = pol.CanDelete(context.Background(), principalWith("", RoleAdmin), 2)
	mustAllow(t, ok, err)
}

func TestVariableViewThroughEntries(t *testing.T) {
	finder := &fakeFinder{variables: map[int64]*VariableSnapshot{
		2: {EntryOrgCodes: []string{"ORG_A"}, EntryCount: 1},
	}}
	pol := NewVariablePolicy(finder)

	ok, err := pol.CanView(context.Background(), principalWith("ORG_A", RoleViewer), 2)
	mustAllow(t, ok, err)

	ok, err = pol.CanUpdate(context.Background(), principalWith("ORG_B", RoleCreator), 2)
	mustDeny(t, ok, err)
}

func TestProfileSelfService(t *testing.T) {
	pol := NewProfilePolicy()
	p := principalWith("ORG_A", RoleViewer)

	ok, err := pol.CanView(context.Background(), p, p.UserID)
	mustAllow(t, ok, err)
	ok, err = pol.CanUpdate(context.Background(), p, p.UserID)
	mustAllow(t, ok, err)

	ok, err = pol.CanView(context.Background(), p, "someone-else")
	mustDeny(t, ok, err)
	ok, err = pol.CanViewAll(context.Background(), p)
	mustDeny(t, ok, err)
}

func TestProfileAdminCannotDeleteSelf(t *testing.T) {
	pol := NewProfilePolicy()
	admin := principalWith("", RoleAdmin)

	ok, err := pol.CanDelete(context.Background(), admin, admin.UserID)
	mustDeny(t, ok, err)

	ok, err = pol.CanDelete(context.Background(), admin, "1d8e8a52-3f11-4a8e-b7d9-552017d2cafe")
	mustAllow(t, ok, err)
}

func TestRolelessPrincipalDeniedEverywhere(t *testing.T) {
	finder := &fakeFinder{
		entries:       map[int64]*EntrySnapshot{1: {OrganizationElementCode: "ORG_A"}},
		categories:    map[int64]*CategorySnapshot{1: {EntryOrgCodes: []string{"ORG_A"}}},
		organizations: map[int64]*OrganizationSnapshot{1: {Code: "ORG_A"}},
		variables:     map[int64]*VariableSnapshot{1: {EntryOrgCodes: []string{"ORG_A"}}},
		sources:       map[int64]bool{1: true},
	}
	none := principalWith("ORG_A")
	ctx := context.Background()

	policies := map[string]Policy{
		"entry":        NewEntryPolicy(finder),
		"category":     NewCategoryPolicy(finder),
		"organization": NewOrganizationPolicy(finder),
		"source":       NewSourcePolicy(finder),
		"variable":     NewVariablePolicy(finder),
	}
	for name, pol := range policies {
		if ok, _ := pol.CanCreate(ctx, none); ok {
			t.Fatalf("%s: create allowed without roles", name)
		}
		if ok, _ := pol.CanView(ctx, none, 1); ok {
			t.Fatalf("%s: view allowed without roles", name)
		}
		if ok, _ := pol.CanViewAll(ctx, none); ok {
			t.Fatalf("%s: viewAll allowed without roles", name)
		}
		if ok, _ := pol.CanUpdate(ctx, none, 1); ok {
			t.Fatalf("%s: update allowed without roles", name)
		}
		if ok, _ := pol.CanDelete(ctx, none, 1); ok {
			t.Fatalf("%s: delete allowed without roles", name)
		}
	}

	// The single documented exception: indicator view has no role gate.
	ind := NewIndicatorPolicy()
	if ok, _ := ind.CanView(ctx, none, 1); !ok {
		t.Fatalf("indicator view should be open to authenticated principals")
	}
	if ok, _ := ind.CanViewAll(ctx, none); ok {
		t.Fatalf("indicator viewAll should still require a data role")
	}
}

var _ Policy = (*EntryPolicy)(nil)
var _ Policy = (*CategoryPolicy)(nil)
var _ Policy = (*OrganizationPolicy)(nil)
var _ Policy = (*IndicatorPolicy)(nil)
var _ Policy = (*SourcePolicy)(nil)
var _ Policy = (*VariablePolicy)(nil)
var _ ResourceFinder = (*fakeFinder)(nil)
