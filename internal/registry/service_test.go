package registry

import (
	"context"
	"errors"
	"testing"
	"time"
)

const testUserID = "3f6c2b1a-77aa-4f10-bd4e-8a20cf94d1ce"

type memStore struct {
	categories map[int64]*Category
	profiles   map[string]*Profile
	roles      map[string][]string
	nextID     int64
}

func newMemStore() *memStore {
	return &memStore{
		categories: make(map[int64]*Category),
		profiles:   make(map[string]*Profile),
		roles:      make(map[string][]string),
	}
}

func (m *memStore) Categories(context.Context) CategoryStore { return (*memCategories)(m) }
func (m *memStore) Profiles(context.Context) ProfileStore     { return (*memProfiles)(m) }

func (m *memStore) Entries(context.Context) EntryStore              { return nil }
func (m *memStore) Organizations(context.Context) OrganizationStore { return nil }
func (m *memStore) Indicators(context.Context) IndicatorStore       { return nil }
func (m *memStore) Sources(context.Context) SourceStore             { return nil }
func (m *memStore) Variables(context.Context) VariableStore         { return nil }

type memCategories memStore

func (m *memCategories) Create(_ context.Context, c *Category) error {
	for _, existing := range m.categories {
		if existing.Code == c.Code {
			return ErrConflict
		}
	}
	m.nextID++
	c.ID = m.nextID
	m.categories[c.ID] = c
	return nil
}

func (m *memCategories) Find(_ context.Context, id int64) (*Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *memCategories) FindByCode(_ context.Context, code string) (*Category, error) {
	for _, c := range m.categories {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memCategories) List(_ context.Context, params ListParams) ([]*Category, error) {
	out := make([]*Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCategories) Update(_ context.Context, c *Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return ErrNotFound
	}
	m.categories[c.ID] = c
	return nil
}

func (m *memCategories) Delete(_ context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type memProfiles memStore

func (m *memProfiles) Create(_ context.Context, p *Profile) error {
	if _, ok := m.profiles[p.UserID]; ok {
		return ErrConflict
	}
	m.nextID++
	p.ID = m.nextID
	m.profiles[p.UserID] = p
	return nil
}

func (m *memProfiles) FindByUserID(_ context.Context, userID string) (*Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	for _, code := range m.roles[userID] {
		out.Roles = append(out.Roles, Role{Code: code})
	}
	return &out, nil
}

func (m *memProfiles) List(_ context.Context, params ListParams) ([]*Profile, error) {
	out := make([]*Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProfiles) Update(_ context.Context, p *Profile) error {
	if _, ok := m.profiles[p.UserID]; !ok {
		return ErrNotFound
	}
	m.profiles[p.UserID] = p
	return nil
}

func (m *memProfiles) Delete(_ context.Context, userID string) error {
	if _, ok := m.profiles[userID]; !ok {
		return ErrNotFound
	}
	delete(m.profiles, userID)
	return nil
}

func (m *memProfiles) AssignRole(_ context.Context, userID, roleCode string) error {
	if _, ok := m.profiles[userID]; !ok {
		return ErrNotFound
	}
	m.roles[userID] = append(m.roles[userID], roleCode)
	return nil
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
}

func TestCreateCategoryNormalizesCode(t *testing.T) {
	svc := NewService(newMemStore(), WithClock(fixedClock))

	c, err := svc.CreateCategory(context.Background(), Category{Code: "  health_env ", Designation: "Health environment"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Code != "HEALTH_ENV" {
		t.Fatalf("expected upcased code, got %q", c.Code)
	}
	if !c.CreatedAt.Equal(fixedClock()) {
		t.Fatalf("expected clock timestamp, got %v", c.CreatedAt)
	}
}

func TestCreateCategoryRejectsBadCode(t *testing.T) {
	svc := NewService(newMemStore())

	for _, code := range []string{"", "AB", "HAS SPACE", "bad-dash"} {
		_, err := svc.CreateCategory(context.Background(), Category{Code: code, Designation: "Something"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("code %q: expected ErrInvalidInput, got %v", code, err)
		}
	}
}

func TestCreateCategoryDuplicate(t *testing.T) {
	svc := NewService(newMemStore())

	if _, err := svc.CreateCategory(context.Background(), Category{Code: "WATER", Designation: "Water quality"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateCategory(context.Background(), Category{Code: "water", Designation: "Water again"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateCategoryRequiresID(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.UpdateCategory(context.Background(), Category{Code: "WATER", Designation: "Water quality"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEnsureProfileBootstraps(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, WithClock(fixedClock))

	p, err := svc.EnsureProfile(context.Background(), testUserID, "User@Example.ORG")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if p.Email != "user@example.org" {
		t.Fatalf("expected lowercased email, got %q", p.Email)
	}
	if len(p.Roles) != 1 || p.Roles[0].Code != "USER" {
		t.Fatalf("expected bootstrap USER role, got %+v", p.Roles)
	}

	// Second call returns the existing profile without re-assigning.
	again, err := svc.EnsureProfile(context.Background(), testUserID, "other@example.org")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again.Email != "user@example.org" {
		t.Fatalf("existing profile should win, got %q", again.Email)
	}
	if len(store.roles[testUserID]) != 1 {
		t.Fatalf("bootstrap role assigned twice: %v", store.roles[testUserID])
	}
}

func TestEnsureProfileRejectsBadUserID(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.EnsureProfile(context.Background(), "not-a-uuid", "user@example.org")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClampList(t *testing.T) {
	p := clampList(ListParams{Limit: -3, Offset: -1, Sort: "DROP TABLE"}, "code", "created_at")
	if p.Limit != defaultListLimit || p.Offset != 0 || p.Sort != "code" {
		t.Fatalf("unexpected clamp: %+v", p)
	}

	p = clampList(ListParams{Limit: 9999, Sort: "Created_At"}, "code", "created_at")
	if p.Limit != maxListLimit || p.Sort != "created_at" {
		t.Fatalf("unexpected clamp: %+v", p)
	}
}

func TestValidateSourceURL(t *testing.T) {
	svc := NewService(newMemStore())

	_, err := svc.CreateSource(context.Background(), Source{Code: "WHO", Name: "World Health Organization", URL: "ftp://example.org"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-http URL, got %v", err)
	}
}
