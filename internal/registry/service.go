package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service provides validated access to the reporting registry. All inputs
// are trimmed and checked here; stores only see normalized values.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs Service with optional configuration.
func NewService(store Store, opts ...ServiceOption) *Service {
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// --- categories ---

func (s *Service) CreateCategory(ctx context.Context, c Category) (*Category, error) {
	code, err := normalizeCode("code", c.Code)
	if err != nil {
		return nil, err
	}
	designation, err := normalizeName("designation", c.Designation)
	if err != nil {
		return nil, err
	}
	out := &Category{
		Code:        code,
		Designation: designation,
		CreatedAt:   s.now().UTC(),
	}
	out.UpdatedAt = out.CreatedAt
	if err := s.store.Categories(ctx).Create(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return s.store.Categories(ctx).Find(ctx, id)
}

func (s *Service) GetCategoryByCode(ctx context.Context, code string) (*Category, error) {
	code, err := normalizeCode("code", code)
	if err != nil {
		return nil, err
	}
	return s.store.Categories(ctx).FindByCode(ctx, code)
}

func (s *Service) ListCategories(ctx context.Context, params ListParams) ([]*Category, error) {
	params = clampList(params, "code", "designation", "created_at")
	return s.store.Categories(ctx).List(ctx, params)
}

func (s *Service) UpdateCategory(ctx context.Context, c Category) (*Category, error) {
	if c.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	code, err := normalizeCode("code", c.Code)
	if err != nil {
		return nil, err
	}
	designation, err := normalizeName("designation", c.Designation)
	if err != nil {
		return nil, err
	}
	c.Code = code
	c.Designation = designation
	c.UpdatedAt = s.now().UTC()
	if err := s.store.Categories(ctx).Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.Categories(ctx).Delete(ctx, id)
}

// --- entries ---

func (s *Service) validateEntry(e *Entry) error {
	var err error
	if e.VariableCode, err = normalizeCode("variableCode", e.VariableCode); err != nil {
		return err
	}
	if e.CategoryCode, err = normalizeCode("categoryCode", e.CategoryCode); err != nil {
		return err
	}
	if e.OrganizationElementCode, err = normalizeCode("organizationElementCode", e.OrganizationElementCode); err != nil {
		return err
	}
	if e.Year < 1900 || e.Year > 2100 {
		return fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}
	e.Period = strings.TrimSpace(e.Period)
	if len(e.Period) > 20 {
		return fmt.Errorf("%w: period too long", ErrInvalidInput)
	}
	if _, err := uuid.Parse(e.ProfileUserID); err != nil {
		return fmt.Errorf("%w: profileUserId must be a UUID", ErrInvalidInput)
	}
	return nil
}

func (s *Service) CreateEntry(ctx context.Context, e Entry) (*Entry, error) {
	if err := s.validateEntry(&e); err != nil {
		return nil, err
	}
	e.CreatedAt = s.now().UTC()
	e.UpdatedAt = e.CreatedAt
	if err := s.store.Entries(ctx).Create(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	return s.store.Entries(ctx).Find(ctx, id)
}

func (s *Service) ListEntries(ctx context.Context, params ListParams) ([]*Entry, error) {
	params = clampList(params, "created_at", "year", "variable_code")
	return s.store.Entries(ctx).List(ctx, params)
}

// ListEntriesByOrg returns entries filed for one organization. Callers use
// it to scope list responses to the requesting profile's organization.
func (s *Service) ListEntriesByOrg(ctx context.Context, orgCode string, params ListParams) ([]*Entry, error) {
	orgCode, err := normalizeCode("organizationElementCode", orgCode)
	if err != nil {
		return nil, err
	}
	params = clampList(params, "created_at", "year", "variable_code")
	return s.store.Entries(ctx).ListByOrg(ctx, orgCode, params)
}

func (s *Service) UpdateEntry(ctx context.Context, e Entry) (*Entry, error) {
	if e.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := s.validateEntry(&e); err != nil {
		return nil, err
	}
	e.UpdatedAt = s.now().UTC()
	if err := s.store.Entries(ctx).Update(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) DeleteEntry(ctx context.Context, id int64) error {
	return s.store.Entries(ctx).Delete(ctx, id)
}

// --- organizations ---

func (s *Service) validateOrganization(o *Organization) error {
	var err error
	if o.Code, err = normalizeCode("code", o.Code); err != nil {
		return err
	}
	if o.Name, err = normalizeName("name", o.Name); err != nil {
		return err
	}
	o.Description = strings.TrimSpace(o.Description)
	o.DataManagerID = strings.TrimSpace(o.DataManagerID)
	if o.DataManagerID != "" {
		if _, err := uuid.Parse(o.DataManagerID); err != nil {
			return fmt.Errorf("%w: dataManagerId must be a UUID", ErrInvalidInput)
		}
	}
	return nil
}

func (s *Service) CreateOrganization(ctx context.Context, o Organization) (*Organization, error) {
	if err := s.validateOrganization(&o); err != nil {
		return nil, err
	}
	o.CreatedAt = s.now().UTC()
	o.UpdatedAt = o.CreatedAt
	if err := s.store.Organizations(ctx).Create(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	return s.store.Organizations(ctx).Find(ctx, id)
}

func (s *Service) GetOrganizationByCode(ctx context.Context, code string) (*Organization, error) {
	code, err := normalizeCode("code", code)
	if err != nil {
		return nil, err
	}
	return s.store.Organizations(ctx).FindByCode(ctx, code)
}

func (s *Service) ListOrganizations(ctx context.Context, params ListParams) ([]*Organization, error) {
	params = clampList(params, "code", "name", "created_at")
	return s.store.Organizations(ctx).List(ctx, params)
}

func (s *Service) UpdateOrganization(ctx context.Context, o Organization) (*Organization, error) {
	if o.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := s.validateOrganization(&o); err != nil {
		return nil, err
	}
	o.UpdatedAt = s.now().UTC()
	if err := s.store.Organizations(ctx).Update(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) DeleteOrganization(ctx context.Context, id int64) error {
	return s.store.Organizations(ctx).Delete(ctx, id)
}

// --- indicators ---

func (s *Service) validateIndicator(in *Indicator) error {
	var err error
	if in.Code, err = normalizeCode("code", in.Code); err != nil {
		return err
	}
	if in.Designation, err = normalizeName("designation", in.Designation); err != nil {
		return err
	}
	if in.CategoryCode, err = normalizeCode("categoryCode", in.CategoryCode); err != nil {
		return err
	}
	in.Definition = strings.TrimSpace(in.Definition)
	in.Goal = strings.TrimSpace(in.Goal)
	in.Formula = strings.TrimSpace(in.Formula)
	in.Level = strings.TrimSpace(in.Level)
	in.CalculationMethod = strings.TrimSpace(in.CalculationMethod)
	in.CollectionFrequency = strings.TrimSpace(in.CollectionFrequency)
	in.Interpretation = strings.TrimSpace(in.Interpretation)
	return nil
}

func (s *Service) CreateIndicator(ctx context.Context, in Indicator) (*Indicator, error) {
	if err := s.validateIndicator(&in); err != nil {
		return nil, err
	}
	in.CreatedAt = s.now().UTC()
	in.UpdatedAt = in.CreatedAt
	if err := s.store.Indicators(ctx).Create(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *Service) GetIndicator(ctx context.Context, id int64) (*Indicator, error) {
	return s.store.Indicators(ctx).Find(ctx, id)
}

func (s *Service) ListIndicators(ctx context.Context, params ListParams) ([]*Indicator, error) {
	params = clampList(params, "code", "designation", "created_at")
	return s.store.Indicators(ctx).List(ctx, params)
}

func (s *Service) UpdateIndicator(ctx context.Context, in Indicator) (*Indicator, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := s.validateIndicator(&in); err != nil {
		return nil, err
	}
	in.UpdatedAt = s.now().UTC()
	if err := s.store.Indicators(ctx).Update(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *Service) DeleteIndicator(ctx context.Context, id int64) error {
	return s.store.Indicators(ctx).Delete(ctx, id)
}

// --- sources ---

func (s *Service) validateSource(src *Source) error {
	var err error
	if src.Code, err = normalizeCode("code", src.Code); err != nil {
		return err
	}
	if src.Name, err = normalizeName("name", src.Name); err != nil {
		return err
	}
	src.Description = strings.TrimSpace(src.Description)
	if src.URL, err = validateURL("url", src.URL); err != nil {
		return err
	}
	return nil
}

func (s *Service) CreateSource(ctx context.Context, src Source) (*Source, error) {
	if err := s.validateSource(&src); err != nil {
		return nil, err
	}
	src.CreatedAt = s.now().UTC()
	src.UpdatedAt = src.CreatedAt
	if err := s.store.Sources(ctx).Create(ctx, &src); err != nil {
		return nil, err
	}
	return &src, nil
}

func (s *Service) GetSource(ctx context.Context, id int64) (*Source, error) {
	return s.store.Sources(ctx).Find(ctx, id)
}

func (s *Service) ListSources(ctx context.Context, params ListParams) ([]*Source, error) {
	params = clampList(params, "code", "name", "created_at")
	return s.store.Sources(ctx).List(ctx, params)
}

func (s *Service) UpdateSource(ctx context.Context, src Source) (*Source, error) {
	if src.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := s.validateSource(&src); err != nil {
		return nil, err
	}
	src.UpdatedAt = s.now().UTC()
	if err := s.store.Sources(ctx).Update(ctx, &src); err != nil {
		return nil, err
	}
	return &src, nil
}

func (s *Service) DeleteSource(ctx context.Context, id int64) error {
	return s.store.Sources(ctx).Delete(ctx, id)
}

// --- variables ---

func (s *Service) validateVariable(v *Variable) error {
	var err error
	if v.Code, err = normalizeCode("code", v.Code); err != nil {
		return err
	}
	if v.Designation, err = normalizeName("designation", v.Designation); err != nil {
		return err
	}
	if v.CategoryCode, err = normalizeCode("categoryCode", v.CategoryCode); err != nil {
		return err
	}
	if v.SourceID <= 0 {
		return fmt.Errorf("%w: sourceId is required", ErrInvalidInput)
	}
	v.Frequency = strings.TrimSpace(v.Frequency)
	v.Level = strings.TrimSpace(v.Level)
	return nil
}

func (s *Service) CreateVariable(ctx context.Context, v Variable) (*Variable, error) {
	if err := s.validateVariable(&v); err != nil {
		return nil, err
	}
	v.CreatedAt = s.now().UTC()
	v.UpdatedAt = v.CreatedAt
	if err := s.store.Variables(ctx).Create(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Service) GetVariable(ctx context.Context, id int64) (*Variable, error) {
	return s.store.Variables(ctx).Find(ctx, id)
}

func (s *Service) ListVariables(ctx context.Context, params ListParams) ([]*Variable, error) {
	params = clampList(params, "code", "designation", "created_at")
	return s.store.Variables(ctx).List(ctx, params)
}

func (s *Service) UpdateVariable(ctx context.Context, v Variable) (*Variable, error) {
	if v.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := s.validateVariable(&v); err != nil {
		return nil, err
	}
	v.UpdatedAt = s.now().UTC()
	if err := s.store.Variables(ctx).Update(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Service) DeleteVariable(ctx context.Context, id int64) error {
	return s.store.Variables(ctx).Delete(ctx, id)
}

// --- profiles ---

func (s *Service) validateProfile(p *Profile) error {
	if _, err := uuid.Parse(p.UserID); err != nil {
		return fmt.Errorf("%w: userId must be a UUID", ErrInvalidInput)
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Bio = strings.TrimSpace(p.Bio)
	if len(p.FirstName) > nameMaxLen || len(p.LastName) > nameMaxLen {
		return fmt.Errorf("%w: name too long", ErrInvalidInput)
	}
	if len(p.Bio) > 1000 {
		return fmt.Errorf("%w: bio too long", ErrInvalidInput)
	}
	p.OrganizationElementCode = strings.TrimSpace(p.OrganizationElementCode)
	if p.OrganizationElementCode != "" {
		code, err := normalizeCode("organizationElementCode", p.OrganizationElementCode)
		if err != nil {
			return err
		}
		p.OrganizationElementCode = code
	}
	return nil
}

func (s *Service) CreateProfile(ctx context.Context, p Profile) (*Profile, error) {
	if err := s.validateProfile(&p); err != nil {
		return nil, err
	}
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt
	if err := s.store.Profiles(ctx).Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.store.Profiles(ctx).FindByUserID(ctx, userID)
}

func (s *Service) ListProfiles(ctx context.Context, params ListParams) ([]*Profile, error) {
	params = clampList(params, "created_at", "last_name")
	return s.store.Profiles(ctx).List(ctx, params)
}

func (s *Service) UpdateProfile(ctx context.Context, p Profile) (*Profile, error) {
	if err := s.validateProfile(&p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.store.Profiles(ctx).Update(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) DeleteProfile(ctx context.Context, userID string) error {
	return s.store.Profiles(ctx).Delete(ctx, userID)
}

// EnsureProfile returns the profile for userID, creating a minimal one with
// the bootstrap USER role on first authenticated access.
func (s *Service) EnsureProfile(ctx context.Context, userID, email string) (*Profile, error) {
	profiles := s.store.Profiles(ctx)
	p, err := profiles.FindByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	created, err := s.CreateProfile(ctx, Profile{UserID: userID, Email: email})
	if err != nil {
		if isConflict(err) {
			// Lost the bootstrap race; the winner's profile is authoritative.
			return profiles.FindByUserID(ctx, userID)
		}
		return nil, err
	}
	if err := profiles.AssignRole(ctx, created.UserID, "USER"); err != nil {
		return nil, err
	}
	return profiles.FindByUserID(ctx, userID)
}
