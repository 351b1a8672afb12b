package registry

import "context"

// Store describes persistence operations required by the registry.
type Store interface {
	Categories(ctx context.Context) CategoryStore
	Entries(ctx context.Context) EntryStore
	Organizations(ctx context.Context) OrganizationStore
	Indicators(ctx context.Context) IndicatorStore
	Sources(ctx context.Context) SourceStore
	Variables(ctx context.Context) VariableStore
	Profiles(ctx context.Context) ProfileStore
}

// CategoryStore manages thematic categories.
type CategoryStore interface {
	Create(ctx context.Context, c *Category) error
	Find(ctx context.Context, id int64) (*Category, error)
	FindByCode(ctx context.Context, code string) (*Category, error)
	List(ctx context.Context, params ListParams) ([]*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error
}

// EntryStore manages reported values.
type EntryStore interface {
	Create(ctx context.Context, e *Entry) error
	Find(ctx context.Context, id int64) (*Entry, error)
	List(ctx context.Context, params ListParams) ([]*Entry, error)
	ListByOrg(ctx context.Context, orgCode string, params ListParams) ([]*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id int64) error
}

// OrganizationStore manages reporting institutions.
type OrganizationStore interface {
	Create(ctx context.Context, o *Organization) error
	Find(ctx context.Context, id int64) (*Organization, error)
	FindByCode(ctx context.Context, code string) (*Organization, error)
	List(ctx context.Context, params ListParams) ([]*Organization, error)
	Update(ctx context.Context, o *Organization) error
	Delete(ctx context.Context, id int64) error
}

// IndicatorStore manages published indicators.
type IndicatorStore interface {
	Create(ctx context.Context, in *Indicator) error
	Find(ctx context.Context, id int64) (*Indicator, error)
	List(ctx context.Context, params ListParams) ([]*Indicator, error)
	Update(ctx context.Context, in *Indicator) error
	Delete(ctx context.Context, id int64) error
}

// SourceStore manages data sources.
type SourceStore interface {
	Create(ctx context.Context, s *Source) error
	Find(ctx context.Context, id int64) (*Source, error)
	List(ctx context.Context, params ListParams) ([]*Source, error)
	Update(ctx context.Context, s *Source) error
	Delete(ctx context.Context, id int64) error
}

// VariableStore manages collectable variables.
type VariableStore interface {
	Create(ctx context.Context, v *Variable) error
	Find(ctx context.Context, id int64) (*Variable, error)
	List(ctx context.Context, params ListParams) ([]*Variable, error)
	Update(ctx context.Context, v *Variable) error
	Delete(ctx context.Context, id int64) error
}

// ProfileStore manages user profiles and their role assignments. Profiles
// are keyed by the authenticated user id.
type ProfileStore interface {
	Create(ctx context.Context, p *Profile) error
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context, params ListParams) ([]*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, userID string) error
	AssignRole(ctx context.Context, userID, roleCode string) error
}
