package registry

import "time"

// Category groups variables and indicators under a thematic heading.
type Category struct {
	ID          int64
	Code        string
	Designation string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Entry is a single reported value for a variable, scoped to the reporting
// organization of the profile that filed it.
type Entry struct {
	ID                      int64
	VariableCode            string
	CategoryCode            string
	OrganizationElementCode string
	Value                   float64
	Valid                   bool
	Year                    int
	Period                  string
	ProfileUserID           string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Organization is a reporting institution. DataManagerID, when set, names the
// user responsible for the organization's data.
type Organization struct {
	ID            int64
	Code          string
	Name          string
	Description   string
	DataManagerID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Indicator is a published measure derived from reported variables.
type Indicator struct {
	ID                  int64
	Code                string
	Designation         string
	Definition          string
	Goal                string
	Formula             string
	CategoryCode        string
	Level               string
	CalculationMethod   string
	CollectionFrequency string
	Interpretation      string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Source documents where a variable's data originates.
type Source struct {
	ID          int64
	Code        string
	Name        string
	Description string
	URL         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variable is a collectable measure attached to a source and a category.
type Variable struct {
	ID           int64
	Code         string
	Designation  string
	SourceID     int64
	CategoryCode string
	Frequency    string
	Level        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile carries a user's reporting identity: display fields, the
// organization they report for and the roles they hold.
type Profile struct {
	ID                      int64
	UserID                  string
	Email                   string
	FirstName               string
	LastName                string
	Bio                     string
	OrganizationElementCode string
	PasswordHash            string `json:"-"`
	Roles                   []Role
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Role is a named capability grant.
type Role struct {
	ID          int64
	Code        string
	Designation string
}

// ListParams bounds list queries. Zero values select the defaults.
type ListParams struct {
	Limit  int
	Offset int
	Sort   string
}
