package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"healthgrid.org/internal/registry"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestCreateCategoryMapsUniqueViolation(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("insert into categories").
		WithArgs("WATER", "Water quality", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := store.Categories(context.Background()).Create(context.Background(), &registry.Category{
		Code:        "WATER",
		Designation: "Water quality",
		CreatedAt:   time.Now().UTC(),
	})
	if !errors.Is(err, registry.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindCategoryNotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("select id, code, designation").
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "designation", "created_at", "updated_at"}))

	_, err := store.Categories(context.Background()).Find(context.Background(), 77)
	if !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCategoryZeroRows(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("update categories").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Categories(context.Background()).Update(context.Background(), &registry.Category{
		ID:          5,
		Code:        "WATER",
		Designation: "Water quality",
	})
	if !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateEntryMapsForeignKeyViolation(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("insert into entries").
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})

	err := store.Entries(context.Background()).Create(context.Background(), &registry.Entry{
		VariableCode:            "POP_TOTAL",
		CategoryCode:            "DEMOGRAPHY",
		OrganizationElementCode: "ORG_A",
		Year:                    2025,
		ProfileUserID:           "3f6c2b1a-77aa-4f10-bd4e-8a20cf94d1ce",
	})
	if !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing foreign key, got %v", err)
	}
}

func TestListCategoriesAppliesSortAndLimit(t *testing.T) {
	store, mock := newMock(t)

	now := time.Now().UTC()
	mock.ExpectQuery("select id, code, designation.*order by code.*limit").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "designation", "created_at", "updated_at"}).
			AddRow(1, "AIR", "Air quality", now, now).
			AddRow(2, "WATER", "Water quality", now, now))

	list, err := store.Categories(context.Background()).List(context.Background(), registry.ListParams{
		Limit: 50, Sort: "code",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Code != "AIR" {
		t.Fatalf("unexpected result: %+v", list)
	}
}

func TestAssignRoleUnknownRole(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("insert into profile_roles").
		WithArgs("3f6c2b1a-77aa-4f10-bd4e-8a20cf94d1ce", "NO_SUCH_ROLE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select exists").
		WithArgs("NO_SUCH_ROLE").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := store.Profiles(context.Background()).AssignRole(context.Background(),
		"3f6c2b1a-77aa-4f10-bd4e-8a20cf94d1ce", "NO_SUCH_ROLE")
	if !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
