package pg

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFindEntryMissingYieldsNil(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("select organization_element_code from entries").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"organization_element_code"}))

	snap, err := store.FindEntry(context.Background(), 404)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot for missing entry, got %+v", snap)
	}
}

func TestFindCategoryCountsAndOrgs(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("select c.code").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"code", "entries", "indicators", "variables"}).
			AddRow("WATER", 4, 1, 2))
	mock.ExpectQuery("select distinct organization_element_code").
		WithArgs("WATER").
		WillReturnRows(sqlmock.NewRows([]string{"organization_element_code"}).
			AddRow("ORG_A").
			AddRow("ORG_B"))

	snap, err := store.FindCategory(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.EntryCount != 4 || snap.IndicatorCount != 1 || snap.VariableCount != 2 {
		t.Fatalf("unexpected counts: %+v", snap)
	}
	if len(snap.EntryOrgCodes) != 2 || snap.EntryOrgCodes[0] != "ORG_A" {
		t.Fatalf("unexpected org codes: %v", snap.EntryOrgCodes)
	}
}

func TestFindOrganizationSnapshot(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("select o.code, o.data_manager_id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"code", "data_manager_id", "entries", "profiles"}).
			AddRow("ORG_A", "3f6c2b1a-77aa-4f10-bd4e-8a20cf94d1ce", 0, 3))

	snap, err := store.FindOrganization(context.Background(), 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Code != "ORG_A" || snap.DataManagerID == "" || snap.ProfileCount != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSourceExists(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("select exists").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := store.SourceExists(context.Background(), 11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected source to exist")
	}
}
