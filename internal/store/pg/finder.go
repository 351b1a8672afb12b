package pg

import (
	"context"
	"database/sql"
	"errors"

	"healthgrid.org/internal/authz"
)

var _ authz.ResourceFinder = (*Store)(nil)

// FindEntry loads the ownership snapshot for one entry. A missing id yields
// (nil, nil): absence is an authorization fact, not a fault.
func (s *Store) FindEntry(ctx context.Context, id int64) (*authz.EntrySnapshot, error) {
	var snap authz.EntrySnapshot
	err := s.db.QueryRowContext(ctx, `
		select organization_element_code from entries where id = $1
	`, id).Scan(&snap.OrganizationElementCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) FindCategory(ctx context.Context, id int64) (*authz.CategorySnapshot, error) {
	var (
		snap authz.CategorySnapshot
		code string
	)
	err := s.db.QueryRowContext(ctx, `
		select c.code,
			(select count(*) from entries e where e.category_code = c.code),
			(select count(*) from indicators i where i.category_code = c.code),
			(select count(*) from variables v where v.category_code = c.code)
		from categories c
		where c.id = $1
	`, id).Scan(&code, &snap.EntryCount, &snap.IndicatorCount, &snap.VariableCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		select distinct organization_element_code from entries where category_code = $1
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var org string
		if err := rows.Scan(&org); err != nil {
			return nil, err
		}
		snap.EntryOrgCodes = append(snap.EntryOrgCodes, org)
	}
	return &snap, rows.Err()
}

func (s *Store) FindOrganization(ctx context.Context, id int64) (*authz.OrganizationSnapshot, error) {
	var (
		snap    authz.OrganizationSnapshot
		manager sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select o.code, o.data_manager_id,
			(select count(*) from entries e where e.organization_element_code = o.code),
			(select count(*) from profiles p where p.organization_element_code = o.code)
		from organizations o
		where o.id = $1
	`, id).Scan(&snap.Code, &manager, &snap.EntryCount, &snap.ProfileCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if manager.Valid {
		snap.DataManagerID = manager.String
	}
	return &snap, nil
}

func (s *Store) FindVariable(ctx context.Context, id int64) (*authz.VariableSnapshot, error) {
	var (
		snap authz.VariableSnapshot
		code string
	)
	err := s.db.QueryRowContext(ctx, `
		select v.code,
			(select count(*) from entries e where e.variable_code = v.code)
		from variables v
		where v.id = $1
	`, id).Scan(&code, &snap.EntryCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		select distinct organization_element_code from entries where variable_code = $1
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var org string
		if err := rows.Scan(&org); err != nil {
			return nil, err
		}
		snap.EntryOrgCodes = append(snap.EntryOrgCodes, org)
	}
	return &snap, rows.Err()
}

func (s *Store) SourceExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from sources where id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
