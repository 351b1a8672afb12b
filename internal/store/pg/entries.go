package pg

import (
	"context"
	"fmt"

	"healthgrid.org/internal/registry"
)

type entries Store

const entryColumns = `id, variable_code, category_code, organization_element_code,
	value, valid, year, period, profile_user_id, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*registry.Entry, error) {
	var e registry.Entry
	err := row.Scan(&e.ID, &e.VariableCode, &e.CategoryCode, &e.OrganizationElementCode,
		&e.Value, &e.Valid, &e.Year, &e.Period, &e.ProfileUserID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *entries) Create(ctx context.Context, e *registry.Entry) error {
	err := s.db.QueryRowContext(ctx, `
		insert into entries (variable_code, category_code, organization_element_code,
			value, valid, year, period, profile_user_id, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		returning id
	`, e.VariableCode, e.CategoryCode, e.OrganizationElementCode,
		e.Value, e.Valid, e.Year, e.Period, e.ProfileUserID, e.CreatedAt).Scan(&e.ID)
	return mapErr(err)
}

func (s *entries) Find(ctx context.Context, id int64) (*registry.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`select `+entryColumns+` from entries where id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return e, nil
}

func (s *entries) List(ctx context.Context, params registry.ListParams) ([]*registry.Entry, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`select `+entryColumns+` from entries order by %s limit $1 offset $2`,
		params.Sort), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*registry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *entries) ListByOrg(ctx context.Context, orgCode string, params registry.ListParams) ([]*registry.Entry, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`select `+entryColumns+` from entries where organization_element_code = $1 order by %s limit $2 offset $3`,
		params.Sort), orgCode, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*registry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *entries) Update(ctx context.Context, e *registry.Entry) error {
	res, err := s.db.ExecContext(ctx, `
		update entries
		set variable_code = $2, category_code = $3, organization_element_code = $4,
			value = $5, valid = $6, year = $7, period = $8, updated_at = $9
		where id = $1
	`, e.ID, e.VariableCode, e.CategoryCode, e.OrganizationElementCode,
		e.Value, e.Valid, e.Year, e.Period, e.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *entries) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from entries where id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
