package pg

import (
	"context"
	"database/sql"
	"fmt"

	"healthgrid.org/internal/registry"
)

type organizations Store

func scanOrganization(row interface{ Scan(...any) error }) (*registry.Organization, error) {
	var (
		o       registry.Organization
		manager sql.NullString
	)
	err := row.Scan(&o.ID, &o.Code, &o.Name, &o.Description, &manager, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if manager.Valid {
		o.DataManagerID = manager.String
	}
	return &o, nil
}

func (s *organizations) Create(ctx context.Context, o *registry.Organization) error {
	err := s.db.QueryRowContext(ctx, `
		insert into organizations (code, name, description, data_manager_id, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $5)
		returning id
	`, o.Code, o.Name, o.Description, nullIfEmpty(o.DataManagerID), o.CreatedAt).Scan(&o.ID)
	return mapErr(err)
}

func (s *organizations) Find(ctx context.Context, id int64) (*registry.Organization, error) {
	o, err := scanOrganization(s.db.QueryRowContext(ctx, `
		select id, code, name, description, data_manager_id, created_at, updated_at
		from organizations
		where id = $1
	`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return o, nil
}

func (s *organizations) FindByCode(ctx context.Context, code string) (*registry.Organization, error) {
	o, err := scanOrganization(s.db.QueryRowContext(ctx, `
		select id, code, name, description, data_manager_id, created_at, updated_at
		from organizations
		where code = $1
	`, code))
	if err != nil {
		return nil, mapErr(err)
	}
	return o, nil
}

func (s *organizations) List(ctx context.Context, params registry.ListParams) ([]*registry.Organization, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select id, code, name, description, data_manager_id, created_at, updated_at
		from organizations
		order by %s
		limit $1 offset $2
	`, params.Sort), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*registry.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (s *organizations) Update(ctx context.Context, o *registry.Organization) error {
	res, err := s.db.ExecContext(ctx, `
		update organizations
		set code = $2, name = $3, description = $4, data_manager_id = $5, updated_at = $6
		where id = $1
	`, o.ID, o.Code, o.Name, o.Description, nullIfEmpty(o.DataManagerID), o.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *organizations) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from organizations where id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
