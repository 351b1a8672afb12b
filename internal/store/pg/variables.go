package pg

import (
	"context"
	"fmt"

	"healthgrid.org/internal/registry"
)

type variables Store

func (s *variables) Create(ctx context.Context, v *registry.Variable) error {
	err := s.db.QueryRowContext(ctx, `
		insert into variables (code, designation, source_id, category_code, frequency, level,
			created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $7)
		returning id
	`, v.Code, v.Designation, v.SourceID, v.CategoryCode, v.Frequency, v.Level, v.CreatedAt).Scan(&v.ID)
	return mapErr(err)
}

func (s *variables) Find(ctx context.Context, id int64) (*registry.Variable, error) {
	var v registry.Variable
	err := s.db.QueryRowContext(ctx, `
		select id, code, designation, source_id, category_code, frequency, level, created_at, updated_at
		from variables
		where id = $1
	`, id).Scan(&v.ID, &v.Code, &v.Designation, &v.SourceID, &v.CategoryCode, &v.Frequency, &v.Level, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

func (s *variables) List(ctx context.Context, params registry.ListParams) ([]*registry.Variable, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select id, code, designation, source_id, category_code, frequency, level, created_at, updated_at
		from variables
		order by %s
		limit $1 offset $2
	`, params.Sort), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*registry.Variable
	for rows.Next() {
		var v registry.Variable
		if err := rows.Scan(&v.ID, &v.Code, &v.Designation, &v.SourceID, &v.CategoryCode, &v.Frequency, &v.Level, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	return result, rows.Err()
}

func (s *variables) Update(ctx context.Context, v *registry.Variable) error {
	res, err := s.db.ExecContext(ctx, `
		update variables
		set code = $2, designation = $3, source_id = $4, category_code = $5,
			frequency = $6, level = $7, updated_at = $8
		where id = $1
	`, v.ID, v.Code, v.Designation, v.SourceID, v.CategoryCode, v.Frequency, v.Level, v.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *variables) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from variables where id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
