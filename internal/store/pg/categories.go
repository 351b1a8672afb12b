package pg

import (
	"context"
	"fmt"

	"healthgrid.org/internal/registry"
)

type categories Store

func (s *categories) Create(ctx context.Context, c *registry.Category) error {
	err := s.db.QueryRowContext(ctx, `
		insert into categories (code, designation, created_at, updated_at)
		values ($1, $2, $3, $3)
		returning id
	`, c.Code, c.Designation, c.CreatedAt).Scan(&c.ID)
	return mapErr(err)
}

func (s *categories) Find(ctx context.Context, id int64) (*registry.Category, error) {
	var c registry.Category
	err := s.db.QueryRowContext(ctx, `
		select id, code, designation, created_at, updated_at
		from categories
		where id = $1
	`, id).Scan(&c.ID, &c.Code, &c.Designation, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *categories) FindByCode(ctx context.Context, code string) (*registry.Category, error) {
	var c registry.Category
	err := s.db.QueryRowContext(ctx, `
		select id, code, designation, created_at, updated_at
		from categories
		where code = $1
	`, code).Scan(&c.ID, &c.Code, &c.Designation, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *categories) List(ctx context.Context, params registry.ListParams) ([]*registry.Category, error) {
	// Sort column is whitelisted by the service layer.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select id, code, designation, created_at, updated_at
		from categories
		order by %s
		limit $1 offset $2
	`, params.Sort), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*registry.Category
	for rows.Next() {
		var c registry.Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Designation, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}

func (s *categories) Update(ctx context.Context, c *registry.Category) error {
	res, err := s.db.ExecContext(ctx, `
		update categories
		set code = $2, designation = $3, updated_at = $4
		where id = $1
	`, c.ID, c.Code, c.Designation, c.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *categories) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from categories where id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
