package pg

import (
	"context"
	"fmt"

	"healthgrid.org/internal/registry"
)

type sources Store

func (s *sources) Create(ctx context.Context, src *registry.Source) error {
	err := s.db.QueryRowContext(ctx, `
		insert into sources (code, name, description, url, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $5)
		returning id
	`, src.Code, src.Name, src.Description, src.URL, src.CreatedAt).Scan(&src.ID)
	return mapErr(err)
}

func (s *sources) Find(ctx context.Context, id int64) (*registry.Source, error) {
	var src registry.Source
	err := s.db.QueryRowContext(ctx, `
		select id, code, name, description, url, created_at, updated_at
		from sources
		where id = $1
	`, id).Scan(&src.ID, &src.Code, &src.Name, &src.Description, &src.URL, &src.CreatedAt, &src.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &src, nil
}

func (s *sources) List(ctx context.Context, params registry.ListParams) ([]*registry.Source, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select id, code, name, description, url, created_at, updated_at
		from sources
		order by %s
		limit $1 offset $2
	`, params.Sort), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*registry.Source
	for rows.Next() {
		var src registry.Source
		if err := rows.Scan(&src.ID, &src.Code, &src.Name, &src.Description, &src.URL, &src.CreatedAt, &src.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &src)
	}
	return result, rows.Err()
}

func (s *sources) Update(ctx context.Context, src *registry.Source) error {
	res, err := s.db.ExecContext(ctx, `
		update sources
		set code = $2, name = $3, description = $4, url = $5, updated_at = $6
		where id = $1
	`, src.ID, src.Code, src.Name, src.Description, src.URL, src.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *sources) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from sources where id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
