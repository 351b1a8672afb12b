package pg

import (
	"context"
	"fmt"

	"healthgrid.org/internal/registry"
)

type indicators Store

const indicatorColumns = `id, code, designation, definition, goal, formula,
	category_code, level, calculation_method, collection_frequency, interpretation,
	created_at, updated_at`

func scanIndicator(row interface{ Scan(...any) error }) (*registry.Indicator, error) {
	var in registry.Indicator
	err := row.Scan(&in.ID, &in.Code, &in.Designation, &in.Definition, &in.Goal, &in.Formula,
		&in.CategoryCode, &in.Level, &in.CalculationMethod, &in.CollectionFrequency,
		&in.Interpretation, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *indicators) Create(ctx context.Context, in *registry.Indicator) error {
	err := s.db.QueryRowContext(ctx, `
		insert into indicators (code, designation, definition, goal, formula,
			category_code, level, calculation_method, collection_frequency, interpretation,
			created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		returning id
	`, in.Code, in.Designation, in.Definition, in.Goal, in.Formula,
		in.CategoryCode, in.Level, in.CalculationMethod, in.CollectionFrequency,
		in.Interpretation, in.CreatedAt).Scan(&in.ID)
	return mapErr(err)
}

func (s *indicators) Find(ctx context.Context, id int64) (*registry.Indicator, error) {
	in, err := scanIndicator(s.db.QueryRowContext(ctx,
		`select `+indicatorColumns+` from indicators where id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return in, nil
}

func (s *indicators) List(ctx context.Context, params registry.ListParams) ([]*registry.Indicator, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`select `+indicatorColumns+` from indicators order by %s limit $1 offset $2`,
		params.Sort), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*registry.Indicator
	for rows.Next() {
		in, err := scanIndicator(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, in)
	}
	return result, rows.Err()
}

func (s *indicators) Update(ctx context.Context, in *registry.Indicator) error {
	res, err := s.db.ExecContext(ctx, `
		update indicators
		set code = $2, designation = $3, definition = $4, goal = $5, formula = $6,
			category_code = $7, level = $8, calculation_method = $9,
			collection_frequency = $10, interpretation = $11, updated_at = $12
		where id = $1
	`, in.ID, in.Code, in.Designation, in.Definition, in.Goal, in.Formula,
		in.CategoryCode, in.Level, in.CalculationMethod, in.CollectionFrequency,
		in.Interpretation, in.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *indicators) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from indicators where id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}
