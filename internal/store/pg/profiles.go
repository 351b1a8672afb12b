package pg

import (
	"context"
	"database/sql"
	"fmt"

	"healthgrid.org/internal/registry"
)

type profiles Store

func scanProfile(row interface{ Scan(...any) error }) (*registry.Profile, error) {
	var (
		p    registry.Profile
		org  sql.NullString
		hash sql.NullString
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.FirstName, &p.LastName, &p.Bio,
		&org, &hash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if org.Valid {
		p.OrganizationElementCode = org.String
	}
	if hash.Valid {
		p.PasswordHash = hash.String
	}
	return &p, nil
}

func (s *profiles) Create(ctx context.Context, p *registry.Profile) error {
	err := s.db.QueryRowContext(ctx, `
		insert into profiles (user_id, email, first_name, last_name, bio,
			organization_element_code, password_hash, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		returning id
	`, p.UserID, p.Email, p.FirstName, p.LastName, p.Bio,
		nullIfEmpty(p.OrganizationElementCode), nullIfEmpty(p.PasswordHash),
		p.CreatedAt).Scan(&p.ID)
	return mapErr(err)
}

func (s *profiles) FindByUserID(ctx context.Context, userID string) (*registry.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, `
		select id, user_id, email, first_name, last_name, bio,
			organization_element_code, password_hash, created_at, updated_at
		from profiles
		where user_id = $1
	`, userID))
	if err != nil {
		return nil, mapErr(err)
	}
	if err := s.loadRoles(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profiles) loadRoles(ctx context.Context, p *registry.Profile) error {
	rows, err := s.db.QueryContext(ctx, `
		select r.id, r.code, r.designation
		from roles r
		join profile_roles pr on pr.role_id = r.id
		where pr.profile_user_id = $1
		order by r.code
	`, p.UserID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r registry.Role
		if err := rows.Scan(&r.ID, &r.Code, &r.Designation); err != nil {
			return err
		}
		p.Roles = append(p.Roles, r)
	}
	return rows.Err()
}

func (s *profiles) List(ctx context.Context, params registry.ListParams) ([]*registry.Profile, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select id, user_id, email, first_name, last_name, bio,
			organization_element_code, password_hash, created_at, updated_at
		from profiles
		order by %s
		limit $1 offset $2
	`, params.Sort), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*registry.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range result {
		if err := s.loadRoles(ctx, p); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *profiles) Update(ctx context.Context, p *registry.Profile) error {
	res, err := s.db.ExecContext(ctx, `
		update profiles
		set email = $2, first_name = $3, last_name = $4, bio = $5,
			organization_element_code = $6, password_hash = $7, updated_at = $8
		where user_id = $1
	`, p.UserID, p.Email, p.FirstName, p.LastName, p.Bio,
		nullIfEmpty(p.OrganizationElementCode), nullIfEmpty(p.PasswordHash), p.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *profiles) Delete(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `delete from profiles where user_id = $1`, userID)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *profiles) AssignRole(ctx context.Context, userID, roleCode string) error {
	res, err := s.db.ExecContext(ctx, `
		insert into profile_roles (profile_user_id, role_id)
		select $1, r.id from roles r where r.code = $2
		on conflict do nothing
	`, userID, roleCode)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the role code is unknown or the assignment already exists;
		// distinguish by probing the role.
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`select exists(select 1 from roles where code = $1)`, roleCode).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return registry.ErrNotFound
		}
	}
	return nil
}
