package database

import (
	"context"

	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/output"
)

var _ output.AdminProvisioner = (*AdminRepository)(nil)

// AdminRepository is the admin directory backed by the admins table.
type AdminRepository struct {
	db DBTX
}

func NewAdminRepository(db DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE email = $1)`,
		entities.NormalizeEmail(email)).Scan(&ok)
	if err != nil {
		return false, storeErr("check admin", err)
	}
	return ok, nil
}

func (r *AdminRepository) Grant(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO admins (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`,
		entities.NormalizeEmail(email))
	if err != nil {
		return storeErr("grant admin", err)
	}
	return nil
}

func (r *AdminRepository) Revoke(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM admins WHERE email = $1`, entities.NormalizeEmail(email))
	if err != nil {
		return storeErr("revoke admin", err)
	}
	return nil
}

func (r *AdminRepository) ListAdmins(ctx context.Context) ([]entities.Admin, error) {
	rows, err := r.db.Query(ctx, `SELECT email, created_at FROM admins ORDER BY email`)
	if err != nil {
		return nil, storeErr("list admins", err)
	}
	defer rows.Close()

	var out []entities.Admin
	for rows.Next() {
		var a entities.Admin
		if err := rows.Scan(&a.Email, &a.CreatedAt); err != nil {
			return nil, storeErr("scan admin", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list admins", err)
	}
	return out, nil
}
