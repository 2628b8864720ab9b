package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mkroener/hall-booking/internal/model"
	"github.com/mkroener/hall-booking/internal/utils"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt-hashed password and returns its ID.
// A duplicate email is reported as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (u_first_name, u_last_name, u_phone, u_email, u_password, u_tax_nr)
		 VALUES (?,?,?,?,?,?)`,
		u.FirstName, u.LastName, u.Phone, strings.ToLower(strings.TrimSpace(u.Email)), hash, u.TaxNr)
	if err != nil {
		// MySQL duplicate-key errors carry code 1062.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	var taxNr sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT u_id, u_first_name, u_last_name, u_email, u_password, u_is_admin, u_is_staff, u_phone, u_tax_nr
		 FROM users WHERE LOWER(u_email) = ? LIMIT 1`,
		email).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.IsStaff, &u.Phone, &taxNr)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if taxNr.Valid {
		v := taxNr.String
		u.TaxNr = &v
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	var taxNr sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT u_id, u_first_name, u_last_name, u_email, u_password, u_is_admin, u_is_staff, u_phone, u_tax_nr
		 FROM users WHERE u_id = ? LIMIT 1`,
		id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.IsStaff, &u.Phone, &taxNr)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if taxNr.Valid {
		v := taxNr.String
		u.TaxNr = &v
	}
	return u, nil
}

// EmailExists reports whether any user row carries the given email.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var one int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE LOWER(u_email) = ? LIMIT 1`, email).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateProfile replaces the editable profile fields of a user.  The
// existence check runs first because an UPDATE that changes nothing
// reports zero affected rows on MySQL and would look like a miss.
func (r *UserRepo) UpdateProfile(ctx context.Context, u model.User) error {
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM users WHERE u_id = ? LIMIT 1`, u.ID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE users SET u_first_name = ?, u_last_name = ?, u_phone = ?, u_email = ?, u_tax_nr = ?
		 WHERE u_id = ?`,
		u.FirstName, u.LastName, u.Phone, strings.ToLower(strings.TrimSpace(u.Email)), u.TaxNr, u.ID)
	return err
}
