package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emali/estates-api/internal/domain/user"
	"github.com/emali/estates-api/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, phone, username, name, password_hash, role,
	is_verified, is_active, language, last_login, created_at, updated_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}
	return r.prom.ObserveDB(op, fn)
}

func (r *UsersRepo) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	now := time.Now().UTC()
	u := user.User{
		ID:           uuid.NewString(),
		Email:        user.Fold(nu.Email),
		Phone:        nu.Phone,
		Username:     user.Fold(nu.Username),
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		Role:         nu.Role,
		IsActive:     true,
		Language:     nu.Language,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if u.Role == "" {
		u.Role = user.RoleClient
	}

	err := r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, phone, username, name, password_hash, role,
				is_verified, is_active, language, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			u.ID, u.Email, u.Phone, u.Username, u.Name, u.PasswordHash, u.Role,
			u.IsVerified, u.IsActive, u.Language, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return user.User{}, mapUniqueViolation(err)
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, user.Fold(email))
}

// FindByIdentifier resolves a login identifier against email, username and
// phone in one query. Email and username are stored folded.
func (r *UsersRepo) FindByIdentifier(ctx context.Context, identifier string) (user.User, error) {
	return r.getOne(ctx, "users.find_by_identifier",
		`SELECT `+userColumns+`
		 FROM users
		 WHERE email = $1 OR username = $1 OR phone = $2
		 LIMIT 1`,
		user.Fold(identifier), strings.TrimSpace(identifier),
	)
}

func (r *UsersRepo) FindConflict(ctx context.Context, l user.Lookup) (user.User, error) {
	var conds []string
	var args []interface{}

	argsPosition := 1

	if l.Email != "" {
		conds = append(conds, fmt.Sprintf("email = $%d", argsPosition))
		args = append(args, user.Fold(l.Email))
		argsPosition++
	}
	if l.Phone != "" {
		conds = append(conds, fmt.Sprintf("phone = $%d", argsPosition))
		args = append(args, l.Phone)
		argsPosition++
	}
	if l.Username != "" {
		conds = append(conds, fmt.Sprintf("username = $%d", argsPosition))
		args = append(args, user.Fold(l.Username))
	}

	if len(conds) == 0 {
		return user.User{}, user.ErrNotFound
	}

	return r.getOne(ctx, "users.find_conflict",
		`SELECT `+userColumns+` FROM users WHERE `+strings.Join(conds, " OR ")+` LIMIT 1`,
		args...,
	)
}

func (r *UsersRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, "users.update_last_login",
		`UPDATE users SET last_login = $2, updated_at = NOW() WHERE id = $1`,
		id, at.UTC(),
	)
}

func (r *UsersRepo) MarkVerified(ctx context.Context, email string) error {
	return r.execOne(ctx, "users.mark_verified",
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE email = $1`,
		user.Fold(email),
	)
}

func (r *UsersRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.execOne(ctx, "users.set_active",
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active,
	)
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "users.delete", `DELETE FROM users WHERE id = $1`, id)
}

// List returns users newest first with the total matching count.
func (r *UsersRepo) List(ctx context.Context, f user.ListFilter) ([]user.User, int, error) {
	query := `SELECT ` + userColumns + `, COUNT(*) OVER() AS total FROM users`

	var args []interface{}
	argsPosition := 1

	if f.Role != nil {
		query += fmt.Sprintf(" WHERE role = $%d", argsPosition)
		args = append(args, *f.Role)
		argsPosition++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argsPosition)
		args = append(args, f.Limit)
		argsPosition++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argsPosition)
		args = append(args, f.Offset)
	}

	var (
		items []user.User
		total int
	)

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User
			dest := append(scanTargets(&u), &total)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			items = append(items, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	// COUNT(*) OVER() yields nothing when the page is past the end
	if len(items) == 0 && f.Offset > 0 {
		err = r.observe("users.count", func() error {
			q := `SELECT COUNT(*) FROM users`
			var cargs []interface{}
			if f.Role != nil {
				q += ` WHERE role = $1`
				cargs = append(cargs, *f.Role)
			}
			return r.pool.QueryRow(ctx, q, cargs...).Scan(&total)
		})
		if err != nil {
			return nil, 0, err
		}
	}

	return items, total, nil
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, args ...interface{}) (user.User, error) {
	var u user.User

	err := r.observe(op, func() error {
		return r.pool.QueryRow(ctx, query, args...).Scan(scanTargets(&u)...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	var tag pgconn.CommandTag

	err := r.observe(op, func() error {
		var err error
		tag, err = r.pool.Exec(ctx, query, args...)
		return err
	})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanTargets(u *user.User) []interface{} {
	return []interface{}{
		&u.ID,
		&u.Email,
		&u.Phone,
		&u.Username,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.IsVerified,
		&u.IsActive,
		&u.Language,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	}
}

// mapUniqueViolation turns a unique index hit into a ConflictError naming
// the column, so a race past the pre-insert check still reads as a 400.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}

	field := "email"
	switch {
	case strings.Contains(pgErr.ConstraintName, "phone"):
		field = "phone"
	case strings.Contains(pgErr.ConstraintName, "username"):
		field = "username"
	}
	return &user.ConflictError{Fields: []string{field}}
}
