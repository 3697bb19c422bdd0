package user

import (
	"context"
	"errors"

	"electrostore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool *pgxpool.Pool
	log  *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &postgresRepo{pool: pool, log: log}
}

const userColumns = `username, name, surname, role, COALESCE(address, ''), birthdate, password_hash, created_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) error {
	const q = `
INSERT INTO users (username, name, surname, role, address, birthdate, password_hash)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
`
	_, err := r.pool.Exec(ctx, q, u.Username, u.Name, u.Surname, u.Role, u.Address, u.Birthdate, u.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		r.log.Errorw("user repo: create", "username", u.Username, "err", err)
		return err
	}
	r.log.Infow("user repo: created", "username", u.Username, "role", u.Role)
	return nil
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	q := `
SELECT ` + userColumns + `
FROM users
WHERE username = $1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, username))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	q := `
SELECT ` + userColumns + `
FROM users
ORDER BY username ASC
`
	return r.listUsers(ctx, q)
}

func (r *postgresRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	q := `
SELECT ` + userColumns + `
FROM users
WHERE role = $1
ORDER BY username ASC
`
	return r.listUsers(ctx, q, role)
}

func (r *postgresRepo) Update(ctx context.Context, username string, in UpdateInput) (*domain.User, error) {
	q := `
UPDATE users
SET name = $2, surname = $3, address = NULLIF($4, ''), birthdate = $5
WHERE username = $1
RETURNING ` + userColumns + `
`
	return r.scanUser(r.pool.QueryRow(ctx, q, username, in.Name, in.Surname, in.Address, in.Birthdate))
}

func (r *postgresRepo) Delete(ctx context.Context, username string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		r.log.Errorw("user repo: delete", "username", username, "err", err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteAllNonAdmin(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE role <> 'Admin'`)
	if err != nil {
		r.log.Errorw("user repo: delete all", "err", err)
	}
	return err
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Username, &u.Name, &u.Surname, &u.Role, &u.Address, &u.Birthdate, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepo) listUsers(ctx context.Context, q string, args ...interface{}) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.log.Errorw("user repo: list", "err", err)
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Username, &u.Name, &u.Surname, &u.Role, &u.Address, &u.Birthdate, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
