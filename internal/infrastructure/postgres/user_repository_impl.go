package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurangzeb-bilal/update-username/internal/domain/entity"
	"github.com/aurangzeb-bilal/update-username/internal/domain/repository"
)

const userColumns = `id, username, email, display_name, given_name, surname, preferred_language, password_hash, created_at, updated_at`

// UserRepository implements the directory gateway on Postgres. The UNIQUE
// index on username is the write-time backstop for the orchestrator's
// check-then-act uniqueness lookup.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByAttribute looks a record up by a whitelisted attribute name.
// Unknown attributes are a caller bug and resolve to ErrNotFound rather than
// a SQL error built from untrusted input.
func (r *UserRepository) FindByAttribute(ctx context.Context, attr, value string) (*entity.User, error) {
	switch attr {
	case repository.AttrID:
		return r.GetByID(ctx, value)
	case repository.AttrUsername:
		return r.GetByUsername(ctx, value)
	case repository.AttrEmail:
		return r.GetByEmail(ctx, value)
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+column+` = $1
	`, value)

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.GivenName,
		&u.Surname, &u.PreferredLanguage, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, display_name, given_name, surname, preferred_language, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.DisplayName, u.GivenName, u.Surname, u.PreferredLanguage, u.PasswordHash)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotCreated
		}
		return err
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, display_name = $3, given_name = $4,
		    surname = $5, preferred_language = $6, password_hash = $7, updated_at = $8
		WHERE id = $9
	`, u.Username, u.Email, u.DisplayName, u.GivenName, u.Surname,
		u.PreferredLanguage, u.PasswordHash, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// isUniqueViolation reports whether err is Postgres error 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ repository.UserRepository = (*UserRepository)(nil)
