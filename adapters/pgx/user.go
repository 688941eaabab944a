package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jrlim/moat/core"
)

const userColumns = `id, name, email, email_verified, image, role, salt, hashed_password, age, country, bio, created_at, updated_at`

func scanUser(row pgx.Row) (*core.User, error) {
	user := &core.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.EmailVerified,
		&user.Image, &user.Role, &user.Salt, &user.PasswordHash,
		&user.Age, &user.Country, &user.Bio,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *Adapter) CreateUser(ctx context.Context, user *core.User) error {
	if user.Role == "" {
		user.Role = core.RoleUser
	}

	query := `INSERT INTO users (id, name, email, email_verified, image, role, salt, hashed_password)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`

	id := uuid.NewString()
	err := a.pool.QueryRow(ctx, query,
		id, user.Name, user.Email, user.EmailVerified,
		user.Image, user.Role, user.Salt, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrEmailTaken
		}
		return err
	}

	user.ID = id
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(a.pool.QueryRow(ctx, query, id))
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(a.pool.QueryRow(ctx, query, email))
}

// UpdateUser patches the mutable profile fields with COALESCE so nil
// patch fields keep their stored values. Salt, hash, and role are not
// reachable from this statement.
func (a *Adapter) UpdateUser(ctx context.Context, userID string, patch core.UserPatch) (*core.User, error) {
	query := `UPDATE users SET
	            name = COALESCE($2, name),
	            image = COALESCE($3, image),
	            email_verified = COALESCE($4, email_verified),
	            age = COALESCE($5, age),
	            country = COALESCE($6, country),
	            bio = COALESCE($7, bio),
	            updated_at = $8
	          WHERE id = $1
	          RETURNING ` + userColumns

	return scanUser(a.pool.QueryRow(ctx, query,
		userID, patch.Name, patch.Image, patch.EmailVerified,
		patch.Age, patch.Country, patch.Bio, time.Now(),
	))
}
