package postgres

import (
	"context"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
)

const userColumns = `id, username, password, first_name, last_name, age, gender, email, created_at`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, u *model.NewUser) (*model.User, error) {
	query := `
		INSERT INTO users (username, password, first_name, last_name, age, gender, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	var user model.User
	err := r.db.GetContext(ctx, &user, query,
		u.Username,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Age,
		u.Gender,
		u.Email,
	)
	if err != nil {
		return nil, translate(err, "create user")
	}
	return &user, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = $1`, username); err != nil {
		return nil, translate(err, "get user by username")
	}
	return &user, nil
}

// Update writes only the non-nil fields of update.
func (r *userRepository) Update(ctx context.Context, id int64, update *model.UserUpdate) (*model.User, error) {
	query := `
		UPDATE users SET
			first_name = COALESCE($1, first_name),
			last_name  = COALESCE($2, last_name),
			age        = COALESCE($3, age),
			gender     = COALESCE($4, gender),
			email      = COALESCE($5, email),
			password   = COALESCE($6, password)
		WHERE id = $7
		RETURNING ` + userColumns

	var user model.User
	err := r.db.GetContext(ctx, &user, query,
		update.FirstName,
		update.LastName,
		update.Age,
		update.Gender,
		update.Email,
		update.PasswordHash,
		id,
	)
	if err != nil {
		return nil, translate(err, "update user")
	}
	return &user, nil
}
