package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"

	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, balance, cart, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var cart []byte
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Balance, &cart, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeCart(cart, &u.Cart); err != nil {
		return nil, err
	}
	return &u, nil
}

func decodeCart(raw []byte, dst *[]model.CartLine) error {
	*dst = []model.CartLine{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode cart: %w", err)
	}
	if *dst == nil {
		*dst = []model.CartLine{}
	}
	return nil
}

func encodeCart(cart []model.CartLine) ([]byte, error) {
	if cart == nil {
		cart = []model.CartLine{}
	}
	return json.Marshal(cart)
}

// Create inserts a new user. A duplicate email yields a Conflict error.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	cart, err := encodeCart(u.Cart)
	if err != nil {
		return err
	}
	err = r.db.executor(ctx).QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, balance, cart)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Balance, cart,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("user already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.executor(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "user not found", "get user")
	}
	return u, nil
}

// GetByIDForUpdate locks the user row until the surrounding transaction ends.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.executor(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, "user not found", "get user for update")
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.db.executor(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err, "user not found", "get user by email")
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.executor(ctx).Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile persists name, email and password hash.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	tag, err := r.db.executor(ctx).Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, updated_at = NOW() WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("email already in use")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// SaveCart replaces the user's embedded cart.
func (r *UserRepository) SaveCart(ctx context.Context, userID string, cart []model.CartLine) error {
	raw, err := encodeCart(cart)
	if err != nil {
		return err
	}
	tag, err := r.db.executor(ctx).Exec(ctx,
		`UPDATE users SET cart = $2, updated_at = NOW() WHERE id = $1`, userID, raw)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// SaveBalanceAndCart writes the balance and cart together in one statement.
func (r *UserRepository) SaveBalanceAndCart(ctx context.Context, userID string, balance float64, cart []model.CartLine) error {
	raw, err := encodeCart(cart)
	if err != nil {
		return err
	}
	tag, err := r.db.executor(ctx).Exec(ctx,
		`UPDATE users SET balance = $2, cart = $3, updated_at = NOW() WHERE id = $1`, userID, balance, raw)
	if err != nil {
		return fmt.Errorf("failed to update user balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.executor(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
