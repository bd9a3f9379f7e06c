package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kawaii-shop/backend/internal/models"
	"github.com/kawaii-shop/backend/internal/utils"
	"github.com/google/uuid"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, email, name, picture, role, addresses, created_at, updated_at`

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	addressesJSON, err := json.Marshal(user.Addresses)
	if err != nil {
		return fmt.Errorf("failed to marshal addresses: %w", err)
	}

	query := `
		INSERT INTO users (id, email, name, picture, role, addresses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		user.ID, user.Email, user.Name, user.Picture, user.Role, addressesJSON,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	return r.queryUser(dbCtx, query, email)
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	return r.queryUser(dbCtx, query, id)
}

// UpdateProfile applies only the fields the request actually carries.
// Nil pointers leave the stored value untouched.
func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var sets []string
	var args []any

	addArg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if req.Name != nil {
		sets = append(sets, "name = "+addArg(*req.Name))
	}
	if req.Picture != nil {
		sets = append(sets, "picture = "+addArg(*req.Picture))
	}
	if req.Addresses != nil {
		addressesJSON, err := json.Marshal(*req.Addresses)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal addresses: %w", err)
		}
		sets = append(sets, "addresses = "+addArg(addressesJSON))
	}

	if len(sets) == 0 {
		return r.GetUserByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")

	query := `
		UPDATE users
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = ` + addArg(id) + `
		RETURNING ` + userColumns

	return r.queryUser(dbCtx, query, args...)
}

func (r *userRepository) queryUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}

	var addressesJSON []byte

	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.Name, &user.Picture, &user.Role,
		&addressesJSON, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(addressesJSON, &user.Addresses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal addresses: %w", err)
	}

	return user, nil
}
