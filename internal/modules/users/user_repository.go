package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"motogo-backend/internal/models"
)

// RepositoryInterface defines methods for interacting with user storage.
type RepositoryInterface interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CreateLocalUser(ctx context.Context, user *models.User, passwordHash string) (*models.User, error)
	UpsertOAuthUser(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const userColumns = `id, email, COALESCE(password_hash, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
	COALESCE(phone, ''), role, auth_provider, COALESCE(auth_provider_id, ''), COALESCE(profile_image_url, ''),
	is_online, current_lat, current_lng, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Phone, &user.Role, &user.AuthProvider, &user.AuthProviderID, &user.ProfileImageURL,
		&user.IsOnline, &user.CurrentLat, &user.CurrentLng, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *Repository) CreateLocalUser(ctx context.Context, user *models.User, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, phone, role, auth_provider)
		VALUES ($1, $2, $3, $4, $5, $6, 'local')
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.Email, passwordHash, user.FirstName, user.LastName, user.Phone, user.Role))
	if err != nil {
		return nil, fmt.Errorf("repository.CreateLocalUser: %w", err)
	}
	return created, nil
}

// UpsertOAuthUser creates or refreshes a user identified by the external
// provider. Role and phone survive re-login untouched.
func (r *Repository) UpsertOAuthUser(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, first_name, last_name, role, auth_provider, auth_provider_id, profile_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (auth_provider, auth_provider_id) DO UPDATE
		SET email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = NOW()
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.Email, user.FirstName, user.LastName, user.Role,
		user.AuthProvider, user.AuthProviderID, user.ProfileImageURL))
	if err != nil {
		return nil, fmt.Errorf("repository.UpsertOAuthUser: %w", err)
	}
	return created, nil
}

func (r *Repository) Update(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			phone = COALESCE($3, phone),
			profile_image_url = COALESCE($4, profile_image_url),
			updated_at = NOW()
		WHERE id = $5
		RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRow(ctx, query,
		data.FirstName, data.LastName, data.Phone, data.ProfileImageURL, userID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.Update: %w", err)
	}
	return updated, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListAll.Query: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListAll.Scan: %w", err)
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
