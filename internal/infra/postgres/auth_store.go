package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"
)

// AuthStore persistence (port.AuthStore).

// CreateUser inserts the user and its credentials in one transaction.
func (s *Store) CreateUser(ctx context.Context, user *domain.User, passwordHash string) error {
	return s.write(ctx, "create_user", func() error {
		dbTx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning tx: %w", err)
		}
		defer dbTx.Rollback()

		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO users (id, name, email, created_at) VALUES ($1, $2, $3, $4)`,
			user.ID, user.Name, user.Email, user.CreatedAt); err != nil {
			if strings.Contains(err.Error(), "users_email_key") {
				return &domain.ErrConflict{Message: "E-mail já cadastrado"}
			}
			return fmt.Errorf("inserting user: %w", err)
		}

		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO credentials (user_id, password_hash) VALUES ($1, $2)`,
			user.ID, passwordHash); err != nil {
			return fmt.Errorf("inserting credentials: %w", err)
		}

		return dbTx.Commit()
	})
}

// GetUserByEmail returns nil when the email is unknown.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, "get_user_by_email",
		`SELECT id, name, email, created_at FROM users WHERE email = $1`, email)
}

// GetUserByID returns nil when the id is unknown.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.getUser(ctx, "get_user_by_id",
		`SELECT id, name, email, created_at FROM users WHERE id = $1`, userID)
}

func (s *Store) getUser(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	var u *domain.User
	err := s.read(ctx, op, func() error {
		var user domain.User
		err := s.db.QueryRowContext(ctx, query, arg).
			Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			u = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("querying user: %w", err)
		}
		u = &user
		return nil
	})
	return u, err
}

// GetPasswordHash returns the bcrypt hash for a user.
func (s *Store) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	err := s.read(ctx, "get_password_hash", func() error {
		err := s.db.QueryRowContext(ctx,
			`SELECT password_hash FROM credentials WHERE user_id = $1`, userID).Scan(&hash)
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Resource: "credenciais", ID: userID}
		}
		return err
	})
	return hash, err
}

// StoreRefreshToken persists a hashed refresh token.
func (s *Store) StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return s.write(ctx, "store_refresh_token", func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO refresh_tokens (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
			tokenHash, userID, expiresAt)
		return err
	})
}

// GetRefreshToken returns nil when the hash is unknown.
func (s *Store) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.StoredRefreshToken, error) {
	var t *domain.StoredRefreshToken
	err := s.read(ctx, "get_refresh_token", func() error {
		var stored domain.StoredRefreshToken
		err := s.db.QueryRowContext(ctx,
			`SELECT token_hash, user_id, expires_at FROM refresh_tokens WHERE token_hash = $1`,
			tokenHash).Scan(&stored.TokenHash, &stored.UserID, &stored.ExpiresAt)
		if errors.Is(err, sql.ErrNoRows) {
			t = nil
			return nil
		}
		if err != nil {
			return err
		}
		t = &stored
		return nil
	})
	return t, err
}

// RevokeRefreshToken deletes one refresh token.
func (s *Store) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return s.write(ctx, "revoke_refresh_token", func() error {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
		return err
	})
}

// RevokeAllRefreshTokens deletes every refresh token of a user.
func (s *Store) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	return s.write(ctx, "revoke_all_refresh_tokens", func() error {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
		return err
	})
}
