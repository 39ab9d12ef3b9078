package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/database"
	"fundingnl/backend/models"
)

// Store persists identities and issued session and recovery tokens.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash, fullName string, userType models.UserType) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	SaveToken(ctx context.Context, userID uuid.UUID, token, purpose string, expiresAt time.Time) error
	TokenActive(ctx context.Context, token string) (bool, error)
	DeleteToken(ctx context.Context, token string) (uuid.UUID, error)
	ResetPassword(ctx context.Context, recoveryToken, passwordHash string) (uuid.UUID, error)
	PurgeExpiredTokens(ctx context.Context, before time.Time) (int64, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateUser inserts the user and its empty profile in one transaction.
func (s *PostgresStore) CreateUser(ctx context.Context, email, passwordHash, fullName string, userType models.UserType) (*User, error) {
	user := &User{Email: email, UserType: userType}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, InsertUserQuery, strings.ToLower(email), passwordHash).Scan(&user.ID, &user.CreatedAt)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("email already registered: %w", apperrors.ErrConflict)
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		if _, err := tx.ExecContext(ctx, InsertProfileQuery, user.ID, fullName, userType); err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, string, error) {
	return s.getUser(ctx, SelectUserByEmailQuery, email)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, _, err := s.getUser(ctx, SelectUserByIDQuery, id)
	return user, err
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg interface{}) (*User, string, error) {
	var user User
	var hash string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &hash, &user.UserType, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}
	return &user, hash, nil
}

func (s *PostgresStore) SaveToken(ctx context.Context, userID uuid.UUID, token, purpose string, expiresAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, InsertTokenQuery, userID, token, purpose, expiresAt); err != nil {
		return fmt.Errorf("error storing token: %w", err)
	}
	return nil
}

func (s *PostgresStore) TokenActive(ctx context.Context, token string) (bool, error) {
	var active bool
	if err := s.db.QueryRowContext(ctx, TokenActiveQuery, token).Scan(&active); err != nil {
		return false, fmt.Errorf("error checking token: %w", err)
	}
	return active, nil
}

// DeleteToken revokes a token and reports its owner.
func (s *PostgresStore) DeleteToken(ctx context.Context, token string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRowContext(ctx, DeleteTokenQuery, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("token: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("error deleting token: %w", err)
	}
	return userID, nil
}

// ResetPassword consumes a recovery token, stores the new hash and revokes
// every token the user holds, all in one transaction.
func (s *PostgresStore) ResetPassword(ctx context.Context, recoveryToken, passwordHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, ConsumeRecoveryTokenQuery, recoveryToken).Scan(&userID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("recovery token already used or expired: %w", apperrors.ErrUnauthorized)
		}
		if err != nil {
			return fmt.Errorf("error consuming recovery token: %w", err)
		}

		res, err := tx.ExecContext(ctx, UpdatePasswordQuery, passwordHash, userID)
		if err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user: %w", apperrors.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, DeleteUserTokensQuery, userID); err != nil {
			return fmt.Errorf("error revoking tokens: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func (s *PostgresStore) PurgeExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, PurgeExpiredTokensQuery, before)
	if err != nil {
		return 0, fmt.Errorf("error purging tokens: %w", err)
	}
	return res.RowsAffected()
}
