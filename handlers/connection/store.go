package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/database"
	"fundingnl/backend/models"
)

// Store persists connections.
type Store interface {
	// Create inserts a pending connection. An open connection for the pair is a conflict.
	Create(ctx context.Context, c *models.Connection) error
	Get(ctx context.Context, id uuid.UUID) (*models.Connection, error)
	// Latest returns the newest connection between exactly a and b, or NotFound.
	Latest(ctx context.Context, a, b uuid.UUID) (*models.Connection, error)
	// SetStatus moves a pending connection to status. A non-pending row is an invalid transition.
	SetStatus(ctx context.Context, id uuid.UUID, status models.ConnectionStatus) (*models.Connection, error)
	ListRequested(ctx context.Context, userID uuid.UUID) ([]models.Connection, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]models.Connection, error)
	ListPending(ctx context.Context, userID uuid.UUID) ([]models.Connection, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DisplayName(ctx context.Context, userID uuid.UUID) (string, error)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConnection(row rowScanner, extra ...interface{}) (*models.Connection, error) {
	var c models.Connection
	dest := append([]interface{}{&c.ID, &c.RequesterID, &c.RecipientID, &c.Status, &c.Message, &c.CreatedAt, &c.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Connection) error {
	err := s.db.QueryRowContext(ctx, InsertConnectionQuery, c.RequesterID, c.RecipientID, c.Message).
		Scan(&c.ID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("a connection between these users already exists: %w", apperrors.ErrConflict)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("recipient profile: %w", apperrors.ErrNotFound)
	case err != nil:
		return fmt.Errorf("error creating connection: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	c, err := scanConnection(s.db.QueryRowContext(ctx, SelectConnectionQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("connection: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading connection: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) Latest(ctx context.Context, a, b uuid.UUID) (*models.Connection, error) {
	c, err := scanConnection(s.db.QueryRowContext(ctx, SelectLatestBetweenQuery, a, b))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("connection: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading connection status: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id uuid.UUID, status models.ConnectionStatus) (*models.Connection, error) {
	c, err := scanConnection(s.db.QueryRowContext(ctx, UpdatePendingStatusQuery, status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("connection is no longer pending: %w", apperrors.ErrInvalidTransition)
	}
	if database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("a connection between these users is already open: %w", apperrors.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating connection: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListRequested(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	return s.list(ctx, SelectRequestedQuery, userID)
}

func (s *PostgresStore) ListReceived(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	return s.list(ctx, SelectReceivedQuery, userID)
}

func (s *PostgresStore) ListPending(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	return s.list(ctx, SelectPendingReceivedQuery, userID)
}

func (s *PostgresStore) list(ctx context.Context, query string, userID uuid.UUID) ([]models.Connection, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying connections: %w", err)
	}
	defer rows.Close()

	list := []models.Connection{}
	for rows.Next() {
		var otherID uuid.UUID
		var name, avatar string
		c, err := scanConnection(rows, &otherID, &name, &avatar)
		if err != nil {
			return nil, fmt.Errorf("error scanning connection: %w", err)
		}
		c.OtherUserID = otherID
		c.OtherUserName = name
		c.OtherUserAvatar = avatar
		c.IsRequester = c.RequesterID == userID
		list = append(list, *c)
	}
	return list, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, DeleteConnectionQuery, id)
	if err != nil {
		return fmt.Errorf("error deleting connection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("connection: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, SelectDisplayNameQuery, userID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("error loading profile name: %w", err)
	}
	return name, nil
}
