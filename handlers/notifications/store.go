package notifications

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

// Store persists notifications. Every mutation is scoped to the owning user.
type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, n *models.Notification) error {
	data := []byte(n.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}
	err := s.db.QueryRowContext(ctx, InsertNotificationQuery, n.UserID, n.Type, n.Title, n.Message, data).
		Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	n.Data = data
	return nil
}

func (s *PostgresStore) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, ListNotificationsQuery, userID, opts.UnreadOnly, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	list := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var data []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &data, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		n.Data = data
		list = append(list, n)
	}
	return list, rows.Err()
}

func (s *PostgresStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, CountUnreadQuery, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting notifications: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.execOne(ctx, MarkReadQuery, id, userID)
}

func (s *PostgresStore) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.execMany(ctx, MarkAllReadQuery, userID)
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.execOne(ctx, DeleteNotificationQuery, id, userID)
}

func (s *PostgresStore) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.execMany(ctx, DeleteAllNotificationsQuery, userID)
}

func (s *PostgresStore) execOne(ctx context.Context, query string, args ...interface{}) error {
	n, err := s.execMany(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("notification: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) execMany(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error updating notifications: %w", err)
	}
	return res.RowsAffected()
}
