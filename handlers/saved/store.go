package saved

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

// Store persists a user's saved opportunities.
type Store interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.SavedOpportunity, error)
	Add(ctx context.Context, s *models.SavedOpportunity) error
	Remove(ctx context.Context, userID, opportunityID uuid.UUID) error
	UpdateNotes(ctx context.Context, userID, opportunityID uuid.UUID, notes string) (*models.SavedOpportunity, error)
	IsSaved(ctx context.Context, userID, opportunityID uuid.UUID) (bool, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, userID uuid.UUID) ([]models.SavedOpportunity, error) {
	rows, err := s.db.QueryContext(ctx, ListSavedQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying saved opportunities: %w", err)
	}
	defer rows.Close()

	list := []models.SavedOpportunity{}
	for rows.Next() {
		var so models.SavedOpportunity
		var o models.FundingOpportunity
		var amountMin, amountMax sql.NullInt64
		var deadline sql.NullTime
		if err := rows.Scan(
			&so.ID, &so.UserID, &so.OpportunityID, &so.Notes, &so.CreatedAt,
			&o.Slug, &o.Title, &o.Provider, &o.Type, &o.Sector, &amountMin, &amountMax,
			&o.AmountDescription, &o.Location, &o.Description, &o.WebsiteURL, &o.ApplicationURL,
			&deadline, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning saved opportunity: %w", err)
		}
		o.ID = so.OpportunityID
		if amountMin.Valid {
			o.AmountMin = &amountMin.Int64
		}
		if amountMax.Valid {
			o.AmountMax = &amountMax.Int64
		}
		if deadline.Valid {
			o.Deadline = &deadline.Time
		}
		so.Opportunity = &o
		list = append(list, so)
	}
	return list, rows.Err()
}

func (s *PostgresStore) Add(ctx context.Context, so *models.SavedOpportunity) error {
	err := s.db.QueryRowContext(ctx, InsertSavedQuery, so.UserID, so.OpportunityID, so.Notes).
		Scan(&so.ID, &so.CreatedAt)
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("opportunity already saved: %w", apperrors.ErrConflict)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("funding opportunity: %w", apperrors.ErrNotFound)
	case err != nil:
		return fmt.Errorf("error saving opportunity: %w", err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, userID, opportunityID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, DeleteSavedQuery, userID, opportunityID)
	if err != nil {
		return fmt.Errorf("error removing saved opportunity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("saved opportunity: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) UpdateNotes(ctx context.Context, userID, opportunityID uuid.UUID, notes string) (*models.SavedOpportunity, error) {
	var so models.SavedOpportunity
	err := s.db.QueryRowContext(ctx, UpdateNotesQuery, userID, opportunityID, notes).
		Scan(&so.ID, &so.UserID, &so.OpportunityID, &so.Notes, &so.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("saved opportunity: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating notes: %w", err)
	}
	return &so, nil
}

func (s *PostgresStore) IsSaved(ctx context.Context, userID, opportunityID uuid.UUID) (bool, error) {
	var ok bool
	if err := s.db.QueryRowContext(ctx, IsSavedQuery, userID, opportunityID).Scan(&ok); err != nil {
		return false, fmt.Errorf("error checking saved opportunity: %w", err)
	}
	return ok, nil
}
