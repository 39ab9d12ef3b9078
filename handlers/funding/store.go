package funding

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

// Catalog returns every opportunity. The resolver scans it in full.
type Catalog interface {
	All(ctx context.Context) ([]models.FundingOpportunity, error)
}

// Store persists the funding catalog.
type Store interface {
	Catalog
	List(ctx context.Context, f Filter) ([]models.FundingOpportunity, error)
	Get(ctx context.Context, id uuid.UUID) (*models.FundingOpportunity, error)
	Recommended(ctx context.Context, sector string, limit int) ([]models.FundingOpportunity, error)
	Create(ctx context.Context, o *models.FundingOpportunity) error
	Update(ctx context.Context, o *models.FundingOpportunity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOpportunity(row rowScanner) (*models.FundingOpportunity, error) {
	var o models.FundingOpportunity
	var amountMin, amountMax sql.NullInt64
	var deadline sql.NullTime
	var details []byte
	err := row.Scan(
		&o.ID, &o.Slug, &o.Title, &o.Provider, &o.Type, &o.Sector, &amountMin, &amountMax,
		&o.AmountDescription, &o.Location, &o.Description, &o.WebsiteURL, &o.ApplicationURL,
		&o.EquityTerms, &details, &deadline, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if amountMin.Valid {
		o.AmountMin = &amountMin.Int64
	}
	if amountMax.Valid {
		o.AmountMax = &amountMax.Int64
	}
	if deadline.Valid {
		o.Deadline = &deadline.Time
	}
	o.Details = details
	return &o, nil
}

func detailsOrEmpty(o *models.FundingOpportunity) []byte {
	if len(o.Details) == 0 {
		return []byte("{}")
	}
	return o.Details
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]models.FundingOpportunity, error) {
	return s.query(ctx, ListOpportunitiesQuery, f.Type, f.Sector, f.Location, f.Search, f.Limit, f.Offset)
}

func (s *PostgresStore) All(ctx context.Context) ([]models.FundingOpportunity, error) {
	return s.query(ctx, SelectAllOpportunitiesQuery)
}

func (s *PostgresStore) Recommended(ctx context.Context, sector string, limit int) ([]models.FundingOpportunity, error) {
	return s.query(ctx, SelectRecommendedQuery, sector, limit)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...interface{}) ([]models.FundingOpportunity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying funding opportunities: %w", err)
	}
	defer rows.Close()

	list := []models.FundingOpportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning funding opportunity: %w", err)
		}
		list = append(list, *o)
	}
	return list, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.FundingOpportunity, error) {
	o, err := scanOpportunity(s.db.QueryRowContext(ctx, SelectOpportunityQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("funding opportunity: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading funding opportunity: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) Create(ctx context.Context, o *models.FundingOpportunity) error {
	saved, err := scanOpportunity(s.db.QueryRowContext(ctx, InsertOpportunityQuery,
		o.Slug, o.Title, o.Provider, o.Type, o.Sector, o.AmountMin, o.AmountMax, o.AmountDescription,
		o.Location, o.Description, o.WebsiteURL, o.ApplicationURL, o.EquityTerms, detailsOrEmpty(o), o.Deadline,
	))
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("slug %q already in use: %w", o.Slug, apperrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("error creating funding opportunity: %w", err)
	}
	*o = *saved
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, o *models.FundingOpportunity) error {
	saved, err := scanOpportunity(s.db.QueryRowContext(ctx, UpdateOpportunityQuery,
		o.Slug, o.Title, o.Provider, o.Type, o.Sector, o.AmountMin, o.AmountMax, o.AmountDescription,
		o.Location, o.Description, o.WebsiteURL, o.ApplicationURL, o.EquityTerms, detailsOrEmpty(o), o.Deadline,
		o.ID,
	))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("funding opportunity: %w", apperrors.ErrNotFound)
	case database.IsUniqueViolation(err):
		return fmt.Errorf("slug %q already in use: %w", o.Slug, apperrors.ErrConflict)
	case err != nil:
		return fmt.Errorf("error updating funding opportunity: %w", err)
	}
	*o = *saved
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, DeleteOpportunityQuery, id)
	if err != nil {
		return fmt.Errorf("error deleting funding opportunity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("funding opportunity: %w", apperrors.ErrNotFound)
	}
	return nil
}
