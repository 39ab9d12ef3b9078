package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/database"
	"fundingnl/backend/models"
)

// Store persists profiles and their role extensions.
type Store interface {
	// GetBundle returns NotFound when the profile does not exist. Missing extensions are nil.
	GetBundle(ctx context.Context, userID uuid.UUID) (*Bundle, error)
	// Save applies changes and refreshes the derived status in one transaction.
	Save(ctx context.Context, userID uuid.UUID, c Changes) (*Bundle, error)
	MarkWizardCompleted(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetBundle(ctx context.Context, userID uuid.UUID) (*Bundle, error) {
	return loadBundle(ctx, s.db, SelectProfileQuery, userID)
}

func (s *PostgresStore) Save(ctx context.Context, userID uuid.UUID, c Changes) (*Bundle, error) {
	var saved *Bundle
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := loadBundle(ctx, tx, SelectProfileForUpdateQuery, userID)
		if err != nil {
			return err
		}

		next := Apply(current, userID, c)
		p := next.Profile
		err = tx.QueryRowContext(ctx, UpdateProfileQuery,
			p.FullName, p.Bio, p.AvatarURL, p.LinkedInURL, p.CompanyName, p.Status, userID,
		).Scan(&p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error updating profile: %w", err)
		}

		if c.Startup != nil {
			st := next.Startup
			err = tx.QueryRowContext(ctx, UpsertStartupQuery,
				userID, st.Sector, st.Stage, st.Description, st.Website, st.LogoURL, st.Location,
			).Scan(&st.CreatedAt, &st.UpdatedAt)
			if err != nil {
				return fmt.Errorf("error saving startup: %w", err)
			}
		}

		if c.Investor != nil {
			inv := next.Investor
			err = tx.QueryRowContext(ctx, UpsertInvestorQuery,
				userID, inv.InvestmentThesis, pq.Array(inv.InvestmentStages), pq.Array(inv.PreferredIndustries),
			).Scan(&inv.CreatedAt, &inv.UpdatedAt)
			if err != nil {
				return fmt.Errorf("error saving investor profile: %w", err)
			}
		}

		saved = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *PostgresStore) MarkWizardCompleted(ctx context.Context, userID uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, MarkWizardCompletedQuery, at, userID)
	if err != nil {
		return fmt.Errorf("error marking wizard completed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	return nil
}

func loadBundle(ctx context.Context, q queryRower, profileQuery string, userID uuid.UUID) (*Bundle, error) {
	var p models.Profile
	var completedAt sql.NullTime
	err := q.QueryRowContext(ctx, profileQuery, userID).Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.Bio,
		&p.AvatarURL,
		&p.LinkedInURL,
		&p.CompanyName,
		&p.UserType,
		&p.Status,
		&completedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	if completedAt.Valid {
		p.WizardCompletedAt = &completedAt.Time
	}

	b := &Bundle{Profile: &p}

	var st models.StartupProfile
	err = q.QueryRowContext(ctx, SelectStartupQuery, userID).Scan(
		&st.ProfileID, &st.Sector, &st.Stage, &st.Description, &st.Website, &st.LogoURL, &st.Location, &st.CreatedAt, &st.UpdatedAt,
	)
	switch {
	case err == nil:
		b.Startup = &st
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("error loading startup: %w", err)
	}

	var inv models.InvestorProfile
	err = q.QueryRowContext(ctx, SelectInvestorQuery, userID).Scan(
		&inv.ProfileID, &inv.InvestmentThesis, pq.Array(&inv.InvestmentStages), pq.Array(&inv.PreferredIndustries), &inv.CreatedAt, &inv.UpdatedAt,
	)
	switch {
	case err == nil:
		b.Investor = &inv
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("error loading investor profile: %w", err)
	}

	return b, nil
}
