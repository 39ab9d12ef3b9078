package pitch

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

// Store persists pitches and the feedback investors leave on them.
type Store interface {
	Create(ctx context.Context, p *models.Pitch) error
	Get(ctx context.Context, id uuid.UUID) (*models.Pitch, error)
	Update(ctx context.Context, p *models.Pitch) error
	Delete(ctx context.Context, founderID, id uuid.UUID) error
	ListByFounder(ctx context.Context, founderID uuid.UUID) ([]models.Pitch, error)
	ListPublished(ctx context.Context, limit, offset int) ([]models.Pitch, error)
	AddFeedback(ctx context.Context, f *models.PitchFeedback) error
	ListFeedback(ctx context.Context, pitchID uuid.UUID) ([]models.PitchFeedback, error)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPitch(row rowScanner) (*models.Pitch, error) {
	var p models.Pitch
	err := row.Scan(&p.ID, &p.FounderID, &p.Title, &p.Summary, &p.Problem, &p.Solution, &p.Market,
		&p.BusinessModel, &p.Traction, &p.Team, &p.FundingAsk, &p.DeckURL, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Pitch) error {
	saved, err := scanPitch(s.db.QueryRowContext(ctx, InsertPitchQuery,
		p.FounderID, p.Title, p.Summary, p.Problem, p.Solution, p.Market, p.BusinessModel,
		p.Traction, p.Team, p.FundingAsk, p.DeckURL, p.Status))
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("founder profile: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("error creating pitch: %w", err)
	}
	*p = *saved
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.Pitch, error) {
	p, err := scanPitch(s.db.QueryRowContext(ctx, SelectPitchQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading pitch: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Pitch) error {
	saved, err := scanPitch(s.db.QueryRowContext(ctx, UpdatePitchQuery,
		p.ID, p.FounderID, p.Title, p.Summary, p.Problem, p.Solution, p.Market, p.BusinessModel,
		p.Traction, p.Team, p.FundingAsk, p.DeckURL, p.Status))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("error updating pitch: %w", err)
	}
	*p = *saved
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, founderID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, DeletePitchQuery, id, founderID)
	if err != nil {
		return fmt.Errorf("error deleting pitch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListByFounder(ctx context.Context, founderID uuid.UUID) ([]models.Pitch, error) {
	return s.list(ctx, SelectFounderPitchesQuery, founderID)
}

func (s *PostgresStore) ListPublished(ctx context.Context, limit, offset int) ([]models.Pitch, error) {
	return s.list(ctx, SelectPublishedPitchesQuery, limit, offset)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...interface{}) ([]models.Pitch, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying pitches: %w", err)
	}
	defer rows.Close()

	list := []models.Pitch{}
	for rows.Next() {
		p, err := scanPitch(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning pitch: %w", err)
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (s *PostgresStore) AddFeedback(ctx context.Context, f *models.PitchFeedback) error {
	err := s.db.QueryRowContext(ctx, InsertFeedbackQuery,
		f.PitchID, f.InvestorID,
		f.ProblemRating, f.ProblemFeedback, f.SolutionRating, f.SolutionFeedback,
		f.MarketRating, f.MarketFeedback, f.BusinessModelRating, f.BusinessModelFeedback,
		f.TractionRating, f.TractionFeedback, f.TeamRating, f.TeamFeedback,
		f.OverallRating, f.InvestmentInterest, f.Comments,
	).Scan(&f.ID, &f.CreatedAt)
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("feedback already submitted: %w", apperrors.ErrConflict)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("pitch: %w", apperrors.ErrNotFound)
	case err != nil:
		return fmt.Errorf("error saving feedback: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListFeedback(ctx context.Context, pitchID uuid.UUID) ([]models.PitchFeedback, error) {
	rows, err := s.db.QueryContext(ctx, SelectFeedbackQuery, pitchID)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback: %w", err)
	}
	defer rows.Close()

	list := []models.PitchFeedback{}
	for rows.Next() {
		var f models.PitchFeedback
		var ratings [6]sql.NullInt32
		if err := rows.Scan(&f.ID, &f.PitchID, &f.InvestorID, &f.InvestorName,
			&ratings[0], &f.ProblemFeedback, &ratings[1], &f.SolutionFeedback,
			&ratings[2], &f.MarketFeedback, &ratings[3], &f.BusinessModelFeedback,
			&ratings[4], &f.TractionFeedback, &ratings[5], &f.TeamFeedback,
			&f.OverallRating, &f.InvestmentInterest, &f.Comments, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning feedback: %w", err)
		}
		targets := []**int{&f.ProblemRating, &f.SolutionRating, &f.MarketRating, &f.BusinessModelRating, &f.TractionRating, &f.TeamRating}
		for i, r := range ratings {
			if r.Valid {
				v := int(r.Int32)
				*targets[i] = &v
			}
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
