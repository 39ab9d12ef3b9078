package matches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

// Store finds the people a user could be matched with.
type Store interface {
	Subject(ctx context.Context, userID uuid.UUID) (*Subject, error)
	Candidates(ctx context.Context, s *Subject) ([]Candidate, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (st *PostgresStore) Subject(ctx context.Context, userID uuid.UUID) (*Subject, error) {
	s := &Subject{UserID: userID}
	err := st.db.QueryRowContext(ctx, SelectSubjectQuery, userID).Scan(
		&s.UserType, &s.Sector, &s.Stage, pq.Array(&s.Stages), pq.Array(&s.Industries),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading match subject: %w", err)
	}
	return s, nil
}

func (st *PostgresStore) Candidates(ctx context.Context, s *Subject) ([]Candidate, error) {
	var rows *sql.Rows
	var err error
	switch s.UserType {
	case models.UserTypeFounder:
		rows, err = st.db.QueryContext(ctx, SelectInvestorCandidatesQuery, s.UserID, s.Sector, s.Stage)
	case models.UserTypeInvestor:
		rows, err = st.db.QueryContext(ctx, SelectFounderCandidatesQuery, s.UserID, pq.Array(s.Industries), pq.Array(s.Stages))
	default:
		return []Candidate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying match candidates: %w", err)
	}
	defer rows.Close()

	list := []Candidate{}
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ProfileID, &c.FullName, &c.AvatarURL, &c.CompanyName, &c.Sector, &c.Stage,
			pq.Array(&c.Stages), pq.Array(&c.Industries)); err != nil {
			return nil, fmt.Errorf("error scanning match candidate: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
