package matches

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundingnl/backend/models"
)

const (
	industryWeight = 60
	stageWeight    = 40
)

// Subject is the user matches are computed for.
type Subject struct {
	UserID     uuid.UUID
	UserType   models.UserType
	Sector     string
	Stage      string
	Stages     []string
	Industries []string
}

// Candidate is a counterpart profile. Founders carry Sector/Stage, investors
// carry Stages/Industries.
type Candidate struct {
	ProfileID   uuid.UUID
	FullName    string
	AvatarURL   string
	CompanyName string
	Sector      string
	Stage       string
	Stages      []string
	Industries  []string
}

// Match represents a suggested connection
type Match struct {
	ProfileID     uuid.UUID `json:"profile_id"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	CompanyName   string    `json:"company_name"`
	Score         int       `json:"score"`
	IndustryMatch bool      `json:"industry_match"`
	StageMatch    bool      `json:"stage_match"`
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Score rates a candidate for the subject: 60 for a shared industry, 40 for a shared stage.
func Score(s *Subject, c *Candidate) Match {
	m := Match{ProfileID: c.ProfileID, FullName: c.FullName, AvatarURL: c.AvatarURL, CompanyName: c.CompanyName}
	switch s.UserType {
	case models.UserTypeFounder:
		m.IndustryMatch = contains(c.Industries, s.Sector)
		m.StageMatch = contains(c.Stages, s.Stage)
	case models.UserTypeInvestor:
		m.IndustryMatch = contains(s.Industries, c.Sector)
		m.StageMatch = contains(s.Stages, c.Stage)
	}
	if m.IndustryMatch {
		m.Score += industryWeight
	}
	if m.StageMatch {
		m.Score += stageWeight
	}
	return m
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// ForUser returns scored suggestions, best first. Candidates scoring zero are dropped.
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID, limit int) ([]Match, error) {
	subject, err := s.store.Subject(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.store.Candidates(ctx, subject)
	if err != nil {
		return nil, err
	}

	out := make([]Match, 0, len(candidates))
	for i := range candidates {
		if m := Score(subject, &candidates[i]); m.Score > 0 {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].FullName < out[j].FullName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	s.logger.Debug("Computed matches", zap.String("user_id", userID.String()), zap.Int("count", len(out)))
	return out, nil
}
