package saved

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/models"
)

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.SavedOpportunity, error) {
	return s.store.List(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID uuid.UUID, req SaveRequest) (*models.SavedOpportunity, error) {
	if req.OpportunityID == uuid.Nil {
		return nil, apperrors.Invalid("opportunity_id", "is required")
	}
	if err := checkNotes(req.Notes); err != nil {
		return nil, err
	}
	so := &models.SavedOpportunity{UserID: userID, OpportunityID: req.OpportunityID, Notes: req.Notes}
	if err := s.store.Add(ctx, so); err != nil {
		return nil, err
	}
	s.logger.Debug("Opportunity saved", zap.String("user_id", userID.String()), zap.String("opportunity_id", req.OpportunityID.String()))
	return so, nil
}

func (s *Service) Remove(ctx context.Context, userID, opportunityID uuid.UUID) error {
	return s.store.Remove(ctx, userID, opportunityID)
}

// UpdateNotes overwrites the notes; an empty string clears them.
func (s *Service) UpdateNotes(ctx context.Context, userID, opportunityID uuid.UUID, notes string) (*models.SavedOpportunity, error) {
	if err := checkNotes(notes); err != nil {
		return nil, err
	}
	return s.store.UpdateNotes(ctx, userID, opportunityID, notes)
}

func (s *Service) IsSaved(ctx context.Context, userID, opportunityID uuid.UUID) (bool, error) {
	return s.store.IsSaved(ctx, userID, opportunityID)
}

func checkNotes(notes string) error {
	if len(notes) > maxNotesLength {
		return apperrors.Invalid("notes", fmt.Sprintf("must be at most %d characters", maxNotesLength))
	}
	return nil
}
