package wizard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/notifications"
	"fundingnl/backend/handlers/profile"
	"fundingnl/backend/models"
	"fundingnl/backend/services/completion"
)

// ProfileEditor is the part of the profile service the wizard writes through.
type ProfileEditor interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.Bundle, error)
	Save(ctx context.Context, userID uuid.UUID, c profile.Changes) (*profile.Bundle, error)
	MarkWizardCompleted(ctx context.Context, userID uuid.UUID) error
}

// View is the wizard state the client renders.
type View struct {
	UserType    models.UserType   `json:"user_type"`
	Steps       []Step            `json:"steps"`
	CurrentStep int               `json:"current_step"`
	Completed   bool              `json:"completed"`
	Values      Values            `json:"values"`
	Completion  completion.Result `json:"completion"`
}

// Controller moves a user through the role-specific steps. The step index is
// owned by the caller; every method takes the current index and returns the next view.
type Controller struct {
	profiles ProfileEditor
	notifier notifications.Notifier
	logger   *zap.Logger
}

func NewController(profiles ProfileEditor, notifier notifications.Notifier, logger *zap.Logger) *Controller {
	return &Controller{profiles: profiles, notifier: notifier, logger: logger}
}

func (c *Controller) load(ctx context.Context, userID uuid.UUID) (*profile.Bundle, []Step, error) {
	b, err := c.profiles.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	steps := StepsFor(b.Profile.UserType)
	if steps == nil {
		return nil, nil, apperrors.Invalid("user_type", fmt.Sprintf("no wizard for user type %q", b.Profile.UserType))
	}
	return b, steps, nil
}

func view(b *profile.Bundle, steps []Step, index int) *View {
	index = Clamp(index, steps)
	return &View{
		UserType:    b.Profile.UserType,
		Steps:       steps,
		CurrentStep: index,
		Completed:   index == len(steps),
		Values:      prefill(b),
		Completion:  b.Completion(),
	}
}

// View renders the wizard at index, clamped to the role's steps.
func (c *Controller) View(ctx context.Context, userID uuid.UUID, index int) (*View, error) {
	b, steps, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view(b, steps, index), nil
}

// Next validates and persists the current step, then advances. A failed
// validation or write leaves the index where it was and writes nothing.
func (c *Controller) Next(ctx context.Context, userID uuid.UUID, index int, values Values) (*View, error) {
	b, steps, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	index = Clamp(index, steps)
	if index == len(steps) {
		return nil, fmt.Errorf("wizard already completed: %w", apperrors.ErrInvalidTransition)
	}
	step := steps[index]

	if missing := values.missing(step); len(missing) > 0 {
		return nil, &apperrors.ValidationError{Fields: missing}
	}

	saved, err := c.profiles.Save(ctx, userID, values.changes(step))
	if err != nil {
		return nil, fmt.Errorf("saving step %s: %w", step.Name, err)
	}
	if saved == nil {
		saved = b
	}

	index++
	if index == len(steps) {
		c.complete(ctx, userID, saved)
	}
	return view(saved, steps, index), nil
}

// complete stamps the profile and notifies the user. The step writes have
// already committed, so failures here are logged only.
func (c *Controller) complete(ctx context.Context, userID uuid.UUID, b *profile.Bundle) {
	if err := c.profiles.MarkWizardCompleted(ctx, userID); err != nil {
		c.logger.Error("Failed to mark wizard completed", zap.String("user_id", userID.String()), zap.Error(err))
	}

	result := b.Completion()
	err := c.notifier.Notify(ctx, userID, models.NotificationProfileCompleted,
		"Profile wizard completed",
		fmt.Sprintf("Your profile is %d%% complete.", result.CompletionPercentage),
		map[string]interface{}{"completion_percentage": result.CompletionPercentage},
	)
	if err != nil {
		c.logger.Error("Failed to send completion notification", zap.String("user_id", userID.String()), zap.Error(err))
	}
	c.logger.Info("Profile wizard completed", zap.String("user_id", userID.String()),
		zap.Int("completion_percentage", result.CompletionPercentage))
}

// Previous steps back without writing. It is refused on the first step.
func (c *Controller) Previous(ctx context.Context, userID uuid.UUID, index int) (*View, error) {
	b, steps, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	index = Clamp(index, steps)
	if index == 0 {
		return nil, fmt.Errorf("already on the first step: %w", apperrors.ErrInvalidTransition)
	}
	return view(b, steps, index-1), nil
}

// Jump moves straight to step regardless of the steps in between.
func (c *Controller) Jump(ctx context.Context, userID uuid.UUID, step int) (*View, error) {
	b, steps, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if step < 0 || step >= len(steps) {
		return nil, apperrors.Invalid("step", fmt.Sprintf("must be between 0 and %d", len(steps)-1))
	}
	return view(b, steps, step), nil
}
