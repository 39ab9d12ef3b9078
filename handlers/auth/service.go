package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fundingnl/backend/apperrors"
)

const minPasswordLength = 8

// Service is the identity provider: sign-up, sign-in, sign-out and password recovery.
type Service struct {
	store    Store
	tokens   *TokenIssuer
	sessions *SessionManager
	mailer   Mailer
	logger   *zap.Logger

	appURL        string
	tokenTTL      time.Duration
	resetTokenTTL time.Duration
	hashCost      int
}

type Options struct {
	AppURL        string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
}

func NewService(store Store, tokens *TokenIssuer, sessions *SessionManager, mailer Mailer, opts Options, logger *zap.Logger) *Service {
	return &Service{
		store:         store,
		tokens:        tokens,
		sessions:      sessions,
		mailer:        mailer,
		logger:        logger,
		appURL:        strings.TrimSuffix(opts.AppURL, "/"),
		tokenTTL:      opts.TokenTTL,
		resetTokenTTL: opts.ResetTokenTTL,
		hashCost:      bcrypt.DefaultCost,
	}
}

func validatePassword(v *apperrors.ValidationError, password, confirm string) {
	if len(password) < minPasswordLength {
		v.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if confirm != "" && confirm != password {
		v.Add("confirm_password", "passwords do not match")
	}
}

// SignUp registers a user with an empty profile of the requested type and signs them in.
func (s *Service) SignUp(ctx context.Context, req SignupRequest) (*Session, error) {
	v := apperrors.NewValidation()
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		v.Add("email", "must be a valid email address")
	}
	validatePassword(v, req.Password, req.ConfirmPassword)
	if !req.UserType.Valid() {
		v.Add("user_type", "must be 'founder' or 'investor'")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, req.Email, string(hash), strings.TrimSpace(req.FullName), req.UserType)
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// SignIn checks credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) SignIn(ctx context.Context, req LoginRequest) (*Session, error) {
	user, hash, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}

	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user *User) (*Session, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID, PurposeSession, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveToken(ctx, user.ID, token, PurposeSession, expiresAt); err != nil {
		return nil, err
	}

	s.sessions.Publish(SessionEvent{Type: EventSignedIn, UserID: user.ID})
	return &Session{User: *user, Token: token, ExpiresAt: expiresAt}, nil
}

// SignOut revokes the token. Signing out an already revoked token succeeds.
func (s *Service) SignOut(ctx context.Context, token string) error {
	userID, err := s.store.DeleteToken(ctx, token)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.sessions.Publish(SessionEvent{Type: EventSignedOut, UserID: userID})
	return nil
}

// Authenticate resolves a bearer token to its user ID.
func (s *Service) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, fmt.Errorf("no token provided: %w", apperrors.ErrUnauthorized)
	}

	userID, err := s.tokens.Parse(token, PurposeSession)
	if err != nil {
		return uuid.Nil, err
	}

	active, err := s.store.TokenActive(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	if !active {
		return uuid.Nil, fmt.Errorf("token revoked: %w", apperrors.ErrUnauthorized)
	}
	return userID, nil
}

// CurrentUser returns the identity behind an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// RequestPasswordReset emails a recovery link. Unknown addresses are not reported.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.Invalid("email", "must be a valid email address")
	}

	user, _, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Info("Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, PurposeRecovery, s.resetTokenTTL)
	if err != nil {
		return err
	}
	if err := s.store.SaveToken(ctx, user.ID, token, PurposeRecovery, expiresAt); err != nil {
		return err
	}

	q := url.Values{}
	q.Set("token", token)
	q.Set("type", PurposeRecovery)
	link := s.appURL + "/reset-password?" + q.Encode()

	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		return fmt.Errorf("error sending reset email: %w", err)
	}

	s.sessions.Publish(SessionEvent{Type: EventPasswordRecovery, UserID: user.ID})
	return nil
}

// UpdatePassword sets a new password from a recovery token and revokes existing sessions.
// A recovery token is accepted once.
func (s *Service) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error {
	v := apperrors.NewValidation()
	validatePassword(v, req.Password, req.ConfirmPassword)
	if err := v.OrNil(); err != nil {
		return err
	}

	if _, err := s.tokens.Parse(req.Token, PurposeRecovery); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	userID, err := s.store.ResetPassword(ctx, req.Token, string(hash))
	if err != nil {
		return err
	}

	s.sessions.Publish(SessionEvent{Type: EventUserUpdated, UserID: userID})
	s.sessions.Publish(SessionEvent{Type: EventSignedOut, UserID: userID})
	return nil
}
