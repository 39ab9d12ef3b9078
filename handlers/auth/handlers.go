package auth

import (
	"net/http"

	"go.uber.org/zap"

	"fundingnl/backend/handlers/respond"
)

// SignupHandler handles POST /api/auth/signup
func SignupHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}

		session, err := svc.SignUp(r.Context(), req)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}

		logger.Info("User signed up", zap.String("user_id", session.User.ID.String()), zap.String("user_type", string(session.User.UserType)))
		respond.JSON(w, http.StatusCreated, session)
	}
}

// LoginHandler handles POST /api/auth/login
func LoginHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}

		session, err := svc.SignIn(r.Context(), req)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, session)
	}
}

// LogoutHandler handles POST /api/auth/logout (authenticated)
func LogoutHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.SignOut(r.Context(), TokenFromContext(r.Context())); err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// ResetPasswordHandler handles POST /api/auth/reset-password
func ResetPasswordHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}

		if err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// UpdatePasswordHandler handles POST /api/auth/update-password
func UpdatePasswordHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePasswordRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}

		if err := svc.UpdatePassword(r.Context(), req); err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// SessionHandler handles GET /api/auth/session (authenticated)
func SessionHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.CurrentUser(r.Context(), UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]interface{}{"user": user})
	}
}
