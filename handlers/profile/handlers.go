package profile

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/respond"
)

func writeBundle(w http.ResponseWriter, status int, b *Bundle) {
	respond.JSON(w, status, ProfileResponse{Bundle: b, Completion: b.Completion()})
}

// GetMyProfileHandler returns the authenticated user's profile with completion
func GetMyProfileHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Get(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		writeBundle(w, http.StatusOK, b)
	}
}

// GetUserProfileHandler returns another user's public profile
func GetUserProfileHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			respond.Error(w, logger, apperrors.Invalid("id", "must be a UUID"))
			return
		}

		b, err := svc.Get(r.Context(), userID)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		// Email is private to the owner.
		if userID != auth.UserIDFromContext(r.Context()) {
			b.Profile.Email = ""
		}
		writeBundle(w, http.StatusOK, b)
	}
}

// UpdateMyProfileHandler merges the provided common fields into the profile
func UpdateMyProfileHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProfileUpdate
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}

		b, err := svc.UpdateProfile(r.Context(), auth.UserIDFromContext(r.Context()), req)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		writeBundle(w, http.StatusOK, b)
	}
}

// GetMyStartupHandler returns the founder's startup or 404 if not created yet
func GetMyStartupHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Get(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		if b.Startup == nil {
			respond.ErrorMessage(w, http.StatusNotFound, "not_found", "Startup profile not found")
			return
		}
		respond.JSON(w, http.StatusOK, b.Startup)
	}
}

// UpdateMyStartupHandler upserts the founder's startup
func UpdateMyStartupHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartupUpdate
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}

		b, err := svc.UpdateStartup(r.Context(), auth.UserIDFromContext(r.Context()), req)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		writeBundle(w, http.StatusOK, b)
	}
}

// GetMyInvestorHandler returns the investor's preferences or 404 if not created yet
func GetMyInvestorHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Get(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		if b.Investor == nil {
			respond.ErrorMessage(w, http.StatusNotFound, "not_found", "Investor profile not found")
			return
		}
		respond.JSON(w, http.StatusOK, b.Investor)
	}
}

// UpdateMyInvestorHandler upserts the investor's preferences
func UpdateMyInvestorHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InvestorUpdate
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}

		b, err := svc.UpdateInvestor(r.Context(), auth.UserIDFromContext(r.Context()), req)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		writeBundle(w, http.StatusOK, b)
	}
}

// CompletionHandler reports completion; anonymous callers get a zero result
func CompletionHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Completion(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, result)
	}
}

// GetMyStatusHandler returns the current status of the authenticated user
func GetMyStatusHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Status(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, status)
	}
}
