package funding

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/respond"
)

func opportunityID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperrors.Invalid("id", "must be a UUID")
	}
	return id, nil
}

// ListOpportunitiesHandler handles GET /api/funding?type=&sector=&location=&search=&limit=&offset=
func ListOpportunitiesHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := Filter{
			Type:     q.Get("type"),
			Sector:   q.Get("sector"),
			Location: q.Get("location"),
			Search:   q.Get("search"),
		}
		f.Limit, _ = strconv.Atoi(q.Get("limit"))
		f.Offset, _ = strconv.Atoi(q.Get("offset"))

		list, err := svc.List(r.Context(), f)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}

func GetOpportunityHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := opportunityID(r)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		o, err := svc.Get(r.Context(), id)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, o)
	}
}

// SectorSource tells which sector a founder's startup is in.
type SectorSource interface {
	StartupSector(ctx context.Context, userID uuid.UUID) (string, error)
}

// RecommendedHandler handles GET /api/funding/recommended for founders
func RecommendedHandler(svc *Service, sectors SectorSource, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sector, err := sectors.StartupSector(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		list, err := svc.Recommended(r.Context(), sector, limit)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}

func CreateOpportunityHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in OpportunityInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, logger, err)
			return
		}
		o, err := svc.Create(r.Context(), in)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		logger.Info("Funding opportunity created", zap.String("id", o.ID.String()), zap.String("slug", o.Slug))
		respond.JSON(w, http.StatusCreated, o)
	}
}

func UpdateOpportunityHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := opportunityID(r)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		var in OpportunityInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, logger, err)
			return
		}
		o, err := svc.Update(r.Context(), id, in)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, o)
	}
}

func DeleteOpportunityHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := opportunityID(r)
		if err == nil {
			err = svc.Delete(r.Context(), id)
		}
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SlugRedirectHandler handles GET /funding/details/{slug}
func SlugRedirectHandler(resolver *Resolver, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := mux.Vars(r)["slug"]
		target, err := resolver.Resolve(r.Context(), slug)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// RequireAdminKey guards catalog writes with the X-Admin-Key header.
// An empty key disables writes entirely.
func RequireAdminKey(key string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get("X-Admin-Key")
			if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				respond.Error(w, logger, apperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
