package connection

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/respond"
	"fundingnl/backend/services/matches"
)

// GetMatchesHandler handles GET /api/matches?limit=
func GetMatchesHandler(svc *matches.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := svc.ForUser(r.Context(), auth.UserIDFromContext(r.Context()), limit)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}
