package saved

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/respond"
)

func opportunityID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["opportunityId"])
	if err != nil {
		return uuid.Nil, apperrors.Invalid("opportunityId", "must be a UUID")
	}
	return id, nil
}

func ListSavedHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}

func SaveOpportunityHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SaveRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}
		so, err := svc.Add(r.Context(), auth.UserIDFromContext(r.Context()), req)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusCreated, so)
	}
}

func RemoveSavedHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := opportunityID(r)
		if err == nil {
			err = svc.Remove(r.Context(), auth.UserIDFromContext(r.Context()), id)
		}
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func UpdateNotesHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := opportunityID(r)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		var req NotesRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}
		so, err := svc.UpdateNotes(r.Context(), auth.UserIDFromContext(r.Context()), id, req.Notes)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, so)
	}
}

func IsSavedHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := opportunityID(r)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		ok, err := svc.IsSaved(r.Context(), auth.UserIDFromContext(r.Context()), id)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, IsSavedResponse{OpportunityID: id, Saved: ok})
	}
}
