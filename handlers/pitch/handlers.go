package pitch

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/respond"
)

func pitchID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperrors.Invalid("id", "must be a UUID")
	}
	return id, nil
}

func GetMyPitchesHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Mine(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}

func GetPublishedPitchesHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		list, err := svc.Published(r.Context(), auth.UserIDFromContext(r.Context()), limit, offset)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}

func CreatePitchHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in PitchInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, logger, err)
			return
		}
		p, err := svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), in)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusCreated, p)
	}
}

func GetPitchHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pitchID(r)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		p, err := svc.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, p)
	}
}

func UpdatePitchHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pitchID(r)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		var in PitchInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, logger, err)
			return
		}
		p, err := svc.Update(r.Context(), auth.UserIDFromContext(r.Context()), id, in)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, p)
	}
}

func DeletePitchHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pitchID(r)
		if err == nil {
			err = svc.Delete(r.Context(), auth.UserIDFromContext(r.Context()), id)
		}
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func SubmitFeedbackHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pitchID(r)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		var in FeedbackInput
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, logger, err)
			return
		}
		f, err := svc.SubmitFeedback(r.Context(), auth.UserIDFromContext(r.Context()), id, in)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusCreated, f)
	}
}

func GetFeedbackHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pitchID(r)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		list, err := svc.Feedback(r.Context(), auth.UserIDFromContext(r.Context()), id)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}
