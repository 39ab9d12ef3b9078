package connection

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/respond"
	"fundingnl/backend/models"
)

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, apperrors.Invalid(name, "must be a UUID")
	}
	return id, nil
}

// GetConnectionsHandler returns all connections for the authenticated user
func GetConnectionsHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListConnections(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}

// GetPendingRequestsHandler returns requests waiting on the authenticated user
func GetPendingRequestsHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListPendingRequests(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}

// CreateConnectionHandler sends a connection request
func CreateConnectionHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConnectionRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}

		userID := auth.UserIDFromContext(r.Context())
		c, err := svc.SendRequest(r.Context(), userID, req.RecipientID, req.Message)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}

		logger.Info("Connection requested",
			zap.String("connection_id", c.ID.String()),
			zap.String("requester_id", userID.String()),
			zap.String("recipient_id", req.RecipientID.String()))
		respond.JSON(w, http.StatusCreated, c)
	}
}

// GetConnectionStatusHandler reports the status between the caller and {userId}
func GetConnectionStatusHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		other, err := pathID(r, "userId")
		if err != nil {
			respond.Error(w, logger, err)
			return
		}

		status, err := svc.GetStatus(r.Context(), auth.UserIDFromContext(r.Context()), other)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, StatusResponse{UserID: other, Status: string(status)})
	}
}

// UpdateConnectionStatusHandler accepts or rejects a request addressed to the caller
func UpdateConnectionStatusHandler(svc *Service, status models.ConnectionStatus, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respond.Error(w, logger, err)
			return
		}

		userID := auth.UserIDFromContext(r.Context())
		var c *models.Connection
		if status == models.ConnectionStatusAccepted {
			c, err = svc.Accept(r.Context(), userID, id)
		} else {
			c, err = svc.Reject(r.Context(), userID, id)
		}
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, c)
	}
}

// DeleteConnectionHandler handles deleting a connection
func DeleteConnectionHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
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
