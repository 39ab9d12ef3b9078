package notifications

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/respond"
)

func notificationID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperrors.Invalid("id", "must be a UUID")
	}
	return id, nil
}

// GetNotificationsHandler lists the user's notifications, newest first.
// Query: unread=true, limit, offset.
func GetNotificationsHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := ListOptions{UnreadOnly: q.Get("unread") == "true"}
		opts.Limit, _ = strconv.Atoi(q.Get("limit"))
		opts.Offset, _ = strconv.Atoi(q.Get("offset"))

		list, err := svc.List(r.Context(), auth.UserIDFromContext(r.Context()), opts)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}

func UnreadCountHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.UnreadCount(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, CountResponse{Unread: n})
	}
}

func MarkReadHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := notificationID(r)
		if err == nil {
			err = svc.MarkRead(r.Context(), auth.UserIDFromContext(r.Context()), id)
		}
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// MarkNotificationsAsReadHandler marks every unread notification read
func MarkNotificationsAsReadHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.MarkAllRead(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, AffectedResponse{Affected: n})
	}
}

func DeleteHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := notificationID(r)
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

func DeleteAllHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.DeleteAll(r.Context(), auth.UserIDFromContext(r.Context()))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, AffectedResponse{Affected: n})
	}
}

// HandleNotificationWebSocket upgrades an authenticated request and keeps the
// socket registered until the client disconnects or signs out.
func HandleNotificationWebSocket(hub *Hub, allowedOrigins []string, logger *zap.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin:     originChecker(allowedOrigins),
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserIDFromContext(r.Context())

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Debug("WebSocket upgrade failed", zap.Error(err))
			return
		}

		c := &client{conn: conn}
		hub.register(userID, c)
		defer func() {
			hub.unregister(userID, c)
			conn.Close()
		}()

		if err := c.write([]byte(`{"type":"connected"}`)); err != nil {
			return
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("Notification socket closed", zap.String("user_id", userID.String()), zap.Error(err))
				}
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}
