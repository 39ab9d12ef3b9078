package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"fundingnl/backend/handlers"
	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/connection"
	"fundingnl/backend/handlers/funding"
	"fundingnl/backend/handlers/media"
	"fundingnl/backend/handlers/notifications"
	"fundingnl/backend/handlers/pitch"
	"fundingnl/backend/handlers/profile"
	"fundingnl/backend/handlers/saved"
	"fundingnl/backend/handlers/wizard"
	"fundingnl/backend/logging"
	"fundingnl/backend/models"
	"fundingnl/backend/services/matches"
)

type server struct {
	handler  http.Handler
	sessions *auth.SessionManager
	hub      *notifications.Hub
	logger   *zap.Logger
}

func newServer(a *app, redisClient *redis.Client) (*server, error) {
	cfg, db, logger := a.cfg, a.db, a.logger

	// Identity
	authStore := auth.NewPostgresStore(db)
	sessions := auth.NewSessionManager(authStore, cfg.Auth.JanitorInterval, logger.Named("sessions"))
	authSvc := auth.NewService(authStore, auth.NewTokenIssuer(cfg.Auth.JWTSecretKey), sessions,
		auth.NewLogMailer(logger.Named("mailer")),
		auth.Options{AppURL: cfg.AppURL, TokenTTL: cfg.Auth.TokenTTL, ResetTokenTTL: cfg.Auth.ResetTokenTTL},
		logger.Named("auth"))

	// Notifications
	hub := notifications.NewHub(logger.Named("hub"))
	notificationSvc := notifications.NewService(notifications.NewPostgresStore(db), hub, logger.Named("notifications"))

	// Profiles and everything layered on them
	profileSvc := profile.NewService(profile.NewPostgresStore(db), logger.Named("profiles"))
	connectionSvc := connection.NewService(connection.NewPostgresStore(db), notificationSvc, logger.Named("connections"))
	matchSvc := matches.NewService(matches.NewPostgresStore(db), logger.Named("matches"))
	wizardCtl := wizard.NewController(profileSvc, notificationSvc, logger.Named("wizard"))
	wizardSteps := wizard.NewStepStore([]byte(cfg.Auth.SessionKey), !cfg.IsLocal())
	pitchSvc := pitch.NewService(pitch.NewPostgresStore(db), profileSvc, notificationSvc, logger.Named("pitches"))
	mediaSvc := media.NewService(cfg.Uploads.Dir, profileSvc, logger.Named("media"))

	// Funding catalog
	mock, err := funding.MockDataset()
	if err != nil {
		return nil, err
	}
	fundingStore := funding.NewPostgresStore(db)
	catalog := funding.NewCachedCatalog(redisClient, fundingStore, cfg.Redis.CatalogTTL, logger.Named("catalog"))
	fundingSvc := funding.NewService(fundingStore, catalog, logger.Named("funding"))
	resolver := funding.NewResolver(mock, catalog)
	savedSvc := saved.NewService(saved.NewPostgresStore(db), logger.Named("saved"))

	// Create router
	r := mux.NewRouter()
	r.Use(logging.Middleware(logger.Named("http")))

	// Public routes (no auth required)
	authLog := logger.Named("auth")
	r.HandleFunc("/api/auth/signup", auth.SignupHandler(authSvc, authLog)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/login", auth.LoginHandler(authSvc, authLog)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/reset-password", auth.ResetPasswordHandler(authSvc, authLog)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/update-password", auth.UpdatePasswordHandler(authSvc, authLog)).Methods("POST", "OPTIONS")
	r.HandleFunc("/funding/details/{slug}", funding.SlugRedirectHandler(resolver, logger.Named("resolver"))).Methods("GET")
	r.PathPrefix(media.URLPrefix).Handler(media.FileServer(mediaSvc)).Methods("GET", "HEAD")

	if cfg.IsLocal() {
		gen := handlers.NewDemoGenerator(db, uint64(time.Now().UnixNano()), logger.Named("demo"))
		r.HandleFunc("/api/test/generate-users", handlers.GenerateTestDataHandler(gen, logger.Named("demo"))).Methods("POST", "OPTIONS")
	}

	// Completion answers anonymous callers with an empty result
	optional := r.PathPrefix("/api/me/completion").Subrouter()
	optional.Use(auth.OptionalAuth(authSvc))
	optional.HandleFunc("", profile.CompletionHandler(profileSvc, logger.Named("profiles"))).Methods("GET", "OPTIONS")

	// The websocket authenticates through ?token=
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(auth.AuthMiddleware(authSvc, authLog))
	ws.HandleFunc("/notifications", notifications.HandleNotificationWebSocket(hub, cfg.CORS.AllowedOrigins, logger.Named("hub")))

	// Create a subrouter for protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(auth.AuthMiddleware(authSvc, authLog))

	protected.HandleFunc("/auth/logout", auth.LogoutHandler(authSvc, authLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/auth/session", auth.SessionHandler(authSvc, authLog)).Methods("GET", "OPTIONS")

	// Profile routes
	profileLog := logger.Named("profiles")
	protected.HandleFunc("/me/profile", profile.GetMyProfileHandler(profileSvc, profileLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/me/profile", profile.UpdateMyProfileHandler(profileSvc, profileLog)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/me/startup", profile.GetMyStartupHandler(profileSvc, profileLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/me/startup", profile.UpdateMyStartupHandler(profileSvc, profileLog)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/me/investor", profile.GetMyInvestorHandler(profileSvc, profileLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/me/investor", profile.UpdateMyInvestorHandler(profileSvc, profileLog)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/users/{id}", profile.GetUserProfileHandler(profileSvc, profileLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/status", profile.GetMyStatusHandler(profileSvc, profileLog)).Methods("GET", "OPTIONS")

	// Media routes
	mediaLog := logger.Named("media")
	protected.HandleFunc("/me/avatar", media.UploadAvatarHandler(mediaSvc, mediaLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/me/avatar", media.DeleteAvatarHandler(mediaSvc, mediaLog)).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/me/startup/logo", media.UploadLogoHandler(mediaSvc, mediaLog)).Methods("POST", "OPTIONS")

	// Wizard routes
	wizardLog := logger.Named("wizard")
	protected.HandleFunc("/wizard", wizard.GetWizardHandler(wizardCtl, wizardSteps, wizardLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/wizard/next", wizard.NextStepHandler(wizardCtl, wizardSteps, wizardLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/wizard/previous", wizard.PreviousStepHandler(wizardCtl, wizardSteps, wizardLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/wizard/jump", wizard.JumpStepHandler(wizardCtl, wizardSteps, wizardLog)).Methods("POST", "OPTIONS")

	// Connection routes
	connLog := logger.Named("connections")
	protected.HandleFunc("/connections", connection.GetConnectionsHandler(connectionSvc, connLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/connections", connection.CreateConnectionHandler(connectionSvc, connLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/connections/pending", connection.GetPendingRequestsHandler(connectionSvc, connLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/connections/status/{userId}", connection.GetConnectionStatusHandler(connectionSvc, connLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/connections/{id}/accept", connection.UpdateConnectionStatusHandler(connectionSvc, models.ConnectionStatusAccepted, connLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/connections/{id}/reject", connection.UpdateConnectionStatusHandler(connectionSvc, models.ConnectionStatusRejected, connLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/connections/{id}", connection.DeleteConnectionHandler(connectionSvc, connLog)).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/matches", connection.GetMatchesHandler(matchSvc, logger.Named("matches"))).Methods("GET", "OPTIONS")

	// Notification routes
	notifLog := logger.Named("notifications")
	protected.HandleFunc("/notifications", notifications.GetNotificationsHandler(notificationSvc, notifLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notifications", notifications.DeleteAllHandler(notificationSvc, notifLog)).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/notifications/unread-count", notifications.UnreadCountHandler(notificationSvc, notifLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notifications/read", notifications.MarkNotificationsAsReadHandler(notificationSvc, notifLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notifications/{id}/read", notifications.MarkReadHandler(notificationSvc, notifLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notifications/{id}", notifications.DeleteHandler(notificationSvc, notifLog)).Methods("DELETE", "OPTIONS")

	// Funding routes; writes also need the admin key
	fundingLog := logger.Named("funding")
	fundingAPI := protected.PathPrefix("/funding").Subrouter()
	fundingAPI.HandleFunc("", funding.ListOpportunitiesHandler(fundingSvc, fundingLog)).Methods("GET", "OPTIONS")
	fundingAPI.HandleFunc("/recommended", funding.RecommendedHandler(fundingSvc, profileSvc, fundingLog)).Methods("GET", "OPTIONS")
	fundingAPI.HandleFunc("/{id}", funding.GetOpportunityHandler(fundingSvc, fundingLog)).Methods("GET", "OPTIONS")
	admin := fundingAPI.NewRoute().Subrouter()
	admin.Use(funding.RequireAdminKey(cfg.AdminAPIKey, fundingLog))
	admin.HandleFunc("", funding.CreateOpportunityHandler(fundingSvc, fundingLog)).Methods("POST")
	admin.HandleFunc("/{id}", funding.UpdateOpportunityHandler(fundingSvc, fundingLog)).Methods("PUT")
	admin.HandleFunc("/{id}", funding.DeleteOpportunityHandler(fundingSvc, fundingLog)).Methods("DELETE")

	// Saved opportunity routes
	savedLog := logger.Named("saved")
	protected.HandleFunc("/saved", saved.ListSavedHandler(savedSvc, savedLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/saved", saved.SaveOpportunityHandler(savedSvc, savedLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/saved/{opportunityId}", saved.IsSavedHandler(savedSvc, savedLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/saved/{opportunityId}", saved.RemoveSavedHandler(savedSvc, savedLog)).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/saved/{opportunityId}/notes", saved.UpdateNotesHandler(savedSvc, savedLog)).Methods("PUT", "OPTIONS")

	// Pitch routes
	pitchLog := logger.Named("pitches")
	protected.HandleFunc("/pitches", pitch.GetMyPitchesHandler(pitchSvc, pitchLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/pitches", pitch.CreatePitchHandler(pitchSvc, pitchLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/pitches/published", pitch.GetPublishedPitchesHandler(pitchSvc, pitchLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/pitches/{id}", pitch.GetPitchHandler(pitchSvc, pitchLog)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/pitches/{id}", pitch.UpdatePitchHandler(pitchSvc, pitchLog)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/pitches/{id}", pitch.DeletePitchHandler(pitchSvc, pitchLog)).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/pitches/{id}/feedback", pitch.SubmitFeedbackHandler(pitchSvc, pitchLog)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/pitches/{id}/feedback", pitch.GetFeedbackHandler(pitchSvc, pitchLog)).Methods("GET", "OPTIONS")

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Admin-Key"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	})

	return &server{
		handler:  c.Handler(r),
		sessions: sessions,
		hub:      hub,
		logger:   logger,
	}, nil
}

// closeSocketsOnSignOut drops live notification sockets of users who sign out.
func (s *server) closeSocketsOnSignOut(ctx context.Context) {
	events, cancel := s.sessions.Subscribe(32)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type == auth.EventSignedOut {
				s.logger.Debug("Closing notification sockets", zap.String("user_id", ev.UserID.String()))
				s.hub.CloseUser(ev.UserID)
			}
		}
	}
}
