package wizard

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/respond"
)

type NextRequest struct {
	Values Values `json:"values"`
}

type JumpRequest struct {
	Step int `json:"step"`
}

func writeView(w http.ResponseWriter, r *http.Request, steps *StepStore, v *View, logger *zap.Logger) {
	if err := steps.Save(w, r, auth.UserIDFromContext(r.Context()), v.CurrentStep); err != nil {
		logger.Warn("Failed to save wizard step", zap.Error(err))
	}
	respond.JSON(w, http.StatusOK, v)
}

// GetWizardHandler handles GET /api/wizard. ?step= overrides the remembered position.
func GetWizardHandler(ctl *Controller, steps *StepStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserIDFromContext(r.Context())
		index := steps.Load(r, userID)
		if raw := r.URL.Query().Get("step"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				index = n
			}
		}
		v, err := ctl.View(r.Context(), userID, index)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		writeView(w, r, steps, v, logger)
	}
}

func NextStepHandler(ctl *Controller, steps *StepStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserIDFromContext(r.Context())
		var req NextRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}
		if req.Values == nil {
			req.Values = Values{}
		}
		v, err := ctl.Next(r.Context(), userID, steps.Load(r, userID), req.Values)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		writeView(w, r, steps, v, logger)
	}
}

func PreviousStepHandler(ctl *Controller, steps *StepStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserIDFromContext(r.Context())
		v, err := ctl.Previous(r.Context(), userID, steps.Load(r, userID))
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		writeView(w, r, steps, v, logger)
	}
}

func JumpStepHandler(ctl *Controller, steps *StepStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JumpRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, logger, err)
			return
		}
		v, err := ctl.Jump(r.Context(), auth.UserIDFromContext(r.Context()), req.Step)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		writeView(w, r, steps, v, logger)
	}
}
