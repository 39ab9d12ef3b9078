package wizard

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName = "fundingnl_wizard"
	keyUser     = "user_id"
	keyStep     = "step"
)

// StepStore remembers each user's wizard position in a signed cookie.
type StepStore struct {
	store sessions.Store
}

// NewStepStore signs the cookie with key. secure should be true outside local development.
func NewStepStore(key []byte, secure bool) *StepStore {
	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/api/wizard",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &StepStore{store: cs}
}

// Load returns the remembered index for userID, or 0 when the cookie is
// missing, unreadable or belongs to someone else.
func (s *StepStore) Load(r *http.Request, userID uuid.UUID) int {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return 0
	}
	if owner, _ := session.Values[keyUser].(string); owner != userID.String() {
		return 0
	}
	step, _ := session.Values[keyStep].(int)
	return step
}

func (s *StepStore) Save(w http.ResponseWriter, r *http.Request, userID uuid.UUID, step int) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values[keyUser] = userID.String()
	session.Values[keyStep] = step
	return session.Save(r, w)
}
