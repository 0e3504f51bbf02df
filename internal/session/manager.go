package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CookieName = "session"

type ctxKey string

const stateKey ctxKey = "session_state"

// Manager attaches a session to every request. The cookie carries a signed
// token wrapping the session id; the state itself lives in the Store.
type Manager struct {
	Store        Store
	Tokens       *TokenMaker
	TTL          time.Duration
	CookieSecure bool
	Log          *zap.Logger
}

func FromContext(ctx context.Context) (*State, bool) {
	st, ok := ctx.Value(stateKey).(*State)
	return st, ok
}

// Middleware resolves the visitor's session, creating one when the cookie
// is absent, expired, or fails verification. The cart map is guaranteed
// non-nil before any handler runs.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := m.resolve(w, r)
		if st == nil {
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		if st.Cart == nil {
			st.Cart = map[string]CartItem{}
		}

		ctx := context.WithValue(r.Context(), stateKey, st)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) resolve(w http.ResponseWriter, r *http.Request) *State {
	if c, err := r.Cookie(CookieName); err == nil {
		if id, err := m.Tokens.Verify(c.Value); err == nil {
			st, ok, err := m.Store.Get(r.Context(), id)
			if err != nil {
				if m.Log != nil {
					m.Log.Error("session load failed", zap.Error(err))
				}
				return nil
			}
			if ok {
				return st
			}
		}
	}

	return m.create(w, r)
}

func (m *Manager) create(w http.ResponseWriter, r *http.Request) *State {
	st := &State{
		ID:   uuid.NewString(),
		Cart: map[string]CartItem{},
	}

	if err := m.Store.Put(r.Context(), st); err != nil {
		if m.Log != nil {
			m.Log.Error("session create failed", zap.Error(err))
		}
		return nil
	}

	token, err := m.Tokens.Mint(st.ID)
	if err != nil {
		if m.Log != nil {
			m.Log.Error("session token mint failed", zap.Error(err))
		}
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return st
}

// Save writes the request's state back to the backing store. Mutating a
// nested map in the state copy alone changes nothing durable; every
// mutation must end here.
func (m *Manager) Save(ctx context.Context, st *State) error {
	return m.Store.Put(ctx, st)
}
