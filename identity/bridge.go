package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	SessionName = "auth"

	// MockEmail is reported for every user while the bridge is mocked.
	MockEmail = "mock@demo.com"

	keySessionID   = "sid"
	keyUserID      = "user_id"
	keyEmail       = "email"
	keyDisplayName = "display_name"
	keyProvider    = "provider"
	keyState       = "state"
)

// StateListener is told about every sign-in and sign-out. user is nil on
// sign-out.
type StateListener func(sessionID string, user *User)

type Bridge struct {
	store    sessions.Store
	provider Provider
	mocked   bool
	logger   *zap.Logger

	mu        sync.Mutex
	nextID    int
	listeners map[int]StateListener
}

func NewBridge(store sessions.Store, provider Provider, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		store:     store,
		provider:  provider,
		mocked:    provider != nil && provider.Name() == ProviderMock,
		logger:    logger,
		listeners: make(map[int]StateListener),
	}
}

func (b *Bridge) Provider() Provider {
	return b.provider
}

func (b *Bridge) IsMocked() bool {
	return b.mocked
}

// AddStateListener registers fn and returns a function that removes it.
func (b *Bridge) AddStateListener(fn StateListener) (remove func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

func (b *Bridge) notify(sessionID string, user *User) {
	b.mu.Lock()
	fns := make([]StateListener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(sessionID, user)
	}
}

func (b *Bridge) SignUp(w http.ResponseWriter, r *http.Request, email, password string) (User, error) {
	return b.signInWith(w, r, func(ctx context.Context) (User, error) {
		return b.provider.SignUp(ctx, email, password)
	})
}

func (b *Bridge) SignIn(w http.ResponseWriter, r *http.Request, email, password string) (User, error) {
	return b.signInWith(w, r, func(ctx context.Context) (User, error) {
		return b.provider.SignIn(ctx, email, password)
	})
}

// SignInExternal stores a user that was verified outside the configured
// provider, e.g. by the OIDC callback.
func (b *Bridge) SignInExternal(w http.ResponseWriter, r *http.Request, user User) error {
	sid, err := b.saveUser(w, r, user)
	if err != nil {
		return err
	}
	b.notify(sid, &user)
	return nil
}

func (b *Bridge) signInWith(w http.ResponseWriter, r *http.Request, f func(ctx context.Context) (User, error)) (User, error) {
	if b.provider == nil {
		return User{}, fmt.Errorf("%w: no provider configured", ErrProviderFailure)
	}
	user, err := f(r.Context())
	if err != nil {
		return User{}, err
	}
	sid, err := b.saveUser(w, r, user)
	if err != nil {
		return User{}, err
	}
	b.logger.Info("signed in", zap.String("provider", user.Provider), zap.String("user", user.ID))
	b.notify(sid, &user)
	return user, nil
}

// saveUser stores user in the session. The session ID is kept only when the
// same user signs in again; anyone else gets a fresh one, and listeners are
// told the previous user's session ended.
func (b *Bridge) saveUser(w http.ResponseWriter, r *http.Request, user User) (string, error) {
	sess, _ := b.store.Get(r, SessionName)
	oldSID, _ := sess.Values[keySessionID].(string)
	oldUserID, _ := sess.Values[keyUserID].(string)

	sid := oldSID
	if sid == "" || oldUserID != user.ID {
		sid = RandomToken()
	}
	sess.Values[keySessionID] = sid
	sess.Values[keyUserID] = user.ID
	sess.Values[keyEmail] = user.Email
	sess.Values[keyDisplayName] = user.DisplayName
	sess.Values[keyProvider] = user.Provider
	delete(sess.Values, keyState)
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}
	if oldSID != "" && oldSID != sid {
		if oldUserID != "" {
			b.logger.Info("replacing signed-in user", zap.String("previous", oldUserID), zap.String("user", user.ID))
		}
		b.notify(oldSID, nil)
	}
	return sid, nil
}

// SignOut ends the session. Failures are logged, not returned.
func (b *Bridge) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, err := b.store.Get(r, SessionName)
	if err != nil {
		b.logger.Warn("sign out: reading session", zap.Error(err))
	}
	sid, _ := sess.Values[keySessionID].(string)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		b.logger.Error("sign out: saving session", zap.Error(err))
	}
	if sid != "" {
		b.notify(sid, nil)
	}
}

func (b *Bridge) CurrentUser(r *http.Request) (User, error) {
	sess, err := b.store.Get(r, SessionName)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrNotSignedIn, err)
	}
	id, ok := sess.Values[keyUserID].(string)
	if !ok || id == "" {
		return User{}, ErrNotSignedIn
	}
	email, _ := sess.Values[keyEmail].(string)
	name, _ := sess.Values[keyDisplayName].(string)
	provider, _ := sess.Values[keyProvider].(string)
	return User{
		ID:          id,
		Email:       email,
		DisplayName: name,
		Provider:    provider,
	}, nil
}

// UserEmail is the email shown for the current user.
func (b *Bridge) UserEmail(r *http.Request) (string, bool) {
	if b.mocked {
		return MockEmail, true
	}
	user, err := b.CurrentUser(r)
	if err != nil {
		return "", false
	}
	return user.Email, true
}

// SessionID returns the per-browser session ID, creating and saving one if
// the session has none yet.
func (b *Bridge) SessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, _ := b.store.Get(r, SessionName)
	if sid, ok := sess.Values[keySessionID].(string); ok && sid != "" {
		return sid, nil
	}
	sid := RandomToken()
	sess.Values[keySessionID] = sid
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}
	return sid, nil
}

// SetState stores an OAuth state value in the session.
func (b *Bridge) SetState(w http.ResponseWriter, r *http.Request, state string) error {
	sess, _ := b.store.Get(r, SessionName)
	sess.Values[keyState] = state
	return sess.Save(r, w)
}

func (b *Bridge) CheckState(r *http.Request, state string) bool {
	sess, _ := b.store.Get(r, SessionName)
	want, ok := sess.Values[keyState].(string)
	return ok && want != "" && want == state
}

func RandomToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
