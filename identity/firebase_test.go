package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeToolkit struct {
	accounts map[string]string
}

func writeToolkitError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    400,
			"message": message,
			"errors": []map[string]string{
				{"message": message, "domain": "global", "reason": "invalid"},
			},
		},
	})
}

func (f *fakeToolkit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeToolkitError(w, "INVALID_JSON")
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/signupNewUser"):
		if _, ok := f.accounts[req.Email]; ok {
			writeToolkitError(w, "EMAIL_EXISTS")
			return
		}
		if len(req.Password) < 6 {
			writeToolkitError(w, "WEAK_PASSWORD : Password should be at least 6 characters")
			return
		}
		f.accounts[req.Email] = req.Password
	case strings.HasSuffix(r.URL.Path, "/verifyPassword"):
		pw, ok := f.accounts[req.Email]
		if !ok {
			writeToolkitError(w, "EMAIL_NOT_FOUND")
			return
		}
		if pw != req.Password {
			writeToolkitError(w, "INVALID_PASSWORD")
			return
		}
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"localId":     "uid-" + req.Email,
		"email":       req.Email,
		"displayName": "",
		"idToken":     "token",
	})
}

func newTestFirebase(t *testing.T) *FirebaseProvider {
	t.Helper()
	srv := httptest.NewServer(&fakeToolkit{accounts: map[string]string{}})
	t.Cleanup(srv.Close)

	p, err := NewFirebaseProvider(context.Background(), "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return p
}

func TestFirebase_SignUpThenSignIn(t *testing.T) {
	p := newTestFirebase(t)
	ctx := context.Background()

	user, err := p.SignUp(ctx, " Alice@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "uid-alice@example.com", user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, ProviderFirebase, user.Provider)

	user, err = p.SignIn(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "uid-alice@example.com", user.ID)
}

func TestFirebase_ErrorMapping(t *testing.T) {
	p := newTestFirebase(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "bob@example.com", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = p.SignUp(ctx, "bob@example.com", "longenough")
	require.NoError(t, err)

	_, err = p.SignUp(ctx, "bob@example.com", "longenough")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = p.SignIn(ctx, "bob@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMapFirebaseError_Unknown(t *testing.T) {
	assert.ErrorIs(t, mapFirebaseError(assert.AnError), ErrProviderFailure)
}
