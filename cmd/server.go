package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/coreos/go-oidc"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/translateme/translateme/history"
	"github.com/translateme/translateme/identity"
	"github.com/translateme/translateme/translation"
)

// Translator is the part of the translation client the handlers use.
type Translator interface {
	Translate(ctx context.Context, text string, target string) (string, error)
}

type Server struct {
	Auth          *identity.Bridge
	Cookies       *sessions.CookieStore
	Translator    Translator
	History       *history.Store
	OAuthConfig   *oauth2.Config
	TokenVerifier *oidc.IDTokenVerifier
	Logger        *zap.Logger
	Runtime       RuntimeInfo
	BuildKey      string
	Config        Config

	now func() time.Time
}

type AuthConfig struct {
	// firebase, local or mock
	Provider                 string
	SessionKeyLocation       string
	OAuthCredentialsLocation string
	OAuthRedirectURI         string
	FirebaseAPIKey           string
	SecureCookies            bool
}

type HTTPConfig struct {
	URL                      string
	ReadTimeoutSeconds       time.Duration
	ReadHeaderTimeoutSeconds time.Duration
	WriteTimeoutSeconds      time.Duration
	IdleTimeoutSeconds       time.Duration
	StaticDir                string
}

type RuntimeInfo struct {
	TimeStarted time.Time
}

type Middleware = func(http.Handler) http.Handler

var ErrUnauthorized = errors.New("unauthorized")
var ErrInternalServerError = errors.New("internal server error")
var ErrBadRequest = errors.New("bad request")
var ErrUpstream = errors.New("translation service unavailable")

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, identity.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadRequest), errors.Is(err, translation.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func loadSessionKey(location string, logger *zap.Logger) ([]byte, error) {
	if location == "" {
		logger.Warn("no session key configured, using an ephemeral one; sessions end on restart")
		return []byte(identity.RandomToken()), nil
	}
	key, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("reading session key: %w", err)
	}
	return key, nil
}

func newCookieStore(key []byte, secure bool) *sessions.CookieStore {
	cookies := sessions.NewCookieStore(key)
	cookies.Options.HttpOnly = true
	cookies.Options.SameSite = http.SameSiteLaxMode
	cookies.Options.Secure = secure
	return cookies
}

func newServer(
	config Config,
	cookies *sessions.CookieStore,
	provider identity.Provider,
	translator Translator,
	logger *zap.Logger,
	buildKey string,
) *Server {
	server := &Server{
		Auth:       identity.NewBridge(cookies, provider, logger),
		Cookies:    cookies,
		Translator: translator,
		History:    history.NewStore(config.History),
		Logger:     logger,
		Runtime: RuntimeInfo{
			TimeStarted: time.Now(),
		},
		BuildKey: buildKey,
		Config:   config,
		now:      time.Now,
	}

	// History belongs to the browser session and goes away with it.
	server.Auth.AddStateListener(func(sessionID string, user *identity.User) {
		if user == nil {
			server.History.Drop(sessionID)
		}
	})

	return server
}

func startServer(ctx context.Context, config Config, provider identity.Provider, logger *zap.Logger, buildKey string) (*Server, error) {
	sessionKey, err := loadSessionKey(config.Auth.SessionKeyLocation, logger)
	if err != nil {
		return nil, err
	}
	cookies := newCookieStore(sessionKey, config.Auth.SecureCookies)

	translator := translation.New(config.Translation, nil)

	server := newServer(config, cookies, provider, translator, logger, buildKey)

	if config.Auth.OAuthCredentialsLocation != "" {
		if err := server.enableGoogleLogin(ctx); err != nil {
			return nil, err
		}
		logger.Info("google sign-in enabled", zap.String("redirect", server.OAuthConfig.RedirectURL))
	}

	return server, nil
}

func (server *Server) HTTPServer() *http.Server {
	config := server.Config.HTTP
	return &http.Server{
		Addr:              config.URL,
		Handler:           server.Handler(),
		ReadTimeout:       config.ReadTimeoutSeconds * time.Second,
		ReadHeaderTimeout: config.ReadHeaderTimeoutSeconds * time.Second,
		WriteTimeout:      config.WriteTimeoutSeconds * time.Second,
		IdleTimeout:       config.IdleTimeoutSeconds * time.Second,
	}
}

func (server *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	public := []Middleware{server.withLogging, server.withCommonData}
	requiresLogin := slices.Clone(public)
	requiresLogin = append(requiresLogin, server.requireLogin)
	requiresAPILogin := slices.Clone(public)
	requiresAPILogin = append(requiresAPILogin, server.requireAPILogin)

	//// PUBLIC
	// Static content
	staticDir := fmt.Sprintf("/static/%s/", server.BuildKey)
	mux.Handle("GET "+staticDir, http.StripPrefix(staticDir, http.FileServer(http.Dir(server.Config.HTTP.StaticDir))))
	mux.Handle("GET /healthz", chainf(server.healthHandler))

	//// LOGIN
	mux.Handle("GET /login", chainf(server.getLoginHandler, public...))
	mux.Handle("POST /login", chainf(server.postLoginHandler, public...))
	mux.Handle("POST /logout", chainf(server.logoutHandler, public...))
	mux.Handle("GET /oauth2/login", chainf(server.googleLoginHandler, public...))
	mux.Handle("GET /oauth2/callback", chainf(server.callbackHandler, public...))
	mux.Handle("POST /language", chainf(server.postLanguageHandler, public...))

	//// LOGGED-IN USER
	// Pages
	mux.Handle("GET /{$}", chainf(server.homeHandler, requiresLogin...))
	mux.Handle("GET /debug", chainf(server.debugHandler, requiresLogin...))
	// Forms
	mux.Handle("POST /translate", chainf(server.postTranslateHandler, requiresLogin...))
	mux.Handle("POST /history/clear", chainf(server.clearHistoryHandler, requiresLogin...))

	//// API
	mux.Handle("POST /api/translate", chainf(server.apiTranslateHandler, requiresAPILogin...))
	mux.Handle("GET /api/history", chainf(server.apiHistoryHandler, requiresAPILogin...))
	mux.Handle("DELETE /api/history", chainf(server.apiClearHistoryHandler, requiresAPILogin...))
	mux.Handle("GET /api/me", chainf(server.apiMeHandler, requiresAPILogin...))
	mux.Handle("GET /api/languages", chainf(server.apiLanguagesHandler, requiresAPILogin...))

	//// FALLBACK
	mux.Handle("/", chainf(server.fourOhFourHandler, public...))

	return chain(mux, server.withRecover)
}

func (server *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (server *Server) getFormValue(r *http.Request, field string) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("%w: parsing form: %v", ErrBadRequest, err)
	}
	values, ok := r.PostForm[field]
	if !ok {
		return "", fmt.Errorf("%w: missing form value '%s'", ErrBadRequest, field)
	}
	if len(values) != 1 {
		return "", fmt.Errorf("%w: expect 1 form value for '%s', got %d", ErrBadRequest, field, len(values))
	}
	return values[0], nil
}

func (server *Server) getOptionalFormValue(r *http.Request, field string) string {
	v, _ := server.getFormValue(r, field)
	return v
}

func (server *Server) redirectToReferer(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if ref, err := url.Parse(r.Header.Get("Referer")); err == nil && strings.HasPrefix(ref.Path, "/") {
		target = ref.Path
	}
	http.Redirect(w, r, target, http.StatusFound)
}
