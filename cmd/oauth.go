package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/coreos/go-oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/translateme/translateme/identity"
)

const OIDCURL = "https://accounts.google.com"

var ProfileScopes = []string{oidc.ScopeOpenID, "email", "profile"}

type googleCreds struct {
	Web struct {
		ClientID     string   `json:"client_id"`
		ClientSecret string   `json:"client_secret"`
		RedirectURIs []string `json:"redirect_uris"`
	} `json:"web"`
}

func loadCreds(path string) (googleCreds, error) {
	var c googleCreds
	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()
	err = json.NewDecoder(f).Decode(&c)
	return c, err
}

func (server *Server) enableGoogleLogin(ctx context.Context) error {
	c, err := loadCreds(server.Config.Auth.OAuthCredentialsLocation)
	if err != nil {
		return fmt.Errorf("loading oauth credentials: %w", err)
	}

	redirect := server.Config.Auth.OAuthRedirectURI
	if redirect == "" {
		if len(c.Web.RedirectURIs) == 0 {
			return fmt.Errorf("oauth credentials have no redirect URI and none is configured")
		}
		redirect = c.Web.RedirectURIs[0]
	}

	provider, err := oidc.NewProvider(ctx, OIDCURL)
	if err != nil {
		return fmt.Errorf("discovering %s: %w", OIDCURL, err)
	}

	server.OAuthConfig = &oauth2.Config{
		ClientID:     c.Web.ClientID,
		ClientSecret: c.Web.ClientSecret,
		RedirectURL:  redirect,
		Endpoint:     google.Endpoint,
		Scopes:       ProfileScopes,
	}
	server.TokenVerifier = provider.Verifier(&oidc.Config{
		ClientID: c.Web.ClientID,
	})
	return nil
}

func (server *Server) googleLoginHandler(w http.ResponseWriter, r *http.Request) {
	if server.OAuthConfig == nil {
		server.fourOhFourHandler(w, r)
		return
	}
	state := identity.RandomToken()
	if err := server.Auth.SetState(w, r, state); err != nil {
		LogR(r).Error("saving oauth state", zap.Error(err))
		server.renderError(w, r, ErrInternalServerError, "saving session")
		return
	}
	http.Redirect(w, r, server.OAuthConfig.AuthCodeURL(state), http.StatusFound)
}

func (server *Server) callbackHandler(w http.ResponseWriter, r *http.Request) {
	if server.OAuthConfig == nil {
		server.fourOhFourHandler(w, r)
		return
	}
	ctx := r.Context()

	if !server.Auth.CheckState(r, r.URL.Query().Get("state")) {
		server.renderError(w, r, ErrBadRequest, "invalid state")
		return
	}
	token, err := server.OAuthConfig.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		LogR(r).Warn("oauth exchange failed", zap.Error(err))
		server.renderError(w, r, ErrUnauthorized, "exchange failed")
		return
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		server.renderError(w, r, ErrUnauthorized, "no id_token")
		return
	}
	idToken, err := server.TokenVerifier.Verify(ctx, rawIDToken)
	if err != nil {
		LogR(r).Warn("id token verification failed", zap.Error(err))
		server.renderError(w, r, ErrUnauthorized, "verify failed")
		return
	}
	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		server.renderError(w, r, ErrUnauthorized, "claims failed")
		return
	}

	user := identity.User{
		ID:          "google:" + claims.Sub,
		Email:       identity.NormalizeEmail(claims.Email),
		DisplayName: claims.Name,
		Provider:    identity.ProviderGoogle,
	}
	if err := server.Auth.SignInExternal(w, r, user); err != nil {
		LogR(r).Error("saving google sign-in", zap.Error(err))
		server.renderError(w, r, ErrInternalServerError, "saving session")
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
