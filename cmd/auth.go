package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/translateme/translateme/identity"
)

func (server *Server) getLoginHandler(w http.ResponseWriter, r *http.Request) {
	commonData := MustLoadCommonData(r.Context())
	if commonData.User.SignedIn {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	server.eatFeedbackCookie(w, r)
	_ = LoginPage(commonData).Render(r.Context(), w)
}

func (server *Server) postLoginHandler(w http.ResponseWriter, r *http.Request) {
	commonData := MustLoadCommonData(r.Context())
	l := commonData.Ln()

	action := server.getOptionalFormValue(r, "action")
	email := server.getOptionalFormValue(r, "email")
	password := server.getOptionalFormValue(r, "password")

	var err error
	failure := l.LoginFailed
	switch action {
	case "signup":
		_, err = server.Auth.SignUp(w, r, email, password)
		failure = l.LoginCreateAccountFailed
	case "signin", "":
		_, err = server.Auth.SignIn(w, r, email, password)
	default:
		err = ErrBadRequest
	}

	if err != nil {
		logLoginFailure(r, action, err)
		commonData.Feedback.Add(FBError, failure)
		server.setFeedbackCookie(w, r)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Credential problems are the user's; anything else is ours.
func logLoginFailure(r *http.Request, action string, err error) {
	logger := LogR(r).With(zap.String("action", action), zap.Error(err))
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, ErrBadRequest):
		logger.Info("login rejected")
	default:
		logger.Error("login failed")
	}
}

func (server *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	server.Auth.SignOut(w, r)
	http.Redirect(w, r, "/login", http.StatusFound)
}
