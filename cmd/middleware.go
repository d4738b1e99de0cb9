package main

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/translateme/translateme/ln"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.wrote = true
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	rec.wrote = true
	return rec.ResponseWriter.Write(b)
}

func (server *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := server.Logger.With(
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		r = r.WithContext(WithLogger(r.Context(), logger))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("request",
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// withRecover turns a panic into a 500. Once the handler has started the
// response, the status can no longer change and the response is left as is.
func (server *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				server.Logger.Error("panic",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("recovered", recovered),
					zap.Bool("response_started", rec.wrote),
					zap.ByteString("stack", debug.Stack()),
				)
				if !rec.wrote {
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}
		}()
		next.ServeHTTP(rec, r)
	})
}

// withCommonData loads the signed-in user (if any) and UI preferences. It
// never rejects a request; requireLogin does that.
func (server *Server) withCommonData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var prefs Preferences
		if _, err := server.getCookie(w, r, "prefs", &prefs); err != nil {
			LogR(r).Debug("ignoring bad prefs cookie", zap.Error(err))
		}
		if prefs.LanguageID == 0 {
			prefs.LanguageID = server.Config.UI.DefaultLanguageID
		}

		commonData := CommonData{
			BuildKey:    server.BuildKey,
			Language:    ln.GetLanguage(prefs.LanguageID),
			GoogleLogin: server.OAuthConfig != nil,
		}

		if user, err := server.Auth.CurrentUser(r); err == nil {
			commonData.User = UserData{
				SignedIn:    true,
				ID:          user.ID,
				Email:       user.Email,
				DisplayName: user.DisplayName,
				Provider:    user.Provider,
			}
			if email, ok := server.Auth.UserEmail(r); ok {
				commonData.User.Email = email
			}
		}

		ctx := WithCommonData(r.Context(), &commonData)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (server *Server) requireLogin(f http.Handler) http.Handler {
	return server.requireSession(f, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
}

func (server *Server) requireAPILogin(f http.Handler) http.Handler {
	return server.requireSession(f, func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, r, ErrUnauthorized)
	})
}

func (server *Server) requireSession(f http.Handler, reject http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		commonData := MustLoadCommonData(r.Context())
		if !commonData.User.SignedIn {
			reject(w, r)
			return
		}

		sid, err := server.Auth.SessionID(w, r)
		if err != nil {
			LogR(r).Error("loading session id", zap.Error(err))
			reject(w, r)
			return
		}
		commonData.SessionID = sid

		f.ServeHTTP(w, r)
	})
}

func chain(h http.Handler, m ...func(http.Handler) http.Handler) http.Handler {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	return h
}

func chainf(h http.HandlerFunc, m ...func(http.Handler) http.Handler) http.Handler {
	return chain(h, m...)
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
