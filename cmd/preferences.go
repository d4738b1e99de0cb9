package main

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/translateme/translateme/ln"
)

// postLanguageHandler switches the UI language. Target languages for
// translation are unaffected.
func (server *Server) postLanguageHandler(w http.ResponseWriter, r *http.Request) {
	value, err := server.getFormValue(r, "language")
	if err != nil {
		server.renderError(w, r, err, "reading language")
		return
	}
	id, err := strconv.ParseInt(value, 10, 32)
	if err != nil || Find(ln.All(), func(lang *ln.Language) bool { return lang.ID == int32(id) }) < 0 {
		server.renderError(w, r, ErrBadRequest, "unknown language '"+value+"'")
		return
	}

	if err := server.setCookie(w, r, "prefs", Preferences{LanguageID: int32(id)}, preferencesMaxAge); err != nil {
		LogR(r).Error("saving preferences", zap.Error(err))
	}
	server.redirectToReferer(w, r)
}
