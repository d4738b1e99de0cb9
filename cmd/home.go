package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/translateme/translateme/history"
	"github.com/translateme/translateme/translation"
)

func (server *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commonData := MustLoadCommonData(ctx)
	server.eatFeedbackCookie(w, r)

	screen := server.History.Screen(commonData.SessionID)
	records := server.History.List(commonData.SessionID)

	_ = HomePage(commonData, homeViewFromScreen(screen, records)).Render(ctx, w)
}

func (server *Server) postTranslateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commonData := MustLoadCommonData(ctx)

	text := strings.TrimSpace(server.getOptionalFormValue(r, "text"))
	target := server.getOptionalFormValue(r, "target")

	if text == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	lang, err := translation.ParseLanguage(target)
	if err != nil {
		server.renderError(w, r, err, "unsupported target language")
		return
	}

	// Errors end up on screen as the output.
	_, _, _ = server.translateAndRecord(ctx, commonData.SessionID, text, lang)

	http.Redirect(w, r, "/", http.StatusFound)
}

// translateAndRecord runs one translation for the session and updates its
// home screen. A record is added only when the call succeeds.
func (server *Server) translateAndRecord(ctx context.Context, sessionID string, text string, lang translation.Language) (string, *history.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil, nil
	}

	screen := history.Screen{
		Input:    text,
		Language: lang.Code,
	}

	translated, err := server.Translator.Translate(ctx, text, lang.Code)
	if err != nil {
		LogCtx(ctx).Warn("translation failed", zap.String("target", lang.Code), zap.Error(err))
		screen.Output = fmt.Sprintf("Error: %s", err.Error())
		server.History.SetScreen(sessionID, screen)
		return "", nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	screen.Output = translated
	server.History.SetScreen(sessionID, screen)

	rec := history.NewRecord(text, translated, lang.DisplayName, server.now())
	server.History.Add(sessionID, rec)
	return translated, &rec, nil
}

func (server *Server) clearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	commonData := MustLoadCommonData(r.Context())
	server.History.Clear(commonData.SessionID)
	server.redirectToReferer(w, r)
}
