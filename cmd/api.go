package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/translateme/translateme/history"
	"github.com/translateme/translateme/ln"
	"github.com/translateme/translateme/translation"
)

const maxAPIBodyBytes = 64 << 10

type apiTranslateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

type apiTranslateResponse struct {
	Translated string          `json:"translated"`
	Record     *history.Record `json:"record,omitempty"`
}

type apiError struct {
	Error string `json:"error"`
}

type apiMe struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Mocked   bool   `json:"mocked"`
}

type apiLanguage struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
	Default     bool   `json:"default,omitempty"`
}

// jsonHandler decodes the request body into Req, calls f, and writes either
// the response or the error as JSON.
func jsonHandler[Req any, Resp any](w http.ResponseWriter, r *http.Request, f func(req Req) (Resp, error)) {
	var req Req
	body := http.MaxBytesReader(w, r.Body, maxAPIBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, r, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	resp, err := f(req)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		LogR(r).Warn("writing json response", zap.Error(err))
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := getStatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		LogR(r).Error("api error", zap.Error(err))
		msg = ErrInternalServerError.Error()
	}
	writeJSON(w, r, status, apiError{Error: msg})
}

func (server *Server) apiTranslateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commonData := MustLoadCommonData(ctx)

	jsonHandler(w, r, func(req apiTranslateRequest) (apiTranslateResponse, error) {
		target := req.Target
		if target == "" {
			target = translation.DefaultLanguage.Code
		}
		lang, err := translation.ParseLanguage(target)
		if err != nil {
			return apiTranslateResponse{}, err
		}
		translated, rec, err := server.translateAndRecord(ctx, commonData.SessionID, req.Text, lang)
		if err != nil {
			return apiTranslateResponse{}, err
		}
		return apiTranslateResponse{
			Translated: translated,
			Record:     rec,
		}, nil
	})
}

func (server *Server) apiHistoryHandler(w http.ResponseWriter, r *http.Request) {
	commonData := MustLoadCommonData(r.Context())
	records := server.History.List(commonData.SessionID)
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, r, http.StatusOK, records)
}

func (server *Server) apiClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	commonData := MustLoadCommonData(r.Context())
	server.History.Clear(commonData.SessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (server *Server) apiMeHandler(w http.ResponseWriter, r *http.Request) {
	commonData := MustLoadCommonData(r.Context())
	writeJSON(w, r, http.StatusOK, apiMe{
		Email:    commonData.User.Email,
		Provider: commonData.User.Provider,
		Mocked:   server.Auth.IsMocked(),
	})
}

func (server *Server) apiLanguagesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, SliceToSlice(translation.Languages(), func(lang translation.Language) apiLanguage {
		return apiLanguage{
			Code:        lang.Code,
			DisplayName: lang.DisplayName,
			Default:     lang == translation.DefaultLanguage,
		}
	}))
}

// renderError shows err as an error page, or as JSON to API clients.
func (server *Server) renderError(w http.ResponseWriter, r *http.Request, err error, context string) {
	if wantsJSON(r) {
		writeJSONError(w, r, fmt.Errorf("%s: %w", context, err))
		return
	}

	status := getStatusCode(err)
	logger := LogR(r).With(zap.String("context", context), zap.Error(err))
	if status >= http.StatusInternalServerError {
		logger.Error("rendering error page")
	} else {
		logger.Info("rendering error page")
	}

	commonData, cdErr := LoadCommonData(r.Context())
	if cdErr != nil {
		commonData = &CommonData{BuildKey: server.BuildKey, Language: ln.GetLanguage(server.Config.UI.DefaultLanguageID)}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = ErrorPage(commonData, fmt.Sprintf("%s: %v", context, err)).Render(r.Context(), w)
}

func (server *Server) fourOhFourHandler(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, r, http.StatusNotFound, apiError{Error: "not found"})
		return
	}
	commonData := MustLoadCommonData(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = ErrorPage(commonData, fmt.Sprintf("404: %s", r.URL.Path)).Render(r.Context(), w)
}
