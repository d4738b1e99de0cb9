package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const maxFeedbackItems = 10

const (
	feedbackMaxAge = 3600
	// Cookie signatures from sessions.NewCookieStore expire after 30 days.
	preferencesMaxAge = 30 * 24 * 3600
)

type Feedback struct {
	Items    []FeedbackItem
	NSkipped int
}

func (fb Feedback) CSSClass() string {
	var maxFBT FeedbackType
	for _, item := range fb.Items {
		if item.Type > maxFBT {
			maxFBT = item.Type
		}
	}
	return maxFBT.CSSClass()
}

func (fb *Feedback) Add(t FeedbackType, message string) {
	if len(fb.Items) >= maxFeedbackItems {
		fb.NSkipped++
		return
	}
	fb.Items = append(fb.Items, FeedbackItem{Message: message, Type: t})
}

type FeedbackItem struct {
	Message string
	Type    FeedbackType
}

type FeedbackType int32

const (
	FBInfo FeedbackType = iota
	FBSuccess
	FBWarning
	FBError
)

func (fbt FeedbackType) String() string {
	switch fbt {
	case FBInfo:
		return "Info"
	case FBSuccess:
		return "Success"
	case FBWarning:
		return "Warning"
	case FBError:
		return "Error"
	}
	return fmt.Sprintf("FeedbackType(%d)", int32(fbt))
}

func (fbt FeedbackType) CSSClass() string {
	return "feedback-" + strings.ToLower(fbt.String())
}

func (server *Server) setCookie(w http.ResponseWriter, r *http.Request, key string, value any, maxAge int) error {
	str, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshalling cookie '%s': %w", key, err)
	}

	sess, _ := server.Cookies.Get(r, key)
	sess.Values["json"] = string(str)
	sess.Options.MaxAge = maxAge
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("saving cookie for '%s': %w", key, err)
	}

	return nil
}

func (server *Server) getCookie(w http.ResponseWriter, r *http.Request, key string, value any) (bool, error) {
	sess, err := server.Cookies.Get(r, key)
	if err != nil {
		return false, fmt.Errorf("failed to decode cookie session: %v", err)
	}

	str, ok := sess.Values["json"].(string)
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal([]byte(str), value); err != nil {
		return false, fmt.Errorf("failed to unmarshal cookie '%s': %w", key, err)
	}

	return true, nil
}

func (server *Server) eatCookie(w http.ResponseWriter, r *http.Request, key string, value any) (bool, error) {
	sess, err := server.Cookies.Get(r, key)
	if err != nil {
		return false, fmt.Errorf("failed to decode cookie session: %v", err)
	}

	// Eat it regardless of whether it parses
	str, ok := sess.Values["json"].(string)
	if !ok {
		return false, nil
	}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		return false, fmt.Errorf("deleting cookie '%s': %v", key, err)
	}

	if err := json.Unmarshal([]byte(str), value); err != nil {
		return false, fmt.Errorf("failed to unmarshal cookie '%s': %w", key, err)
	}

	return true, nil
}

// setFeedbackCookie carries the current feedback across a redirect.
func (server *Server) setFeedbackCookie(w http.ResponseWriter, r *http.Request) {
	cd := MustLoadCommonData(r.Context())
	if err := server.setCookie(w, r, "feedback", cd.Feedback, feedbackMaxAge); err != nil {
		LogR(r).Error("setting feedback cookie", zap.Error(err))
	}
}

func (server *Server) eatFeedbackCookie(w http.ResponseWriter, r *http.Request) {
	cd := MustLoadCommonData(r.Context())

	var feedback Feedback
	if _, err := server.eatCookie(w, r, "feedback", &feedback); err != nil {
		LogR(r).Warn("reading feedback cookie", zap.Error(err))
		return
	}

	// Feedback from the cookie happened before this request
	cd.Feedback.Items = append(feedback.Items, cd.Feedback.Items...)
	cd.Feedback.NSkipped += feedback.NSkipped
	if len(cd.Feedback.Items) > maxFeedbackItems {
		cd.Feedback.NSkipped += len(cd.Feedback.Items) - maxFeedbackItems
		cd.Feedback.Items = cd.Feedback.Items[:maxFeedbackItems]
	}
}
