package main

import (
	"context"
	"fmt"

	"github.com/translateme/translateme/ln"
)

type ctxKey int32

const (
	ctxKeyCommonData ctxKey = iota
)

func WithCommonData(ctx context.Context, cd *CommonData) context.Context {
	return context.WithValue(ctx, ctxKeyCommonData, cd)
}

func LoadCommonData(ctx context.Context) (*CommonData, error) {
	cd, ok := ctx.Value(ctxKeyCommonData).(*CommonData)
	if !ok {
		return nil, fmt.Errorf("no CommonData in ctx")
	}
	return cd, nil
}

func MustLoadCommonData(ctx context.Context) *CommonData {
	cd, err := LoadCommonData(ctx)
	if err != nil {
		panic(err)
	}
	return cd
}

type CommonData struct {
	BuildKey    string
	User        UserData
	SessionID   string
	Language    *ln.Language
	Feedback    Feedback
	GoogleLogin bool
}

func (cd *CommonData) Ln() *ln.Language {
	if cd.Language == nil {
		return ln.EN
	}
	return cd.Language
}

func (cd *CommonData) StaticURL(file string) string {
	return fmt.Sprintf("/static/%s/%s", cd.BuildKey, file)
}

type UserData struct {
	SignedIn    bool
	ID          string
	Email       string
	DisplayName string
	Provider    string
}

// Preferences survive sign-out; they live in their own cookie.
type Preferences struct {
	LanguageID int32
}
