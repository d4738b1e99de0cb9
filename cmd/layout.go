package main

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/translateme/translateme/ln"
)

type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// text writes s HTML-escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.rawf(` %s="%s"`, name, templ.EscapeString(value))
}

func (h *htmlWriter) render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func component(f func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{ctx: ctx, w: w}
		f(h)
		return h.err
	})
}

// page wraps body in the document shell. Pages that show feedback in their
// own place pass showFeedback=false.
func page(cd *CommonData, title string, showFeedback bool, body templ.Component) templ.Component {
	l := cd.Ln()
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet"`)
		h.attr("href", cd.StaticURL("style.css"))
		h.raw(`></head><body>`)

		h.render(navbar(cd))
		if showFeedback {
			h.render(feedbackList(cd.Feedback))
		}

		h.raw(`<main>`)
		h.render(body)
		h.raw(`</main>`)

		h.raw(`<footer>`)
		h.text(l.AppTitle)
		h.raw(`</footer></body></html>`)
	})
}

func navbar(cd *CommonData) templ.Component {
	l := cd.Ln()
	return component(func(h *htmlWriter) {
		h.raw(`<nav class="navbar">`)
		if cd.User.SignedIn {
			h.raw(`<a href="/">`)
			h.text(l.NavbarTranslator)
			h.raw(`</a><a href="/debug">`)
			h.text(l.NavbarDebug)
			h.raw(`</a><span class="navbar-email">`)
			h.text(cd.User.Email)
			h.raw(`</span><form method="POST" action="/logout"><button type="submit">`)
			h.text(l.AuthSignOut)
			h.raw(`</button></form>`)
		}
		h.raw(`<form method="POST" action="/language" class="navbar-languages">`)
		for _, lang := range ln.All() {
			h.raw(`<button type="submit" name="language"`)
			h.attr("value", fmt.Sprint(lang.ID))
			h.attr("title", lang.SelfName)
			if lang.ID == l.ID {
				h.raw(` class="selected"`)
			}
			h.raw(`>`)
			h.text(lang.Emoji)
			h.raw(`</button>`)
		}
		h.raw(`</form></nav>`)
	})
}

func feedbackList(fb Feedback) templ.Component {
	return component(func(h *htmlWriter) {
		if len(fb.Items) == 0 {
			return
		}
		h.raw(`<ul`)
		h.attr("class", "feedback "+fb.CSSClass())
		h.raw(`>`)
		for _, item := range fb.Items {
			h.raw(`<li`)
			h.attr("class", item.Type.CSSClass())
			h.raw(`>`)
			h.text(item.Message)
			h.raw(`</li>`)
		}
		if fb.NSkipped > 0 {
			h.rawf(`<li>(+%d)</li>`, fb.NSkipped)
		}
		h.raw(`</ul>`)
	})
}

func LoginPage(cd *CommonData) templ.Component {
	l := cd.Ln()
	return page(cd, l.AppTitle, false, component(func(h *htmlWriter) {
		h.raw(`<section class="login"><h1>`)
		h.text(l.AppTitle)
		h.raw(`</h1><p>`)
		h.text(l.LoginWelcome)
		h.raw(`</p><form method="POST" action="/login">`)

		h.raw(`<label for="login-email">`)
		h.text(l.LoginEmail)
		h.raw(`</label><input id="login-email" type="email" name="email" autocomplete="email" autocapitalize="none" required>`)

		h.raw(`<label for="login-password">`)
		h.text(l.LoginPassword)
		h.raw(`</label><input id="login-password" type="password" name="password" autocomplete="current-password" required>`)

		h.raw(`<p class="login-error">`)
		for i, item := range cd.Feedback.Items {
			if i > 0 {
				h.raw(`<br>`)
			}
			h.text(item.Message)
		}
		h.raw(`</p>`)

		h.raw(`<button type="submit" name="action" value="signin">`)
		h.text(l.LoginSignIn)
		h.raw(`</button><button type="submit" name="action" value="signup">`)
		h.text(l.LoginCreateAccount)
		h.raw(`</button></form>`)

		if cd.GoogleLogin {
			h.raw(`<a class="login-google" href="/oauth2/login">`)
			h.text(l.LoginWithGoogle)
			h.raw(`</a>`)
		}
		h.raw(`</section>`)
	}))
}

func HomePage(cd *CommonData, hv HomeView) templ.Component {
	l := cd.Ln()
	return page(cd, l.AppTitle, true, component(func(h *htmlWriter) {
		h.raw(`<section class="translate"><h1>`)
		h.text(l.AppTitle)
		h.raw(`</h1><p>`)
		h.text(l.HomeInstructions)
		h.raw(`</p><form method="POST" action="/translate">`)

		h.raw(`<label for="translate-text">`)
		h.text(l.HomeTextToTranslate)
		h.raw(`</label><textarea id="translate-text" name="text" rows="4">`)
		h.text(hv.Input)
		h.raw(`</textarea>`)

		h.raw(`<label for="translate-target">`)
		h.text(l.HomeTranslateTo)
		h.raw(`</label><select id="translate-target" name="target">`)
		for _, opt := range hv.Languages {
			h.raw(`<option`)
			h.attr("value", opt.Code)
			if opt.Selected {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(opt.Name)
			h.raw(`</option>`)
		}
		h.raw(`</select><button type="submit">`)
		h.text(l.HomeTranslate)
		h.raw(`</button></form>`)

		h.raw(`<h2>`)
		h.text(l.HomeTranslation)
		h.raw(`</h2><div class="translate-output">`)
		if hv.HasOutput() {
			h.text(hv.Output)
		} else {
			h.raw(`<span class="placeholder">`)
			h.text(l.HomeOutputPlaceholder)
			h.raw(`</span>`)
		}
		h.raw(`</div></section>`)

		h.raw(`<section class="history"><h2>`)
		h.text(l.HomeHistory)
		h.raw(`</h2><form method="POST" action="/history/clear"><button type="submit">`)
		h.text(l.HomeClearHistory)
		h.raw(`</button></form>`)
		if len(hv.Records) == 0 {
			h.raw(`<p class="history-empty">`)
			h.text(l.HomeNoTranslations)
			h.raw(`</p>`)
		} else {
			h.raw(`<ul class="history-list">`)
			for _, rec := range hv.Records {
				h.raw(`<li><p class="history-original">`)
				h.text(l.HomeSourcePrefix + ": " + rec.Original)
				h.raw(`</p><p class="history-translated">`)
				h.text(rec.TargetLanguage + ": " + rec.Translated)
				h.raw(`</p><small class="history-date">`)
				h.text(rec.Date)
				h.raw(`</small></li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)
	}))
}

func ErrorPage(cd *CommonData, message string) templ.Component {
	l := cd.Ln()
	return page(cd, l.ErrorPageHead, true, component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(l.ErrorPageHead)
		h.raw(`</h1><p>`)
		h.text(l.ErrorPageInstructions)
		h.raw(`</p><pre class="error-message">`)
		h.text(message)
		h.raw(`</pre>`)
	}))
}

func DebugPage(cd *CommonData, info []DebugInfo) templ.Component {
	l := cd.Ln()
	return page(cd, l.NavbarDebug, true, component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(l.NavbarDebug)
		h.raw(`</h1>`)
		h.render(debugInfoList(info))
	}))
}

func debugInfoList(info []DebugInfo) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<ul class="debug">`)
		for _, item := range info {
			h.raw(`<li><strong>`)
			h.text(item.Name)
			h.raw(`</strong>`)
			if item.Value != nil {
				h.raw(`: `)
				h.text(fmt.Sprint(item.Value))
			}
			if len(item.Children) > 0 {
				h.render(debugInfoList(item.Children))
			}
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
	})
}
