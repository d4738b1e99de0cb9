package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/translateme/translateme/history"
	"github.com/translateme/translateme/ln"
)

func TestHomePage_EscapesUserText(t *testing.T) {
	cd := &CommonData{Language: ln.EN, User: UserData{SignedIn: true, Email: "a@b.c"}}
	screen := history.Screen{Input: "<b>hi</b>", Output: `"quoted" & <i>`, Language: "ko"}
	records := []history.Record{
		history.NewRecord("<script>x</script>", "ok", "Korean", time.Date(2025, time.December, 31, 9, 5, 0, 0, time.Local)),
	}

	var buf bytes.Buffer
	require.NoError(t, HomePage(cd, homeViewFromScreen(screen, records)).Render(context.Background(), &buf))
	body := buf.String()

	assert.NotContains(t, body, "<script>x</script>")
	assert.Contains(t, body, "EN: &lt;script&gt;x&lt;/script&gt;")
	assert.Contains(t, body, "&lt;b&gt;hi&lt;/b&gt;")
	assert.Contains(t, body, "&#34;quoted&#34; &amp; &lt;i&gt;")
	assert.Contains(t, body, "Korean: ok")
	assert.Contains(t, body, "Dec 31, 2025 at 9:05 AM")
	assert.Contains(t, body, `<option value="ko" selected>Korean</option>`)
}

func TestLanguageOptions_FallsBackToDefault(t *testing.T) {
	opts := languageOptions("xx")
	require.Len(t, opts, 3)
	assert.Equal(t, "es", opts[0].Code)
	assert.True(t, opts[0].Selected)
	assert.False(t, opts[1].Selected)
	assert.False(t, opts[2].Selected)
}

func TestFeedback_AddCapsItems(t *testing.T) {
	var fb Feedback
	for range maxFeedbackItems + 3 {
		fb.Add(FBWarning, "careful")
	}
	assert.Len(t, fb.Items, maxFeedbackItems)
	assert.Equal(t, 3, fb.NSkipped)
	assert.Equal(t, "feedback-warning", fb.CSSClass())
}
