package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeMyMemory(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, chan *http.Request) {
	t.Helper()
	var calls atomic.Int32
	seen := make(chan *http.Request, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		seen <- r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, seen
}

func TestTranslate_ReturnsTranslatedText(t *testing.T) {
	srv, calls, seen := newFakeMyMemory(t, http.StatusOK, `{"responseData":{"translatedText":"Hola mundo","match":1},"responseStatus":200}`)
	client := New(Config{Endpoint: srv.URL}, srv.Client())

	got, err := client.Translate(context.Background(), "  Hello world\n", "es")
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", got)
	assert.Equal(t, int32(1), calls.Load())

	req := <-seen
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/get", req.URL.Path)
	assert.Equal(t, "Hello world", req.URL.Query().Get("q"))
	assert.Equal(t, "en|es", req.URL.Query().Get("langpair"))
	assert.Empty(t, req.URL.Query().Get("de"))
}

func TestTranslate_BlankInputMakesNoRequest(t *testing.T) {
	srv, calls, _ := newFakeMyMemory(t, http.StatusOK, `{}`)
	client := New(Config{Endpoint: srv.URL}, srv.Client())

	for _, in := range []string{"", "   ", "\n\t "} {
		got, err := client.Translate(context.Background(), in, "fr")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestTranslate_EncodesQueryAndContactEmail(t *testing.T) {
	srv, _, seen := newFakeMyMemory(t, http.StatusOK, `{"responseData":{"translatedText":"x"}}`)
	client := New(Config{Endpoint: srv.URL + "/", ContactEmail: "me@example.com"}, srv.Client())

	_, err := client.Translate(context.Background(), "fish & chips? 100%", "ko")
	require.NoError(t, err)

	req := <-seen
	assert.Equal(t, "fish & chips? 100%", req.URL.Query().Get("q"))
	assert.Equal(t, "en|ko", req.URL.Query().Get("langpair"))
	assert.Equal(t, "me@example.com", req.URL.Query().Get("de"))
}

func TestTranslate_FailedTextWhenEnvelopeIsUnusable(t *testing.T) {
	cases := map[string]string{
		"not json":             `<html>oops</html>`,
		"missing responseData": `{"responseStatus":403}`,
		"missing translation":  `{"responseData":{}}`,
		"translation not text": `{"responseData":{"translatedText":42}}`,
		"responseData not obj": `{"responseData":"nope"}`,
		"empty body":           ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _, _ := newFakeMyMemory(t, http.StatusOK, body)
			client := New(Config{Endpoint: srv.URL}, srv.Client())

			got, err := client.Translate(context.Background(), "Hello", "es")
			require.NoError(t, err)
			assert.Equal(t, FailedText, got)
		})
	}
}

func TestTranslate_ParsesEnvelopeRegardlessOfStatus(t *testing.T) {
	srv, _, _ := newFakeMyMemory(t, http.StatusTooManyRequests, `{"responseData":{"translatedText":"MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY"},"responseStatus":429}`)
	client := New(Config{Endpoint: srv.URL}, srv.Client())

	got, err := client.Translate(context.Background(), "Hello", "es")
	require.NoError(t, err)
	assert.Contains(t, got, "MYMEMORY WARNING")
}

func TestTranslate_TransportErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := New(Config{Endpoint: endpoint}, nil)
	_, err := client.Translate(context.Background(), "Hello", "es")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling translation endpoint")
}

func TestTranslate_CancelledContext(t *testing.T) {
	srv, _, _ := newFakeMyMemory(t, http.StatusOK, `{"responseData":{"translatedText":"x"}}`)
	client := New(Config{Endpoint: srv.URL}, srv.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Translate(ctx, "Hello", "es")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_Defaults(t *testing.T) {
	client := New(Config{}, nil)
	assert.Equal(t, DefaultEndpoint, client.endpoint)
	assert.Equal(t, DefaultTimeout, client.http.Timeout)
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage(" KO ")
	require.NoError(t, err)
	assert.Equal(t, Korean, lang)

	_, err = ParseLanguage("de")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)

	codes := []string{}
	for _, l := range Languages() {
		codes = append(codes, l.Code)
	}
	assert.Equal(t, []string{"es", "fr", "ko"}, codes)
	assert.Equal(t, Spanish, DefaultLanguage)
}
